package service

import (
	"context"
	"io"

	"github.com/andy/invoicedesk/internal/domain"
)

// API is the part of the REST client the services rely on.
// *api.Client satisfies it.
type API interface {
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
	GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error)
	CreateInvoice(ctx context.Context, in domain.InvoiceInput) (*domain.Invoice, error)
	UpdateInvoice(ctx context.Context, id int64, in domain.InvoiceInput) (*domain.Invoice, error)
	DeleteInvoice(ctx context.Context, id int64) error

	ListItems(ctx context.Context, invoiceID int64) ([]domain.InvoiceItem, error)
	CreateItem(ctx context.Context, in domain.ItemInput) (*domain.InvoiceItem, error)
	DeleteItem(ctx context.Context, id int64) error

	PDFURL(id int64) string
	DownloadPDF(ctx context.Context, id int64, w io.Writer) (int64, error)
}
