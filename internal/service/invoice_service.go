package service

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/andy/invoicedesk/internal/domain"
)

// InvoiceService runs the invoice and item flows against the server
type InvoiceService interface {
	// ListInvoices reloads the list and the known-id set
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)

	// GetInvoice fetches one invoice
	GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error)

	// CreateInvoice validates and posts a new invoice
	CreateInvoice(ctx context.Context, customer, date string) (*domain.Invoice, error)

	// UpdateInvoice replaces customer and date of an existing invoice
	UpdateInvoice(ctx context.Context, id int64, customer, date string) (*domain.Invoice, error)

	// DeleteInvoice removes an invoice
	DeleteInvoice(ctx context.Context, id int64) error

	// ValidateItem checks the item form against the known ids without sending anything
	ValidateItem(form domain.ItemForm) (domain.ItemInput, error)

	// AddItem validates the item form and posts it
	AddItem(ctx context.Context, form domain.ItemForm) (*domain.InvoiceItem, error)

	// DeleteItem removes one line item
	DeleteItem(ctx context.Context, id int64) error

	// InvoiceDetails loads the items of an invoice with their grand total
	InvoiceDetails(ctx context.Context, id int64) (*domain.InvoiceDetails, error)

	// PDFURL is where the server renders the invoice PDF
	PDFURL(id int64) string

	// DownloadPDF writes the invoice PDF to w
	DownloadPDF(ctx context.Context, id int64, w io.Writer) (int64, error)

	// Book exposes the list state
	Book() *InvoiceBook
}

type invoiceService struct {
	api  API
	book *InvoiceBook
	log  *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(api API, book *InvoiceBook, log *zap.Logger) InvoiceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &invoiceService{
		api:  api,
		book: book,
		log:  log,
	}
}

func (s *invoiceService) Book() *InvoiceBook {
	return s.book
}

func (s *invoiceService) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	invoices, err := s.book.Reload(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	inv, err := s.api.GetInvoice(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice %d: %w", id, err)
	}
	return inv, nil
}

func (s *invoiceService) CreateInvoice(ctx context.Context, customer, date string) (*domain.Invoice, error) {
	in, err := domain.NewInvoiceInput(customer, date, MsgMissingCreate)
	if err != nil {
		return nil, err
	}

	inv, err := s.api.CreateInvoice(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	s.log.Info("invoice created", zap.Int64("invoice_id", inv.ID))
	return inv, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id int64, customer, date string) (*domain.Invoice, error) {
	if id <= 0 {
		return nil, domain.NewValidationError(MsgInvalidInvoice)
	}
	in, err := domain.NewInvoiceInput(customer, date, MsgMissingEdit)
	if err != nil {
		return nil, err
	}

	inv, err := s.api.UpdateInvoice(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("failed to update invoice %d: %w", id, err)
	}
	s.log.Info("invoice updated", zap.Int64("invoice_id", id))
	return inv, nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.NewValidationError(MsgInvalidInvoice)
	}
	if err := s.api.DeleteInvoice(ctx, id); err != nil {
		return fmt.Errorf("failed to delete invoice %d: %w", id, err)
	}
	s.book.forget(id)
	s.log.Info("invoice deleted", zap.Int64("invoice_id", id))
	return nil
}

func (s *invoiceService) ValidateItem(form domain.ItemForm) (domain.ItemInput, error) {
	id, err := domain.ParseInvoiceID(form.InvoiceID)
	if err != nil {
		return domain.ItemInput{}, err
	}
	if !s.book.Known(id) {
		return domain.ItemInput{}, domain.NewValidationError(domain.MsgInvalidInvoiceID)
	}
	return form.Parse()
}

func (s *invoiceService) AddItem(ctx context.Context, form domain.ItemForm) (*domain.InvoiceItem, error) {
	in, err := s.ValidateItem(form)
	if err != nil {
		return nil, err
	}

	item, err := s.api.CreateItem(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}
	s.log.Info("item added", zap.Int64("invoice_id", in.InvoiceID), zap.Int64("item_id", item.ID))
	return item, nil
}

func (s *invoiceService) DeleteItem(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.NewValidationError("Invalid item.")
	}
	if err := s.api.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("failed to delete item %d: %w", id, err)
	}
	s.log.Info("item deleted", zap.Int64("item_id", id))
	return nil
}

func (s *invoiceService) InvoiceDetails(ctx context.Context, id int64) (*domain.InvoiceDetails, error) {
	items, err := s.api.ListItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load items of invoice %d: %w", id, err)
	}
	return domain.NewInvoiceDetails(id, items), nil
}

func (s *invoiceService) PDFURL(id int64) string {
	return s.api.PDFURL(id)
}

func (s *invoiceService) DownloadPDF(ctx context.Context, id int64, w io.Writer) (int64, error) {
	n, err := s.api.DownloadPDF(ctx, id, w)
	if err != nil {
		return n, fmt.Errorf("failed to download PDF of invoice %d: %w", id, err)
	}
	return n, nil
}
