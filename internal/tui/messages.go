package tui

import "github.com/andy/invoicedesk/internal/domain"

type invoicesLoadedMsg struct {
	invoices []domain.Invoice
	err      error
}

type invoiceCreatedMsg struct {
	invoice *domain.Invoice
	err     error
}

type invoiceUpdatedMsg struct {
	seq int
	err error
}

type invoiceDeletedMsg struct {
	id  int64
	err error
}

type itemAddedMsg struct {
	invoiceID int64
	err       error
}

type itemDeletedMsg struct {
	invoiceID int64
	err       error
}

type detailsLoadedMsg struct {
	invoiceID int64
	details   *domain.InvoiceDetails
	err       error
}

// pdfDoneMsg reports the outcome of opening or saving a PDF
type pdfDoneMsg struct {
	path string // empty when opened in the browser
	err  error
}

// closeEditMsg fires after a successful update; seq ties it to the modal it was meant for
type closeEditMsg struct {
	seq int
}
