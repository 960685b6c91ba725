package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/andy/invoicedesk/internal/api"
	"github.com/andy/invoicedesk/internal/domain"
)

// mock implementation
type mockAPI struct {
	invoices  []domain.Invoice
	items     map[int64][]domain.InvoiceItem
	listErr   error
	createErr error

	listCalls   atomic.Int32
	createCalls int
	updateCalls int
	itemCalls   int
	deleted     []int64

	// when set, ListInvoices blocks until release is closed
	release chan struct{}
	entered chan struct{}
}

func (m *mockAPI) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	m.listCalls.Add(1)
	if m.entered != nil {
		m.entered <- struct{}{}
	}
	if m.release != nil {
		<-m.release
	}
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.invoices, nil
}
func (m *mockAPI) GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	for _, inv := range m.invoices {
		if inv.ID == id {
			return &inv, nil
		}
	}
	return nil, &api.Error{StatusCode: 404, Detail: "Not found."}
}
func (m *mockAPI) CreateInvoice(ctx context.Context, in domain.InvoiceInput) (*domain.Invoice, error) {
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &domain.Invoice{ID: 42, Customer: in.Customer, Date: in.Date}, nil
}
func (m *mockAPI) UpdateInvoice(ctx context.Context, id int64, in domain.InvoiceInput) (*domain.Invoice, error) {
	m.updateCalls++
	return &domain.Invoice{ID: id, Customer: in.Customer, Date: in.Date}, nil
}
func (m *mockAPI) DeleteInvoice(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}
func (m *mockAPI) ListItems(ctx context.Context, invoiceID int64) ([]domain.InvoiceItem, error) {
	return m.items[invoiceID], nil
}
func (m *mockAPI) CreateItem(ctx context.Context, in domain.ItemInput) (*domain.InvoiceItem, error) {
	m.itemCalls++
	return &domain.InvoiceItem{ID: 1, InvoiceID: in.InvoiceID, ItemName: in.ItemName}, nil
}
func (m *mockAPI) DeleteItem(ctx context.Context, id int64) error { return nil }
func (m *mockAPI) PDFURL(id int64) string                         { return "http://x/invoice-pdf/7/" }
func (m *mockAPI) DownloadPDF(ctx context.Context, id int64, w io.Writer) (int64, error) {
	n, err := w.Write([]byte("%PDF-1.4"))
	return int64(n), err
}

func newTestService(m *mockAPI) *invoiceService {
	return &invoiceService{api: m, book: NewInvoiceBook(m), log: zap.NewNop()}
}

func validItem(id string) domain.ItemForm {
	return domain.ItemForm{InvoiceID: id, ItemName: "Widget", UnitPrice: "2.50", Quantity: "2"}
}

func TestAddItem_KnownInvoiceIDPasses(t *testing.T) {
	ctx := context.Background()
	m := &mockAPI{invoices: []domain.Invoice{{ID: 7, Customer: "ACME"}}}
	svc := newTestService(m)

	if _, err := svc.ListInvoices(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	item, err := svc.AddItem(ctx, validItem("7"))
	if err != nil {
		t.Fatalf("expected id 7 to pass, got %v", err)
	}
	if item.InvoiceID != 7 || m.itemCalls != 1 {
		t.Fatalf("expected one item request for invoice 7, got %+v (%d calls)", item, m.itemCalls)
	}
}

func TestAddItem_UnknownInvoiceIDRejectedWithoutRequest(t *testing.T) {
	ctx := context.Background()
	m := &mockAPI{invoices: []domain.Invoice{{ID: 7, Customer: "ACME"}}}
	svc := newTestService(m)

	if _, err := svc.ListInvoices(ctx); err != nil {
		t.Fatal(err)
	}

	_, err := svc.AddItem(ctx, validItem("99"))
	if err == nil || err.Error() != domain.MsgInvalidInvoiceID {
		t.Fatalf("expected %q, got %v", domain.MsgInvalidInvoiceID, err)
	}
	if m.itemCalls != 0 {
		t.Fatalf("expected no request, got %d", m.itemCalls)
	}
}

func TestAddItem_ChecksIDBeforeFields(t *testing.T) {
	m := &mockAPI{}
	svc := newTestService(m)

	// nothing loaded yet: every id is unknown, even with blank fields
	_, err := svc.AddItem(context.Background(), domain.ItemForm{InvoiceID: "7"})
	if err == nil || err.Error() != domain.MsgInvalidInvoiceID {
		t.Fatalf("expected invalid id message, got %v", err)
	}
}

func TestAddItem_ReloadFailureEmptiesKnownSet(t *testing.T) {
	ctx := context.Background()
	m := &mockAPI{invoices: []domain.Invoice{{ID: 7}}}
	svc := newTestService(m)

	if _, err := svc.ListInvoices(ctx); err != nil {
		t.Fatal(err)
	}
	m.listErr = &api.Error{StatusCode: 500}
	if _, err := svc.ListInvoices(ctx); err == nil {
		t.Fatal("expected reload error")
	}

	if svc.Book().Known(7) {
		t.Fatalf("expected known set to be cleared after a failed reload")
	}
}

func TestCreateInvoice_EmptyCustomerSendsNoRequest(t *testing.T) {
	m := &mockAPI{}
	svc := newTestService(m)

	_, err := svc.CreateInvoice(context.Background(), "   ", "2024-03-05")
	if err == nil || err.Error() != MsgMissingCreate {
		t.Fatalf("expected %q, got %v", MsgMissingCreate, err)
	}
	if !domain.IsValidation(err) {
		t.Fatalf("expected a validation error, got %T", err)
	}
	if m.createCalls != 0 {
		t.Fatalf("expected no request, got %d", m.createCalls)
	}
}

func TestCreateInvoice_ServerDetailSurfaces(t *testing.T) {
	m := &mockAPI{createErr: &api.Error{StatusCode: 400, Detail: "duplicate customer"}}
	svc := newTestService(m)

	_, err := svc.CreateInvoice(context.Background(), "ACME", "2024-03-05")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := api.Message(err, MsgCreateFailed); got != "duplicate customer" {
		t.Fatalf("expected server detail, got %q", got)
	}
	if m.listCalls.Load() != 0 {
		t.Fatalf("expected no reload, got %d list calls", m.listCalls.Load())
	}
}

func TestUpdateInvoice_Validation(t *testing.T) {
	m := &mockAPI{}
	svc := newTestService(m)
	ctx := context.Background()

	if _, err := svc.UpdateInvoice(ctx, 0, "ACME", "2024-03-05"); err == nil || err.Error() != MsgInvalidInvoice {
		t.Fatalf("expected %q, got %v", MsgInvalidInvoice, err)
	}
	if _, err := svc.UpdateInvoice(ctx, 7, "ACME", ""); err == nil || err.Error() != MsgMissingEdit {
		t.Fatalf("expected %q, got %v", MsgMissingEdit, err)
	}
	if m.updateCalls != 0 {
		t.Fatalf("expected no request, got %d", m.updateCalls)
	}

	inv, err := svc.UpdateInvoice(ctx, 7, " New Name ", "2024-04-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Customer != "New Name" {
		t.Fatalf("expected trimmed customer, got %q", inv.Customer)
	}
}

func TestDeleteInvoice_ForgetsID(t *testing.T) {
	ctx := context.Background()
	m := &mockAPI{invoices: []domain.Invoice{{ID: 7}, {ID: 8}}}
	svc := newTestService(m)

	if _, err := svc.ListInvoices(ctx); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteInvoice(ctx, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Book().Known(7) || !svc.Book().Known(8) {
		t.Fatalf("expected only 7 to be forgotten")
	}
	if last, _ := svc.Book().LastID(); last != 8 {
		t.Fatalf("expected last id 8, got %d", last)
	}
	// the loaded slice handed to the caller is unaffected
	if len(m.invoices) != 2 || m.invoices[0].ID != 7 {
		t.Fatalf("mock invoices were mutated: %+v", m.invoices)
	}
}

func TestInvoiceDetails_GrandTotal(t *testing.T) {
	m := &mockAPI{items: map[int64][]domain.InvoiceItem{
		7: {
			{Total: decimal.RequireFromString("10.00")},
			{Total: decimal.RequireFromString("5.50")},
			{Total: decimal.RequireFromString("3.25")},
		},
	}}
	svc := newTestService(m)

	d, err := svc.InvoiceDetails(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.GrandTotal.StringFixed(2) != "18.75" {
		t.Fatalf("expected 18.75, got %s", d.GrandTotal.StringFixed(2))
	}

	empty, err := svc.InvoiceDetails(context.Background(), 8)
	if err != nil {
		t.Fatal(err)
	}
	if empty.CanExportPDF() {
		t.Fatalf("expected PDF disabled for an invoice without items")
	}
}

func TestDownloadPDF(t *testing.T) {
	svc := newTestService(&mockAPI{})
	var buf bytes.Buffer
	n, err := svc.DownloadPDF(context.Background(), 7, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != int64(buf.Len()) || !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("unexpected PDF body %q", buf.String())
	}
}

func TestInvoiceBook_ConcurrentReloadsShareOneRequest(t *testing.T) {
	m := &mockAPI{
		invoices: []domain.Invoice{{ID: 1}, {ID: 2}},
		release:  make(chan struct{}),
		entered:  make(chan struct{}, 4),
	}
	book := NewInvoiceBook(m)

	var wg sync.WaitGroup
	results := make([][]domain.Invoice, 3)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = book.Reload(context.Background())
	}()
	<-m.entered // first load is in flight

	for i := 1; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = book.Reload(context.Background())
		}(i)
	}
	close(m.release)
	wg.Wait()

	if calls := m.listCalls.Load(); calls < 1 || calls > 3 {
		t.Fatalf("unexpected call count %d", calls)
	}
	if len(results[0]) != 2 {
		t.Fatalf("expected first caller to get the list, got %+v", results[0])
	}
	if !book.Known(1) || !book.Known(2) {
		t.Fatalf("expected ids 1 and 2 to be known")
	}
}

func TestMessages(t *testing.T) {
	if got := DeleteFailedMessage(&api.Error{StatusCode: 500}); got != "Delete failed (status 500)" {
		t.Fatalf("unexpected delete message %q", got)
	}
	if got := DeleteFailedMessage(&api.Error{StatusCode: 403, Detail: "Forbidden"}); got != "Delete failed (status 403): Forbidden" {
		t.Fatalf("expected status and server detail, got %q", got)
	}
	if got := DeleteFailedMessage(&api.Error{StatusCode: 404, Detail: "Not found."}); got != "Delete failed (status 404): Not found." {
		t.Fatalf("expected status and not-found detail, got %q", got)
	}
	if got := DeleteFailedMessage(errors.New("connection refused")); got != "Delete failed: connection refused" {
		t.Fatalf("unexpected transport message %q", got)
	}
	if got := LoadFailedMessage(MsgLoadListFailed, &api.Error{StatusCode: 502}); got != "Failed to load invoices: status 502" {
		t.Fatalf("unexpected load message %q", got)
	}
}

func TestGetInvoice_NotFoundKeepsServerDetail(t *testing.T) {
	svc := newTestService(&mockAPI{invoices: []domain.Invoice{{ID: 7, Customer: "ACME"}}})

	inv, err := svc.GetInvoice(context.Background(), 7)
	if err != nil || inv.Customer != "ACME" {
		t.Fatalf("GetInvoice(7) = %+v, %v", inv, err)
	}

	_, err = svc.GetInvoice(context.Background(), 99)
	if got := api.Message(err, "fallback"); got != "Not found." {
		t.Fatalf("expected server detail, got %q", got)
	}
}

func TestDeleteItem_RejectsInvalidID(t *testing.T) {
	svc := newTestService(&mockAPI{})

	err := svc.DeleteItem(context.Background(), 0)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := svc.DeleteItem(context.Background(), 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
