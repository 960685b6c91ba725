package service

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/andy/invoicedesk/internal/domain"
)

// InvoiceBook owns the last loaded invoice list and the set of ids in it.
// The item flow checks ids against this set before sending anything.
type InvoiceBook struct {
	api   API
	group singleflight.Group

	mu     sync.RWMutex
	known  map[int64]struct{}
	latest []domain.Invoice
}

// NewInvoiceBook creates an empty book
func NewInvoiceBook(api API) *InvoiceBook {
	return &InvoiceBook{
		api:   api,
		known: make(map[int64]struct{}),
	}
}

// Reload fetches the invoice list. Concurrent callers share one request.
// The known set is emptied as soon as the reload starts and stays empty on failure.
func (b *InvoiceBook) Reload(ctx context.Context) ([]domain.Invoice, error) {
	v, err, _ := b.group.Do("invoices", func() (any, error) {
		b.Invalidate()

		invoices, err := b.api.ListInvoices(ctx)
		if err != nil {
			return nil, err
		}
		b.set(invoices)
		return invoices, nil
	})
	if err != nil {
		return nil, err
	}

	shared := v.([]domain.Invoice)
	out := make([]domain.Invoice, len(shared))
	copy(out, shared)
	return out, nil
}

// Known reports whether id was in the last successful load
func (b *InvoiceBook) Known(id int64) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.known[id]
	return ok
}

// LastID returns the id of the last invoice in list order
func (b *InvoiceBook) LastID() (int64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.latest) == 0 {
		return 0, false
	}
	return b.latest[len(b.latest)-1].ID, true
}

// Invalidate forgets the list, as when the table is cleared
func (b *InvoiceBook) Invalidate() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.known = make(map[int64]struct{})
	b.latest = nil
}

func (b *InvoiceBook) forget(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.known, id)
	for i, inv := range b.latest {
		if inv.ID == id {
			b.latest = append(b.latest[:i:i], b.latest[i+1:]...)
			break
		}
	}
}

func (b *InvoiceBook) set(invoices []domain.Invoice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.known = make(map[int64]struct{}, len(invoices))
	for _, inv := range invoices {
		b.known[inv.ID] = struct{}{}
	}
	b.latest = make([]domain.Invoice, len(invoices))
	copy(b.latest, invoices)
}
