package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewInvoiceDetails_GrandTotalUsesServerTotals(t *testing.T) {
	items := []InvoiceItem{
		// price*qty deliberately disagrees with total
		{ItemName: "a", UnitPrice: decimal.RequireFromString("1"), Quantity: 1, Total: decimal.RequireFromString("10.00")},
		{ItemName: "b", UnitPrice: decimal.RequireFromString("1"), Quantity: 1, Total: decimal.RequireFromString("5.50")},
		{ItemName: "c", UnitPrice: decimal.RequireFromString("1"), Quantity: 1, Total: decimal.RequireFromString("3.25")},
	}

	d := NewInvoiceDetails(7, items)
	if d.GrandTotal.StringFixed(2) != "18.75" {
		t.Fatalf("expected grand total 18.75, got %s", d.GrandTotal.StringFixed(2))
	}
	if !d.CanExportPDF() {
		t.Fatalf("expected PDF export to be enabled")
	}
}

func TestNewInvoiceDetails_Empty(t *testing.T) {
	d := NewInvoiceDetails(7, nil)
	if !d.GrandTotal.IsZero() {
		t.Fatalf("expected zero grand total, got %s", d.GrandTotal)
	}
	if d.CanExportPDF() {
		t.Fatalf("expected PDF export to be disabled for no items")
	}
}

func TestInvoiceItem_DecodesFloatNumbers(t *testing.T) {
	var it InvoiceItem
	body := `{"id":3,"invoice":7,"item_name":"Widget","unit_price":2.5,"quantity":4,"tax":10.0,"discount":0,"total":11.0}`
	if err := json.Unmarshal([]byte(body), &it); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.InvoiceID != 7 || it.Quantity != 4 {
		t.Fatalf("unexpected item: %+v", it)
	}
	if it.Total.StringFixed(2) != "11.00" {
		t.Fatalf("expected total 11.00, got %s", it.Total.StringFixed(2))
	}
}

func TestInvoice_DecodeFallsBackToPK(t *testing.T) {
	var inv Invoice
	if err := json.Unmarshal([]byte(`{"pk":12,"customer":"ACME"}`), &inv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.ID != 12 {
		t.Fatalf("expected id 12 from pk, got %d", inv.ID)
	}
	if inv.Date != "" {
		t.Fatalf("expected empty date, got %q", inv.Date)
	}
}

func TestItemForm_Parse(t *testing.T) {
	valid := ItemForm{InvoiceID: "7", ItemName: " Widget ", UnitPrice: "2.50", Quantity: "3"}
	in, err := valid.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.InvoiceID != 7 || in.ItemName != "Widget" || in.Quantity != 3 {
		t.Fatalf("unexpected input: %+v", in)
	}
	if !in.Tax.IsZero() || !in.Discount.IsZero() {
		t.Fatalf("expected blank tax/discount to default to zero, got %s/%s", in.Tax, in.Discount)
	}
}

func TestItemForm_ParseAcceptsZeroPrice(t *testing.T) {
	f := ItemForm{InvoiceID: "7", ItemName: "Freebie", UnitPrice: "0", Quantity: "1"}
	if _, err := f.Parse(); err != nil {
		t.Fatalf("expected zero price to be accepted, got %v", err)
	}
}

func TestItemForm_ParseRejects(t *testing.T) {
	cases := []struct {
		name string
		form ItemForm
		msg  string
	}{
		{"bad id", ItemForm{InvoiceID: "x", ItemName: "a", UnitPrice: "1", Quantity: "1"}, MsgInvalidInvoiceID},
		{"missing name", ItemForm{InvoiceID: "7", UnitPrice: "1", Quantity: "1"}, MsgMissingItemField},
		{"missing price", ItemForm{InvoiceID: "7", ItemName: "a", Quantity: "1"}, MsgMissingItemField},
		{"missing qty", ItemForm{InvoiceID: "7", ItemName: "a", UnitPrice: "1"}, MsgMissingItemField},
		{"zero qty", ItemForm{InvoiceID: "7", ItemName: "a", UnitPrice: "1", Quantity: "0"}, "Quantity must be at least 1."},
		{"negative price", ItemForm{InvoiceID: "7", ItemName: "a", UnitPrice: "-1", Quantity: "1"}, "Unit price cannot be negative."},
		{"bad tax", ItemForm{InvoiceID: "7", ItemName: "a", UnitPrice: "1", Quantity: "1", Tax: "abc"}, "Tax must be a number."},
	}

	for _, tc := range cases {
		_, err := tc.form.Parse()
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		if !IsValidation(err) {
			t.Errorf("%s: expected validation error, got %T", tc.name, err)
		}
		if err.Error() != tc.msg {
			t.Errorf("%s: message = %q, want %q", tc.name, err.Error(), tc.msg)
		}
	}
}

func TestNewInvoiceInput(t *testing.T) {
	in, err := NewInvoiceInput("  ACME  ", "2024-03-05", "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Customer != "ACME" {
		t.Fatalf("expected trimmed customer, got %q", in.Customer)
	}

	if _, err := NewInvoiceInput("   ", "2024-03-05", "missing"); err == nil || err.Error() != "missing" {
		t.Fatalf("expected missing error, got %v", err)
	}
	if _, err := NewInvoiceInput("ACME", "", "missing"); err == nil || err.Error() != "missing" {
		t.Fatalf("expected missing error, got %v", err)
	}
	if _, err := NewInvoiceInput("ACME", "05/03/2024", "missing"); err == nil {
		t.Fatalf("expected date format error")
	}
}
