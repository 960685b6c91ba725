package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/andy/invoicedesk/internal/domain"
)

func TestDetailsHTML_EscapesItemNames(t *testing.T) {
	d := domain.NewInvoiceDetails(7, []domain.InvoiceItem{
		{ItemName: `<script>"x"&</script>`, Quantity: 2, UnitPrice: decimal.RequireFromString("2.5"), Total: decimal.RequireFromString("5")},
		{ItemName: "Plain", Quantity: 1, UnitPrice: decimal.RequireFromString("13.75"), Total: decimal.RequireFromString("13.75")},
	})

	var buf bytes.Buffer
	if err := DetailsHTML(&buf, d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	if strings.Contains(out, "<script>") {
		t.Fatalf("item name was not escaped:\n%s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;&quot;x&quot;&amp;&lt;/script&gt;") {
		t.Fatalf("expected escaped item name:\n%s", out)
	}
	if !strings.Contains(out, "<td>2.50</td>") {
		t.Fatalf("expected unit price with 2 decimals:\n%s", out)
	}
	if !strings.Contains(out, "Grand Total: 18.75") {
		t.Fatalf("expected grand total 18.75:\n%s", out)
	}
}

func TestDetailsHTML_NoItems(t *testing.T) {
	var buf bytes.Buffer
	if err := DetailsHTML(&buf, domain.NewInvoiceDetails(7, nil)); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "<p>No items found.</p>" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestErrorHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := ErrorHTML(&buf, "bad <thing>"); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "<p class=\"error\">bad &lt;thing&gt;</p>\n" {
		t.Fatalf("unexpected output %q", got)
	}
}
