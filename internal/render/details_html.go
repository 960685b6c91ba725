package render

import (
	"fmt"
	"io"
	"text/template"

	"github.com/shopspring/decimal"

	"github.com/andy/invoicedesk/internal/domain"
)

// Server strings are passed through escape explicitly; text/template does no escaping of its own.
const detailsHTMLTemplate = `{{if not .Items}}<p>No items found.</p>
{{else}}<table class="table">
  <thead>
    <tr>
      <th>Item</th>
      <th>Qty</th>
      <th>Unit</th>
      <th>Tax %</th>
      <th>Discount %</th>
      <th>Total</th>
    </tr>
  </thead>
  <tbody>
{{- range .Items}}
    <tr>
      <td>{{escape .ItemName}}</td>
      <td>{{.Quantity}}</td>
      <td>{{money .UnitPrice}}</td>
      <td>{{money .Tax}}</td>
      <td>{{money .Discount}}</td>
      <td>{{money .Total}}</td>
    </tr>
{{- end}}
  </tbody>
</table>
<div style="margin-top:12px; text-align:right; font-weight:600;">
  Grand Total: {{money .GrandTotal}}
</div>
{{end}}`

var detailsTmpl = template.Must(template.New("details").Funcs(template.FuncMap{
	"escape": domain.EscapeHTML,
	"money":  func(d decimal.Decimal) string { return d.StringFixed(2) },
}).Parse(detailsHTMLTemplate))

// DetailsHTML writes the details panel of an invoice as an HTML fragment
func DetailsHTML(w io.Writer, d *domain.InvoiceDetails) error {
	if err := detailsTmpl.Execute(w, d); err != nil {
		return fmt.Errorf("failed to render details: %w", err)
	}
	return nil
}

// ErrorHTML writes an error paragraph in place of the details table
func ErrorHTML(w io.Writer, msg string) error {
	_, err := fmt.Fprintf(w, "<p class=\"error\">%s</p>\n", domain.EscapeHTML(msg))
	return err
}
