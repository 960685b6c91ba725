package domain

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type InvoiceItem struct {
	ID        int64           `json:"id"`
	InvoiceID int64           `json:"invoice"`
	ItemName  string          `json:"item_name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"quantity"`
	Tax       decimal.Decimal `json:"tax"`      // percentage
	Discount  decimal.Decimal `json:"discount"` // percentage
	Total     decimal.Decimal `json:"total"`    // computed by the server
}

// ItemInput is the body for creating an invoice item
type ItemInput struct {
	InvoiceID int64           `json:"invoice"`
	ItemName  string          `json:"item_name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"quantity"`
	Tax       decimal.Decimal `json:"tax"`
	Discount  decimal.Decimal `json:"discount"`
}

// ItemForm holds the raw text of the item entry fields
type ItemForm struct {
	InvoiceID string
	ItemName  string
	UnitPrice string
	Quantity  string
	Tax       string
	Discount  string
}

// Default values the item fields are reset to after a successful add
const (
	DefaultItemQuantity = "1"
	DefaultItemTax      = "0"
	DefaultItemDiscount = "0"
)

const (
	MsgInvalidInvoiceID = "Please use a valid Invoice ID from the list above."
	MsgMissingItemField = "Please fill invoice id, item, price and quantity."
)

// ParseInvoiceID parses the invoice id field of the item form
func ParseInvoiceID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, NewValidationError(MsgInvalidInvoiceID)
	}
	return id, nil
}

// Parse validates the form and builds an ItemInput.
// Zero is a legitimate unit price; only blank or unparseable values count as missing.
func (f ItemForm) Parse() (ItemInput, error) {
	id, err := ParseInvoiceID(f.InvoiceID)
	if err != nil {
		return ItemInput{}, err
	}

	name := strings.TrimSpace(f.ItemName)
	priceStr := strings.TrimSpace(f.UnitPrice)
	qtyStr := strings.TrimSpace(f.Quantity)
	if name == "" || priceStr == "" || qtyStr == "" {
		return ItemInput{}, NewValidationError(MsgMissingItemField)
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return ItemInput{}, NewValidationError(MsgMissingItemField)
	}
	if price.IsNegative() {
		return ItemInput{}, NewValidationError("Unit price cannot be negative.")
	}

	qty, err := strconv.ParseInt(qtyStr, 10, 64)
	if err != nil {
		return ItemInput{}, NewValidationError(MsgMissingItemField)
	}
	if qty < 1 {
		return ItemInput{}, NewValidationError("Quantity must be at least 1.")
	}

	tax, err := parsePercent(f.Tax, "Tax")
	if err != nil {
		return ItemInput{}, err
	}
	discount, err := parsePercent(f.Discount, "Discount")
	if err != nil {
		return ItemInput{}, err
	}

	return ItemInput{
		InvoiceID: id,
		ItemName:  name,
		UnitPrice: price,
		Quantity:  qty,
		Tax:       tax,
		Discount:  discount,
	}, nil
}

// parsePercent parses an optional percentage, blank meaning zero
func parsePercent(s, label string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, NewValidationError(label + " must be a number.")
	}
	if d.IsNegative() {
		return decimal.Zero, NewValidationError(label + " cannot be negative.")
	}
	return d, nil
}

// InvoiceDetails is the line-item breakdown of one invoice
type InvoiceDetails struct {
	InvoiceID  int64
	Items      []InvoiceItem
	GrandTotal decimal.Decimal
}

// NewInvoiceDetails sums the server-reported item totals.
// Totals are taken verbatim; price/qty/tax/discount are never re-applied.
func NewInvoiceDetails(invoiceID int64, items []InvoiceItem) *InvoiceDetails {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Total)
	}
	return &InvoiceDetails{
		InvoiceID:  invoiceID,
		Items:      items,
		GrandTotal: total,
	}
}

// CanExportPDF reports whether there is anything to export
func (d *InvoiceDetails) CanExportPDF() bool {
	return len(d.Items) > 0
}
