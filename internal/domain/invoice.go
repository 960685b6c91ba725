package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// dateLayout is the wire format the server uses for invoice dates
const dateLayout = "2006-01-02"

type Invoice struct {
	ID        int64
	Customer  string
	Date      string // ISO-8601 as sent by the server
	CreatedAt string
	UpdatedAt string

	// Nested items, when the server includes them
	Items []InvoiceItem
}

// invoiceWire is the JSON shape returned by the server
type invoiceWire struct {
	ID        *int64        `json:"id"`
	PK        *int64        `json:"pk"`
	Customer  *string       `json:"customer"`
	Date      *string       `json:"date"`
	Items     []InvoiceItem `json:"items"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
}

// UnmarshalJSON decodes an invoice, falling back to "pk" when "id" is absent
// and to empty strings for missing customer/date.
func (i *Invoice) UnmarshalJSON(data []byte) error {
	var w invoiceWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*i = Invoice{
		Items:     w.Items,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
	switch {
	case w.ID != nil:
		i.ID = *w.ID
	case w.PK != nil:
		i.ID = *w.PK
	}
	if w.Customer != nil {
		i.Customer = *w.Customer
	}
	if w.Date != nil {
		i.Date = *w.Date
	}
	return nil
}

// InvoiceInput is the full-replacement body for creating or updating an invoice
type InvoiceInput struct {
	Customer string `json:"customer"`
	Date     string `json:"date"`
}

// NewInvoiceInput trims the customer name and validates presence of both fields.
// missingMsg is the message shown when either field is blank; create and edit
// word it differently.
func NewInvoiceInput(customer, date, missingMsg string) (InvoiceInput, error) {
	in := InvoiceInput{
		Customer: strings.TrimSpace(customer),
		Date:     strings.TrimSpace(date),
	}
	if in.Customer == "" || in.Date == "" {
		return InvoiceInput{}, NewValidationError(missingMsg)
	}
	if _, err := time.Parse(dateLayout, in.Date); err != nil {
		return InvoiceInput{}, NewValidationError("Date must be in yyyy-mm-dd format.")
	}
	return in, nil
}
