package service

import (
	"fmt"

	"github.com/andy/invoicedesk/internal/api"
)

// User-facing messages shared by the TUI and the CLI
const (
	MsgNoInvoices       = "No invoices found."
	MsgNoItems          = "No items found."
	MsgMissingCreate    = "Please fill customer and date."
	MsgMissingEdit      = "Please fill required fields"
	MsgInvalidInvoice   = "Invalid invoice."
	MsgInvoiceCreated   = "Invoice created!"
	MsgInvoiceUpdated   = "Updated successfully!"
	MsgItemAdded        = "Item added!"
	MsgCreateFailed     = "Create failed."
	MsgUpdateFailed     = "Update failed."
	MsgAddItemFailed    = "Add item failed."
	MsgLoadListFailed   = "Failed to load invoices"
	MsgLoadDetailFailed = "Failed to load details"
)

// DeleteFailedMessage describes a failed delete. The status is always named
// when the server answered; its detail, if any, follows.
func DeleteFailedMessage(err error) string {
	if err == nil {
		return ""
	}
	if status := api.StatusCode(err); status != 0 {
		msg := fmt.Sprintf("Delete failed (status %d)", status)
		if detail := api.Message(err, ""); detail != "" {
			msg += ": " + detail
		}
		return msg
	}
	return "Delete failed: " + err.Error()
}

// LoadFailedMessage prefixes the failure reason with what was being loaded
func LoadFailedMessage(prefix string, err error) string {
	if err == nil {
		return ""
	}
	return prefix + ": " + api.Message(err, fmt.Sprintf("status %d", api.StatusCode(err)))
}
