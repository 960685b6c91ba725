package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/andy/invoicedesk/internal/domain"
	"github.com/andy/invoicedesk/internal/service"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Manage invoice line items",
}

var itemsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a line item to an invoice",
	Long: `Add a line item to an existing invoice.

The invoice list is fetched first; the item is only sent when the invoice id
is one the server currently lists. Without --invoice the last listed invoice
is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		flagID, _ := cmd.Flags().GetInt64("invoice")
		name, _ := cmd.Flags().GetString("name")
		price, _ := cmd.Flags().GetString("price")
		qty, _ := cmd.Flags().GetString("qty")
		tax, _ := cmd.Flags().GetString("tax")
		discount, _ := cmd.Flags().GetString("discount")

		if _, err := appInstance.InvoiceService.ListInvoices(ctx); err != nil {
			return failure(err, service.MsgLoadListFailed)
		}

		invoiceID, err := pickInvoiceID(cmd.Flags().Changed("invoice"), flagID, appInstance.InvoiceBook.LastID)
		if err != nil {
			return err
		}

		form := domain.ItemForm{
			InvoiceID: strconv.FormatInt(invoiceID, 10),
			ItemName:  name,
			UnitPrice: price,
			Quantity:  qty,
			Tax:       tax,
			Discount:  discount,
		}

		item, err := appInstance.InvoiceService.AddItem(ctx, form)
		if err != nil {
			return failure(err, service.MsgAddItemFailed)
		}

		fmt.Printf("✓ %s #%d to invoice #%d (total %s)\n",
			service.MsgItemAdded, item.ID, invoiceID, item.Total.StringFixed(2))
		return nil
	},
}

var itemsDeleteCmd = &cobra.Command{
	Use:   "delete [item_id]",
	Short: "Delete a line item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "item")
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirmPrompt(fmt.Sprintf("Delete item #%d?", id)) {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := appInstance.InvoiceService.DeleteItem(context.Background(), id); err != nil {
			return &actionError{msg: service.DeleteFailedMessage(err), err: err}
		}

		fmt.Printf("✓ Item #%d deleted\n", id)
		return nil
	},
}

// pickInvoiceID returns the --invoice value when given, otherwise the last
// invoice of the list just loaded.
func pickInvoiceID(set bool, flagID int64, last func() (int64, bool)) (int64, error) {
	if set {
		return flagID, nil
	}
	id, ok := last()
	if !ok {
		return 0, domain.NewValidationError(service.MsgNoInvoices)
	}
	return id, nil
}

func init() {
	itemsCmd.AddCommand(itemsAddCmd)
	itemsCmd.AddCommand(itemsDeleteCmd)

	itemsAddCmd.Flags().Int64("invoice", 0, "Invoice ID (defaults to the last listed invoice)")
	itemsAddCmd.Flags().String("name", "", "Item name (required)")
	itemsAddCmd.Flags().String("price", "", "Unit price (required)")
	itemsAddCmd.Flags().String("qty", "", "Quantity (required)")
	itemsAddCmd.Flags().String("tax", "", "Tax percentage")
	itemsAddCmd.Flags().String("discount", "", "Discount percentage")

	itemsDeleteCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
