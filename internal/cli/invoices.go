package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/andy/invoicedesk/internal/api"
	"github.com/andy/invoicedesk/internal/domain"
	"github.com/andy/invoicedesk/internal/render"
	"github.com/andy/invoicedesk/internal/service"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Manage invoices",
	Long:  `List, create, edit, delete and export invoices on the server.`,
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		invoices, err := appInstance.InvoiceService.ListInvoices(ctx)
		if err != nil {
			return failure(err, service.MsgLoadListFailed)
		}

		if len(invoices) == 0 {
			fmt.Println(service.MsgNoInvoices)
			return nil
		}

		fmt.Printf("%-6s %-30s %-12s\n", "ID", "Customer", "Date")
		fmt.Println("----------------------------------------------------")
		for _, inv := range invoices {
			fmt.Printf("%-6d %-30s %-12s\n",
				inv.ID,
				truncate(domain.SanitizeTerminal(inv.Customer), 30),
				domain.SanitizeTerminal(domain.FormatDateShort(inv.Date)),
			)
		}

		fmt.Printf("\nTotal: %d invoice(s)\n", len(invoices))
		return nil
	},
}

var invoicesGetCmd = &cobra.Command{
	Use:   "get [invoice_id]",
	Short: "Show one invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "invoice")
		if err != nil {
			return err
		}

		inv, err := appInstance.InvoiceService.GetInvoice(context.Background(), id)
		if api.IsNotFound(err) {
			return &actionError{msg: fmt.Sprintf("Invoice %d not found.", id), err: err}
		}
		if err != nil {
			return failure(err, fmt.Sprintf("Failed to get invoice %d.", id))
		}

		fmt.Printf("Invoice #%d\n", inv.ID)
		fmt.Printf("  Customer: %s\n", domain.SanitizeTerminal(inv.Customer))
		fmt.Printf("  Date:     %s\n", domain.SanitizeTerminal(domain.FormatDateShort(inv.Date)))
		if inv.CreatedAt != "" {
			fmt.Printf("  Created:  %s\n", domain.SanitizeTerminal(domain.FormatDateShort(inv.CreatedAt)))
		}
		if len(inv.Items) > 0 {
			fmt.Printf("  Items:    %d\n", len(inv.Items))
		}
		return nil
	},
}

var invoicesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new invoice",
	RunE: func(cmd *cobra.Command, args []string) error {
		customer, _ := cmd.Flags().GetString("customer")
		date, _ := cmd.Flags().GetString("date")

		inv, err := appInstance.InvoiceService.CreateInvoice(context.Background(), customer, date)
		if err != nil {
			return failure(err, service.MsgCreateFailed)
		}

		fmt.Printf("✓ %s #%d\n", service.MsgInvoiceCreated, inv.ID)
		return nil
	},
}

var invoicesUpdateCmd = &cobra.Command{
	Use:   "update [invoice_id]",
	Short: "Replace customer and date of an invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "invoice")
		if err != nil {
			return err
		}
		customer, _ := cmd.Flags().GetString("customer")
		date, _ := cmd.Flags().GetString("date")

		if _, err := appInstance.InvoiceService.UpdateInvoice(context.Background(), id, customer, date); err != nil {
			return failure(err, service.MsgUpdateFailed)
		}

		fmt.Printf("✓ %s\n", service.MsgInvoiceUpdated)
		return nil
	},
}

var invoicesDeleteCmd = &cobra.Command{
	Use:   "delete [invoice_id]",
	Short: "Delete an invoice and its items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "invoice")
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirmPrompt(fmt.Sprintf("Delete invoice #%d?", id)) {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := appInstance.InvoiceService.DeleteInvoice(context.Background(), id); err != nil {
			return &actionError{msg: service.DeleteFailedMessage(err), err: err}
		}

		fmt.Printf("✓ Invoice #%d deleted\n", id)
		return nil
	},
}

var invoicesShowCmd = &cobra.Command{
	Use:   "show [invoice_id]",
	Short: "Show the line items of an invoice with the grand total",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "invoice")
		if err != nil {
			return err
		}
		asHTML, _ := cmd.Flags().GetBool("html")

		details, err := appInstance.InvoiceService.InvoiceDetails(context.Background(), id)
		if err != nil {
			if asHTML {
				return render.ErrorHTML(os.Stdout, service.LoadFailedMessage(service.MsgLoadDetailFailed, err))
			}
			return failure(err, service.MsgLoadDetailFailed)
		}

		if asHTML {
			return render.DetailsHTML(os.Stdout, details)
		}

		if !details.CanExportPDF() {
			fmt.Println(service.MsgNoItems)
			return nil
		}

		fmt.Printf("%-6s %-24s %5s %10s %7s %10s %10s\n", "ID", "Item", "Qty", "Unit", "Tax %", "Discount %", "Total")
		fmt.Println("-----------------------------------------------------------------------------")
		for _, it := range details.Items {
			fmt.Printf("%-6d %-24s %5d %10s %7s %10s %10s\n",
				it.ID,
				truncate(domain.SanitizeTerminal(it.ItemName), 24),
				it.Quantity,
				it.UnitPrice.StringFixed(2),
				it.Tax.StringFixed(2),
				it.Discount.StringFixed(2),
				it.Total.StringFixed(2),
			)
		}
		fmt.Printf("\n%77s\n", "Grand Total: "+details.GrandTotal.StringFixed(2))
		fmt.Printf("PDF: %s\n", appInstance.InvoiceService.PDFURL(id))
		return nil
	},
}

var invoicesPDFCmd = &cobra.Command{
	Use:   "pdf [invoice_id]",
	Short: "Download or open the invoice PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		id, err := parseID(args[0], "invoice")
		if err != nil {
			return err
		}

		open := appInstance.Config.PDF.OpenInBrowser
		if cmd.Flags().Changed("open") {
			open, _ = cmd.Flags().GetBool("open")
		}
		if open {
			url := appInstance.InvoiceService.PDFURL(id)
			if err := browser.OpenURL(url); err != nil {
				return fmt.Errorf("failed to open %s: %w", url, err)
			}
			return nil
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = filepath.Join(appInstance.Config.PDF.OutputDir, fmt.Sprintf("invoice-%d.pdf", id))
		}
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		n, err := appInstance.InvoiceService.DownloadPDF(ctx, id, f)
		if err != nil {
			f.Close()
			os.Remove(out)
			return failure(err, fmt.Sprintf("PDF download failed for invoice %d.", id))
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}

		fmt.Printf("✓ Saved %s (%d bytes)\n", out, n)
		return nil
	},
}

func init() {
	invoicesCmd.AddCommand(invoicesListCmd)
	invoicesCmd.AddCommand(invoicesGetCmd)
	invoicesCmd.AddCommand(invoicesCreateCmd)
	invoicesCmd.AddCommand(invoicesUpdateCmd)
	invoicesCmd.AddCommand(invoicesDeleteCmd)
	invoicesCmd.AddCommand(invoicesShowCmd)
	invoicesCmd.AddCommand(invoicesPDFCmd)

	invoicesCreateCmd.Flags().String("customer", "", "Customer name (required)")
	invoicesCreateCmd.Flags().String("date", "", "Invoice date, yyyy-mm-dd (required)")

	invoicesUpdateCmd.Flags().String("customer", "", "Customer name (required)")
	invoicesUpdateCmd.Flags().String("date", "", "Invoice date, yyyy-mm-dd (required)")

	invoicesDeleteCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	invoicesShowCmd.Flags().Bool("html", false, "Print the details as an HTML fragment")

	invoicesPDFCmd.Flags().Bool("open", false, "Open the PDF in the system browser instead of downloading")
	invoicesPDFCmd.Flags().StringP("out", "o", "", "Output file (defaults to pdf.output_dir/invoice-ID.pdf)")
}
