package cli

import (
	"github.com/spf13/cobra"

	"github.com/andy/invoicedesk/internal/app"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "invoicedesk",
	Short: "A terminal client for the invoice server",
	Long: `invoicedesk lists, creates, edits and deletes invoices on a remote invoice
server, manages their line items and exports them as PDF.

By default, running invoicedesk without arguments launches the interactive TUI.
Use subcommands for CLI operations.`,
	SilenceUsage: true,
	RunE:         launchTUI,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func init() {
	rootCmd.AddCommand(invoicesCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(tuiCmd)
}
