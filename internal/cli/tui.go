package cli

import (
	"github.com/spf13/cobra"

	"github.com/andy/invoicedesk/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the terminal UI",
	Long:  `Launch the interactive terminal user interface for invoicedesk.`,
	RunE:  launchTUI,
}

func launchTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(appInstance)
}
