package cli

import (
	"context"
	"fmt"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/andy/invoicedesk/internal/logging"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or reset the stored server session",
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List stored session cookies (values masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		byHost, err := appInstance.CookieRepo.List(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list cookies: %w", err)
		}

		if len(byHost) == 0 {
			fmt.Println("No stored session.")
			return nil
		}

		hosts := make([]string, 0, len(byHost))
		for h := range byHost {
			hosts = append(hosts, h)
		}
		sort.Strings(hosts)

		fmt.Printf("%-24s %-20s %-12s %-20s\n", "Host", "Name", "Value", "Expires")
		fmt.Println("------------------------------------------------------------------------------")
		for _, h := range hosts {
			for _, c := range byHost[h] {
				expires := "session"
				if !c.Expires.IsZero() {
					expires = c.Expires.Local().Format("2006-01-02 15:04")
				}
				fmt.Printf("%-24s %-20s %-12s %-20s\n",
					truncate(h, 24),
					truncate(c.Name, 20),
					logging.MaskValue(c.Value),
					expires,
				)
			}
		}
		return nil
	},
}

var sessionSetCmd = &cobra.Command{
	Use:   "set [cookie_name]",
	Short: "Store a cookie for the configured server",
	Long: `Store a cookie (for example a sessionid copied from a browser login) for the
configured server. The value is read from the terminal without echo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Value for %s: ", args[0])
		value, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read value: %w", err)
		}
		if len(value) == 0 {
			return fmt.Errorf("value cannot be empty")
		}

		base := appInstance.Client.BaseURL()
		if err := appInstance.Jar.Set(context.Background(), base, args[0], string(value)); err != nil {
			return err
		}

		fmt.Printf("✓ Stored %s for %s\n", args[0], base.Host)
		return nil
	},
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every stored session cookie",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("This will sign you out of every server invoicedesk has talked to.")
		fmt.Println()

		if !confirmPrompt("Delete all stored session cookies?") {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := appInstance.CookieRepo.Clear(context.Background()); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		fmt.Println("✓ Session cleared")

		forget, _ := cmd.Flags().GetBool("forget-key")
		if !forget {
			return nil
		}
		if err := appInstance.ForgetStore(); err != nil {
			return err
		}
		fmt.Println("✓ Session store and its key removed; a new password is asked on next start")
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionSetCmd)
	sessionCmd.AddCommand(sessionResetCmd)

	sessionResetCmd.Flags().Bool("forget-key", false, "Also delete the encrypted store and its keyring entry")
}
