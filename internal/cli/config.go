package cli

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/andy/invoicedesk/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("# %s\n", config.DefaultConfigPath())
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(appInstance.Config); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		return enc.Close()
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.DefaultConfigPath())
	},
}

var configSetServerCmd = &cobra.Command{
	Use:   "set-server [base_url]",
	Short: "Set the invoice server base URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := url.Parse(args[0])
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid server URL: %s", args[0])
		}

		appInstance.Config.Server.BaseURL = u.String()
		if err := appInstance.SaveConfig(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Printf("✓ Server set to %s\n", u.String())
		if os.Getenv(config.EnvBaseURL) != "" {
			fmt.Printf("  Note: %s is set and overrides this value.\n", config.EnvBaseURL)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetServerCmd)
}
