package main

import (
	"context"
	"fmt"
	"os"

	"github.com/andy/invoicedesk/internal/app"
	"github.com/andy/invoicedesk/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code once the store and logger are closed
func run(args []string) int {
	// Help output must not open the store, which may prompt for a password
	if !wantsHelp(args) {
		a, err := app.New(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to initialize app: %v\n", err)
			return 1
		}
		defer func() {
			if err := a.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "failed to close session store: %v\n", err)
			}
		}()
		cli.SetApp(a)
	}

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func wantsHelp(args []string) bool {
	for _, a := range args {
		if a == "-h" || a == "--help" || a == "help" {
			return true
		}
	}
	return false
}
