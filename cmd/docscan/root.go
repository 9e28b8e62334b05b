package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for docscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docscan",
		Short: "Crawler for the Python documentation and proposal index",
		Long: `docscan reads docs.python.org and peps.python.org and reports on them.

It lists release notes, reports the status of every documented Python
version, downloads the documentation archive and checks that every
proposal page declares a status consistent with the index legend.

Responses are cached in a local SQLite database between runs.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewCacheCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
