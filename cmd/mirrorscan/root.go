// Package main provides the entry point for the mirrorscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for mirrorscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirrorscan",
		Short: "URL discovery engine for website mirroring",
		Long: `Mirrorscan discovers the URL graph of a web property by combining sitemap
traversal with a bounded breadth-first crawl. It produces sorted URL list
files (pages, internal resources, external assets) and a structured summary
for an external mirroring downloader to consume.

The crawl is polite by design: requests are strictly sequential per property
with a fixed inter-request delay.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewDiscoverCmd())
	cmd.AddCommand(NewHistoryCmd())
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
