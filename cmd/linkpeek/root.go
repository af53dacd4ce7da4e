package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for linkpeek.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkpeek",
		Short: "Expand URLs and check where they really lead",
		Long: `linkpeek follows a URL to its final destination, scores the risk of
visiting it with a set of heuristics and extracts link preview metadata.

A score starts at 100 and every triggered rule subtracts a fixed penalty.
URLs scoring 70 or more are considered safe.

Run "linkpeek expand" for one-off checks or "linkpeek serve" to expose
the same analysis over HTTP.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewExpandCmd())
	cmd.AddCommand(NewServeCmd())
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
