// Package main provides the entry point for the veiltext CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for veiltext.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "veiltext",
		Short: "Steganographic transformation tool for Indonesian academic text",
		Long: `Veiltext applies layered steganographic transformations to text:
homoglyph substitution, invisible-character injection, and contextual
paraphrasing. Every run ends with a risk assessment estimating how
detectable the combined modifications are.

By default, results are persisted to a local database so that assessments
of the same document can be compared across runs.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewTransformCmd())
	cmd.AddCommand(NewAssessCmd())
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

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
