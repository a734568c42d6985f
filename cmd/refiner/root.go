package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for refiner.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refiner",
		Short: "Anonymizing refiner for social media data exports",
		Long: `refiner converts raw Instagram data exports into an anonymized,
relational analytic record set and a proof document.

Identifying text (usernames, names, hashtags, conversation ids) is replaced
by SHA-256 digests, free text is reduced to length and word counts, and the
proof carries integrity digests over the raw export so a verifier can check
it later without ever seeing the content.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewRefineCmd())
	cmd.AddCommand(NewVerifyCmd())
	cmd.AddCommand(NewSchemaCmd())
	cmd.AddCommand(NewStatsCmd())
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
