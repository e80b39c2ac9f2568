package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wanderlust-tours/wanderlust/internal/cli/commands"
)

var version = "dev" // Will be set during build

// NewRootCmd assembles the wanderlust command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wanderlust",
		Short: "Wanderlust - tourism website administration",
		Long: `Wanderlust CLI - Administer a Wanderlust deployment.

Creates staff accounts, seeds website content, prints dashboard statistics and
explains how the access gate treats a path.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wanderlust version %s\n", version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewCreateUserCmd())
	rootCmd.AddCommand(commands.NewCheckAccessCmd())
	rootCmd.AddCommand(commands.NewSeedCmd())
	rootCmd.AddCommand(commands.NewStatsCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
