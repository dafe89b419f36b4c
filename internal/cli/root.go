// Package cli implements the hostwatch CLI commands.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hostwatch",
	Short: "Control the Hostwatch activity agent",
	Long: `Hostwatch records foreground application, idle, session, power, print
and clipboard activity on this machine and ships the logs to a collector.

This CLI manages the hostwatchd agent and inspects its logs.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add subcommands (alphabetical)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(versionCmd)
}
