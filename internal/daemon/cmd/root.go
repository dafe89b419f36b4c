// Package cmd implements the hostwatchd command line.
package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/hostwatch-io/hostwatch/internal/config"
)

var (
	foreground bool
	dataDir    string
)

var rootCmd = &cobra.Command{
	Use:   "hostwatchd",
	Short: "Hostwatch activity monitoring agent",
	Long: `hostwatchd samples foreground application, idle time, clipboard, print
and session activity, appends it to local logs and uploads them to the
configured collector.

By default it runs with a system tray icon; use --foreground to run headless.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if dataDir != "" {
			return os.Setenv(config.HomeEnv, dataDir)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Ensure global directory exists
		if err := config.EnsureGlobalDir(); err != nil {
			log.Fatalf("Failed to create global directory: %v", err)
		}
		if err := config.EnsureGlobalLogsDir(); err != nil {
			log.Fatalf("Failed to create logs directory: %v", err)
		}

		// Check if daemon is already running
		running, info, err := config.IsDaemonRunning()
		if err != nil {
			log.Fatalf("Failed to check daemon status: %v", err)
		}
		if running {
			log.Fatalf("Daemon already running (PID %d)", info.PID)
		}

		if foreground {
			log.Println("Running in foreground mode (no system tray)")
			return runForeground()
		}
		log.Println("Running in background mode (with system tray)")
		return runWithTray()
	},
}

func init() {
	rootCmd.Flags().BoolVar(&foreground, "foreground", false, "Run in foreground (no system tray)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default ~/.hostwatch)")
}

// Execute runs the daemon command line.
func Execute() error {
	return rootCmd.Execute()
}
