package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hostwatch-io/hostwatch/internal/config"
	"github.com/hostwatch-io/hostwatch/internal/models"
)

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Aliases: []string{"config"},
	Short:   "Show the agent settings",
	Long: `Show the effective agent settings from ~/.hostwatch/settings.yaml.

Changes take effect the next time the agent starts.`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long:  "Change a setting. Keys:\n  " + joinKeys(),
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	for _, row := range settingsRows(settings) {
		fmt.Printf("  %s %s\n", styleLabel.Render(fmt.Sprintf("%-28s", row[0])), styleValue.Render(row[1]))
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if err := config.EnsureGlobalDir(); err != nil {
		return err
	}
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if err := config.SetSetting(settings, args[0], args[1]); err != nil {
		return err
	}
	if err := config.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Printf("%s %s\n", styleSuccess.Render("Updated"), args[0])
	if running, _, _ := config.IsDaemonRunning(); running {
		fmt.Println(styleHint.Render("Restart the daemon to apply: hostwatch daemon stop && hostwatch daemon start"))
	}
	return nil
}

// settingsRows lists every setting as a key/value pair for display.
func settingsRows(s *models.Settings) [][2]string {
	orNone := func(v string) string {
		if v == "" {
			return "(none)"
		}
		return v
	}
	return [][2]string{
		{"collector.url", orNone(s.Collector.URL)},
		{"collector.user", orNone(s.Collector.User)},
		{"collector.timeout", s.Collector.Timeout.String()},
		{"upload.interval", s.Upload.Interval.String()},
		{"sampling.interval", s.Sampling.Interval.String()},
		{"sampling.clipboard_interval", s.Sampling.ClipboardInterval.String()},
		{"sampling.idle_threshold", s.Sampling.IdleThreshold.String()},
		{"sampling.gap_threshold", s.Sampling.GapThreshold.String()},
		{"signals.print_spool_dir", orNone(s.Signals.PrintSpoolDir)},
		{"signals.dbus", strconv.FormatBool(s.Signals.DBus)},
		{"signals.clipboard", strconv.FormatBool(s.Signals.Clipboard)},
		{"diagnostics.trace", strconv.FormatBool(s.Diagnostics.Trace)},
	}
}

func joinKeys() string {
	return strings.Join(config.SettableKeys, "\n  ")
}
