package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hostwatch-io/hostwatch/internal/buildinfo"
	"github.com/hostwatch-io/hostwatch/internal/config"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "242", Dark: "240"}).Width(10)
	brandStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "30", Dark: "45"})
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Show build and agent information",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeVersion(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// writeVersion prints the build stamp followed by where this agent keeps its
// data and where it uploads to.
func writeVersion(w io.Writer) error {
	fmt.Fprintf(w, "%s %s (%s)\n", brandStyle.Render("hostwatchd"), buildinfo.Version, buildinfo.Codename)
	field := func(label, value string) {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(label), value)
	}
	field("Commit", buildinfo.CommitHash)
	field("Built", buildinfo.BuildDate)
	field("Platform", runtime.GOOS+"/"+runtime.GOARCH+" "+runtime.Version())

	home, err := config.GlobalDir()
	if err != nil {
		return err
	}
	logsDir, err := config.GlobalLogsDir()
	if err != nil {
		return err
	}
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	collector := settings.Collector.URL
	if collector == "" {
		collector = "(uploads disabled)"
	}
	field("Data", home)
	field("Logs", logsDir)
	field("Collector", collector)

	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return err
	}
	if running {
		field("Instance", fmt.Sprintf("%s (PID %d)", info.InstanceID, info.PID))
	} else {
		field("Instance", "not running")
	}
	return nil
}
