package cli

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hostwatch-io/hostwatch/internal/config"
	"github.com/hostwatch-io/hostwatch/internal/daemon/eventlog"
	"github.com/hostwatch-io/hostwatch/internal/models"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the Hostwatch agent",
	Long:  `Manage the hostwatchd agent process.`,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show agent status",
	RunE:  runDaemonStatus,
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the agent",
	RunE:  runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the agent",
	RunE:  runDaemonStop,
}

func init() {
	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if running && info != nil {
		fmt.Printf("Daemon is already running (PID %d).\n", info.PID)
		return nil
	}

	fmt.Print("Starting daemon...")
	if startErr := startDaemon(); startErr != nil {
		fmt.Println()
		return startErr
	}

	_, freshInfo, err := config.IsDaemonRunning()
	if err != nil || freshInfo == nil {
		fmt.Println(" started.")
		return nil
	}

	fmt.Printf(" started (PID %d).\n", freshInfo.PID)
	return nil
}

func runDaemonStatus(cmd *cobra.Command, args []string) error {
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return err
	}

	if !running || info == nil {
		fmt.Println(styleWarning.Render("Daemon is not running."))
		return nil
	}

	fmt.Println(styleSuccess.Render("Daemon is running."))
	printField("PID", fmt.Sprintf("%d", info.PID))
	printField("Instance", info.InstanceID)
	printField("Started", humanize.Time(info.StartedAt))
	printField("Uptime", time.Since(info.StartedAt).Truncate(time.Second).String())
	printField("Logs", info.LogsDir)

	logs := eventlog.New(info.LogsDir, eventlog.NewDiagnostics(os.Stderr, false))
	for _, stream := range models.Streams() {
		printField(string(stream), streamSize(logs, stream))
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return nil // Non-fatal: just skip collector display
	}
	collector := settings.Collector.URL
	if collector == "" {
		collector = styleHint.Render("disabled")
	}
	printField("Collector", collector)
	return nil
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if !running || info == nil {
		fmt.Println("Daemon is not running.")
		return nil
	}

	// Send SIGTERM to the daemon process
	process, err := os.FindProcess(info.PID)
	if err != nil {
		return fmt.Errorf("failed to find daemon process: %w", err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to send stop signal: %w", err)
	}

	// Poll for shutdown (max 5 seconds)
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		stillRunning, _, err := config.IsDaemonRunning()
		if err == nil && !stillRunning {
			fmt.Println("Daemon stopped.")
			return nil
		}
	}

	return fmt.Errorf("daemon did not stop within timeout")
}

func printField(label, value string) {
	fmt.Printf("  %s %s\n", styleLabel.Render(fmt.Sprintf("%-14s", label+":")), styleValue.Render(value))
}

func streamSize(l *eventlog.EventLog, stream models.Stream) string {
	size, err := l.Size(stream)
	if err != nil || size == 0 {
		return "empty"
	}
	return humanize.Bytes(uint64(size))
}
