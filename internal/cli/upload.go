package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hostwatch-io/hostwatch/internal/config"
	"github.com/hostwatch-io/hostwatch/internal/daemon/eventlog"
	"github.com/hostwatch-io/hostwatch/internal/daemon/upload"
	"github.com/hostwatch-io/hostwatch/internal/models"
)

var uploadViaDaemon bool

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload the activity logs to the collector now",
	Long: `Upload every activity stream to the configured collector once.

By default the upload runs in this process. With --daemon the running agent
is asked to upload on its own schedule loop instead.`,
	Args: cobra.NoArgs,
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().BoolVar(&uploadViaDaemon, "daemon", false, "Ask the running agent to upload")
}

func runUpload(cmd *cobra.Command, args []string) error {
	if uploadViaDaemon {
		running, info, err := config.IsDaemonRunning()
		if err != nil {
			return fmt.Errorf("failed to check daemon status: %w", err)
		}
		if !running || info == nil {
			return fmt.Errorf("daemon is not running")
		}
		if err := signalUpload(info.PID); err != nil {
			return err
		}
		fmt.Printf("Upload requested from daemon (PID %d).\n", info.PID)
		return nil
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if settings.Collector.URL == "" {
		return fmt.Errorf("no collector configured; run: hostwatch settings set collector.url <url>")
	}

	logsDir, err := resolveLogsDir()
	if err != nil {
		return err
	}

	return uploadOnce(cmd.Context(), os.Stdout, settings, logsDir)
}

// uploadOnce runs one upload cycle in this process. Failures land in the
// agent's error log as well as on w.
func uploadOnce(ctx context.Context, w io.Writer, settings *models.Settings, logsDir string) error {
	diag, err := eventlog.OpenDiagnostics(config.ErrorLogFile(logsDir), settings.Diagnostics.Trace)
	if err != nil {
		fmt.Fprintln(os.Stderr, styleWarning.Render("Error log unavailable: "+err.Error()))
		diag = eventlog.NewDiagnostics(os.Stderr, settings.Diagnostics.Trace)
	}
	defer diag.Close()

	scheduler := upload.NewScheduler(upload.Config{
		URL:     settings.Collector.URL,
		User:    settings.Collector.User,
		Timeout: settings.Collector.Timeout,
	}, eventlog.New(logsDir, diag), diag)

	fmt.Fprintf(w, "Uploading to %s as %s\n", styleValue.Render(settings.Collector.URL), styleValue.Render(scheduler.User()))

	failed := 0
	for _, r := range scheduler.RunOnce(ctx) {
		if r.OK() {
			fmt.Fprintf(w, "  %s %-14s %s\n", styleSuccess.Render("✓"), r.Stream, styleHint.Render(humanize.Bytes(uint64(r.Bytes))))
			continue
		}
		failed++
		fmt.Fprintf(w, "  %s %-14s %s\n", styleError.Render("✗"), r.Stream, styleHint.Render(r.Err.Error()))
	}

	if failed > 0 {
		return fmt.Errorf("%d stream(s) failed to upload", failed)
	}
	return nil
}
