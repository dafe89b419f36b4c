package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hostwatch-io/hostwatch/internal/config"
	"github.com/hostwatch-io/hostwatch/internal/daemon/eventlog"
	"github.com/hostwatch-io/hostwatch/internal/models"
	"github.com/hostwatch-io/hostwatch/internal/tui"
)

// plainFollowInterval is how often a non-terminal follower polls for growth.
const plainFollowInterval = 500 * time.Millisecond

var (
	logsLines  int
	logsFollow bool
	logsErrors bool
)

var logsCmd = &cobra.Command{
	Use:   "logs [app|clipboard]",
	Short: "Show the agent's activity logs",
	Long: `Show the tail of an activity stream (default: app).

With -f the stream is followed. On a terminal this opens an interactive
viewer; otherwise new lines are printed as they are appended.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 20, "Number of lines to show (0 for all)")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow the stream")
	logsCmd.Flags().BoolVar(&logsErrors, "errors", false, "Show the diagnostic error log instead")
}

func runLogs(cmd *cobra.Command, args []string) error {
	logsDir, err := resolveLogsDir()
	if err != nil {
		return err
	}

	if logsErrors {
		return printFileTail(os.Stdout, config.ErrorLogFile(logsDir), logsLines)
	}

	stream := models.StreamApp
	if len(args) == 1 {
		stream, err = models.ParseStream(args[0])
		if err != nil {
			return err
		}
	}

	l := eventlog.New(logsDir, eventlog.NewDiagnostics(os.Stderr, false))
	path := l.Path(stream)

	if logsFollow && term.IsTerminal(int(os.Stdout.Fd())) {
		return tui.Follow(path, stream)
	}

	printed, offset, err := printStreamTail(os.Stdout, l, stream, logsLines)
	if err != nil {
		return err
	}

	if !logsFollow {
		if printed == 0 {
			fmt.Fprintln(os.Stderr, styleHint.Render("No entries yet in "+path))
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return followPlain(ctx, os.Stdout, path, offset, plainFollowInterval)
}

// printStreamTail prints the last n whole lines of stream and returns how
// many it printed and the offset following picks up from. Both come from
// one read so appends in between are never skipped.
func printStreamTail(w io.Writer, l *eventlog.EventLog, stream models.Stream, n int) (int, int64, error) {
	data, err := l.ReadAll(stream)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read %s: %w", stream, err)
	}
	data = data[:bytes.LastIndexByte(data, '\n')+1]

	lines := eventlog.TailLines(data, n)
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	return len(lines), int64(len(data)), nil
}

// resolveLogsDir prefers the directory of the running agent.
func resolveLogsDir() (string, error) {
	if running, info, err := config.IsDaemonRunning(); err == nil && running && info.LogsDir != "" {
		return info.LogsDir, nil
	}
	return config.GlobalLogsDir()
}

// printFileTail prints the last n lines of path.
func printFileTail(w io.Writer, path string, n int) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		fmt.Fprintln(w, styleHint.Render("No errors recorded."))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	for _, line := range eventlog.TailLines(data, n) {
		fmt.Fprintln(w, line)
	}
	return nil
}

// followPlain copies bytes appended to path after offset to w until ctx is
// done.
func followPlain(ctx context.Context, w io.Writer, path string, offset int64, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		n, err := copyFrom(w, path, offset)
		if err != nil {
			return err
		}
		offset += n
	}
}

func copyFrom(w io.Writer, path string, offset int64) (int64, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return 0, err
	}
	// Only whole lines are copied; a partially written line waits for the
	// next poll.
	data, err := io.ReadAll(f)
	if err != nil {
		return 0, err
	}
	end := bytes.LastIndexByte(data, '\n')
	if end < 0 {
		return 0, nil
	}
	written, err := w.Write(data[:end+1])
	return int64(written), err
}
