package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hostwatch-io/hostwatch/internal/config"
	"github.com/hostwatch-io/hostwatch/internal/daemon/eventlog"
	"github.com/hostwatch-io/hostwatch/internal/models"
)

func TestCopyFromWholeLinesOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app_log.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\npart"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	n, err := copyFrom(&buf, path, 4)
	if err != nil {
		t.Fatal(err)
	}
	if buf.String() != "two\n" || n != 4 {
		t.Errorf("copyFrom = %q (%d bytes)", buf.String(), n)
	}

	buf.Reset()
	n, err = copyFrom(&buf, filepath.Join(t.TempDir(), "missing.txt"), 0)
	if err != nil || n != 0 || buf.Len() != 0 {
		t.Errorf("missing file: n=%d err=%v out=%q", n, err, buf.String())
	}
}

func TestFollowPlainPrintsAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app_log.txt")
	if err := os.WriteFile(path, []byte("old\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var buf syncBuffer
	done := make(chan error, 1)
	go func() { done <- followPlain(ctx, &buf, path, 4, 10*time.Millisecond) }()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = f.WriteString("new\n")
	f.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && !strings.Contains(buf.String(), "new") {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("followPlain: %v", err)
	}
	if got := buf.String(); got != "new\n" {
		t.Errorf("followed output = %q, want %q", got, "new\n")
	}
}

func TestPrintStreamTailHandsOffToFollow(t *testing.T) {
	dir := t.TempDir()
	l := eventlog.New(dir, eventlog.NewDiagnostics(&bytes.Buffer{}, false))
	path := l.Path(models.StreamApp)
	if err := os.WriteFile(path, []byte("a\nb\nc\npart"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	printed, offset, err := printStreamTail(&buf, l, models.StreamApp, 2)
	if err != nil {
		t.Fatal(err)
	}
	if buf.String() != "b\nc\n" || printed != 2 {
		t.Errorf("tail = %q (%d lines)", buf.String(), printed)
	}
	if offset != int64(len("a\nb\nc\n")) {
		t.Errorf("offset = %d, want end of the last whole line", offset)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = f.WriteString("ial\nd\n")
	f.Close()

	buf.Reset()
	if _, err := copyFrom(&buf, path, offset); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "partial\nd\n" {
		t.Errorf("followed output = %q, want every line after the tail", buf.String())
	}

	buf.Reset()
	printed, offset, err = printStreamTail(&buf, l, models.StreamClipboard, 5)
	if err != nil || printed != 0 || offset != 0 {
		t.Errorf("empty stream: printed=%d offset=%d err=%v", printed, offset, err)
	}
}

func TestPrintFileTail(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	if err := printFileTail(&buf, filepath.Join(dir, "error_log.txt"), 5); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No errors") {
		t.Errorf("missing file output = %q", buf.String())
	}

	path := filepath.Join(dir, "error_log.txt")
	_ = os.WriteFile(path, []byte("a\nb\nc\n"), 0o644)
	buf.Reset()
	if err := printFileTail(&buf, path, 2); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "b\nc\n" {
		t.Errorf("tail output = %q", buf.String())
	}
}

func TestSettingsRowsCoverSettableKeys(t *testing.T) {
	rows := settingsRows(models.NewSettings())
	shown := map[string]bool{}
	for _, r := range rows {
		shown[r[0]] = true
	}
	for _, key := range config.SettableKeys {
		if !shown[key] {
			t.Errorf("settable key %q is not displayed", key)
		}
	}
}

func TestSettingsSetPersists(t *testing.T) {
	t.Setenv(config.HomeEnv, t.TempDir())

	if err := runSettingsSet(settingsSetCmd, []string{"collector.url", "http://10.1.2.3/pclog/upload.php"}); err != nil {
		t.Fatalf("settings set: %v", err)
	}
	if err := runSettingsSet(settingsSetCmd, []string{"upload.interval", "never"}); err == nil {
		t.Error("expected invalid duration to be rejected")
	}

	s, err := config.LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if s.Collector.URL != "http://10.1.2.3/pclog/upload.php" {
		t.Errorf("collector.url = %q", s.Collector.URL)
	}
	if s.Upload.Interval != 15*time.Minute {
		t.Errorf("rejected value was saved: %v", s.Upload.Interval)
	}
}

func TestUploadRequiresCollector(t *testing.T) {
	t.Setenv(config.HomeEnv, t.TempDir())
	uploadViaDaemon = false
	if err := runUpload(uploadCmd, nil); err == nil || !strings.Contains(err.Error(), "no collector") {
		t.Errorf("expected missing collector error, got %v", err)
	}
}
