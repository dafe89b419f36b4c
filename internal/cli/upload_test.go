package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hostwatch-io/hostwatch/internal/config"
	"github.com/hostwatch-io/hostwatch/internal/daemon/eventlog"
	"github.com/hostwatch-io/hostwatch/internal/models"
)

func TestUploadOnceRecordsFailuresInErrorLog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "disk full", http.StatusInternalServerError)
	}))
	defer srv.Close()

	logsDir := t.TempDir()
	l := eventlog.New(logsDir, eventlog.NewDiagnostics(&bytes.Buffer{}, false))
	at := time.Date(2026, 5, 6, 10, 0, 0, 0, time.Local)
	if err := l.Append(models.NewEntry(at, models.CategorySession, "SessionLock", "")); err != nil {
		t.Fatal(err)
	}

	settings := models.NewSettings()
	settings.Collector.URL = srv.URL + "/upload.php"
	settings.Collector.Timeout = 5 * time.Second

	var out bytes.Buffer
	err := uploadOnce(context.Background(), &out, settings, logsDir)
	if err == nil || !strings.Contains(err.Error(), "failed to upload") {
		t.Fatalf("expected upload failure, got %v", err)
	}
	if !strings.Contains(out.String(), "✗") {
		t.Errorf("failure not shown to the user:\n%s", out.String())
	}

	data, err := os.ReadFile(filepath.Join(logsDir, config.ErrorLogFileName))
	if err != nil {
		t.Fatalf("error log not written: %v", err)
	}
	if !strings.Contains(string(data), "[upload]") || !strings.Contains(string(data), "500") {
		t.Errorf("error log missing upload failure:\n%s", data)
	}
}
