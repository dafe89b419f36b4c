// Package upload ships accumulated stream content to the remote collector.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"os/user"
	"strings"
	"sync"
	"time"

	"github.com/hostwatch-io/hostwatch/internal/buildinfo"
	"github.com/hostwatch-io/hostwatch/internal/daemon/eventlog"
	"github.com/hostwatch-io/hostwatch/internal/models"
)

// DefaultTimeout bounds a single stream transfer.
const DefaultTimeout = 30 * time.Second

// maxErrorBody limits how much of a failure response is kept for diagnostics.
const maxErrorBody = 4096

// InstanceHeader carries the agent instance ID on every request.
const InstanceHeader = "X-Hostwatch-Instance"

// Reader supplies the bytes of a stream.
type Reader interface {
	ReadAll(stream models.Stream) ([]byte, error)
}

// Config describes the collector and the identity uploads are filed under.
type Config struct {
	URL        string
	User       string // Empty resolves to the current OS user
	InstanceID string
	Timeout    time.Duration
	Streams    []models.Stream // Defaults to models.Streams()
	HTTPClient *http.Client
}

// Result is the outcome of transferring one stream.
type Result struct {
	Stream     models.Stream
	StatusCode int // Zero on transport failure
	Bytes      int
	Err        error
}

// OK reports whether the collector accepted the stream.
func (r Result) OK() bool {
	return r.Err == nil
}

// Scheduler transfers every stream's full content once per cycle.
type Scheduler struct {
	cfg    Config
	source Reader
	diag   eventlog.Reporter
	client *http.Client

	mu        sync.RWMutex
	lastRun   time.Time
	lastOK    bool
	lastCount int
}

// NewScheduler creates a scheduler. An empty collector URL yields a
// scheduler whose cycles are no-ops.
func NewScheduler(cfg Config, source Reader, diag eventlog.Reporter) *Scheduler {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.User == "" {
		cfg.User = CurrentUser()
	}
	if len(cfg.Streams) == 0 {
		cfg.Streams = models.Streams()
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &Scheduler{cfg: cfg, source: source, diag: diag, client: client}
}

// Enabled reports whether a collector is configured.
func (s *Scheduler) Enabled() bool {
	return s.cfg.URL != ""
}

// User returns the identity uploads are filed under.
func (s *Scheduler) User() string {
	return s.cfg.User
}

// RunOnce transfers each stream independently. A failed stream is reported
// and does not stop the others. Stream files are never modified, so failed
// content is naturally retried next cycle.
func (s *Scheduler) RunOnce(ctx context.Context) []Result {
	if !s.Enabled() {
		return nil
	}

	results := make([]Result, 0, len(s.cfg.Streams))
	allOK := true
	for _, stream := range s.cfg.Streams {
		r := s.uploadStream(ctx, stream)
		if r.Err != nil {
			allOK = false
		}
		results = append(results, r)
	}

	s.mu.Lock()
	s.lastRun = time.Now()
	s.lastOK = allOK
	s.lastCount = len(results)
	s.mu.Unlock()

	return results
}

// LastRun returns when the last cycle finished and whether every stream
// succeeded. ran is false until a cycle has completed.
func (s *Scheduler) LastRun() (at time.Time, ok bool, ran bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun, s.lastOK, s.lastCount > 0
}

func (s *Scheduler) uploadStream(ctx context.Context, stream models.Stream) Result {
	result := Result{Stream: stream}

	data, err := s.source.ReadAll(stream)
	if err != nil {
		result.Err = fmt.Errorf("read %s: %w", stream, err)
		s.diag.Errorf("upload", "%s: %v", stream, err)
		return result
	}
	result.Bytes = len(data)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req, err := s.newRequest(ctx, stream, data)
	if err != nil {
		result.Err = err
		s.diag.Errorf("upload", "%s: %v", stream, err)
		return result
	}

	resp, err := s.client.Do(req)
	if err != nil {
		result.Err = fmt.Errorf("post %s: %w", stream, err)
		s.diag.Errorf("upload", "%s: %v", stream, err)
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		result.Err = fmt.Errorf("collector returned %d for %s", resp.StatusCode, stream)
		s.diag.Errorf("upload", "%s: %d - %s", stream, resp.StatusCode, strings.TrimSpace(string(body)))
		return result
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	log.Printf("[upload] %s: sent %d bytes (%d)", stream, len(data), resp.StatusCode)
	return result
}

// newRequest builds the collector POST: query parameters user and file, and
// a multipart body repeating both alongside the raw stream bytes.
func (s *Scheduler) newRequest(ctx context.Context, stream models.Stream, data []byte) (*http.Request, error) {
	target, err := url.Parse(s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid collector URL: %w", err)
	}
	q := target.Query()
	q.Set("user", s.cfg.User)
	q.Set("file", string(stream))
	target.RawQuery = q.Encode()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("user", s.cfg.User); err != nil {
		return nil, err
	}
	if err := w.WriteField("file", string(stream)); err != nil {
		return nil, err
	}
	part, err := w.CreateFormFile("file", stream.FileName())
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("User-Agent", "hostwatch/"+buildinfo.Version)
	if s.cfg.InstanceID != "" {
		req.Header.Set(InstanceHeader, s.cfg.InstanceID)
	}
	return req, nil
}

// CurrentUser returns the local account name without any domain prefix.
func CurrentUser() string {
	name := ""
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	if name == "" {
		name = os.Getenv("USER")
	}
	if i := strings.LastIndex(name, `\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		name = "unknown"
	}
	return name
}
