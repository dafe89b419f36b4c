// Package agent wires the samplers, trackers, event log and uploader into the
// running monitoring agent.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hostwatch-io/hostwatch/internal/daemon/eventlog"
	"github.com/hostwatch-io/hostwatch/internal/daemon/signals"
	"github.com/hostwatch-io/hostwatch/internal/daemon/tracker"
	"github.com/hostwatch-io/hostwatch/internal/daemon/upload"
	"github.com/hostwatch-io/hostwatch/internal/models"
)

// eventBuffer is the capacity of the channel sources push notifications onto.
const eventBuffer = 64

// Appender persists log entries.
type Appender interface {
	Append(entry models.LogEntry) error
}

// Uploader runs upload cycles.
type Uploader interface {
	Enabled() bool
	RunOnce(ctx context.Context) []upload.Result
	LastRun() (at time.Time, ok bool, ran bool)
}

// Options configures an Agent.
type Options struct {
	Settings   *models.Settings
	InstanceID string
	Log        Appender
	Diag       eventlog.Reporter
	Port       signals.Port
	Uploader   Uploader
	Now        func() time.Time // Defaults to wallClock
}

// Agent owns the periodic drivers and the notification drain.
type Agent struct {
	opts     Options
	tracker  *tracker.Tracker
	clip     *tracker.ClipboardTracker
	events   chan signals.Event
	uploadCh chan struct{}
	done     chan struct{}
	wg       sync.WaitGroup

	idle     atomic.Bool
	started  atomic.Bool
	stopOnce sync.Once

	mu         sync.Mutex
	onShutdown func()
}

// New creates an agent. Nothing runs until Start.
func New(opts Options) *Agent {
	if opts.Settings == nil {
		opts.Settings = models.NewSettings()
	}
	if opts.Now == nil {
		opts.Now = wallClock
	}
	cfg := tracker.Config{
		IdleThreshold: opts.Settings.Sampling.IdleThreshold,
		GapThreshold:  opts.Settings.Sampling.GapThreshold,
	}
	return &Agent{
		opts:     opts,
		tracker:  tracker.New(cfg, opts.Now()),
		clip:     &tracker.ClipboardTracker{},
		events:   make(chan signals.Event, eventBuffer),
		uploadCh: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Start subscribes the notification sources and launches the drivers. A
// source that fails to start is reported and left out; the rest of the agent
// still runs.
func (a *Agent) Start() error {
	if !a.started.CompareAndSwap(false, true) {
		return errors.New("agent already started")
	}

	for _, src := range a.opts.Port.Sources {
		if err := src.Start(a.events); err != nil {
			a.opts.Diag.Errorf("agent", "start %s: %v", src.Name(), err)
			continue
		}
		log.Printf("[agent] %s notifications enabled", src.Name())
	}

	a.wg.Add(2)
	go a.drainEvents()
	go a.runTicker(a.opts.Settings.Sampling.Interval, a.sampleTick)

	if a.opts.Port.Clipboard != nil {
		a.wg.Add(1)
		go a.runTicker(a.opts.Settings.Sampling.ClipboardInterval, a.clipboardTick)
	}

	if a.opts.Uploader != nil && a.opts.Uploader.Enabled() {
		a.wg.Add(1)
		go a.runUploads(a.opts.Settings.Upload.Interval)
	} else {
		log.Println("[agent] No collector configured, uploads disabled")
	}
	return nil
}

// Stop halts every driver, releases the notification sources and waits for
// in-flight ticks to finish. Open App and idle intervals are not flushed.
func (a *Agent) Stop() {
	a.stopOnce.Do(func() {
		close(a.done)
		for _, src := range a.opts.Port.Sources {
			if err := src.Close(); err != nil {
				log.Printf("[agent] close %s: %v", src.Name(), err)
			}
		}
		a.wg.Wait()
		log.Println("[agent] Stopped")
	})
}

// UploadNow requests an out-of-cycle upload. Requests made while one is
// already pending are coalesced.
func (a *Agent) UploadNow() {
	select {
	case a.uploadCh <- struct{}{}:
	default:
	}
}

// InstanceID returns the identity of this agent process.
func (a *Agent) InstanceID() string {
	return a.opts.InstanceID
}

// Idle reports the most recent idle state observed by the sampler.
func (a *Agent) Idle() bool {
	return a.idle.Load()
}

// UploadEnabled reports whether a collector is configured.
func (a *Agent) UploadEnabled() bool {
	return a.opts.Uploader != nil && a.opts.Uploader.Enabled()
}

// LastUpload reports the outcome of the most recent upload cycle.
func (a *Agent) LastUpload() (at time.Time, ok bool, ran bool) {
	if a.opts.Uploader == nil {
		return time.Time{}, false, false
	}
	return a.opts.Uploader.LastRun()
}

// OnShutdown registers fn to be called by RequestShutdown.
func (a *Agent) OnShutdown(fn func()) {
	a.mu.Lock()
	a.onShutdown = fn
	a.mu.Unlock()
}

// RequestShutdown asks the owning process to exit.
func (a *Agent) RequestShutdown() {
	a.mu.Lock()
	fn := a.onShutdown
	a.mu.Unlock()
	if fn != nil {
		go fn()
	}
}

// runTicker calls fn on every tick until Stop. Ticks that arrive while fn is
// still running are dropped by the ticker.
func (a *Agent) runTicker(interval time.Duration, fn func(now time.Time)) {
	defer a.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-a.done:
			return
		case <-ticker.C:
			fn(a.opts.Now())
		}
	}
}

func (a *Agent) runUploads(interval time.Duration) {
	defer a.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-a.done:
			return
		case <-ticker.C:
		case <-a.uploadCh:
			log.Println("[agent] Upload requested")
		}
		a.opts.Uploader.RunOnce(context.Background())
	}
}

// sampleTick queries the host and advances the activity tracker.
func (a *Agent) sampleTick(now time.Time) {
	s := tracker.Sample{Now: now}

	if idle, err := a.opts.Port.Sampler.IdleTime(); err != nil {
		a.opts.Diag.Tracef("tracker", "idle time: %v", err)
	} else {
		s.Idle, s.IdleKnown = idle, true
	}
	if win, err := a.opts.Port.Sampler.ActiveWindow(); err != nil {
		a.opts.Diag.Tracef("tracker", "active window: %v", err)
	} else {
		s.Window, s.WindowKnown = win, true
	}

	for _, entry := range a.tracker.Observe(s) {
		a.append(entry)
	}
	a.idle.Store(a.tracker.Idle())
}

func (a *Agent) clipboardTick(now time.Time) {
	text, err := a.opts.Port.Clipboard.ReadText()
	if err != nil {
		a.opts.Diag.Tracef("clipboard", "read: %v", err)
		return
	}
	if entry, ok := a.clip.Observe(now, text); ok {
		a.append(entry)
	}
}

func (a *Agent) drainEvents() {
	defer a.wg.Done()

	for {
		select {
		case <-a.done:
			return
		case ev := <-a.events:
			entry, ok := EntryForEvent(ev)
			if !ok {
				a.opts.Diag.Tracef("agent", "unknown notification kind %q", ev.Kind)
				continue
			}
			a.append(entry)
		}
	}
}

// append persists entry. Failures are already reported by the log.
func (a *Agent) append(entry models.LogEntry) {
	_ = a.opts.Log.Append(entry)
}

// EntryForEvent translates a host notification into its log entry.
func EntryForEvent(ev signals.Event) (models.LogEntry, bool) {
	switch ev.Kind {
	case signals.KindSession:
		return models.NewEntry(ev.At, models.CategorySession, ev.Reason, ""), true
	case signals.KindPower:
		return models.NewEntry(ev.At, models.CategoryPower, ev.Reason, ""), true
	case signals.KindShutdown:
		return models.NewEntry(ev.At, models.CategoryShutdown, ev.Reason, ""), true
	case signals.KindPrint:
		return models.NewEntry(ev.At, models.CategoryPrint, ev.Owner, printDetail(ev)), true
	default:
		return models.LogEntry{}, false
	}
}

func printDetail(ev signals.Event) string {
	doc := strings.TrimSpace(ev.Document)
	printer := strings.TrimSpace(ev.Printer)
	if printer == "" {
		return doc
	}
	return fmt.Sprintf("%s to %s", doc, printer)
}

// wallClock returns the current time without its monotonic reading, which
// does not advance while the host is suspended.
func wallClock() time.Time {
	return time.Now().Round(0)
}
