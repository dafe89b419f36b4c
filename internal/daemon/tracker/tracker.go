// Package tracker turns periodic host samples into a debounced stream of
// activity log entries.
package tracker

import (
	"fmt"
	"time"

	"github.com/hostwatch-io/hostwatch/internal/models"
)

// Default thresholds.
const (
	DefaultIdleThreshold = 5 * time.Minute
	DefaultGapThreshold  = 15 * time.Second
)

// Primary texts of idle entries.
const (
	IdleStartReason = "System idle"
	IdleEndReason   = "System active"
)

// Config holds the tracker thresholds.
type Config struct {
	IdleThreshold time.Duration // Input idle at or above this is "idle"
	GapThreshold  time.Duration // Tick gaps above this emit Resume
}

// Sample is one tick's worth of observations. A signal whose query failed
// is marked unknown and leaves the related state untouched.
type Sample struct {
	Now         time.Time
	Idle        time.Duration
	IdleKnown   bool
	Window      models.Window
	WindowKnown bool
}

// state is owned by the Tracker and never shared.
type state struct {
	currentTarget   string
	targetStartedAt time.Time
	idle            bool
	idleStartedAt   time.Time
	lastSampleAt    time.Time
}

// Tracker is the idle/active and foreground-target state machine. It is not
// safe for concurrent use: exactly one sampler goroutine drives it.
type Tracker struct {
	cfg   Config
	state state
}

// New creates a tracker in the Active/NoTarget state. Gap detection on the
// first sample measures from start.
func New(cfg Config, start time.Time) *Tracker {
	if cfg.IdleThreshold <= 0 {
		cfg.IdleThreshold = DefaultIdleThreshold
	}
	if cfg.GapThreshold <= 0 {
		cfg.GapThreshold = DefaultGapThreshold
	}
	return &Tracker{
		cfg: cfg,
		state: state{
			targetStartedAt: start.Round(0),
			lastSampleAt:    start.Round(0),
		},
	}
}

// Observe advances the state machine by one sample and returns the entries
// produced by any transitions, in emission order.
func (t *Tracker) Observe(s Sample) []models.LogEntry {
	var out []models.LogEntry
	// Suspend stops the monotonic clock; gaps and durations use wall time.
	now := s.Now.Round(0)

	gap := now.Sub(t.state.lastSampleAt)
	t.state.lastSampleAt = now
	if gap > t.cfg.GapThreshold {
		out = append(out, models.NewEntry(now, models.CategoryResume, formatGap(gap), ""))
	}

	if s.IdleKnown {
		if s.Idle >= t.cfg.IdleThreshold {
			if !t.state.idle {
				t.state.idle = true
				// Idle began when input stopped, not when the threshold was crossed.
				t.state.idleStartedAt = now.Add(-s.Idle)
				out = append(out, models.NewEntry(now, models.CategoryIdleStart, IdleStartReason, ""))
			}
			// Idle periods do not advance foreground tracking.
			return out
		}
		if t.state.idle {
			t.state.idle = false
			out = append(out, models.NewTimedEntry(now, models.CategoryIdleEnd, IdleEndReason, now.Sub(t.state.idleStartedAt)))
		}
	} else if t.state.idle {
		return out
	}

	if !s.WindowKnown {
		return out
	}
	target := s.Window.Identity()
	if target != t.state.currentTarget {
		if t.state.currentTarget != "" {
			out = append(out, models.NewTimedEntry(now, models.CategoryApp, t.state.currentTarget, now.Sub(t.state.targetStartedAt)))
		}
		t.state.currentTarget = target
		t.state.targetStartedAt = now
	}
	return out
}

// Idle reports whether the tracker is in the Idle state.
func (t *Tracker) Idle() bool {
	return t.state.idle
}

// CurrentTarget returns the foreground identity being timed, or "".
func (t *Tracker) CurrentTarget() string {
	return t.state.currentTarget
}

func formatGap(gap time.Duration) string {
	return fmt.Sprintf("gap %.0fs", gap.Seconds())
}
