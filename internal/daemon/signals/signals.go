// Package signals defines the boundary between the agent and the host: polled
// samplers for idle time, foreground window and clipboard, and pushed sources
// for session, power, shutdown and print notifications.
package signals

import (
	"errors"
	"time"

	"github.com/hostwatch-io/hostwatch/internal/models"
)

// ErrUnavailable marks a transient query failure: the signal has no value
// right now (window vanished, clipboard busy) and the tick should be skipped.
var ErrUnavailable = errors.New("signal unavailable")

// Sampler answers point-in-time queries about user activity.
type Sampler interface {
	// IdleTime returns how long ago the last keyboard or mouse input happened.
	IdleTime() (time.Duration, error)
	// ActiveWindow returns the foreground application and window title.
	ActiveWindow() (models.Window, error)
}

// ClipboardReader reads the current clipboard text. A read may fail
// transiently and is simply retried on the next tick.
type ClipboardReader interface {
	ReadText() (string, error)
}

// Source pushes host notifications onto out until closed. Start must not
// block; sends to out stop once Close returns.
type Source interface {
	Name() string
	Start(out chan<- Event) error
	Close() error
}

// Kind identifies a pushed notification.
type Kind string

// Notification kinds.
const (
	KindSession  Kind = "session"
	KindPower    Kind = "power"
	KindShutdown Kind = "shutdown"
	KindPrint    Kind = "print"
)

// Event is a discrete host transition delivered by a Source.
type Event struct {
	Kind   Kind
	At     time.Time
	Reason string // Session, power and shutdown reason (e.g., "SessionLock", "Suspend")

	// Print jobs
	Owner    string
	Document string
	Printer  string
}

// Port bundles the agent's view of the host.
type Port struct {
	Sampler   Sampler
	Clipboard ClipboardReader // Nil disables clipboard capture
	Sources   []Source
}

// send delivers ev unless done is closed first.
func send(out chan<- Event, done <-chan struct{}, ev Event) bool {
	select {
	case out <- ev:
		return true
	case <-done:
		return false
	}
}
