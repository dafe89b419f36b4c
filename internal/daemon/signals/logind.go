package signals

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
)

// logind D-Bus interfaces.
const (
	logindManager = "org.freedesktop.login1.Manager"
	logindSession = "org.freedesktop.login1.Session"
)

// Reasons reported for logind transitions.
const (
	ReasonSessionLock   = "SessionLock"
	ReasonSessionUnlock = "SessionUnlock"
	ReasonSessionLogon  = "SessionLogon"
	ReasonSessionLogoff = "SessionLogoff"
	ReasonSuspend       = "Suspend"
	ReasonResume        = "Resume"
	ReasonSystemHalt    = "SystemShutdown"
)

var logindMatches = []struct {
	iface  string
	member string
}{
	{logindManager, "PrepareForSleep"},
	{logindManager, "PrepareForShutdown"},
	{logindManager, "SessionNew"},
	{logindManager, "SessionRemoved"},
	{logindSession, "Lock"},
	{logindSession, "Unlock"},
}

// LogindSource delivers session, power and shutdown transitions from
// systemd-logind over the system bus.
type LogindSource struct {
	now     func() time.Time
	conn    *dbus.Conn
	signals chan *dbus.Signal
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewLogindSource creates an unstarted logind source.
func NewLogindSource() *LogindSource {
	return &LogindSource{
		now:  time.Now,
		done: make(chan struct{}),
	}
}

// Name identifies the source in diagnostics.
func (s *LogindSource) Name() string {
	return "logind"
}

// Start connects to the system bus and subscribes to logind signals.
func (s *LogindSource) Start(out chan<- Event) error {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return fmt.Errorf("connect system bus: %w", err)
	}

	for _, m := range logindMatches {
		if err := conn.AddMatchSignal(
			dbus.WithMatchInterface(m.iface),
			dbus.WithMatchMember(m.member),
		); err != nil {
			conn.Close()
			return fmt.Errorf("subscribe %s.%s: %w", m.iface, m.member, err)
		}
	}

	s.conn = conn
	s.signals = make(chan *dbus.Signal, 16)
	conn.Signal(s.signals)

	s.wg.Add(1)
	go s.forward(out)
	return nil
}

func (s *LogindSource) forward(out chan<- Event) {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case sig, ok := <-s.signals:
			if !ok {
				return
			}
			ev, ok := translateSignal(sig, s.now())
			if !ok {
				continue
			}
			log.Printf("[signals] logind %s: %s", ev.Kind, ev.Reason)
			if !send(out, s.done, ev) {
				return
			}
		}
	}
}

// Close unsubscribes and disconnects from the bus.
func (s *LogindSource) Close() error {
	close(s.done)
	if s.conn == nil {
		return nil
	}
	s.conn.RemoveSignal(s.signals)
	err := s.conn.Close()
	s.wg.Wait()
	return err
}

// translateSignal maps a logind signal to an Event.
func translateSignal(sig *dbus.Signal, at time.Time) (Event, bool) {
	switch sig.Name {
	case logindManager + ".PrepareForSleep":
		reason := ReasonResume
		if firstBool(sig.Body) {
			reason = ReasonSuspend
		}
		return Event{Kind: KindPower, At: at, Reason: reason}, true
	case logindManager + ".PrepareForShutdown":
		// logind sends false when a pending shutdown is cancelled.
		if !firstBool(sig.Body) {
			return Event{}, false
		}
		return Event{Kind: KindShutdown, At: at, Reason: ReasonSystemHalt}, true
	case logindManager + ".SessionNew":
		return Event{Kind: KindSession, At: at, Reason: ReasonSessionLogon}, true
	case logindManager + ".SessionRemoved":
		return Event{Kind: KindSession, At: at, Reason: ReasonSessionLogoff}, true
	case logindSession + ".Lock":
		return Event{Kind: KindSession, At: at, Reason: ReasonSessionLock}, true
	case logindSession + ".Unlock":
		return Event{Kind: KindSession, At: at, Reason: ReasonSessionUnlock}, true
	}
	return Event{}, false
}

func firstBool(body []interface{}) bool {
	if len(body) == 0 {
		return false
	}
	b, _ := body[0].(bool)
	return b
}
