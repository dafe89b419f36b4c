package signals

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
)

func fakeRunner(outputs map[string]string, fail map[string]error) Runner {
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if err := fail[name]; err != nil {
			return nil, err
		}
		return []byte(outputs[name]), nil
	}
}

func newTestSampler(t *testing.T, outputs map[string]string, fail map[string]error) *X11Sampler {
	t.Helper()
	procRoot := t.TempDir()
	if err := os.MkdirAll(filepath.Join(procRoot, "4242"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(procRoot, "4242", "comm"), []byte("firefox\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return &X11Sampler{run: fakeRunner(outputs, fail), procRoot: procRoot, timeout: time.Second}
}

func TestX11IdleTime(t *testing.T) {
	s := newTestSampler(t, map[string]string{"xprintidle": "300500\n"}, nil)
	d, err := s.IdleTime()
	if err != nil {
		t.Fatalf("IdleTime: %v", err)
	}
	if d != 5*time.Minute+500*time.Millisecond {
		t.Errorf("IdleTime = %v", d)
	}

	s = newTestSampler(t, map[string]string{"xprintidle": "not a number"}, nil)
	if _, err := s.IdleTime(); err == nil {
		t.Error("expected parse error")
	}
}

func TestX11ActiveWindow(t *testing.T) {
	tests := []struct {
		name        string
		output      string
		fail        error
		expectApp   string
		expectTitle string
		unavailable bool
	}{
		{name: "normal window", output: "4242\nInbox - Mail\n", expectApp: "firefox", expectTitle: "Inbox - Mail"},
		{name: "title with newline kept", output: "4242\nfirst\nsecond\n", expectApp: "firefox", expectTitle: "first\nsecond"},
		{name: "empty title", output: "4242\n\n", unavailable: true},
		{name: "process exited", output: "9999\nGone\n", unavailable: true},
		{name: "no active window", fail: errors.New("exit status 1"), unavailable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fail map[string]error
			if tt.fail != nil {
				fail = map[string]error{"xdotool": tt.fail}
			}
			s := newTestSampler(t, map[string]string{"xdotool": tt.output}, fail)
			w, err := s.ActiveWindow()
			if tt.unavailable {
				if !errors.Is(err, ErrUnavailable) {
					t.Fatalf("expected ErrUnavailable, got %v (window %+v)", err, w)
				}
				return
			}
			if err != nil {
				t.Fatalf("ActiveWindow: %v", err)
			}
			if w.App != tt.expectApp || w.Title != tt.expectTitle {
				t.Errorf("window = %+v, want %s / %q", w, tt.expectApp, tt.expectTitle)
			}
		})
	}
}

func TestTranslateSignal(t *testing.T) {
	at := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		signal *dbus.Signal
		kind   Kind
		reason string
		ok     bool
	}{
		{name: "suspend", signal: &dbus.Signal{Name: logindManager + ".PrepareForSleep", Body: []interface{}{true}}, kind: KindPower, reason: ReasonSuspend, ok: true},
		{name: "resume", signal: &dbus.Signal{Name: logindManager + ".PrepareForSleep", Body: []interface{}{false}}, kind: KindPower, reason: ReasonResume, ok: true},
		{name: "shutdown", signal: &dbus.Signal{Name: logindManager + ".PrepareForShutdown", Body: []interface{}{true}}, kind: KindShutdown, reason: ReasonSystemHalt, ok: true},
		{name: "shutdown cancelled", signal: &dbus.Signal{Name: logindManager + ".PrepareForShutdown", Body: []interface{}{false}}, ok: false},
		{name: "lock", signal: &dbus.Signal{Name: logindSession + ".Lock"}, kind: KindSession, reason: ReasonSessionLock, ok: true},
		{name: "unlock", signal: &dbus.Signal{Name: logindSession + ".Unlock"}, kind: KindSession, reason: ReasonSessionUnlock, ok: true},
		{name: "logon", signal: &dbus.Signal{Name: logindManager + ".SessionNew", Body: []interface{}{"3", dbus.ObjectPath("/org/freedesktop/login1/session/_33")}}, kind: KindSession, reason: ReasonSessionLogon, ok: true},
		{name: "unrelated", signal: &dbus.Signal{Name: "org.freedesktop.DBus.NameAcquired"}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := translateSignal(tt.signal, at)
			if ok != tt.ok {
				t.Fatalf("translateSignal ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if ev.Kind != tt.kind || ev.Reason != tt.reason || !ev.At.Equal(at) {
				t.Errorf("event = %+v, want %s/%s", ev, tt.kind, tt.reason)
			}
		})
	}
}

func TestParseControlFile(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		ok       bool
	}{
		{name: "c00042", expected: "42", ok: true},
		{name: "c1", expected: "1", ok: true},
		{name: "d00042-001", ok: false},
		{name: "c00000", ok: false},
		{name: "cache", ok: false},
		{name: "c", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ParseControlFile(tt.name)
			if ok != tt.ok || id != tt.expected {
				t.Errorf("ParseControlFile(%q) = %q, %v; want %q, %v", tt.name, id, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestParseLpstat(t *testing.T) {
	output := []byte("Office_Laser-41          bob        2048   Mon 12 Jan 2026 08:59:00\n" +
		"Office_Laser-42          alice      1024   Mon 12 Jan 2026 09:00:00\n" +
		"Label-Printer-420        carol       512   Mon 12 Jan 2026 09:01:00\n")

	info, ok := ParseLpstat(output, "42")
	if !ok {
		t.Fatal("expected job 42 to be found")
	}
	if info.Owner != "alice" || info.Printer != "Office_Laser" {
		t.Errorf("info = %+v", info)
	}

	info, ok = ParseLpstat(output, "420")
	if !ok || info.Printer != "Label-Printer" || info.Owner != "carol" {
		t.Errorf("job 420 = %+v, %v", info, ok)
	}

	if _, ok := ParseLpstat(output, "7"); ok {
		t.Error("expected unknown job to be missing")
	}
}

func TestPrintSpoolSourceReportsJobOnce(t *testing.T) {
	dir := t.TempDir()
	lookup := func(jobID string) (JobInfo, bool) {
		if jobID != "42" {
			return JobInfo{}, false
		}
		return JobInfo{Owner: "alice", Printer: "Office_Laser"}, true
	}

	src := NewPrintSpoolSource(dir, "fallback", lookup)
	out := make(chan Event, 4)
	if err := src.Start(out); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer src.Close()

	path := filepath.Join(dir, "c00042")
	if err := os.WriteFile(path, []byte("ipp"), 0o600); err != nil {
		t.Fatal(err)
	}
	// Data files and rewrites of the same control file must not add events.
	if err := os.WriteFile(filepath.Join(dir, "d00042-001"), []byte("%PDF"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-out:
		if ev.Kind != KindPrint || ev.Owner != "alice" || ev.Printer != "Office_Laser" || ev.Document != "job 42" {
			t.Errorf("unexpected event %+v", ev)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for print event")
	}

	if err := os.WriteFile(path, []byte("ipp-updated"), 0o600); err != nil {
		t.Fatal(err)
	}
	select {
	case ev := <-out:
		t.Errorf("duplicate print event %+v", ev)
	case <-time.After(500 * time.Millisecond):
	}
}

type staticReader struct {
	text string
	err  error
}

func (r staticReader) ReadText() (string, error) { return r.text, r.err }

type blockingReader struct{ release chan struct{} }

func (r blockingReader) ReadText() (string, error) {
	<-r.release
	return "late", nil
}

func TestThreadBound(t *testing.T) {
	tb := NewThreadBound(staticReader{text: "copied"}, time.Second)
	defer tb.Close()

	text, err := tb.ReadText()
	if err != nil || text != "copied" {
		t.Fatalf("ReadText = %q, %v", text, err)
	}

	failing := NewThreadBound(staticReader{err: errors.New("busy")}, time.Second)
	defer failing.Close()
	if _, err := failing.ReadText(); err == nil || err.Error() != "busy" {
		t.Errorf("expected reader error to pass through, got %v", err)
	}
}

func TestThreadBoundTimeout(t *testing.T) {
	release := make(chan struct{})
	tb := NewThreadBound(blockingReader{release: release}, 50*time.Millisecond)
	defer func() {
		close(release)
		tb.Close()
	}()

	if _, err := tb.ReadText(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable on timeout, got %v", err)
	}
}
