package eventlog

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Reporter receives failures that must not interrupt the caller.
type Reporter interface {
	Errorf(component, format string, args ...any)
	Tracef(component, format string, args ...any)
}

// Diagnostics is the agent's parallel error log. It is safe for concurrent
// use: log.Logger serializes each Output call.
type Diagnostics struct {
	logger *log.Logger
	closer io.Closer
	trace  bool
}

// OpenDiagnostics opens (or creates) the error log at path for appending.
func OpenDiagnostics(path string, trace bool) (*Diagnostics, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create diagnostics dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open diagnostics log: %w", err)
	}
	d := NewDiagnostics(f, trace)
	d.closer = f
	return d, nil
}

// NewDiagnostics writes diagnostics to w.
func NewDiagnostics(w io.Writer, trace bool) *Diagnostics {
	return &Diagnostics{
		logger: log.New(w, "", log.Ldate|log.Ltime),
		trace:  trace,
	}
}

// Errorf records a failure and mirrors it to the process log.
func (d *Diagnostics) Errorf(component, format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", component, fmt.Sprintf(format, args...))
	d.logger.Print(msg)
	log.Print(msg)
}

// Tracef records a transient failure. Dropped unless tracing is enabled.
func (d *Diagnostics) Tracef(component, format string, args ...any) {
	if !d.trace {
		return
	}
	d.logger.Printf("[%s] trace: %s", component, fmt.Sprintf(format, args...))
}

// Close releases the underlying file, if any.
func (d *Diagnostics) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}
