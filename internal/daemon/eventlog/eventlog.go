// Package eventlog persists activity entries as append-only text streams.
package eventlog

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hostwatch-io/hostwatch/internal/models"
)

// EventLog appends entries to one file per stream. Appends to the same
// stream are serialized; different streams never contend.
type EventLog struct {
	dir   string
	diag  Reporter
	locks map[models.Stream]*sync.Mutex
}

// New creates an event log rooted at dir. The directory is created on the
// first append.
func New(dir string, diag Reporter) *EventLog {
	locks := make(map[models.Stream]*sync.Mutex)
	for _, s := range models.Streams() {
		locks[s] = &sync.Mutex{}
	}
	return &EventLog{dir: dir, diag: diag, locks: locks}
}

// Dir returns the directory holding the stream files.
func (l *EventLog) Dir() string {
	return l.dir
}

// Path returns the file backing a stream.
func (l *EventLog) Path(stream models.Stream) string {
	return filepath.Join(l.dir, stream.FileName())
}

// Append writes entry as one line to the stream owning its category.
// Failures are reported to the diagnostic sink and returned; callers are
// expected to carry on.
func (l *EventLog) Append(entry models.LogEntry) error {
	stream := entry.Category.Stream()
	if err := l.appendLine(stream, entry.Line()); err != nil {
		l.diag.Errorf("eventlog", "append %s to %s: %v", entry.Category, stream, err)
		return err
	}
	return nil
}

func (l *EventLog) appendLine(stream models.Stream, line string) error {
	mu, err := l.lock(stream)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return err
	}

	file, err := os.OpenFile(l.Path(stream), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	// One write per line keeps records whole even across processes.
	if _, err := file.Write([]byte(line + "\n")); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ReadAll returns the full current content of a stream. A stream that has
// never been written reads as empty. The file is not modified.
func (l *EventLog) ReadAll(stream models.Stream) ([]byte, error) {
	mu, err := l.lock(stream)
	if err != nil {
		return nil, err
	}
	mu.Lock()
	defer mu.Unlock()

	data, err := os.ReadFile(l.Path(stream))
	if err != nil {
		if os.IsNotExist(err) {
			return []byte{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", stream, err)
	}
	return data, nil
}

// Size returns the current size of a stream in bytes.
func (l *EventLog) Size(stream models.Stream) (int64, error) {
	fi, err := os.Stat(l.Path(stream))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	return fi.Size(), nil
}

// TailLines returns up to n of the last non-empty lines in data.
func TailLines(data []byte, n int) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}

func (l *EventLog) lock(stream models.Stream) (*sync.Mutex, error) {
	mu, ok := l.locks[stream]
	if !ok {
		return nil, fmt.Errorf("unknown stream %q", stream)
	}
	return mu, nil
}
