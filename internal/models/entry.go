// Package models contains shared data structures used across the application.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Category is the kind of fact a LogEntry records.
type Category string

// Entry categories.
const (
	CategoryApp       Category = "App"
	CategoryIdleStart Category = "IdleStart"
	CategoryIdleEnd   Category = "IdleEnd"
	CategorySession   Category = "Session"
	CategoryPower     Category = "Power"
	CategoryShutdown  Category = "Shutdown"
	CategoryPrint     Category = "Print"
	CategoryResume    Category = "Resume"
	CategoryClipboard Category = "Clipboard"
)

// Stream is a physical log file that groups one or more categories.
// The stream key doubles as the collector's file identifier.
type Stream string

// Storage streams.
const (
	StreamApp       Stream = "app_log"
	StreamClipboard Stream = "clipboard_log"
)

// TimestampLayout is the layout of the first field of every log line.
const TimestampLayout = "2006-01-02 15:04:05"

// Streams returns every stream in upload order.
func Streams() []Stream {
	return []Stream{StreamApp, StreamClipboard}
}

// ParseStream resolves a stream key or a short alias ("app", "clipboard").
func ParseStream(s string) (Stream, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "app", string(StreamApp):
		return StreamApp, nil
	case "clipboard", string(StreamClipboard):
		return StreamClipboard, nil
	}
	return "", fmt.Errorf("unknown stream %q (expected app or clipboard)", s)
}

// FileName returns the on-disk name of the stream (e.g., "app_log.txt").
func (s Stream) FileName() string {
	return string(s) + ".txt"
}

// Stream returns the stream the category is stored in.
func (c Category) Stream() Stream {
	if c == CategoryClipboard {
		return StreamClipboard
	}
	return StreamApp
}

// HasDuration reports whether entries of this category carry a duration.
func (c Category) HasDuration() bool {
	return c == CategoryApp || c == CategoryIdleEnd
}

// LogEntry is an immutable, timestamped fact derived from host signals.
type LogEntry struct {
	Timestamp time.Time
	Category  Category
	Primary   string
	Secondary string
	Duration  time.Duration // Only meaningful when Category.HasDuration()
}

// NewEntry creates an entry without a duration.
func NewEntry(at time.Time, category Category, primary, secondary string) LogEntry {
	return LogEntry{
		Timestamp: at.Truncate(time.Second),
		Category:  category,
		Primary:   primary,
		Secondary: secondary,
	}
}

// NewTimedEntry creates an entry that records how long something lasted.
func NewTimedEntry(at time.Time, category Category, primary string, d time.Duration) LogEntry {
	e := NewEntry(at, category, primary, "")
	e.Duration = d
	return e
}

// Line renders the entry as one record, without the trailing newline:
// "<timestamp>,<category>,<primary>,<secondary>,<duration-or-empty>".
func (e LogEntry) Line() string {
	duration := ""
	if e.Category.HasDuration() {
		duration = FormatDuration(e.Duration)
	}
	return strings.Join([]string{
		e.Timestamp.Format(TimestampLayout),
		Sanitize(string(e.Category)),
		Sanitize(e.Primary),
		Sanitize(e.Secondary),
		duration,
	}, ",")
}

var fieldReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", ",", " ")

// Sanitize replaces record delimiters (commas and line breaks) with spaces.
func Sanitize(s string) string {
	return fieldReplacer.Replace(s)
}

// FormatDuration renders d as hh:mm:ss. Hours are not wrapped at 24 and
// negative durations clamp to zero.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

// ParseDuration is the inverse of FormatDuration.
func ParseDuration(s string) (time.Duration, error) {
	var h, m, sec int64
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}

// ParseLine parses one record written by Line. Timestamps are interpreted in
// the local time zone, matching how they were written.
func ParseLine(line string) (LogEntry, error) {
	parts := strings.SplitN(strings.TrimRight(line, "\r\n"), ",", 5)
	if len(parts) < 3 {
		return LogEntry{}, fmt.Errorf("malformed log line: %q", line)
	}
	ts, err := time.ParseInLocation(TimestampLayout, parts[0], time.Local)
	if err != nil {
		return LogEntry{}, fmt.Errorf("malformed timestamp: %w", err)
	}

	entry := LogEntry{
		Timestamp: ts,
		Category:  Category(parts[1]),
		Primary:   parts[2],
	}
	if len(parts) > 3 {
		entry.Secondary = parts[3]
	}
	if len(parts) > 4 && parts[4] != "" {
		d, err := ParseDuration(parts[4])
		if err != nil {
			return LogEntry{}, err
		}
		entry.Duration = d
	}
	return entry, nil
}

// Window identifies the foreground application and its window title.
type Window struct {
	App   string
	Title string
}

// Identity combines application and title into the tracked target string.
func (w Window) Identity() string {
	return w.App + " - " + w.Title
}
