package tracker

import (
	"strings"
	"time"

	"github.com/hostwatch-io/hostwatch/internal/models"
)

// ClipboardTracker de-duplicates clipboard samples. Like Tracker, it belongs
// to a single sampler goroutine.
type ClipboardTracker struct {
	last string
}

// Observe returns a Clipboard entry when text is non-blank and differs from
// the previously logged value.
func (c *ClipboardTracker) Observe(now time.Time, text string) (models.LogEntry, bool) {
	if strings.TrimSpace(text) == "" || text == c.last {
		return models.LogEntry{}, false
	}
	c.last = text
	return models.NewEntry(now, models.CategoryClipboard, text, ""), true
}
