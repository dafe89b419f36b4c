package signals

import (
	"fmt"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
)

// SystemClipboard reads the desktop clipboard.
type SystemClipboard struct{}

// ReadText returns the clipboard's text content.
func (SystemClipboard) ReadText() (string, error) {
	if clipboard.Unsupported {
		return "", fmt.Errorf("%w: no clipboard utility found", ErrUnavailable)
	}
	return clipboard.ReadAll()
}

type readResult struct {
	text string
	err  error
}

// ThreadBound performs every read on one dedicated goroutine locked to its
// OS thread, for clipboards that may only be touched from the thread that
// owns them. Callers on any goroutine get a scoped, blocking call.
type ThreadBound struct {
	reader  ClipboardReader
	timeout time.Duration
	reqs    chan chan readResult
	done    chan struct{}
}

// NewThreadBound starts the owning goroutine for reader.
func NewThreadBound(reader ClipboardReader, timeout time.Duration) *ThreadBound {
	t := &ThreadBound{
		reader:  reader,
		timeout: timeout,
		reqs:    make(chan chan readResult),
		done:    make(chan struct{}),
	}
	go t.loop()
	return t
}

func (t *ThreadBound) loop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for {
		select {
		case <-t.done:
			return
		case reply := <-t.reqs:
			text, err := t.reader.ReadText()
			reply <- readResult{text: text, err: err}
		}
	}
}

// ReadText marshals a read onto the owning thread. A read that cannot be
// scheduled or completed within the timeout reports ErrUnavailable.
func (t *ThreadBound) ReadText() (string, error) {
	reply := make(chan readResult, 1)
	timer := time.NewTimer(t.timeout)
	defer timer.Stop()

	select {
	case t.reqs <- reply:
	case <-timer.C:
		return "", fmt.Errorf("%w: clipboard owner busy", ErrUnavailable)
	case <-t.done:
		return "", fmt.Errorf("%w: clipboard closed", ErrUnavailable)
	}

	select {
	case r := <-reply:
		return r.text, r.err
	case <-timer.C:
		return "", fmt.Errorf("%w: clipboard read timed out", ErrUnavailable)
	}
}

// Close stops the owning goroutine.
func (t *ThreadBound) Close() {
	close(t.done)
}
