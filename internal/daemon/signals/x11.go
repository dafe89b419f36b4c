package signals

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hostwatch-io/hostwatch/internal/models"
)

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// X11Sampler queries an X11 session through xprintidle and xdotool.
type X11Sampler struct {
	run      Runner
	procRoot string
	timeout  time.Duration
}

// NewX11Sampler creates a sampler that shells out to the X11 helpers.
func NewX11Sampler() *X11Sampler {
	return &X11Sampler{
		run:      execRunner,
		procRoot: "/proc",
		timeout:  2 * time.Second,
	}
}

// IdleTime returns the X server's input idle time.
func (s *X11Sampler) IdleTime() (time.Duration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	out, err := s.run(ctx, "xprintidle")
	if err != nil {
		return 0, fmt.Errorf("xprintidle: %w", err)
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse xprintidle output %q: %w", out, err)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// ActiveWindow returns the process name and title of the focused window.
// Both are read in one xdotool invocation so they describe the same window.
func (s *X11Sampler) ActiveWindow() (models.Window, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	out, err := s.run(ctx, "xdotool", "getactivewindow", "getwindowpid", "getwindowname")
	if err != nil {
		return models.Window{}, fmt.Errorf("%w: xdotool: %v", ErrUnavailable, err)
	}

	lines := strings.SplitN(strings.TrimRight(string(out), "\n"), "\n", 2)
	if len(lines) != 2 || lines[1] == "" {
		return models.Window{}, ErrUnavailable
	}
	pid, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return models.Window{}, fmt.Errorf("%w: window pid %q", ErrUnavailable, lines[0])
	}

	app, err := s.processName(pid)
	if err != nil {
		// The process exited between the two queries.
		return models.Window{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return models.Window{App: app, Title: lines[1]}, nil
}

func (s *X11Sampler) processName(pid int) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.procRoot, strconv.Itoa(pid), "comm"))
	if err != nil {
		return "", err
	}
	name := string(bytes.TrimSpace(data))
	if name == "" {
		return "", fmt.Errorf("empty process name for pid %d", pid)
	}
	return name, nil
}
