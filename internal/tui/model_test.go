package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/hostwatch-io/hostwatch/internal/models"
)

func TestRenderLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		contains []string
	}{
		{
			name:     "app entry",
			line:     "2026-03-04 09:08:07,App,code - main.go,,00:00:02",
			contains: []string{"2026-03-04 09:08:07", "App", "code - main.go", "00:00:02"},
		},
		{
			name:     "print entry",
			line:     "2026-03-04 09:08:07,Print,alice,report.pdf to Office,",
			contains: []string{"Print", "alice", "report.pdf to Office"},
		},
		{
			name:     "unparseable",
			line:     "not a log line",
			contains: []string{"not a log line"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(renderLine(tt.line, 0, false))
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("renderLine(%q) = %q, missing %q", tt.line, got, want)
				}
			}
		})
	}
}

func TestRenderLineSessionHasNoDuration(t *testing.T) {
	got := ansi.Strip(renderLine("2026-03-04 09:08:07,Session,SessionLock,,", 0, false))
	if strings.Contains(got, "00:00:00") {
		t.Errorf("session line rendered a duration: %q", got)
	}
}

func TestRenderLineTruncates(t *testing.T) {
	line := "2026-03-04 09:08:07,App," + strings.Repeat("x", 200) + ",,00:00:02"
	got := renderLine(line, 40, true)
	if w := ansi.StringWidth(got); w > 40 {
		t.Errorf("rendered width = %d, want <= 40", w)
	}
}

func TestLoadFileCmd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app_log.txt")

	msg := loadFileCmd(path)()
	loaded, ok := msg.(ContentLoadedMsg)
	if !ok || len(loaded.Lines) != 0 {
		t.Fatalf("missing file should load empty, got %#v", msg)
	}

	content := "2026-03-04 09:08:07,Session,SessionLock,,\n2026-03-04 09:09:07,Session,SessionUnlock,,\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	loaded = loadFileCmd(path)().(ContentLoadedMsg)
	if len(loaded.Lines) != 2 || loaded.Size != int64(len(content)) {
		t.Errorf("loaded %d lines / %d bytes", len(loaded.Lines), loaded.Size)
	}
}

func TestModelFollowToggle(t *testing.T) {
	var m tea.Model = NewModel("/tmp/app_log.txt", models.StreamApp)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 10})

	lines := make([]string, 50)
	for i := range lines {
		lines[i] = "2026-03-04 09:08:07,Resume,gap 20s,,"
	}
	m, _ = m.Update(ContentLoadedMsg{Lines: lines, Size: 1234})

	model := m.(Model)
	if !model.follow || !model.viewport.AtBottom() {
		t.Fatal("expected follower to start at the bottom")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	model = m.(Model)
	if model.follow || !model.viewport.AtTop() {
		t.Error("expected g to jump to the top and pause")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	model = m.(Model)
	if !model.follow || !model.viewport.AtBottom() {
		t.Error("expected f to resume following")
	}

	if view := ansi.Strip(model.View()); !strings.Contains(view, "FOLLOW") || !strings.Contains(view, "50 lines") {
		t.Errorf("status bar missing state: %q", view)
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel("/tmp/app_log.txt", models.StreamApp)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestFileChangedReloads(t *testing.T) {
	m := NewModel(filepath.Join(t.TempDir(), "clipboard_log.txt"), models.StreamClipboard)
	_, cmd := m.Update(FileChangedMsg{})
	if cmd == nil {
		t.Fatal("expected reload command")
	}
	if _, ok := cmd().(ContentLoadedMsg); !ok {
		t.Error("expected ContentLoadedMsg")
	}
}
