package tui

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hostwatch-io/hostwatch/internal/daemon/eventlog"
	"github.com/hostwatch-io/hostwatch/internal/models"
)

// maxLines caps how much of a long stream is kept in the viewport.
const maxLines = 5000

// chromeHeight is the header plus the status bar.
const chromeHeight = 2

// Model is the follower's state.
type Model struct {
	path   string
	stream models.Stream

	lines  []string
	size   int64
	loaded bool
	err    error

	viewport viewport.Model
	follow   bool // Stick to the bottom on reload
	truncate bool // Cut lines at the terminal width instead of wrapping
	width    int
	height   int
}

// NewModel creates the follower for the stream file at path.
func NewModel(path string, stream models.Stream) Model {
	return Model{
		path:     path,
		stream:   stream,
		viewport: viewport.New(80, 22),
		follow:   true,
		truncate: true,
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return loadFileCmd(m.path)
}

// Update processes messages and returns an updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.follow = m.viewport.AtBottom()
		return m, cmd

	case FileChangedMsg:
		return m, loadFileCmd(m.path)

	case ContentLoadedMsg:
		m.lines = msg.Lines
		m.size = msg.Size
		m.loaded = true
		m.err = nil
		m.refresh()
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, followKeys.Quit):
		return tea.Quit
	case key.Matches(msg, followKeys.Up):
		m.viewport.LineUp(1)
		m.follow = false
	case key.Matches(msg, followKeys.Down):
		m.viewport.LineDown(1)
		m.follow = m.viewport.AtBottom()
	case key.Matches(msg, followKeys.PgUp):
		m.viewport.HalfViewUp()
		m.follow = false
	case key.Matches(msg, followKeys.PgDown):
		m.viewport.HalfViewDown()
		m.follow = m.viewport.AtBottom()
	case key.Matches(msg, followKeys.Top):
		m.viewport.GotoTop()
		m.follow = false
	case key.Matches(msg, followKeys.Bottom):
		m.viewport.GotoBottom()
		m.follow = true
	case key.Matches(msg, followKeys.Follow):
		m.follow = !m.follow
		if m.follow {
			m.viewport.GotoBottom()
		}
	case key.Matches(msg, followKeys.Wrap):
		m.truncate = !m.truncate
		m.refresh()
	}
	return nil
}

// refresh re-renders the lines into the viewport.
func (m *Model) refresh() {
	m.viewport.SetContent(renderLines(m.lines, m.width, m.truncate))
	if m.follow {
		m.viewport.GotoBottom()
	}
}

// View renders the follower.
func (m Model) View() string {
	header := renderHeader(m.stream, m.path, m.width)

	var body string
	switch {
	case m.err != nil:
		body = lipgloss.NewStyle().Foreground(colorRed).Render("Error: " + m.err.Error())
	case !m.loaded:
		body = lipgloss.NewStyle().Foreground(colorDim).Render("Loading...")
	case len(m.lines) == 0:
		body = lipgloss.NewStyle().Foreground(colorDim).Render("No entries yet. Waiting for the agent...")
	default:
		body = m.viewport.View()
	}
	body = lipgloss.NewStyle().Height(m.viewport.Height).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, renderStatusBar(&m, m.width))
}

// loadFileCmd reads the tail of the followed file. A missing file is shown
// as empty, since the agent creates streams lazily.
func loadFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return ContentLoadedMsg{}
		}
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to read %s: %w", path, err)}
		}
		return ContentLoadedMsg{
			Lines: eventlog.TailLines(data, maxLines),
			Size:  int64(len(data)),
		}
	}
}
