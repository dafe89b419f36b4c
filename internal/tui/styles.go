package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hostwatch-io/hostwatch/internal/models"
)

// Colors using AdaptiveColor for light/dark terminal support.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorOrange = lipgloss.AdaptiveColor{Light: "166", Dark: "208"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
	colorPurple = lipgloss.AdaptiveColor{Light: "91", Dark: "141"}
)

// Layout styles.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(lipgloss.AdaptiveColor{Light: "235", Dark: "236"})
)

// Line field styles.
var (
	timestampStyle = lipgloss.NewStyle().Foreground(colorDim)
	primaryStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	secondaryStyle = lipgloss.NewStyle().Foreground(colorDim)
	durationStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	rawLineStyle   = lipgloss.NewStyle().Foreground(colorDim).Italic(true)
)

// categoryStyles colors the category column.
var categoryStyles = map[models.Category]lipgloss.Style{
	models.CategoryApp:       lipgloss.NewStyle().Foreground(colorGreen),
	models.CategoryIdleStart: lipgloss.NewStyle().Foreground(colorYellow),
	models.CategoryIdleEnd:   lipgloss.NewStyle().Foreground(colorYellow),
	models.CategorySession:   lipgloss.NewStyle().Foreground(colorPurple).Bold(true),
	models.CategoryPower:     lipgloss.NewStyle().Foreground(colorOrange).Bold(true),
	models.CategoryShutdown:  lipgloss.NewStyle().Foreground(colorRed).Bold(true),
	models.CategoryPrint:     lipgloss.NewStyle().Foreground(colorCyan).Bold(true),
	models.CategoryResume:    lipgloss.NewStyle().Foreground(colorOrange),
	models.CategoryClipboard: lipgloss.NewStyle().Foreground(colorPurple),
}

// Key hint styles for status bar.
var (
	keyStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	hintStyle = lipgloss.NewStyle().Foreground(colorDim)
)
