package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/hostwatch-io/hostwatch/internal/models"
)

func renderHeader(stream models.Stream, path string, width int) string {
	title := headerStyle.Render("Hostwatch") + " " + hintStyle.Render("·") + " " + headerStyle.Render(string(stream))
	right := hintStyle.Render(path)

	gap := width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		return title
	}
	return title + strings.Repeat(" ", gap) + right
}

func renderStatusBar(m *Model, width int) string {
	left := " " + getKeyHints()

	mode := lipgloss.NewStyle().Foreground(colorYellow).Bold(true).Render("PAUSED")
	if m.follow {
		mode = lipgloss.NewStyle().Foreground(colorGreen).Bold(true).Render("FOLLOW")
	}
	right := fmt.Sprintf("%s %s %s ",
		hintStyle.Render(fmt.Sprintf("%d lines", len(m.lines))),
		hintStyle.Render(humanize.Bytes(uint64(m.size))),
		mode,
	)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func getKeyHints() string {
	var hints []string
	for _, b := range hintKeys {
		h := b.Help()
		hints = append(hints, keyStyle.Render(h.Key)+" "+hintStyle.Render(h.Desc))
	}
	return strings.Join(hints, "  ")
}
