package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/hostwatch-io/hostwatch/internal/models"
)

// categoryWidth pads the category column to the longest category name.
const categoryWidth = 9

// renderLines renders stream lines for the viewport.
func renderLines(lines []string, width int, truncate bool) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = renderLine(line, width, truncate)
	}
	return strings.Join(out, "\n")
}

// renderLine colors the fields of one log line. Lines that do not parse are
// shown verbatim.
func renderLine(line string, width int, truncate bool) string {
	var rendered string
	entry, err := models.ParseLine(line)
	if err != nil {
		rendered = rawLineStyle.Render(line)
	} else {
		rendered = formatEntry(entry)
	}
	if truncate && width > 0 {
		rendered = ansi.Truncate(rendered, width, "…")
	}
	return rendered
}

func formatEntry(e models.LogEntry) string {
	style, ok := categoryStyles[e.Category]
	if !ok {
		style = secondaryStyle
	}

	parts := []string{
		timestampStyle.Render(e.Timestamp.Format(models.TimestampLayout)),
		style.Render(fmt.Sprintf("%-*s", categoryWidth, e.Category)),
		primaryStyle.Render(e.Primary),
	}
	if e.Secondary != "" {
		parts = append(parts, secondaryStyle.Render(e.Secondary))
	}
	if e.Category.HasDuration() {
		parts = append(parts, durationStyle.Render(models.FormatDuration(e.Duration)))
	}
	return strings.Join(parts, " ")
}
