package tray

import (
	"testing"
	"time"
)

func TestFormatLastUpload(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		at       time.Time
		ok, ran  bool
		expected string
	}{
		{name: "never", ran: false, expected: "Last upload: never"},
		{name: "success", at: now.Add(-2 * time.Minute), ok: true, ran: true, expected: "Last upload: 2 minutes ago"},
		{name: "failure", at: now.Add(-3 * time.Hour), ok: false, ran: true, expected: "Last upload: failed 3 hours ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatLastUpload(tt.at, tt.ok, tt.ran, now); got != tt.expected {
				t.Errorf("formatLastUpload() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatTooltip(t *testing.T) {
	if got := formatTooltip(true, "0f9c2a4e-1111-2222-3333-444455556666"); got != "Hostwatch (0f9c2a4e) idle" {
		t.Errorf("formatTooltip = %q", got)
	}
	if got := formatTooltip(false, "abc"); got != "Hostwatch (abc) active" {
		t.Errorf("formatTooltip = %q", got)
	}
	if formatStatus(true) == formatStatus(false) {
		t.Error("idle and active status must differ")
	}
}

func TestIconEmbedded(t *testing.T) {
	if len(iconData) < 8 || string(iconData[1:4]) != "PNG" {
		t.Errorf("embedded icon is not a PNG (%d bytes)", len(iconData))
	}
}
