package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ayushhealth/ayushbot/internal/ui/theme"
)

// ProgressBar is the wizard's step bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a progress bar. percent is clamped to [0, 1].
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     min(max(percent, 0), 1),
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the bar.
func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  ")
	}

	used := lipgloss.Width(b.String())
	if p.ShowPercent {
		used += 6 // "  100%"
	}
	barWidth := max(p.Width-used, 4)
	filled := min(int(float64(barWidth)*p.Percent), barWidth)

	b.WriteString(theme.ProgressFilled.Render(strings.Repeat(" ", filled)))
	b.WriteString(theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)))

	if p.ShowPercent {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(p.Percent*100))))
	}
	return b.String()
}
