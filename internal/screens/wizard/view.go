package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ayushhealth/ayushbot/internal/symptom"
	"github.com/ayushhealth/ayushbot/internal/ui/components"
	"github.com/ayushhealth/ayushbot/internal/ui/theme"
	wiz "github.com/ayushhealth/ayushbot/internal/wizard"
)

// doctorMarker starts the insight line that gets the warning colour.
const doctorMarker = "⚠"

func (s *Screen) View(width, height int) string {
	inner := max(width-4, 10)

	label, frac := s.ctrl.Progress()
	bar := components.NewProgressBar(label, frac, false, inner).View()

	var controls string
	var transcript []string
	switch s.ctrl.Step() {
	case wiz.Identity:
		transcript = s.lines(surfIdentity)
		controls = s.identityControls()
	case wiz.Symptoms:
		transcript = s.lines(surfSymptoms)
		controls = s.symptomControls()
	case wiz.Questions:
		transcript = s.lines(surfQuestions)
		controls = s.questionControls()
	case wiz.Results:
		transcript = s.resultLines()
		controls = s.resultControls()
	}

	controlsHeight := lipgloss.Height(controls)
	room := max(height-controlsHeight-3, 1)
	chat := renderTranscript(transcript, inner, room)

	body := lipgloss.JoinVertical(lipgloss.Left, bar, "", chat, "", controls)
	return lipgloss.NewStyle().Padding(0, 2).Render(body)
}

func (s *Screen) lines(name string) []string {
	return s.deps.Buffer.Lines(s.surface(name))
}

// resultLines stacks the results surface, each revealed category in the
// order it was picked, and the insight.
func (s *Screen) resultLines() []string {
	out := s.lines(surfResults)
	for _, c := range s.shown {
		if ls := s.lines(c.Surface()); len(ls) > 0 {
			out = append(out, "")
			out = append(out, ls...)
		}
	}
	if ls := s.lines(surfInsight); len(ls) > 0 {
		out = append(out, "")
		out = append(out, ls...)
	}
	return out
}

// renderTranscript wraps lines to width and keeps the last rows that fit.
func renderTranscript(lines []string, width, rows int) string {
	var styled []string
	for _, l := range lines {
		style := theme.BotLine
		switch {
		case strings.HasPrefix(l, "›"):
			style = theme.UserLine
		case strings.HasPrefix(l, doctorMarker):
			style = theme.Warning
		}
		wrapped := style.Width(width).Render(l)
		styled = append(styled, strings.Split(wrapped, "\n")...)
	}
	if len(styled) > rows {
		styled = styled[len(styled)-rows:]
	}
	return strings.Join(styled, "\n")
}

func (s *Screen) nextButton(label string, focused bool) string {
	if !s.ctrl.CanAdvance() {
		return ""
	}
	b := components.NewButton(label, nil)
	b.Focused = focused
	return b.View()
}

func (s *Screen) identityControls() string {
	gender := theme.Unselected.Render("Gender")
	if s.focus == focusGender {
		gender = theme.Selected.Render("Gender")
	}
	if g := s.ctrl.Session().Gender; g != "" {
		gender += theme.Hint.Render("  (" + g + ")")
	}
	parts := []string{
		s.name.View(),
		"",
		s.age.View(),
		"",
		gender,
		strings.TrimRight(s.gender.View(), "\n"),
	}
	if btn := s.nextButton("Next", s.focus == focusNext); btn != "" {
		parts = append(parts, "", btn)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (s *Screen) symptomControls() string {
	var parts []string
	for i := range s.pickers {
		parts = append(parts, s.pickers[i].View(), "")
	}
	if seeds := s.ctrl.Seeds(); len(seeds) > 0 {
		parts = append(parts, theme.Hint.Render("Selected: "+symptom.JoinLabels(seeds)))
	}
	if btn := s.nextButton("Next", s.focus == wiz.SeedSlots); btn != "" {
		parts = append(parts, "", btn)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (s *Screen) questionControls() string {
	switch {
	case s.deadEnd:
		return theme.Hint.Render(wiz.RestartHint)
	case s.concluded:
		return s.nextButton("Get Insights", true)
	case s.asking:
		return s.yesno.View()
	case s.busy:
		return theme.Hint.Render("thinking...")
	}
	return ""
}

func (s *Screen) resultControls() string {
	switch {
	case s.loading:
		return theme.Hint.Render("fetching remedies...")
	case s.resultErr != nil:
		return theme.Hint.Render(wiz.RestartHint)
	case s.presenter == nil:
		return ""
	}

	parts := []string{theme.Subtitle.Render("Explore more:")}
	if len(s.presenter.Available()) > 0 {
		parts = append(parts, strings.TrimRight(s.categories.View(), "\n"))
	} else {
		parts = append(parts, theme.Hint.Render("  all categories shown"))
	}
	if s.insightErr != nil {
		parts = append(parts, theme.Hint.Render("AI insight unavailable: "+s.insightErr.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
