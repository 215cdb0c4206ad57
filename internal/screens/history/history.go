package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ayushhealth/ayushbot/internal/router"
	"github.com/ayushhealth/ayushbot/internal/screen"
	"github.com/ayushhealth/ayushbot/internal/store"
	"github.com/ayushhealth/ayushbot/internal/symptom"
	"github.com/ayushhealth/ayushbot/internal/ui/layout"
	"github.com/ayushhealth/ayushbot/internal/ui/theme"
)

// Limit caps how many runs the screen loads.
const Limit = 50

type historyLoadedMsg struct {
	Runs []store.SessionSummaryRecord
	Err  error
}

type answersLoadedMsg struct {
	SessionID string
	Answers   []store.AnswerEventRecord
	Err       error
}

// HistoryScreen lists finished runs. Enter expands a run into its answers.
type HistoryScreen struct {
	repo     store.HistoryRepo
	runs     []store.SessionSummaryRecord
	answers  map[string][]store.AnswerEventRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen over repo.
func New(repo store.HistoryRepo) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		answers:  make(map[string][]store.AnswerEventRecord),
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		runs, err := repo.QuerySessionSummaries(context.Background(), store.QueryOpts{Limit: Limit})
		return historyLoadedMsg{Runs: runs, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Past Runs"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Answers"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.runs = msg.Runs
		}
		s.loaded = true
		return s, nil

	case answersLoadedMsg:
		if msg.Err == nil {
			s.answers[msg.SessionID] = msg.Answers
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.runs)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if len(s.runs) == 0 {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			if s.expanded[s.selected] {
				return s, s.loadAnswers(s.runs[s.selected].SessionID)
			}
			return s, nil
		}
	}
	return s, nil
}

// loadAnswers fetches a run's answers once.
func (s *HistoryScreen) loadAnswers(id string) tea.Cmd {
	if _, ok := s.answers[id]; ok {
		return nil
	}
	repo := s.repo
	return func() tea.Msg {
		answers, err := repo.QueryAnswers(context.Background(), id)
		return answersLoadedMsg{SessionID: id, Answers: answers, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading past runs...")
	}
	if len(s.runs) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No runs yet. Start a diagnosis!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, run := range s.runs {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := prefix + runLine(run)

		style := lipgloss.NewStyle().Foreground(outcomeColor(run.Outcome))
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, l := range s.detailLines(run) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, l))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func runLine(run store.SessionSummaryRecord) string {
	dateStr := run.Timestamp.Local().Format("Jan 02, 2006 15:04")
	durationStr := fmt.Sprintf("%d:%02d", run.DurationSecs/60, run.DurationSecs%60)

	result := outcomeLabel(run.Outcome)
	if run.Disease != "" {
		result = symptom.Label(run.Disease)
	}
	return fmt.Sprintf("%s  %s  %-8s  %d questions  %s",
		dateStr, durationStr, run.Name, run.QuestionsAsked, result)
}

func (s *HistoryScreen) detailLines(run store.SessionSummaryRecord) []string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	answers, ok := s.answers[run.SessionID]
	if !ok {
		return []string{dim.Render("    loading answers...")}
	}
	if len(answers) == 0 {
		return []string{dim.Render("    No questions answered")}
	}
	out := make([]string, 0, len(answers))
	for _, a := range answers {
		mark, c := "✗", theme.Rejected.GetForeground()
		if a.Answer {
			mark, c = "✓", theme.Accepted.GetForeground()
		}
		out = append(out, lipgloss.NewStyle().Foreground(c).
			Render(fmt.Sprintf("    %s %s", mark, symptom.Label(a.Symptom))))
	}
	return out
}

func outcomeLabel(outcome string) string {
	switch outcome {
	case store.OutcomeExhausted:
		return "no diagnosis"
	case store.OutcomeFailed:
		return "service error"
	case store.OutcomeAbandoned:
		return "left early"
	default:
		return outcome
	}
}

func outcomeColor(outcome string) color.Color {
	switch outcome {
	case store.OutcomeConcluded:
		return theme.Text
	case store.OutcomeAbandoned:
		return theme.TextDim
	default:
		return theme.Error
	}
}
