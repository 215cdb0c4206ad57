package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ayushhealth/ayushbot/internal/router"
	"github.com/ayushhealth/ayushbot/internal/screen"
	"github.com/ayushhealth/ayushbot/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 4500 * time.Millisecond
)

const mascotArt = `  ╭───────────╮
  │    ┌─┐    │
  │  ┌─┘ └─┐  │
  │  └─┐ ┌─┘  │
  │    └─┘    │
  │  ❀  ☘  ❀  │
  │   ~~~~~   │
  ╰───────────╯`

// Frames for the pulse around the mascot.
var pulseFrames = []string{"✚", "✦"}

// Tagline is shown under the banner.
const Tagline = "Diagnosis and Ayurvedic remedies, one question at a time."

type tickMsg time.Time

// WelcomeScreen is the splash. Any key skips to the screen built by next.
type WelcomeScreen struct {
	next         func() screen.Screen
	history      func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// Option configures the splash.
type Option func(*WelcomeScreen)

// WithHistory makes h push the screen built by open on top of the splash.
func WithHistory(open func() screen.Screen) Option {
	return func(w *WelcomeScreen) { w.history = open }
}

// New creates the splash. next is called once, on the first other key press.
func New(next func() screen.Screen, opts ...Option) *WelcomeScreen {
	w := &WelcomeScreen{next: next}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tea.Tick(tickInterval, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})

	case tea.KeyPressMsg:
		if msg.String() == "h" && w.history != nil && !w.transitioned {
			past := w.history()
			return w, func() tea.Msg { return router.PushScreenMsg{Screen: past} }
		}
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) hint() string {
	if w.history != nil {
		return "press any key to begin, h for past runs"
	}
	return "press any key to begin"
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	mascotStyle := lipgloss.NewStyle().Foreground(theme.Primary)

	rendered := mascotStyle.Render(mascotArt)

	if w.elapsed >= phase1End {
		sparkle := pulseFrames[w.tickCount%len(pulseFrames)]

		s1 := lipgloss.NewStyle().Foreground(theme.Accent).Render(sparkle)
		s2 := lipgloss.NewStyle().Foreground(theme.Secondary).Render(sparkle)

		lines := strings.Split(rendered, "\n")
		if len(lines) > 1 {
			lines[0] = s1 + "  " + lines[0] + "  " + s2
		}
		if len(lines) > 3 {
			lines[3] = s2 + "  " + lines[3] + "  " + s1
		}
		if len(lines) > 6 {
			lines[6] = s1 + "  " + lines[6] + "  " + s2
		}
		rendered = strings.Join(lines, "\n")
	}

	sections = append(sections, rendered)

	if w.elapsed >= phase2End {
		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render(Tagline)
		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render(w.hint())
		sections = append(sections, "", RenderBanner(width), "", tagline, "", hint)
	}

	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
