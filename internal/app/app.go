package app

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ayushhealth/ayushbot/internal/insight"
	"github.com/ayushhealth/ayushbot/internal/predictor"
	"github.com/ayushhealth/ayushbot/internal/render"
	"github.com/ayushhealth/ayushbot/internal/router"
	"github.com/ayushhealth/ayushbot/internal/screen"
	"github.com/ayushhealth/ayushbot/internal/screens/history"
	"github.com/ayushhealth/ayushbot/internal/screens/welcome"
	wizscreen "github.com/ayushhealth/ayushbot/internal/screens/wizard"
	"github.com/ayushhealth/ayushbot/internal/store"
	"github.com/ayushhealth/ayushbot/internal/ui/layout"
	"github.com/ayushhealth/ayushbot/internal/wizard"
)

// Options are the TUI's dependencies. Client is required.
type Options struct {
	Client      predictor.Client
	EventRepo   store.EventRepo    // nil: runs are not recorded
	History     store.HistoryRepo  // nil: no past-runs screen
	Explainer   *insight.Explainer // nil: no AI insight on the results step
	TypingDelay time.Duration
	SkipSplash  bool
	Rand        *rand.Rand
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	ctrl   *wizard.Controller
	width  int
	height int
}

// newAppModel builds the wizard and puts the splash in front of it.
func newAppModel(opts Options, r wizscreen.Renderer, buf *render.Buffer) AppModel {
	var wopts []wizard.Option
	if opts.EventRepo != nil {
		wopts = append(wopts, wizard.WithObserver(wizard.Recording(opts.EventRepo)))
	}
	ctrl := wizard.New(opts.Client, wopts...)

	main := func() screen.Screen {
		return wizscreen.New(wizscreen.Deps{
			Controller: ctrl,
			Renderer:   r,
			Buffer:     buf,
			Explainer:  opts.Explainer,
			Rand:       opts.Rand,
		})
	}

	var wel []welcome.Option
	if opts.History != nil {
		wel = append(wel, welcome.WithHistory(func() screen.Screen {
			return history.New(opts.History)
		}))
	}
	first := screen.Screen(welcome.New(main, wel...))
	if opts.SkipSplash {
		first = main()
	}
	return AppModel{router: router.New(first), ctrl: ctrl}
}

func (m AppModel) Init() tea.Cmd {
	if a := m.router.Active(); a != nil {
		return a.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.frame())
	return v
}

// frame renders header, active screen and footer at the current size.
func (m AppModel) frame() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	var title, step string
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StepProvider); ok {
			step = sp.StepLabel()
		}
	}
	header := layout.RenderHeader(title, step, m.width)

	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if kp, ok := active.(screen.KeyHintProvider); ok {
		hints = kp.KeyHints()
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the TUI and blocks until the user quits. A run left mid-loop
// is recorded as abandoned.
func Run(opts Options) error {
	if opts.Client == nil {
		return fmt.Errorf("app: no predictor client")
	}
	buf := render.NewBuffer()
	r := render.New(buf, render.WithDelay(opts.TypingDelay))
	defer r.Stop()

	m := newAppModel(opts, r, buf)
	defer m.ctrl.Close()

	if _, err := tea.NewProgram(m).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
