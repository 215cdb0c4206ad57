// Package wizard is the TUI for the four-step diagnosis wizard.
package wizard

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"

	tea "charm.land/bubbletea/v2"

	"github.com/ayushhealth/ayushbot/internal/elicit"
	"github.com/ayushhealth/ayushbot/internal/insight"
	"github.com/ayushhealth/ayushbot/internal/predictor"
	"github.com/ayushhealth/ayushbot/internal/remedy"
	"github.com/ayushhealth/ayushbot/internal/render"
	"github.com/ayushhealth/ayushbot/internal/screen"
	"github.com/ayushhealth/ayushbot/internal/session"
	"github.com/ayushhealth/ayushbot/internal/symptom"
	"github.com/ayushhealth/ayushbot/internal/ui/components"
	"github.com/ayushhealth/ayushbot/internal/ui/layout"
	wiz "github.com/ayushhealth/ayushbot/internal/wizard"
)

// Renderer queues typed lines. *render.Renderer satisfies it.
type Renderer = wiz.Renderer

// Deps are the screen's collaborators. Explainer and Rand are optional.
type Deps struct {
	Controller *wiz.Controller
	Renderer   Renderer
	Buffer     *render.Buffer
	Explainer  *insight.Explainer
	Rand       *rand.Rand
}

// Surfaces within one run. Each is prefixed with the session id so lines
// still queued from an abandoned run never show up in the next one.
const (
	surfIdentity  = "identity"
	surfSymptoms  = "symptoms"
	surfQuestions = "questions"
	surfResults   = "results"
	surfInsight   = "insight"
)

// Focus slots on the identity step.
const (
	focusName = iota
	focusAge
	focusGender
	focusNext
)

// Screen drives a wiz.Controller.
type Screen struct {
	deps Deps
	ctrl *wiz.Controller
	run  string

	// identity
	name   components.TextInput
	age    components.TextInput
	gender components.Menu
	focus  int

	// symptoms; focus == wiz.SeedSlots means the Next button
	pickers [wiz.SeedSlots]components.Picker

	// questions
	asking    bool
	pending   string
	yesno     components.YesNo
	busy      bool
	concluded bool
	deadEnd   bool

	// results
	presenter  *remedy.Presenter
	shown      []remedy.Category
	categories components.Menu
	loading    bool
	resultErr  error
	insightErr error
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.StepProvider    = (*Screen)(nil)
)

// New creates the wizard screen at the identity step.
func New(deps Deps) *Screen {
	s := &Screen{deps: deps, ctrl: deps.Controller}
	s.reset()
	return s
}

func (s *Screen) reset() {
	s.run = s.ctrl.Session().ID
	s.focus = focusName

	s.name = components.NewTextInput("Name", "your name", false, 60)
	s.age = components.NewTextInput("Age", "1-"+strconv.Itoa(session.MaxAge), true, 3)
	items := make([]components.MenuItem, 0, len(session.Genders))
	for _, g := range session.Genders {
		items = append(items, components.MenuItem{Label: g, Action: s.pickGender(g)})
	}
	s.gender = components.NewMenu(items)

	for i := range s.pickers {
		s.pickers[i] = components.NewPicker("Symptom "+strconv.Itoa(i+1), symptom.Search, symptom.Label, 6)
	}

	s.asking, s.pending, s.busy, s.concluded, s.deadEnd = false, "", false, false, false
	s.presenter, s.shown, s.loading, s.resultErr, s.insightErr = nil, nil, false, nil, nil
}

// Controller returns the controller the screen drives.
func (s *Screen) Controller() *wiz.Controller { return s.ctrl }

func (s *Screen) surface(name string) string {
	return s.run + "/" + name
}

func (s *Screen) Title() string { return s.ctrl.Step().String() }

// StepLabel implements screen.StepProvider.
func (s *Screen) StepLabel() string {
	label, _ := s.ctrl.Progress()
	return label
}

func (s *Screen) Init() tea.Cmd {
	s.deps.Renderer.Script(s.surface(surfIdentity), wiz.GreetingLines()...)
	return tea.Batch(s.name.Focus(), tickCmd())
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s, tickCmd()
	case typedMsg:
		if msg.run != s.run {
			return s, nil
		}
		return s, s.handleTyped(msg)
	case actionMsg:
		if msg.run != s.run {
			return s, nil
		}
		return s, s.handleAction(msg)
	case bundleMsg:
		if msg.run != s.run {
			return s, nil
		}
		return s, s.handleBundle(msg)
	case insightMsg:
		if msg.run != s.run {
			return s, nil
		}
		return s, s.handleInsight(msg)
	case components.PickedMsg:
		return s, s.handlePicked(msg)
	case components.YesNoMsg:
		return s, s.handleAnswer(msg.Yes)
	}

	switch s.ctrl.Step() {
	case wiz.Identity:
		return s, s.updateIdentity(msg)
	case wiz.Symptoms:
		return s, s.updateSymptoms(msg)
	case wiz.Questions:
		return s, s.updateQuestions(msg)
	case wiz.Results:
		return s, s.updateResults(msg)
	}
	return s, nil
}

func (s *Screen) restart() tea.Cmd {
	s.ctrl.Restart()
	s.reset()
	return s.Init()
}

// Identity step.

func (s *Screen) pickGender(g string) func() tea.Cmd {
	return func() tea.Cmd {
		s.syncIdentity(g)
		s.focus = focusNext
		return nil
	}
}

// syncIdentity pushes the form into the controller. An empty gender keeps
// the one already chosen.
func (s *Screen) syncIdentity(gender string) {
	if gender == "" {
		gender = s.ctrl.Session().Gender
	}
	age, err := wiz.ParseAge(s.age.Value())
	s.age.Err = ""
	if err != nil {
		s.age.Err = err.Error()
	}
	s.ctrl.SetIdentity(s.name.Value(), age, gender)
}

func (s *Screen) setIdentityFocus(f int) tea.Cmd {
	s.focus = (f + focusNext + 1) % (focusNext + 1)
	s.name.Blur()
	s.age.Blur()
	switch s.focus {
	case focusName:
		return s.name.Focus()
	case focusAge:
		return s.age.Focus()
	}
	return nil
}

func (s *Screen) updateIdentity(msg tea.Msg) tea.Cmd {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab":
			return s.setIdentityFocus(s.focus + 1)
		case "shift+tab":
			return s.setIdentityFocus(s.focus - 1)
		case "enter":
			switch s.focus {
			case focusName, focusAge:
				return s.setIdentityFocus(s.focus + 1)
			case focusNext:
				return s.advance()
			}
		}
	}

	var cmd tea.Cmd
	switch s.focus {
	case focusName:
		s.name, cmd = s.name.Update(msg)
	case focusAge:
		s.age, cmd = s.age.Update(msg)
	case focusGender:
		s.gender, cmd = s.gender.Update(msg)
	}
	s.syncIdentity("")
	return cmd
}

// advance moves the controller on and runs the new step's opening.
func (s *Screen) advance() tea.Cmd {
	if err := s.ctrl.Advance(); err != nil {
		return nil
	}
	switch s.ctrl.Step() {
	case wiz.Symptoms:
		s.focus = 0
		s.deps.Renderer.Script(s.surface(surfSymptoms), wiz.SeedPromptLines(s.ctrl.Session().Name)...)
		return s.pickers[0].Focus()
	case wiz.Questions:
		s.deps.Renderer.Script(s.surface(surfQuestions), wiz.QuestionIntroLines()...)
		s.busy = true
		loop, run := s.ctrl.Loop(), s.run
		return func() tea.Msg {
			act, err := loop.Start(context.Background())
			return actionMsg{run: run, act: act, err: err}
		}
	case wiz.Results:
		s.loading = true
		ctrl, run := s.ctrl, s.run
		return func() tea.Msg {
			b, err := ctrl.FetchRemedies(context.Background())
			return bundleMsg{run: run, bundle: b, err: err}
		}
	}
	return nil
}

// Symptom step.

func (s *Screen) setSeedFocus(f int) tea.Cmd {
	s.focus = (f + wiz.SeedSlots + 1) % (wiz.SeedSlots + 1)
	for i := range s.pickers {
		s.pickers[i].Blur()
	}
	if s.focus < wiz.SeedSlots {
		return s.pickers[s.focus].Focus()
	}
	return nil
}

func (s *Screen) updateSymptoms(msg tea.Msg) tea.Cmd {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab":
			return s.setSeedFocus(s.focus + 1)
		case "shift+tab":
			return s.setSeedFocus(s.focus - 1)
		case "enter":
			if s.focus == wiz.SeedSlots {
				return s.advance()
			}
		}
	}
	if s.focus >= wiz.SeedSlots {
		return nil
	}

	p := &s.pickers[s.focus]
	before := p.Input.Value()
	var cmd tea.Cmd
	*p, cmd = p.Update(msg)
	if p.Input.Value() != before {
		// Editing a filled slot empties it until a new pick.
		_ = s.ctrl.SetSeed(s.focus, "")
	}
	return cmd
}

func (s *Screen) handlePicked(msg components.PickedMsg) tea.Cmd {
	if s.ctrl.Step() != wiz.Symptoms || s.focus >= wiz.SeedSlots {
		return nil
	}
	slot := s.focus
	if err := s.ctrl.SetSeed(slot, msg.ID); err != nil {
		if errors.Is(err, session.ErrDuplicateSymptom) {
			s.deps.Renderer.Render(s.surface(surfSymptoms), wiz.DuplicateSeedLine(msg.ID))
		}
		s.pickers[slot].Reset()
		return nil
	}
	s.pickers[slot].Input.SetValue(symptom.Label(msg.ID))

	next := slot + 1
	if s.ctrl.CanAdvance() {
		next = wiz.SeedSlots
	}
	return s.setSeedFocus(next)
}

// Question step.

func (s *Screen) handleAction(msg actionMsg) tea.Cmd {
	s.busy = false
	qs := s.surface(surfQuestions)
	if msg.err != nil {
		s.deadEnd = true
		s.deps.Renderer.Script(qs, predictor.Describe(msg.err), wiz.RestartHint)
		return nil
	}

	act := msg.act
	switch act.Kind {
	case elicit.Ask:
		s.pending = act.Symptom
		done := s.deps.Renderer.Render(qs, wiz.QuestionLine(act.Symptom))
		return waitTyped(done, s.run, "ask")
	case elicit.Conclude:
		s.concluded = true
		s.deps.Renderer.Script(qs, wiz.ConclusionLines(act.Accepted, act.Disease)...)
	case elicit.Exhaust:
		s.deadEnd = true
		s.deps.Renderer.Script(qs, wiz.ExhaustedLine, wiz.RestartHint)
	case elicit.Fail:
		s.deadEnd = true
		s.deps.Renderer.Script(qs, predictor.Describe(act.Err), wiz.RestartHint)
	}
	return nil
}

func (s *Screen) handleTyped(msg typedMsg) tea.Cmd {
	if msg.tag == "ask" && s.ctrl.Step() == wiz.Questions && s.pending != "" {
		s.asking = true
		s.yesno = components.NewYesNo()
	}
	return nil
}

func (s *Screen) handleAnswer(yes bool) tea.Cmd {
	if !s.asking || s.busy {
		return nil
	}
	s.asking = false
	qs := s.surface(surfQuestions)
	if yes {
		s.deps.Renderer.Script(qs, "› YES", wiz.RethinkLine(s.pending))
	} else {
		s.deps.Renderer.Render(qs, "› NO")
	}
	s.pending = ""
	s.busy = true
	loop, run := s.ctrl.Loop(), s.run
	return func() tea.Msg {
		act, err := loop.Answer(context.Background(), yes)
		return actionMsg{run: run, act: act, err: err}
	}
}

func (s *Screen) updateQuestions(msg tea.Msg) tea.Cmd {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case s.deadEnd && kmsg.String() == "r":
		return s.restart()
	case s.concluded && kmsg.String() == "enter":
		return s.advance()
	case s.asking:
		var cmd tea.Cmd
		s.yesno, cmd = s.yesno.Update(msg)
		return cmd
	}
	return nil
}

// Results step.

func (s *Screen) handleBundle(msg bundleMsg) tea.Cmd {
	s.loading = false
	rs := s.surface(surfResults)
	if msg.err == nil && msg.bundle == nil {
		msg.err = &predictor.MalformedResponseError{Endpoint: predictor.PathGetData, Err: errors.New("empty response")}
	}
	if msg.err != nil {
		s.resultErr = msg.err
		s.deps.Renderer.Script(rs, predictor.Describe(msg.err), wiz.RestartHint)
		return nil
	}

	s.ctrl.SetBundle(msg.bundle)
	disease, _ := s.ctrl.Diagnosis()
	sess := s.ctrl.Session()
	s.deps.Renderer.Script(rs, wiz.ResultLines(sess.Name, disease, msg.bundle.Description)...)

	s.presenter = remedy.NewPresenter(s.deps.Renderer, disease, msg.bundle, s.deps.Rand)
	_, _ = s.presenter.RevealTo(rs, remedy.Ayurvedic)
	s.buildCategoryMenu()

	if s.deps.Explainer == nil {
		return nil
	}
	in := insight.Input{
		Name:        sess.Name,
		Age:         sess.Age,
		Gender:      sess.Gender,
		Disease:     disease,
		Description: msg.bundle.Description,
		Accepted:    sess.Accepted(),
		Rejected:    sess.Rejected(),
	}
	explainer, run := s.deps.Explainer, s.run
	return func() tea.Msg {
		ins, err := explainer.Explain(context.Background(), in)
		return insightMsg{run: run, insight: ins, err: err}
	}
}

func (s *Screen) handleInsight(msg insightMsg) tea.Cmd {
	if msg.err != nil {
		s.insightErr = msg.err
		return nil
	}
	s.deps.Renderer.Script(s.surface(surfInsight), msg.insight.Lines()...)
	return nil
}

func (s *Screen) buildCategoryMenu() {
	items := make([]components.MenuItem, 0, len(remedy.OnDemand))
	for _, c := range remedy.OnDemand {
		items = append(items, components.MenuItem{Label: categoryLabel(c), Action: s.reveal(c)})
	}
	s.categories = components.NewMenu(items)
}

func (s *Screen) reveal(c remedy.Category) func() tea.Cmd {
	return func() tea.Cmd {
		if _, err := s.presenter.RevealTo(s.surface(c.Surface()), c); err != nil {
			return nil
		}
		s.shown = append(s.shown, c)
		return nil
	}
}

func (s *Screen) updateResults(msg tea.Msg) tea.Cmd {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || s.loading {
		return nil
	}
	if kmsg.String() == "r" {
		return s.restart()
	}
	if s.presenter == nil {
		return nil
	}
	var cmd tea.Cmd
	s.categories, cmd = s.categories.Update(msg)
	for _, c := range s.shown {
		s.categories.Disable(categoryLabel(c))
	}
	return cmd
}

// categoryLabel is the menu text for an on-demand category.
func categoryLabel(c remedy.Category) string {
	switch c {
	case remedy.Yoga:
		return "Yoga"
	case remedy.Diet:
		return "Ayurvedic Diet"
	case remedy.FoodAvoid:
		return "Food to Avoid"
	case remedy.Allopathic:
		return "Allopathic Remedy"
	default:
		return c.String()
	}
}

func (s *Screen) KeyHints() []layout.KeyHint {
	quit := layout.KeyHint{Key: "Ctrl+C", Description: "Quit"}
	switch s.ctrl.Step() {
	case wiz.Identity:
		return []layout.KeyHint{{Key: "Tab", Description: "Next field"}, {Key: "Enter", Description: "Confirm"}, quit}
	case wiz.Symptoms:
		return []layout.KeyHint{{Key: "Type", Description: "Filter"}, {Key: "↑↓", Description: "Choose"}, {Key: "Tab", Description: "Next slot"}, quit}
	case wiz.Questions:
		switch {
		case s.deadEnd:
			return []layout.KeyHint{{Key: "R", Description: "Start again"}, quit}
		case s.concluded:
			return []layout.KeyHint{{Key: "Enter", Description: "Get Insights"}, quit}
		}
		return []layout.KeyHint{{Key: "Y", Description: "Yes"}, {Key: "N", Description: "No"}, quit}
	default:
		return []layout.KeyHint{{Key: "↑↓", Description: "Category"}, {Key: "Enter", Description: "Reveal"}, {Key: "R", Description: "Start again"}, quit}
	}
}
