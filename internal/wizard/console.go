package wizard

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/ayushhealth/ayushbot/internal/elicit"
	"github.com/ayushhealth/ayushbot/internal/insight"
	"github.com/ayushhealth/ayushbot/internal/predictor"
	"github.com/ayushhealth/ayushbot/internal/remedy"
	"github.com/ayushhealth/ayushbot/internal/render"
	"github.com/ayushhealth/ayushbot/internal/session"
	"github.com/ayushhealth/ayushbot/internal/symptom"
)

// ConsoleSurface is the single surface the line-mode wizard types onto.
const ConsoleSurface = "console"

// maxSuggestions caps the "did you mean" list for an unknown symptom.
const maxSuggestions = 5

// Renderer types bot lines. *render.Renderer satisfies it.
type Renderer interface {
	Render(surface, text string) <-chan struct{}
	Script(surface string, lines ...string) <-chan struct{}
}

// Console runs the wizard as a plain question-and-answer session over a
// reader and a writer. Bot lines go through the renderer; prompts and
// hints are written straight to out once the renderer is idle.
type Console struct {
	ctrl      *Controller
	r         Renderer
	in        *bufio.Scanner
	out       io.Writer
	explainer *insight.Explainer
	rng       *rand.Rand
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithExplainer adds the AI insight after the remedies.
func WithExplainer(e *insight.Explainer) ConsoleOption {
	return func(c *Console) { c.explainer = e }
}

// WithRand fixes the remedy sampling source.
func WithRand(rng *rand.Rand) ConsoleOption {
	return func(c *Console) { c.rng = rng }
}

// NewConsole creates a line-mode driver for ctrl.
func NewConsole(ctrl *Controller, r Renderer, in io.Reader, out io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{ctrl: ctrl, r: r, in: bufio.NewScanner(in), out: out}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run plays runs until the user declines another one or input ends.
func (c *Console) Run(ctx context.Context) error {
	defer c.ctrl.Close()
	for {
		err := c.runOnce(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		again, err := c.readLine("Start again? [y/N] ")
		if err != nil || !isYes(again) {
			return nil
		}
		c.ctrl.Restart()
	}
}

func (c *Console) runOnce(ctx context.Context) error {
	if err := c.identity(ctx); err != nil {
		return err
	}
	if err := c.seeds(ctx); err != nil {
		return err
	}
	concluded, err := c.questions(ctx)
	if err != nil || !concluded {
		return err
	}
	return c.results(ctx)
}

func (c *Console) identity(ctx context.Context) error {
	if err := c.say(ctx, GreetingLines()...); err != nil {
		return err
	}

	var name, gender string
	var age int
	for name == "" {
		v, err := c.readLine("Name: ")
		if err != nil {
			return err
		}
		name = strings.TrimSpace(v)
	}
	for age == 0 {
		v, err := c.readLine("Age: ")
		if err != nil {
			return err
		}
		if age, err = ParseAge(v); err != nil {
			c.hint(err.Error())
		}
	}
	prompt := fmt.Sprintf("Gender (%s): ", strings.Join(session.Genders, "/"))
	for gender == "" {
		v, err := c.readLine(prompt)
		if err != nil {
			return err
		}
		if g := strings.ToLower(strings.TrimSpace(v)); slices.Contains(session.Genders, g) {
			gender = g
		}
	}

	c.ctrl.SetIdentity(name, age, gender)
	return c.ctrl.Advance()
}

func (c *Console) seeds(ctx context.Context) error {
	if err := c.say(ctx, SeedPromptLines(c.ctrl.Session().Name)[:2]...); err != nil {
		return err
	}
	for i := 0; i < SeedSlots; {
		v, err := c.readLine(fmt.Sprintf("Symptom %d: ", i+1))
		if err != nil {
			return err
		}
		id, suggestions := ResolveSymptom(v)
		if id == "" {
			if len(suggestions) > 0 {
				c.hint("did you mean: " + symptom.JoinLabels(suggestions) + "?")
			} else {
				c.hint("unknown symptom")
			}
			continue
		}
		if err := c.ctrl.SetSeed(i, id); err != nil {
			if !errors.Is(err, session.ErrDuplicateSymptom) {
				return err
			}
			if err := c.say(ctx, DuplicateSeedLine(id)); err != nil {
				return err
			}
			continue
		}
		i++
	}
	return c.ctrl.Advance()
}

// questions runs the loop and reports whether it concluded.
func (c *Console) questions(ctx context.Context) (bool, error) {
	if err := c.say(ctx, QuestionIntroLines()...); err != nil {
		return false, err
	}
	loop := c.ctrl.Loop()
	act, err := loop.Start(ctx)
	for err == nil && act.Kind == elicit.Ask {
		if err := c.say(ctx, QuestionLine(act.Symptom)); err != nil {
			return false, err
		}
		yes, rerr := c.readYesNo()
		if rerr != nil {
			return false, rerr
		}
		if yes {
			if err := c.say(ctx, RethinkLine(act.Symptom)); err != nil {
				return false, err
			}
		}
		act, err = loop.Answer(ctx, yes)
	}
	if err != nil {
		return false, err
	}

	switch act.Kind {
	case elicit.Conclude:
		lines := ConclusionLines(act.Accepted, act.Disease)
		if err := c.say(ctx, lines[:2]...); err != nil {
			return false, err
		}
		if _, err := c.readLine("Press Enter for your insights "); err != nil {
			return false, err
		}
		return true, c.ctrl.Advance()
	case elicit.Exhaust:
		return false, c.say(ctx, ExhaustedLine)
	default:
		return false, c.say(ctx, predictor.Describe(act.Err))
	}
}

func (c *Console) results(ctx context.Context) error {
	b, err := c.ctrl.LoadRemedies(ctx)
	if err != nil {
		return c.say(ctx, predictor.Describe(err))
	}
	disease, _ := c.ctrl.Diagnosis()
	sess := c.ctrl.Session()
	if err := c.say(ctx, ResultLines(sess.Name, disease, b.Description)...); err != nil {
		return err
	}

	p := remedy.NewPresenter(c.r, disease, b, c.rng)
	if err := c.reveal(ctx, p, remedy.Ayurvedic); err != nil {
		return err
	}

	if c.explainer != nil {
		ins, err := c.explainer.Explain(ctx, insight.Input{
			Name:        sess.Name,
			Age:         sess.Age,
			Gender:      sess.Gender,
			Disease:     disease,
			Description: b.Description,
			Accepted:    sess.Accepted(),
			Rejected:    sess.Rejected(),
		})
		if err != nil {
			c.hint("AI insight unavailable: " + err.Error())
		} else if err := c.say(ctx, ins.Lines()...); err != nil {
			return err
		}
	}

	for {
		avail := p.Available()
		if len(avail) == 0 {
			return nil
		}
		names := make([]string, len(avail))
		for i, cat := range avail {
			names[i] = cat.String()
		}
		v, err := c.readLine(fmt.Sprintf("Explore more (%s; Enter to finish): ", strings.Join(names, ", ")))
		if err != nil {
			return err
		}
		if strings.TrimSpace(v) == "" {
			return nil
		}
		cat, ok := remedy.ParseCategory(v)
		if !ok || cat == remedy.Ayurvedic || p.Revealed(cat) {
			c.hint("pick one of: " + strings.Join(names, ", "))
			continue
		}
		if err := c.reveal(ctx, p, cat); err != nil {
			return err
		}
	}
}

func (c *Console) reveal(ctx context.Context, p *remedy.Presenter, cat remedy.Category) error {
	done, err := p.RevealTo(ConsoleSurface, cat)
	if err != nil {
		return err
	}
	return render.Wait(ctx, done)
}

// say types lines and waits until the last one is out.
func (c *Console) say(ctx context.Context, lines ...string) error {
	return render.Wait(ctx, c.r.Script(ConsoleSurface, lines...))
}

func (c *Console) hint(msg string) {
	fmt.Fprintf(c.out, "  %s\n", msg)
}

func (c *Console) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return c.in.Text(), nil
}

func (c *Console) readYesNo() (bool, error) {
	for {
		v, err := c.readLine("(yes/no): ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

func isYes(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "y" || s == "yes"
}

// ResolveSymptom maps typed text to a catalogue id. Exact ids and labels
// win; otherwise a single search hit is taken. When nothing resolves, the
// first few hits come back as suggestions.
func ResolveSymptom(text string) (id string, suggestions []string) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return "", nil
	}
	if exact := strings.Join(strings.Fields(t), "_"); symptom.Known(exact) {
		return exact, nil
	}
	hits := symptom.Search(t)
	if len(hits) == 1 {
		return hits[0], nil
	}
	return "", hits[:min(len(hits), maxSuggestions)]
}
