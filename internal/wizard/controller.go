// Package wizard is the four-step flow around the question loop: identity,
// seed symptoms, questions, results. It decides when the user may move on
// and owns the per-run state; screens and the line-mode command drive it.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ayushhealth/ayushbot/internal/elicit"
	"github.com/ayushhealth/ayushbot/internal/predictor"
	"github.com/ayushhealth/ayushbot/internal/session"
)

// Step is one stage of the wizard.
type Step int

const (
	Identity Step = iota + 1
	Symptoms
	Questions
	Results
)

// StepCount is the number of steps.
const StepCount = 4

// SeedSlots is how many seed symptoms the symptom step offers.
const SeedSlots = session.MinSeedSymptoms

func (s Step) String() string {
	switch s {
	case Identity:
		return "Personal Details"
	case Symptoms:
		return "Symptoms"
	case Questions:
		return "Questions"
	case Results:
		return "Insights"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// ErrInputIncomplete is returned by Advance while the current step still
// needs input.
var ErrInputIncomplete = errors.New("input incomplete")

// ErrNoDiagnosis is returned by remedy calls before the loop concluded.
var ErrNoDiagnosis = errors.New("no diagnosis yet")

// ObserverFactory builds a loop observer for a fresh session.
type ObserverFactory func(*session.State) elicit.Observer

// Controller tracks the current step and the run's state.
type Controller struct {
	client      predictor.Client
	newObserver ObserverFactory

	step   Step
	sess   *session.State
	seeds  [SeedSlots]string
	loop   *elicit.Loop
	obs    elicit.Observer
	bundle *predictor.Bundle
}

// Option configures a Controller.
type Option func(*Controller)

// WithObserver attaches a per-session loop observer.
func WithObserver(f ObserverFactory) Option {
	return func(c *Controller) { c.newObserver = f }
}

// New creates a controller at the identity step.
func New(client predictor.Client, opts ...Option) *Controller {
	c := &Controller{client: client}
	for _, opt := range opts {
		opt(c)
	}
	c.reset()
	return c
}

func (c *Controller) reset() {
	c.step = Identity
	c.sess = session.New()
	c.seeds = [SeedSlots]string{}
	c.loop = nil
	c.obs = nil
	c.bundle = nil
}

// Restart discards the run and goes back to the identity step with a new
// session. It is the only way out of an exhausted or failed loop.
func (c *Controller) Restart() {
	c.Close()
	c.reset()
}

// Close tells the observer about a run that is being dropped mid-loop.
// A run with a service call outstanding is left to that call's outcome.
// The controller stays usable.
func (c *Controller) Close() {
	if c.loop == nil {
		return
	}
	if a, ok := c.obs.(Abandoner); ok {
		c.loop.WhenIdle(a.Abandon)
	}
}

// Step returns the current step.
func (c *Controller) Step() Step { return c.step }

// Session returns the current run's session.
func (c *Controller) Session() *session.State { return c.sess }

// Loop returns the question loop, or nil before the question step.
func (c *Controller) Loop() *elicit.Loop { return c.loop }

// Progress returns the "Step n of 4" label and the completed fraction.
func (c *Controller) Progress() (string, float64) {
	return fmt.Sprintf("Step %d of %d", c.step, StepCount), float64(c.step) / StepCount
}

// SetIdentity stores the identity fields. Name and gender are trimmed.
func (c *Controller) SetIdentity(name string, age int, gender string) {
	c.sess.Name = strings.TrimSpace(name)
	c.sess.Age = age
	c.sess.Gender = strings.ToLower(strings.TrimSpace(gender))
}

// ParseAge reads an age field. Empty input is 0.
func ParseAge(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("age must be a whole number")
	}
	if n < 1 || n > session.MaxAge {
		return 0, fmt.Errorf("age must be between 1 and %d", session.MaxAge)
	}
	return n, nil
}

// SetSeed fills seed slot i. An empty id clears the slot. A symptom already
// in another slot is refused with session.ErrDuplicateSymptom and the slot is
// left empty.
func (c *Controller) SetSeed(i int, id string) error {
	if i < 0 || i >= SeedSlots {
		return fmt.Errorf("seed slot %d out of range", i)
	}
	id = strings.TrimSpace(id)
	c.seeds[i] = ""
	if id == "" {
		return nil
	}
	for j, s := range c.seeds {
		if j != i && s == id {
			return fmt.Errorf("%s: %w", id, session.ErrDuplicateSymptom)
		}
	}
	c.seeds[i] = id
	return nil
}

// Seeds returns the filled seed slots in slot order.
func (c *Controller) Seeds() []string {
	var out []string
	for _, s := range c.seeds {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// CanAdvance reports whether the current step has what it needs.
func (c *Controller) CanAdvance() bool {
	switch c.step {
	case Identity:
		return c.sess.IdentityComplete()
	case Symptoms:
		return len(c.Seeds()) == SeedSlots
	case Questions:
		return c.loop != nil && c.loop.State() == elicit.Concluded
	default:
		return false
	}
}

// Advance moves to the next step. Entering the question step seeds the
// session and creates the loop; the caller starts it.
func (c *Controller) Advance() error {
	if !c.CanAdvance() {
		return fmt.Errorf("%s: %w", c.step, ErrInputIncomplete)
	}

	switch c.step {
	case Symptoms:
		if err := c.sess.Seed(c.Seeds()); err != nil {
			return err
		}
		var opts []elicit.Option
		if c.newObserver != nil {
			c.obs = c.newObserver(c.sess)
			opts = append(opts, elicit.WithObserver(c.obs))
		}
		c.loop = elicit.New(c.client, c.sess, opts...)
	}

	c.step++
	return nil
}

// Diagnosis returns the concluded disease and whether there is one.
func (c *Controller) Diagnosis() (string, bool) {
	if c.loop == nil || c.loop.State() != elicit.Concluded {
		return "", false
	}
	cands := c.loop.Candidates()
	if cands == nil || len(cands.Diseases) == 0 {
		return "", false
	}
	return cands.Diseases[0], true
}

// NeedsRestart reports whether the loop hit a dead end.
func (c *Controller) NeedsRestart() bool {
	if c.loop == nil {
		return false
	}
	st := c.loop.State()
	return st == elicit.Exhausted || st == elicit.Failed
}

// FetchRemedies asks the service for the diagnosis' remedy bundle without
// touching the controller. Safe to run off the UI goroutine.
func (c *Controller) FetchRemedies(ctx context.Context) (*predictor.Bundle, error) {
	disease, ok := c.Diagnosis()
	if !ok {
		return nil, ErrNoDiagnosis
	}
	b, err := c.client.Remedies(ctx, predictor.RemedyQuery{
		Disease: disease,
		Age:     c.sess.Age,
		Gender:  c.sess.Gender,
	})
	if err == nil && b == nil {
		err = &predictor.MalformedResponseError{Endpoint: predictor.PathGetData, Err: errors.New("empty response")}
	}
	return b, err
}

// SetBundle stores a fetched bundle.
func (c *Controller) SetBundle(b *predictor.Bundle) { c.bundle = b }

// LoadRemedies fetches the bundle once per run; later calls return the
// stored value.
func (c *Controller) LoadRemedies(ctx context.Context) (*predictor.Bundle, error) {
	if c.bundle != nil {
		return c.bundle, nil
	}
	b, err := c.FetchRemedies(ctx)
	if err != nil {
		return nil, err
	}
	c.bundle = b
	return b, nil
}

// Bundle returns the fetched remedy bundle, or nil.
func (c *Controller) Bundle() *predictor.Bundle { return c.bundle }
