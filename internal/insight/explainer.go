// Package insight asks a language model to explain a concluded diagnosis in
// plain words. It is optional: the wizard works without it, and a failure
// here never blocks the results step.
package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ayushhealth/ayushbot/internal/llm"
)

// MaxFollowUps caps the suggested follow-up questions.
const MaxFollowUps = 3

// ErrEmptySummary is returned when the model produced no summary.
var ErrEmptySummary = errors.New("insight: empty summary")

// Input is what the explainer knows about a finished session.
type Input struct {
	Name        string
	Age         int
	Gender      string
	Disease     string
	Description string
	Accepted    []string
	Rejected    []string
}

// Insight is the model's explanation.
type Insight struct {
	Summary   string   `json:"summary"`
	SeeDoctor bool     `json:"see_doctor"`
	FollowUp  []string `json:"follow_up"`
}

// Explainer turns a diagnosis into an Insight.
type Explainer struct {
	provider    llm.Provider
	timeout     time.Duration
	maxTokens   int
	temperature float64
}

// Option configures an Explainer.
type Option func(*Explainer)

// WithTimeout bounds one Explain call. Zero means no extra bound.
func WithTimeout(d time.Duration) Option {
	return func(e *Explainer) { e.timeout = d }
}

// New creates an explainer over provider.
func New(provider llm.Provider, opts ...Option) *Explainer {
	e := &Explainer{provider: provider, maxTokens: 400, temperature: 0.3}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Explain asks the model about in.Disease.
func (e *Explainer) Explain(ctx context.Context, in Input) (*Insight, error) {
	if in.Disease == "" {
		return nil, fmt.Errorf("insight: no disease to explain")
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	resp, err := e.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      userMessage(in),
		Schema:      Schema,
		MaxTokens:   e.maxTokens,
		Temperature: e.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("explaining %s: %w", in.Disease, err)
	}

	var out Insight
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parsing insight: %w", err)
	}
	return out.normalize()
}

func (in Insight) normalize() (*Insight, error) {
	in.Summary = strings.TrimSpace(in.Summary)
	if in.Summary == "" {
		return nil, ErrEmptySummary
	}
	var fu []string
	for _, q := range in.FollowUp {
		if q = strings.TrimSpace(q); q != "" && len(fu) < MaxFollowUps {
			fu = append(fu, q)
		}
	}
	in.FollowUp = fu
	return &in, nil
}

// Lines is the insight as bot lines for the renderer.
func (in *Insight) Lines() []string {
	lines := []string{"About your condition: " + in.Summary}
	if in.SeeDoctor {
		lines = append(lines, "⚠️ Please consult a doctor about these symptoms soon.")
	}
	if len(in.FollowUp) > 0 {
		lines = append(lines, "You could also ask me:")
		for _, q := range in.FollowUp {
			lines = append(lines, "  • "+q)
		}
	}
	return lines
}
