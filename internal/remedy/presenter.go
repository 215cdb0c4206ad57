package remedy

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/ayushhealth/ayushbot/internal/predictor"
)

// SampleSize caps how many entries one reveal shows.
const SampleSize = 6

// ErrAlreadyRevealed is returned by a second Reveal of the same category.
var ErrAlreadyRevealed = errors.New("category already revealed")

// Renderer is the part of render.Renderer the presenter needs.
type Renderer interface {
	Render(surface, text string) <-chan struct{}
}

// Sample returns min(n, len(items)) distinct entries of items chosen
// uniformly at random. items is not modified.
func Sample(r *rand.Rand, items []string, n int) []string {
	if n <= 0 || len(items) == 0 {
		return []string{}
	}
	out := append([]string(nil), items...)
	for i := len(out) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out[:min(n, len(out))]
}

// Presenter reveals each category of one bundle at most once.
type Presenter struct {
	renderer Renderer
	disease  string
	bundle   *predictor.Bundle

	mu       sync.Mutex
	rng      *rand.Rand
	revealed map[Category]bool
}

// NewPresenter creates a presenter for disease's bundle. rng drives the
// sampling; pass a seeded source for repeatable output.
func NewPresenter(r Renderer, disease string, bundle *predictor.Bundle, rng *rand.Rand) *Presenter {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Presenter{
		renderer: r,
		disease:  disease,
		bundle:   bundle,
		rng:      rng,
		revealed: make(map[Category]bool),
	}
}

// Lines returns what revealing c types out: the intro, the sampled entries
// and the link if the category has one. It does not mark c as revealed.
func (p *Presenter) Lines(c Category) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lines(c)
}

func (p *Presenter) lines(c Category) []string {
	lines := []string{c.Intro()}
	for _, item := range Sample(p.rng, c.Items(p.bundle), SampleSize) {
		lines = append(lines, c.Prefix()+" "+item)
	}
	if link := c.SearchLink(p.disease); link != "" {
		lines = append(lines, "Know More: "+link)
	}
	return lines
}

// Reveal types category c onto its surface. The returned channel closes when
// the last line is done.
func (p *Presenter) Reveal(c Category) (<-chan struct{}, error) {
	return p.RevealTo(c.Surface(), c)
}

// RevealTo is Reveal onto a caller-chosen surface.
func (p *Presenter) RevealTo(surface string, c Category) (<-chan struct{}, error) {
	if _, ok := categories[c]; !ok {
		return nil, fmt.Errorf("unknown category %d", c)
	}

	p.mu.Lock()
	if p.revealed[c] {
		p.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", c, ErrAlreadyRevealed)
	}
	p.revealed[c] = true
	lines := p.lines(c)
	p.mu.Unlock()

	var done <-chan struct{}
	for _, line := range lines {
		done = p.renderer.Render(surface, line)
	}
	return done, nil
}

// Revealed reports whether c was revealed.
func (p *Presenter) Revealed(c Category) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.revealed[c]
}

// Available returns the on-demand categories not yet revealed.
func (p *Presenter) Available() []Category {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Category
	for _, c := range OnDemand {
		if !p.revealed[c] {
			out = append(out, c)
		}
	}
	return out
}

// Disease returns the diagnosed disease.
func (p *Presenter) Disease() string {
	return p.disease
}

// Bundle returns the remedy bundle.
func (p *Presenter) Bundle() *predictor.Bundle {
	return p.bundle
}
