package remedy

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushhealth/ayushbot/internal/predictor"
)

func items(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("item-%d", i)
	}
	return out
}

func TestSampleSizeAndMembership(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for n := 0; n <= 12; n++ {
		src := items(n)
		orig := slices.Clone(src)

		got := Sample(rng, src, SampleSize)
		assert.Len(t, got, min(SampleSize, n), "n=%d", n)

		seen := make(map[string]bool)
		for _, g := range got {
			assert.Contains(t, src, g)
			assert.False(t, seen[g], "duplicate %q", g)
			seen[g] = true
		}
		assert.Equal(t, orig, src, "source mutated")
	}
}

func TestSampleDeterministic(t *testing.T) {
	src := items(10)
	a := Sample(rand.New(rand.NewPCG(7, 7)), src, 6)
	b := Sample(rand.New(rand.NewPCG(7, 7)), src, 6)
	assert.Equal(t, a, b)
}

func TestSampleRoughlyUniform(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	src := items(8)
	counts := make(map[string]int)
	const rounds = 4000
	for range rounds {
		for _, g := range Sample(rng, src, 2) {
			counts[g]++
		}
	}
	// Each item is expected in 2/8 of the rounds.
	want := rounds * 2 / 8
	for _, it := range src {
		assert.InDelta(t, want, counts[it], float64(want)/5, it)
	}
}

func TestSampleNonPositive(t *testing.T) {
	assert.Empty(t, Sample(rand.New(rand.NewPCG(1, 1)), items(3), 0))
}

type fakeRenderer struct {
	mu    sync.Mutex
	lines map[string][]string
}

func (f *fakeRenderer) Render(surface, text string) <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lines == nil {
		f.lines = make(map[string][]string)
	}
	f.lines[surface] = append(f.lines[surface], text)
	done := make(chan struct{})
	close(done)
	return done
}

func bundle() *predictor.Bundle {
	return &predictor.Bundle{
		Description:       "A viral infection.",
		AyurvedicRemedies: items(3),
		Yoga:              items(9),
		AyurvedicDiet:     items(6),
		FoodAvoid:         []string{"Cold drinks", "Fried food"},
		Remedy:            items(1),
	}
}

func TestRevealYoga(t *testing.T) {
	fr := &fakeRenderer{}
	p := NewPresenter(fr, "common_cold", bundle(), rand.New(rand.NewPCG(1, 2)))

	done, err := p.Reveal(Yoga)
	require.NoError(t, err)
	<-done

	lines := fr.lines[Yoga.Surface()]
	require.Len(t, lines, 1+SampleSize+1)
	assert.Equal(t, "Here are some yoga poses for you:", lines[0])
	for _, l := range lines[1 : 1+SampleSize] {
		assert.True(t, strings.HasPrefix(l, "🧘 item-"), l)
	}
	assert.Equal(t, "Know More: https://www.google.com/search?q=yoga+for+common+cold+across+internet", lines[len(lines)-1])
}

func TestRevealFoodAvoidHasNoLink(t *testing.T) {
	fr := &fakeRenderer{}
	p := NewPresenter(fr, "flu", bundle(), rand.New(rand.NewPCG(1, 2)))

	_, err := p.Reveal(FoodAvoid)
	require.NoError(t, err)

	lines := fr.lines[FoodAvoid.Surface()]
	require.Len(t, lines, 3)
	assert.Equal(t, "Here are some foods to avoid:", lines[0])
	assert.ElementsMatch(t, []string{"❌ Cold drinks", "❌ Fried food"}, lines[1:])
}

func TestRevealAtMostOnce(t *testing.T) {
	fr := &fakeRenderer{}
	p := NewPresenter(fr, "flu", bundle(), rand.New(rand.NewPCG(1, 2)))

	assert.Equal(t, OnDemand, p.Available())

	_, err := p.Reveal(Diet)
	require.NoError(t, err)
	assert.True(t, p.Revealed(Diet))
	assert.Equal(t, []Category{Yoga, FoodAvoid, Allopathic}, p.Available())

	_, err = p.Reveal(Diet)
	assert.True(t, errors.Is(err, ErrAlreadyRevealed))
	assert.Len(t, fr.lines[Diet.Surface()], 1+6+1, "second reveal must not render")
}

func TestRevealEmptyCategory(t *testing.T) {
	fr := &fakeRenderer{}
	b := bundle()
	b.Remedy = nil
	p := NewPresenter(fr, "flu", b, rand.New(rand.NewPCG(1, 2)))

	_, err := p.Reveal(Allopathic)
	require.NoError(t, err)
	lines := fr.lines[Allopathic.Surface()]
	assert.Equal(t, []string{
		"Here are some Allopathic remedy for you:",
		"Know More: https://www.google.com/search?q=medicine+for+flu+across+internet",
	}, lines)
}

func TestRevealUnknownCategory(t *testing.T) {
	p := NewPresenter(&fakeRenderer{}, "flu", bundle(), nil)
	_, err := p.Reveal(Category(99))
	assert.Error(t, err)
}

func TestParseCategory(t *testing.T) {
	for _, c := range append([]Category{Ayurvedic}, OnDemand...) {
		got, ok := ParseCategory(c.String())
		assert.True(t, ok)
		assert.Equal(t, c, got)
	}
	_, ok := ParseCategory("nope")
	assert.False(t, ok)
}

func TestSearchLinks(t *testing.T) {
	tests := []struct {
		c    Category
		want string
	}{
		{Ayurvedic, "https://www.google.com/search?q=ayurvedic+remedies+for+common+cold+across+internet"},
		{Yoga, "https://www.google.com/search?q=yoga+for+common+cold+across+internet"},
		{Diet, "https://www.google.com/search?q=diet+for+common+cold+across+internet"},
		{FoodAvoid, ""},
		{Allopathic, "https://www.google.com/search?q=medicine+for+common+cold+across+internet"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.c.SearchLink("common_cold"), tt.c.String())
	}
}
