package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushhealth/ayushbot/internal/elicit"
	"github.com/ayushhealth/ayushbot/internal/predictor"
	"github.com/ayushhealth/ayushbot/internal/session"
)

func fillIdentity(c *Controller) {
	c.SetIdentity("  Asha ", 34, " Female ")
}

func fillSeeds(t *testing.T, c *Controller) {
	t.Helper()
	for i, id := range []string{"cough", "fever", "headache"} {
		require.NoError(t, c.SetSeed(i, id))
	}
}

func TestProgress(t *testing.T) {
	c := New(predictor.NewMockClient())
	label, frac := c.Progress()
	assert.Equal(t, "Step 1 of 4", label)
	assert.InDelta(t, 0.25, frac, 1e-9)
}

func TestIdentityGating(t *testing.T) {
	c := New(predictor.NewMockClient())

	assert.False(t, c.CanAdvance())
	err := c.Advance()
	assert.ErrorIs(t, err, ErrInputIncomplete)
	assert.Equal(t, Identity, c.Step())

	c.SetIdentity("Asha", 0, "female")
	assert.False(t, c.CanAdvance(), "age required")

	fillIdentity(c)
	assert.Equal(t, "Asha", c.Session().Name)
	assert.Equal(t, "female", c.Session().Gender)
	require.True(t, c.CanAdvance())
	require.NoError(t, c.Advance())
	assert.Equal(t, Symptoms, c.Step())
}

func TestParseAge(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{" 42 ", 42, false},
		{"1", 1, false},
		{"120", 120, false},
		{"0", 0, true},
		{"121", 0, true},
		{"abc", 0, true},
		{"4.5", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAge(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestSeedSlots(t *testing.T) {
	c := New(predictor.NewMockClient())
	fillIdentity(c)
	require.NoError(t, c.Advance())

	require.NoError(t, c.SetSeed(0, "cough"))
	require.NoError(t, c.SetSeed(1, "fever"))
	assert.False(t, c.CanAdvance())

	err := c.SetSeed(2, "cough")
	assert.ErrorIs(t, err, session.ErrDuplicateSymptom)
	assert.Equal(t, []string{"cough", "fever"}, c.Seeds())
	assert.ErrorIs(t, c.Advance(), ErrInputIncomplete)

	// Re-setting a slot to its own value is fine.
	require.NoError(t, c.SetSeed(0, "cough"))
	require.NoError(t, c.SetSeed(2, "headache"))
	assert.True(t, c.CanAdvance())

	require.NoError(t, c.SetSeed(1, ""))
	assert.False(t, c.CanAdvance())

	assert.Error(t, c.SetSeed(3, "x"))
}

func TestAdvanceToQuestionsSeedsSession(t *testing.T) {
	mock := predictor.NewMockClient(predictor.MockPrediction{
		Candidates: predictor.Candidates{Diseases: []string{"flu"}, Symptoms: []string{"chills"}},
	})
	c := New(mock)
	fillIdentity(c)
	require.NoError(t, c.Advance())
	fillSeeds(t, c)
	require.NoError(t, c.Advance())

	assert.Equal(t, Questions, c.Step())
	require.NotNil(t, c.Loop())
	assert.Equal(t, []string{"cough", "fever", "headache"}, c.Session().Accepted())
	assert.False(t, c.CanAdvance(), "loop not concluded")

	act, err := c.Loop().Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, elicit.Ask, act.Kind)
	assert.Equal(t, 34, mock.Calls[0].Age)
}

// conclude drives a controller through to a concluded loop.
func conclude(t *testing.T, mock *predictor.MockClient) *Controller {
	t.Helper()
	for i := 0; i < 4; i++ {
		mock.AddPrediction(predictor.MockPrediction{
			Candidates: predictor.Candidates{Diseases: []string{"common_cold"}, Symptoms: []string{[]string{"a", "b", "c", "d"}[i]}},
		})
	}
	mock.AddPrediction(predictor.MockPrediction{Candidates: predictor.Candidates{Diseases: []string{"common_cold"}}})

	c := New(mock)
	fillIdentity(c)
	require.NoError(t, c.Advance())
	fillSeeds(t, c)
	require.NoError(t, c.Advance())

	ctx := context.Background()
	act, err := c.Loop().Start(ctx)
	require.NoError(t, err)
	for act.Kind == elicit.Ask {
		act, err = c.Loop().Answer(ctx, true)
		require.NoError(t, err)
	}
	require.Equal(t, elicit.Conclude, act.Kind)
	return c
}

func TestResultsAndRemedies(t *testing.T) {
	mock := predictor.NewMockClient()
	c := conclude(t, mock)

	disease, ok := c.Diagnosis()
	require.True(t, ok)
	assert.Equal(t, "common_cold", disease)

	require.True(t, c.CanAdvance())
	require.NoError(t, c.Advance())
	assert.Equal(t, Results, c.Step())
	assert.False(t, c.CanAdvance())

	_, err := c.LoadRemedies(context.Background())
	var se *predictor.ServerError
	require.True(t, errors.As(err, &se), "unknown disease is a 404")

	mock.SetBundle("common_cold", &predictor.Bundle{Description: "Viral."})
	b, err := c.LoadRemedies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Viral.", b.Description)

	_, err = c.LoadRemedies(context.Background())
	require.NoError(t, err)
	assert.Len(t, mock.RemedyCalls, 2, "bundle is fetched once after success")
	assert.Equal(t, predictor.RemedyQuery{Disease: "common_cold", Age: 34, Gender: "female"}, mock.RemedyCalls[1])
}

func TestRemediesBeforeDiagnosis(t *testing.T) {
	c := New(predictor.NewMockClient())
	_, err := c.LoadRemedies(context.Background())
	assert.ErrorIs(t, err, ErrNoDiagnosis)
}

func TestRestartAfterExhaustion(t *testing.T) {
	mock := predictor.NewMockClient(predictor.MockPrediction{
		Candidates: predictor.Candidates{Diseases: []string{"flu"}, Symptoms: []string{"chills"}},
	})
	c := New(mock)
	fillIdentity(c)
	require.NoError(t, c.Advance())
	fillSeeds(t, c)
	require.NoError(t, c.Advance())

	ctx := context.Background()
	_, err := c.Loop().Start(ctx)
	require.NoError(t, err)
	act, err := c.Loop().Answer(ctx, false)
	require.NoError(t, err)
	require.Equal(t, elicit.Exhaust, act.Kind)

	assert.True(t, c.NeedsRestart())
	assert.ErrorIs(t, c.Advance(), ErrInputIncomplete)

	oldID := c.Session().ID
	c.Restart()
	assert.Equal(t, Identity, c.Step())
	assert.NotEqual(t, oldID, c.Session().ID)
	assert.Nil(t, c.Loop())
	assert.Empty(t, c.Seeds())
	assert.False(t, c.NeedsRestart())
}

type countingObserver struct{ answers int }

func (o *countingObserver) OnQuery(predictor.Query, *predictor.Candidates, error) {}
func (o *countingObserver) OnAnswer(string, bool, int)                            { o.answers++ }
func (o *countingObserver) OnTerminal(elicit.Action)                              {}

func TestObserverFactoryGetsSession(t *testing.T) {
	mock := predictor.NewMockClient(
		predictor.MockPrediction{Candidates: predictor.Candidates{Diseases: []string{"flu"}, Symptoms: []string{"chills"}}},
	)
	obs := &countingObserver{}
	var got *session.State
	c := New(mock, WithObserver(func(s *session.State) elicit.Observer {
		got = s
		return obs
	}))
	fillIdentity(c)
	require.NoError(t, c.Advance())
	fillSeeds(t, c)
	require.NoError(t, c.Advance())

	assert.Same(t, c.Session(), got)
	_, err := c.Loop().Start(context.Background())
	require.NoError(t, err)
	_, err = c.Loop().Answer(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, obs.answers)
}

func TestScriptLines(t *testing.T) {
	assert.Equal(t, "Did you experience symptoms like Skin Rash?", QuestionLine("skin_rash"))
	assert.Equal(t, "Hmm... let me rethink based on High Fever symptom.", RethinkLine("high_fever"))
	assert.Equal(t, "You have already selected Cough symptom. Select another symptom. 🙏", DuplicateSeedLine("cough"))

	lines := ConclusionLines([]string{"cough", "runny_nose"}, "common_cold")
	require.Len(t, lines, 3)
	assert.Equal(t, "For symptoms like Cough, Runny Nose, you may have Common Cold.", lines[1])

	res := ResultLines("Asha", "common_cold", "Viral.")
	assert.Equal(t, "Hey, Asha! Based on diagnosis, you may have Common Cold.", res[0])
	assert.Equal(t, "Medical condition: Viral.", res[2])

	assert.Equal(t, "Great... Asha", SeedPromptLines("Asha")[0])
	assert.Len(t, GreetingLines(), 3)
	assert.Len(t, QuestionIntroLines(), 3)
}
