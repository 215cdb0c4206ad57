package history

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushhealth/ayushbot/internal/router"
	"github.com/ayushhealth/ayushbot/internal/store"
)

type fakeRepo struct {
	store.HistoryRepo // unused methods panic
	runs              []store.SessionSummaryRecord
	answers           map[string][]store.AnswerEventRecord
	err               error
	answerCalls       int
}

func (f *fakeRepo) QuerySessionSummaries(context.Context, store.QueryOpts) ([]store.SessionSummaryRecord, error) {
	return f.runs, f.err
}

func (f *fakeRepo) QueryAnswers(_ context.Context, id string) ([]store.AnswerEventRecord, error) {
	f.answerCalls++
	return f.answers[id], nil
}

var enter = tea.KeyPressMsg{Code: tea.KeyEnter}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	cmd := s.Init()
	require.NotNil(t, cmd)
	s.Update(cmd())
}

func TestEmpty(t *testing.T) {
	s := New(&fakeRepo{})
	assert.Contains(t, s.View(100, 30), "Loading past runs")
	load(t, s)
	assert.Contains(t, s.View(100, 30), "No runs yet")
}

func TestLoadError(t *testing.T) {
	s := New(&fakeRepo{err: errors.New("disk gone")})
	load(t, s)
	assert.Contains(t, s.View(100, 30), "Error: disk gone")
}

func TestListAndExpand(t *testing.T) {
	repo := &fakeRepo{
		runs: []store.SessionSummaryRecord{
			{SessionID: "s2", Name: "Asha", Outcome: store.OutcomeConcluded, Disease: "common_cold", QuestionsAsked: 4, DurationSecs: 95, Timestamp: time.Now()},
			{SessionID: "s1", Name: "Ravi", Outcome: store.OutcomeExhausted, QuestionsAsked: 2, Timestamp: time.Now()},
		},
		answers: map[string][]store.AnswerEventRecord{
			"s1": {{Symptom: "nausea", Answer: false}, {Symptom: "skin_rash", Answer: true}},
		},
	}
	s := New(repo)
	load(t, s)

	v := s.View(120, 30)
	assert.Contains(t, v, "Common Cold")
	assert.Contains(t, v, "1:35")
	assert.Contains(t, v, "no diagnosis")

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, s.selected)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, s.selected, "stops at the last run")

	_, cmd := s.Update(enter)
	assert.Contains(t, s.View(120, 30), "loading answers")
	require.NotNil(t, cmd)
	s.Update(cmd())

	v = s.View(120, 30)
	assert.Contains(t, v, "✗ Nausea")
	assert.Contains(t, v, "✓ Skin Rash")

	// Collapse and expand again: answers are cached.
	s.Update(enter)
	_, cmd = s.Update(enter)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, repo.answerCalls)
}

func TestEscPops(t *testing.T) {
	s := New(&fakeRepo{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())
}
