package predictor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushhealth/ayushbot/internal/store"
)

type fakeRepo struct {
	mu     sync.Mutex
	events []store.PredictorEventData
	err    error
}

func (f *fakeRepo) AppendSessionEvent(context.Context, store.SessionEventData) error { return nil }
func (f *fakeRepo) AppendAnswerEvent(context.Context, store.AnswerEventData) error   { return nil }
func (f *fakeRepo) AppendLLMRequest(context.Context, store.LLMRequestEventData) error {
	return nil
}

func (f *fakeRepo) AppendPredictorEvent(_ context.Context, d store.PredictorEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, d)
	return f.err
}

func TestLoggingRecordsSuccess(t *testing.T) {
	mock := NewMockClient(MockPrediction{Candidates: Candidates{Diseases: []string{"flu"}, Symptoms: []string{"chills"}}})
	repo := &fakeRepo{}
	c := WithLogging(mock, repo)

	resp, err := c.Predict(context.Background(), Query{Symptoms: []string{"a", "b", "c"}, Age: 40, Gender: "male"})
	require.NoError(t, err)
	assert.Equal(t, []string{"chills"}, resp.Symptoms)

	require.Len(t, repo.events, 1)
	ev := repo.events[0]
	assert.Equal(t, PathPredict, ev.Endpoint)
	assert.True(t, ev.Success)
	assert.Equal(t, 200, ev.StatusCode)
	assert.JSONEq(t, `{"symptoms":["a","b","c"],"age":40,"gender":"male","rejected_symptoms":null}`, ev.RequestBody)
	assert.JSONEq(t, `{"top_diseases":["flu"],"top_symptoms":["chills"]}`, ev.ResponseBody)
}

func TestLoggingRecordsServerError(t *testing.T) {
	mock := NewMockClient()
	repo := &fakeRepo{}
	c := WithLogging(mock, repo)

	_, err := c.Remedies(context.Background(), RemedyQuery{Disease: "nope"})
	require.Error(t, err)

	require.Len(t, repo.events, 1)
	ev := repo.events[0]
	assert.Equal(t, PathGetData, ev.Endpoint)
	assert.False(t, ev.Success)
	assert.Equal(t, 404, ev.StatusCode)
	assert.Equal(t, `{"message":"No data found"}`, ev.ResponseBody)
	assert.NotEmpty(t, ev.ErrorMessage)
}

func TestLoggingFailureDoesNotFailCall(t *testing.T) {
	mock := NewMockClient(MockPrediction{Candidates: Candidates{Diseases: []string{"flu"}}})
	repo := &fakeRepo{err: errors.New("disk full")}
	c := WithLogging(mock, repo)

	_, err := c.Predict(context.Background(), Query{})
	assert.NoError(t, err)
}

func TestMockClientFIFO(t *testing.T) {
	boom := errors.New("boom")
	m := NewMockClient(
		MockPrediction{Candidates: Candidates{Symptoms: []string{"x"}}},
		MockPrediction{Err: boom},
	)

	q := Query{Symptoms: []string{"a"}}
	r1, err := m.Predict(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, r1.Symptoms)

	q.Symptoms[0] = "mutated"
	assert.Equal(t, "a", m.Calls[0].Symptoms[0], "recorded query must be a copy")

	_, err = m.Predict(context.Background(), q)
	assert.ErrorIs(t, err, boom)

	_, err = m.Predict(context.Background(), q)
	assert.ErrorIs(t, err, ErrNoResponse)
	assert.Equal(t, 3, m.CallCount())
}
