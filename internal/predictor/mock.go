package predictor

import (
	"context"
	"errors"
	"sync"
)

// ErrNoResponse is returned by MockClient when its queue is empty.
var ErrNoResponse = errors.New("mock predictor: no canned response")

// MockPrediction is a canned /predict reply.
type MockPrediction struct {
	Candidates Candidates
	Err        error
}

// MockClient is a deterministic Client for testing.
// It returns canned responses in FIFO order and records all requests.
type MockClient struct {
	mu          sync.Mutex
	predictions []MockPrediction
	bundles     map[string]*Bundle
	Calls       []Query
	RemedyCalls []RemedyQuery
}

// NewMockClient creates a MockClient with the given canned predictions.
func NewMockClient(predictions ...MockPrediction) *MockClient {
	return &MockClient{predictions: predictions, bundles: make(map[string]*Bundle)}
}

// Predict returns the next canned prediction. The query is copied so later
// mutation by the caller does not change what was recorded.
func (m *MockClient) Predict(_ context.Context, q Query) (*Candidates, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, Query{
		Symptoms:         append([]string(nil), q.Symptoms...),
		Age:              q.Age,
		Gender:           q.Gender,
		RejectedSymptoms: append([]string(nil), q.RejectedSymptoms...),
	})

	if len(m.predictions) == 0 {
		return nil, ErrNoResponse
	}
	p := m.predictions[0]
	m.predictions = m.predictions[1:]
	if p.Err != nil {
		return nil, p.Err
	}
	c := p.Candidates
	return &c, nil
}

// Remedies returns the bundle registered for the disease, or a 404
// ServerError like the real service.
func (m *MockClient) Remedies(_ context.Context, q RemedyQuery) (*Bundle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RemedyCalls = append(m.RemedyCalls, q)
	b, ok := m.bundles[q.Disease]
	if !ok {
		return nil, &ServerError{Endpoint: PathGetData, StatusCode: 404, Body: `{"message":"No data found"}`}
	}
	return b, nil
}

// AddPrediction appends a canned prediction to the queue.
func (m *MockClient) AddPrediction(p MockPrediction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictions = append(m.predictions, p)
}

// SetBundle registers the bundle returned for disease.
func (m *MockClient) SetBundle(disease string, b *Bundle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bundles[disease] = b
}

// CallCount returns the number of Predict calls made.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
