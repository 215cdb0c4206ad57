package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// MockResponse is one scripted reply. A non-nil Err is returned instead of
// Content.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays a script in order and records every request. A
// scripted Content is checked against the request's schema the way a real
// vendor reply is. Past the end of the script every call fails with
// ErrProviderUnavailable.
type MockProvider struct {
	mu     sync.Mutex
	script []MockResponse
	next   int
	Calls  []Request
}

func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)

	if m.next == len(m.script) {
		return nil, &ErrProviderUnavailable{Err: errors.New("mock script exhausted")}
	}
	step := m.script[m.next]
	m.next++
	if step.Err != nil {
		return nil, step.Err
	}
	if err := req.Schema.Check(step.Content); err != nil {
		return nil, err
	}
	return &Response{Content: step.Content, Usage: step.Usage, Model: "mock"}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
