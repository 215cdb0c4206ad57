// Package elicit runs the yes/no symptom question loop.
//
// The loop starts from the user's seed symptoms, asks the service for ranked
// candidates and walks them one question at a time. A "yes" records the
// symptom and asks the service again from the top; a "no" records it as
// rejected and moves to the next candidate. It stops when enough symptoms
// are accepted (Concluded), when the candidates run out (Exhausted) or when
// a service call fails (Failed). All three are final.
package elicit

import (
	"context"
	"errors"
	"sync"

	"github.com/ayushhealth/ayushbot/internal/predictor"
	"github.com/ayushhealth/ayushbot/internal/session"
)

// Loop is one session's question loop. It is safe to call from several
// goroutines; at most one service call is outstanding at a time.
type Loop struct {
	client   predictor.Client
	sess     *session.State
	observer Observer

	mu       sync.Mutex
	state    State
	inFlight bool
	cands    *predictor.Candidates
	cursor   int
	asked    int
	err      error
}

// Option configures a Loop.
type Option func(*Loop)

// WithObserver attaches an Observer.
func WithObserver(o Observer) Option {
	return func(l *Loop) { l.observer = o }
}

// New creates a loop over sess. The loop mutates sess as answers arrive.
func New(client predictor.Client, sess *session.State, opts ...Option) *Loop {
	l := &Loop{client: client, sess: sess, state: AwaitingSeed}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start sends the seed symptoms to the service and returns the first action.
//
// The returned error is only for misuse (not seeded, already started, call
// in flight). A failed service call comes back as a Fail action.
func (l *Loop) Start(ctx context.Context) (Action, error) {
	l.mu.Lock()
	switch {
	case l.inFlight:
		l.mu.Unlock()
		return Action{}, ErrQueryInFlight
	case l.state.Terminal():
		l.mu.Unlock()
		return Action{}, ErrSessionOver
	case l.state != AwaitingSeed:
		l.mu.Unlock()
		return Action{}, ErrAlreadyStarted
	case !l.sess.Seeded():
		l.mu.Unlock()
		return Action{}, ErrNotSeeded
	}

	l.state = Querying
	q := l.begin()
	l.mu.Unlock()

	return l.complete(ctx, q), nil
}

// Answer records the user's reply to the pending question.
func (l *Loop) Answer(ctx context.Context, yes bool) (Action, error) {
	l.mu.Lock()
	switch {
	case l.inFlight:
		l.mu.Unlock()
		return Action{}, ErrQueryInFlight
	case l.state.Terminal():
		l.mu.Unlock()
		return Action{}, ErrSessionOver
	case l.state != Asking:
		l.mu.Unlock()
		return Action{}, ErrNotAsking
	}

	symptom := l.cands.Symptoms[l.cursor]

	if !yes {
		defer l.mu.Unlock()
		if err := l.sess.Reject(symptom); err != nil {
			return Action{}, err
		}
		l.notifyAnswer(symptom, false)
		l.state = Advancing
		l.cursor++
		return l.next(), nil
	}

	if err := l.sess.Accept(symptom); err != nil {
		l.mu.Unlock()
		return Action{}, err
	}
	l.notifyAnswer(symptom, true)
	l.state = Requerying
	q := l.begin()
	l.mu.Unlock()

	return l.complete(ctx, q), nil
}

// begin marks a call in flight and snapshots the query. Caller holds mu.
func (l *Loop) begin() predictor.Query {
	l.inFlight = true
	return predictor.Query{
		Symptoms:         l.sess.Accepted(),
		Age:              l.sess.Age,
		Gender:           l.sess.Gender,
		RejectedSymptoms: l.sess.Rejected(),
	}
}

// complete runs the call outside the lock and applies its result.
func (l *Loop) complete(ctx context.Context, q predictor.Query) Action {
	c, err := l.client.Predict(ctx, q)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.inFlight = false

	if l.observer != nil {
		l.observer.OnQuery(q, c, err)
	}
	if err == nil && c == nil {
		err = &predictor.MalformedResponseError{Endpoint: predictor.PathPredict, Err: errors.New("empty response")}
	}
	if err != nil {
		return l.fail(err)
	}

	l.cands = c
	l.cursor = 0
	l.state = Querying
	return l.next()
}

// next runs the termination check and picks the next question. Caller holds mu.
func (l *Loop) next() Action {
	if l.sess.AcceptedCount() > ConclusionThreshold {
		if len(l.cands.Diseases) == 0 {
			return l.fail(&predictor.MalformedResponseError{
				Endpoint: predictor.PathPredict,
				Err:      errors.New("no disease to conclude with"),
			})
		}
		l.state = Concluded
		return l.terminal(Action{
			Kind:     Conclude,
			Disease:  l.cands.Diseases[0],
			Diseases: append([]string(nil), l.cands.Diseases...),
			Accepted: l.sess.Accepted(),
		})
	}

	// The service should never offer an answered symptom; skip it if it does.
	for l.cursor < len(l.cands.Symptoms) && l.sess.Knows(l.cands.Symptoms[l.cursor]) {
		l.cursor++
	}

	if l.cursor >= len(l.cands.Symptoms) {
		l.state = Exhausted
		return l.terminal(Action{Kind: Exhaust, Accepted: l.sess.Accepted()})
	}

	l.state = Asking
	l.asked++
	return Action{Kind: Ask, Symptom: l.cands.Symptoms[l.cursor]}
}

// fail drops the candidates so nothing stale is used again. Caller holds mu.
func (l *Loop) fail(err error) Action {
	l.state = Failed
	l.cands = nil
	l.cursor = 0
	l.err = err
	return l.terminal(Action{Kind: Fail, Err: err})
}

func (l *Loop) terminal(a Action) Action {
	if l.observer != nil {
		l.observer.OnTerminal(a)
	}
	return a
}

func (l *Loop) notifyAnswer(symptom string, yes bool) {
	if l.observer != nil {
		l.observer.OnAnswer(symptom, yes, l.sess.AcceptedCount())
	}
}

// WhenIdle runs fn under the loop's lock if no service call is outstanding
// and the loop has not ended. It reports whether fn ran. A call that is
// still in flight will deliver its own outcome to the observer.
func (l *Loop) WhenIdle(fn func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inFlight || l.state.Terminal() {
		return false
	}
	fn()
	return true
}

// State returns the current state.
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Pending returns the symptom being asked, or "" when no question is open.
func (l *Loop) Pending() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != Asking {
		return ""
	}
	return l.cands.Symptoms[l.cursor]
}

// Cursor returns the index of the current candidate.
func (l *Loop) Cursor() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor
}

// Candidates returns a copy of the latest candidates, or nil before the first
// response and after a failure.
func (l *Loop) Candidates() *predictor.Candidates {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cands == nil {
		return nil
	}
	return &predictor.Candidates{
		Diseases: append([]string(nil), l.cands.Diseases...),
		Symptoms: append([]string(nil), l.cands.Symptoms...),
	}
}

// QuestionsAsked counts Ask actions so far.
func (l *Loop) QuestionsAsked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.asked
}

// Err returns the error that moved the loop to Failed.
func (l *Loop) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Session returns the session the loop mutates.
func (l *Loop) Session() *session.State {
	return l.sess
}
