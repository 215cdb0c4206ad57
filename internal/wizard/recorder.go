package wizard

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ayushhealth/ayushbot/internal/elicit"
	"github.com/ayushhealth/ayushbot/internal/predictor"
	"github.com/ayushhealth/ayushbot/internal/session"
	"github.com/ayushhealth/ayushbot/internal/store"
)

// Abandoner is implemented by observers that want to know when a run is
// dropped before the loop finished.
type Abandoner interface {
	Abandon()
}

// Recorder writes a run to the event log: a start event when the loop is
// created, one answer event per yes/no, and an end event with the outcome.
// Write failures are reported on stderr and never reach the wizard.
type Recorder struct {
	repo store.EventRepo
	sess *session.State

	mu    sync.Mutex
	asked int
	ended bool
}

var (
	_ elicit.Observer = (*Recorder)(nil)
	_ Abandoner       = (*Recorder)(nil)
)

// Recording returns an ObserverFactory that records every run to repo.
func Recording(repo store.EventRepo) ObserverFactory {
	return func(s *session.State) elicit.Observer {
		r := &Recorder{repo: repo, sess: s}
		r.write("start", r.repo.AppendSessionEvent(context.Background(), store.SessionEventData{
			SessionID: s.ID,
			Action:    store.ActionStart,
			Name:      s.Name,
			Age:       s.Age,
			Gender:    s.Gender,
			Accepted:  s.Accepted(),
		}))
		return r
	}
}

func (r *Recorder) OnQuery(predictor.Query, *predictor.Candidates, error) {}

func (r *Recorder) OnAnswer(symptom string, yes bool, acceptedCount int) {
	r.mu.Lock()
	r.asked++
	r.mu.Unlock()
	r.write("answer", r.repo.AppendAnswerEvent(context.Background(), store.AnswerEventData{
		SessionID:     r.sess.ID,
		Symptom:       symptom,
		Answer:        yes,
		AcceptedCount: acceptedCount,
	}))
}

func (r *Recorder) OnTerminal(a elicit.Action) {
	switch a.Kind {
	case elicit.Conclude:
		r.end(store.OutcomeConcluded, a.Disease)
	case elicit.Exhaust:
		r.end(store.OutcomeExhausted, "")
	case elicit.Fail:
		r.end(store.OutcomeFailed, "")
	}
}

// Abandon closes a run the user walked away from.
func (r *Recorder) Abandon() {
	r.end(store.OutcomeAbandoned, "")
}

func (r *Recorder) end(outcome, disease string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ended {
		return
	}
	r.ended = true
	r.write("end", r.repo.AppendSessionEvent(context.Background(), store.SessionEventData{
		SessionID:      r.sess.ID,
		Action:         store.ActionEnd,
		Name:           r.sess.Name,
		Age:            r.sess.Age,
		Gender:         r.sess.Gender,
		Outcome:        outcome,
		Disease:        disease,
		Accepted:       r.sess.Accepted(),
		Rejected:       r.sess.Rejected(),
		QuestionsAsked: r.asked,
		DurationSecs:   int(time.Since(r.sess.StartTime).Seconds()),
	}))
}

func (r *Recorder) write(what string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record session %s event: %v\n", what, err)
	}
}
