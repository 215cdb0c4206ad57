package elicit

import (
	"errors"

	"github.com/ayushhealth/ayushbot/internal/predictor"
)

// ConclusionThreshold is compared strictly: the loop concludes once more than
// this many symptoms are accepted, so the seventh acceptance ends it.
const ConclusionThreshold = 6

// State is a position in the question loop.
type State int

const (
	AwaitingSeed State = iota
	Querying
	Asking
	Requerying
	Advancing
	Concluded
	Exhausted
	Failed
)

var stateNames = map[State]string{
	AwaitingSeed: "awaiting-seed",
	Querying:     "querying",
	Asking:       "asking",
	Requerying:   "requerying",
	Advancing:    "advancing",
	Concluded:    "concluded",
	Exhausted:    "exhausted",
	Failed:       "failed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// Terminal reports whether the loop has stopped for good.
func (s State) Terminal() bool {
	return s == Concluded || s == Exhausted || s == Failed
}

// Kind says what the caller should show next.
type Kind int

const (
	// Ask: put Symptom to the user as a yes/no question.
	Ask Kind = iota + 1
	// Conclude: Disease is the diagnosis.
	Conclude
	// Exhaust: no candidates left, the session must restart.
	Exhaust
	// Fail: the service call failed, the session must restart.
	Fail
)

func (k Kind) String() string {
	switch k {
	case Ask:
		return "ask"
	case Conclude:
		return "conclude"
	case Exhaust:
		return "exhaust"
	case Fail:
		return "fail"
	default:
		return "none"
	}
}

// Action is the loop's answer to Start or Answer.
type Action struct {
	Kind     Kind
	Symptom  string   // Ask
	Disease  string   // Conclude
	Diseases []string // Conclude: full ranking, best first
	Accepted []string // Conclude, Exhaust: accepted symptoms at the end
	Err      error    // Fail
}

var (
	// ErrNotSeeded is returned by Start before enough seed symptoms exist.
	ErrNotSeeded = errors.New("not enough seed symptoms")

	// ErrQueryInFlight is returned while a service call is outstanding.
	ErrQueryInFlight = errors.New("a query is already in flight")

	// ErrSessionOver is returned once the loop reached a terminal state.
	ErrSessionOver = errors.New("session is over")

	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("loop already started")

	// ErrNotAsking is returned by Answer when no question is pending.
	ErrNotAsking = errors.New("no question pending")
)

// Observer is told about every service call, answer and terminal action.
// Calls happen on the goroutine driving the loop, with the loop locked, so
// an Observer must not call back into it.
type Observer interface {
	OnQuery(q predictor.Query, c *predictor.Candidates, err error)
	OnAnswer(symptom string, yes bool, acceptedCount int)
	OnTerminal(a Action)
}
