package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Session event actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
)

// Session outcomes recorded on the end event.
const (
	OutcomeConcluded = "concluded"
	OutcomeExhausted = "exhausted"
	OutcomeFailed    = "failed"
	OutcomeAbandoned = "abandoned"
)

// SessionEventData captures the start or end of one wizard run.
type SessionEventData struct {
	SessionID      string
	Action         string // ActionStart or ActionEnd
	Name           string
	Age            int
	Gender         string
	Outcome        string // set on ActionEnd
	Disease        string // set when Outcome is OutcomeConcluded
	Accepted       []string
	Rejected       []string
	QuestionsAsked int
	DurationSecs   int
}

// SessionSummaryRecord is a finished run as read back from the log.
type SessionSummaryRecord struct {
	SessionID      string
	Name           string
	Age            int
	Gender         string
	Outcome        string
	Disease        string
	Accepted       []string
	Rejected       []string
	QuestionsAsked int
	DurationSecs   int
	Sequence       int64
	Timestamp      time.Time
}

// AnswerEventData captures one yes/no answer to a candidate symptom.
type AnswerEventData struct {
	SessionID     string
	Symptom       string
	Answer        bool
	AcceptedCount int // accepted symptoms after this answer
}

// AnswerEventRecord is an answer event as read back from the log.
type AnswerEventRecord struct {
	SessionID     string
	Symptom       string
	Answer        bool
	AcceptedCount int
	Sequence      int64
	Timestamp     time.Time
}

// PredictorEventData captures one call to the diagnosis service.
type PredictorEventData struct {
	Endpoint     string
	StatusCode   int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// PredictorEventRecord is a predictor event as read back from the log.
type PredictorEventRecord struct {
	ID           int64
	Endpoint     string
	StatusCode   int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
	Sequence     int64
	Timestamp    time.Time
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is an LLM request event as read back from the log.
type LLMRequestEventRecord struct {
	LLMRequestEventData
	Sequence  int64
	Timestamp time.Time
}

// EventRepo provides append access to domain events.
type EventRepo interface {
	// AppendSessionEvent records the start or end of a wizard run.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendAnswerEvent records a yes/no answer.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// AppendPredictorEvent records a diagnosis service call.
	AppendPredictorEvent(ctx context.Context, data PredictorEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

// HistoryRepo reads the event log back, newest first unless noted.
type HistoryRepo interface {
	// QuerySessionSummaries returns finished runs.
	QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error)

	// GetSession returns the finished run with the given id, or nil.
	GetSession(ctx context.Context, sessionID string) (*SessionSummaryRecord, error)

	// QueryAnswers returns a run's answers in the order they were given.
	QueryAnswers(ctx context.Context, sessionID string) ([]AnswerEventRecord, error)

	// QueryPredictorEvents returns diagnosis service calls.
	QueryPredictorEvents(ctx context.Context, opts QueryOpts) ([]PredictorEventRecord, error)

	// QueryLLMRequests returns LLM calls.
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)
}
