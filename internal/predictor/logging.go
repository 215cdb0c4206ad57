package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ayushhealth/ayushbot/internal/store"
)

// LoggingClient is a decorator that records every call as a predictor event.
type LoggingClient struct {
	inner     Client
	eventRepo store.EventRepo
}

// WithLogging wraps a Client with event logging.
func WithLogging(c Client, repo store.EventRepo) Client {
	return &LoggingClient{inner: c, eventRepo: repo}
}

func (l *LoggingClient) Predict(ctx context.Context, q Query) (*Candidates, error) {
	start := time.Now()
	resp, err := l.inner.Predict(ctx, q)
	l.record(ctx, PathPredict, start, q, resp, err)
	return resp, err
}

func (l *LoggingClient) Remedies(ctx context.Context, q RemedyQuery) (*Bundle, error) {
	start := time.Now()
	resp, err := l.inner.Remedies(ctx, q)
	l.record(ctx, PathGetData, start, q, resp, err)
	return resp, err
}

func (l *LoggingClient) record(ctx context.Context, endpoint string, start time.Time, req, resp any, err error) {
	data := store.PredictorEventData{
		Endpoint:    endpoint,
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: marshalBody(req),
	}

	if err == nil {
		data.StatusCode = http.StatusOK
		data.ResponseBody = marshalBody(resp)
	} else {
		data.ErrorMessage = err.Error()
		var srvErr *ServerError
		if errors.As(err, &srvErr) {
			data.StatusCode = srvErr.StatusCode
			data.ResponseBody = srvErr.Body
		}
		var badErr *MalformedResponseError
		if errors.As(err, &badErr) {
			data.StatusCode = http.StatusOK
			data.ResponseBody = string(badErr.Content)
		}
	}

	// Log the event but don't fail the call if logging fails.
	if logErr := l.eventRepo.AppendPredictorEvent(ctx, data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log predictor event: %v\n", logErr)
	}
}

func marshalBody(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
