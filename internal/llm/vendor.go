package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// reply is what one vendor SDK call boils down to.
type reply struct {
	text      string
	usage     Usage
	model     string
	truncated bool
}

// backend adapts one vendor SDK. Everything the vendors have in common
// lives in sdkProvider.
type backend interface {
	send(ctx context.Context, model string, req Request) (reply, error)
	// failure extracts the HTTP status and any Retry-After hint from an
	// SDK error. status is 0 when the call never got an answer.
	failure(err error) (status int, retryAfter time.Duration)
}

// sdkProvider serves a Provider through a backend. It maps SDK errors onto
// this package's error types, strips code fences and checks the schema.
type sdkProvider struct {
	vendor string
	model  string
	b      backend
}

func (p *sdkProvider) ModelID() string { return p.model }

func (p *sdkProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	r, err := p.b.send(ctx, p.model, req)
	if err != nil {
		status, wait := p.b.failure(err)
		return nil, classify(status, wait, fmt.Errorf("%s: %w", p.vendor, err))
	}

	text := unfence(r.text)
	if r.truncated {
		return nil, &ErrMaxTokensExceeded{Content: json.RawMessage(text)}
	}

	var content json.RawMessage
	if req.Schema != nil {
		content = json.RawMessage(text)
		if err := req.Schema.Check(content); err != nil {
			return nil, err
		}
	} else if content, err = json.Marshal(text); err != nil {
		return nil, err
	}

	model := r.model
	if model == "" {
		model = p.model
	}
	return &Response{Content: content, Usage: r.usage, Model: model}, nil
}

func classify(status int, wait time.Duration, err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case status == http.StatusTooManyRequests:
		return &ErrRateLimit{RetryAfter: wait, Err: err}
	case status >= 400 && status < 500:
		return &ErrRejected{Status: status, Err: err}
	default:
		return &ErrProviderUnavailable{Err: err}
	}
}

// unfence drops the markdown code fence some models wrap JSON in even
// when asked for bare JSON.
func unfence(s string) string {
	s = strings.TrimSpace(s)
	body, ok := strings.CutPrefix(s, "```")
	if !ok {
		return s
	}
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:] // language tag
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(body), "```"))
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	var secs int
	if _, err := fmt.Sscanf(h.Get("Retry-After"), "%d", &secs); err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// modelID resolves a friendly model name. Unknown names are vendor IDs.
func modelID(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}

func missingKey(vendor string) error {
	return fmt.Errorf("%s: no API key configured", vendor)
}
