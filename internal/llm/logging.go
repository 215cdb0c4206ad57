package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ayushhealth/ayushbot/internal/store"
)

// PurposeText is the logged purpose of a request without a schema.
// Structured requests are logged under their schema's name.
const PurposeText = "text"

type loggingProvider struct {
	inner  Provider
	vendor string
	repo   store.EventRepo
}

// WithLogging wraps p so every attempt becomes an llm_request event.
func WithLogging(p Provider, vendor string, repo store.EventRepo) Provider {
	return &loggingProvider{inner: p, vendor: vendor, repo: repo}
}

func (l *loggingProvider) ModelID() string { return l.inner.ModelID() }

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    l.vendor,
		Model:       l.inner.ModelID(),
		Purpose:     purpose(req),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		ev.InputTokens, ev.OutputTokens = resp.Usage.InputTokens, resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
		if resp.Model != "" {
			ev.Model = resp.Model
		}
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	// The explanation matters more than its log line.
	if logErr := l.repo.AppendLLMRequest(ctx, ev); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: could not log model request: %v\n", logErr)
	}
	return resp, err
}

func purpose(req Request) string {
	if req.Schema == nil {
		return PurposeText
	}
	return req.Schema.Name
}

// transcript renders a request for the history view.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	fmt.Fprintf(&b, "[prompt]\n%s\n", req.Prompt)
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "\n[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
