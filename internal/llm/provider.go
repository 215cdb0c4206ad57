package llm

import (
	"context"
	"encoding/json"
)

// Provider turns one prompt into one reply.
type Provider interface {
	// Generate sends req and returns the reply. With req.Schema set the
	// reply has been checked against it; without, Content is the reply
	// text as a JSON string.
	Generate(ctx context.Context, req Request) (*Response, error)

	ModelID() string
}

// Request is a single-turn prompt. The explainer never holds a
// conversation, so there is no message history.
type Request struct {
	System string
	Prompt string

	// Schema asks for structured output through the vendor's native
	// mechanism. Its Name doubles as the request's logged purpose.
	Schema *Schema

	MaxTokens   int
	Temperature float64 // 0 leaves the vendor default
}

// Response is a successful reply.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string // the model that served the request
}

// Usage counts the tokens billed for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total is InputTokens plus OutputTokens.
func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }
