package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// Every vendor failure is mapped onto one of these types. Retry decisions
// look at the type alone.

// ErrRateLimit is a 429. RetryAfter is zero when the vendor gave no hint.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("model rate limited, retry in %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("model rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrRejected is any other 4xx: a bad key, an unknown model, a malformed
// request. Sending it again gets the same answer.
type ErrRejected struct {
	Status int
	Err    error
}

func (e *ErrRejected) Error() string {
	return fmt.Sprintf("model request rejected (%d): %v", e.Status, e.Err)
}

func (e *ErrRejected) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers 5xx, network failures and anything the
// vendor SDK reports without a status.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "model unavailable"
	}
	return fmt.Sprintf("model unavailable: %v", e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrInvalidResponse holds a reply that is not JSON of the requested shape.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("model reply does not match schema: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded is a reply cut off at MaxTokens. Content is the
// partial text.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return fmt.Sprintf("model reply cut off at the token limit after %d bytes", len(e.Content))
}
