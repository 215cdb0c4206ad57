package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// retrier re-sends a request after a transient failure, waiting a capped
// exponential backoff with ±20% jitter between attempts. A reply that
// fails its schema is asked for once more only: a model that got the
// shape wrong twice keeps getting it wrong.
type retrier struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetry wraps p. At least one attempt is always made.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	cfg.MaxAttempts = max(cfg.MaxAttempts, 1)
	return &retrier{inner: p, cfg: cfg}
}

func (r *retrier) ModelID() string { return r.inner.ModelID() }

func (r *retrier) Generate(ctx context.Context, req Request) (*Response, error) {
	var invalid int
	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		var inv *ErrInvalidResponse
		if errors.As(err, &inv) {
			invalid++
		}
		if attempt == r.cfg.MaxAttempts || invalid > 1 || !transient(err) {
			return nil, err
		}

		t := time.NewTimer(r.backoff(attempt, err))
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

// transient reports whether a later attempt could succeed.
func transient(err error) bool {
	var (
		cut      *ErrMaxTokensExceeded
		rejected *ErrRejected
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.As(err, &cut), errors.As(err, &rejected):
		return false
	}
	return true
}

// backoff is the pause after the given failed attempt. A vendor's
// Retry-After hint wins.
func (r *retrier) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	d := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt-1))
	d = min(d, float64(r.cfg.MaxWait))
	return time.Duration(d * (0.8 + 0.4*rand.Float64()))
}
