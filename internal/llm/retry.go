package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// retryPolicy says what to do after a failed attempt.
type retryPolicy int

const (
	giveUp retryPolicy = iota
	retryAgain
	retryOnce // only one extra attempt per request
)

func policyFor(err error) retryPolicy {
	var (
		maxTok  *ErrMaxTokensExceeded
		invalid *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return giveUp
	case errors.As(err, &maxTok):
		// The same prompt would be cut off again.
		return giveUp
	case errors.As(err, &invalid):
		return retryOnce
	default:
		return retryAgain
	}
}

// RetryProvider re-sends failed requests with exponential backoff. A reply
// that breaks the schema earns one more attempt; truncation and caller
// cancellation none.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
	log   *zap.Logger
}

// WithRetry wraps p. MaxAttempts below one is treated as one.
func WithRetry(p Provider, cfg RetryConfig, log *zap.Logger) Provider {
	cfg.MaxAttempts = max(1, cfg.MaxAttempts)
	if log == nil {
		log = zap.NewNop()
	}
	return &RetryProvider{inner: p, cfg: cfg, log: log}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	usedOnce := false
	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		switch policyFor(err) {
		case giveUp:
			return nil, err
		case retryOnce:
			if usedOnce {
				return nil, err
			}
			usedOnce = true
		}
		if attempt >= r.cfg.MaxAttempts {
			return nil, err
		}

		wait := r.wait(attempt, err)
		r.log.Warn("retrying LLM request",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

// wait is the pause after the given 1-based attempt: the provider's
// Retry-After when it sent one, otherwise InitialWait*Multiplier^(n-1)
// capped at MaxWait, with ±20% jitter.
func (r *RetryProvider) wait(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	base := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt-1))
	base = min(base, float64(r.cfg.MaxWait))
	return time.Duration(max(0, base*(0.8+0.4*rand.Float64())))
}
