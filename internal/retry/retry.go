package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amishk599/careerpath/internal/model"
)

// Policy holds the retry budget and backoff constants.
type Policy struct {
	MaxRetries   int           // additional attempts after the first
	BaseDelay    time.Duration // transient backoff: BaseDelay * 2^attempt + DelayOffset
	DelayOffset  time.Duration
	RateLimitMin time.Duration // floor for 429 waits
	RateLimitPad time.Duration // added to the server's retryAfter hint
}

// DefaultPolicy returns the production policy: 7 retries, 2s*2^n+1s backoff,
// and max(5s, retryAfter+2s) on 429.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:   7,
		BaseDelay:    2 * time.Second,
		DelayOffset:  1 * time.Second,
		RateLimitMin: 5 * time.Second,
		RateLimitPad: 2 * time.Second,
	}
}

// Backoff returns the wait after a transient failure on the given 0-indexed attempt.
func (p Policy) Backoff(attempt int) time.Duration {
	return p.BaseDelay<<attempt + p.DelayOffset
}

// Budget returns the wall-clock time needed to use every attempt when each
// one fails transiently after attemptTimeout.
func (p Policy) Budget(attemptTimeout time.Duration) time.Duration {
	total := time.Duration(p.MaxRetries+1) * attemptTimeout
	for i := 0; i < p.MaxRetries; i++ {
		total += p.Backoff(i)
	}
	return total
}

// RateLimitWait returns the wait after a 429. A zero retryAfter means the
// server gave no hint.
func (p Policy) RateLimitWait(retryAfter time.Duration) time.Duration {
	if retryAfter <= 0 {
		return p.RateLimitMin
	}
	return max(p.RateLimitMin, retryAfter+p.RateLimitPad)
}

// Delay picks the wait for a failure on the given attempt and reports whether
// it was a rate limit.
func (p Policy) Delay(attempt int, err error) (time.Duration, bool) {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RateLimited() {
		return p.RateLimitWait(httpErr.RetryAfter), true
	}
	return p.Backoff(attempt), false
}

// RetryProvider is a decorator that re-issues failed completions under a
// bounded retry policy before giving up.
type RetryProvider struct {
	inner  model.LLMProvider
	policy Policy
	logger *slog.Logger
	wait   func(ctx context.Context, d time.Duration) error
}

// NewRetryProvider wraps an LLMProvider with retry logic.
func NewRetryProvider(inner model.LLMProvider, policy Policy, logger *slog.Logger) *RetryProvider {
	return &RetryProvider{
		inner:  inner,
		policy: policy,
		logger: logger,
		wait:   sleep,
	}
}

// Complete sends c, retrying rate limits and transient failures. It returns
// a *model.RetryExhaustedError once the budget is spent.
func (p *RetryProvider) Complete(ctx context.Context, c model.Completion) (string, error) {
	for attempt := 0; ; attempt++ {
		text, err := p.inner.Complete(ctx, c)
		if err == nil {
			return text, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("retry cancelled after %d attempts: %w", attempt+1, ctxErr)
		}

		if attempt >= p.policy.MaxRetries {
			return "", &model.RetryExhaustedError{Attempts: attempt + 1, Err: err}
		}

		delay, rateLimited := p.policy.Delay(attempt, err)
		p.logger.Warn("retrying llm call",
			"attempt", attempt+1,
			"max_retries", p.policy.MaxRetries,
			"rate_limited", rateLimited,
			"status", statusOf(err),
			"delay", delay,
			"error", err,
		)

		if err := p.wait(ctx, delay); err != nil {
			return "", fmt.Errorf("retry cancelled after %d attempts: %w", attempt+1, err)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// statusOf returns the HTTP status carried by err, or 0 for network errors.
func statusOf(err error) int {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
