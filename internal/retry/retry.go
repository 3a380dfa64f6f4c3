// Package retry runs an operation again after transient failures, waiting
// twice as long before each new attempt.
package retry

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = time.Second
)

// Policy describes how many times an operation runs and how long to wait
// between runs. The zero value runs the operation once.
type Policy struct {
	// MaxAttempts counts the first call. Values below 1 are treated as 1.
	MaxAttempts int
	// BaseDelay is the wait before the second attempt. Each later wait doubles.
	BaseDelay time.Duration
	// Retryable decides whether a failure is worth another attempt.
	// A nil Retryable never retries.
	Retryable func(error) bool
	// Sleep waits for d or until ctx is done. Defaults to SleepContext.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnRetry, when set, is called before each wait.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultPolicy retries rate-limit and server errors 5 times in total,
// waiting 1s, 2s, 4s and 8s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		Retryable:   IsRateLimitOrServerError,
	}
}

// Do calls op until it succeeds, returns a non-retryable error, or the
// attempts are used up. The last error is returned unchanged. If ctx ends
// while waiting, the context error is returned.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = SleepContext
	}
	delay := p.BaseDelay

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		if attempt >= attempts || p.Retryable == nil || !p.Retryable(err) {
			return zero, err
		}
		// A cancelled call is not a provider failure.
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, delay, err)
		}
		if serr := sleep(ctx, delay); serr != nil {
			return zero, serr
		}
		delay *= 2
	}
}

// SleepContext blocks for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// StatusCoder is implemented by errors that carry an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// IsRateLimitOrServerError reports whether err looks like HTTP 429 or a 5xx
// response. Errors exposing StatusCoder are judged by their status; other
// errors by whether their text mentions 429 or 500.
func IsRateLimitOrServerError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		code := sc.StatusCode()
		return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
	}

	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "500")
}
