package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusErr struct{ code int }

func (e statusErr) Error() string   { return fmt.Sprintf("status %d", e.code) }
func (e statusErr) StatusCode() int { return e.code }

// recordingSleep captures every requested delay without waiting.
type recordingSleep struct {
	delays []time.Duration
}

func (r *recordingSleep) sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return ctx.Err()
}

func testPolicy(rec *recordingSleep) Policy {
	p := DefaultPolicy()
	p.Sleep = rec.sleep
	return p
}

func TestDo_SucceedsAfterRetryableFailures(t *testing.T) {
	rec := &recordingSleep{}
	calls := 0

	got, err := Do(context.Background(), testPolicy(rec), func(ctx context.Context) (string, error) {
		calls++
		if calls <= 4 {
			return "", errors.New("googleapi: Error 429: quota exceeded")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 5, calls)
	assert.Equal(t, []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
	}, rec.delays)
}

func TestDo_StopsAfterMaxAttempts(t *testing.T) {
	rec := &recordingSleep{}
	calls := 0
	lastErr := errors.New("500 internal error")

	_, err := Do(context.Background(), testPolicy(rec), func(ctx context.Context) (int, error) {
		calls++
		return 0, lastErr
	})

	assert.ErrorIs(t, err, lastErr)
	assert.Equal(t, 5, calls)
	assert.Len(t, rec.delays, 4)
}

func TestDo_NonRetryableFailsImmediately(t *testing.T) {
	rec := &recordingSleep{}
	calls := 0
	authErr := errors.New("401 unauthorized")

	_, err := Do(context.Background(), testPolicy(rec), func(ctx context.Context) (int, error) {
		calls++
		return 0, authErr
	})

	assert.ErrorIs(t, err, authErr)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.delays)
}

func TestDo_ContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := DefaultPolicy()
	p.Sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return SleepContext(ctx, d)
	}
	calls := 0

	_, err := Do(ctx, p, func(ctx context.Context) (int, error) {
		calls++
		return 0, statusErr{code: 503}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextAlreadyDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Do(ctx, DefaultPolicy(), func(ctx context.Context) (int, error) {
		t.Fatal("operation must not run")
		return 0, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_ZeroPolicyRunsOnce(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Policy{}, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("429")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_OnRetryObservesAttempts(t *testing.T) {
	rec := &recordingSleep{}
	p := testPolicy(rec)
	var attempts []int
	p.OnRetry = func(attempt int, delay time.Duration, err error) {
		attempts = append(attempts, attempt)
	}

	_, _ = Do(context.Background(), p, func(ctx context.Context) (int, error) {
		return 0, statusErr{code: 429}
	})
	assert.Equal(t, []int{1, 2, 3, 4}, attempts)
}

func TestIsRateLimitOrServerError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"message with 429", errors.New("Error 429: Resource has been exhausted"), true},
		{"message with 500", errors.New("HTTP 500 from upstream"), true},
		{"message without code", errors.New("connection reset"), false},
		{"status 429", statusErr{code: 429}, true},
		{"status 503", statusErr{code: 503}, true},
		{"status 400", statusErr{code: 400}, false},
		{"wrapped status", fmt.Errorf("call: %w", statusErr{code: 502}), true},
		{"cancelled", context.Canceled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRateLimitOrServerError(tt.err))
		})
	}
}
