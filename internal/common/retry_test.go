package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/saladlab/consult-tags/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithRetry(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		wantErr   error
		failures  []error
		name      string
		attempts  int
		wantCalls int
	}{
		{
			name:      "succeeds first time",
			attempts:  3,
			wantCalls: 1,
		},
		{
			name:      "succeeds after transient failures",
			attempts:  3,
			failures:  []error{errBoom, errBoom},
			wantCalls: 3,
		},
		{
			name:      "gives up after max attempts",
			attempts:  2,
			failures:  []error{errBoom, errBoom, errBoom},
			wantCalls: 2,
			wantErr:   ErrMaxRetries,
		},
		{
			name:      "cancellation stops immediately",
			attempts:  5,
			failures:  []error{context.Canceled},
			wantCalls: 1,
			wantErr:   context.Canceled,
		},
		{
			name:      "permanent errors stop immediately",
			attempts:  5,
			failures:  []error{Permanent(errBoom)},
			wantCalls: 1,
			wantErr:   errBoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), func() error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			}, fastRetry(tt.attempts))

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := fastRetry(3)
	opts.InitialDelay = time.Second
	opts.MaxDelay = time.Second

	err := WithRetry(ctx, func() error { return errors.New("fail") }, opts)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "rate limit", err: fmt.Errorf("read: %w", ErrRateLimit), want: true},
		{name: "marked retryable", err: &RetryableError{Err: errors.New("x"), Retryable: true}, want: true},
		{name: "permanent", err: Permanent(errors.New("x")), want: false},
		{name: "permanent rate limit", err: Permanent(ErrRateLimit), want: false},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "canceled", err: fmt.Errorf("load: %w", context.Canceled), want: false},
		{name: "plain", err: errors.New("connection reset"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestUserError(t *testing.T) {
	inner := ErrNotEnoughData
	err := NewUserError("시트에 충분한 데이터가 없습니다", inner)

	assert.ErrorIs(t, err, ErrNotEnoughData)
	assert.Contains(t, err.Error(), "시트에 충분한 데이터가 없습니다")
	assert.Equal(t, "only message", (&UserError{UserMessage: "only message"}).Error())
}

func TestParseLevel(t *testing.T) {
	_, err := ParseLevel("verbose")
	assert.Error(t, err)

	lvl, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, "WARN", lvl.String())
}
