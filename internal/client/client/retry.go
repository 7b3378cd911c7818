package client

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/hkjobs/internal/logging"
	"github.com/sethvargo/go-retry"
)

// RetryPolicy bounds retries of read-only requests.
type RetryPolicy struct {
	// Attempts counts the first try; 1 disables retry.
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, BaseDelay: time.Second, MaxDelay: 30 * time.Second}
}

func (p RetryPolicy) backoff() retry.Backoff {
	def := DefaultRetryPolicy()
	base, maxDelay := p.BaseDelay, p.MaxDelay
	if base <= 0 {
		base = def.BaseDelay
	}
	if maxDelay <= 0 {
		maxDelay = def.MaxDelay
	}
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	b := retry.NewExponential(base)
	b = retry.WithCappedDuration(maxDelay, b)
	return retry.WithMaxRetries(uint64(attempts-1), b)
}

// retryable reports whether err is transient. 401 belongs to the refresh
// path and 429 is surfaced with its wait hint, so neither is retried here.
func retryable(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrServer)
}

func withRetry(ctx context.Context, p RetryPolicy, logger logging.Logger, fn func(ctx context.Context) error) error {
	attempt := 0
	return retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err != nil && retryable(err) {
			logger.Debug(ctx, "retrying request", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}
