// Package store wraps every persistence gateway call with bounded
// retries for transient failures and slow-query flagging. Validation,
// conflict and not-found outcomes pass through untouched.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/listenline/session-booking/internal/httperr"
)

type Runner struct {
	maxRetries int
	baseDelay  time.Duration
	slowAfter  time.Duration
	log        zerolog.Logger
}

func NewRunner(maxRetries int, baseDelay, slowAfter time.Duration, log zerolog.Logger) *Runner {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Runner{
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		slowAfter:  slowAfter,
		log:        log.With().Str("component", "store").Logger(),
	}
}

// linear yields attempt * base: 1s, 2s, 3s, ...
func linear(base time.Duration) retry.Backoff {
	attempt := 0
	return retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return time.Duration(attempt) * base, false
	})
}

// Do runs fn, retrying transient failures up to maxRetries. The final
// transient error surfaces as a DatabaseError tagged with the operation
// name and attempt count.
func (r *Runner) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	attempts := 0

	backoff := retry.WithMaxRetries(uint64(r.maxRetries), linear(r.baseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		if err := fn(ctx); err != nil {
			if IsTransient(err) {
				retriesTotal.WithLabelValues(op).Inc()
				r.log.Warn().
					Err(err).
					Str("op", op).
					Int("attempt", attempts).
					Msg("transient store error")
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})

	if elapsed := time.Since(start); elapsed > r.slowAfter {
		slowQueries.WithLabelValues(op).Inc()
		r.log.Warn().
			Str("op", op).
			Dur("elapsed", elapsed).
			Msg("slow store operation")
	}

	if err != nil {
		if IsTransient(err) {
			return httperr.Database(
				fmt.Sprintf("%s failed after %d attempts", op, attempts),
				err,
			)
		}
		return err
	}
	return nil
}

// Query is Do for value-returning gateway calls.
func Query[T any](ctx context.Context, r *Runner, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := r.Do(ctx, op, func(ctx context.Context) error {
		var innerErr error
		out, innerErr = fn(ctx)
		return innerErr
	})
	return out, err
}
