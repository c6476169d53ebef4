// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package retry

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"
)

// BackoffFunc returns the delay before the next attempt.
// attempt is the 1-based number of the attempt that just failed.
type BackoffFunc func(attempt int) time.Duration

// Policy describes how an operation is retried.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Backoff computes the wait between attempts. Nil means no wait.
	Backoff BackoffFunc
	// Retryable reports whether an error deserves another attempt. Nil retries every error.
	Retryable func(error) bool
	// Logger receives one debug line per failed attempt. Nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultPolicy returns five attempts with randomized exponential backoff
// bounded between 1s and 30s. Context cancellation is never retried.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 5,
		Backoff:     RandomExponential(time.Second, 30*time.Second),
		Retryable:   IsRetryable,
	}
}

// RandomExponential waits a uniformly random duration in [min, ceiling], where
// ceiling doubles each attempt starting at 1s and is clamped to [min, max].
func RandomExponential(min, max time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		ceiling := max
		if attempt <= 32 {
			ceiling = time.Second << (attempt - 1)
		}
		if ceiling > max {
			ceiling = max
		}
		if ceiling < min {
			ceiling = min
		}
		spread := ceiling - min
		if spread <= 0 {
			return min
		}
		return min + time.Duration(rand.Int64N(int64(spread)+1))
	}
}

// Constant waits the same delay between every attempt.
func Constant(delay time.Duration) BackoffFunc {
	return func(int) time.Duration {
		return delay
	}
}

// IsRetryable treats every error as transient except context cancellation and deadlines.
func IsRetryable(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Run retries operation under the policy.
// Returns the error from the last attempt if all attempts fail.
func (p Policy) Run(ctx context.Context, operation func(ctx context.Context) error) error {
	if p.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		// Check context before attempting
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation(ctx)
		if lastErr == nil {
			if attempt > 1 {
				logger.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}

		logger.Debug("operation failed, will retry", "attempt", attempt, "maxAttempts", p.MaxAttempts, "err", lastErr)

		// Don't sleep after the last attempt
		if attempt == p.MaxAttempts {
			break
		}

		var delay time.Duration
		if p.Backoff != nil {
			delay = p.Backoff(attempt)
		}
		if delay <= 0 {
			continue
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

// Do runs a value-returning operation under the policy.
func Do[T any](ctx context.Context, p Policy, operation func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := p.Run(ctx, func(ctx context.Context) error {
		value, err := operation(ctx)
		if err != nil {
			return err
		}
		result = value
		return nil
	})
	return result, err
}
