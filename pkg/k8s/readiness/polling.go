// Package readiness provides polling utilities for waiting until a freshly
// created cluster actually answers.
package readiness

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeoutExceeded is returned when a readiness deadline is exceeded.
var ErrTimeoutExceeded = errors.New("timeout exceeded")

// DefaultPollInterval is the delay between readiness checks.
const DefaultPollInterval = 2 * time.Second

// PollForReadiness invokes check at the poll interval until it returns true,
// returns an error, or the deadline elapses. A check error aborts polling
// immediately; a false result continues it.
func PollForReadiness(
	ctx context.Context,
	deadline time.Duration,
	check func(ctx context.Context) (bool, error),
) error {
	pollCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	ticker := time.NewTicker(DefaultPollInterval)
	defer ticker.Stop()

	for {
		ready, err := check(pollCtx)
		if err != nil {
			return fmt.Errorf("readiness check failed: %w", err)
		}

		if ready {
			return nil
		}

		select {
		case <-pollCtx.Done():
			if errors.Is(pollCtx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w after %s", ErrTimeoutExceeded, deadline)
			}

			return fmt.Errorf("readiness polling cancelled: %w", pollCtx.Err())
		case <-ticker.C:
		}
	}
}
