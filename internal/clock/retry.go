// Package clock provides waits and retries bounded by a context.
package clock

import (
	"context"
	"time"
)

// Retry calls fn until it succeeds or attempts run out, sleeping between tries. The delay starts
// at initial and doubles up to maxDelay. It returns the last error from fn, or ctx.Err() when the
// context ends a wait.
func Retry(ctx context.Context, attempts int, initial, maxDelay time.Duration, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	delay := initial
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt >= attempts {
			return err
		}
		if serr := SleepWithContext(ctx, delay); serr != nil {
			return serr
		}
		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
}

// SleepWithContext waits for d and returns ctx.Err() if ctx ends first.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
