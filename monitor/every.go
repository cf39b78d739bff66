package monitor

import (
	"context"
	"fmt"
	"time"
)

// Every calls fn, then waits interval measured from fn's completion, and
// repeats until ctx is cancelled or fn fails. The context is checked before
// each call and during each wait; a call in progress is never interrupted
// except through the ctx it receives.
//
// Every returns ctx.Err() on cancellation and fn's error unmodified
// otherwise. A non-positive interval or nil fn is ErrInvalidArgument.
func Every(ctx context.Context, interval time.Duration, fn func(context.Context) error) error {
	if interval <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %s", ErrInvalidArgument, interval)
	}
	if fn == nil {
		return fmt.Errorf("%w: nil function", ErrInvalidArgument)
	}

	timer := time.NewTimer(interval)
	timer.Stop()
	defer timer.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := fn(ctx); err != nil {
			return err
		}

		timer.Reset(interval)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}
