// Package retry provides a generic poll-until-terminal combinator used by
// the bulk job coordinator.
package retry

import (
	"context"
	"errors"
	"time"
)

// ErrExhausted is returned when every attempt ran without fn reporting done.
var ErrExhausted = errors.New("retry: attempts exhausted")

// SleepFunc waits for the given duration or until the context is done.
// Injectable so tests run without real delays.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options parameterizes Poll. MaxAttempts is a hard ceiling: fn is called
// at most that many times, with Interval waits between calls.
type Options struct {
	Interval    time.Duration
	MaxAttempts int
	Sleep       SleepFunc
}

// defaultSleep waits with a timer while honoring context cancellation.
func defaultSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Poll invokes fn until it reports done, returns an error, or MaxAttempts
// is reached. The interval wait happens between attempts, never after the
// last one. Exhaustion returns ErrExhausted so callers can distinguish an
// ambiguous timeout from a reported failure.
func Poll(ctx context.Context, opts Options, fn func(ctx context.Context) (bool, error)) error {
	sleep := opts.Sleep
	if sleep == nil {
		sleep = defaultSleep
	}

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		done, err := fn(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if attempt < opts.MaxAttempts {
			if err := sleep(ctx, opts.Interval); err != nil {
				return err
			}
		}
	}

	return ErrExhausted
}
