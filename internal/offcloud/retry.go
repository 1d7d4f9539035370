package offcloud

import (
	"context"
	"errors"
	"time"
)

const (
	defaultRetryAttempts = 3
	defaultRetryBase     = 10 * time.Second
)

// sleep is a seam so tests can observe waits without real delays.
var sleep = sleepContext

// Retry runs fn up to attempts times. Only errors matching ErrTransient are
// retried; anything else propagates immediately. The wait between tries
// starts at base and doubles each round, and no wait follows the final
// attempt. Waits abort when ctx is cancelled.
func Retry(ctx context.Context, attempts int, base time.Duration, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		err = fn(ctx)
		if err == nil || !errors.Is(err, ErrTransient) {
			return err
		}
		if attempt < attempts-1 {
			if werr := sleep(ctx, base<<attempt); werr != nil {
				return werr
			}
		}
	}
	return err
}

// sleepContext blocks for d or until ctx is cancelled, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
