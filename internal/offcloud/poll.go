package offcloud

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultPollInterval is the wait between status checks.
	DefaultPollInterval = 5 * time.Second
	// DefaultTimeout bounds how long AwaitCompletion waits for a terminal
	// status. Applied by the configuration layer, not by AwaitCompletion.
	DefaultTimeout = time.Hour

	// transientCooldown is how long the poller backs off after the status
	// endpoint reports a temporary error. Cooldowns are not retries: they
	// repeat indefinitely while the wall-clock timeout allows.
	transientCooldown = 30 * time.Second
)

// PollObserver receives every status snapshot observed while waiting,
// including the terminal one, along with the wall-clock time since polling
// began.
type PollObserver func(rec StatusRecord, elapsed time.Duration)

// PollOptions configures AwaitCompletion.
type PollOptions struct {
	// Interval is the wait between status checks. Values <= 0 select
	// DefaultPollInterval.
	Interval time.Duration
	// Timeout is the wall-clock budget, measured from entry. It is taken
	// literally: a zero or negative value times out right after the first
	// status check.
	Timeout time.Duration
	// Observer, if set, is called with each snapshot.
	Observer PollObserver
}

// AwaitCompletion polls the job until it reaches a terminal status. It
// returns the final record on success, a *DownloadFailedError when the
// service reports the job failed, and a *TimeoutError when the budget runs
// out first. A temporary error from the status endpoint does not advance the
// job: the poller sleeps out a fixed cooldown and checks again. Every wait
// aborts promptly when ctx is cancelled.
func (c *Client) AwaitCompletion(ctx context.Context, handle JobHandle, opts PollOptions) (StatusRecord, error) {
	if c == nil {
		return StatusRecord{}, fmt.Errorf("client is nil")
	}
	if handle.Kind == JobInstant {
		return StatusRecord{}, fmt.Errorf("instant jobs complete at submission")
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	start := time.Now()
	var last StatusRecord
	for {
		rec, err := c.JobStatus(ctx, handle)
		if err != nil {
			if !errors.Is(err, ErrTransient) {
				return last, err
			}
			if elapsed := time.Since(start); elapsed >= opts.Timeout {
				return last, &TimeoutError{Elapsed: elapsed}
			}
			if werr := sleep(ctx, c.cooldown); werr != nil {
				return last, werr
			}
			continue
		}
		last = rec
		elapsed := time.Since(start)
		if opts.Observer != nil {
			opts.Observer(rec, elapsed)
		}
		switch rec.Status {
		case StatusDownloaded:
			return rec, nil
		case StatusError:
			return rec, &DownloadFailedError{Record: rec}
		}
		if elapsed >= opts.Timeout {
			return rec, &TimeoutError{Elapsed: elapsed}
		}
		if err := sleep(ctx, interval); err != nil {
			return rec, err
		}
	}
}
