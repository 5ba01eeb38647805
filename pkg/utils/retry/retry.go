package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/standup-lab/jirabot/pkg/domain/types"
)

// RateLimitError reports a throttled request together with how long the
// server asked us to wait. The wait is honored as-is and does not count
// against the retry budget.
type RateLimitError struct {
	After time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.After)
}

// Policy controls the backoff schedule.
type Policy struct {
	Attempts     int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Factor       float64

	// MaxElapsed caps the total time spent waiting between attempts.
	// Rate-limit waits do not consume attempts, but they do consume this
	// budget, so a persistently throttled call still terminates. Zero
	// means no cap.
	MaxElapsed time.Duration

	// sleep is replaceable in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy returns the schedule used for tracker calls.
func DefaultPolicy() *Policy {
	return &Policy{
		Attempts:     3,
		InitialDelay: time.Second,
		MaxDelay:     10 * time.Second,
		Factor:       2,
		MaxElapsed:   2 * time.Minute,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do runs fn under the policy. Only transient errors are retried; anything
// else returns immediately. A RateLimitError sleeps for exactly the
// server-provided duration without consuming an attempt.
func (p *Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	delay := p.InitialDelay
	attempt := 0
	var waited time.Duration
	var lastErr error

	for attempt < p.Attempts {
		if err := ctx.Err(); err != nil {
			return goerr.Wrap(err, "retry canceled")
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		var rle *RateLimitError
		if errors.As(err, &rle) {
			if p.MaxElapsed > 0 && waited+rle.After > p.MaxElapsed {
				return goerr.Wrap(err, "retry wait budget exhausted",
					goerr.V("maxElapsed", p.MaxElapsed), goerr.T(types.ErrTagTransient))
			}
			waited += rle.After
			if serr := sleep(ctx, rle.After); serr != nil {
				return goerr.Wrap(serr, "retry canceled while rate limited")
			}
			continue
		}

		if !goerr.HasTag(err, types.ErrTagTransient) {
			return err
		}

		attempt++
		if attempt >= p.Attempts {
			break
		}

		if p.MaxElapsed > 0 && waited+delay > p.MaxElapsed {
			break
		}
		waited += delay
		if serr := sleep(ctx, delay); serr != nil {
			return goerr.Wrap(serr, "retry canceled during backoff")
		}
		delay = time.Duration(float64(delay) * p.Factor)
		if delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}

	return goerr.Wrap(lastErr, "retry attempts exhausted",
		goerr.V("attempts", p.Attempts), goerr.T(types.ErrTagTransient))
}
