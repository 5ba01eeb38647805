package retry

import (
	"context"
	"time"
)

// NewPolicyForTest builds a policy with an injected sleep function so tests
// can observe the backoff schedule without waiting.
func NewPolicyForTest(attempts int, initial, max time.Duration, factor float64, sleep func(ctx context.Context, d time.Duration) error) *Policy {
	return &Policy{
		Attempts:     attempts,
		InitialDelay: initial,
		MaxDelay:     max,
		Factor:       factor,
		sleep:        sleep,
	}
}
