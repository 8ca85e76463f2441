package drive

import (
	"time"

	"github.com/sethvargo/go-retry"
)

// linearBackoff yields unit, 2*unit, ... capped at ceiling, and stops after
// attempts-1 waits.
func linearBackoff(unit, ceiling time.Duration, attempts int) retry.Backoff {
	n := 0
	next := retry.BackoffFunc(func() (time.Duration, bool) {
		n++
		d := time.Duration(n) * unit
		if d > ceiling {
			d = ceiling
		}
		return d, false
	})

	if attempts < 1 {
		attempts = 1
	}
	return retry.WithMaxRetries(uint64(attempts-1), next)
}
