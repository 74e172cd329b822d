// Package roundtrip simulates the latency of a network call that the mock
// flows stand in for.
package roundtrip

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Wait blocks for d on clock, or until ctx is done. A non-positive d returns
// immediately.
func Wait(ctx context.Context, clock clockwork.Clock, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}
