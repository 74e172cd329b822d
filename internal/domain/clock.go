package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

var processingClock = clockwork.NewRealClock()

// SetClock replaces the clock that stamps ProcessedAt on estimate records.
// nil restores the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	processingClock = c
}

func processedAt() time.Time {
	return processingClock.Now().UTC()
}
