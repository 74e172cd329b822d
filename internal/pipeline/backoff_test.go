package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoff_DoublesCapsAndResets(t *testing.T) {
	fc := clockwork.NewFakeClock()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	b := backoff{clock: fc}
	want := []time.Duration{
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		1600 * time.Millisecond,
		3200 * time.Millisecond,
		5 * time.Second,
		5 * time.Second,
	}

	for _, d := range want {
		require.Equal(t, d, b.delay())
		done := make(chan bool, 1)
		go func() { done <- b.wait(ctx) }()
		require.NoError(t, fc.BlockUntilContext(ctx, 1))
		fc.Advance(d)
		require.True(t, <-done)
	}

	b.reset()
	assert.Equal(t, initialBackoff, b.delay())
}

func TestBackoff_WaitStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := backoff{clock: clockwork.NewFakeClock()}
	assert.False(t, b.wait(ctx))
	assert.Equal(t, initialBackoff, b.delay(), "a cancelled wait does not grow the delay")
}
