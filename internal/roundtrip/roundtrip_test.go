package roundtrip

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWait_ZeroDelay(t *testing.T) {
	require.NoError(t, Wait(context.Background(), clockwork.NewFakeClock(), 0))
}

func TestWait_ElapsesOnClock(t *testing.T) {
	fc := clockwork.NewFakeClock()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- Wait(ctx, fc, 2*time.Second) }()

	require.NoError(t, fc.BlockUntilContext(ctx, 1))
	fc.Advance(2 * time.Second)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("wait did not return after clock advanced")
	}
}

func TestWait_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Wait(ctx, clockwork.NewFakeClock(), time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}
