package geolocation

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/rainwater-harvest-service/internal/adapter/mapbox"
	"github.com/couchcryptid/rainwater-harvest-service/internal/config"
	"github.com/couchcryptid/rainwater-harvest-service/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubGeocoder struct {
	calls  atomic.Int32
	result domain.GeocodingResult
	err    error
	block  bool
}

func (g *stubGeocoder) ForwardGeocode(ctx context.Context, _ string) (domain.GeocodingResult, error) {
	g.calls.Add(1)
	if g.block {
		<-ctx.Done()
		return domain.GeocodingResult{}, ctx.Err()
	}
	return g.result, g.err
}

func (g *stubGeocoder) ReverseGeocode(context.Context, float64, float64) (domain.GeocodingResult, error) {
	return domain.GeocodingResult{}, errors.New("not used")
}

func testRegions(t *testing.T) *config.Regions {
	t.Helper()
	regions, err := config.LoadRegions("")
	require.NoError(t, err)
	return regions
}

func TestRegionLocator_CurrentPosition(t *testing.T) {
	fc := clockwork.NewFakeClock()
	l := NewRegionLocator(testRegions(t), domain.LocationChennai, WithClock(fc))

	pos, err := l.CurrentPosition(context.Background(), domain.DefaultPositionOptions())
	require.NoError(t, err)
	assert.InDelta(t, 13.08, pos.Lat, 0.01)
	assert.InDelta(t, 80.27, pos.Lng, 0.01)
	assert.Equal(t, 15000.0, pos.Accuracy)
	assert.Equal(t, fc.Now(), pos.At)
}

func TestRegionLocator_UnknownRegion(t *testing.T) {
	l := NewRegionLocator(testRegions(t), "atlantis")

	_, err := l.CurrentPosition(context.Background(), domain.DefaultPositionOptions())
	require.ErrorIs(t, err, domain.ErrPositionUnavailable)
	assert.Equal(t, "Location information unavailable", domain.AdvisoryFor(err))
}

func TestRegionLocator_CancelledContext(t *testing.T) {
	l := NewRegionLocator(testRegions(t), domain.LocationPune)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := l.CurrentPosition(ctx, domain.PositionOptions{})
	assert.ErrorIs(t, err, domain.ErrLocationTimeout)
}

func TestRegionLocator_CallerCancelled(t *testing.T) {
	l := NewRegionLocator(testRegions(t), domain.LocationPune)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.CurrentPosition(ctx, domain.DefaultPositionOptions())
	require.ErrorIs(t, err, context.Canceled)

	var ge *domain.GeolocationError
	assert.False(t, errors.As(err, &ge))
}

func TestGeocodingLocator_CallerCancelled(t *testing.T) {
	g := &stubGeocoder{block: true}
	l := NewGeocodingLocator(g, domain.LocationChennai)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(5*time.Millisecond, cancel)

	_, err := l.CurrentPosition(ctx, domain.DefaultPositionOptions())
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrPositionUnavailable)
}

func TestGeocodingLocator_Success(t *testing.T) {
	g := &stubGeocoder{result: domain.GeocodingResult{Lat: 22.57, Lng: 88.36, FormattedAddress: "Kolkata, West Bengal, India"}}
	l := NewGeocodingLocator(g, domain.LocationKolkata)

	pos, err := l.CurrentPosition(context.Background(), domain.DefaultPositionOptions())
	require.NoError(t, err)
	assert.Equal(t, 22.57, pos.Lat)
	assert.Equal(t, 88.36, pos.Lng)
	assert.Equal(t, float64(geocodedAccuracy), pos.Accuracy)
}

func TestGeocodingLocator_ReusesFixWithinMaximumAge(t *testing.T) {
	fc := clockwork.NewFakeClock()
	g := &stubGeocoder{result: domain.GeocodingResult{Lat: 1, Lng: 2, FormattedAddress: "x"}}
	l := NewGeocodingLocator(g, domain.LocationDelhi, WithClock(fc))
	opts := domain.DefaultPositionOptions()

	_, err := l.CurrentPosition(context.Background(), opts)
	require.NoError(t, err)
	fc.Advance(30 * time.Second)
	_, err = l.CurrentPosition(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, int32(1), g.calls.Load())

	fc.Advance(31 * time.Second)
	_, err = l.CurrentPosition(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, int32(2), g.calls.Load())
}

func TestGeocodingLocator_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		geocoder *stubGeocoder
		want     error
		advisory string
	}{
		{"empty result", &stubGeocoder{}, domain.ErrPositionUnavailable, "Location information unavailable"},
		{"unauthorized", &stubGeocoder{err: &mapbox.APIError{StatusCode: 401}}, domain.ErrPermissionDenied, "Location access denied by user"},
		{"forbidden", &stubGeocoder{err: &mapbox.APIError{StatusCode: 403}}, domain.ErrPermissionDenied, "Location access denied by user"},
		{"server error", &stubGeocoder{err: &mapbox.APIError{StatusCode: 500}}, domain.ErrPositionUnavailable, "Location information unavailable"},
		{"deadline", &stubGeocoder{block: true}, domain.ErrLocationTimeout, "Location request timed out"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewGeocodingLocator(tt.geocoder, domain.LocationAhmedabad)
			opts := domain.PositionOptions{Timeout: 10 * time.Millisecond}

			_, err := l.CurrentPosition(context.Background(), opts)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.advisory, domain.AdvisoryFor(err))

			var ge *domain.GeolocationError
			require.ErrorAs(t, err, &ge)
			assert.True(t, ge.Retryable())
		})
	}
}

func TestGeocodingLocator_NilGeocoderUnsupported(t *testing.T) {
	l := NewGeocodingLocator(nil, domain.LocationMumbai)
	_, err := l.CurrentPosition(context.Background(), domain.DefaultPositionOptions())
	assert.ErrorIs(t, err, domain.ErrUnsupported)
}

func TestOrUnsupported(t *testing.T) {
	l := OrUnsupported(nil)

	_, err := l.CurrentPosition(context.Background(), domain.DefaultPositionOptions())
	require.ErrorIs(t, err, domain.ErrUnsupported)
	assert.Equal(t, "Geolocation is not supported by this browser.", domain.AdvisoryFor(err))

	var updates []domain.PositionUpdate
	for u := range l.Watch(context.Background(), domain.DefaultPositionOptions()) {
		updates = append(updates, u)
	}
	require.Len(t, updates, 1)
	assert.ErrorIs(t, updates[0].Err, domain.ErrUnsupported)

	region := NewRegionLocator(testRegions(t), domain.LocationPune)
	assert.Same(t, region, OrUnsupported(region))
}

func TestWatch_TicksUntilCancelled(t *testing.T) {
	fc := clockwork.NewFakeClock()
	g := &stubGeocoder{result: domain.GeocodingResult{Lat: 12.97, Lng: 77.59, FormattedAddress: "Bengaluru"}}
	l := NewGeocodingLocator(g, domain.LocationBangalore, WithClock(fc), WithWatchInterval(time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	watchCtx, stop := context.WithCancel(ctx)
	updates := l.Watch(watchCtx, domain.PositionOptions{})

	first := <-updates
	require.NoError(t, first.Err)
	assert.Equal(t, 12.97, first.Position.Lat)

	require.NoError(t, fc.BlockUntilContext(ctx, 1))
	fc.Advance(time.Second)

	second := <-updates
	require.NoError(t, second.Err)
	assert.Equal(t, int32(2), g.calls.Load())

	stop()
	for range updates {
	}
}

func TestWatch_DeliversFailures(t *testing.T) {
	fc := clockwork.NewFakeClock()
	l := NewRegionLocator(testRegions(t), "atlantis", WithClock(fc))

	ctx, cancel := context.WithCancel(context.Background())
	updates := l.Watch(ctx, domain.DefaultPositionOptions())

	u := <-updates
	assert.ErrorIs(t, u.Err, domain.ErrPositionUnavailable)

	cancel()
	_, open := <-updates
	assert.False(t, open)
}
