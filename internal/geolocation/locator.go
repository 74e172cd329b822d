// Package geolocation provides domain.Locator implementations for the CLI:
// a catalog-backed region locator and a Mapbox-backed geocoding locator.
package geolocation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/couchcryptid/rainwater-harvest-service/internal/config"
	"github.com/couchcryptid/rainwater-harvest-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// DefaultWatchInterval is how often Watch re-resolves a fix.
const DefaultWatchInterval = 5 * time.Second

// geocodedAccuracy is the radius assumed for a place-level geocoding match.
const geocodedAccuracy = 1000

// Option configures a locator.
type Option func(*base)

// WithClock sets the clock used for fix timestamps and the watch ticker.
func WithClock(c clockwork.Clock) Option {
	return func(b *base) {
		if c != nil {
			b.clock = c
		}
	}
}

// WithWatchInterval sets the Watch polling interval.
func WithWatchInterval(d time.Duration) Option {
	return func(b *base) {
		if d > 0 {
			b.interval = d
		}
	}
}

// base is shared by both locators. fix holds the last good position for
// MaximumAge reuse.
type base struct {
	clock    clockwork.Clock
	interval time.Duration
	fix      *lastFix
}

type lastFix struct {
	mu  sync.Mutex
	pos *domain.Position
}

func newBase(opts []Option) base {
	b := base{clock: clockwork.NewRealClock(), interval: DefaultWatchInterval, fix: &lastFix{}}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *base) cached(maxAge time.Duration) (domain.Position, bool) {
	b.fix.mu.Lock()
	defer b.fix.mu.Unlock()
	if b.fix.pos == nil || maxAge <= 0 {
		return domain.Position{}, false
	}
	if b.clock.Since(b.fix.pos.At) > maxAge {
		return domain.Position{}, false
	}
	return *b.fix.pos, true
}

func (b *base) remember(p domain.Position) {
	b.fix.mu.Lock()
	defer b.fix.mu.Unlock()
	b.fix.pos = &p
}

// resolve runs fetch under the options' timeout, reusing a fresh cached fix.
func (b *base) resolve(ctx context.Context, opts domain.PositionOptions, fetch func(context.Context) (domain.Position, error)) (domain.Position, error) {
	if p, ok := b.cached(opts.MaximumAge); ok {
		return p, nil
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	p, err := fetch(ctx)
	if err != nil {
		return domain.Position{}, err
	}
	p.At = b.clock.Now()
	b.remember(p)
	return p, nil
}

// watch emits one update immediately and then one per tick until ctx is done.
func (b *base) watch(ctx context.Context, opts domain.PositionOptions, current func(context.Context, domain.PositionOptions) (domain.Position, error)) <-chan domain.PositionUpdate {
	out := make(chan domain.PositionUpdate)
	go func() {
		defer close(out)
		ticker := b.clock.NewTicker(b.interval)
		defer ticker.Stop()

		for {
			p, err := current(ctx, opts)
			if ctx.Err() != nil {
				return
			}
			select {
			case out <- domain.PositionUpdate{Position: p, Err: err}:
			case <-ctx.Done():
				return
			}
			select {
			case <-ticker.Chan():
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// RegionLocator reports the catalog centre of the selected region.
type RegionLocator struct {
	base
	regions *config.Regions
	region  domain.LocationCode
}

// NewRegionLocator locates region against the catalog.
func NewRegionLocator(regions *config.Regions, region domain.LocationCode, opts ...Option) *RegionLocator {
	return &RegionLocator{base: newBase(opts), regions: regions, region: region}
}

func (l *RegionLocator) CurrentPosition(ctx context.Context, opts domain.PositionOptions) (domain.Position, error) {
	return l.resolve(ctx, opts, func(ctx context.Context) (domain.Position, error) {
		if err := ctx.Err(); err != nil {
			return domain.Position{}, classify(err)
		}
		reg, ok := l.regions.Lookup(l.region)
		if !ok {
			return domain.Position{}, domain.NewGeolocationError(domain.PositionUnavailable,
				errors.New("region "+string(l.region)+" is not in the catalog"))
		}
		return domain.Position{Lat: reg.Lat, Lng: reg.Lng, Accuracy: reg.Accuracy}, nil
	})
}

func (l *RegionLocator) Watch(ctx context.Context, opts domain.PositionOptions) <-chan domain.PositionUpdate {
	return l.watch(ctx, opts, l.CurrentPosition)
}

// GeocodingLocator forward-geocodes the selected region's display name.
type GeocodingLocator struct {
	base
	geocoder domain.Geocoder
	region   domain.LocationCode
}

// NewGeocodingLocator locates region through geocoder.
func NewGeocodingLocator(geocoder domain.Geocoder, region domain.LocationCode, opts ...Option) *GeocodingLocator {
	return &GeocodingLocator{base: newBase(opts), geocoder: geocoder, region: region}
}

func (l *GeocodingLocator) CurrentPosition(ctx context.Context, opts domain.PositionOptions) (domain.Position, error) {
	if l.geocoder == nil {
		return domain.Position{}, domain.NewGeolocationError(domain.Unsupported, nil)
	}
	return l.resolve(ctx, opts, func(ctx context.Context) (domain.Position, error) {
		res, err := l.geocoder.ForwardGeocode(ctx, l.region.DisplayName())
		if err != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				return domain.Position{}, ctx.Err()
			}
			return domain.Position{}, classify(err)
		}
		if res.Empty() {
			return domain.Position{}, domain.NewGeolocationError(domain.PositionUnavailable,
				errors.New("no match for "+l.region.DisplayName()))
		}
		return domain.Position{Lat: res.Lat, Lng: res.Lng, Accuracy: geocodedAccuracy}, nil
	})
}

func (l *GeocodingLocator) Watch(ctx context.Context, opts domain.PositionOptions) <-chan domain.PositionUpdate {
	return l.watch(ctx, opts, l.CurrentPosition)
}

// Unsupported is the locator for environments without geolocation.
type Unsupported struct{}

func (Unsupported) CurrentPosition(context.Context, domain.PositionOptions) (domain.Position, error) {
	return domain.Position{}, domain.NewGeolocationError(domain.Unsupported, nil)
}

// Watch delivers a single Unsupported failure and closes.
func (Unsupported) Watch(context.Context, domain.PositionOptions) <-chan domain.PositionUpdate {
	out := make(chan domain.PositionUpdate, 1)
	out <- domain.PositionUpdate{Err: domain.NewGeolocationError(domain.Unsupported, nil)}
	close(out)
	return out
}

// OrUnsupported returns l, or Unsupported when l is nil.
func OrUnsupported(l domain.Locator) domain.Locator {
	if l == nil {
		return Unsupported{}
	}
	return l
}

// classify maps provider and context errors to advisory geolocation errors.
// A cancelled request is returned as is.
func classify(err error) error {
	var ge *domain.GeolocationError
	if errors.As(err, &ge) || errors.Is(err, context.Canceled) {
		return err
	}

	var auth interface{ Unauthorized() bool }
	if errors.As(err, &auth) && auth.Unauthorized() {
		return domain.NewGeolocationError(domain.PermissionDenied, err)
	}

	var timeout interface{ Timeout() bool }
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &timeout) && timeout.Timeout()) {
		return domain.NewGeolocationError(domain.Timeout, err)
	}
	return domain.NewGeolocationError(domain.PositionUnavailable, err)
}
