// Package estimator runs the estimate form: coercion, the simulated round
// trip, and the runoff model.
package estimator

import (
	"context"
	"time"

	"github.com/couchcryptid/rainwater-harvest-service/internal/domain"
	"github.com/couchcryptid/rainwater-harvest-service/internal/roundtrip"
	"github.com/jonboulle/clockwork"
)

// DefaultDelay is the simulated round trip before an estimate is returned.
const DefaultDelay = 2 * time.Second

// Result is an estimate along with the input it was computed from.
type Result struct {
	Input       domain.PropertyInput   `json:"input"`
	Estimate    domain.HarvestEstimate `json:"estimate"`
	CostBenefit string                 `json:"cost_benefit"`
}

// Service computes estimates after a simulated delay. Repeated calls simply
// recompute; nothing is cached or de-duplicated.
type Service struct {
	clock clockwork.Clock
	delay time.Duration
}

// New creates a Service. A nil clock uses the real clock.
func New(clock clockwork.Clock, delay time.Duration) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{clock: clock, delay: delay}
}

// Estimate waits out the simulated delay and computes the estimate for form.
// The only error is ctx ending before the delay elapses.
func (s *Service) Estimate(ctx context.Context, form domain.PropertyForm) (Result, error) {
	if err := roundtrip.Wait(ctx, s.clock, s.delay); err != nil {
		return Result{}, err
	}
	return Compute(domain.ParsePropertyForm(form)), nil
}

// Compute runs the runoff model with no delay.
func Compute(in domain.PropertyInput) Result {
	est := domain.Calculate(in)
	return Result{
		Input:       in,
		Estimate:    est,
		CostBenefit: domain.CostBenefit(est),
	}
}
