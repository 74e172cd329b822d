package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/rainwater-harvest-service/internal/domain"
	"github.com/couchcryptid/rainwater-harvest-service/internal/observability"
	"github.com/couchcryptid/rainwater-harvest-service/internal/roundtrip"
	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/jonboulle/clockwork"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// BatchExtractor reads up to batchSize raw events from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer converts a raw submission into a serialized estimate.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error)
}

// BatchLoader writes multiple output events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.OutputEvent) error
}

// Pipeline consumes submissions, estimates them, and publishes the results.
// Offsets are committed only after the estimates they produced are published;
// submissions that cannot be estimated are committed straight away.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	clock       clockwork.Clock
	batchSize   int
	ready       atomic.Bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock sets the clock used for backoff waits and batch timing.
func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		clock:       clockwork.NewRealClock(),
		batchSize:   batchSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness reports ready once a batch of estimates has been published.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not loaded any estimates yet")
	}
	return nil
}

// Run consumes until ctx is cancelled. Source and sink failures are retried
// with exponential backoff and never end the loop, so Run returns nil.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	b := backoff{clock: p.clock}
	for ctx.Err() == nil {
		if err := p.cycle(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			p.logger.Error("batch failed", "error", err, "retry_in", b.delay())
			if !b.wait(ctx) {
				break
			}
			continue
		}
		b.reset()
	}

	p.logger.Info("pipeline stopping", "reason", ctx.Err())
	return nil
}

var (
	errExtract = errors.New("extract batch")
	errLoad    = errors.New("load batch")
)

// cycle runs one extract, estimate, and publish round.
func (p *Pipeline) cycle(ctx context.Context) error {
	start := p.clock.Now()

	raws, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		return errors.Join(errExtract, err)
	}
	if len(raws) == 0 {
		return nil
	}
	p.metrics.SubmissionsConsumed.Add(float64(len(raws)))
	p.metrics.BatchSize.Observe(float64(len(raws)))

	outs, pending := p.estimate(ctx, raws)
	if len(outs) == 0 {
		return nil
	}

	if err := p.loader.LoadBatch(ctx, outs); err != nil {
		p.logger.Warn("estimates not published, offsets left uncommitted", "count", len(outs))
		return errors.Join(errLoad, err)
	}
	p.metrics.EstimatesProduced.Add(float64(len(outs)))
	for _, raw := range pending {
		p.commit(ctx, raw)
	}

	p.metrics.BatchProcessingDuration.Observe(p.clock.Since(start).Seconds())
	p.ready.Store(true)
	return nil
}

// estimate transforms each raw submission. It returns the estimates and the
// raws they came from; failed raws are committed and dropped.
func (p *Pipeline) estimate(ctx context.Context, raws []domain.RawEvent) ([]domain.OutputEvent, []domain.RawEvent) {
	outs := make([]domain.OutputEvent, 0, len(raws))
	pending := make([]domain.RawEvent, 0, len(raws))

	for _, raw := range raws {
		out, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("estimate failed, skipping submission",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.Inc()
			p.commit(ctx, raw)
			continue
		}
		outs = append(outs, out)
		pending = append(pending, raw)
	}
	return outs, pending
}

func (p *Pipeline) commit(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

// backoff doubles from initialBackoff up to maxBackoff across consecutive
// failures.
type backoff struct {
	clock clockwork.Clock
	next  time.Duration
}

func (b *backoff) delay() time.Duration {
	if b.next == 0 {
		return initialBackoff
	}
	return b.next
}

// wait sleeps for the current delay and doubles it. It reports false when
// ctx ended first.
func (b *backoff) wait(ctx context.Context) bool {
	d := b.delay()
	if err := roundtrip.Wait(ctx, b.clock, d); err != nil {
		return false
	}
	b.next = retry.NextBackoff(d, maxBackoff)
	return true
}

func (b *backoff) reset() { b.next = 0 }
