package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/sedbuilder/internal/domain"
	"github.com/couchcryptid/sedbuilder/internal/observability"
)

// Fetcher returns a validated SED response for a sky position.
type Fetcher interface {
	GetData(ctx context.Context, ra, dec float64) (*domain.Response, error)
}

// Transformer renders a response into an export event.
type Transformer interface {
	Transform(ctx context.Context, key string, resp *domain.Response) (domain.ExportEvent, error)
}

// BatchLoader writes multiple export events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.ExportEvent) error
}

// Pipeline runs fetch, render and load for a list of positions, one at a
// time. The first failure stops the run and nothing is loaded.
type Pipeline struct {
	fetcher     Fetcher
	transformer Transformer
	loader      BatchLoader
	clock       clockwork.Clock
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(f Fetcher, t Transformer, l BatchLoader, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher:     f,
		transformer: t,
		loader:      l,
		clock:       clock,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once the pipeline has loaded at least one batch.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not exported any documents yet")
	}
	return nil
}

// Run fetches and renders every position in order, then loads all documents
// as one batch. It returns the number of documents loaded.
func (p *Pipeline) Run(ctx context.Context, positions []domain.Coordinates) (int, error) {
	start := p.clock.Now()
	p.logger.Info("export started", "positions", len(positions))

	events := make([]domain.ExportEvent, 0, len(positions))
	for _, pos := range positions {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		key := pos.Key()
		resp, err := p.fetcher.GetData(ctx, pos.RA, pos.Dec)
		if err != nil {
			p.metrics.ExportErrors.WithLabelValues("fetch").Inc()
			return 0, fmt.Errorf("fetch %s: %w", key, err)
		}

		event, err := p.transform(ctx, key, resp)
		if err != nil {
			return 0, err
		}
		events = append(events, event)
	}

	if err := p.load(ctx, events); err != nil {
		return 0, err
	}

	p.metrics.ExportDuration.Observe(p.clock.Since(start).Seconds())
	p.logger.Info("export finished", "documents", len(events))
	return len(events), nil
}

// Export renders and loads a response obtained elsewhere, e.g. from a file.
func (p *Pipeline) Export(ctx context.Context, key string, resp *domain.Response) (domain.ExportEvent, error) {
	event, err := p.transform(ctx, key, resp)
	if err != nil {
		return domain.ExportEvent{}, err
	}
	if err := p.load(ctx, []domain.ExportEvent{event}); err != nil {
		return domain.ExportEvent{}, err
	}
	return event, nil
}

func (p *Pipeline) transform(ctx context.Context, key string, resp *domain.Response) (domain.ExportEvent, error) {
	if !resp.IsSuccessful() {
		p.logger.Warn("exporting non-OK response",
			"key", key,
			"status_code", resp.ResponseInfo.StatusCode,
		)
	}
	event, err := p.transformer.Transform(ctx, key, resp)
	if err != nil {
		p.metrics.ExportErrors.WithLabelValues("render").Inc()
		return domain.ExportEvent{}, fmt.Errorf("render %s: %w", key, err)
	}
	return event, nil
}

func (p *Pipeline) load(ctx context.Context, events []domain.ExportEvent) error {
	if len(events) == 0 {
		return nil
	}
	if err := p.loader.LoadBatch(ctx, events); err != nil {
		p.metrics.ExportErrors.WithLabelValues("load").Inc()
		p.logger.Error("load batch failed", "error", err, "batch_size", len(events))
		return fmt.Errorf("load: %w", err)
	}
	for _, e := range events {
		p.metrics.DocumentsExported.WithLabelValues(e.Format).Inc()
	}
	p.ready.Store(true)
	return nil
}
