package search

import (
	"context"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// QueryRouter answers searches from the engine when it is healthy and from
// the primary store otherwise. Searches for non-approved listings always go
// to the primary store. Both paths return the same Page shape.
type QueryRouter struct {
	primary  Backend
	fallback Backend
	logger   *logger.Logger
	metrics  Recorder
}

func NewQueryRouter(primary, fallback Backend, log *logger.Logger, rec Recorder) *QueryRouter {
	return &QueryRouter{
		primary:  primary,
		fallback: fallback,
		logger:   log.Named("search.router"),
		metrics:  recorderOrNop(rec),
	}
}

// Health probes the engine and records the result.
func (r *QueryRouter) Health(ctx context.Context) bool {
	healthy := r.primary.Health(ctx)
	r.metrics.SetIndexHealthy(healthy)
	return healthy
}

func (r *QueryRouter) Search(ctx context.Context, q Query) (*Page, error) {
	q = q.Normalize()
	ctx, span := tracer.Start(ctx, "QueryRouter.Search")
	defer span.End()
	span.SetAttributes(
		attribute.String("search.query", q.Text),
		attribute.Int("search.page", q.Page),
		attribute.Int("search.page_size", q.PageSize),
	)

	switch {
	case q.Status != domain.StatusApproved:
		// the index holds approved listings only
		r.metrics.IncSearchFallback("status")
	case r.Health(ctx):
		page, err := r.run(ctx, r.primary, q)
		if err == nil {
			span.SetAttributes(attribute.String("search.backend", page.Engine))
			return page, nil
		}
		r.logger.Warn("Search engine query failed, using primary store", zap.String("query", q.Text), zap.Error(err))
		r.metrics.IncSearchFallback("error")
	default:
		r.logger.Warn("Search engine unavailable, using primary store", zap.String("query", q.Text))
		r.metrics.IncSearchFallback("unhealthy")
	}

	page, err := r.run(ctx, r.fallback, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("search.backend", page.Engine))
	return page, nil
}

func (r *QueryRouter) run(ctx context.Context, b Backend, q Query) (*Page, error) {
	start := time.Now()
	page, err := b.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s search: %w", b.Name(), err)
	}
	r.metrics.ObserveSearch(b.Name(), time.Since(start))
	page.Engine = b.Name()
	return page, nil
}

// Stats reports index statistics from the engine, or the approved count of
// the primary store when the engine is down.
func (r *QueryRouter) Stats(ctx context.Context) (*IndexStats, string, error) {
	if r.primary.Health(ctx) {
		if st, err := r.primary.Stats(ctx); err == nil {
			return st, r.primary.Name(), nil
		}
	}
	st, err := r.fallback.Stats(ctx)
	if err != nil {
		return nil, "", err
	}
	return st, r.fallback.Name(), nil
}
