package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("umkm-service/search")

// ApprovedSource lists every approved listing of the primary store.
type ApprovedSource interface {
	FindApproved(ctx context.Context) ([]*domain.Listing, error)
}

// ReindexResult is the outcome of a full rebuild. It is always returned,
// never an error.
type ReindexResult struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	TaskUID int64  `json:"taskUid"`
	Error   string `json:"error,omitempty"`
}

// SyncEngine keeps the index equal to the approved subset of the store.
type SyncEngine struct {
	index   *IndexClient
	source  ApprovedSource
	logger  *logger.Logger
	metrics Recorder
}

func NewSyncEngine(index *IndexClient, source ApprovedSource, log *logger.Logger, rec Recorder) *SyncEngine {
	return &SyncEngine{
		index:   index,
		source:  source,
		logger:  log.Named("search.sync"),
		metrics: recorderOrNop(rec),
	}
}

// Upsert writes one listing. ErrIndexUnavailable means nothing was written.
func (s *SyncEngine) Upsert(ctx context.Context, listing *domain.Listing) error {
	err := s.index.Upsert(ctx, listing)
	s.record("upsert", err)
	if err != nil {
		s.logFailure("upsert", listing.ID, err)
	}
	return err
}

// Remove deletes one listing; removing an absent id succeeds.
func (s *SyncEngine) Remove(ctx context.Context, id string) error {
	err := s.index.Remove(ctx, id)
	s.record("remove", err)
	if err != nil {
		s.logFailure("remove", id, err)
	}
	return err
}

// Apply enforces the status rule for one listing: approved listings are
// written, every other status is removed.
func (s *SyncEngine) Apply(ctx context.Context, listing *domain.Listing) error {
	if listing.IsApproved() {
		return s.Upsert(ctx, listing)
	}
	return s.Remove(ctx, listing.ID)
}

// ReindexAll writes every approved listing in one batch.
func (s *SyncEngine) ReindexAll(ctx context.Context) ReindexResult {
	ctx, span := tracer.Start(ctx, "SyncEngine.ReindexAll")
	defer span.End()

	fail := func(err error) ReindexResult {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.IncSync("reindex", "error")
		s.logger.Error("Reindex failed", zap.Error(err))
		return ReindexResult{Success: false, Error: err.Error()}
	}

	if !s.index.Health(ctx) {
		return fail(ErrIndexUnavailable)
	}

	listings, err := s.source.FindApproved(ctx)
	if err != nil {
		return fail(fmt.Errorf("load approved listings: %w", err))
	}

	docs := NewDocuments(listings)
	taskUID, err := s.index.AddDocuments(ctx, docs)
	if err != nil {
		return fail(err)
	}

	span.SetAttributes(attribute.Int("reindex.count", len(docs)), attribute.Int64("reindex.task_uid", taskUID))
	s.metrics.IncSync("reindex", "ok")
	s.logger.Info("Reindexed approved listings", zap.Int("count", len(docs)), zap.Int64("task_uid", taskUID))
	return ReindexResult{Success: true, Count: len(docs), TaskUID: taskUID}
}

func (s *SyncEngine) record(op string, err error) {
	switch {
	case err == nil:
		s.metrics.IncSync(op, "ok")
	case errors.Is(err, ErrIndexUnavailable):
		s.metrics.IncSync(op, "unavailable")
	default:
		s.metrics.IncSync(op, "error")
	}
}

func (s *SyncEngine) logFailure(op, id string, err error) {
	if errors.Is(err, ErrIndexUnavailable) {
		s.logger.Warn("Search index unavailable, skipped sync", zap.String("op", op), zap.String("listing_id", id))
		return
	}
	s.logger.Error("Search sync failed", zap.String("op", op), zap.String("listing_id", id), zap.Error(err))
}
