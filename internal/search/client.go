package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const EngineName = "meilisearch"

var errEngineUnhealthy = errors.New("search engine health probe failed")

type BreakerConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  1,
		Interval:     30 * time.Second,
		Timeout:      15 * time.Second,
		MinRequests:  3,
		FailureRatio: 0.6,
	}
}

// IndexClient owns the connection to the search engine for one index.
// Every engine call goes through a circuit breaker; an open breaker makes
// the index report unhealthy without touching the network.
type IndexClient struct {
	engine  Engine
	index   string
	breaker *gobreaker.CircuitBreaker
	logger  *logger.Logger
}

func NewIndexClient(engine Engine, index string, bc BreakerConfig, log *logger.Logger) *IndexClient {
	if index == "" {
		index = DefaultIndexUID
	}
	log = log.Named("search.index").With(zap.String("index", index))
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "search-engine:" + index,
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < bc.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= bc.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Search engine circuit breaker changed state",
				zap.String("breaker", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
	return &IndexClient{engine: engine, index: index, breaker: breaker, logger: log}
}

func (c *IndexClient) Name() string { return EngineName }

func (c *IndexClient) Index() string { return c.index }

func (c *IndexClient) do(fn func() error) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}
	return err
}

// Health never errors: any connectivity problem is reported as false.
func (c *IndexClient) Health(ctx context.Context) bool {
	if c.breaker.State() == gobreaker.StateOpen {
		return false
	}
	err := c.do(func() error {
		if !c.engine.Healthy(ctx) {
			return errEngineUnhealthy
		}
		return nil
	})
	if err != nil {
		c.logger.Debug("Search engine unhealthy", zap.Error(err))
		return false
	}
	return true
}

// ProvisionIndex drops the index, recreates it with the "id" primary key and
// applies IndexSettings in one settings update.
func (c *IndexClient) ProvisionIndex(ctx context.Context) error {
	if !c.Health(ctx) {
		c.logger.Warn("Search engine not available, skipping index provisioning")
		return ErrIndexUnavailable
	}

	err := c.do(func() error { return c.engine.DeleteIndex(ctx, c.index) })
	switch {
	case err == nil:
		c.logger.Info("Dropped existing search index")
	case errors.Is(err, ErrIndexNotFound):
		c.logger.Info("No existing search index to drop")
	default:
		c.logger.Error("Failed to drop search index", zap.Error(err))
		return fmt.Errorf("%w: drop index: %v", ErrIndexUnavailable, err)
	}

	if err := c.do(func() error { return c.engine.CreateIndex(ctx, c.index, PrimaryKey) }); err != nil {
		c.logger.Error("Failed to create search index", zap.Error(err))
		return fmt.Errorf("%w: create index: %v", ErrIndexUnavailable, err)
	}
	if err := c.do(func() error { return c.engine.UpdateSettings(ctx, c.index, IndexSettings()) }); err != nil {
		c.logger.Error("Failed to apply search index settings", zap.Error(err))
		return fmt.Errorf("%w: apply settings: %v", ErrIndexUnavailable, err)
	}
	c.logger.Info("Search index provisioned")
	return nil
}

// Upsert writes the projection of one listing; writing the same listing
// twice leaves the index unchanged.
func (c *IndexClient) Upsert(ctx context.Context, listing *domain.Listing) error {
	_, err := c.AddDocuments(ctx, []Document{NewDocument(listing)})
	return err
}

// AddDocuments writes a batch and returns the engine task id.
func (c *IndexClient) AddDocuments(ctx context.Context, docs []Document) (int64, error) {
	if !c.Health(ctx) {
		return 0, ErrIndexUnavailable
	}
	var taskUID int64
	err := c.do(func() error {
		var err error
		taskUID, err = c.engine.AddDocuments(ctx, c.index, docs)
		return err
	})
	if err != nil {
		c.logger.Error("Failed to write documents", zap.Int("count", len(docs)), zap.Error(err))
		return 0, fmt.Errorf("add documents: %w", err)
	}
	return taskUID, nil
}

// Remove deletes one document; a missing document is not an error.
func (c *IndexClient) Remove(ctx context.Context, id string) error {
	if !c.Health(ctx) {
		return ErrIndexUnavailable
	}
	if err := c.do(func() error { return c.engine.DeleteDocument(ctx, c.index, id) }); err != nil {
		c.logger.Error("Failed to delete document", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

// Search runs a normalized query against the engine.
func (c *IndexClient) Search(ctx context.Context, q Query) (*Page, error) {
	q = q.Normalize()
	req := EngineRequest{
		Query:                 q.Text,
		Filter:                q.EngineFilter(),
		Offset:                q.Offset(),
		Limit:                 int64(q.PageSize),
		AttributesToHighlight: highlightAttributes,
		HighlightPreTag:       HighlightPreTag,
		HighlightPostTag:      HighlightPostTag,
	}
	if q.Sort != "" {
		req.Sort = []string{q.Sort}
	}

	var res *EngineResult
	err := c.do(func() error {
		var err error
		res, err = c.engine.Search(ctx, c.index, req)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("engine search: %w", err)
	}

	total := res.EstimatedTotalHits
	if total == 0 {
		total = int64(len(res.Hits))
	}
	page := NewPage(q, res.Hits, total)
	page.ProcessingTimeMs = res.ProcessingTimeMs
	return page, nil
}

func (c *IndexClient) Stats(ctx context.Context) (*IndexStats, error) {
	if !c.Health(ctx) {
		return nil, ErrIndexUnavailable
	}
	var stats *IndexStats
	err := c.do(func() error {
		var err error
		stats, err = c.engine.Stats(ctx, c.index)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("index stats: %w", err)
	}
	return stats, nil
}
