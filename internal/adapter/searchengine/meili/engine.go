package meili

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/search"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
)

const indexNotFoundCode = "index_not_found"

// Engine implements search.Engine on top of a Meilisearch server.
type Engine struct {
	client       *meilisearch.Client
	waitInterval time.Duration
	logger       *logger.Logger
}

var _ search.Engine = (*Engine)(nil)

func NewEngine(host, apiKey string, timeout time.Duration, log *logger.Logger) *Engine {
	log.Info("Initializing Meilisearch client", zap.String("host", host), zap.Duration("timeout", timeout))
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:    host,
		APIKey:  apiKey,
		Timeout: timeout,
	})
	return &Engine{client: client, waitInterval: 50 * time.Millisecond, logger: log.Named("meilisearch")}
}

func (e *Engine) Healthy(context.Context) bool {
	return e.client.IsHealthy()
}

func (e *Engine) wait(ctx context.Context, info *meilisearch.TaskInfo) error {
	task, err := e.client.WaitForTask(info.TaskUID, meilisearch.WaitParams{Context: ctx, Interval: e.waitInterval})
	if err != nil {
		return fmt.Errorf("wait for task %d: %w", info.TaskUID, err)
	}
	if task.Status == meilisearch.TaskStatusFailed {
		if task.Error.Code == indexNotFoundCode {
			return search.ErrIndexNotFound
		}
		return fmt.Errorf("task %d failed: %s (%s)", info.TaskUID, task.Error.Message, task.Error.Code)
	}
	return nil
}

func (e *Engine) DeleteIndex(ctx context.Context, uid string) error {
	info, err := e.client.DeleteIndex(uid)
	if err != nil {
		if strings.Contains(err.Error(), indexNotFoundCode) {
			return search.ErrIndexNotFound
		}
		return err
	}
	return e.wait(ctx, info)
}

func (e *Engine) CreateIndex(ctx context.Context, uid, primaryKey string) error {
	info, err := e.client.CreateIndex(&meilisearch.IndexConfig{Uid: uid, PrimaryKey: primaryKey})
	if err != nil {
		return err
	}
	return e.wait(ctx, info)
}

func (e *Engine) UpdateSettings(ctx context.Context, uid string, s search.Settings) error {
	info, err := e.client.Index(uid).UpdateSettings(&meilisearch.Settings{
		SearchableAttributes: s.SearchableAttributes,
		FilterableAttributes: s.FilterableAttributes,
		SortableAttributes:   s.SortableAttributes,
		DisplayedAttributes:  s.DisplayedAttributes,
		RankingRules:         s.RankingRules,
		StopWords:            s.StopWords,
		Synonyms:             s.Synonyms,
		TypoTolerance: &meilisearch.TypoTolerance{
			Enabled: s.TypoTolerance.Enabled,
			MinWordSizeForTypos: meilisearch.MinWordSizeForTypos{
				OneTypo:  s.TypoTolerance.OneTypoMinSize,
				TwoTypos: s.TypoTolerance.TwoTyposMinSize,
			},
			DisableOnWords:      []string{},
			DisableOnAttributes: []string{},
		},
		Pagination: &meilisearch.Pagination{MaxTotalHits: s.MaxTotalHits},
	})
	if err != nil {
		return err
	}
	return e.wait(ctx, info)
}

func (e *Engine) AddDocuments(_ context.Context, uid string, docs []search.Document) (int64, error) {
	info, err := e.client.Index(uid).AddDocuments(docs, search.PrimaryKey)
	if err != nil {
		return 0, err
	}
	e.logger.Debug("Documents enqueued", zap.String("index", uid), zap.Int("count", len(docs)), zap.Int64("task_uid", info.TaskUID))
	return info.TaskUID, nil
}

func (e *Engine) DeleteDocument(_ context.Context, uid, id string) error {
	_, err := e.client.Index(uid).DeleteDocument(id)
	return err
}

func (e *Engine) Search(_ context.Context, uid string, req search.EngineRequest) (*search.EngineResult, error) {
	sr := &meilisearch.SearchRequest{
		Offset:                req.Offset,
		Limit:                 req.Limit,
		AttributesToHighlight: req.AttributesToHighlight,
		HighlightPreTag:       req.HighlightPreTag,
		HighlightPostTag:      req.HighlightPostTag,
		Sort:                  req.Sort,
	}
	if req.Filter != "" {
		sr.Filter = req.Filter
	}

	res, err := e.client.Index(uid).Search(req.Query, sr)
	if err != nil {
		return nil, err
	}

	hits, err := decodeHits(res.Hits)
	if err != nil {
		return nil, err
	}
	return &search.EngineResult{
		Hits:               hits,
		EstimatedTotalHits: res.EstimatedTotalHits,
		ProcessingTimeMs:   res.ProcessingTimeMs,
		Query:              res.Query,
	}, nil
}

// decodeHits converts the engine's generic hit maps into typed hits.
func decodeHits(raw []interface{}) ([]search.Hit, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode hits: %w", err)
	}
	hits := make([]search.Hit, 0, len(raw))
	if err := json.Unmarshal(data, &hits); err != nil {
		return nil, fmt.Errorf("decode hits: %w", err)
	}
	return hits, nil
}

func (e *Engine) Stats(_ context.Context, uid string) (*search.IndexStats, error) {
	st, err := e.client.Index(uid).GetStats()
	if err != nil {
		return nil, err
	}
	return &search.IndexStats{
		NumberOfDocuments: st.NumberOfDocuments,
		IsIndexing:        st.IsIndexing,
		FieldDistribution: st.FieldDistribution,
	}, nil
}
