package search

import (
	"context"
	"errors"
)

var (
	// ErrIndexUnavailable means the search engine cannot be used right now.
	// Callers treat it as a degraded mode, not a failure of the primary write.
	ErrIndexUnavailable = errors.New("search index unavailable")
	// ErrIndexNotFound is returned by Engine.DeleteIndex for a missing index.
	ErrIndexNotFound = errors.New("search index not found")
)

// Engine is the port to the external full-text engine. Index lifecycle
// calls return once the engine has applied them; AddDocuments only enqueues
// and returns the engine task id.
type Engine interface {
	Healthy(ctx context.Context) bool
	DeleteIndex(ctx context.Context, uid string) error
	CreateIndex(ctx context.Context, uid, primaryKey string) error
	UpdateSettings(ctx context.Context, uid string, settings Settings) error
	AddDocuments(ctx context.Context, uid string, docs []Document) (int64, error)
	DeleteDocument(ctx context.Context, uid, id string) error
	Search(ctx context.Context, uid string, req EngineRequest) (*EngineResult, error)
	Stats(ctx context.Context, uid string) (*IndexStats, error)
}

type EngineRequest struct {
	Query                 string
	Filter                string
	Offset                int64
	Limit                 int64
	Sort                  []string
	AttributesToHighlight []string
	HighlightPreTag       string
	HighlightPostTag      string
}

type EngineResult struct {
	Hits               []Hit
	EstimatedTotalHits int64
	ProcessingTimeMs   int64
	Query              string
}

type IndexStats struct {
	NumberOfDocuments int64            `json:"numberOfDocuments"`
	IsIndexing        bool             `json:"isIndexing"`
	FieldDistribution map[string]int64 `json:"fieldDistribution,omitempty"`
}
