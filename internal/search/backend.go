package search

import (
	"context"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
)

// Backend is one way of answering searches and keeping results current.
// IndexClient is the engine-backed implementation and StoreBackend the
// degraded one that reads the primary store.
type Backend interface {
	Name() string
	Health(ctx context.Context) bool
	Upsert(ctx context.Context, listing *domain.Listing) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q Query) (*Page, error)
	Stats(ctx context.Context) (*IndexStats, error)
}

const StoreName = "mongodb"

var (
	_ Backend = (*IndexClient)(nil)
	_ Backend = (*StoreBackend)(nil)
)

// StoreBackend answers searches from the primary store: case-insensitive
// substring match on the name, same filters, most viewed first.
type StoreBackend struct {
	repo domain.ListingRepository
}

func NewStoreBackend(repo domain.ListingRepository) *StoreBackend {
	return &StoreBackend{repo: repo}
}

func (b *StoreBackend) Name() string { return StoreName }

func (b *StoreBackend) Health(context.Context) bool { return true }

// Upsert is not supported: the primary store already holds the listing.
func (b *StoreBackend) Upsert(context.Context, *domain.Listing) error {
	return ErrIndexUnavailable
}

func (b *StoreBackend) Remove(context.Context, string) error {
	return ErrIndexUnavailable
}

func (b *StoreBackend) Search(ctx context.Context, q Query) (*Page, error) {
	start := time.Now()
	q = q.Normalize()
	filter := q.StoreFilter()

	total, err := b.repo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("store count: %w", err)
	}
	listings, err := b.repo.Find(ctx, filter, domain.SortField{Field: FieldViews, Descending: true}, q.Offset(), int64(q.PageSize))
	if err != nil {
		return nil, fmt.Errorf("store find: %w", err)
	}

	hits := make([]Hit, 0, len(listings))
	for _, l := range listings {
		hits = append(hits, Hit{Document: NewDocument(l)})
	}
	page := NewPage(q, hits, total)
	page.ProcessingTimeMs = time.Since(start).Milliseconds()
	return page, nil
}

func (b *StoreBackend) Stats(ctx context.Context) (*IndexStats, error) {
	n, err := b.repo.Count(ctx, domain.Filter{Status: domain.StatusApproved})
	if err != nil {
		return nil, fmt.Errorf("store count: %w", err)
	}
	return &IndexStats{NumberOfDocuments: n}, nil
}
