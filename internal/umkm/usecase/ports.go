package usecase

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/maplink"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/search"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
)

// IndexSync keeps the search index in step with persisted listings.
type IndexSync interface {
	Apply(ctx context.Context, listing *domain.Listing) error
	Remove(ctx context.Context, id string) error
}

type Searcher interface {
	Search(ctx context.Context, q search.Query) (*search.Page, error)
}

type CoordinateResolver interface {
	Resolve(ctx context.Context, raw string) (maplink.Coordinates, bool)
}

// StatsCache returns (nil, nil) on a miss.
type StatsCache interface {
	GetStatistics(ctx context.Context) (*domain.Statistics, error)
	SetStatistics(ctx context.Context, st *domain.Statistics) error
	GetTop(ctx context.Context, limit int64) ([]*domain.Listing, error)
	SetTop(ctx context.Context, limit int64, listings []*domain.Listing) error
	Invalidate(ctx context.Context) error
}

type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

type Mailer interface {
	SendModerationResult(ctx context.Context, to string, listing *domain.Listing, action domain.ModerationAction, reason string) error
}

type Storage interface {
	Upload(ctx context.Context, listingID, fileName, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

type MutationRecorder interface {
	IncListingMutation(kind string)
}

type nopRecorder struct{}

func (nopRecorder) IncListingMutation(string) {}
