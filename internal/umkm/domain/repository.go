package domain

import "context"

// Filter narrows listing queries. Zero values mean "no constraint".
type Filter struct {
	NameContains string
	Category     string
	Status       ListingStatus
	District     string
	OwnerID      string
}

type SortField struct {
	Field      string
	Descending bool
}

type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	FindApproved(ctx context.Context) ([]*Listing, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	Find(ctx context.Context, filter Filter, sort SortField, skip, limit int64) ([]*Listing, error)
	IncrementViews(ctx context.Context, id string) (int64, error)
	Top(ctx context.Context, limit int64) ([]*Listing, error)
	CountByCategory(ctx context.Context, status ListingStatus) (map[string]int64, error)
	FindMissingLocation(ctx context.Context) ([]*Listing, error)
}

type FavoriteRepository interface {
	Add(ctx context.Context, favorite *Favorite) error
	Remove(ctx context.Context, userID, listingID string) error
	FindByUserID(ctx context.Context, userID string) ([]*Favorite, error)
	Exists(ctx context.Context, userID, listingID string) (bool, error)
	RemoveByListingID(ctx context.Context, listingID string) error
}

type ActivityLogRepository interface {
	Create(ctx context.Context, entry *ActivityLog) error
	List(ctx context.Context, skip, limit int64) ([]*ActivityLog, int64, error)
}

type UserRepository interface {
	GetEmailByID(ctx context.Context, userID string) (string, error)
	GetNameByID(ctx context.Context, userID string) (string, error)
}
