package httpapi

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/maplink"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/search"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/usecase"
	"github.com/stretchr/testify/mock"
)

type MockSearchService struct{ mock.Mock }

func (m *MockSearchService) Search(ctx context.Context, q search.Query) (*search.Page, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*search.Page), args.Error(1)
}
func (m *MockSearchService) Stats(ctx context.Context) (*search.IndexStats, string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*search.IndexStats), args.String(1), args.Error(2)
}

type MockReindexer struct{ mock.Mock }

func (m *MockReindexer) ReindexAll(ctx context.Context) search.ReindexResult {
	args := m.Called(ctx)
	return args.Get(0).(search.ReindexResult)
}

type MockMapInspector struct{ mock.Mock }

func (m *MockMapInspector) Inspect(ctx context.Context, raw string) maplink.Inspection {
	args := m.Called(ctx, raw)
	return args.Get(0).(maplink.Inspection)
}

type MockListingService struct{ mock.Mock }

func (m *MockListingService) Create(ctx context.Context, actor domain.Actor, in usecase.ListingInput) (*domain.Listing, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingService) Update(ctx context.Context, actor domain.Actor, id string, in usecase.ListingInput) (*domain.Listing, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}
func (m *MockListingService) Verify(ctx context.Context, admin domain.Actor, id string, action domain.ModerationAction, reason string) (*domain.Listing, error) {
	args := m.Called(ctx, admin, id, action, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingService) List(ctx context.Context, q search.Query) (*search.Page, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*search.Page), args.Error(1)
}
func (m *MockListingService) IncrementView(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockListingService) Top(ctx context.Context, limit int64) ([]*domain.Listing, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Listing), args.Error(1)
}
func (m *MockListingService) Statistics(ctx context.Context) (*domain.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statistics), args.Error(1)
}
func (m *MockListingService) ListActivityLogs(ctx context.Context, page, pageSize int) ([]*domain.ActivityLog, int64, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.ActivityLog), args.Get(1).(int64), args.Error(2)
}

type MockPhotoService struct{ mock.Mock }

func (m *MockPhotoService) Upload(ctx context.Context, actor domain.Actor, listingID, fileName, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, actor, listingID, fileName, contentType, data)
	return args.String(0), args.Error(1)
}

type MockFavoriteService struct{ mock.Mock }

func (m *MockFavoriteService) Add(ctx context.Context, userID, listingID string) (*domain.Favorite, error) {
	args := m.Called(ctx, userID, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Favorite), args.Error(1)
}
func (m *MockFavoriteService) Remove(ctx context.Context, userID, listingID string) error {
	args := m.Called(ctx, userID, listingID)
	return args.Error(0)
}
func (m *MockFavoriteService) List(ctx context.Context, userID string) ([]usecase.FavoriteView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]usecase.FavoriteView), args.Error(1)
}
func (m *MockFavoriteService) Check(ctx context.Context, userID, listingID string) (bool, error) {
	args := m.Called(ctx, userID, listingID)
	return args.Bool(0), args.Error(1)
}

type stubHealth bool

func (s stubHealth) Health(context.Context) bool { return bool(s) }
