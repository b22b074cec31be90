package usecase

import (
	"context"
	"errors"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"go.uber.org/zap"
)

// FavoriteView is a favorite with its listing resolved.
type FavoriteView struct {
	*domain.Favorite
	Listing *domain.Listing `json:"umkm"`
}

type FavoriteUsecase struct {
	favorites domain.FavoriteRepository
	listings  domain.ListingRepository
	logger    *logger.Logger
}

func NewFavoriteUsecase(favorites domain.FavoriteRepository, listings domain.ListingRepository, log *logger.Logger) *FavoriteUsecase {
	return &FavoriteUsecase{
		favorites: favorites,
		listings:  listings,
		logger:    log.Named("favorite_usecase"),
	}
}

func (uc *FavoriteUsecase) Add(ctx context.Context, userID, listingID string) (*domain.Favorite, error) {
	if _, err := uc.listings.FindByID(ctx, listingID); err != nil {
		return nil, err
	}

	exists, err := uc.favorites.Exists(ctx, userID, listingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateFavorite
	}

	fav := &domain.Favorite{UserID: userID, ListingID: listingID}
	if err := uc.favorites.Add(ctx, fav); err != nil {
		if !errors.Is(err, domain.ErrDuplicateFavorite) {
			uc.logger.Error("Failed to add favorite", zap.String("user_id", userID), zap.String("listing_id", listingID), zap.Error(err))
		}
		return nil, err
	}
	return fav, nil
}

func (uc *FavoriteUsecase) Remove(ctx context.Context, userID, listingID string) error {
	return uc.favorites.Remove(ctx, userID, listingID)
}

// List returns the user's favorites newest first. Favorites whose listing
// no longer exists are skipped.
func (uc *FavoriteUsecase) List(ctx context.Context, userID string) ([]FavoriteView, error) {
	favs, err := uc.favorites.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]FavoriteView, 0, len(favs))
	for _, f := range favs {
		l, err := uc.listings.FindByID(ctx, f.ListingID)
		if errors.Is(err, domain.ErrListingNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		views = append(views, FavoriteView{Favorite: f, Listing: l})
	}
	return views, nil
}

func (uc *FavoriteUsecase) Check(ctx context.Context, userID, listingID string) (bool, error) {
	return uc.favorites.Exists(ctx, userID, listingID)
}
