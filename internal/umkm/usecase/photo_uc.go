package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"go.uber.org/zap"
)

const (
	MaxPhotoBytes     = 5 << 20
	MaxPhotosPerEntry = 5
)

type PhotoUsecase struct {
	storage  Storage
	listings domain.ListingRepository
	index    IndexSync
	logger   *logger.Logger
}

func NewPhotoUsecase(storage Storage, listings domain.ListingRepository, index IndexSync, log *logger.Logger) *PhotoUsecase {
	return &PhotoUsecase{storage: storage, listings: listings, index: index, logger: log.Named("photo_usecase")}
}

// Upload stores an image and appends its URL to the listing's photos.
func (uc *PhotoUsecase) Upload(ctx context.Context, actor domain.Actor, listingID, fileName, contentType string, data []byte) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: %q is not an image", domain.ErrInvalidListingData, contentType)
	}
	if len(data) == 0 || len(data) > MaxPhotoBytes {
		return "", fmt.Errorf("%w: photo must be between 1 byte and %d bytes", domain.ErrInvalidListingData, MaxPhotoBytes)
	}

	listing, err := uc.listings.FindByID(ctx, listingID)
	if err != nil {
		return "", err
	}
	if !canModify(actor, listing) {
		return "", domain.ErrForbidden
	}
	if len(listing.Photos) >= MaxPhotosPerEntry {
		return "", fmt.Errorf("%w: at most %d photos per listing", domain.ErrInvalidListingData, MaxPhotosPerEntry)
	}

	url, err := uc.storage.Upload(ctx, listingID, fileName, contentType, data)
	if err != nil {
		uc.logger.Error("Photo upload failed", zap.String("listing_id", listingID), zap.Error(err))
		return "", err
	}

	listing.Photos = append(listing.Photos, url)
	if err := uc.listings.Update(ctx, listing); err != nil {
		if delErr := uc.storage.Delete(ctx, url); delErr != nil {
			uc.logger.Warn("Orphaned photo left in storage", zap.String("url", url), zap.Error(delErr))
		}
		return "", fmt.Errorf("attach photo: %w", err)
	}
	if err := uc.index.Apply(ctx, listing); err != nil {
		uc.logger.Warn("Search index not updated after photo upload", zap.String("listing_id", listingID), zap.Error(err))
	}
	return url, nil
}
