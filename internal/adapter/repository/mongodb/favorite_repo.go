package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type FavoriteRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

var _ domain.FavoriteRepository = (*FavoriteRepository)(nil)

func NewFavoriteRepository(db *mongo.Database, log *logger.Logger) *FavoriteRepository {
	return &FavoriteRepository{
		collection: db.Collection(favoritesCollection),
		logger:     log.Named("favorite_repo"),
	}
}

// EnsureIndexes makes (user_id, listing_id) unique so Add can detect duplicates.
func (r *FavoriteRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "listing_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create favorite indexes: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) Add(ctx context.Context, favorite *domain.Favorite) error {
	favorite.CreatedAt = time.Now().UTC()

	doc, err := toFavoriteDocument(favorite)
	if err != nil {
		r.logger.Error("Add: failed to convert favorite", zap.Error(err))
		return fmt.Errorf("failed to prepare favorite for database: %w", err)
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Add: favorite already exists",
				zap.String("user_id", favorite.UserID), zap.String("listing_id", favorite.ListingID))
			return domain.ErrDuplicateFavorite
		}
		r.logger.Error("Add: InsertOne failed", zap.Error(err),
			zap.String("user_id", favorite.UserID), zap.String("listing_id", favorite.ListingID))
		return err
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return errors.New("failed to retrieve generated favorite ID")
	}
	favorite.ID = oid.Hex()
	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, listingID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "listing_id": listingID})
	if err != nil {
		r.logger.Error("Remove: DeleteOne failed", zap.Error(err),
			zap.String("user_id", userID), zap.String("listing_id", listingID))
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrFavoriteNotFound
	}
	return nil
}

func (r *FavoriteRepository) FindByUserID(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		r.logger.Error("FindByUserID: Find failed", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*favoriteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return toDomainFavorites(docs), nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, listingID string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx,
		bson.M{"user_id": userID, "listing_id": listingID},
		options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RemoveByListingID drops every favorite pointing at a deleted listing.
func (r *FavoriteRepository) RemoveByListingID(ctx context.Context, listingID string) error {
	res, err := r.collection.DeleteMany(ctx, bson.M{"listing_id": listingID})
	if err != nil {
		r.logger.Error("RemoveByListingID: DeleteMany failed", zap.Error(err), zap.String("listing_id", listingID))
		return err
	}
	r.logger.Debug("Favorites removed for listing", zap.String("listing_id", listingID), zap.Int64("count", res.DeletedCount))
	return nil
}
