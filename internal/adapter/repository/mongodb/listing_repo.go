package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type ListingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

var _ domain.ListingRepository = (*ListingRepository)(nil)

func NewListingRepository(db *mongo.Database, log *logger.Logger) *ListingRepository {
	return &ListingRepository{
		collection: db.Collection(listingsCollection),
		logger:     log.Named("listing_repo"),
	}
}

// EnsureIndexes creates the indexes listing queries rely on.
func (r *ListingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "views", Value: -1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create listing indexes: %w", err)
	}
	return nil
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	now := time.Now().UTC()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	doc, err := toListingDocument(listing)
	if err != nil {
		r.logger.Error("Create: failed to convert listing", zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrInvalidListingData, err)
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		r.logger.Error("Create: InsertOne failed", zap.Error(err), zap.String("name", listing.Name))
		return err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	listing.ID = oid.Hex()
	r.logger.Debug("Listing created", zap.String("listing_id", listing.ID), zap.String("owner_id", listing.OwnerID))
	return nil
}

// Update rewrites every mutable field. Views are owned by IncrementViews
// and left untouched.
func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	oid, err := primitive.ObjectIDFromHex(listing.ID)
	if err != nil {
		return domain.ErrListingNotFound
	}
	listing.UpdatedAt = time.Now().UTC()

	doc, err := toListingDocument(listing)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidListingData, err)
	}

	set := bson.M{
		"name":             doc.Name,
		"description":      doc.Description,
		"category":         doc.Category,
		"address":          doc.Address,
		"district":         doc.District,
		"maps_url":         doc.MapsURL,
		"operating_hours":  doc.OperatingHours,
		"contact":          doc.Contact,
		"photos":           doc.Photos,
		"payments":         doc.Payments,
		"status":           doc.Status,
		"rejection_reason": doc.RejectionReason,
		"owner_name":       doc.OwnerName,
		"updated_at":       doc.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if doc.Location != nil {
		set["location"] = doc.Location
	} else {
		update["$unset"] = bson.M{"location": ""}
	}

	res, err := r.collection.UpdateByID(ctx, oid, update)
	if err != nil {
		r.logger.Error("Update: UpdateByID failed", zap.Error(err), zap.String("listing_id", listing.ID))
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error("Delete: DeleteOne failed", zap.Error(err), zap.String("listing_id", id))
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}
	var doc listingDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		r.logger.Error("FindByID: FindOne failed", zap.Error(err), zap.String("listing_id", id))
		return nil, err
	}
	return toDomainListing(&doc), nil
}

func (r *ListingRepository) FindApproved(ctx context.Context) ([]*domain.Listing, error) {
	return r.find(ctx, bson.M{"status": string(domain.StatusApproved)}, options.Find())
}

func (r *ListingRepository) Count(ctx context.Context, filter domain.Filter) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, listingQuery(filter))
	if err != nil {
		r.logger.Error("Count: CountDocuments failed", zap.Error(err))
		return 0, err
	}
	return n, nil
}

func (r *ListingRepository) Find(ctx context.Context, filter domain.Filter, sort domain.SortField, skip, limit int64) ([]*domain.Listing, error) {
	opts := options.Find().SetSort(listingSort(sort))
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return r.find(ctx, listingQuery(filter), opts)
}

// IncrementViews bumps the view counter and returns the new value.
func (r *ListingRepository) IncrementViews(ctx context.Context, id string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, domain.ErrListingNotFound
	}
	var doc listingDocument
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After).SetProjection(bson.M{"views": 1}),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, domain.ErrListingNotFound
		}
		r.logger.Error("IncrementViews: FindOneAndUpdate failed", zap.Error(err), zap.String("listing_id", id))
		return 0, err
	}
	return doc.Views, nil
}

func (r *ListingRepository) Top(ctx context.Context, limit int64) ([]*domain.Listing, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "views", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(limit)
	return r.find(ctx, bson.M{"status": string(domain.StatusApproved)}, opts)
}

func (r *ListingRepository) CountByCategory(ctx context.Context, status domain.ListingStatus) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": string(status)}}},
		{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("CountByCategory: Aggregate failed", zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Category string `bson:"_id"`
		Count    int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Category] = row.Count
	}
	return out, nil
}

// FindMissingLocation returns listings that have a maps URL but no coordinates.
func (r *ListingRepository) FindMissingLocation(ctx context.Context) ([]*domain.Listing, error) {
	query := bson.M{
		"maps_url": bson.M{"$nin": bson.A{"", nil}},
		"$or": bson.A{
			bson.M{"location": bson.M{"$exists": false}},
			bson.M{"location": nil},
		},
	}
	return r.find(ctx, query, options.Find())
}

func (r *ListingRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*domain.Listing, error) {
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		r.logger.Error("Find failed", zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Cursor All failed", zap.Error(err))
		return nil, err
	}
	return toDomainListings(docs), nil
}

// listingQuery translates a domain filter. NameContains is a literal,
// case-insensitive substring match.
func listingQuery(f domain.Filter) bson.M {
	query := bson.M{}
	if f.NameContains != "" {
		query["name"] = bson.M{"$regex": regexp.QuoteMeta(f.NameContains), "$options": "i"}
	}
	if f.Category != "" && !domain.IsAllCategories(f.Category) {
		query["category"] = f.Category
	}
	if f.Status != "" {
		query["status"] = string(f.Status)
	}
	if f.District != "" {
		query["district"] = f.District
	}
	if f.OwnerID != "" {
		query["owner_id"] = f.OwnerID
	}
	return query
}

func listingSort(s domain.SortField) bson.D {
	if s.Field == "" {
		return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}
	}
	dir := 1
	if s.Descending {
		dir = -1
	}
	return bson.D{{Key: s.Field, Value: dir}, {Key: "_id", Value: 1}}
}
