package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type ActivityLogRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

var _ domain.ActivityLogRepository = (*ActivityLogRepository)(nil)

func NewActivityLogRepository(db *mongo.Database, log *logger.Logger) *ActivityLogRepository {
	return &ActivityLogRepository{
		collection: db.Collection(activityLogsCollection),
		logger:     log.Named("activity_repo"),
	}
}

func (r *ActivityLogRepository) Create(ctx context.Context, entry *domain.ActivityLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	doc, err := toActivityLogDocument(entry)
	if err != nil {
		return err
	}
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		r.logger.Error("Create: InsertOne failed", zap.Error(err), zap.String("listing_id", entry.ListingID))
		return err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return errors.New("failed to retrieve generated activity log ID")
	}
	entry.ID = oid.Hex()
	return nil
}

// List returns one page of entries, newest first, and the total count.
func (r *ActivityLogRepository) List(ctx context.Context, skip, limit int64) ([]*domain.ActivityLog, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error("List: Find failed", zap.Error(err))
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var docs []*activityLogDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}
	return toDomainActivityLogs(docs), total, nil
}
