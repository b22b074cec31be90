package mongodb

import (
	"context"
	"errors"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// UserRepository reads the users collection owned by the auth service.
type UserRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

var _ domain.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *mongo.Database, log *logger.Logger) *UserRepository {
	return &UserRepository{
		collection: db.Collection(usersCollection),
		logger:     log.Named("user_repo"),
	}
}

type userDocument struct {
	Name  string `bson:"name"`
	Email string `bson:"email"`
}

func (r *UserRepository) findUser(ctx context.Context, userID string, field string) (*userDocument, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		r.logger.Warn("invalid user id", zap.String("user_id", userID), zap.Error(err))
		return nil, domain.ErrUserNotFound
	}

	var doc userDocument
	opts := options.FindOne().SetProjection(bson.M{field: 1})
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		r.logger.Error("failed to find user", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return &doc, nil
}

func (r *UserRepository) GetEmailByID(ctx context.Context, userID string) (string, error) {
	doc, err := r.findUser(ctx, userID, "email")
	if err != nil {
		return "", err
	}
	return doc.Email, nil
}

func (r *UserRepository) GetNameByID(ctx context.Context, userID string) (string, error) {
	doc, err := r.findUser(ctx, userID, "name")
	if err != nil {
		return "", err
	}
	return doc.Name, nil
}
