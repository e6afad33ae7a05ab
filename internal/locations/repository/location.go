package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	locationserrors "galleria/internal/locations/errors"
	"galleria/pkg/config"
	"galleria/pkg/model"
)

const CollectionName = "Locations"

type mongoLocationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type LocationRepository interface {
	Create(ctx context.Context, location *model.Location) error
	FindByID(ctx context.Context, id string) (*model.Location, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Location, error)
	Update(ctx context.Context, id string, location *model.Location, expectedUpdatedAt *time.Time) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

func NewMongoLocationRepository(client *mongo.Client, cfg *config.Config) LocationRepository {
	return &mongoLocationRepository{
		cfg:        cfg,
		collection: client.Database(cfg.MongoDatabase).Collection(CollectionName),
	}
}

func (r *mongoLocationRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.cfg.MongoQueryTimeout)
}

func (r *mongoLocationRepository) Create(ctx context.Context, location *model.Location) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	location.CreatedAt = now
	location.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		location.ID = oid.Hex()
	}
	return nil
}

func (r *mongoLocationRepository) FindByID(ctx context.Context, id string) (*model.Location, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", locationserrors.ErrInvalidID, id)
	}

	var location model.Location
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&location)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, locationserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find location: %w", err)
	}

	return &location, nil
}

func (r *mongoLocationRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Location, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find locations: %w", err)
	}
	defer cursor.Close(ctx)

	var locations []*model.Location
	if err = cursor.All(ctx, &locations); err != nil {
		return nil, fmt.Errorf("failed to decode locations: %w", err)
	}

	return locations, nil
}

func (r *mongoLocationRepository) Update(ctx context.Context, id string, location *model.Location, expectedUpdatedAt *time.Time) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", locationserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	if expectedUpdatedAt != nil {
		filter["updated_at"] = expectedUpdatedAt.UTC().Truncate(time.Millisecond)
	}

	location.UpdatedAt = model.NextUpdatedAt(location.UpdatedAt)
	update := bson.M{
		"$set": bson.M{
			"width":       location.Width,
			"height":      location.Height,
			"description": location.Description,
			"updated_at":  location.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}

	if result.MatchedCount == 0 {
		if expectedUpdatedAt == nil {
			return locationserrors.ErrNotFound
		}
		exists, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
		if err != nil {
			return fmt.Errorf("failed to check location existence: %w", err)
		}
		if exists == 0 {
			return locationserrors.ErrNotFound
		}
		return locationserrors.ErrStale
	}

	return nil
}

func (r *mongoLocationRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", locationserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}

	if result.DeletedCount == 0 {
		return locationserrors.ErrNotFound
	}

	return nil
}

func (r *mongoLocationRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count locations: %w", err)
	}

	return count, nil
}
