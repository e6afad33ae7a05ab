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

	artworkserrors "galleria/internal/artworks/errors"
	"galleria/pkg/config"
	"galleria/pkg/model"
)

const CollectionName = "Artworks"

type mongoArtworkRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type ArtworkRepository interface {
	Create(ctx context.Context, artwork *model.Artwork) error
	FindByID(ctx context.Context, id string) (*model.Artwork, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Artwork, error)
	Update(ctx context.Context, id string, artwork *model.Artwork, expectedUpdatedAt *time.Time) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

func NewMongoArtworkRepository(client *mongo.Client, cfg *config.Config) ArtworkRepository {
	return &mongoArtworkRepository{
		cfg:        cfg,
		collection: client.Database(cfg.MongoDatabase).Collection(CollectionName),
	}
}

func (r *mongoArtworkRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.cfg.MongoQueryTimeout)
}

func (r *mongoArtworkRepository) Create(ctx context.Context, artwork *model.Artwork) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	artwork.CreatedAt = now
	artwork.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, artwork)
	if err != nil {
		return fmt.Errorf("failed to create artwork: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		artwork.ID = oid.Hex()
	}
	return nil
}

func (r *mongoArtworkRepository) FindByID(ctx context.Context, id string) (*model.Artwork, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", artworkserrors.ErrInvalidID, id)
	}

	var artwork model.Artwork
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&artwork)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, artworkserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find artwork: %w", err)
	}

	return &artwork, nil
}

func (r *mongoArtworkRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Artwork, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find artworks: %w", err)
	}
	defer cursor.Close(ctx)

	var artworks []*model.Artwork
	if err = cursor.All(ctx, &artworks); err != nil {
		return nil, fmt.Errorf("failed to decode artworks: %w", err)
	}

	return artworks, nil
}

// Update applies the new field values. When expectedUpdatedAt is non-nil it
// is folded into the match filter; a non-match on an existing document is a
// stale token.
func (r *mongoArtworkRepository) Update(ctx context.Context, id string, artwork *model.Artwork, expectedUpdatedAt *time.Time) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", artworkserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	if expectedUpdatedAt != nil {
		filter["updated_at"] = expectedUpdatedAt.UTC().Truncate(time.Millisecond)
	}

	artwork.UpdatedAt = model.NextUpdatedAt(artwork.UpdatedAt)
	update := bson.M{
		"$set": bson.M{
			"title":      artwork.Title,
			"artist":     artwork.Artist,
			"detail_url": artwork.DetailURL,
			"updated_at": artwork.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update artwork: %w", err)
	}

	if result.MatchedCount == 0 {
		if expectedUpdatedAt == nil {
			return artworkserrors.ErrNotFound
		}
		exists, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
		if err != nil {
			return fmt.Errorf("failed to check artwork existence: %w", err)
		}
		if exists == 0 {
			return artworkserrors.ErrNotFound
		}
		return artworkserrors.ErrStale
	}

	return nil
}

func (r *mongoArtworkRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", artworkserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete artwork: %w", err)
	}

	if result.DeletedCount == 0 {
		return artworkserrors.ErrNotFound
	}

	return nil
}

func (r *mongoArtworkRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count artworks: %w", err)
	}

	return count, nil
}
