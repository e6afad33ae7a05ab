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

	exhibitionserrors "galleria/internal/exhibitions/errors"
	"galleria/pkg/config"
	"galleria/pkg/dates"
	mongotx "galleria/pkg/db/mongo"
	"galleria/pkg/model"
)

const (
	CollectionName = "Exhibitions"
)

type mongoExhibitionRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type ExhibitionRepository interface {
	Create(ctx context.Context, exhibition *model.Exhibition) error
	FindByID(ctx context.Context, id string) (*model.Exhibition, error)
	FindAll(ctx context.Context, filter model.ExhibitionFilter, limit int, offset int64) ([]*model.Exhibition, error)
	FindCurrent(ctx context.Context, today dates.Date) ([]*model.Exhibition, error)
	FindOverlapping(ctx context.Context, locationID string, start, end dates.Date, excludeID string) ([]*model.Exhibition, error)
	FindByLocationAndRange(ctx context.Context, locationID string, start, end dates.Date) ([]*model.Exhibition, error)
	CountByArtwork(ctx context.Context, artworkID string) (int64, error)
	CountByLocation(ctx context.Context, locationID string) (int64, error)
	Update(ctx context.Context, id string, exhibition *model.Exhibition, expectedUpdatedAt *time.Time) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter model.ExhibitionFilter) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountCurrent(ctx context.Context, today dates.Date) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoExhibitionRepository(client *mongo.Client, cfg *config.Config) ExhibitionRepository {
	db := client.Database(cfg.MongoDatabase)
	return &mongoExhibitionRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(client),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// A SessionContext cannot be wrapped without breaking transaction semantics,
// so it is returned unchanged with a no-op cancel.
func (r *mongoExhibitionRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoExhibitionRepository) Create(ctx context.Context, exhibition *model.Exhibition) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	exhibition.CreatedAt = now
	exhibition.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, exhibition)
	if err != nil {
		return fmt.Errorf("failed to create exhibition: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		exhibition.ID = oid.Hex()
	}
	return nil
}

func (r *mongoExhibitionRepository) FindByID(ctx context.Context, id string) (*model.Exhibition, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", exhibitionserrors.ErrInvalidID, id)
	}

	var exhibition model.Exhibition
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&exhibition)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, exhibitionserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find exhibition: %w", err)
	}

	return &exhibition, nil
}

func (r *mongoExhibitionRepository) FindAll(ctx context.Context, filter model.ExhibitionFilter, limit int, offset int64) ([]*model.Exhibition, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_date", Value: -1}, {Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildListFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find exhibitions: %w", err)
	}
	defer cursor.Close(ctx)

	var exhibitions []*model.Exhibition
	if err = cursor.All(ctx, &exhibitions); err != nil {
		return nil, fmt.Errorf("failed to decode exhibitions: %w", err)
	}

	return exhibitions, nil
}

// FindCurrent returns exhibitions whose date range covers today, ordered by
// location. Stored status does not factor in: currentness is a date
// comparison, not a status.
func (r *mongoExhibitionRepository) FindCurrent(ctx context.Context, today dates.Date) ([]*model.Exhibition, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	filter := bson.M{
		"start_date": bson.M{"$lte": string(today)},
		"end_date":   bson.M{"$gte": string(today)},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "location_id", Value: 1}, {Key: "start_date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find current exhibitions: %w", err)
	}
	defer cursor.Close(ctx)

	var exhibitions []*model.Exhibition
	if err = cursor.All(ctx, &exhibitions); err != nil {
		return nil, fmt.Errorf("failed to decode current exhibitions: %w", err)
	}

	return exhibitions, nil
}

// FindOverlapping returns scheduled or active exhibitions at the location
// whose closed date range touches [start, end]. Completed exhibitions never
// block. excludeID, when non-empty, skips the exhibition being updated.
func (r *mongoExhibitionRepository) FindOverlapping(ctx context.Context, locationID string, start, end dates.Date, excludeID string) ([]*model.Exhibition, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	filter := bson.M{
		"location_id": locationID,
		"status":      bson.M{"$in": bson.A{model.StatusScheduled, model.StatusActive}},
		"start_date":  bson.M{"$lte": string(end)},
		"end_date":    bson.M{"$gte": string(start)},
	}

	if excludeID != "" {
		objectID, err := primitive.ObjectIDFromHex(excludeID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", exhibitionserrors.ErrInvalidID, excludeID)
		}
		filter["_id"] = bson.M{"$ne": objectID}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "start_date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping exhibitions: %w", err)
	}
	defer cursor.Close(ctx)

	var exhibitions []*model.Exhibition
	if err = cursor.All(ctx, &exhibitions); err != nil {
		return nil, fmt.Errorf("failed to decode overlapping exhibitions: %w", err)
	}

	return exhibitions, nil
}

// FindByLocationAndRange returns every exhibition at the location touching
// [start, end], regardless of status. Used for the location schedule view.
func (r *mongoExhibitionRepository) FindByLocationAndRange(ctx context.Context, locationID string, start, end dates.Date) ([]*model.Exhibition, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	filter := bson.M{
		"location_id": locationID,
		"start_date":  bson.M{"$lte": string(end)},
		"end_date":    bson.M{"$gte": string(start)},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "start_date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find exhibitions by location: %w", err)
	}
	defer cursor.Close(ctx)

	var exhibitions []*model.Exhibition
	if err = cursor.All(ctx, &exhibitions); err != nil {
		return nil, fmt.Errorf("failed to decode exhibitions by location: %w", err)
	}

	return exhibitions, nil
}

func (r *mongoExhibitionRepository) CountByArtwork(ctx context.Context, artworkID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	filter := bson.M{
		"artwork_id": artworkID,
		"status":     bson.M{"$in": bson.A{model.StatusScheduled, model.StatusActive}},
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count exhibitions by artwork: %w", err)
	}
	return count, nil
}

func (r *mongoExhibitionRepository) CountByLocation(ctx context.Context, locationID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	filter := bson.M{
		"location_id": locationID,
		"status":      bson.M{"$in": bson.A{model.StatusScheduled, model.StatusActive}},
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count exhibitions by location: %w", err)
	}
	return count, nil
}

// Update replaces the mutable fields of an exhibition. When expectedUpdatedAt
// is non-nil the match filter includes it, so a concurrent mutation since the
// caller's read makes the update match nothing; ErrStale is returned after
// confirming the document still exists.
func (r *mongoExhibitionRepository) Update(ctx context.Context, id string, exhibition *model.Exhibition, expectedUpdatedAt *time.Time) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", exhibitionserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	if expectedUpdatedAt != nil {
		filter["updated_at"] = expectedUpdatedAt.UTC().Truncate(time.Millisecond)
	}

	// exhibition carries the stored UpdatedAt from the caller's read; the
	// new token must land strictly after it.
	exhibition.UpdatedAt = model.NextUpdatedAt(exhibition.UpdatedAt)
	update := bson.M{
		"$set": bson.M{
			"artwork_id":  exhibition.ArtworkID,
			"location_id": exhibition.LocationID,
			"start_date":  exhibition.StartDate,
			"end_date":    exhibition.EndDate,
			"status":      exhibition.Status,
			"notes":       exhibition.Notes,
			"updated_at":  exhibition.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update exhibition: %w", err)
	}

	if result.MatchedCount == 0 {
		if expectedUpdatedAt == nil {
			return exhibitionserrors.ErrNotFound
		}
		// Distinguish a missing document from a stale token.
		exists, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
		if err != nil {
			return fmt.Errorf("failed to check exhibition existence: %w", err)
		}
		if exists == 0 {
			return exhibitionserrors.ErrNotFound
		}
		return exhibitionserrors.ErrStale
	}

	return nil
}

func (r *mongoExhibitionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", exhibitionserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete exhibition: %w", err)
	}

	if result.DeletedCount == 0 {
		return exhibitionserrors.ErrNotFound
	}

	return nil
}

func (r *mongoExhibitionRepository) Count(ctx context.Context, filter model.ExhibitionFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildListFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count exhibitions: %w", err)
	}

	return count, nil
}

func (r *mongoExhibitionRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		return 0, fmt.Errorf("failed to count exhibitions by status: %w", err)
	}

	return count, nil
}

func (r *mongoExhibitionRepository) CountCurrent(ctx context.Context, today dates.Date) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.MongoQueryTimeout)
	defer cancel()

	filter := bson.M{
		"start_date": bson.M{"$lte": string(today)},
		"end_date":   bson.M{"$gte": string(today)},
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count current exhibitions: %w", err)
	}

	return count, nil
}

func (r *mongoExhibitionRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func buildListFilter(filter model.ExhibitionFilter) bson.M {
	query := bson.M{}

	if filter.Status != "" {
		query["status"] = filter.Status
	}

	if filter.CurrentOnly {
		today := string(dates.Today())
		query["start_date"] = bson.M{"$lte": today}
		query["end_date"] = bson.M{"$gte": today}
	}

	return query
}
