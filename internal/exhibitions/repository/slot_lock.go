package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"galleria/pkg/config"
	"galleria/pkg/model"
)

const LockCollectionName = "Exhibition_locks"

// SlotLockRepository provides operations for per-location advisory locks.
type SlotLockRepository interface {
	Create(ctx context.Context, lock *model.SlotLock) (*model.SlotLock, error)
	Delete(ctx context.Context, lockID, token string) error
}

type mongoSlotLockRepository struct {
	collection *mongo.Collection
}

func NewSlotLockRepository(client *mongo.Client, cfg *config.Config) SlotLockRepository {
	db := client.Database(cfg.MongoDatabase)
	return &mongoSlotLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

// Create inserts the lock document. A duplicate key error means another
// request holds the lock.
func (r *mongoSlotLockRepository) Create(ctx context.Context, lock *model.SlotLock) (*model.SlotLock, error) {
	lock.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		return nil, err
	}

	return lock, nil
}

// Delete releases the lock only when the token still matches the current
// holder. A lock reclaimed by the TTL reaper and re-acquired by another
// writer carries a different token and is left untouched.
func (r *mongoSlotLockRepository) Delete(ctx context.Context, lockID, token string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID, "token": token})
	return err
}
