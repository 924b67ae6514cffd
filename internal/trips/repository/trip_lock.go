package repository

import (
	"context"
	"time"

	"fleetops/pkg/config"
	"fleetops/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// TripLockRepository provides operations for advisory slot locks
type TripLockRepository interface {
	Create(ctx context.Context, lock *model.TripLock) (*model.TripLock, error)
	Delete(ctx context.Context, lockID string) error
}

type mongoTripLockRepository struct {
	collection *mongo.Collection
}

func NewTripLockRepository(cfg *config.Config) TripLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTripLockRepository{
		collection: db.Collection("Trip_locks"),
	}
}

// Returns duplicate key error if lock already exists
func (r *mongoTripLockRepository) Create(ctx context.Context, lock *model.TripLock) (*model.TripLock, error) {
	lock.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		return nil, err
	}

	return lock, nil
}

// Delete removes an advisory lock
func (r *mongoTripLockRepository) Delete(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
