package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	tripserrors "fleetops/internal/trips/errors"
	"fleetops/pkg/availability"
	"fleetops/pkg/config"
	mongotx "fleetops/pkg/db/mongo"
	"fleetops/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Trips"
)

type mongoTripRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type TripRepository interface {
	Create(ctx context.Context, trip *model.Trip) error
	FindByID(ctx context.Context, id string) (*model.Trip, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Trip, error)
	Update(ctx context.Context, id string, trip *model.Trip) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, driverID, vehicleID, date string, limit int, offset int64) ([]*model.Trip, error)
	CountBySearch(ctx context.Context, driverID, vehicleID, date string) (int64, error)
	FindByResourceAndDate(ctx context.Context, resourceType, resourceID, date string) ([]*model.Trip, error)
	FindActiveByResource(ctx context.Context, resourceType, resourceID, upToDate string) ([]*model.Trip, error)
	Count(ctx context.Context) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoTripRepository(cfg *config.Config) TripRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTripRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context
// unchanged with a no-op cancel function, as we cannot wrap SessionContext
// without breaking transaction semantics.
func (r *mongoTripRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoTripRepository) Create(ctx context.Context, trip *model.Trip) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	trip.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, trip)
	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		trip.ID = oid.Hex()
	}
	return nil
}

func (r *mongoTripRepository) FindByID(ctx context.Context, id string) (*model.Trip, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", tripserrors.ErrInvalidID, id)
	}

	var trip model.Trip
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&trip)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, tripserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find trip: %w", err)
	}

	return &trip, nil
}

func (r *mongoTripRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Trip, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find trips: %w", err)
	}
	defer cursor.Close(ctx)

	var trips []*model.Trip
	if err = cursor.All(ctx, &trips); err != nil {
		return nil, fmt.Errorf("failed to decode trips: %w", err)
	}

	return trips, nil
}

func (r *mongoTripRepository) Update(ctx context.Context, id string, trip *model.Trip) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", tripserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	update := bson.M{
		"$set": bson.M{
			"driver_id":          trip.DriverID,
			"vehicle_id":         trip.VehicleID,
			"escort_vehicle_ids": trip.EscortVehicleIDs,
			"date":               trip.Date,
			"start_time":         trip.StartTime,
			"return_time":        trip.ReturnTime,
			"service_type":       trip.ServiceType,
			"status":             trip.Status,
			"passenger_name":     trip.PassengerName,
			"passenger_phone":    trip.PassengerPhone,
			"pickup_location":    trip.PickupLocation,
			"dropoff_location":   trip.DropoffLocation,
			"notes":              trip.Notes,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, tripserrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoTripRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", tripserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	if result.DeletedCount == 0 {
		return tripserrors.ErrNotFound
	}

	return nil
}

func (r *mongoTripRepository) Search(ctx context.Context, driverID, vehicleID, date string, limit int, offset int64) ([]*model.Trip, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := r.buildSearchFilter(driverID, vehicleID, date)

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search trips: %w", err)
	}
	defer cursor.Close(ctx)

	var trips []*model.Trip
	if err = cursor.All(ctx, &trips); err != nil {
		return nil, fmt.Errorf("failed to decode trips: %w", err)
	}

	return trips, nil
}

func (r *mongoTripRepository) CountBySearch(ctx context.Context, driverID, vehicleID, date string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, r.buildSearchFilter(driverID, vehicleID, date))
	if err != nil {
		return 0, fmt.Errorf("failed to count trips by search: %w", err)
	}
	return count, nil
}

func (r *mongoTripRepository) buildSearchFilter(driverID, vehicleID, date string) bson.M {
	filter := bson.M{}

	if driverID != "" {
		filter["driver_id"] = driverID
	}
	if vehicleID != "" {
		// A vehicle is occupied whether it leads the trip or escorts it
		filter["$or"] = []bson.M{
			{"vehicle_id": vehicleID},
			{"escort_vehicle_ids": vehicleID},
		}
	}
	if date != "" {
		filter["date"] = date
	}

	return filter
}

// FindByResourceAndDate returns every trip on the given calendar date that
// references the resource, regardless of status. Status filtering is left to
// the availability rules.
func (r *mongoTripRepository) FindByResourceAndDate(ctx context.Context, resourceType, resourceID, date string) ([]*model.Trip, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := r.buildResourceFilter(resourceType, resourceID)
	filter["date"] = date

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find trips for resource: %w", err)
	}
	defer cursor.Close(ctx)

	var trips []*model.Trip
	if err = cursor.All(ctx, &trips); err != nil {
		return nil, fmt.Errorf("failed to decode trips: %w", err)
	}

	return trips, nil
}

// FindActiveByResource returns non-terminal trips for the resource dated on
// or before upToDate. Earlier dates matter because a long trip can spill past
// midnight into the next day.
func (r *mongoTripRepository) FindActiveByResource(ctx context.Context, resourceType, resourceID, upToDate string) ([]*model.Trip, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := r.buildResourceFilter(resourceType, resourceID)
	filter["date"] = bson.M{"$lte": upToDate}
	filter["status"] = bson.M{"$in": []string{config.TripScheduled, config.TripInProgress}}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find active trips for resource: %w", err)
	}
	defer cursor.Close(ctx)

	var trips []*model.Trip
	if err = cursor.All(ctx, &trips); err != nil {
		return nil, fmt.Errorf("failed to decode trips: %w", err)
	}

	return trips, nil
}

func (r *mongoTripRepository) buildResourceFilter(resourceType, resourceID string) bson.M {
	if resourceType == availability.ResourceVehicle {
		return bson.M{
			"$or": []bson.M{
				{"vehicle_id": resourceID},
				{"escort_vehicle_ids": resourceID},
			},
		}
	}
	return bson.M{"driver_id": resourceID}
}

func (r *mongoTripRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count trips: %w", err)
	}

	return count, nil
}

func (r *mongoTripRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
