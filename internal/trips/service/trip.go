package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tripserrors "fleetops/internal/trips/errors"
	"fleetops/internal/trips/events"
	"fleetops/internal/trips/repository"
	"fleetops/internal/trips/validator"
	"fleetops/pkg/availability"
	"fleetops/pkg/config"
	apperrors "fleetops/pkg/errors"
	"fleetops/pkg/model"
	"fleetops/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type TripService interface {
	Create(ctx context.Context, trip *model.Trip) error
	GetByID(ctx context.Context, id string) (*model.Trip, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Trip, int64, error)
	Update(ctx context.Context, id string, updates *model.TripUpdate) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, driverID, vehicleID, date string, limit int, offset int64) ([]*model.Trip, int64, error)
	CheckResourceAvailability(ctx context.Context, resourceType, resourceID string) (*availability.Result, error)
	CheckSlot(ctx context.Context, resourceType, resourceID, date, startTime, returnTime, excludeTripID string) (*availability.SlotResult, error)
}

type tripService struct {
	repo      repository.TripRepository
	lockRepo  repository.TripLockRepository
	validator *validator.TripValidator
	publisher events.TripEvents
	cfg       *config.Config
}

func NewTripService(
	repo repository.TripRepository,
	lockRepo repository.TripLockRepository,
	validator *validator.TripValidator,
	publisher events.TripEvents,
	cfg *config.Config,
) TripService {
	return &tripService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *tripService) Create(ctx context.Context, trip *model.Trip) error {
	s.applyDefaults(trip)
	s.sanitize(trip)
	if err := s.validate(trip); err != nil {
		return err
	}

	// Advisory lock keyed on the driver's slot stops two dispatchers from
	// double-booking the same departure concurrently
	lockID, err := s.acquireSlotLock(ctx, trip.DriverID, trip.Date, trip.StartTime)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release trip lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyResourcesFree(sessCtx, trip, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, trip); err != nil {
			return apperrors.Internal("Failed to create trip", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create trip", "error", err)
		return err
	}

	s.publish(ctx, "trip.created", trip)

	s.cfg.Log.Info("Trip created successfully",
		"id", trip.ID,
		"driver_id", trip.DriverID,
		"vehicle_id", trip.VehicleID,
		"date", trip.Date,
		"start_time", trip.StartTime,
	)
	return nil
}

func (s *tripService) GetByID(ctx context.Context, id string) (*model.Trip, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Trip ID cannot be empty")
	}

	trip, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, tripserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Trip", id)
		}
		if errors.Is(err, tripserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid trip ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve trip", err)
	}

	return trip, nil
}

func (s *tripService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Trip, int64, error) {
	var count int64
	var trips []*model.Trip
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count trips", "error", errCount)
			errCount = apperrors.Internal("Failed to count trips", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		trips, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list trips", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve trips", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return trips, count, nil
}

func (s *tripService) Update(ctx context.Context, id string, updates *model.TripUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Trip ID cannot be empty")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, tripserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Trip", id)
		}
		if errors.Is(err, tripserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid trip ID format")
		}
		return apperrors.Internal("Failed to check trip existence", err)
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Trip update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}
	merged := s.mergeTripUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return err
	}
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyResourcesFree(sessCtx, merged, id); err != nil {
			return err
		}
		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			return apperrors.Internal("Failed to update trip", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update trip", "id", id, "error", err)
		return err
	}

	eventType := "trip.updated"
	if merged.Status == config.TripCancelled && existing.Status != config.TripCancelled {
		eventType = "trip.cancelled"
	}
	merged.ID = id
	s.publish(ctx, eventType, merged)

	s.cfg.Log.Info("Trip updated successfully", "id", id)
	return nil
}

func (s *tripService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Trip ID cannot be empty")
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, tripserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Trip", id)
			}
			if errors.Is(err, tripserrors.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid trip ID format")
			}
			return apperrors.Internal("Failed to delete trip", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, "trip.deleted", &model.Trip{ID: id})

	s.cfg.Log.Info("Trip deleted successfully", "id", id)
	return nil
}

func (s *tripService) Search(ctx context.Context, driverID, vehicleID, date string, limit int, offset int64) ([]*model.Trip, int64, error) {
	if driverID == "" && vehicleID == "" && date == "" {
		return nil, 0, apperrors.InvalidInput("At least one of driver_id, vehicle_id or date is required")
	}

	var count int64
	var trips []*model.Trip
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountBySearch(ctx, driverID, vehicleID, date)
		if err != nil {
			s.cfg.Log.Error("Failed to count trips by search",
				"driver_id", driverID,
				"vehicle_id", vehicleID,
				"date", date,
				"error", err,
			)
			errCount = apperrors.Internal("Failed to count trips", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		trips, err = s.repo.Search(ctx, driverID, vehicleID, date, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to search trips",
				"driver_id", driverID,
				"vehicle_id", vehicleID,
				"date", date,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to search trips", err)
		}
	}()

	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	s.cfg.Log.Debug("Trip search completed",
		"driver_id", driverID,
		"vehicle_id", vehicleID,
		"date", date,
		"count", len(trips),
		"total_count", count,
	)
	return trips, count, nil
}

// CheckResourceAvailability reports whether a driver or vehicle is free
// right now, based on its non-terminal trips dated today or earlier.
func (s *tripService) CheckResourceAvailability(ctx context.Context, resourceType, resourceID string) (*availability.Result, error) {
	if resourceID == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}
	if resourceType != availability.ResourceDriver && resourceType != availability.ResourceVehicle {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Resource type must be %q or %q", availability.ResourceDriver, availability.ResourceVehicle))
	}

	today := time.Now().Format("2006-01-02")
	trips, err := s.repo.FindActiveByResource(ctx, resourceType, resourceID, today)
	if err != nil {
		s.cfg.Log.Error("Failed to load trips for availability check",
			"resource_type", resourceType,
			"resource_id", resourceID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to check availability", err)
	}

	result := availability.CheckResource(resourceID, resourceType, trips, s.availabilityOptions())
	return &result, nil
}

// CheckSlot reports whether a driver or vehicle is free for a time slot on a
// given date, listing every conflicting trip.
func (s *tripService) CheckSlot(ctx context.Context, resourceType, resourceID, date, startTime, returnTime, excludeTripID string) (*availability.SlotResult, error) {
	if resourceID == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}
	if resourceType != availability.ResourceDriver && resourceType != availability.ResourceVehicle {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Resource type must be %q or %q", availability.ResourceDriver, availability.ResourceVehicle))
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
	}
	if _, err := time.Parse("15:04", startTime); err != nil {
		return nil, apperrors.InvalidInput("Start time must be in HH:MM format")
	}

	trips, err := s.repo.FindByResourceAndDate(ctx, resourceType, resourceID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to load trips for slot check",
			"resource_type", resourceType,
			"resource_id", resourceID,
			"date", date,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to check slot availability", err)
	}

	opts := s.availabilityOptions()
	var result availability.SlotResult
	if resourceType == availability.ResourceDriver {
		result = availability.CheckDriverSlot(resourceID, date, startTime, trips, returnTime, excludeTripID, opts)
	} else {
		result = availability.CheckVehicleSlot(resourceID, date, startTime, trips, returnTime, excludeTripID, opts)
	}
	return &result, nil
}

// --- Helpers ---

func (s *tripService) availabilityOptions() availability.Options {
	return availability.Options{
		BufferHours:     s.cfg.DefaultBufferHours,
		SlotWindowHours: s.cfg.DefaultSlotWindowHours,
	}
}

func (s *tripService) sanitize(t *model.Trip) {
	t.PassengerName = sanitizer.NormalizeName(t.PassengerName)
	t.PassengerPhone = sanitizer.NormalizePhone(t.PassengerPhone)
	t.PickupLocation = sanitizer.NormalizeLocation(t.PickupLocation)
	t.DropoffLocation = sanitizer.NormalizeLocation(t.DropoffLocation)
	t.EscortVehicleIDs = sanitizer.NormalizeEscortVehicleIDs(t.EscortVehicleIDs)
}

func (s *tripService) applyDefaults(t *model.Trip) {
	if t.Status == "" {
		t.Status = config.TripScheduled
	}
	if t.ServiceType == "" {
		t.ServiceType = config.ServiceOneWayTransfer
	}
}

func (s *tripService) mergeTripUpdates(existing *model.Trip, updates *model.TripUpdate) *model.Trip {
	merged := *existing

	if updates.DriverID != "" {
		merged.DriverID = updates.DriverID
	}
	if updates.VehicleID != "" {
		merged.VehicleID = updates.VehicleID
	}
	if updates.EscortVehicleIDs != nil {
		merged.EscortVehicleIDs = *updates.EscortVehicleIDs
	}
	if updates.Date != "" {
		merged.Date = updates.Date
	}
	if updates.StartTime != "" {
		merged.StartTime = updates.StartTime
	}
	if updates.ReturnTime != nil {
		merged.ReturnTime = *updates.ReturnTime
	}
	if updates.ServiceType != "" {
		merged.ServiceType = updates.ServiceType
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}
	if updates.PassengerName != "" {
		merged.PassengerName = updates.PassengerName
	}
	if updates.PassengerPhone != "" {
		merged.PassengerPhone = updates.PassengerPhone
	}
	if updates.PickupLocation != "" {
		merged.PickupLocation = updates.PickupLocation
	}
	if updates.DropoffLocation != "" {
		merged.DropoffLocation = updates.DropoffLocation
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}

	return &merged
}

func (s *tripService) validate(trip *model.Trip) error {
	if err := s.validator.Validate(trip); err != nil {
		s.cfg.Log.Warn("Trip validation failed", "error", err)
		return apperrors.Validation("Trip validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// verifyResourcesFree checks the driver, the primary vehicle and every escort
// vehicle for conflicts on the trip's date. Cancelled trips skip the check
// since they no longer occupy anything.
func (s *tripService) verifyResourcesFree(ctx context.Context, trip *model.Trip, excludeTripID string) error {
	if trip.Status == config.TripCancelled || trip.Status == config.TripCompleted {
		return nil
	}

	opts := s.availabilityOptions()

	driverTrips, err := s.repo.FindByResourceAndDate(ctx, availability.ResourceDriver, trip.DriverID, trip.Date)
	if err != nil {
		return apperrors.Internal("Failed to check driver availability", err)
	}
	result := availability.CheckDriverSlot(trip.DriverID, trip.Date, trip.StartTime, driverTrips, trip.ReturnTime, excludeTripID, opts)
	if !result.IsAvailable {
		return apperrors.Conflict(fmt.Sprintf("Driver %s is not available: %s", trip.DriverID, result.Reason))
	}

	vehicleIDs := append([]string{trip.VehicleID}, trip.EscortVehicleIDs...)
	for _, vehicleID := range vehicleIDs {
		vehicleTrips, err := s.repo.FindByResourceAndDate(ctx, availability.ResourceVehicle, vehicleID, trip.Date)
		if err != nil {
			return apperrors.Internal("Failed to check vehicle availability", err)
		}
		result := availability.CheckVehicleSlot(vehicleID, trip.Date, trip.StartTime, vehicleTrips, trip.ReturnTime, excludeTripID, opts)
		if !result.IsAvailable {
			return apperrors.Conflict(fmt.Sprintf("Vehicle %s is not available: %s", vehicleID, result.Reason))
		}
	}

	return nil
}

func (s *tripService) publish(ctx context.Context, eventType string, trip *model.Trip) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, trip); err != nil {
		s.cfg.Log.Warn("Failed to publish trip event",
			"event_type", eventType,
			"trip_id", trip.ID,
			"error", err,
		)
	}
}

// acquireSlotLock creates an advisory lock to prevent concurrent trip creation
// Returns the lock ID if successful, or conflict error if lock already exists
func (s *tripService) acquireSlotLock(ctx context.Context, driverID, date, startTime string) (string, error) {
	lockID := fmt.Sprintf("trip_lock_%s_%s_%s", driverID, date, startTime)

	lock := &model.TripLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(10 * time.Second), // Auto-expire after 10 seconds
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire trip lock", err)
	}

	return lockID, nil
}

// releaseSlotLock removes the advisory lock
func (s *tripService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
