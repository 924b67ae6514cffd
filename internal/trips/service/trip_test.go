package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleetops/internal/trips/validator"
	"fleetops/pkg/availability"
	"fleetops/pkg/config"
	mongotx "fleetops/pkg/db/mongo"
	apperrors "fleetops/pkg/errors"
	"fleetops/pkg/logger"
	"fleetops/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// Mock repositories for testing
type mockTripRepository struct {
	createFunc                func(ctx context.Context, trip *model.Trip) error
	findByIDFunc              func(ctx context.Context, id string) (*model.Trip, error)
	findAllFunc               func(ctx context.Context, limit int, offset int64) ([]*model.Trip, error)
	updateFunc                func(ctx context.Context, id string, trip *model.Trip) (*mongo.UpdateResult, error)
	deleteFunc                func(ctx context.Context, id string) error
	searchFunc                func(ctx context.Context, driverID, vehicleID, date string, limit int, offset int64) ([]*model.Trip, error)
	countBySearchFunc         func(ctx context.Context, driverID, vehicleID, date string) (int64, error)
	findByResourceAndDateFunc func(ctx context.Context, resourceType, resourceID, date string) ([]*model.Trip, error)
	findActiveByResourceFunc  func(ctx context.Context, resourceType, resourceID, upToDate string) ([]*model.Trip, error)
	countFunc                 func(ctx context.Context) (int64, error)
}

func (m *mockTripRepository) Create(ctx context.Context, trip *model.Trip) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, trip)
	}
	trip.ID = "60c72b2f9b1e8a5f4c8b4567"
	return nil
}

func (m *mockTripRepository) FindByID(ctx context.Context, id string) (*model.Trip, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTripRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Trip, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Trip{}, nil
}

func (m *mockTripRepository) Update(ctx context.Context, id string, trip *model.Trip) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, trip)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockTripRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockTripRepository) Search(ctx context.Context, driverID, vehicleID, date string, limit int, offset int64) ([]*model.Trip, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, driverID, vehicleID, date, limit, offset)
	}
	return []*model.Trip{}, nil
}

func (m *mockTripRepository) CountBySearch(ctx context.Context, driverID, vehicleID, date string) (int64, error) {
	if m.countBySearchFunc != nil {
		return m.countBySearchFunc(ctx, driverID, vehicleID, date)
	}
	return 0, nil
}

func (m *mockTripRepository) FindByResourceAndDate(ctx context.Context, resourceType, resourceID, date string) ([]*model.Trip, error) {
	if m.findByResourceAndDateFunc != nil {
		return m.findByResourceAndDateFunc(ctx, resourceType, resourceID, date)
	}
	return []*model.Trip{}, nil
}

func (m *mockTripRepository) FindActiveByResource(ctx context.Context, resourceType, resourceID, upToDate string) ([]*model.Trip, error) {
	if m.findActiveByResourceFunc != nil {
		return m.findActiveByResourceFunc(ctx, resourceType, resourceID, upToDate)
	}
	return []*model.Trip{}, nil
}

func (m *mockTripRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockTripRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockTripLockRepository struct {
	createFunc func(ctx context.Context, lock *model.TripLock) (*model.TripLock, error)
	deleteFunc func(ctx context.Context, lockID string) error
}

func (m *mockTripLockRepository) Create(ctx context.Context, lock *model.TripLock) (*model.TripLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	return lock, nil
}

func (m *mockTripLockRepository) Delete(ctx context.Context, lockID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, lockID)
	}
	return nil
}

func testConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})

	return &config.Config{
		Log:                log,
		ReadTimeout:        5 * time.Second,
		WriteTimeout:       5 * time.Second,
		DefaultBufferHours: 1.0,
		MaxEscortVehicles:  5,
	}
}

func newTestService(repo *mockTripRepository, lockRepo *mockTripLockRepository) TripService {
	cfg := testConfig()
	v := validator.NewTripValidator(cfg.Log, cfg.MaxEscortVehicles)
	return NewTripService(repo, lockRepo, v, nil, cfg)
}

func validTrip() *model.Trip {
	return &model.Trip{
		DriverID:    "60c72b2f9b1e8a5f4c8b0001",
		VehicleID:   "60c72b2f9b1e8a5f4c8b0002",
		Date:        "2026-09-15",
		StartTime:   "09:00",
		ServiceType: "one_way_transfer",
		Status:      "scheduled",
	}
}

func TestCreate_Success(t *testing.T) {
	created := false
	repo := &mockTripRepository{
		createFunc: func(ctx context.Context, trip *model.Trip) error {
			created = true
			trip.ID = "60c72b2f9b1e8a5f4c8b4567"
			return nil
		},
	}
	svc := newTestService(repo, &mockTripLockRepository{})

	trip := validTrip()
	trip.Status = ""

	if err := svc.Create(context.Background(), trip); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected repository Create to be called")
	}
	if trip.Status != "scheduled" {
		t.Errorf("expected default status scheduled, got %q", trip.Status)
	}
}

func TestCreate_DriverConflict(t *testing.T) {
	busy := &model.Trip{
		ID:          "60c72b2f9b1e8a5f4c8b9999",
		DriverID:    "60c72b2f9b1e8a5f4c8b0001",
		VehicleID:   "60c72b2f9b1e8a5f4c8b0003",
		Date:        "2026-09-15",
		StartTime:   "08:30",
		ServiceType: "round_trip",
		Status:      "scheduled",
	}

	repo := &mockTripRepository{
		findByResourceAndDateFunc: func(ctx context.Context, resourceType, resourceID, date string) ([]*model.Trip, error) {
			if resourceType == availability.ResourceDriver {
				return []*model.Trip{busy}, nil
			}
			return []*model.Trip{}, nil
		},
	}
	svc := newTestService(repo, &mockTripLockRepository{})

	err := svc.Create(context.Background(), validTrip())
	if err == nil {
		t.Fatal("expected conflict error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict error code, got %v", err)
	}
}

func TestCreate_CancelledTripDoesNotBlock(t *testing.T) {
	cancelled := &model.Trip{
		ID:          "60c72b2f9b1e8a5f4c8b9999",
		DriverID:    "60c72b2f9b1e8a5f4c8b0001",
		VehicleID:   "60c72b2f9b1e8a5f4c8b0002",
		Date:        "2026-09-15",
		StartTime:   "09:00",
		ServiceType: "full_day",
		Status:      "cancelled",
	}

	repo := &mockTripRepository{
		findByResourceAndDateFunc: func(ctx context.Context, resourceType, resourceID, date string) ([]*model.Trip, error) {
			return []*model.Trip{cancelled}, nil
		},
	}
	svc := newTestService(repo, &mockTripLockRepository{})

	if err := svc.Create(context.Background(), validTrip()); err != nil {
		t.Fatalf("cancelled trip should not block creation: %v", err)
	}
}

func TestCreate_EscortVehicleConflict(t *testing.T) {
	escortID := "60c72b2f9b1e8a5f4c8b0007"
	busy := &model.Trip{
		ID:               "60c72b2f9b1e8a5f4c8b9999",
		DriverID:         "60c72b2f9b1e8a5f4c8b0008",
		VehicleID:        "60c72b2f9b1e8a5f4c8b0009",
		EscortVehicleIDs: []string{escortID},
		Date:             "2026-09-15",
		StartTime:        "09:30",
		ServiceType:      "half_day",
		Status:           "scheduled",
	}

	repo := &mockTripRepository{
		findByResourceAndDateFunc: func(ctx context.Context, resourceType, resourceID, date string) ([]*model.Trip, error) {
			if resourceType == availability.ResourceVehicle && resourceID == escortID {
				return []*model.Trip{busy}, nil
			}
			return []*model.Trip{}, nil
		},
	}
	svc := newTestService(repo, &mockTripLockRepository{})

	trip := validTrip()
	trip.EscortVehicleIDs = []string{escortID}

	err := svc.Create(context.Background(), trip)
	if err == nil {
		t.Fatal("expected conflict on escort vehicle")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict error code, got %v", err)
	}
}

func TestCreate_LockFailure(t *testing.T) {
	lockRepo := &mockTripLockRepository{
		createFunc: func(ctx context.Context, lock *model.TripLock) (*model.TripLock, error) {
			return nil, errors.New("insert failed")
		},
	}
	svc := newTestService(&mockTripRepository{}, lockRepo)

	err := svc.Create(context.Background(), validTrip())
	if err == nil {
		t.Fatal("expected error when lock cannot be acquired")
	}
}

func TestCreate_ValidationFailure(t *testing.T) {
	svc := newTestService(&mockTripRepository{}, &mockTripLockRepository{})

	trip := validTrip()
	trip.Date = "15/09/2026"

	err := svc.Create(context.Background(), trip)
	if err == nil {
		t.Fatal("expected validation error for malformed date")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected validation error code, got %v", err)
	}
}

func TestGetByID_EmptyID(t *testing.T) {
	svc := newTestService(&mockTripRepository{}, &mockTripLockRepository{})

	_, err := svc.GetByID(context.Background(), "")
	if err == nil {
		t.Fatal("expected error for empty ID")
	}
}

func TestGetAll_ConcurrentCountAndFind(t *testing.T) {
	repo := &mockTripRepository{
		countFunc: func(ctx context.Context) (int64, error) {
			time.Sleep(5 * time.Millisecond)
			return 42, nil
		},
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Trip, error) {
			time.Sleep(5 * time.Millisecond)
			return []*model.Trip{validTrip()}, nil
		},
	}
	svc := newTestService(repo, &mockTripLockRepository{})

	// Run with -race flag to detect data races
	for i := 0; i < 10; i++ {
		trips, count, err := svc.GetAll(context.Background(), 10, 0)
		if err != nil {
			t.Fatalf("iteration %d: unexpected error: %v", i, err)
		}
		if count != 42 {
			t.Errorf("iteration %d: expected count 42, got %d", i, count)
		}
		if len(trips) != 1 {
			t.Errorf("iteration %d: expected 1 trip, got %d", i, len(trips))
		}
	}
}

func TestUpdate_ExcludesOwnTripFromConflictCheck(t *testing.T) {
	tripID := "60c72b2f9b1e8a5f4c8b4567"
	existing := validTrip()
	existing.ID = tripID

	repo := &mockTripRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Trip, error) {
			return existing, nil
		},
		findByResourceAndDateFunc: func(ctx context.Context, resourceType, resourceID, date string) ([]*model.Trip, error) {
			// The stored copy of the trip being updated is on the calendar
			return []*model.Trip{existing}, nil
		},
	}
	svc := newTestService(repo, &mockTripLockRepository{})

	newStart := "09:30"
	err := svc.Update(context.Background(), tripID, &model.TripUpdate{StartTime: newStart})
	if err != nil {
		t.Fatalf("updating a trip should not conflict with itself: %v", err)
	}
}

func TestCheckSlot_ReportsAllConflicts(t *testing.T) {
	driverID := "60c72b2f9b1e8a5f4c8b0001"
	first := validTrip()
	first.ID = "60c72b2f9b1e8a5f4c8b1111"
	second := validTrip()
	second.ID = "60c72b2f9b1e8a5f4c8b2222"
	second.StartTime = "10:00"

	repo := &mockTripRepository{
		findByResourceAndDateFunc: func(ctx context.Context, resourceType, resourceID, date string) ([]*model.Trip, error) {
			return []*model.Trip{first, second}, nil
		},
	}
	svc := newTestService(repo, &mockTripLockRepository{})

	result, err := svc.CheckSlot(context.Background(), availability.ResourceDriver, driverID, "2026-09-15", "09:30", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsAvailable {
		t.Fatal("expected slot to be unavailable")
	}
	if len(result.Conflicts) != 2 {
		t.Errorf("expected 2 conflicts, got %d", len(result.Conflicts))
	}
}

func TestCheckSlot_ConfiguredSlotWindow(t *testing.T) {
	// Booked 12:00-14:00; a 09:00 slot with no return time only reaches it
	// when the configured window is wide enough.
	booked := validTrip()
	booked.ID = "60c72b2f9b1e8a5f4c8b1111"
	booked.StartTime = "12:00"
	booked.ReturnTime = "14:00"

	repo := &mockTripRepository{
		findByResourceAndDateFunc: func(ctx context.Context, resourceType, resourceID, date string) ([]*model.Trip, error) {
			return []*model.Trip{booked}, nil
		},
	}

	cfg := testConfig()
	cfg.DefaultBufferHours = 0
	v := validator.NewTripValidator(cfg.Log, cfg.MaxEscortVehicles)
	svc := NewTripService(repo, &mockTripLockRepository{}, v, nil, cfg)

	result, err := svc.CheckSlot(context.Background(), availability.ResourceDriver, booked.DriverID, "2026-09-15", "09:00", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsAvailable {
		t.Fatalf("default 2h window must not reach the 12:00 trip, got reason %q", result.Reason)
	}

	cfg.DefaultSlotWindowHours = 4
	result, err = svc.CheckSlot(context.Background(), availability.ResourceDriver, booked.DriverID, "2026-09-15", "09:00", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsAvailable {
		t.Fatal("4h window ending at 13:00 must conflict with the 12:00 trip")
	}
}

func TestCheckSlot_InvalidDate(t *testing.T) {
	svc := newTestService(&mockTripRepository{}, &mockTripLockRepository{})

	_, err := svc.CheckSlot(context.Background(), availability.ResourceDriver, "60c72b2f9b1e8a5f4c8b0001", "not-a-date", "09:00", "", "")
	if err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestCheckResourceAvailability_InvalidType(t *testing.T) {
	svc := newTestService(&mockTripRepository{}, &mockTripLockRepository{})

	_, err := svc.CheckResourceAvailability(context.Background(), "plane", "60c72b2f9b1e8a5f4c8b0001")
	if err == nil {
		t.Fatal("expected error for unknown resource type")
	}
}

func TestCheckResourceAvailability_Free(t *testing.T) {
	repo := &mockTripRepository{
		findActiveByResourceFunc: func(ctx context.Context, resourceType, resourceID, upToDate string) ([]*model.Trip, error) {
			return []*model.Trip{}, nil
		},
	}
	svc := newTestService(repo, &mockTripLockRepository{})

	result, err := svc.CheckResourceAvailability(context.Background(), availability.ResourceDriver, "60c72b2f9b1e8a5f4c8b0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsAvailable {
		t.Error("expected resource with no trips to be available")
	}
}
