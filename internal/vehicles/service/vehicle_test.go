package service

import (
	"context"
	"errors"
	"testing"
	"time"

	vehicleserrors "fleetops/internal/vehicles/errors"
	"fleetops/internal/vehicles/validator"
	"fleetops/pkg/config"
	mongotx "fleetops/pkg/db/mongo"
	apperrors "fleetops/pkg/errors"
	"fleetops/pkg/logger"
	"fleetops/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockVehicleRepository struct {
	createFunc      func(ctx context.Context, vehicle *model.Vehicle) error
	findByIDFunc    func(ctx context.Context, id string) (*model.Vehicle, error)
	findByPlateFunc func(ctx context.Context, plateNumber string) (*model.Vehicle, error)
	findAllFunc     func(ctx context.Context, status, vehicleClass string, limit int, offset int64) ([]*model.Vehicle, error)
	updateFunc      func(ctx context.Context, id string, vehicle *model.Vehicle) (*mongo.UpdateResult, error)
	deleteFunc      func(ctx context.Context, id string) error
	countFunc       func(ctx context.Context, status, vehicleClass string) (int64, error)
}

func (m *mockVehicleRepository) Create(ctx context.Context, vehicle *model.Vehicle) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, vehicle)
	}
	vehicle.ID = "60c72b2f9b1e8a5f4c8b5678"
	return nil
}

func (m *mockVehicleRepository) FindByID(ctx context.Context, id string) (*model.Vehicle, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockVehicleRepository) FindByPlate(ctx context.Context, plateNumber string) (*model.Vehicle, error) {
	if m.findByPlateFunc != nil {
		return m.findByPlateFunc(ctx, plateNumber)
	}
	return nil, vehicleserrors.ErrNotFound
}

func (m *mockVehicleRepository) FindAll(ctx context.Context, status, vehicleClass string, limit int, offset int64) ([]*model.Vehicle, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, status, vehicleClass, limit, offset)
	}
	return []*model.Vehicle{}, nil
}

func (m *mockVehicleRepository) Update(ctx context.Context, id string, vehicle *model.Vehicle) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, vehicle)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockVehicleRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockVehicleRepository) Count(ctx context.Context, status, vehicleClass string) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, status, vehicleClass)
	}
	return 0, nil
}

func (m *mockVehicleRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func testConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})

	return &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func newTestService(repo *mockVehicleRepository) VehicleService {
	cfg := testConfig()
	v := validator.NewVehicleValidator(cfg.Log)
	return NewVehicleService(repo, v, cfg)
}

func validVehicle() *model.Vehicle {
	return &model.Vehicle{
		PlateNumber:  "34-567-89",
		Make:         "Toyota",
		Model:        "Hiace",
		Year:         2023,
		Capacity:     12,
		VehicleClass: "van",
		Status:       "active",
	}
}

func TestCreate_NormalizesPlate(t *testing.T) {
	repo := &mockVehicleRepository{}
	svc := newTestService(repo)

	vehicle := validVehicle()
	vehicle.PlateNumber = "ab-123-cd"

	if err := svc.Create(context.Background(), vehicle); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vehicle.PlateNumber != "AB123CD" {
		t.Errorf("expected normalized plate AB123CD, got %q", vehicle.PlateNumber)
	}
}

func TestCreate_DefaultStatus(t *testing.T) {
	svc := newTestService(&mockVehicleRepository{})

	vehicle := validVehicle()
	vehicle.Status = ""

	if err := svc.Create(context.Background(), vehicle); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vehicle.Status != config.VehicleActive {
		t.Errorf("expected default status active, got %q", vehicle.Status)
	}
}

func TestCreate_DuplicatePlate(t *testing.T) {
	repo := &mockVehicleRepository{
		findByPlateFunc: func(ctx context.Context, plateNumber string) (*model.Vehicle, error) {
			return &model.Vehicle{ID: "60c72b2f9b1e8a5f4c8b9999", PlateNumber: plateNumber}, nil
		},
	}
	svc := newTestService(repo)

	err := svc.Create(context.Background(), validVehicle())
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

func TestCreate_InvalidClass(t *testing.T) {
	svc := newTestService(&mockVehicleRepository{})

	vehicle := validVehicle()
	vehicle.VehicleClass = "tank"

	err := svc.Create(context.Background(), vehicle)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected code %s, got %s", apperrors.CodeValidation, appErr.Code)
	}
}

func TestCreate_ClampsCapacity(t *testing.T) {
	svc := newTestService(&mockVehicleRepository{})

	vehicle := validVehicle()
	vehicle.Capacity = 300

	if err := svc.Create(context.Background(), vehicle); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vehicle.Capacity != 60 {
		t.Errorf("expected capacity clamped to 60, got %d", vehicle.Capacity)
	}
}

func TestUpdate_PlateChangeChecksDuplicates(t *testing.T) {
	existing := validVehicle()
	existing.ID = "60c72b2f9b1e8a5f4c8b5678"
	existing.PlateNumber = "3456789"

	checked := false
	repo := &mockVehicleRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Vehicle, error) {
			return existing, nil
		},
		findByPlateFunc: func(ctx context.Context, plateNumber string) (*model.Vehicle, error) {
			checked = true
			return nil, vehicleserrors.ErrNotFound
		},
	}
	svc := newTestService(repo)

	updates := &model.VehicleUpdate{PlateNumber: "98-765-43"}
	if err := svc.Update(context.Background(), existing.ID, updates); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !checked {
		t.Error("expected duplicate plate check on plate change")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo := &mockVehicleRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Vehicle, error) {
			return nil, vehicleserrors.ErrNotFound
		},
	}
	svc := newTestService(repo)

	err := svc.Update(context.Background(), "60c72b2f9b1e8a5f4c8b5678", &model.VehicleUpdate{Make: "Ford"})
	if err == nil {
		t.Fatal("expected not found error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected code %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}

func TestGetAll_InvalidStatus(t *testing.T) {
	svc := newTestService(&mockVehicleRepository{})

	_, _, err := svc.GetAll(context.Background(), "scrapped", "", 10, 0)
	if err == nil {
		t.Fatal("expected invalid input error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected code %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
	}
}

func TestGetAll_FiltersByClass(t *testing.T) {
	var gotClass string
	repo := &mockVehicleRepository{
		findAllFunc: func(ctx context.Context, status, vehicleClass string, limit int, offset int64) ([]*model.Vehicle, error) {
			gotClass = vehicleClass
			return []*model.Vehicle{{ID: "60c72b2f9b1e8a5f4c8b5678"}}, nil
		},
		countFunc: func(ctx context.Context, status, vehicleClass string) (int64, error) {
			return 1, nil
		},
	}
	svc := newTestService(repo)

	vehicles, total, err := svc.GetAll(context.Background(), "", "minibus", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotClass != "minibus" {
		t.Errorf("expected class filter to reach repository, got %q", gotClass)
	}
	if total != 1 || len(vehicles) != 1 {
		t.Errorf("expected 1 vehicle with total 1, got %d/%d", len(vehicles), total)
	}
}
