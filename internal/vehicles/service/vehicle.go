package service

import (
	"context"
	"errors"
	"sync"

	vehicleserrors "fleetops/internal/vehicles/errors"
	"fleetops/internal/vehicles/repository"
	"fleetops/internal/vehicles/validator"
	"fleetops/pkg/config"
	apperrors "fleetops/pkg/errors"
	"fleetops/pkg/model"
	"fleetops/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type VehicleService interface {
	Create(ctx context.Context, vehicle *model.Vehicle) error
	GetByID(ctx context.Context, id string) (*model.Vehicle, error)
	GetAll(ctx context.Context, status, vehicleClass string, limit int, offset int64) ([]*model.Vehicle, int64, error)
	Update(ctx context.Context, id string, updates *model.VehicleUpdate) error
	Delete(ctx context.Context, id string) error
}

type vehicleService struct {
	repo      repository.VehicleRepository
	validator *validator.VehicleValidator
	cfg       *config.Config
}

func NewVehicleService(repo repository.VehicleRepository, validator *validator.VehicleValidator, cfg *config.Config) VehicleService {
	return &vehicleService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *vehicleService) Create(ctx context.Context, vehicle *model.Vehicle) error {
	s.applyDefaults(vehicle)
	s.sanitize(vehicle)

	if err := s.validate(vehicle); err != nil {
		return err
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyPlateFree(sessCtx, vehicle.PlateNumber, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, vehicle); err != nil {
			return apperrors.Internal("Failed to create vehicle", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create vehicle", "error", err)
		return err
	}

	s.cfg.Log.Info("Vehicle created successfully",
		"id", vehicle.ID,
		"plate_number", vehicle.PlateNumber,
		"vehicle_class", vehicle.VehicleClass,
	)
	return nil
}

func (s *vehicleService) GetByID(ctx context.Context, id string) (*model.Vehicle, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Vehicle ID cannot be empty")
	}

	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, vehicleserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Vehicle", id)
		}
		if errors.Is(err, vehicleserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid vehicle ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve vehicle", err)
	}

	return vehicle, nil
}

func (s *vehicleService) GetAll(ctx context.Context, status, vehicleClass string, limit int, offset int64) ([]*model.Vehicle, int64, error) {
	if status != "" && status != config.VehicleActive && status != config.VehicleMaintenance && status != config.VehicleRetired {
		return nil, 0, apperrors.InvalidInput("Status must be 'active', 'maintenance' or 'retired'")
	}

	var count int64
	var vehicles []*model.Vehicle
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, status, vehicleClass)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count vehicles", "status", status, "vehicle_class", vehicleClass, "error", errCount)
			errCount = apperrors.Internal("Failed to count vehicles", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		vehicles, errFind = s.repo.FindAll(ctx, status, vehicleClass, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list vehicles", "status", status, "vehicle_class", vehicleClass, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve vehicles", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return vehicles, count, nil
}

func (s *vehicleService) Update(ctx context.Context, id string, updates *model.VehicleUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Vehicle ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, vehicleserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Vehicle", id)
		}
		if errors.Is(err, vehicleserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid vehicle ID format")
		}
		return apperrors.Internal("Failed to check vehicle existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Vehicle update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeVehicleUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return err
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if merged.PlateNumber != existing.PlateNumber {
			if err := s.verifyPlateFree(sessCtx, merged.PlateNumber, id); err != nil {
				return err
			}
		}
		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			return apperrors.Internal("Failed to update vehicle", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update vehicle", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Vehicle updated successfully", "id", id)
	return nil
}

func (s *vehicleService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Vehicle ID cannot be empty")
	}

	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, vehicleserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Vehicle", id)
		}
		if errors.Is(err, vehicleserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid vehicle ID format")
		}
		return apperrors.Internal("Failed to delete vehicle", err)
	}

	s.cfg.Log.Info("Vehicle deleted successfully", "id", id)
	return nil
}

// --- Helpers ---

func (s *vehicleService) applyDefaults(v *model.Vehicle) {
	if v.Status == "" {
		v.Status = config.VehicleActive
	}
}

func (s *vehicleService) sanitize(v *model.Vehicle) {
	v.PlateNumber = sanitizer.NormalizePlate(v.PlateNumber)
	v.Make = sanitizer.TrimAndNormalize(v.Make)
	v.Model = sanitizer.TrimAndNormalize(v.Model)
	v.Capacity = int(sanitizer.NormalizeCapacity(int64(v.Capacity)))
}

func (s *vehicleService) mergeVehicleUpdates(existing *model.Vehicle, updates *model.VehicleUpdate) *model.Vehicle {
	merged := *existing

	if updates.PlateNumber != "" {
		merged.PlateNumber = updates.PlateNumber
	}
	if updates.Make != "" {
		merged.Make = updates.Make
	}
	if updates.Model != "" {
		merged.Model = updates.Model
	}
	if updates.Year != nil {
		merged.Year = *updates.Year
	}
	if updates.Capacity != nil {
		merged.Capacity = *updates.Capacity
	}
	if updates.VehicleClass != "" {
		merged.VehicleClass = updates.VehicleClass
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}

	return &merged
}

func (s *vehicleService) validate(vehicle *model.Vehicle) error {
	if err := s.validator.Validate(vehicle); err != nil {
		s.cfg.Log.Warn("Vehicle validation failed", "error", err)
		return apperrors.Validation("Vehicle validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// verifyPlateFree rejects a plate number already registered to another vehicle.
// Plates are compared in normalized form.
func (s *vehicleService) verifyPlateFree(ctx context.Context, plateNumber, excludeID string) error {
	existing, err := s.repo.FindByPlate(ctx, plateNumber)
	if err != nil {
		if errors.Is(err, vehicleserrors.ErrNotFound) {
			return nil
		}
		return apperrors.Internal("Failed to check plate uniqueness", err)
	}
	if existing.ID != excludeID {
		return apperrors.Conflict("A vehicle with this plate number already exists")
	}
	return nil
}
