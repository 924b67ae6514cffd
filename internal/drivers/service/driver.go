package service

import (
	"context"
	"errors"
	"sync"

	driverserrors "fleetops/internal/drivers/errors"
	"fleetops/internal/drivers/repository"
	"fleetops/internal/drivers/validator"
	"fleetops/pkg/config"
	apperrors "fleetops/pkg/errors"
	"fleetops/pkg/locale"
	"fleetops/pkg/model"
	"fleetops/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type DriverService interface {
	Create(ctx context.Context, driver *model.Driver) error
	GetByID(ctx context.Context, id string) (*model.Driver, error)
	GetAll(ctx context.Context, status string, limit int, offset int64) ([]*model.Driver, int64, error)
	Update(ctx context.Context, id string, updates *model.DriverUpdate) error
	Delete(ctx context.Context, id string) error
}

type driverService struct {
	repo      repository.DriverRepository
	validator *validator.DriverValidator
	cfg       *config.Config
}

func NewDriverService(repo repository.DriverRepository, validator *validator.DriverValidator, cfg *config.Config) DriverService {
	return &driverService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *driverService) Create(ctx context.Context, driver *model.Driver) error {
	// Sanitize first so timezone inference sees the E.164 phone.
	s.sanitize(driver)
	s.applyDefaults(driver)

	if err := s.validate(driver); err != nil {
		return err
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyPhoneFree(sessCtx, driver.Phone, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, driver); err != nil {
			return apperrors.Internal("Failed to create driver", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create driver", "error", err)
		return err
	}

	s.cfg.Log.Info("Driver created successfully",
		"id", driver.ID,
		"name", driver.Name,
		"phone", driver.Phone,
		"time_zone", driver.TimeZone,
	)
	return nil
}

func (s *driverService) GetByID(ctx context.Context, id string) (*model.Driver, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Driver ID cannot be empty")
	}

	driver, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, driverserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Driver", id)
		}
		if errors.Is(err, driverserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid driver ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve driver", err)
	}

	return driver, nil
}

func (s *driverService) GetAll(ctx context.Context, status string, limit int, offset int64) ([]*model.Driver, int64, error) {
	if status != "" && status != config.DriverActive && status != config.DriverSuspended {
		return nil, 0, apperrors.InvalidInput("Status must be 'active' or 'suspended'")
	}

	var count int64
	var drivers []*model.Driver
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, status)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count drivers", "status", status, "error", errCount)
			errCount = apperrors.Internal("Failed to count drivers", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		drivers, errFind = s.repo.FindAll(ctx, status, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list drivers", "status", status, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve drivers", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return drivers, count, nil
}

func (s *driverService) Update(ctx context.Context, id string, updates *model.DriverUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Driver ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, driverserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Driver", id)
		}
		if errors.Is(err, driverserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid driver ID format")
		}
		return apperrors.Internal("Failed to check driver existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Driver update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeDriverUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return err
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if merged.Phone != existing.Phone {
			if err := s.verifyPhoneFree(sessCtx, merged.Phone, id); err != nil {
				return err
			}
		}
		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			return apperrors.Internal("Failed to update driver", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update driver", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Driver updated successfully", "id", id)
	return nil
}

func (s *driverService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Driver ID cannot be empty")
	}

	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, driverserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Driver", id)
		}
		if errors.Is(err, driverserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid driver ID format")
		}
		return apperrors.Internal("Failed to delete driver", err)
	}

	s.cfg.Log.Info("Driver deleted successfully", "id", id)
	return nil
}

// --- Helpers ---

func (s *driverService) applyDefaults(d *model.Driver) {
	if d.Status == "" {
		d.Status = config.DriverActive
	}
	if d.TimeZone == "" {
		d.TimeZone = locale.InferTimezoneFromPhone(d.Phone)
	}
}

func (s *driverService) sanitize(d *model.Driver) {
	d.Name = sanitizer.NormalizeName(d.Name)
	d.Phone = sanitizer.NormalizePhone(d.Phone)
	d.LicenseNumber = sanitizer.TrimAndNormalize(d.LicenseNumber)
}

func (s *driverService) mergeDriverUpdates(existing *model.Driver, updates *model.DriverUpdate) *model.Driver {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Phone != "" {
		merged.Phone = updates.Phone
	}
	if updates.LicenseNumber != "" {
		merged.LicenseNumber = updates.LicenseNumber
	}
	if updates.LicenseExpiry != "" {
		merged.LicenseExpiry = updates.LicenseExpiry
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}
	if updates.TimeZone != "" {
		merged.TimeZone = updates.TimeZone
	}

	return &merged
}

func (s *driverService) validate(driver *model.Driver) error {
	if err := s.validator.Validate(driver); err != nil {
		s.cfg.Log.Warn("Driver validation failed", "error", err)
		return apperrors.Validation("Driver validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// verifyPhoneFree rejects a phone number already registered to another driver.
func (s *driverService) verifyPhoneFree(ctx context.Context, phone, excludeID string) error {
	existing, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, driverserrors.ErrNotFound) {
			return nil
		}
		return apperrors.Internal("Failed to check phone uniqueness", err)
	}
	if existing.ID != excludeID {
		return apperrors.Conflict("A driver with this phone number already exists")
	}
	return nil
}
