package service

import (
	"context"
	"errors"
	"testing"
	"time"

	driverserrors "fleetops/internal/drivers/errors"
	"fleetops/internal/drivers/validator"
	"fleetops/pkg/config"
	mongotx "fleetops/pkg/db/mongo"
	apperrors "fleetops/pkg/errors"
	"fleetops/pkg/logger"
	"fleetops/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockDriverRepository struct {
	createFunc      func(ctx context.Context, driver *model.Driver) error
	findByIDFunc    func(ctx context.Context, id string) (*model.Driver, error)
	findByPhoneFunc func(ctx context.Context, phone string) (*model.Driver, error)
	findAllFunc     func(ctx context.Context, status string, limit int, offset int64) ([]*model.Driver, error)
	updateFunc      func(ctx context.Context, id string, driver *model.Driver) (*mongo.UpdateResult, error)
	deleteFunc      func(ctx context.Context, id string) error
	countFunc       func(ctx context.Context, status string) (int64, error)
}

func (m *mockDriverRepository) Create(ctx context.Context, driver *model.Driver) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, driver)
	}
	driver.ID = "60c72b2f9b1e8a5f4c8b1234"
	return nil
}

func (m *mockDriverRepository) FindByID(ctx context.Context, id string) (*model.Driver, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDriverRepository) FindByPhone(ctx context.Context, phone string) (*model.Driver, error) {
	if m.findByPhoneFunc != nil {
		return m.findByPhoneFunc(ctx, phone)
	}
	return nil, driverserrors.ErrNotFound
}

func (m *mockDriverRepository) FindAll(ctx context.Context, status string, limit int, offset int64) ([]*model.Driver, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, status, limit, offset)
	}
	return []*model.Driver{}, nil
}

func (m *mockDriverRepository) Update(ctx context.Context, id string, driver *model.Driver) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, driver)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockDriverRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockDriverRepository) Count(ctx context.Context, status string) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, status)
	}
	return 0, nil
}

func (m *mockDriverRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
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

func newTestService(repo *mockDriverRepository) DriverService {
	cfg := testConfig()
	v := validator.NewDriverValidator(cfg.Log)
	return NewDriverService(repo, v, cfg)
}

func validDriver() *model.Driver {
	return &model.Driver{
		Name:          "Yossi Cohen",
		Phone:         "+972501234567",
		LicenseNumber: "IL-7743921",
		Status:        "active",
	}
}

func TestCreate_Success(t *testing.T) {
	created := false
	repo := &mockDriverRepository{
		createFunc: func(ctx context.Context, driver *model.Driver) error {
			created = true
			driver.ID = "60c72b2f9b1e8a5f4c8b1234"
			return nil
		},
	}
	svc := newTestService(repo)

	driver := validDriver()
	driver.Status = ""

	if err := svc.Create(context.Background(), driver); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected repository Create to be called")
	}
	if driver.Status != config.DriverActive {
		t.Errorf("expected default status active, got %q", driver.Status)
	}
}

func TestCreate_InfersTimezoneFromPhone(t *testing.T) {
	repo := &mockDriverRepository{}
	svc := newTestService(repo)

	driver := validDriver()
	driver.TimeZone = ""

	if err := svc.Create(context.Background(), driver); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if driver.TimeZone != "Asia/Jerusalem" {
		t.Errorf("expected Asia/Jerusalem inferred from +972 phone, got %q", driver.TimeZone)
	}
}

func TestCreate_NationalPhoneNormalizedBeforeInference(t *testing.T) {
	repo := &mockDriverRepository{}
	svc := newTestService(repo)

	driver := validDriver()
	driver.Phone = "050-123-4567"
	driver.TimeZone = ""

	if err := svc.Create(context.Background(), driver); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if driver.Phone != "+972501234567" {
		t.Errorf("expected national phone normalized to E.164, got %q", driver.Phone)
	}
	if driver.TimeZone != "Asia/Jerusalem" {
		t.Errorf("expected timezone inferred from the normalized phone, got %q", driver.TimeZone)
	}
}

func TestCreate_KeepsExplicitTimezone(t *testing.T) {
	repo := &mockDriverRepository{}
	svc := newTestService(repo)

	driver := validDriver()
	driver.TimeZone = "America/New_York"

	if err := svc.Create(context.Background(), driver); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if driver.TimeZone != "America/New_York" {
		t.Errorf("expected explicit timezone preserved, got %q", driver.TimeZone)
	}
}

func TestCreate_DuplicatePhone(t *testing.T) {
	repo := &mockDriverRepository{
		findByPhoneFunc: func(ctx context.Context, phone string) (*model.Driver, error) {
			return &model.Driver{ID: "60c72b2f9b1e8a5f4c8b9999", Phone: phone}, nil
		},
	}
	svc := newTestService(repo)

	err := svc.Create(context.Background(), validDriver())
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected code %s, got %s", apperrors.CodeConflict, appErr.Code)
	}
}

func TestCreate_ValidationFailure(t *testing.T) {
	svc := newTestService(&mockDriverRepository{})

	driver := validDriver()
	driver.Phone = "not-a-phone"

	err := svc.Create(context.Background(), driver)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected code %s, got %s", apperrors.CodeValidation, appErr.Code)
	}
}

func TestCreate_BadLicenseExpiry(t *testing.T) {
	svc := newTestService(&mockDriverRepository{})

	driver := validDriver()
	driver.LicenseExpiry = "15-09-2027"

	err := svc.Create(context.Background(), driver)
	if err == nil {
		t.Fatal("expected validation error for malformed license expiry")
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &mockDriverRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Driver, error) {
			return nil, driverserrors.ErrNotFound
		},
	}
	svc := newTestService(repo)

	_, err := svc.GetByID(context.Background(), "60c72b2f9b1e8a5f4c8b1234")
	if err == nil {
		t.Fatal("expected not found error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected code %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}

func TestGetAll_InvalidStatus(t *testing.T) {
	svc := newTestService(&mockDriverRepository{})

	_, _, err := svc.GetAll(context.Background(), "vacationing", 10, 0)
	if err == nil {
		t.Fatal("expected invalid input error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected code %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
	}
}

func TestGetAll_FiltersByStatus(t *testing.T) {
	var gotStatus string
	repo := &mockDriverRepository{
		findAllFunc: func(ctx context.Context, status string, limit int, offset int64) ([]*model.Driver, error) {
			gotStatus = status
			return []*model.Driver{{ID: "60c72b2f9b1e8a5f4c8b1234"}}, nil
		},
		countFunc: func(ctx context.Context, status string) (int64, error) {
			return 1, nil
		},
	}
	svc := newTestService(repo)

	drivers, total, err := svc.GetAll(context.Background(), "suspended", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotStatus != "suspended" {
		t.Errorf("expected status filter to reach repository, got %q", gotStatus)
	}
	if total != 1 || len(drivers) != 1 {
		t.Errorf("expected 1 driver with total 1, got %d/%d", len(drivers), total)
	}
}

func TestUpdate_PhoneChangeChecksDuplicates(t *testing.T) {
	existing := validDriver()
	existing.ID = "60c72b2f9b1e8a5f4c8b1234"

	checked := false
	repo := &mockDriverRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Driver, error) {
			return existing, nil
		},
		findByPhoneFunc: func(ctx context.Context, phone string) (*model.Driver, error) {
			checked = true
			return nil, driverserrors.ErrNotFound
		},
	}
	svc := newTestService(repo)

	updates := &model.DriverUpdate{Phone: "+972509999999"}
	if err := svc.Update(context.Background(), existing.ID, updates); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !checked {
		t.Error("expected duplicate phone check on phone change")
	}
}

func TestUpdate_SamePhoneSkipsDuplicateCheck(t *testing.T) {
	existing := validDriver()
	existing.ID = "60c72b2f9b1e8a5f4c8b1234"

	repo := &mockDriverRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Driver, error) {
			return existing, nil
		},
		findByPhoneFunc: func(ctx context.Context, phone string) (*model.Driver, error) {
			t.Error("unexpected duplicate check when phone is unchanged")
			return nil, driverserrors.ErrNotFound
		},
	}
	svc := newTestService(repo)

	updates := &model.DriverUpdate{Name: "Moshe Levi"}
	if err := svc.Update(context.Background(), existing.ID, updates); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelete_EmptyID(t *testing.T) {
	svc := newTestService(&mockDriverRepository{})

	err := svc.Delete(context.Background(), "")
	if err == nil {
		t.Fatal("expected invalid input error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected code %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
	}
}
