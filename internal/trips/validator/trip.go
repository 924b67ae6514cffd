package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fleetops/pkg/logger"
	"fleetops/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type TripValidator struct {
	validate   *validator.Validate
	logger     *logger.Logger
	maxEscorts int
}

func NewTripValidator(log *logger.Logger, maxEscorts int) *TripValidator {
	v := validator.New()

	if err := v.RegisterValidation("fleet_date", validateFleetDate); err != nil {
		log.Fatal("Failed to register 'fleet_date' validator", "error", err)
	}
	if err := v.RegisterValidation("clock_time", validateClockTime); err != nil {
		log.Fatal("Failed to register 'clock_time' validator", "error", err)
	}

	log.Info("Trip validator initialized successfully")

	return &TripValidator{
		validate:   v,
		logger:     log,
		maxEscorts: maxEscorts,
	}
}

// validateFleetDate accepts calendar dates in YYYY-MM-DD form.
func validateFleetDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

// validateClockTime accepts wall-clock times in HH:MM form.
func validateClockTime(fl validator.FieldLevel) bool {
	_, err := time.Parse("15:04", fl.Field().String())
	return err == nil
}

func (v *TripValidator) Validate(trip *model.Trip) error {
	if err := v.validate.Struct(trip); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if len(trip.EscortVehicleIDs) > v.maxEscorts {
		return ValidationErrors{
			ValidationError{
				Field:   "EscortVehicleIDs",
				Message: fmt.Sprintf("escort vehicle count (%d) exceeds maximum (%d)", len(trip.EscortVehicleIDs), v.maxEscorts),
			},
		}
	}

	for _, escortID := range trip.EscortVehicleIDs {
		if escortID == trip.VehicleID {
			return ValidationErrors{
				ValidationError{
					Field:   "EscortVehicleIDs",
					Message: "primary vehicle cannot also be an escort",
				},
			}
		}
	}

	if trip.ReturnTime != "" && trip.ReturnTime <= trip.StartTime {
		return ValidationErrors{
			ValidationError{
				Field:   "ReturnTime",
				Message: "return_time must be after start_time",
			},
		}
	}

	return nil
}

func (v *TripValidator) ValidateUpdate(update *model.TripUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if update.ReturnTime != nil && *update.ReturnTime != "" {
		if _, err := time.Parse("15:04", *update.ReturnTime); err != nil {
			return ValidationErrors{
				ValidationError{
					Field:   "ReturnTime",
					Message: "return_time must be in HH:MM format",
				},
			}
		}
	}

	return nil
}

func (v *TripValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +972501234567)", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "fleet_date":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		case "clock_time":
			message = fmt.Sprintf("%s must be a time in HH:MM format", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
