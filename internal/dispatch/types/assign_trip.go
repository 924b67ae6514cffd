package types

import (
	"fmt"
	"strings"
	"time"
)

// AssignTripInput is the payload for the assign_trip flow.
type AssignTripInput struct {
	DriverID  string `json:"driver_id" validate:"required,mongodb"`
	VehicleID string `json:"vehicle_id" validate:"required,mongodb"`

	Date       string `json:"date" validate:"required"`
	StartTime  string `json:"start_time" validate:"required"`
	ReturnTime string `json:"return_time,omitempty"`

	ServiceType string `json:"service_type,omitempty"`

	PassengerName  string `json:"passenger_name,omitempty"`
	PassengerPhone string `json:"passenger_phone,omitempty"`

	PickupLocation  string `json:"pickup_location,omitempty"`
	DropoffLocation string `json:"dropoff_location,omitempty"`
}

func (i *AssignTripInput) Validate() error {
	var errs []string

	if strings.TrimSpace(i.DriverID) == "" {
		errs = append(errs, "driver_id is required")
	}
	if strings.TrimSpace(i.VehicleID) == "" {
		errs = append(errs, "vehicle_id is required")
	}
	if _, err := time.Parse("2006-01-02", i.Date); err != nil {
		errs = append(errs, "date must be in YYYY-MM-DD format")
	}
	if _, err := time.Parse("15:04", i.StartTime); err != nil {
		errs = append(errs, "start_time must be in HH:MM format")
	}
	if i.ReturnTime != "" {
		if _, err := time.Parse("15:04", i.ReturnTime); err != nil {
			errs = append(errs, "return_time must be in HH:MM format")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// FromMapAssignTrip builds an AssignTripInput from a raw flow input map and
// validates it.
func FromMapAssignTrip(input map[string]any) (*AssignTripInput, error) {
	i := &AssignTripInput{}

	str := func(key string) string {
		v, _ := input[key].(string)
		return v
	}

	i.DriverID = str("driver_id")
	i.VehicleID = str("vehicle_id")
	i.Date = str("date")
	i.StartTime = str("start_time")
	i.ReturnTime = str("return_time")
	i.ServiceType = str("service_type")
	i.PassengerName = str("passenger_name")
	i.PassengerPhone = str("passenger_phone")
	i.PickupLocation = str("pickup_location")
	i.DropoffLocation = str("dropoff_location")

	if err := i.Validate(); err != nil {
		return nil, err
	}

	return i, nil
}
