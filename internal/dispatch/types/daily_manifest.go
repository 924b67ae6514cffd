package types

import (
	"fmt"
	"strings"
	"time"
)

// DailyManifestInput defines the parameters for the daily_manifest flow.
type DailyManifestInput struct {
	// Date of the manifest in YYYY-MM-DD form; defaults to today.
	Date string `json:"date,omitempty"`

	// Optional narrowing to a single driver.
	DriverID string `json:"driver_id,omitempty"`
}

// DailyManifest is the manifest for one fleet day: every active driver with
// the trips assigned to them, in departure order.
type DailyManifest struct {
	Date    string            `json:"date"`
	Drivers []*ManifestDriver `json:"drivers"`
}

type ManifestDriver struct {
	DriverID string          `json:"driver_id"`
	Name     string          `json:"name"`
	Phone    string          `json:"phone"`
	TimeZone string          `json:"time_zone,omitempty"`
	Trips    []*ManifestTrip `json:"trips"`
}

type ManifestTrip struct {
	TripID          string `json:"trip_id"`
	StartTime       string `json:"start_time"`
	ReturnTime      string `json:"return_time,omitempty"`
	ServiceType     string `json:"service_type"`
	Status          string `json:"status"`
	PassengerName   string `json:"passenger_name,omitempty"`
	PickupLocation  string `json:"pickup_location,omitempty"`
	DropoffLocation string `json:"dropoff_location,omitempty"`
	VehiclePlate    string `json:"vehicle_plate,omitempty"`
}

func (i *DailyManifestInput) Validate() error {
	var errs []string

	if i.Date != "" {
		if _, err := time.Parse("2006-01-02", i.Date); err != nil {
			errs = append(errs, "date must be in YYYY-MM-DD format")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// FromMapDailyManifest builds a DailyManifestInput from a raw flow input map,
// applying the today default, and validates it.
func FromMapDailyManifest(input map[string]any) (*DailyManifestInput, error) {
	i := &DailyManifestInput{}

	if date, ok := input["date"].(string); ok {
		i.Date = date
	}
	if driverID, ok := input["driver_id"].(string); ok {
		i.DriverID = driverID
	}

	if i.Date == "" {
		i.Date = time.Now().Format("2006-01-02")
	}

	if err := i.Validate(); err != nil {
		return nil, err
	}

	return i, nil
}
