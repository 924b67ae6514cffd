package model

import (
	"time"
)

// Trip is a scheduled use of a driver and vehicle. Date and times are kept as
// local wall-clock strings exactly as entered by dispatchers; ReturnTime is
// empty for one-way trips, in which case the occupancy end is estimated from
// the service type.
type Trip struct {
	ID               string   `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	DriverID         string   `json:"driver_id" bson:"driver_id" validate:"required,mongodb"`
	VehicleID        string   `json:"vehicle_id" bson:"vehicle_id" validate:"required,mongodb"`
	EscortVehicleIDs []string `json:"escort_vehicle_ids,omitempty" bson:"escort_vehicle_ids,omitempty" validate:"omitempty,dive,mongodb"`
	Date             string   `json:"date" bson:"date" validate:"required,fleet_date"`
	StartTime        string   `json:"start_time" bson:"start_time" validate:"required,clock_time"`
	ReturnTime       string   `json:"return_time,omitempty" bson:"return_time,omitempty" validate:"omitempty,clock_time"`
	ServiceType      string   `json:"service_type" bson:"service_type" validate:"required,oneof=airport_pickup airport_dropoff one_way_transfer round_trip full_day half_day"`
	Status           string   `json:"status" bson:"status" validate:"required,oneof=scheduled in_progress completed cancelled"`
	PassengerName    string   `json:"passenger_name,omitempty" bson:"passenger_name,omitempty" validate:"omitempty,min=2,max=100"`
	PassengerPhone   string   `json:"passenger_phone,omitempty" bson:"passenger_phone,omitempty" validate:"omitempty,e164"`
	PickupLocation   string   `json:"pickup_location,omitempty" bson:"pickup_location,omitempty" validate:"omitempty,min=2,max=200"`
	DropoffLocation  string   `json:"dropoff_location,omitempty" bson:"dropoff_location,omitempty" validate:"omitempty,min=2,max=200"`
	Notes            string   `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type TripUpdate struct {
	DriverID         string    `json:"driver_id,omitempty" validate:"omitempty,mongodb"`
	VehicleID        string    `json:"vehicle_id,omitempty" validate:"omitempty,mongodb"`
	EscortVehicleIDs *[]string `json:"escort_vehicle_ids,omitempty" validate:"omitempty,dive,mongodb"`
	Date             string    `json:"date,omitempty" validate:"omitempty,fleet_date"`
	StartTime        string    `json:"start_time,omitempty" validate:"omitempty,clock_time"`
	ReturnTime       *string   `json:"return_time,omitempty" validate:"omitempty"`
	ServiceType      string    `json:"service_type,omitempty" validate:"omitempty,oneof=airport_pickup airport_dropoff one_way_transfer round_trip full_day half_day"`
	Status           string    `json:"status,omitempty" validate:"omitempty,oneof=scheduled in_progress completed cancelled"`
	PassengerName    string    `json:"passenger_name,omitempty" validate:"omitempty,min=2,max=100"`
	PassengerPhone   string    `json:"passenger_phone,omitempty" validate:"omitempty,e164"`
	PickupLocation   string    `json:"pickup_location,omitempty" validate:"omitempty,min=2,max=200"`
	DropoffLocation  string    `json:"dropoff_location,omitempty" validate:"omitempty,min=2,max=200"`
	Notes            *string   `json:"notes,omitempty" validate:"omitempty"`
}

// ReferencesVehicle reports whether the trip occupies the given vehicle,
// either as the primary vehicle or as one of the escorts.
func (t *Trip) ReferencesVehicle(vehicleID string) bool {
	if t.VehicleID == vehicleID {
		return true
	}
	for _, id := range t.EscortVehicleIDs {
		if id == vehicleID {
			return true
		}
	}
	return false
}
