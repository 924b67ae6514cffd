package model

import "time"

type Vehicle struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PlateNumber  string    `json:"plate_number" bson:"plate_number" validate:"required,min=2,max=15"`
	Make         string    `json:"make" bson:"make" validate:"required,min=2,max=50"`
	Model        string    `json:"model" bson:"model" validate:"required,min=1,max=50"`
	Year         int       `json:"year" bson:"year" validate:"required,min=1980,max=2100"`
	Capacity     int       `json:"capacity" bson:"capacity" validate:"required,min=1,max=60"`
	VehicleClass string    `json:"vehicle_class" bson:"vehicle_class" validate:"required,oneof=sedan suv van minibus bus"`
	Status       string    `json:"status" bson:"status" validate:"required,oneof=active maintenance retired"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type VehicleUpdate struct {
	PlateNumber  string `json:"plate_number,omitempty" validate:"omitempty,min=2,max=15"`
	Make         string `json:"make,omitempty" validate:"omitempty,min=2,max=50"`
	Model        string `json:"model,omitempty" validate:"omitempty,min=1,max=50"`
	Year         *int   `json:"year,omitempty" validate:"omitempty,min=1980,max=2100"`
	Capacity     *int   `json:"capacity,omitempty" validate:"omitempty,min=1,max=60"`
	VehicleClass string `json:"vehicle_class,omitempty" validate:"omitempty,oneof=sedan suv van minibus bus"`
	Status       string `json:"status,omitempty" validate:"omitempty,oneof=active maintenance retired"`
}
