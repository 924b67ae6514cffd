package model

import "time"

type Driver struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name          string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Phone         string    `json:"phone" bson:"phone" validate:"required,e164"`
	LicenseNumber string    `json:"license_number" bson:"license_number" validate:"required,min=4,max=30"`
	LicenseExpiry string    `json:"license_expiry,omitempty" bson:"license_expiry,omitempty" validate:"omitempty,fleet_date"`
	Status        string    `json:"status" bson:"status" validate:"required,oneof=active suspended"`
	TimeZone      string    `json:"time_zone,omitempty" bson:"time_zone,omitempty" validate:"omitempty,timezone"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type DriverUpdate struct {
	Name          string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone         string `json:"phone,omitempty" validate:"omitempty,e164"`
	LicenseNumber string `json:"license_number,omitempty" validate:"omitempty,min=4,max=30"`
	LicenseExpiry string `json:"license_expiry,omitempty" validate:"omitempty,fleet_date"`
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=active suspended"`
	TimeZone      string `json:"time_zone,omitempty" validate:"omitempty,timezone"`
}
