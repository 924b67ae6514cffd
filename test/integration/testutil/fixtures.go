package testutil

import (
	"time"

	"fleetops/pkg/model"
)

type TripBuilder struct {
	trip model.Trip
}

func NewTripBuilder() *TripBuilder {
	return &TripBuilder{
		trip: model.Trip{
			DriverID:        "60c72b2f9b1e8a5f4c8b0001",
			VehicleID:       "60c72b2f9b1e8a5f4c8b0002",
			Date:            time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
			StartTime:       "09:00",
			ServiceType:     "one_way_transfer",
			Status:          "scheduled",
			PassengerName:   "Dana Mizrahi",
			PassengerPhone:  "+972501234567",
			PickupLocation:  "Ben Gurion Airport",
			DropoffLocation: "Dizengoff 100, Tel Aviv",
		},
	}
}

func (b *TripBuilder) WithDriver(driverID string) *TripBuilder {
	b.trip.DriverID = driverID
	return b
}

func (b *TripBuilder) WithVehicle(vehicleID string) *TripBuilder {
	b.trip.VehicleID = vehicleID
	return b
}

func (b *TripBuilder) WithEscorts(vehicleIDs ...string) *TripBuilder {
	b.trip.EscortVehicleIDs = vehicleIDs
	return b
}

func (b *TripBuilder) WithDate(date string) *TripBuilder {
	b.trip.Date = date
	return b
}

func (b *TripBuilder) WithSlot(startTime, returnTime string) *TripBuilder {
	b.trip.StartTime = startTime
	b.trip.ReturnTime = returnTime
	return b
}

func (b *TripBuilder) WithServiceType(serviceType string) *TripBuilder {
	b.trip.ServiceType = serviceType
	return b
}

func (b *TripBuilder) WithStatus(status string) *TripBuilder {
	b.trip.Status = status
	return b
}

func (b *TripBuilder) Build() model.Trip {
	return b.trip
}

func (b *TripBuilder) BuildPtr() *model.Trip {
	trip := b.trip
	return &trip
}

func ValidTrip() model.Trip {
	return NewTripBuilder().Build()
}

type DriverBuilder struct {
	driver model.Driver
}

func NewDriverBuilder() *DriverBuilder {
	return &DriverBuilder{
		driver: model.Driver{
			Name:          "Yossi Cohen",
			Phone:         "+972501234567",
			LicenseNumber: "IL-7743921",
			Status:        "active",
		},
	}
}

func (b *DriverBuilder) WithName(name string) *DriverBuilder {
	b.driver.Name = name
	return b
}

func (b *DriverBuilder) WithPhone(phone string) *DriverBuilder {
	b.driver.Phone = phone
	return b
}

func (b *DriverBuilder) WithStatus(status string) *DriverBuilder {
	b.driver.Status = status
	return b
}

func (b *DriverBuilder) Build() model.Driver {
	return b.driver
}

func ValidDriver() model.Driver {
	return NewDriverBuilder().Build()
}

type VehicleBuilder struct {
	vehicle model.Vehicle
}

func NewVehicleBuilder() *VehicleBuilder {
	return &VehicleBuilder{
		vehicle: model.Vehicle{
			PlateNumber:  "3456789",
			Make:         "Toyota",
			Model:        "Hiace",
			Year:         2023,
			Capacity:     12,
			VehicleClass: "van",
			Status:       "active",
		},
	}
}

func (b *VehicleBuilder) WithPlate(plateNumber string) *VehicleBuilder {
	b.vehicle.PlateNumber = plateNumber
	return b
}

func (b *VehicleBuilder) WithClass(vehicleClass string) *VehicleBuilder {
	b.vehicle.VehicleClass = vehicleClass
	return b
}

func (b *VehicleBuilder) WithStatus(status string) *VehicleBuilder {
	b.vehicle.Status = status
	return b
}

func (b *VehicleBuilder) Build() model.Vehicle {
	return b.vehicle
}

func ValidVehicle() model.Vehicle {
	return NewVehicleBuilder().Build()
}
