package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "fleetops"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Grace period a resource stays occupied after a trip's estimated end.
	DefaultDefaultBufferHours = 1.0
	// Window assumed for a slot check when no return time is given.
	DefaultDefaultSlotWindowHours = 2.0

	DefaultMaxEscortVehicles = 5

	DefaultPaginationLimit = 100

	DefaultKafkaEnabled = false
)

// Trip statuses.
const (
	TripScheduled  = "scheduled"
	TripInProgress = "in_progress"
	TripCompleted  = "completed"
	TripCancelled  = "cancelled"
)

// Driver statuses.
const (
	DriverActive    = "active"
	DriverSuspended = "suspended"
)

// Vehicle statuses.
const (
	VehicleActive      = "active"
	VehicleMaintenance = "maintenance"
	VehicleRetired     = "retired"
)

// Service types with their estimated durations live in pkg/availability.
const (
	ServiceAirportPickup  = "airport_pickup"
	ServiceAirportDropoff = "airport_dropoff"
	ServiceOneWayTransfer = "one_way_transfer"
	ServiceRoundTrip      = "round_trip"
	ServiceFullDay        = "full_day"
	ServiceHalfDay        = "half_day"
)
