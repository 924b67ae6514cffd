package sanitizer

const (
	MinVehicleCapacity = 1

	MaxVehicleCapacity = 60
)

func NormalizeCapacity(capacity int64) int64 {
	if capacity < MinVehicleCapacity {
		return MinVehicleCapacity
	}
	if capacity > MaxVehicleCapacity {
		return MaxVehicleCapacity
	}
	return capacity
}
