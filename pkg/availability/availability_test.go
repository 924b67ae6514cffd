package availability

import (
	"testing"
	"time"

	"fleetops/pkg/model"
)

func trip(id, driverID, vehicleID, date, start, ret, serviceType, status string) *model.Trip {
	return &model.Trip{
		ID:          id,
		DriverID:    driverID,
		VehicleID:   vehicleID,
		Date:        date,
		StartTime:   start,
		ReturnTime:  ret,
		ServiceType: serviceType,
		Status:      status,
	}
}

func at(date, clock string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		panic(err)
	}
	return t
}

func TestEstimatedDurationHours(t *testing.T) {
	tests := []struct {
		serviceType string
		want        float64
	}{
		{"airport_pickup", 2},
		{"airport_dropoff", 2},
		{"one_way_transfer", 1.5},
		{"round_trip", 4},
		{"full_day", 8},
		{"half_day", 4},
		{"unknown_type", 2},
		{"", 2},
	}

	for _, tt := range tests {
		t.Run(tt.serviceType, func(t *testing.T) {
			if got := EstimatedDurationHours(tt.serviceType); got != tt.want {
				t.Errorf("EstimatedDurationHours(%q) = %g, want %g", tt.serviceType, got, tt.want)
			}
		})
	}
}

func TestCheckDriverSlot_CancelledTripsNeverConflict(t *testing.T) {
	trips := []*model.Trip{
		trip("t1", "d1", "v1", "2024-03-10", "09:00", "17:00", "full_day", "cancelled"),
	}

	res := CheckDriverSlot("d1", "2024-03-10", "10:00", trips, "", "", DefaultOptions())
	if !res.IsAvailable {
		t.Fatalf("cancelled trip must not conflict, got reason %q", res.Reason)
	}
	if len(res.Conflicts) != 0 {
		t.Errorf("expected no conflicts, got %d", len(res.Conflicts))
	}
}

func TestCheckDriverSlot_CompletedTripsNeverConflict(t *testing.T) {
	// Completed overrides date/time entirely, even for future-dated trips.
	trips := []*model.Trip{
		trip("t1", "d1", "v1", "2024-03-10", "09:00", "17:00", "full_day", "completed"),
	}

	res := CheckDriverSlot("d1", "2024-03-10", "10:00", trips, "", "", DefaultOptions())
	if !res.IsAvailable {
		t.Fatalf("completed trip must not conflict, got reason %q", res.Reason)
	}

	single := CheckResource("d1", ResourceDriver, trips, Options{
		BufferHours: 1,
		Now:         at("2024-03-09", "12:00"), // trip date still in the future
	})
	if !single.IsAvailable {
		t.Errorf("completed trip must not constrain CheckResource even when future-dated")
	}
}

func TestCheckDriverSlot_SlotWindowHoursOption(t *testing.T) {
	// Trip 12:00-14:00 with no buffer. A 10:00 slot with the default 2h
	// window ends at 12:00 and stays clear; widening the window to 3h
	// reaches into the trip.
	trips := []*model.Trip{
		trip("t1", "d1", "v1", "2024-03-10", "12:00", "14:00", "one_way_transfer", "scheduled"),
	}

	res := CheckDriverSlot("d1", "2024-03-10", "10:00", trips, "", "", Options{})
	if !res.IsAvailable {
		t.Fatalf("default 2h window must not reach the 12:00 trip, got reason %q", res.Reason)
	}

	res = CheckDriverSlot("d1", "2024-03-10", "10:00", trips, "", "", Options{SlotWindowHours: 3})
	if res.IsAvailable {
		t.Fatal("3h window ending at 13:00 must conflict with the 12:00 trip")
	}

	// An explicit return time still wins over the configured window.
	res = CheckDriverSlot("d1", "2024-03-10", "10:00", trips, "11:00", "", Options{SlotWindowHours: 5})
	if !res.IsAvailable {
		t.Errorf("explicit return time must override the window, got reason %q", res.Reason)
	}
}

func TestCheckDriverSlot_NonOverlappingWindows(t *testing.T) {
	// Trip 09:00-10:00 with a 1h buffer frees the driver at 11:00.
	trips := []*model.Trip{
		trip("t1", "d1", "v1", "2024-03-10", "09:00", "10:00", "one_way_transfer", "scheduled"),
	}

	res := CheckDriverSlot("d1", "2024-03-10", "11:30", trips, "", "", Options{BufferHours: 1})
	if !res.IsAvailable {
		t.Fatalf("expected 11:30 slot to be free, got reason %q", res.Reason)
	}
}

func TestCheckDriverSlot_ExactBoundary(t *testing.T) {
	// Occupancy ends (with buffer) at exactly 11:00: the end boundary is
	// exclusive on the available side.
	trips := []*model.Trip{
		trip("t1", "d1", "v1", "2024-03-10", "09:00", "10:00", "one_way_transfer", "scheduled"),
	}

	res := CheckDriverSlot("d1", "2024-03-10", "11:00", trips, "", "", Options{BufferHours: 1})
	if !res.IsAvailable {
		t.Errorf("slot starting exactly at the free-up time must not conflict, got %q", res.Reason)
	}

	res = CheckDriverSlot("d1", "2024-03-10", "10:59", trips, "", "", Options{BufferHours: 1})
	if res.IsAvailable {
		t.Errorf("slot starting one minute before the free-up time must conflict")
	}
}

func TestCheckDriverSlot_ContainmentConflict(t *testing.T) {
	// Neither slot boundary falls inside the booked window, but the slot
	// swallows it whole.
	trips := []*model.Trip{
		trip("t1", "d1", "v1", "2024-03-10", "10:00", "11:00", "one_way_transfer", "scheduled"),
	}

	res := CheckDriverSlot("d1", "2024-03-10", "08:00", trips, "18:00", "", Options{BufferHours: 0})
	if res.IsAvailable {
		t.Fatalf("slot containing the booked window must conflict")
	}
	if len(res.Conflicts) != 1 || res.Conflicts[0].ID != "t1" {
		t.Errorf("expected t1 as the conflict, got %+v", res.Conflicts)
	}
}

func TestCheckVehicleSlot_EscortVehicleMatches(t *testing.T) {
	booked := trip("t1", "d1", "v1", "2024-03-10", "09:00", "12:00", "round_trip", "scheduled")
	booked.EscortVehicleIDs = []string{"v2", "v3"}
	trips := []*model.Trip{booked}

	res := CheckVehicleSlot("v2", "2024-03-10", "10:00", trips, "", "", DefaultOptions())
	if res.IsAvailable {
		t.Fatalf("escort vehicle must be detected as occupied")
	}

	res = CheckVehicleSlot("v9", "2024-03-10", "10:00", trips, "", "", DefaultOptions())
	if !res.IsAvailable {
		t.Errorf("unrelated vehicle must be free")
	}
}

func TestCheckDriverSlot_DifferentDateIsolation(t *testing.T) {
	// Cross-date occupancy is never considered by slot checks even when the
	// window would spill past midnight.
	trips := []*model.Trip{
		trip("t1", "d1", "v1", "2024-01-01", "23:00", "", "full_day", "in_progress"),
	}

	res := CheckDriverSlot("d1", "2024-01-02", "06:00", trips, "", "", DefaultOptions())
	if !res.IsAvailable {
		t.Errorf("trips on an adjacent date must never appear in conflicts, got %q", res.Reason)
	}
}

func TestOccupancy_DurationFallbackDeterminism(t *testing.T) {
	booked := trip("t1", "d1", "v1", "2024-03-10", "09:00", "", "round_trip", "scheduled")

	start, end, availableAt := occupancy(booked, 0)
	if want := at("2024-03-10", "09:00"); !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
	if want := at("2024-03-10", "13:00"); !end.Equal(want) {
		t.Errorf("round_trip without return time must end start+4h, got %v", end)
	}
	if !availableAt.Equal(end) {
		t.Errorf("zero buffer must free the resource at the end, got %v", availableAt)
	}
}

func TestCheckDriverSlot_ExcludeByID(t *testing.T) {
	trips := []*model.Trip{
		trip("t1", "d1", "v1", "2024-03-10", "09:00", "12:00", "round_trip", "scheduled"),
	}

	res := CheckDriverSlot("d1", "2024-03-10", "10:00", trips, "", "t1", DefaultOptions())
	if !res.IsAvailable {
		t.Errorf("excluded trip must be removed from consideration, got %q", res.Reason)
	}

	res = CheckDriverSlot("d1", "2024-03-10", "10:00", trips, "", "other", DefaultOptions())
	if res.IsAvailable {
		t.Errorf("exclusion of an unrelated id must not mask the conflict")
	}
}

func TestCheckDriverSlot_ExampleScenario(t *testing.T) {
	// one_way_transfer at 09:00, estimated 1.5h, 1h buffer: occupied
	// until 11:30.
	trips := []*model.Trip{
		trip("t1", "d1", "v1", "2024-03-10", "09:00", "", "one_way_transfer", "scheduled"),
	}

	res := CheckDriverSlot("d1", "2024-03-10", "11:00", trips, "", "", Options{BufferHours: 1})
	if res.IsAvailable {
		t.Fatalf("11:00 slot must conflict with occupancy ending 11:30")
	}
	if len(res.Conflicts) != 1 || res.Conflicts[0].ID != "t1" {
		t.Errorf("expected t1 in conflicts, got %+v", res.Conflicts)
	}
	if got := res.Reason; got != "Conflicts with 1 existing trip(s) (including 1h buffer)" {
		t.Errorf("unexpected reason %q", got)
	}

	res = CheckDriverSlot("d1", "2024-03-10", "11:30", trips, "", "", Options{BufferHours: 1})
	if !res.IsAvailable {
		t.Errorf("11:30 slot must be free, got %q", res.Reason)
	}
}

func TestCheckDriverSlot_CollectsAllConflicts(t *testing.T) {
	trips := []*model.Trip{
		trip("t1", "d1", "v1", "2024-03-10", "08:00", "09:30", "one_way_transfer", "scheduled"),
		trip("t2", "d1", "v1", "2024-03-10", "11:00", "12:00", "one_way_transfer", "scheduled"),
		trip("t3", "d2", "v2", "2024-03-10", "09:00", "10:00", "one_way_transfer", "scheduled"),
	}

	res := CheckDriverSlot("d1", "2024-03-10", "09:00", trips, "13:00", "", Options{BufferHours: 1})
	if res.IsAvailable {
		t.Fatalf("expected conflicts")
	}
	if len(res.Conflicts) != 2 {
		t.Fatalf("expected both of d1's trips in conflicts, got %d", len(res.Conflicts))
	}
	if res.Reason != "Conflicts with 2 existing trip(s) (including 1h buffer)" {
		t.Errorf("unexpected reason %q", res.Reason)
	}
}

func TestCheckDriverSlot_MalformedTimesDefaultToMidnight(t *testing.T) {
	// Defensive parsing: a malformed start time reads as 00:00, so a
	// round_trip occupies [00:00, 05:00) with a 1h buffer.
	trips := []*model.Trip{
		trip("t1", "d1", "v1", "2024-03-10", "garbage", "", "round_trip", "scheduled"),
	}

	res := CheckDriverSlot("d1", "2024-03-10", "04:30", trips, "", "", Options{BufferHours: 1})
	if res.IsAvailable {
		t.Errorf("04:30 slot must conflict with the midnight-defaulted occupancy")
	}

	res = CheckDriverSlot("d1", "2024-03-10", "05:00", trips, "", "", Options{BufferHours: 1})
	if !res.IsAvailable {
		t.Errorf("05:00 slot must be free of the midnight-defaulted occupancy, got %q", res.Reason)
	}
}

func TestCheckResource_FirstConflictShortCircuit(t *testing.T) {
	now := at("2024-03-10", "10:00")
	trips := []*model.Trip{
		trip("t1", "d1", "v1", "2024-03-10", "09:00", "12:00", "round_trip", "in_progress"),
		trip("t2", "d1", "v2", "2024-03-10", "09:30", "11:00", "one_way_transfer", "scheduled"),
	}

	res := CheckResource("d1", ResourceDriver, trips, Options{BufferHours: 1, Now: now})
	if res.IsAvailable {
		t.Fatalf("driver mid-trip must be unavailable")
	}
	if res.ConflictingTrip == nil || res.ConflictingTrip.ID != "t1" {
		t.Errorf("expected the first matching conflict (input order), got %+v", res.ConflictingTrip)
	}
	if res.AvailableAt == nil || !res.AvailableAt.Equal(at("2024-03-10", "13:00")) {
		t.Errorf("expected available at 13:00 (12:00 + 1h buffer), got %v", res.AvailableAt)
	}
	if res.Reason == "" {
		t.Errorf("expected a human-readable reason")
	}
}

func TestCheckResource_FutureDatedTripDoesNotBlock(t *testing.T) {
	trips := []*model.Trip{
		trip("t1", "d1", "v1", "2024-03-11", "09:00", "12:00", "round_trip", "scheduled"),
	}

	res := CheckResource("d1", ResourceDriver, trips, Options{BufferHours: 1, Now: at("2024-03-10", "10:00")})
	if !res.IsAvailable {
		t.Errorf("tomorrow's trip must not make the driver busy today, got %q", res.Reason)
	}
}

func TestCheckResource_PastDateSpilloverBlocksUntilExpiry(t *testing.T) {
	// full_day starting 23:00 yesterday occupies until 08:00 today with a
	// 1h buffer; the single-resource check does reason across dates.
	trips := []*model.Trip{
		trip("t1", "d1", "v1", "2024-03-09", "23:00", "", "full_day", "in_progress"),
	}

	res := CheckResource("d1", ResourceDriver, trips, Options{BufferHours: 1, Now: at("2024-03-10", "07:00")})
	if res.IsAvailable {
		t.Fatalf("driver still on yesterday's trip must be unavailable")
	}
	if res.AvailableAt == nil || !res.AvailableAt.Equal(at("2024-03-10", "08:00")) {
		t.Errorf("expected expiry 08:00, got %v", res.AvailableAt)
	}

	res = CheckResource("d1", ResourceDriver, trips, Options{BufferHours: 1, Now: at("2024-03-10", "08:00")})
	if !res.IsAvailable {
		t.Errorf("driver must free up exactly at the expiry time, got %q", res.Reason)
	}
}

func TestCheckResource_VehicleEscortReference(t *testing.T) {
	booked := trip("t1", "d1", "v1", "2024-03-10", "09:00", "12:00", "round_trip", "in_progress")
	booked.EscortVehicleIDs = []string{"v2"}
	trips := []*model.Trip{booked}
	now := at("2024-03-10", "10:00")

	res := CheckResource("v2", ResourceVehicle, trips, Options{BufferHours: 1, Now: now})
	if res.IsAvailable {
		t.Errorf("escort vehicle must be busy during the trip")
	}

	res = CheckResource("v2", ResourceDriver, trips, Options{BufferHours: 1, Now: now})
	if !res.IsAvailable {
		t.Errorf("driver lookup for a vehicle id must not match")
	}
}

func TestClockOffset_DefensiveParsing(t *testing.T) {
	tests := []struct {
		clock string
		want  time.Duration
	}{
		{"09:30", 9*time.Hour + 30*time.Minute},
		{"00:00", 0},
		{"23:59", 23*time.Hour + 59*time.Minute},
		{"", 0},
		{"garbage", 0},
		{"9", 0},
		{"09:xx", 0},
		{"-1:00", 0},
		{"09:75", 0},
	}

	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			if got := clockOffset(tt.clock); got != tt.want {
				t.Errorf("clockOffset(%q) = %v, want %v", tt.clock, got, tt.want)
			}
		})
	}
}
