// Package availability decides whether a driver or vehicle is free for a
// requested time slot given the trips already on its calendar. It is a pure
// computation: callers supply a snapshot of trips and get back a verdict,
// no queries are issued and no input is mutated.
package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fleetops/pkg/model"
)

const (
	ResourceDriver  = "driver"
	ResourceVehicle = "vehicle"

	// DefaultBufferHours is the grace period a resource stays occupied after
	// a trip's end when the caller does not specify one.
	DefaultBufferHours = 1.0

	// DefaultSlotWindowHours is the window assumed for a slot check when no
	// return time is given for the candidate slot.
	DefaultSlotWindowHours = 2.0
)

// Trip statuses that never constrain availability.
const (
	statusCompleted = "completed"
	statusCancelled = "cancelled"
)

// Options carries the tunables of a check. The zero value means "no buffer,
// two-hour slot window, evaluate against the current wall clock"; use
// DefaultOptions for the standard one-hour buffer.
type Options struct {
	BufferHours float64
	// SlotWindowHours sets the assumed slot length when the candidate slot
	// has no return time. Zero or negative falls back to two hours.
	SlotWindowHours float64
	Now             time.Time
}

func DefaultOptions() Options {
	return Options{BufferHours: DefaultBufferHours, SlotWindowHours: DefaultSlotWindowHours}
}

func (o Options) slotWindow() float64 {
	if o.SlotWindowHours <= 0 {
		return DefaultSlotWindowHours
	}
	return o.SlotWindowHours
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// Result is the verdict of a single-resource check. AvailableAt and
// ConflictingTrip are set only when the resource is busy.
type Result struct {
	IsAvailable     bool        `json:"is_available"`
	Reason          string      `json:"reason,omitempty"`
	AvailableAt     *time.Time  `json:"available_at,omitempty"`
	ConflictingTrip *model.Trip `json:"conflicting_trip,omitempty"`
}

// SlotResult is the verdict of a time-slot check. Unlike Result it reports
// every conflicting trip, not just the first.
type SlotResult struct {
	IsAvailable bool          `json:"is_available"`
	Conflicts   []*model.Trip `json:"conflicts,omitempty"`
	Reason      string        `json:"reason,omitempty"`
}

// serviceDurationHours estimates how long a trip occupies its resources when
// no explicit return time was recorded. The numbers are a dispatch heuristic
// only; they bound occupancy for conflict checking and guarantee nothing.
var serviceDurationHours = map[string]float64{
	"airport_pickup":   2,
	"airport_dropoff":  2,
	"one_way_transfer": 1.5,
	"round_trip":       4,
	"full_day":         8,
	"half_day":         4,
}

const fallbackDurationHours = 2.0

// EstimatedDurationHours returns the estimated occupancy in hours for a
// service type, falling back to two hours for unknown types.
func EstimatedDurationHours(serviceType string) float64 {
	if h, ok := serviceDurationHours[serviceType]; ok {
		return h
	}
	return fallbackDurationHours
}

// CheckResource reports whether the resource is free right now, scanning the
// supplied trips in order and stopping at the first conflict. Trips dated
// after Now never conflict; trips dated today or earlier conflict while Now
// falls inside their occupancy window [start, end+buffer).
func CheckResource(resourceID, resourceType string, trips []*model.Trip, opts Options) Result {
	now := wallClock(opts.now())
	today := now.Format("2006-01-02")

	for _, trip := range trips {
		if trip == nil || !references(trip, resourceID, resourceType) {
			continue
		}
		if trip.Status == statusCancelled || trip.Status == statusCompleted {
			continue
		}

		if trip.Date > today {
			// Future-dated trips do not make the resource busy now.
			continue
		}

		start, _, availableAt := occupancy(trip, opts.BufferHours)
		if !now.Before(start) && now.Before(availableAt) {
			at := availableAt
			return Result{
				IsAvailable:     false,
				Reason:          busyReason(resourceType, trip, availableAt),
				AvailableAt:     &at,
				ConflictingTrip: trip,
			}
		}
	}

	return Result{IsAvailable: true}
}

// CheckDriverSlot reports whether the driver is free for the candidate slot
// on targetDate. Only trips on the exact same calendar date are considered;
// occupancy spilling across midnight from an adjacent date is not detected.
// excludeTripID removes one trip from consideration, for re-checks while that
// trip is being edited.
func CheckDriverSlot(driverID, targetDate, targetTime string, trips []*model.Trip, targetReturnTime, excludeTripID string, opts Options) SlotResult {
	return checkSlot(targetDate, targetTime, targetReturnTime, excludeTripID, trips, opts, func(t *model.Trip) bool {
		return t.DriverID == driverID
	})
}

// CheckVehicleSlot is CheckDriverSlot for vehicles; a trip occupies a vehicle
// referenced as either the primary vehicle or one of the escorts.
func CheckVehicleSlot(vehicleID, targetDate, targetTime string, trips []*model.Trip, targetReturnTime, excludeTripID string, opts Options) SlotResult {
	return checkSlot(targetDate, targetTime, targetReturnTime, excludeTripID, trips, opts, func(t *model.Trip) bool {
		return t.ReferencesVehicle(vehicleID)
	})
}

func checkSlot(targetDate, targetTime, targetReturnTime, excludeTripID string, trips []*model.Trip, opts Options, matches func(*model.Trip) bool) SlotResult {
	day := parseDate(targetDate)
	targetStart := day.Add(clockOffset(targetTime))

	var targetEnd time.Time
	if targetReturnTime != "" {
		targetEnd = day.Add(clockOffset(targetReturnTime))
	} else {
		targetEnd = targetStart.Add(hours(opts.slotWindow()))
	}

	var conflicts []*model.Trip
	for _, trip := range trips {
		if trip == nil || (excludeTripID != "" && trip.ID == excludeTripID) {
			continue
		}
		if !matches(trip) {
			continue
		}
		if trip.Status == statusCancelled || trip.Status == statusCompleted {
			continue
		}
		if trip.Date != targetDate {
			// Cross-date occupancy is out of scope for slot checks.
			continue
		}

		start, _, availableAt := occupancy(trip, opts.BufferHours)
		if windowsConflict(targetStart, targetEnd, start, availableAt) {
			conflicts = append(conflicts, trip)
		}
	}

	if len(conflicts) == 0 {
		return SlotResult{IsAvailable: true}
	}

	return SlotResult{
		IsAvailable: false,
		Conflicts:   conflicts,
		Reason: fmt.Sprintf("Conflicts with %d existing trip(s) (including %sh buffer)",
			len(conflicts), formatHours(opts.BufferHours)),
	}
}

// windowsConflict applies the interval-overlap rule: the slot start is checked
// against [bookedStart, bookedAvailable) and the slot end against
// (bookedStart, bookedAvailable], so a slot starting exactly when the booked
// window frees up does not conflict. A slot fully containing the booked
// window always conflicts.
func windowsConflict(targetStart, targetEnd, bookedStart, bookedAvailable time.Time) bool {
	startsInside := !targetStart.Before(bookedStart) && targetStart.Before(bookedAvailable)
	endsInside := targetEnd.After(bookedStart) && !targetEnd.After(bookedAvailable)
	contains := !targetStart.After(bookedStart) && !targetEnd.Before(bookedAvailable)
	return startsInside || endsInside || contains
}

// occupancy computes the trip's [start, end] and the moment the resource
// frees up again (end plus buffer). The end falls back to the service-type
// duration estimate when no return time is recorded.
func occupancy(trip *model.Trip, bufferHours float64) (start, end, availableAt time.Time) {
	day := parseDate(trip.Date)
	start = day.Add(clockOffset(trip.StartTime))

	if trip.ReturnTime != "" {
		end = day.Add(clockOffset(trip.ReturnTime))
	} else {
		end = start.Add(hours(EstimatedDurationHours(trip.ServiceType)))
	}

	availableAt = end.Add(hours(bufferHours))
	return start, end, availableAt
}

func references(trip *model.Trip, resourceID, resourceType string) bool {
	switch resourceType {
	case ResourceVehicle:
		return trip.ReferencesVehicle(resourceID)
	default:
		return trip.DriverID == resourceID
	}
}

func busyReason(resourceType string, trip *model.Trip, availableAt time.Time) string {
	label := "Driver"
	if resourceType == ResourceVehicle {
		label = "Vehicle"
	}
	return fmt.Sprintf("%s is occupied by a %s trip until %s",
		label, trip.ServiceType, availableAt.Format("2006-01-02 15:04"))
}

// parseDate parses a calendar date in YYYY-MM-DD form. Malformed input
// degrades to the zero date rather than failing; slot checks compare dates
// as strings, so a bad date only affects the absolute timestamps.
func parseDate(date string) time.Time {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}
	}
	return d
}

// clockOffset converts an HH:MM wall-clock string into an offset from
// midnight. Malformed or missing values default to midnight.
func clockOffset(clock string) time.Duration {
	h, m, ok := splitClock(clock)
	if !ok {
		return 0
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
}

func splitClock(clock string) (h, m int, ok bool) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, errH := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errH != nil || errM != nil || h < 0 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

// wallClock strips the location from a timestamp so comparisons against
// parsed trip times are plain wall-clock arithmetic, matching how dispatchers
// enter dates and times.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
