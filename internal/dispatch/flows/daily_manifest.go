package flows

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"fleetops/internal/dispatch/core"
	"fleetops/internal/dispatch/types"
	"fleetops/pkg/client"
	"fleetops/pkg/config"
	"fleetops/pkg/model"
)

const (
	manifestInput   = "manifest_input"
	manifestDrivers = "manifest_drivers"
	manifestTrips   = "manifest_trips"

	maxManifestDrivers = 200
)

// DailyManifestFlow assembles the fleet's day at a glance: every active
// driver with their trips for the date, plates resolved, in departure order.
type DailyManifestFlow struct{}

func (DailyManifestFlow) Name() string { return "daily_manifest" }

func (DailyManifestFlow) Steps() []*core.Step {
	return []*core.Step{
		core.NewStep("parse_input", parseManifestInput),
		core.NewStep("list_drivers", listManifestDrivers),
		core.NewStep("fetch_trips", fetchManifestTrips),
		core.NewStep("assemble_manifest", assembleManifest),
	}
}

func parseManifestInput(ctx *core.FlowContext) error {
	input, err := types.FromMapDailyManifest(ctx.Input)
	if err != nil {
		return err
	}
	ctx.Process[manifestInput] = input
	return nil
}

func listManifestDrivers(ctx *core.FlowContext) error {
	input := ctx.Process[manifestInput].(*types.DailyManifestInput)

	if input.DriverID != "" {
		resp, err := ctx.Client.Drivers.GetByID(input.DriverID)
		if err != nil {
			return fmt.Errorf("failed to load driver %s: %w", input.DriverID, err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("driver %s not found: %s", input.DriverID, client.GetErrorMessage(resp))
		}
		driver, err := ctx.Client.Drivers.DecodeDriver(resp)
		if err != nil {
			return err
		}
		ctx.Process[manifestDrivers] = []*model.Driver{driver}
		return nil
	}

	resp, err := ctx.Client.Drivers.GetAll(maxManifestDrivers, 0)
	if err != nil {
		return fmt.Errorf("failed to list drivers: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("driver listing rejected: %s", client.GetErrorMessage(resp))
	}

	drivers, _, err := ctx.Client.Drivers.DecodeDrivers(resp)
	if err != nil {
		return err
	}

	active := make([]*model.Driver, 0, len(drivers))
	for _, driver := range drivers {
		if driver.Status == config.DriverActive {
			active = append(active, driver)
		}
	}

	ctx.Process[manifestDrivers] = active
	return nil
}

func fetchManifestTrips(ctx *core.FlowContext) error {
	input := ctx.Process[manifestInput].(*types.DailyManifestInput)
	drivers := ctx.Process[manifestDrivers].([]*model.Driver)

	trips := make(map[string][]*model.Trip, len(drivers))
	var mu sync.Mutex
	var wg sync.WaitGroup
	var firstErr error

	for _, driver := range drivers {
		wg.Add(1)
		go func(driver *model.Driver) {
			defer wg.Done()
			core.RunWithRateLimitedConcurrency(func() {
				driverTrips, err := searchDriverTrips(ctx, driver.ID, input.Date)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					return
				}
				trips[driver.ID] = driverTrips
			})
		}(driver)
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}

	ctx.Process[manifestTrips] = trips
	return nil
}

func searchDriverTrips(ctx *core.FlowContext, driverID, date string) ([]*model.Trip, error) {
	resp, err := ctx.Client.Trips.Search(driverID, "", date, config.DefaultPaginationLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("trip search for driver %s failed: %w", driverID, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trip search for driver %s rejected: %s", driverID, client.GetErrorMessage(resp))
	}
	return ctx.Client.Trips.DecodeTrips(resp)
}

func assembleManifest(ctx *core.FlowContext) error {
	input := ctx.Process[manifestInput].(*types.DailyManifestInput)
	drivers := ctx.Process[manifestDrivers].([]*model.Driver)
	trips := ctx.Process[manifestTrips].(map[string][]*model.Trip)

	plates := map[string]string{}

	manifest := &types.DailyManifest{
		Date:    input.Date,
		Drivers: make([]*types.ManifestDriver, 0, len(drivers)),
	}

	for _, driver := range drivers {
		entry := &types.ManifestDriver{
			DriverID: driver.ID,
			Name:     driver.Name,
			Phone:    driver.Phone,
			TimeZone: driver.TimeZone,
			Trips:    []*types.ManifestTrip{},
		}

		driverTrips := trips[driver.ID]
		sort.Slice(driverTrips, func(i, j int) bool {
			return driverTrips[i].StartTime < driverTrips[j].StartTime
		})

		for _, trip := range driverTrips {
			if trip.Status == config.TripCancelled {
				continue
			}
			entry.Trips = append(entry.Trips, &types.ManifestTrip{
				TripID:          trip.ID,
				StartTime:       trip.StartTime,
				ReturnTime:      trip.ReturnTime,
				ServiceType:     trip.ServiceType,
				Status:          trip.Status,
				PassengerName:   trip.PassengerName,
				PickupLocation:  trip.PickupLocation,
				DropoffLocation: trip.DropoffLocation,
				VehiclePlate:    resolvePlate(ctx, plates, trip.VehicleID),
			})
		}

		manifest.Drivers = append(manifest.Drivers, entry)
	}

	ctx.Output["manifest"] = manifest
	return nil
}

// resolvePlate looks up a vehicle's plate, caching per flow run so a vehicle
// shared across trips is fetched once. Lookup failures leave the plate blank
// rather than failing the manifest.
func resolvePlate(ctx *core.FlowContext, plates map[string]string, vehicleID string) string {
	if plate, ok := plates[vehicleID]; ok {
		return plate
	}

	plate := ""
	resp, err := ctx.Client.Vehicles.GetByID(vehicleID)
	if err == nil && resp.StatusCode == http.StatusOK {
		if vehicle, decodeErr := ctx.Client.Vehicles.DecodeVehicle(resp); decodeErr == nil {
			plate = vehicle.PlateNumber
		}
	}
	if err != nil {
		ctx.Log.Warn("Failed to resolve vehicle plate", "vehicle_id", vehicleID, "error", err)
	}

	plates[vehicleID] = plate
	return plate
}
