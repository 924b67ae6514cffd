package flows

import (
	"fmt"
	"net/http"

	"fleetops/internal/dispatch/core"
	"fleetops/internal/dispatch/types"
	"fleetops/pkg/availability"
	"fleetops/pkg/client"
	"fleetops/pkg/config"
	"fleetops/pkg/model"
	"fleetops/pkg/sealer"
)

const (
	assignInput = "assign_input"
	createdTrip = "created_trip"
)

// AssignTripFlow books a trip end to end: it verifies the driver and vehicle
// are free for the slot, creates the trip, and seals an assignment token the
// driver app presents when starting the trip.
type AssignTripFlow struct{}

func (AssignTripFlow) Name() string { return "assign_trip" }

func (AssignTripFlow) Steps() []*core.Step {
	return []*core.Step{
		core.NewStep("parse_input", parseAssignInput),
		core.NewStep("fetch_driver", fetchDriver),
		core.NewStep("fetch_vehicle", fetchVehicle),
		core.NewStep("check_driver_slot", checkDriverSlot),
		core.NewStep("check_vehicle_slot", checkVehicleSlot),
		core.NewStep("create_trip", createTrip),
		core.NewStep("seal_assignment_token", sealAssignmentToken),
	}
}

func parseAssignInput(ctx *core.FlowContext) error {
	input, err := types.FromMapAssignTrip(ctx.Input)
	if err != nil {
		return err
	}
	ctx.Process[assignInput] = input
	return nil
}

func fetchDriver(ctx *core.FlowContext) error {
	input := ctx.Process[assignInput].(*types.AssignTripInput)

	resp, err := ctx.Client.Drivers.GetByID(input.DriverID)
	if err != nil {
		return fmt.Errorf("driver lookup failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("driver %s not found: %s", input.DriverID, client.GetErrorMessage(resp))
	}

	driver, err := ctx.Client.Drivers.DecodeDriver(resp)
	if err != nil {
		return err
	}
	if driver.Status != config.DriverActive {
		return fmt.Errorf("driver %s cannot take trips: status is %s", input.DriverID, driver.Status)
	}
	return nil
}

func fetchVehicle(ctx *core.FlowContext) error {
	input := ctx.Process[assignInput].(*types.AssignTripInput)

	resp, err := ctx.Client.Vehicles.GetByID(input.VehicleID)
	if err != nil {
		return fmt.Errorf("vehicle lookup failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vehicle %s not found: %s", input.VehicleID, client.GetErrorMessage(resp))
	}

	vehicle, err := ctx.Client.Vehicles.DecodeVehicle(resp)
	if err != nil {
		return err
	}
	if vehicle.Status != config.VehicleActive {
		return fmt.Errorf("vehicle %s cannot be dispatched: status is %s", input.VehicleID, vehicle.Status)
	}
	return nil
}

func checkDriverSlot(ctx *core.FlowContext) error {
	input := ctx.Process[assignInput].(*types.AssignTripInput)
	return checkSlot(ctx, availability.ResourceDriver, input.DriverID, input)
}

func checkVehicleSlot(ctx *core.FlowContext) error {
	input := ctx.Process[assignInput].(*types.AssignTripInput)
	return checkSlot(ctx, availability.ResourceVehicle, input.VehicleID, input)
}

func checkSlot(ctx *core.FlowContext, resourceType, resourceID string, input *types.AssignTripInput) error {
	resp, err := ctx.Client.Trips.CheckAvailability(resourceType, resourceID, input.Date, input.StartTime, input.ReturnTime, "")
	if err != nil {
		return fmt.Errorf("availability check for %s %s failed: %w", resourceType, resourceID, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("availability check for %s %s rejected: %s", resourceType, resourceID, client.GetErrorMessage(resp))
	}

	result, err := ctx.Client.Trips.DecodeSlotResult(resp)
	if err != nil {
		return err
	}
	if !result.IsAvailable {
		return fmt.Errorf("%s %s is not available: %s", resourceType, resourceID, result.Reason)
	}
	return nil
}

func createTrip(ctx *core.FlowContext) error {
	input := ctx.Process[assignInput].(*types.AssignTripInput)

	trip := &model.Trip{
		DriverID:        input.DriverID,
		VehicleID:       input.VehicleID,
		Date:            input.Date,
		StartTime:       input.StartTime,
		ReturnTime:      input.ReturnTime,
		ServiceType:     input.ServiceType,
		Status:          config.TripScheduled,
		PassengerName:   input.PassengerName,
		PassengerPhone:  input.PassengerPhone,
		PickupLocation:  input.PickupLocation,
		DropoffLocation: input.DropoffLocation,
	}

	resp, err := ctx.Client.Trips.Create(trip)
	if err != nil {
		return fmt.Errorf("trip creation failed: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("trip creation rejected: %s", client.GetErrorMessage(resp))
	}

	created, err := ctx.Client.Trips.DecodeTrip(resp)
	if err != nil {
		return err
	}

	ctx.Process[createdTrip] = created
	ctx.Output["trip"] = created
	return nil
}

func sealAssignmentToken(ctx *core.FlowContext) error {
	trip := ctx.Process[createdTrip].(*model.Trip)

	token, err := sealer.CreateAssignmentToken(trip.ID, trip.DriverID)
	if err != nil {
		return fmt.Errorf("failed to seal assignment token: %w", err)
	}

	ctx.Output["assignment_token"] = token
	return nil
}
