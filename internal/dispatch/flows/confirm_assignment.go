package flows

import (
	"fmt"
	"net/http"

	"fleetops/internal/dispatch/core"
	"fleetops/pkg/client"
	"fleetops/pkg/config"
	"fleetops/pkg/model"
	"fleetops/pkg/sealer"
)

const (
	confirmTripID   = "confirm_trip_id"
	confirmDriverID = "confirm_driver_id"
	confirmTrip     = "confirm_trip"
)

// ConfirmAssignmentFlow starts a trip from an assignment token. The token
// binds a trip to its driver, so a driver cannot start someone else's trip.
type ConfirmAssignmentFlow struct{}

func (ConfirmAssignmentFlow) Name() string { return "confirm_assignment" }

func (ConfirmAssignmentFlow) Steps() []*core.Step {
	return []*core.Step{
		core.NewStep("unseal_token", unsealToken),
		core.NewStep("load_trip", loadAssignedTrip),
		core.NewStep("start_trip", startTrip),
	}
}

func unsealToken(ctx *core.FlowContext) error {
	token, err := ctx.RequireString("assignment_token")
	if err != nil {
		return err
	}

	tripID, driverID, err := sealer.ParseAssignmentToken(token)
	if err != nil {
		return fmt.Errorf("invalid assignment token: %w", err)
	}

	ctx.Process[confirmTripID] = tripID
	ctx.Process[confirmDriverID] = driverID
	return nil
}

func loadAssignedTrip(ctx *core.FlowContext) error {
	tripID := ctx.Process[confirmTripID].(string)
	driverID := ctx.Process[confirmDriverID].(string)

	resp, err := ctx.Client.Trips.GetByID(tripID)
	if err != nil {
		return fmt.Errorf("failed to load trip %s: %w", tripID, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("trip %s not found: %s", tripID, client.GetErrorMessage(resp))
	}

	trip, err := ctx.Client.Trips.DecodeTrip(resp)
	if err != nil {
		return err
	}

	if trip.DriverID != driverID {
		return fmt.Errorf("assignment token does not match the trip's driver")
	}
	if trip.Status != config.TripScheduled {
		return fmt.Errorf("trip %s cannot be started from status %q", tripID, trip.Status)
	}

	ctx.Process[confirmTrip] = trip
	return nil
}

func startTrip(ctx *core.FlowContext) error {
	trip := ctx.Process[confirmTrip].(*model.Trip)

	updates := &model.TripUpdate{Status: config.TripInProgress}
	resp, err := ctx.Client.Trips.Update(trip.ID, updates)
	if err != nil {
		return fmt.Errorf("failed to start trip %s: %w", trip.ID, err)
	}
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("trip %s could not be started: %s", trip.ID, client.GetErrorMessage(resp))
	}

	ctx.Output["trip_id"] = trip.ID
	ctx.Output["status"] = config.TripInProgress
	return nil
}
