package vehicles_test

import (
	"net/http"
	"testing"

	"fleetops/pkg/model"
	"fleetops/test/integration/testutil"
)

type vehicleResponse struct {
	Data model.Vehicle `json:"data"`
}

func TestVehicleLifecycle(t *testing.T) {
	testutil.SkipUnlessIntegration(t)

	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	vehicle := testutil.NewVehicleBuilder().WithPlate("ab-123-cd").Build()

	resp := client.POST(t, "/api/v1/vehicles", vehicle)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var created vehicleResponse
	if err := resp.UnmarshalJSON(&created); err != nil {
		t.Fatalf("failed to decode created vehicle: %v", err)
	}
	if created.Data.PlateNumber != "AB123CD" {
		t.Errorf("expected normalized plate AB123CD, got %q", created.Data.PlateNumber)
	}

	resp = client.GET(t, "/api/v1/vehicles?vehicle_class=van")
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertContains(t, resp, created.Data.ID)

	resp = client.DELETE(t, "/api/v1/vehicles/id/"+created.Data.ID)
	testutil.AssertStatusCode(t, resp, http.StatusNoContent)
}

func TestDuplicatePlateRejected(t *testing.T) {
	testutil.SkipUnlessIntegration(t)

	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	resp := client.POST(t, "/api/v1/vehicles", testutil.ValidVehicle())
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	// Same plate, different punctuation; normalization makes them collide.
	second := testutil.NewVehicleBuilder().WithPlate("34-567-89").Build()
	resp = client.POST(t, "/api/v1/vehicles", second)
	testutil.AssertStatusCode(t, resp, http.StatusConflict)
}
