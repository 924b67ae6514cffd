package drivers_test

import (
	"net/http"
	"testing"

	"fleetops/pkg/model"
	"fleetops/test/integration/testutil"
)

type driverResponse struct {
	Data model.Driver `json:"data"`
}

func TestDriverLifecycle(t *testing.T) {
	testutil.SkipUnlessIntegration(t)

	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	driver := testutil.ValidDriver()

	resp := client.POST(t, "/api/v1/drivers", driver)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var created driverResponse
	if err := resp.UnmarshalJSON(&created); err != nil {
		t.Fatalf("failed to decode created driver: %v", err)
	}
	if created.Data.TimeZone != "Asia/Jerusalem" {
		t.Errorf("expected timezone inferred from +972 phone, got %q", created.Data.TimeZone)
	}

	resp = client.PATCH(t, "/api/v1/drivers/id/"+created.Data.ID, map[string]any{
		"status": "suspended",
	})
	testutil.AssertStatusCode(t, resp, http.StatusNoContent)

	resp = client.GET(t, "/api/v1/drivers?status=suspended")
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertContains(t, resp, created.Data.ID)

	resp = client.DELETE(t, "/api/v1/drivers/id/"+created.Data.ID)
	testutil.AssertStatusCode(t, resp, http.StatusNoContent)
}

func TestDuplicatePhoneRejected(t *testing.T) {
	testutil.SkipUnlessIntegration(t)

	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	resp := client.POST(t, "/api/v1/drivers", testutil.ValidDriver())
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	second := testutil.NewDriverBuilder().WithName("Moshe Levi").Build()
	resp = client.POST(t, "/api/v1/drivers", second)
	testutil.AssertStatusCode(t, resp, http.StatusConflict)
}
