package sealer

import "testing"

func TestAssignmentTokenRoundTrip(t *testing.T) {
	token, err := CreateAssignmentToken("trip-123", "drv-9")
	if err != nil {
		t.Fatalf("CreateAssignmentToken: %v", err)
	}

	tripID, driverID, err := ParseAssignmentToken(token)
	if err != nil {
		t.Fatalf("ParseAssignmentToken: %v", err)
	}
	if tripID != "trip-123" || driverID != "drv-9" {
		t.Errorf("got (%q, %q), want (trip-123, drv-9)", tripID, driverID)
	}
}

func TestParseAssignmentTokenRejectsGarbage(t *testing.T) {
	if _, _, err := ParseAssignmentToken("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
	if _, _, err := ParseAssignmentToken(""); err == nil {
		t.Error("expected error for empty token")
	}
}
