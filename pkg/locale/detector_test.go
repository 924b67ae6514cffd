package locale

import (
	"testing"
)

func TestInferTimezoneFromPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{
			name:  "Israel phone",
			phone: "+972541234567",
			want:  "Asia/Jerusalem",
		},
		{
			name:  "US phone",
			phone: "+12125551234",
			want:  "America/New_York",
		},
		{
			name:  "UK phone",
			phone: "+442071838750",
			want:  "Europe/London",
		},
		{
			name:  "outside operating markets falls back to UTC",
			phone: "+33123456789",
			want:  DefaultTimezone,
		},
		{
			name:  "empty phone falls back to UTC",
			phone: "",
			want:  DefaultTimezone,
		},
		{
			name:  "unparseable phone falls back to UTC",
			phone: "not-a-phone",
			want:  DefaultTimezone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferTimezoneFromPhone(tt.phone); got != tt.want {
				t.Errorf("InferTimezoneFromPhone(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}

func TestMarketFor(t *testing.T) {
	m, ok := MarketFor("IL")
	if !ok {
		t.Fatal("IL must be an operating market")
	}
	if m.DispatchTimezone != "Asia/Jerusalem" {
		t.Errorf("IL dispatch timezone = %q, want Asia/Jerusalem", m.DispatchTimezone)
	}

	if _, ok := MarketFor("FR"); ok {
		t.Error("FR must not be an operating market")
	}
}

func TestRegions(t *testing.T) {
	regions := Regions()
	if len(regions) == 0 || regions[0] != "IL" {
		t.Fatalf("Regions() = %v, want the home market first", regions)
	}

	regions[0] = "XX"
	if Regions()[0] != "IL" {
		t.Error("Regions must return a copy, not the backing slice")
	}
}
