package sanitizer

import (
	"reflect"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  Dana Levi  ",
			want:  "Dana Levi",
		},
		{
			name:  "multiple spaces between words",
			input: "Dana    Levi",
			want:  "Dana Levi",
		},
		{
			name:  "tabs and newlines",
			input: "Dana\t\nLevi",
			want:  "Dana Levi",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " O'Brien-Katz ",
			want:  "O'Brien-Katz",
		},
		{
			name:  "hebrew characters",
			input: " דנה לוי ",
			want:  "דנה לוי",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeName(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "dashes removed",
			input: "ab-123-cd",
			want:  "AB123CD",
		},
		{
			name:  "spaces removed",
			input: " 12 345 67 ",
			want:  "1234567",
		},
		{
			name:  "dots removed",
			input: "12.345.67",
			want:  "1234567",
		},
		{
			name:  "already normalized",
			input: "AB123CD",
			want:  "AB123CD",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePlate(tt.input)
			if got != tt.want {
				t.Errorf("NormalizePlate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid E.164 format",
			input: "+972541234567",
			want:  "+972541234567",
		},
		{
			name:  "with spaces",
			input: "+972 54 123 4567",
			want:  "+972541234567",
		},
		{
			name:  "with dashes",
			input: "+972-54-123-4567",
			want:  "+972541234567",
		},
		{
			name:  "with parentheses",
			input: "+1 (212) 555-1234",
			want:  "+12125551234",
		},
		{
			name:  "national Israeli format",
			input: "052-123-4567",
			want:  "+972521234567",
		},
		{
			name:  "national US format",
			input: "(212) 555-1234",
			want:  "+12125551234",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   ",
			want:  "",
		},
		{
			name:  "unparseable input",
			input: "not-a-phone",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhone(tt.input)
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEscortVehicleIDs(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "duplicates removed",
			input: []string{"veh-1", "veh-2", "veh-1"},
			want:  []string{"veh-1", "veh-2"},
		},
		{
			name:  "empty values dropped",
			input: []string{"veh-1", "", "  "},
			want:  []string{"veh-1"},
		},
		{
			name:  "nil slice",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeEscortVehicleIDs(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeEscortVehicleIDs(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeCapacity(t *testing.T) {
	if got := NormalizeCapacity(0); got != MinVehicleCapacity {
		t.Errorf("NormalizeCapacity(0) = %d, want %d", got, MinVehicleCapacity)
	}
	if got := NormalizeCapacity(500); got != MaxVehicleCapacity {
		t.Errorf("NormalizeCapacity(500) = %d, want %d", got, MaxVehicleCapacity)
	}
	if got := NormalizeCapacity(7); got != 7 {
		t.Errorf("NormalizeCapacity(7) = %d, want 7", got)
	}
}
