package paper

import (
	"math"
	"testing"

	"github.com/matzehuels/sliced/pkg/errors"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		want    Size
		wantErr bool
	}{
		{"a4", A4, false},
		{"A4", A4, false},
		{" letter ", Letter, false},
		{"legal", Legal, false},
		{"b5", Size{}, true},
		{"", Size{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error code = %v, want INVALID_CONFIG", errors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("Lookup(%q) = %+v, want %+v", tt.name, got, tt.want)
			}
		})
	}
}

func TestRelativeHeight(t *testing.T) {
	tests := []struct {
		name    string
		size    Size
		margin  float64
		want    float64
		wantErr bool
	}{
		{"a4 no margin", A4, 0, 297.0 / 210.0, false},
		{"a4 10mm", A4, 10, 277.0 / 190.0, false},
		{"a5 5mm", A5, 5, 200.0 / 138.0, false},
		{"margin eats width", A4, 105, 0, true},
		{"negative margin", A4, -1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.size.RelativeHeight(tt.margin)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RelativeHeight error = %v, wantErr %v", err, tt.wantErr)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("RelativeHeight = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUsable(t *testing.T) {
	w, h := A4.Usable(10)
	if w != 190 || h != 277 {
		t.Errorf("Usable(10) = %v x %v, want 190 x 277", w, h)
	}
}
