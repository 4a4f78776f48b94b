package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		from, to string
		want     float64
		ok       bool
	}{
		{"same unit", 3, "pkg", "PKG", 3, true},
		{"pounds to ounces", 2, "lb", "oz", 32, true},
		{"kilograms to grams", 1, "kg", "g", 1000, true},
		{"volume against weight", 1, "gal", "lb", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ConvertAmount(tt.amount, tt.from, tt.to)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}
