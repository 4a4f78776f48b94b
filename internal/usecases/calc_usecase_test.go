package usecases

import (
	"context"
	"testing"

	"github.com/abelzeko/brew-bot/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	calc := NewCalcUseCase()
	tests := []struct {
		kind string
		args []string
		want []string
	}{
		{"abv", []string{"1.050", "1.010"}, []string{"ABV: 5.25%", "attenuation: 80.0%"}},
		{"abv", []string{"1,050", "1,010"}, []string{"ABV: 5.25%"}},
		{"abvbrix", []string{"20", "5"}, []string{"ABV: 8.31%", "OG 1.083", "FG 1.020"}},
		{"brix", []string{"20"}, []string{"1.083 SG"}},
		{"sg", []string{"1.050"}, []string{"12.4 °Bx"}},
		{"tempcorr", []string{"1.050", "100"}, []string{"Corrected gravity: 1.055", "calibrated at 68 °F"}},
		{"tempcorr", []string{"1.050", "68", "68"}, []string{"Corrected gravity: 1.050"}},
		{"atten", []string{"1.060", "1.015"}, []string{"75.0%"}},
		{"srm", []string{"5", "8:2"}, []string{"3.3 SRM", "6.5 EBC", "Light"}},
		{"ibu", []string{"5", "1.050", "1:5:60"}, []string{"17.3 IBU", "#1 1.00 oz 5.0% @ 60 min"}},
		{"prime", []string{"5", "2.5", "68"}, []string{"124.5 g", "corn sugar"}},
		{"prime", []string{"5", "0.5", "68"}, []string{"already holds 0.86 volumes"}},
		{"nutrient", []string{"10"}, []string{"10.00 g", "Fermaid K: 4.00 g", "Fermaid O: 6.00 g"}},
		{"nutrient", []string{"10", "cyser"}, []string{"6.00 g nutrient"}},
		{"acid", []string{"5", "6", "7"}, []string{"18.9 g of tartaric acid"}},
		{"acid", []string{"5", "7", "6"}, []string{"no acid needed"}},
		{"strike", []string{"10", "1.25", "68", "152"}, []string{"at 165.4 °F"}},
		{"sparge", []string{"5", "10", "1.25"}, []string{"Pre-boil volume: 6.50 gal", "Sparge water: 4.6"}},
		{"dilute", []string{"1.060", "5", "1.050"}, []string{"Add 1.00 gal", "6.00 gal at 1.050"}},
		{"dilute", []string{"1.040", "5", "1.050"}, []string{"already at or below"}},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			result, err := calc.Calculate(context.Background(), tt.kind, tt.args)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, result, want)
			}
		})
	}
}

func TestCalculateRejectsBadInput(t *testing.T) {
	calc := NewCalcUseCase()
	tests := []struct {
		name string
		kind string
		args []string
	}{
		{"not a number", "abv", []string{"abc", "1.010"}},
		{"missing argument", "abv", []string{"1.050"}},
		{"too many arguments", "abv", []string{"1.050", "1.010", "1.000"}},
		{"gravity typo", "abv", []string{"1050", "1010"}},
		{"zero volume", "srm", []string{"0", "8:2"}},
		{"negative volume", "prime", []string{"-5", "2.5", "68"}},
		{"malformed hop", "ibu", []string{"5", "1.050", "1:5"}},
		{"alpha over 100", "ibu", []string{"5", "1.050", "1:500:60"}},
		{"unknown sugar", "prime", []string{"5", "2.5", "68", "maple"}},
		{"unknown mead", "nutrient", []string{"10", "sparkling"}},
		{"unknown acid", "acid", []string{"5", "6", "7", "lactic"}},
		{"brix out of range", "brix", []string{"80"}},
		{"frozen sample", "tempcorr", []string{"1.050", "10"}},
		{"nan gravity", "abv", []string{"NaN", "1.010"}},
		{"nan temperature", "tempcorr", []string{"1.050", "NaN"}},
		{"infinite volume", "prime", []string{"Inf", "2.5", "68"}},
		{"infinite acid batch", "acid", []string{"5", "6", "+Inf"}},
		{"infinite grain", "srm", []string{"5", "inf:3"}},
		{"priming below freezing", "prime", []string{"5", "2.5", "-100"}},
		{"priming boiling beer", "prime", []string{"5", "2.5", "180"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := calc.Calculate(context.Background(), tt.kind, tt.args)
			require.Error(t, err)
			assert.ErrorIs(t, err, entities.ErrInvalidInput)
			assert.Contains(t, err.Error(), "Usage: "+calc.Usage(tt.kind))
			assert.Empty(t, result)
		})
	}
}

func TestCalculateUnknownKind(t *testing.T) {
	_, err := NewCalcUseCase().Calculate(context.Background(), "volume", nil)
	assert.ErrorIs(t, err, entities.ErrInvalidInput)
}

func TestCalcHelpCoversEveryKind(t *testing.T) {
	calc := NewCalcUseCase()
	help := calc.Help()
	require.Len(t, help, len(calc.Kinds()))
	assert.Equal(t, "abv", calc.Kinds()[0])
	for i, kind := range calc.Kinds() {
		assert.True(t, calc.Has(kind))
		assert.Contains(t, help[i], calc.Usage(kind))
		assert.Contains(t, help[i], calc.Description(kind))
	}
	assert.False(t, calc.Has("help"))
}

func TestCalcFields(t *testing.T) {
	calc := NewCalcUseCase()

	fields, required, err := calc.Fields("prime")
	require.NoError(t, err)
	assert.Equal(t, []string{"gallons", "co2", "temp", "sugar"}, fields)
	assert.Equal(t, 3, required)

	_, _, err = calc.Fields("ibu")
	assert.ErrorIs(t, err, entities.ErrInvalidInput)
}
