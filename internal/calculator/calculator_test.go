package calculator

import (
	"testing"

	"github.com/abelzeko/brew-bot/internal/entities"
	"github.com/stretchr/testify/assert"
)

func TestABV(t *testing.T) {
	assert.InDelta(t, 5.25, ABV(1.050, 1.010), 1e-9)
	assert.InDelta(t, 0, ABV(1.040, 1.040), 1e-9)
}

func TestABVMonotonic(t *testing.T) {
	for og := 1.000; og <= 1.120; og += 0.005 {
		for fg := 1.000; fg <= og; fg += 0.005 {
			abv := ABV(og, fg)
			assert.GreaterOrEqual(t, abv, -1e-9, "og=%.3f fg=%.3f", og, fg)
			assert.Greater(t, ABV(og+0.001, fg), abv)
			assert.Less(t, ABV(og, fg+0.001), abv)
		}
	}
}

func TestABVFromBrix(t *testing.T) {
	want := ABV(BrixToSG(20), BrixToSG(5))
	assert.InDelta(t, want, ABVFromBrix(20, 5), 1e-9)
	assert.InDelta(t, 8.31, ABVFromBrix(20, 5), 0.01)
}

func TestBrixRoundTrip(t *testing.T) {
	for b := 0.0; b <= 30; b += 0.5 {
		assert.InDelta(t, b, SGToBrix(BrixToSG(b)), 0.05, "brix %.1f", b)
	}
}

func TestBrixToSG(t *testing.T) {
	assert.InDelta(t, 1.0, BrixToSG(0), 1e-9)
	assert.InDelta(t, 1.0484, BrixToSG(12), 0.0001)
}

func TestHydrometerCorrection(t *testing.T) {
	tests := []struct {
		name    string
		reading float64
		temp    float64
		want    float64
	}{
		{"at calibration", 1.050, 68, 1.050},
		{"hot sample reads low", 1.050, 100, 1.0553},
		{"cold sample reads high", 1.050, 50, 1.0485},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HydrometerCorrection(tt.reading, tt.temp, DefaultCalibrationF)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestAttenuation(t *testing.T) {
	assert.InDelta(t, 80, Attenuation(1.050, 1.010), 1e-9)
	assert.Equal(t, 0.0, Attenuation(1.0, 0.998))

	for og := 1.010; og <= 1.120; og += 0.01 {
		for fg := 1.001; fg < og; fg += 0.003 {
			a := Attenuation(og, fg)
			assert.GreaterOrEqual(t, a, 0.0)
			assert.LessOrEqual(t, a, 100.0)
		}
	}
}

func TestDilution(t *testing.T) {
	assert.InDelta(t, 1.25, Dilution(1.050, 5, 1.040), 1e-9)
	assert.Equal(t, 0.0, Dilution(1.040, 5, 1.050))
	assert.Equal(t, 0.0, Dilution(1.050, 0, 1.040))
}

func TestSRM(t *testing.T) {
	grains := []entities.GrainAddition{{Name: "Pilsner", WeightLbs: 8, ColorLovibond: 2}}
	srm := SRM(grains, 5)
	assert.InDelta(t, 3.31, srm, 0.01)
	assert.Equal(t, "Light", ColorDescription(srm))
	assert.InDelta(t, srm*1.97, SRMToEBC(srm), 1e-9)
}

func TestSRMDegenerateInputs(t *testing.T) {
	grains := []entities.GrainAddition{{WeightLbs: 10, ColorLovibond: 3}}
	assert.Equal(t, 0.0, SRM(nil, 5))
	assert.Equal(t, 0.0, SRM(grains, 0))
	assert.Equal(t, 0.0, SRM(grains, -1))
}

func TestColorDescription(t *testing.T) {
	tests := map[float64]string{
		1:  "Pale Straw",
		4:  "Light",
		8:  "Gold",
		12: "Amber",
		17: "Copper",
		25: "Brown",
		35: "Dark Brown",
		45: "Black",
	}
	for srm, want := range tests {
		assert.Equal(t, want, ColorDescription(srm), "srm %.0f", srm)
	}
}

func TestIBU(t *testing.T) {
	hops := []entities.HopAddition{{Name: "Cascade", WeightOz: 1, AlphaAcid: 5, BoilMinutes: 60}}
	assert.InDelta(t, 0.2307, TinsethUtilization(1.050, 60), 0.0001)
	assert.InDelta(t, 17.27, IBU(hops, 5, 1.050), 0.01)
}

func TestIBUAdditionsSum(t *testing.T) {
	bittering := entities.HopAddition{WeightOz: 1, AlphaAcid: 12, BoilMinutes: 60}
	aroma := entities.HopAddition{WeightOz: 1, AlphaAcid: 5, BoilMinutes: 5}
	both := IBU([]entities.HopAddition{bittering, aroma}, 5, 1.060)

	assert.InDelta(t, HopIBU(bittering, 5, 1.060)+HopIBU(aroma, 5, 1.060), both, 1e-9)
	assert.Less(t, IBU([]entities.HopAddition{aroma}, 5, 1.060), IBU([]entities.HopAddition{bittering}, 5, 1.060))
}

func TestIBUDegenerateInputs(t *testing.T) {
	assert.Equal(t, 0.0, IBU(nil, 5, 1.050))
	assert.Equal(t, 0.0, IBU([]entities.HopAddition{{WeightOz: 1, AlphaAcid: 5, BoilMinutes: 60}}, 0, 1.050))
	assert.Equal(t, 0.0, HopIBU(entities.HopAddition{WeightOz: 1, AlphaAcid: 5}, 5, 1.050))
}

func TestHighGravityLowersUtilization(t *testing.T) {
	assert.Greater(t, TinsethUtilization(1.040, 60), TinsethUtilization(1.090, 60))
}

func TestBitternessRatio(t *testing.T) {
	assert.InDelta(t, 0.5, BitternessRatio(25, 1.050), 1e-9)
	assert.Equal(t, 0.0, BitternessRatio(25, 1.0))
}
