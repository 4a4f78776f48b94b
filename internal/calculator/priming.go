package calculator

import "github.com/abelzeko/brew-bot/internal/entities"

// GramsPerOunce converts sugar weights for display
const GramsPerOunce = 28.3495

// ResidualCO2 is the volumes of CO2 left in solution after fermentation at tempF,
// the highest temperature the beer reached
func ResidualCO2(tempF float64) float64 {
	return 3.0378 - 0.050062*tempF + 0.00026555*tempF*tempF
}

// PrimingSugar returns grams of sugar needed to reach targetVolumes of CO2.
// Returns 0 when the beer already holds the target.
func PrimingSugar(targetVolumes, tempF float64, sugar entities.SugarType, gallons float64) float64 {
	if gallons <= 0 {
		return 0
	}
	needed := targetVolumes - ResidualCO2(tempF)
	if needed <= 0 {
		return 0
	}
	return 15.195 * gallons * needed * sugar.Factor()
}
