package calculator

// GrainAbsorption is gallons of water retained per pound of grain
const GrainAbsorption = 0.125

// MashWater is the strike volume in gallons for a mash thickness in quarts per pound
func MashWater(grainLbs, ratioQtPerLb float64) float64 {
	return grainLbs * ratioQtPerLb / 4
}

// StrikeTemperature is the water temperature that settles the mash at targetF
func StrikeTemperature(ratioQtPerLb, grainTempF, targetF float64) float64 {
	if ratioQtPerLb <= 0 {
		return targetF
	}
	return 0.2/ratioQtPerLb*(targetF-grainTempF) + targetF
}

// PreBoilVolume is the kettle volume needed to end the boil with batchGallons
func PreBoilVolume(batchGallons, boilOffPerHour, boilMinutes, trubLoss float64) float64 {
	return batchGallons + boilOffPerHour*boilMinutes/60 + trubLoss
}

// SpargeWater is the rinse volume needed after the mash to reach preBoilGallons
func SpargeWater(preBoilGallons, mashGallons, grainLbs float64) float64 {
	runnings := mashGallons - grainLbs*GrainAbsorption
	sparge := preBoilGallons - runnings
	if sparge < 0 {
		return 0
	}
	return sparge
}
