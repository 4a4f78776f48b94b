// Package calculator holds the brewing formulas. Every function is pure: no I/O and
// no state. Callers validate and parse user input; the formulas assume numbers.
package calculator

// DefaultCalibrationF is the temperature most hydrometers are calibrated at
const DefaultCalibrationF = 68.0

// ABV estimates alcohol by volume in percent from original and final gravity
func ABV(og, fg float64) float64 {
	return (og - fg) * 131.25
}

// ABVFromBrix estimates alcohol by volume from refractometer readings
func ABVFromBrix(originalBrix, finalBrix float64) float64 {
	return ABV(BrixToSG(originalBrix), BrixToSG(finalBrix))
}

// BrixToSG converts degrees Brix to specific gravity.
// It is fit independently of SGToBrix, so the pair only round-trips approximately.
func BrixToSG(brix float64) float64 {
	return 1 + brix/(258.6-(brix/258.2)*227.1)
}

// SGToBrix converts specific gravity to degrees Brix
func SGToBrix(sg float64) float64 {
	return ((182.4601*sg-775.6821)*sg+1262.7794)*sg - 669.5622
}

// HydrometerCorrection adjusts a reading taken at tempF for a hydrometer calibrated
// at calibrationF. Pass DefaultCalibrationF when the calibration is unknown.
func HydrometerCorrection(reading, tempF, calibrationF float64) float64 {
	return reading * (densityFactor(tempF) / densityFactor(calibrationF))
}

// densityFactor is the relative density of water at t °F
func densityFactor(t float64) float64 {
	return 1.00130346 - 0.000134722124*t + 0.00000204052596*t*t - 0.00000000232820948*t*t*t
}

// Attenuation is the apparent attenuation in percent.
// Returns 0 when og carries no sugar (og <= 1).
func Attenuation(og, fg float64) float64 {
	if og <= 1 {
		return 0
	}
	return (og - fg) / (og - 1) * 100
}

// GravityPoints turns 1.050 into 50
func GravityPoints(sg float64) float64 {
	return (sg - 1) * 1000
}

// Dilution returns the gallons of water to add to a wort of og and gallons so that it
// reaches targetOG. Returns 0 when the wort is already at or below the target.
func Dilution(og, gallons, targetOG float64) float64 {
	if targetOG <= 1 || og <= targetOG || gallons <= 0 {
		return 0
	}
	return gallons*GravityPoints(og)/GravityPoints(targetOG) - gallons
}
