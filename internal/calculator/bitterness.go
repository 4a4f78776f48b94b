package calculator

import (
	"math"

	"github.com/abelzeko/brew-bot/internal/entities"
)

// TinsethUtilization is the fraction of alpha acids isomerized for a boil of minutes
// in wort of gravity og
func TinsethUtilization(og, minutes float64) float64 {
	bigness := 1.65 * math.Pow(0.000125, og-1)
	boilTime := (1 - math.Exp(-0.04*minutes)) / 4.15
	return bigness * boilTime
}

// HopIBU is the bitterness one addition contributes
func HopIBU(hop entities.HopAddition, gallons, og float64) float64 {
	if gallons <= 0 {
		return 0
	}
	aau := hop.AlphaAcid * hop.WeightOz
	return TinsethUtilization(og, hop.BoilMinutes) * aau * 74.89 / gallons
}

// IBU sums the Tinseth bitterness of every addition.
// No additions or a non-positive volume yields 0.
func IBU(hops []entities.HopAddition, gallons, og float64) float64 {
	total := 0.0
	for _, h := range hops {
		total += HopIBU(h, gallons, og)
	}
	return total
}

// BitternessRatio is BU:GU, the balance of bitterness against gravity
func BitternessRatio(ibu, og float64) float64 {
	points := GravityPoints(og)
	if points <= 0 {
		return 0
	}
	return ibu / points
}
