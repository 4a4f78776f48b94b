package calculator

import (
	"math"

	"github.com/abelzeko/brew-bot/internal/entities"
)

// SRM estimates beer color with Morey's formula.
// An empty grain bill or a non-positive volume yields 0.
func SRM(grains []entities.GrainAddition, gallons float64) float64 {
	if len(grains) == 0 || gallons <= 0 {
		return 0
	}
	mcu := 0.0
	for _, g := range grains {
		mcu += g.ColorLovibond * g.WeightLbs
	}
	mcu /= gallons
	if mcu <= 0 {
		return 0
	}
	return 1.4922 * math.Pow(mcu, 0.6859)
}

// SRMToEBC converts SRM to the European Brewery Convention scale
func SRMToEBC(srm float64) float64 {
	return srm * 1.97
}

type colorBand struct {
	upTo float64
	name string
}

var colorBands = []colorBand{
	{3, "Pale Straw"},
	{6, "Light"},
	{9, "Gold"},
	{14, "Amber"},
	{20, "Copper"},
	{30, "Brown"},
	{40, "Dark Brown"},
}

// ColorDescription names the color band an SRM value falls in
func ColorDescription(srm float64) string {
	for _, b := range colorBands {
		if srm < b.upTo {
			return b.name
		}
	}
	return "Black"
}
