package calculator

import "github.com/abelzeko/brew-bot/internal/entities"

// LitersPerGallon is the US gallon in liters
const LitersPerGallon = 3.78541

// NutrientDoses is a staggered mead nutrient schedule
type NutrientDoses struct {
	Total    float64 // grams
	FermaidK float64 // grams, 40% of the total
	FermaidO float64 // grams, 60% of the total
}

// MeadNutrients scales the style's requirement by the honey weight in pounds and
// splits it 40/60 between the two nutrient products
func MeadNutrients(honeyLbs float64, mead entities.MeadType) NutrientDoses {
	if honeyLbs <= 0 {
		return NutrientDoses{}
	}
	total := honeyLbs * mead.Requirement()
	return NutrientDoses{
		Total:    total,
		FermaidK: total * 0.4,
		FermaidO: total * 0.6,
	}
}

// AcidAddition returns the grams of acid needed to raise titratable acidity
// (g/L as tartaric) from currentTA to targetTA in gallons of must. Never negative.
func AcidAddition(currentTA, targetTA, gallons float64, acid entities.AcidType) float64 {
	grams := (targetTA - currentTA) * gallons * LitersPerGallon / acid.Strength()
	if grams < 0 {
		return 0
	}
	return grams
}
