package entities

import "strings"

// Weight factors to ounces
var ounceFactors = map[string]float64{
	"oz":  1,
	"lb":  16,
	"lbs": 16,
	"g":   0.03527396,
	"kg":  35.27396,
}

func toOunces(amount float64, unit string) float64 {
	if f, ok := ounceFactors[strings.ToLower(unit)]; ok {
		return amount * f
	}
	return amount // assume already ounces
}

func toPounds(amount float64, unit string) float64 {
	if f, ok := ounceFactors[strings.ToLower(unit)]; ok {
		return amount * f / 16
	}
	return amount // assume already pounds
}

// ConvertAmount expresses amount of unit from in unit to. Weights convert between
// each other; any other pair converts only when the units match.
func ConvertAmount(amount float64, from, to string) (float64, bool) {
	from, to = strings.ToLower(from), strings.ToLower(to)
	if from == to {
		return amount, true
	}
	ff, okFrom := ounceFactors[from]
	tf, okTo := ounceFactors[to]
	if !okFrom || !okTo {
		return 0, false
	}
	return amount * ff / tf, true
}
