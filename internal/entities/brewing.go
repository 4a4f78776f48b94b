// Package entities contains the core domain objects for the brew-bot application
package entities

// GrainAddition is one fermentable in a grain bill
type GrainAddition struct {
	Name          string
	WeightLbs     float64 // Weight in pounds
	ColorLovibond float64 // Color in °Lovibond
}

// HopAddition is one hop charge in the boil
type HopAddition struct {
	Name        string
	WeightOz    float64 // Weight in ounces
	AlphaAcid   float64 // Alpha acid percentage, e.g. 5.5
	BoilMinutes float64 // Time remaining in the boil when the hops go in
}

// SugarType is a priming sugar
type SugarType string

const (
	SugarCorn    SugarType = "corn"
	SugarTable   SugarType = "table"
	SugarDryMalt SugarType = "dme"
	SugarHoney   SugarType = "honey"
)

// DefaultSugarType is used when no sugar is named
const DefaultSugarType = SugarCorn

// Factor is the weight of this sugar needed per unit weight of corn sugar.
func (s SugarType) Factor() float64 {
	switch s {
	case SugarTable:
		return 0.91
	case SugarDryMalt:
		return 1.47
	case SugarHoney:
		return 1.21
	default:
		return 1.0
	}
}

// Label is the display name of the sugar.
func (s SugarType) Label() string {
	switch s {
	case SugarTable:
		return "table sugar"
	case SugarDryMalt:
		return "dry malt extract"
	case SugarHoney:
		return "honey"
	default:
		return "corn sugar"
	}
}

// SugarTypes lists every supported priming sugar
var SugarTypes = []SugarType{SugarCorn, SugarTable, SugarDryMalt, SugarHoney}

// ParseSugarType accepts the short code of a sugar. Empty input means corn sugar.
func ParseSugarType(s string) (SugarType, error) {
	if s == "" {
		return DefaultSugarType, nil
	}
	for _, t := range SugarTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", ErrInvalidInput
}

// AcidType is an acid used to raise titratable acidity in wine
type AcidType string

const (
	AcidTartaric AcidType = "tartaric"
	AcidMalic    AcidType = "malic"
	AcidCitric   AcidType = "citric"
)

// Strength is how much titratable acidity (as tartaric) one gram of this acid adds,
// relative to one gram of tartaric acid.
func (a AcidType) Strength() float64 {
	switch a {
	case AcidMalic:
		return 1.12
	case AcidCitric:
		return 1.17
	default:
		return 1.0
	}
}

// AcidTypes lists every supported acid
var AcidTypes = []AcidType{AcidTartaric, AcidMalic, AcidCitric}

// ParseAcidType accepts an acid name. Empty input means tartaric.
func ParseAcidType(s string) (AcidType, error) {
	if s == "" {
		return AcidTartaric, nil
	}
	for _, t := range AcidTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", ErrInvalidInput
}

// MeadType is a mead style with its own yeast nutrient requirement
type MeadType string

const (
	MeadTraditional MeadType = "traditional"
	MeadMelomel     MeadType = "melomel"
	MeadCyser       MeadType = "cyser"
	MeadBochet      MeadType = "bochet"
)

// Requirement is grams of total nutrient per pound of honey.
func (m MeadType) Requirement() float64 {
	switch m {
	case MeadMelomel:
		return 0.75
	case MeadCyser:
		return 0.6
	case MeadBochet:
		return 1.2
	default:
		return 1.0
	}
}

// MeadTypes lists every supported mead style
var MeadTypes = []MeadType{MeadTraditional, MeadMelomel, MeadCyser, MeadBochet}

// ParseMeadType accepts a mead style name. Empty input means traditional.
func ParseMeadType(s string) (MeadType, error) {
	if s == "" {
		return MeadTraditional, nil
	}
	for _, t := range MeadTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", ErrInvalidInput
}
