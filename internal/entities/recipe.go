package entities

import (
	"time"
)

// Recipe is a saved recipe in the library
type Recipe struct {
	ID           int64
	Name         string       `validate:"required,max=100"`
	Beverage     BeverageType `validate:"required,oneof=beer wine mead cider"`
	Style        string       `validate:"max=100"`
	BatchGallons float64      `validate:"gt=0"`
	BoilMinutes  float64      `validate:"gte=0"`
	Efficiency   float64      `validate:"gte=0,lte=100"` // Brewhouse efficiency percentage
	TargetOG     float64      `validate:"omitempty,gte=0.9,lte=1.2"`
	TargetFG     float64      `validate:"omitempty,gte=0.9,lte=1.2"`
	YeastID      *int64
	SourceURL    string
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RecipeIngredient is one line of a recipe's ingredient list. IngredientID links to
// the inventory when the brewer stocks the item.
type RecipeIngredient struct {
	ID            int64
	RecipeID      int64
	IngredientID  *int64
	Name          string         `validate:"required,max=100"`
	Type          IngredientType `validate:"required,oneof=grain hop sugar fruit adjunct chemical other"`
	Amount        float64        `validate:"gte=0"`
	Unit          string         `validate:"required,max=20"`
	ColorLovibond float64        `validate:"gte=0"`
	AlphaAcid     float64        `validate:"gte=0,lte=100"`
	BoilMinutes   float64        `validate:"gte=0"`
	Position      int
}

// RecipeStep is one instruction in a recipe
type RecipeStep struct {
	ID          int64
	RecipeID    int64
	Position    int
	Description string `validate:"required"`
	Minutes     float64
}

// RecipeCalculation is a derived figure saved with a recipe (e.g. "ibu" = 32.1)
type RecipeCalculation struct {
	ID       int64
	RecipeID int64
	Name     string `validate:"required,max=40"`
	Value    float64
	Unit     string
}

// RecipeWithDetails is a recipe together with all of its child rows
type RecipeWithDetails struct {
	Recipe
	Ingredients  []RecipeIngredient
	Steps        []RecipeStep
	Calculations []RecipeCalculation
}

// RecipeFilter narrows a recipe listing
type RecipeFilter struct {
	Search   string // Matches name or style
	Beverage BeverageType
}

// Grains converts the recipe's grain lines into calculator inputs
func (r *RecipeWithDetails) Grains() []GrainAddition {
	var grains []GrainAddition
	for _, ing := range r.Ingredients {
		if ing.Type != IngredientGrain {
			continue
		}
		grains = append(grains, GrainAddition{
			Name:          ing.Name,
			WeightLbs:     toPounds(ing.Amount, ing.Unit),
			ColorLovibond: ing.ColorLovibond,
		})
	}
	return grains
}

// Hops converts the recipe's hop lines into calculator inputs
func (r *RecipeWithDetails) Hops() []HopAddition {
	var hops []HopAddition
	for _, ing := range r.Ingredients {
		if ing.Type != IngredientHop {
			continue
		}
		hops = append(hops, HopAddition{
			Name:        ing.Name,
			WeightOz:    toOunces(ing.Amount, ing.Unit),
			AlphaAcid:   ing.AlphaAcid,
			BoilMinutes: ing.BoilMinutes,
		})
	}
	return hops
}
