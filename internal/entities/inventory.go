package entities

import (
	"time"
)

// IngredientType groups inventory items
type IngredientType string

const (
	IngredientGrain    IngredientType = "grain"
	IngredientHop      IngredientType = "hop"
	IngredientSugar    IngredientType = "sugar"
	IngredientFruit    IngredientType = "fruit"
	IngredientAdjunct  IngredientType = "adjunct"
	IngredientChemical IngredientType = "chemical"
	IngredientOther    IngredientType = "other"
)

// IngredientTypes lists every ingredient type
var IngredientTypes = []IngredientType{
	IngredientGrain, IngredientHop, IngredientSugar, IngredientFruit,
	IngredientAdjunct, IngredientChemical, IngredientOther,
}

// Ingredient is one stocked item in the inventory
type Ingredient struct {
	ID            int64
	Name          string         `validate:"required,max=100"`
	Type          IngredientType `validate:"required,oneof=grain hop sugar fruit adjunct chemical other"`
	Quantity      float64        `validate:"gte=0"`
	Unit          string         `validate:"required,max=20"` // lb, oz, g, kg, pkg
	CostPerUnit   float64        `validate:"gte=0"`
	ColorLovibond float64        `validate:"gte=0"`         // Grains only
	AlphaAcid     float64        `validate:"gte=0,lte=100"` // Hops only
	Notes         string
	UsageCount    int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IngredientFilter narrows an ingredient listing
type IngredientFilter struct {
	Type   IngredientType // Empty for every type
	Search string         // Case-insensitive name substring
}

// Yeast is one stocked yeast strain
type Yeast struct {
	ID             int64
	Name           string  `validate:"required,max=100"`
	Lab            string  `validate:"max=100"`
	ProductCode    string  `validate:"max=40"`
	Form           string  `validate:"omitempty,oneof=dry liquid slurry"`
	AttenuationMin float64 `validate:"gte=0,lte=100"`
	AttenuationMax float64 `validate:"gte=0,lte=100,gtefield=AttenuationMin"`
	TempMinF       float64
	TempMaxF       float64 `validate:"gtefield=TempMinF"`
	Quantity       float64 `validate:"gte=0"` // Packages on hand
	ExpiresAt      *time.Time
	Notes          string
	UsageCount     int64
	CreatedAt      time.Time
}
