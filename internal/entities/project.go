package entities

import (
	"time"
)

// ProjectStatus is where a batch is in its life
type ProjectStatus string

const (
	StatusPlanning     ProjectStatus = "planning"
	StatusFermenting   ProjectStatus = "fermenting"
	StatusConditioning ProjectStatus = "conditioning"
	StatusPackaged     ProjectStatus = "packaged"
	StatusCompleted    ProjectStatus = "completed"
)

// ProjectStatuses lists statuses in lifecycle order
var ProjectStatuses = []ProjectStatus{
	StatusPlanning, StatusFermenting, StatusConditioning, StatusPackaged, StatusCompleted,
}

// ParseProjectStatus accepts a status name
func ParseProjectStatus(s string) (ProjectStatus, error) {
	for _, st := range ProjectStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrInvalidInput
}

// BeverageType is what is being brewed
type BeverageType string

const (
	BeverageBeer  BeverageType = "beer"
	BeverageWine  BeverageType = "wine"
	BeverageMead  BeverageType = "mead"
	BeverageCider BeverageType = "cider"
)

// Project is one batch in progress
type Project struct {
	ID           int64
	Name         string        `validate:"required,max=100"`
	Beverage     BeverageType  `validate:"required,oneof=beer wine mead cider"`
	Style        string        `validate:"max=100"`
	Status       ProjectStatus `validate:"required,oneof=planning fermenting conditioning packaged completed"`
	RecipeID     *int64
	YeastID      *int64
	BatchGallons float64 `validate:"gte=0"`
	OG           float64 `validate:"omitempty,gte=0.9,lte=1.2"`
	FG           float64 `validate:"omitempty,gte=0.9,lte=1.2"`
	StartedAt    *time.Time
	NextActionAt *time.Time // When the brewer should next look at the batch
	NextAction   string     `validate:"max=200"`
	RemindedAt   *time.Time
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasGravities reports whether both original and final gravity are recorded
func (p *Project) HasGravities() bool {
	return p.OG > 0 && p.FG > 0
}

// ProjectWithDetails joins a project to its recipe and yeast names
type ProjectWithDetails struct {
	Project
	RecipeName string
	YeastName  string
}
