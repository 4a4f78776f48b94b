// Package usecases contains the application's business logic
package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abelzeko/brew-bot/internal/calculator"
	"github.com/abelzeko/brew-bot/internal/entities"
	"github.com/abelzeko/brew-bot/internal/integration/openai"
	"github.com/abelzeko/brew-bot/internal/logger"
	"github.com/abelzeko/brew-bot/internal/metrics"
	"github.com/abelzeko/brew-bot/internal/repository"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ErrNotConfigured is returned by features whose external service is disabled
var ErrNotConfigured = errors.New("not configured")

// RecipeFetcher downloads and parses a recipe page
type RecipeFetcher interface {
	FetchRecipe(ctx context.Context, url string) (*entities.RecipeWithDetails, error)
}

// BrewUseCase is the facade over the brewing log: inventory, recipes and projects
type BrewUseCase struct {
	store     repository.Store
	fetcher   RecipeFetcher
	intents   openai.IntentService
	validator *Validator
	recipes   *expirable.LRU[int64, *entities.RecipeWithDetails]
	now       func() time.Time
}

// NewBrewUseCase creates a new brewing use case. fetcher and intents may be nil, which
// disables recipe import and free-text questions.
func NewBrewUseCase(store repository.Store, fetcher RecipeFetcher, intents openai.IntentService) *BrewUseCase {
	return &BrewUseCase{
		store:     store,
		fetcher:   fetcher,
		intents:   intents,
		validator: NewValidator(),
		recipes:   expirable.NewLRU[int64, *entities.RecipeWithDetails](64, nil, 10*time.Minute),
		now:       time.Now,
	}
}

// Ping checks the store
func (uc *BrewUseCase) Ping(ctx context.Context) error {
	return uc.store.Ping(ctx)
}

// --- Inventory ---

// AddIngredient validates and stores a new inventory item
func (uc *BrewUseCase) AddIngredient(ctx context.Context, ing *entities.Ingredient) error {
	if err := uc.validator.ValidateStruct(ing); err != nil {
		return err
	}
	if err := uc.store.CreateIngredient(ctx, ing); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Added ingredient", "id", ing.ID, "name", ing.Name)
	return nil
}

// GetIngredient finds an inventory item by name
func (uc *BrewUseCase) GetIngredient(ctx context.Context, name string) (*entities.Ingredient, error) {
	return uc.store.GetIngredientByName(ctx, name)
}

// UpdateIngredient validates and saves an inventory item
func (uc *BrewUseCase) UpdateIngredient(ctx context.Context, ing *entities.Ingredient) error {
	if err := uc.validator.ValidateStruct(ing); err != nil {
		return err
	}
	if err := uc.store.UpdateIngredient(ctx, ing); err != nil {
		return err
	}
	uc.recipes.Purge()
	logger.FromContext(ctx).Info("Updated ingredient", "id", ing.ID, "name", ing.Name)
	return nil
}

// UseIngredient takes amount out of stock and counts the use. Using more than is on
// hand is rejected and leaves the stock unchanged.
func (uc *BrewUseCase) UseIngredient(ctx context.Context, name string, amount float64) (*entities.Ingredient, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", entities.ErrInvalidInput)
	}

	var updated *entities.Ingredient
	err := uc.store.WithTx(ctx, func(tx repository.Store) error {
		ing, err := tx.GetIngredientByName(ctx, name)
		if err != nil {
			return err
		}
		if ing.Quantity < amount {
			return fmt.Errorf("%w: only %.2f %s of %s left", entities.ErrInvalidInput, ing.Quantity, ing.Unit, ing.Name)
		}
		ing.Quantity -= amount
		if err := tx.UpdateIngredient(ctx, ing); err != nil {
			return err
		}
		if err := tx.IncrementIngredientUsage(ctx, ing.ID); err != nil {
			return err
		}
		ing.UsageCount++
		updated = ing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteIngredient removes an inventory item by name
func (uc *BrewUseCase) DeleteIngredient(ctx context.Context, name string) error {
	ing, err := uc.store.GetIngredientByName(ctx, name)
	if err != nil {
		return err
	}
	if err := uc.store.DeleteIngredient(ctx, ing.ID); err != nil {
		return err
	}
	// Cached recipes may link to the removed row
	uc.recipes.Purge()
	return nil
}

// ListIngredients lists the inventory
func (uc *BrewUseCase) ListIngredients(ctx context.Context, filter entities.IngredientFilter) ([]entities.Ingredient, error) {
	return uc.store.ListIngredients(ctx, filter)
}

// AddYeast validates and stores a yeast
func (uc *BrewUseCase) AddYeast(ctx context.Context, y *entities.Yeast) error {
	if err := uc.validator.ValidateStruct(y); err != nil {
		return err
	}
	if err := uc.store.CreateYeast(ctx, y); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Added yeast", "id", y.ID, "name", y.Name)
	return nil
}

// ListYeasts lists the yeast bank
func (uc *BrewUseCase) ListYeasts(ctx context.Context, search string) ([]entities.Yeast, error) {
	return uc.store.ListYeasts(ctx, search)
}

// GetYeast returns one yeast
func (uc *BrewUseCase) GetYeast(ctx context.Context, id int64) (*entities.Yeast, error) {
	return uc.store.GetYeast(ctx, id)
}

// UpdateYeast validates and saves a yeast
func (uc *BrewUseCase) UpdateYeast(ctx context.Context, y *entities.Yeast) error {
	if err := uc.validator.ValidateStruct(y); err != nil {
		return err
	}
	if err := uc.store.UpdateYeast(ctx, y); err != nil {
		return err
	}
	uc.recipes.Purge()
	logger.FromContext(ctx).Info("Updated yeast", "id", y.ID, "name", y.Name)
	return nil
}

// DeleteYeast removes a yeast. Recipes that used it lose the link.
func (uc *BrewUseCase) DeleteYeast(ctx context.Context, id int64) error {
	if err := uc.store.DeleteYeast(ctx, id); err != nil {
		return err
	}
	uc.recipes.Purge()
	return nil
}

// --- Recipes ---

// CalculateRecipe derives the figures saved alongside a recipe
func CalculateRecipe(r *entities.RecipeWithDetails) []entities.RecipeCalculation {
	var calcs []entities.RecipeCalculation
	add := func(name string, value float64, unit string) {
		calcs = append(calcs, entities.RecipeCalculation{RecipeID: r.ID, Name: name, Value: value, Unit: unit})
	}

	if grains := r.Grains(); len(grains) > 0 {
		srm := calculator.SRM(grains, r.BatchGallons)
		add("srm", srm, "SRM")
		add("ebc", calculator.SRMToEBC(srm), "EBC")
	}
	if hops := r.Hops(); len(hops) > 0 && r.TargetOG > 0 {
		ibu := calculator.IBU(hops, r.BatchGallons, r.TargetOG)
		add("ibu", ibu, "IBU")
		add("bu_gu", calculator.BitternessRatio(ibu, r.TargetOG), "")
	}
	if r.TargetOG > 0 && r.TargetFG > 0 {
		add("abv", calculator.ABV(r.TargetOG, r.TargetFG), "%")
		add("attenuation", calculator.Attenuation(r.TargetOG, r.TargetFG), "%")
	}
	return calcs
}

// CreateRecipe validates a recipe with its lines, computes its figures and stores
// everything in one transaction
func (uc *BrewUseCase) CreateRecipe(ctx context.Context, r *entities.RecipeWithDetails) error {
	if err := uc.validateRecipe(r); err != nil {
		return err
	}
	r.Calculations = CalculateRecipe(r)

	err := uc.store.WithTx(ctx, func(tx repository.Store) error {
		return tx.CreateRecipe(ctx, r)
	})
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Created recipe", "id", r.ID, "name", r.Name, "ingredients", len(r.Ingredients))
	return nil
}

func (uc *BrewUseCase) validateRecipe(r *entities.RecipeWithDetails) error {
	if err := uc.validator.ValidateStruct(&r.Recipe); err != nil {
		return err
	}
	for i := range r.Ingredients {
		if err := uc.validator.ValidateStruct(&r.Ingredients[i]); err != nil {
			return fmt.Errorf("ingredient %d: %w", i+1, err)
		}
	}
	for i := range r.Steps {
		if err := uc.validator.ValidateStruct(&r.Steps[i]); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

// UpdateRecipe validates and saves a recipe header, then recomputes the figures
// derived from it. Ingredient lines and steps are unchanged.
func (uc *BrewUseCase) UpdateRecipe(ctx context.Context, r *entities.Recipe) error {
	if err := uc.validator.ValidateStruct(r); err != nil {
		return err
	}
	err := uc.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.UpdateRecipe(ctx, r); err != nil {
			return err
		}
		details, err := tx.GetRecipeWithDetails(ctx, r.ID)
		if err != nil {
			return err
		}
		for _, c := range CalculateRecipe(details) {
			if err := tx.SaveCalculation(ctx, &c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.recipes.Remove(r.ID)
	logger.FromContext(ctx).Info("Updated recipe", "id", r.ID, "name", r.Name)
	return nil
}

// ImportRecipe fetches a recipe page, links its lines to stocked ingredients of the
// same name and stores it
func (uc *BrewUseCase) ImportRecipe(ctx context.Context, url string) (*entities.RecipeWithDetails, error) {
	if uc.fetcher == nil {
		return nil, fmt.Errorf("recipe import: %w", ErrNotConfigured)
	}

	recipe, err := uc.fetcher.FetchRecipe(ctx, url)
	if err != nil {
		metrics.RecipesImported.WithLabelValues(metrics.ResultError).Inc()
		return nil, err
	}

	for i := range recipe.Ingredients {
		ing, err := uc.store.GetIngredientByName(ctx, recipe.Ingredients[i].Name)
		if errors.Is(err, entities.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		recipe.Ingredients[i].IngredientID = &ing.ID
	}

	if err := uc.CreateRecipe(ctx, recipe); err != nil {
		metrics.RecipesImported.WithLabelValues(metrics.ResultError).Inc()
		return nil, err
	}
	metrics.RecipesImported.WithLabelValues(metrics.ResultOK).Inc()
	return recipe, nil
}

// GetRecipe returns a recipe with its child rows, from cache when possible
func (uc *BrewUseCase) GetRecipe(ctx context.Context, id int64) (*entities.RecipeWithDetails, error) {
	if r, ok := uc.recipes.Get(id); ok {
		return r, nil
	}
	r, err := uc.store.GetRecipeWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.recipes.Add(id, r)
	return r, nil
}

// ListRecipes lists the recipe library
func (uc *BrewUseCase) ListRecipes(ctx context.Context, filter entities.RecipeFilter) ([]entities.Recipe, error) {
	return uc.store.ListRecipes(ctx, filter)
}

// DeleteRecipe removes a recipe and its child rows
func (uc *BrewUseCase) DeleteRecipe(ctx context.Context, id int64) error {
	uc.recipes.Remove(id)
	return uc.store.DeleteRecipe(ctx, id)
}

// RecipeCost prices a recipe from the inventory
func (uc *BrewUseCase) RecipeCost(ctx context.Context, id int64) (float64, error) {
	return uc.store.RecipeCost(ctx, id)
}

// --- Projects ---

// statusFollowUps is the next action scheduled when a project enters a status
var statusFollowUps = map[entities.ProjectStatus]struct {
	after  time.Duration
	action string
}{
	entities.StatusFermenting:   {14 * 24 * time.Hour, "Check final gravity"},
	entities.StatusConditioning: {14 * 24 * time.Hour, "Package the batch"},
	entities.StatusPackaged:     {21 * 24 * time.Hour, "Taste the first bottle"},
}

func (uc *BrewUseCase) scheduleFollowUp(p *entities.Project) {
	followUp, ok := statusFollowUps[p.Status]
	if !ok {
		p.NextActionAt = nil
		p.NextAction = ""
		return
	}
	at := uc.now().Add(followUp.after)
	p.NextActionAt = &at
	p.NextAction = followUp.action
}

// CreateProject validates and stores a new batch
func (uc *BrewUseCase) CreateProject(ctx context.Context, p *entities.Project) error {
	if p.Status == "" {
		p.Status = entities.StatusPlanning
	}
	if p.Beverage == "" {
		p.Beverage = entities.BeverageBeer
	}
	if err := uc.validator.ValidateStruct(p); err != nil {
		return err
	}
	if p.Status != entities.StatusPlanning && p.StartedAt == nil {
		started := uc.now()
		p.StartedAt = &started
	}
	if p.NextActionAt == nil {
		uc.scheduleFollowUp(p)
	}
	if err := uc.store.CreateProject(ctx, p); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Created project", "id", p.ID, "name", p.Name, "status", p.Status)
	return nil
}

// StartProjectFromRecipe brews a recipe: it creates a fermenting project carrying the
// recipe's style, size, gravity and yeast, and counts a use of every stocked ingredient
// and the yeast. Everything happens in one transaction.
func (uc *BrewUseCase) StartProjectFromRecipe(ctx context.Context, recipeID int64, name string) (*entities.Project, error) {
	var project *entities.Project
	err := uc.store.WithTx(ctx, func(tx repository.Store) error {
		recipe, err := tx.GetRecipeWithDetails(ctx, recipeID)
		if err != nil {
			return err
		}
		if name == "" {
			name = recipe.Name
		}

		started := uc.now()
		project = &entities.Project{
			Name:         name,
			Beverage:     recipe.Beverage,
			Style:        recipe.Style,
			Status:       entities.StatusFermenting,
			RecipeID:     &recipe.ID,
			YeastID:      recipe.YeastID,
			BatchGallons: recipe.BatchGallons,
			OG:           recipe.TargetOG,
			StartedAt:    &started,
		}
		uc.scheduleFollowUp(project)
		if err := uc.validator.ValidateStruct(project); err != nil {
			return err
		}
		if err := tx.CreateProject(ctx, project); err != nil {
			return err
		}

		used := make(map[int64]bool)
		for _, line := range recipe.Ingredients {
			if line.IngredientID == nil || used[*line.IngredientID] {
				continue
			}
			used[*line.IngredientID] = true
			if err := tx.IncrementIngredientUsage(ctx, *line.IngredientID); err != nil {
				return err
			}
		}
		if recipe.YeastID != nil {
			if err := tx.IncrementYeastUsage(ctx, *recipe.YeastID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("Started project from recipe", "project", project.ID, "recipe", recipeID)
	return project, nil
}

// SetProjectStatus moves a project to a new status and schedules its follow-up
func (uc *BrewUseCase) SetProjectStatus(ctx context.Context, id int64, status entities.ProjectStatus) (*entities.Project, error) {
	p, err := uc.store.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Status = status
	if status != entities.StatusPlanning && p.StartedAt == nil {
		started := uc.now()
		p.StartedAt = &started
	}
	uc.scheduleFollowUp(p)
	if err := uc.validator.ValidateStruct(p); err != nil {
		return nil, err
	}
	if err := uc.store.UpdateProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RecordReading stores a gravity reading: the first one becomes the original gravity,
// later ones the current final gravity
func (uc *BrewUseCase) RecordReading(ctx context.Context, id int64, sg float64) (*entities.Project, error) {
	p, err := uc.store.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OG == 0 {
		p.OG = sg
	} else {
		p.FG = sg
	}
	if err := uc.validator.ValidateStruct(p); err != nil {
		return nil, err
	}
	if err := uc.store.UpdateProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProject returns a project with its recipe and yeast names
func (uc *BrewUseCase) GetProject(ctx context.Context, id int64) (*entities.ProjectWithDetails, error) {
	return uc.store.GetProjectWithDetails(ctx, id)
}

// ListProjects lists projects, optionally in one status
func (uc *BrewUseCase) ListProjects(ctx context.Context, status entities.ProjectStatus) ([]entities.Project, error) {
	return uc.store.ListProjects(ctx, status)
}

// DeleteProject removes a project
func (uc *BrewUseCase) DeleteProject(ctx context.Context, id int64) error {
	return uc.store.DeleteProject(ctx, id)
}

// Stats are the headline numbers of the brewing log
type Stats struct {
	Ingredients    int64
	InventoryValue float64
	Projects       map[entities.ProjectStatus]int64
}

// GetStats gathers counts and sums across the store
func (uc *BrewUseCase) GetStats(ctx context.Context) (*Stats, error) {
	var s Stats
	var err error
	if s.Ingredients, err = uc.store.CountIngredients(ctx); err != nil {
		return nil, err
	}
	if s.InventoryValue, err = uc.store.InventoryValue(ctx); err != nil {
		return nil, err
	}
	if s.Projects, err = uc.store.CountProjectsByStatus(ctx); err != nil {
		return nil, err
	}
	return &s, nil
}

// --- Free text ---

// InterpretQuery asks the intent service which command a free-text message means
func (uc *BrewUseCase) InterpretQuery(ctx context.Context, text string, commands []string) (*openai.Intent, error) {
	if uc.intents == nil {
		return nil, fmt.Errorf("free-text questions: %w", ErrNotConfigured)
	}
	slog.Debug("Interpreting natural language query", "query", text)
	return uc.intents.Interpret(ctx, text, commands)
}

// UserMessage converts an error from this package into text fit for the brewer.
// Validation problems are shown as they are; anything else is logged and hidden.
func UserMessage(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, entities.ErrInvalidInput):
		return err.Error()
	case errors.Is(err, entities.ErrNotFound):
		return "Not found."
	case errors.Is(err, entities.ErrAlreadyExists):
		return "That already exists."
	case errors.Is(err, ErrNotConfigured):
		return "That feature is not enabled on this bot."
	default:
		logger.FromContext(ctx).Error("Operation failed", "error", err)
		return "Something went wrong. Please try again later."
	}
}
