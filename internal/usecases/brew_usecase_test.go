package usecases

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/abelzeko/brew-bot/internal/entities"
	"github.com/abelzeko/brew-bot/internal/integration/openai"
	"github.com/abelzeko/brew-bot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()
	store, err := repository.NewSQLiteStore(filepath.Join(t.TempDir(), "usecases.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

type fakeFetcher struct {
	recipe *entities.RecipeWithDetails
	err    error
}

func (f *fakeFetcher) FetchRecipe(ctx context.Context, url string) (*entities.RecipeWithDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	r := *f.recipe
	r.SourceURL = url
	return &r, nil
}

type fakeIntents struct {
	intent *openai.Intent
}

func (f *fakeIntents) Interpret(ctx context.Context, userMessage string, commands []string) (*openai.Intent, error) {
	return f.intent, nil
}

func paleAle() *entities.RecipeWithDetails {
	return &entities.RecipeWithDetails{
		Recipe: entities.Recipe{
			Name: "SMaSH Pale", Beverage: entities.BeverageBeer, Style: "Pale Ale",
			BatchGallons: 5, BoilMinutes: 60, TargetOG: 1.050, TargetFG: 1.010,
		},
		Ingredients: []entities.RecipeIngredient{
			{Name: "Maris Otter", Type: entities.IngredientGrain, Amount: 8, Unit: "lb", ColorLovibond: 2},
			{Name: "Cascade", Type: entities.IngredientHop, Amount: 1, Unit: "oz", AlphaAcid: 5, BoilMinutes: 60},
		},
		Steps: []entities.RecipeStep{{Description: "Mash at 152F", Minutes: 60}},
	}
}

func calcValue(t *testing.T, calcs []entities.RecipeCalculation, name string) float64 {
	t.Helper()
	for _, c := range calcs {
		if c.Name == name {
			return c.Value
		}
	}
	t.Fatalf("calculation %s missing", name)
	return 0
}

func TestAddIngredientValidates(t *testing.T) {
	ctx := context.Background()
	uc := NewBrewUseCase(newTestStore(t), nil, nil)

	err := uc.AddIngredient(ctx, &entities.Ingredient{Type: entities.IngredientGrain, Unit: "lb"})
	require.ErrorIs(t, err, entities.ErrInvalidInput)
	assert.Contains(t, err.Error(), "name is required")

	err = uc.AddIngredient(ctx, &entities.Ingredient{Name: "Salt", Type: "rock", Unit: "g"})
	assert.ErrorIs(t, err, entities.ErrInvalidInput)

	require.NoError(t, uc.AddIngredient(ctx, &entities.Ingredient{Name: "Salt", Type: entities.IngredientChemical, Unit: "g"}))
	err = uc.AddIngredient(ctx, &entities.Ingredient{Name: "salt", Type: entities.IngredientChemical, Unit: "g"})
	assert.ErrorIs(t, err, entities.ErrAlreadyExists)
}

func TestUseIngredient(t *testing.T) {
	ctx := context.Background()
	uc := NewBrewUseCase(newTestStore(t), nil, nil)
	require.NoError(t, uc.AddIngredient(ctx, &entities.Ingredient{
		Name: "Maris Otter", Type: entities.IngredientGrain, Quantity: 10, Unit: "lb",
	}))

	ing, err := uc.UseIngredient(ctx, "maris otter", 3)
	require.NoError(t, err)
	assert.Equal(t, 7.0, ing.Quantity)
	assert.Equal(t, int64(1), ing.UsageCount)

	_, err = uc.UseIngredient(ctx, "Maris Otter", 100)
	require.ErrorIs(t, err, entities.ErrInvalidInput)
	assert.Contains(t, err.Error(), "only 7.00 lb")

	_, err = uc.UseIngredient(ctx, "Maris Otter", -1)
	assert.ErrorIs(t, err, entities.ErrInvalidInput)

	_, err = uc.UseIngredient(ctx, "Pilsner", 1)
	assert.ErrorIs(t, err, entities.ErrNotFound)

	items, err := uc.ListIngredients(ctx, entities.IngredientFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 7.0, items[0].Quantity)

	require.NoError(t, uc.DeleteIngredient(ctx, "MARIS OTTER"))
	assert.ErrorIs(t, uc.DeleteIngredient(ctx, "Maris Otter"), entities.ErrNotFound)
}

func TestCalculateRecipe(t *testing.T) {
	calcs := CalculateRecipe(paleAle())
	assert.InDelta(t, 3.3137, calcValue(t, calcs, "srm"), 0.001)
	assert.InDelta(t, 17.2744, calcValue(t, calcs, "ibu"), 0.01)
	assert.InDelta(t, 5.25, calcValue(t, calcs, "abv"), 0.0001)
	assert.InDelta(t, 80, calcValue(t, calcs, "attenuation"), 0.0001)

	empty := &entities.RecipeWithDetails{Recipe: entities.Recipe{BatchGallons: 5}}
	assert.Empty(t, CalculateRecipe(empty))
}

func TestCreateAndGetRecipe(t *testing.T) {
	ctx := context.Background()
	uc := NewBrewUseCase(newTestStore(t), nil, nil)

	recipe := paleAle()
	require.NoError(t, uc.CreateRecipe(ctx, recipe))
	require.NotZero(t, recipe.ID)

	got, err := uc.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "SMaSH Pale", got.Name)
	assert.Len(t, got.Ingredients, 2)
	assert.Len(t, got.Steps, 1)
	assert.InDelta(t, 5.25, calcValue(t, got.Calculations, "abv"), 0.0001)

	cached, err := uc.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Same(t, got, cached)

	require.NoError(t, uc.DeleteRecipe(ctx, recipe.ID))
	_, err = uc.GetRecipe(ctx, recipe.ID)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestCreateRecipeRejectsBadLines(t *testing.T) {
	ctx := context.Background()
	uc := NewBrewUseCase(newTestStore(t), nil, nil)

	recipe := paleAle()
	recipe.Ingredients[1].Unit = ""
	err := uc.CreateRecipe(ctx, recipe)
	require.ErrorIs(t, err, entities.ErrInvalidInput)
	assert.Contains(t, err.Error(), "ingredient 2")

	recipe = paleAle()
	recipe.BatchGallons = 0
	assert.ErrorIs(t, uc.CreateRecipe(ctx, recipe), entities.ErrInvalidInput)

	recipes, err := uc.ListRecipes(ctx, entities.RecipeFilter{})
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestDeleteYeastRefreshesCachedRecipes(t *testing.T) {
	ctx := context.Background()
	uc := NewBrewUseCase(newTestStore(t), nil, nil)

	yeast := &entities.Yeast{Name: "US-05", Quantity: 1}
	require.NoError(t, uc.AddYeast(ctx, yeast))
	recipe := paleAle()
	recipe.YeastID = &yeast.ID
	require.NoError(t, uc.CreateRecipe(ctx, recipe))

	cached, err := uc.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	require.NotNil(t, cached.YeastID)

	require.NoError(t, uc.DeleteYeast(ctx, yeast.ID))
	fresh, err := uc.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Nil(t, fresh.YeastID)

	assert.ErrorIs(t, uc.DeleteYeast(ctx, yeast.ID), entities.ErrNotFound)
}

func TestUpdateYeast(t *testing.T) {
	ctx := context.Background()
	uc := NewBrewUseCase(newTestStore(t), nil, nil)

	yeast := &entities.Yeast{Name: "Nottingham", Quantity: 1}
	require.NoError(t, uc.AddYeast(ctx, yeast))

	yeast.Quantity = 4
	yeast.Lab = "Lallemand"
	require.NoError(t, uc.UpdateYeast(ctx, yeast))
	got, err := uc.GetYeast(ctx, yeast.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.Quantity)
	assert.Equal(t, "Lallemand", got.Lab)

	got.AttenuationMin, got.AttenuationMax = 80, 70
	assert.ErrorIs(t, uc.UpdateYeast(ctx, got), entities.ErrInvalidInput)
}

func TestUpdateRecipeRecomputesFigures(t *testing.T) {
	ctx := context.Background()
	uc := NewBrewUseCase(newTestStore(t), nil, nil)

	recipe := paleAle()
	require.NoError(t, uc.CreateRecipe(ctx, recipe))
	cached, err := uc.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	before := calcValue(t, cached.Calculations, "abv")

	header := cached.Recipe
	header.Name = "SMaSH Strong"
	header.TargetOG = 1.070
	require.NoError(t, uc.UpdateRecipe(ctx, &header))

	got, err := uc.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "SMaSH Strong", got.Name)
	assert.InDelta(t, (1.070-1.010)*131.25, calcValue(t, got.Calculations, "abv"), 1e-9)
	assert.Greater(t, calcValue(t, got.Calculations, "abv"), before)
	require.Len(t, got.Ingredients, 2)

	header.TargetOG = 1.5
	assert.ErrorIs(t, uc.UpdateRecipe(ctx, &header), entities.ErrInvalidInput)

	missing := header
	missing.ID = 999
	missing.TargetOG = 1.050
	assert.ErrorIs(t, uc.UpdateRecipe(ctx, &missing), entities.ErrNotFound)
}

func TestUpdateIngredient(t *testing.T) {
	ctx := context.Background()
	uc := NewBrewUseCase(newTestStore(t), nil, nil)

	require.NoError(t, uc.AddIngredient(ctx, &entities.Ingredient{Name: "Cascade", Type: entities.IngredientHop, Quantity: 4, Unit: "oz"}))
	ing, err := uc.GetIngredient(ctx, "cascade")
	require.NoError(t, err)

	ing.Quantity = 8
	require.NoError(t, uc.UpdateIngredient(ctx, ing))
	again, err := uc.GetIngredient(ctx, "Cascade")
	require.NoError(t, err)
	assert.Equal(t, 8.0, again.Quantity)

	again.AlphaAcid = 150
	assert.ErrorIs(t, uc.UpdateIngredient(ctx, again), entities.ErrInvalidInput)
}

func TestImportRecipeLinksInventory(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	uc := NewBrewUseCase(store, &fakeFetcher{recipe: paleAle()}, nil)
	require.NoError(t, uc.AddIngredient(ctx, &entities.Ingredient{
		Name: "maris otter", Type: entities.IngredientGrain, Quantity: 20, Unit: "lb", CostPerUnit: 1.5,
	}))

	recipe, err := uc.ImportRecipe(ctx, "https://example.com/pale")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/pale", recipe.SourceURL)
	require.NotNil(t, recipe.Ingredients[0].IngredientID)
	assert.Nil(t, recipe.Ingredients[1].IngredientID)

	cost, err := uc.RecipeCost(ctx, recipe.ID)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, cost, 0.0001)
}

func TestImportRecipeErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewBrewUseCase(newTestStore(t), nil, nil).ImportRecipe(ctx, "https://example.com")
	assert.ErrorIs(t, err, ErrNotConfigured)

	boom := errors.New("connection refused")
	_, err = NewBrewUseCase(newTestStore(t), &fakeFetcher{err: boom}, nil).ImportRecipe(ctx, "https://example.com")
	assert.ErrorIs(t, err, boom)
}

func TestStartProjectFromRecipe(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	uc := NewBrewUseCase(store, nil, nil)
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return fixed }

	grain := &entities.Ingredient{Name: "Maris Otter", Type: entities.IngredientGrain, Quantity: 20, Unit: "lb"}
	require.NoError(t, uc.AddIngredient(ctx, grain))
	yeast := &entities.Yeast{Name: "Nottingham", Lab: "Lallemand", Form: "dry", Quantity: 2}
	require.NoError(t, uc.AddYeast(ctx, yeast))

	recipe := paleAle()
	recipe.YeastID = &yeast.ID
	recipe.Ingredients[0].IngredientID = &grain.ID
	recipe.Ingredients = append(recipe.Ingredients, entities.RecipeIngredient{
		IngredientID: &grain.ID, Name: "Maris Otter", Type: entities.IngredientGrain, Amount: 1, Unit: "lb",
	})
	require.NoError(t, uc.CreateRecipe(ctx, recipe))

	project, err := uc.StartProjectFromRecipe(ctx, recipe.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "SMaSH Pale", project.Name)
	assert.Equal(t, entities.StatusFermenting, project.Status)
	assert.Equal(t, 1.050, project.OG)
	assert.Equal(t, fixed, *project.StartedAt)
	require.NotNil(t, project.NextActionAt)
	assert.Equal(t, fixed.Add(14*24*time.Hour), *project.NextActionAt)

	details, err := uc.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "SMaSH Pale", details.RecipeName)
	assert.Equal(t, "Nottingham", details.YeastName)

	// Two lines of the same stock count as one use
	g, err := store.GetIngredient(ctx, grain.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), g.UsageCount)
	y, err := store.GetYeast(ctx, yeast.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), y.UsageCount)

	_, err = uc.StartProjectFromRecipe(ctx, 9999, "ghost")
	assert.ErrorIs(t, err, entities.ErrNotFound)
	projects, err := uc.ListProjects(ctx, "")
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestProjectLifecycle(t *testing.T) {
	ctx := context.Background()
	uc := NewBrewUseCase(newTestStore(t), nil, nil)

	p := &entities.Project{Name: "Orange blossom mead", Beverage: entities.BeverageMead}
	require.NoError(t, uc.CreateProject(ctx, p))
	assert.Equal(t, entities.StatusPlanning, p.Status)
	assert.Nil(t, p.StartedAt)
	assert.Nil(t, p.NextActionAt)

	p, err := uc.RecordReading(ctx, p.ID, 1.110)
	require.NoError(t, err)
	assert.Equal(t, 1.110, p.OG)
	p, err = uc.RecordReading(ctx, p.ID, 1.004)
	require.NoError(t, err)
	assert.Equal(t, 1.004, p.FG)

	_, err = uc.RecordReading(ctx, p.ID, 1.5)
	assert.ErrorIs(t, err, entities.ErrInvalidInput)

	p, err = uc.SetProjectStatus(ctx, p.ID, entities.StatusConditioning)
	require.NoError(t, err)
	assert.NotNil(t, p.StartedAt)
	assert.Equal(t, "Package the batch", p.NextAction)

	p, err = uc.SetProjectStatus(ctx, p.ID, entities.StatusCompleted)
	require.NoError(t, err)
	assert.Nil(t, p.NextActionAt)
	assert.Empty(t, p.NextAction)

	stats, err := uc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Projects[entities.StatusCompleted])

	require.NoError(t, uc.DeleteProject(ctx, p.ID))
	_, err = uc.GetProject(ctx, p.ID)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestInterpretQuery(t *testing.T) {
	ctx := context.Background()

	_, err := NewBrewUseCase(newTestStore(t), nil, nil).InterpretQuery(ctx, "abv of 1.050 to 1.010?", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	want := &openai.Intent{Command: "abv", Arguments: []string{"1.050", "1.010"}}
	intent, err := NewBrewUseCase(newTestStore(t), nil, &fakeIntents{intent: want}).InterpretQuery(ctx, "abv of 1.050 to 1.010?", nil)
	require.NoError(t, err)
	assert.Equal(t, want, intent)
}

func TestUserMessage(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "invalid input: bad og", UserMessage(ctx, fmt.Errorf("%w: bad og", entities.ErrInvalidInput)))
	assert.Equal(t, "Not found.", UserMessage(ctx, entities.ErrNotFound))
	assert.Equal(t, "That already exists.", UserMessage(ctx, entities.ErrAlreadyExists))
	assert.Equal(t, "That feature is not enabled on this bot.", UserMessage(ctx, ErrNotConfigured))
	assert.Contains(t, UserMessage(ctx, errors.New("disk I/O error")), "Something went wrong")
}
