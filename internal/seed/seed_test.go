package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abelzeko/brew-bot/internal/entities"
	"github.com/abelzeko/brew-bot/internal/repository"
	"github.com/abelzeko/brew-bot/internal/usecases"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
ingredients:
  - name: Maris Otter
    type: grain
    quantity: 25
    unit: lb
    cost: 1.2
    color: 3
  - name: Cascade
    type: hop
    quantity: 8
    unit: oz
    alpha: 5.5
yeasts:
  - name: Nottingham
    lab: Lallemand
    form: dry
    attenuation_min: 77
    attenuation_max: 80
    quantity: 3
    expires: 2027-01-31
`

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(seedYAML))
	require.NoError(t, err)
	require.Len(t, f.Ingredients, 2)
	assert.Equal(t, "Maris Otter", f.Ingredients[0].Name)
	assert.Equal(t, 5.5, f.Ingredients[1].Alpha)
	require.Len(t, f.Yeasts, 1)
	assert.Equal(t, "2027-01-31", f.Yeasts[0].Expires)

	empty, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty.Ingredients)

	_, err = Parse(strings.NewReader("ingredients:\n  - name: Salt\n    colour: 2\n"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	store, err := repository.NewSQLiteStore(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	brew := usecases.NewBrewUseCase(store, nil, nil)

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o644))
	f, err := LoadFile(path)
	require.NoError(t, err)

	res, err := Apply(ctx, brew, f)
	require.NoError(t, err)
	assert.Equal(t, Result{Added: 3}, res)

	// Seeding twice is harmless
	res, err = Apply(ctx, brew, f)
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 3}, res)

	items, err := store.ListIngredients(ctx, entities.IngredientFilter{Type: entities.IngredientHop})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Cascade", items[0].Name)
}

func TestApplyStopsOnInvalidEntry(t *testing.T) {
	ctx := context.Background()
	store, err := repository.NewSQLiteStore(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	f := &File{Ingredients: []Ingredient{{Name: "Mystery", Type: "unobtainium", Unit: "g"}}}
	_, err = Apply(ctx, usecases.NewBrewUseCase(store, nil, nil), f)
	assert.ErrorIs(t, err, entities.ErrInvalidInput)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
