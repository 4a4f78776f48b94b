package integration

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/abelzeko/brew-bot/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recipeHTML = `
<!DOCTYPE html>
<html>
<head><title>Recipes | SMaSH Pale</title><meta name="style" content="Pale Ale"></head>
<body>
	<h1>SMaSH Pale</h1>
	<div class="batch-size">19 L</div>
	<div class="boil-time">75 min</div>
	<div class="og">1.052</div>
	<div class="fg">1.011</div>

	<h2>Fermentables</h2>
	<table>
		<thead><tr><th>Amount</th><th>Fermentable</th><th>Color</th></tr></thead>
		<tbody>
			<tr><td>10 lb</td><td>Maris Otter</td><td>3 °L</td></tr>
			<tr><td>8 oz</td><td>Crystal 40</td><td>40 °L</td></tr>
		</tbody>
	</table>

	<h2>Hops</h2>
	<table>
		<tr><th>Variety</th><th>Weight</th><th>AA</th><th>Use</th><th>Time</th></tr>
		<tr><td>Cascade</td><td>1 oz</td><td>5.5%</td><td>Boil</td><td>60 min</td></tr>
		<tr><td>Cascade</td><td>1,5 oz</td><td>5.5%</td><td>Boil</td><td>5 min</td></tr>
		<tr><td></td><td>n/a</td><td></td><td></td><td></td></tr>
	</table>

	<table><tr><th>Nutrition</th></tr><tr><td>lots</td></tr></table>

	<ol>
		<li>Mash at 152F for 60 min</li>
		<li>Boil   75 minutes</li>
		<li>Ferment at 66F</li>
	</ol>
</body>
</html>`

// mockHTMLServer creates a test server that serves a fixed HTML response
func mockHTMLServer(status int, html string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		io.WriteString(w, html)
	}))
}

func TestFetchRecipe(t *testing.T) {
	server := mockHTMLServer(http.StatusOK, recipeHTML)
	defer server.Close()

	recipe, err := NewRecipeScraper(server.Client()).FetchRecipe(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "SMaSH Pale", recipe.Name)
	assert.Equal(t, "Pale Ale", recipe.Style)
	assert.Equal(t, server.URL, recipe.SourceURL)
	assert.InDelta(t, 5.02, recipe.BatchGallons, 0.01)
	assert.Equal(t, 75.0, recipe.BoilMinutes)
	assert.Equal(t, 1.052, recipe.TargetOG)
	assert.Equal(t, 1.011, recipe.TargetFG)

	require.Len(t, recipe.Ingredients, 4)
	grain := recipe.Ingredients[0]
	assert.Equal(t, "Maris Otter", grain.Name)
	assert.Equal(t, entities.IngredientGrain, grain.Type)
	assert.Equal(t, 10.0, grain.Amount)
	assert.Equal(t, "lb", grain.Unit)
	assert.Equal(t, 3.0, grain.ColorLovibond)
	assert.Equal(t, "oz", recipe.Ingredients[1].Unit)

	hop := recipe.Ingredients[2]
	assert.Equal(t, entities.IngredientHop, hop.Type)
	assert.Equal(t, 5.5, hop.AlphaAcid)
	assert.Equal(t, 60.0, hop.BoilMinutes)
	assert.Equal(t, 1.5, recipe.Ingredients[3].Amount)

	require.Len(t, recipe.Steps, 3)
	assert.Equal(t, "Boil 75 minutes", recipe.Steps[1].Description)
	assert.Equal(t, 60.0, recipe.Steps[0].Minutes)
	assert.Equal(t, 75.0, recipe.Steps[1].Minutes)
	assert.Zero(t, recipe.Steps[2].Minutes)

	grains := recipe.Grains()
	require.Len(t, grains, 2)
	assert.Equal(t, 0.5, grains[1].WeightLbs)
}

func TestFetchRecipeBadStatus(t *testing.T) {
	server := mockHTMLServer(http.StatusNotFound, "nope")
	defer server.Close()

	_, err := NewRecipeScraper(nil).FetchRecipe(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestParseRecipeWithoutIngredients(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body><h1>Empty</h1></body></html>`))
	require.NoError(t, err)

	_, err = NewRecipeScraper(nil).ParseRecipe(doc)
	assert.ErrorIs(t, err, entities.ErrInvalidInput)
}

func TestParseRecipeFallsBackToTitle(t *testing.T) {
	html := `<html><head><title>Cyser</title></head><body>
		<span class="beverage">Mead</span>
		<h3>Sugars</h3>
		<table><tr><th>Ingredient</th><th>Qty</th></tr><tr><td>Wildflower honey</td><td>3</td></tr></table>
	</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	recipe, err := NewRecipeScraper(nil).ParseRecipe(doc)
	require.NoError(t, err)
	assert.Equal(t, "Cyser", recipe.Name)
	assert.Equal(t, entities.BeverageMead, recipe.Beverage)
	assert.Equal(t, 5.0, recipe.BatchGallons)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, entities.IngredientSugar, recipe.Ingredients[0].Type)
	assert.Equal(t, "lb", recipe.Ingredients[0].Unit)
}
