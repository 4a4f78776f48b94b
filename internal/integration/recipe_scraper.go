// Package integration handles external service interactions
package integration

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/abelzeko/brew-bot/internal/entities"
)

// RecipeScraper imports recipes published as HTML pages
type RecipeScraper struct {
	client *http.Client
}

// NewRecipeScraper creates a new recipe scraper. A nil client gets a 15 second timeout.
func NewRecipeScraper(client *http.Client) *RecipeScraper {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &RecipeScraper{client: client}
}

// FetchRecipe downloads url and parses it into a recipe
func (rs *RecipeScraper) FetchRecipe(ctx context.Context, url string) (*entities.RecipeWithDetails, error) {
	slog.Info("Fetching recipe page", "url", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	res, err := rs.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch the webpage: %w", err)
	}
	defer res.Body.Close()

	// Check for successful response
	if res.StatusCode != http.StatusOK {
		slog.Warn("Received unexpected status code", "status", res.Status, "url", url)
		return nil, fmt.Errorf("unexpected status code: %d %s", res.StatusCode, res.Status)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse the webpage: %w", err)
	}

	recipe, err := rs.ParseRecipe(doc)
	if err != nil {
		return nil, err
	}
	recipe.SourceURL = url
	return recipe, nil
}

// ParseRecipe extracts a recipe from an HTML document. Ingredient tables are
// recognized by their header cells, so the page layout around them does not matter.
func (rs *RecipeScraper) ParseRecipe(doc *goquery.Document) (*entities.RecipeWithDetails, error) {
	recipe := &entities.RecipeWithDetails{
		Recipe: entities.Recipe{
			Beverage:    entities.BeverageBeer,
			BoilMinutes: 60,
		},
	}

	recipe.Name = strings.TrimSpace(doc.Find("h1").First().Text())
	if recipe.Name == "" {
		recipe.Name = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if recipe.Name == "" {
		return nil, fmt.Errorf("%w: page has no recipe title", entities.ErrInvalidInput)
	}

	recipe.Style = strings.TrimSpace(doc.Find(".style").First().Text())
	if recipe.Style == "" {
		recipe.Style = doc.Find(`meta[name="style"]`).AttrOr("content", "")
	}
	if b := detectBeverage(doc.Find(".beverage").First().Text()); b != "" {
		recipe.Beverage = b
	}

	recipe.BatchGallons = parseVolume(doc.Find(".batch-size").First().Text())
	if recipe.BatchGallons <= 0 {
		recipe.BatchGallons = 5
	}
	if v, ok := leadingNumber(doc.Find(".boil-time").First().Text()); ok {
		recipe.BoilMinutes = v
	}
	if v, ok := leadingNumber(doc.Find(".og").First().Text()); ok {
		recipe.TargetOG = v
	}
	if v, ok := leadingNumber(doc.Find(".fg").First().Text()); ok {
		recipe.TargetFG = v
	}

	tableCount := 0
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		lines := parseIngredientTable(table)
		if len(lines) > 0 {
			tableCount++
		}
		recipe.Ingredients = append(recipe.Ingredients, lines...)
	})

	doc.Find("ol li").Each(func(_ int, li *goquery.Selection) {
		text := strings.Join(strings.Fields(li.Text()), " ")
		if text == "" {
			return
		}
		minutes, _ := stepMinutes(text)
		recipe.Steps = append(recipe.Steps, entities.RecipeStep{Description: text, Minutes: minutes})
	})

	slog.Info("Parsed recipe page",
		"name", recipe.Name, "tables", tableCount,
		"ingredients", len(recipe.Ingredients), "steps", len(recipe.Steps))

	if len(recipe.Ingredients) == 0 {
		return nil, fmt.Errorf("%w: no ingredient tables found", entities.ErrInvalidInput)
	}
	return recipe, nil
}

type columnMap struct {
	name, amount, color, alpha, time int
}

// parseIngredientTable reads one table. Tables without a name and amount column are
// not ingredient tables and yield nothing.
func parseIngredientTable(table *goquery.Selection) []entities.RecipeIngredient {
	headers := table.Find("thead th")
	if headers.Length() == 0 {
		headers = table.Find("tr").First().Find("th")
	}
	cols := columnMap{-1, -1, -1, -1, -1}
	headers.Each(func(i int, th *goquery.Selection) {
		h := strings.ToLower(strings.TrimSpace(th.Text()))
		switch {
		case containsAny(h, "alpha", "aa"):
			cols.alpha = i
		case containsAny(h, "color", "lovibond", "°l", "srm"):
			cols.color = i
		case containsAny(h, "amount", "weight", "qty", "quantity"):
			cols.amount = i
		case containsAny(h, "time", "min"):
			cols.time = i
		case containsAny(h, "name", "fermentable", "grain", "malt", "hop", "variety", "ingredient", "item"):
			cols.name = i
		}
	})
	if cols.name < 0 || cols.amount < 0 {
		return nil
	}

	kind := entities.IngredientOther
	heading := strings.ToLower(table.Find("caption").Text() + " " + table.PrevAllFiltered("h2, h3").First().Text())
	switch {
	case cols.alpha >= 0 || strings.Contains(heading, "hop"):
		kind = entities.IngredientHop
	case cols.color >= 0 || containsAny(heading, "ferment", "grain", "malt"):
		kind = entities.IngredientGrain
	case containsAny(heading, "sugar", "honey"):
		kind = entities.IngredientSugar
	case strings.Contains(heading, "fruit"):
		kind = entities.IngredientFruit
	}

	var lines []entities.RecipeIngredient
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() <= cols.name || cells.Length() <= cols.amount {
			return
		}
		name := strings.TrimSpace(cells.Eq(cols.name).Text())
		amount, unit, ok := parseAmount(cells.Eq(cols.amount).Text())
		if name == "" || !ok {
			slog.Debug("Skipping row without name or amount", "name", name)
			return
		}

		line := entities.RecipeIngredient{Name: name, Type: kind, Amount: amount, Unit: unit}
		if line.Unit == "" {
			line.Unit = defaultUnit(kind)
		}
		if cols.color >= 0 && cells.Length() > cols.color {
			line.ColorLovibond, _ = leadingNumber(cells.Eq(cols.color).Text())
		}
		if cols.alpha >= 0 && cells.Length() > cols.alpha {
			line.AlphaAcid, _ = leadingNumber(cells.Eq(cols.alpha).Text())
		}
		if cols.time >= 0 && cells.Length() > cols.time {
			line.BoilMinutes, _ = leadingNumber(cells.Eq(cols.time).Text())
		}
		lines = append(lines, line)
	})
	return lines
}

var (
	amountPattern  = regexp.MustCompile(`^\s*([0-9]+(?:[.,][0-9]+)?)\s*([a-zA-Z]*)`)
	numberPattern  = regexp.MustCompile(`-?[0-9]+(?:[.,][0-9]+)?`)
	minutesPattern = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*(?:min|minutes)\b`)
)

func parseAmount(s string) (float64, string, bool) {
	m := amountPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, "", false
	}
	v, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return 0, "", false
	}
	return v, strings.ToLower(m[2]), true
}

func leadingNumber(s string) (float64, bool) {
	m := numberPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseVolume reads "5 gal" or "19 L" into gallons
func parseVolume(s string) float64 {
	v, ok := leadingNumber(s)
	if !ok {
		return 0
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "gal") {
		return v
	}
	if strings.Contains(lower, "l") {
		return v / 3.78541
	}
	return v
}

func stepMinutes(text string) (float64, bool) {
	m := minutesPattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	return v, err == nil
}

func detectBeverage(s string) entities.BeverageType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wine":
		return entities.BeverageWine
	case "mead":
		return entities.BeverageMead
	case "cider":
		return entities.BeverageCider
	case "beer":
		return entities.BeverageBeer
	}
	return ""
}

func defaultUnit(kind entities.IngredientType) string {
	switch kind {
	case entities.IngredientGrain, entities.IngredientSugar, entities.IngredientFruit:
		return "lb"
	case entities.IngredientHop:
		return "oz"
	default:
		return "g"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
