package usecases

import (
	"fmt"
	"strings"

	"github.com/abelzeko/brew-bot/internal/calculator"
	"github.com/abelzeko/brew-bot/internal/entities"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayName title-cases a name for display. Existing capitals are kept, so "SMaSH"
// stays as it is. Casers carry state, hence a fresh one per call.
func DisplayName(s string) string {
	return cases.Title(language.English, cases.NoLower).String(s)
}

// FormatIngredients lists the inventory grouped by ingredient type
func FormatIngredients(items []entities.Ingredient) string {
	if len(items) == 0 {
		return "The inventory is empty. Add items with /additem."
	}

	var result strings.Builder
	result.WriteString("📦 Inventory:\n")
	var current entities.IngredientType
	for _, ing := range items {
		if ing.Type != current {
			current = ing.Type
			result.WriteString(fmt.Sprintf("\n%s:\n", DisplayName(string(current))))
		}
		result.WriteString(fmt.Sprintf("• %s: %.2f %s", DisplayName(ing.Name), ing.Quantity, ing.Unit))
		switch {
		case ing.AlphaAcid > 0:
			result.WriteString(fmt.Sprintf(", %.1f%% AA", ing.AlphaAcid))
		case ing.ColorLovibond > 0:
			result.WriteString(fmt.Sprintf(", %.0f °L", ing.ColorLovibond))
		}
		if ing.UsageCount > 0 {
			result.WriteString(fmt.Sprintf(" (used %d×)", ing.UsageCount))
		}
		result.WriteString("\n")
	}
	return result.String()
}

// FormatYeasts lists the yeast bank
func FormatYeasts(yeasts []entities.Yeast) string {
	if len(yeasts) == 0 {
		return "No yeasts stocked. Add one with /addyeast."
	}

	var result strings.Builder
	result.WriteString("🧫 Yeasts:\n")
	for _, y := range yeasts {
		result.WriteString(fmt.Sprintf("#%d %s", y.ID, DisplayName(y.Name)))
		if y.Lab != "" || y.ProductCode != "" {
			result.WriteString(fmt.Sprintf(" (%s)", strings.TrimSpace(y.Lab+" "+y.ProductCode)))
		}
		if y.AttenuationMax > 0 {
			result.WriteString(fmt.Sprintf(", %.0f-%.0f%% attenuation", y.AttenuationMin, y.AttenuationMax))
		}
		if y.TempMaxF > 0 {
			result.WriteString(fmt.Sprintf(", %.0f-%.0f °F", y.TempMinF, y.TempMaxF))
		}
		if y.ExpiresAt != nil {
			result.WriteString(fmt.Sprintf(", expires %s", y.ExpiresAt.Format("2006-01-02")))
		}
		result.WriteString("\n")
	}
	return result.String()
}

// FormatRecipes lists the recipe library
func FormatRecipes(recipes []entities.Recipe) string {
	if len(recipes) == 0 {
		return "No recipes yet. Import one with /import URL."
	}

	var result strings.Builder
	result.WriteString("📖 Recipes:\n")
	for _, r := range recipes {
		result.WriteString(fmt.Sprintf("#%d %s", r.ID, DisplayName(r.Name)))
		if r.Style != "" {
			result.WriteString(" - " + r.Style)
		}
		result.WriteString(fmt.Sprintf(" (%s, %.1f gal)\n", r.Beverage, r.BatchGallons))
	}
	return result.String()
}

// FormatRecipe shows one recipe with its ingredients, steps and figures
func FormatRecipe(r *entities.RecipeWithDetails, cost float64) string {
	var result strings.Builder
	result.WriteString(fmt.Sprintf("📖 %s (#%d)\n", DisplayName(r.Name), r.ID))
	if r.Style != "" {
		result.WriteString(fmt.Sprintf("Style: %s\n", r.Style))
	}
	result.WriteString(fmt.Sprintf("%s, %.1f gal, %.0f min boil\n", DisplayName(string(r.Beverage)), r.BatchGallons, r.BoilMinutes))
	if r.TargetOG > 0 {
		result.WriteString(fmt.Sprintf("Target: OG %.3f", r.TargetOG))
		if r.TargetFG > 0 {
			result.WriteString(fmt.Sprintf(", FG %.3f", r.TargetFG))
		}
		result.WriteString("\n")
	}

	if len(r.Ingredients) > 0 {
		result.WriteString("\nIngredients:\n")
		for _, ing := range r.Ingredients {
			result.WriteString(fmt.Sprintf("• %.2f %s %s", ing.Amount, ing.Unit, ing.Name))
			if ing.Type == entities.IngredientHop && ing.BoilMinutes > 0 {
				result.WriteString(fmt.Sprintf(" @ %.0f min", ing.BoilMinutes))
			}
			result.WriteString("\n")
		}
	}

	if len(r.Steps) > 0 {
		result.WriteString("\nSteps:\n")
		for _, s := range r.Steps {
			result.WriteString(fmt.Sprintf("%d. %s\n", s.Position, s.Description))
		}
	}

	if len(r.Calculations) > 0 {
		result.WriteString("\nFigures:\n")
		for _, c := range r.Calculations {
			result.WriteString(fmt.Sprintf("• %s: %.2f %s\n", strings.ToUpper(c.Name), c.Value, c.Unit))
		}
	}
	if cost > 0 {
		result.WriteString(fmt.Sprintf("\n💰 Ingredient cost: %.2f\n", cost))
	}
	if r.SourceURL != "" {
		result.WriteString(fmt.Sprintf("\nSource: %s\n", r.SourceURL))
	}
	return result.String()
}

// FormatProjects lists projects
func FormatProjects(projects []entities.Project) string {
	if len(projects) == 0 {
		return "No projects. Start one with /newproject."
	}

	var result strings.Builder
	result.WriteString("🧪 Projects:\n")
	for _, p := range projects {
		result.WriteString(fmt.Sprintf("#%d %s [%s]", p.ID, DisplayName(p.Name), p.Status))
		if p.NextActionAt != nil {
			result.WriteString(fmt.Sprintf(", next: %s on %s", p.NextAction, p.NextActionAt.Local().Format("2006-01-02")))
		}
		result.WriteString("\n")
	}
	return result.String()
}

// FormatProject shows one project
func FormatProject(p *entities.ProjectWithDetails) string {
	var result strings.Builder
	result.WriteString(fmt.Sprintf("🧪 %s (#%d)\n", DisplayName(p.Name), p.ID))
	result.WriteString(fmt.Sprintf("%s, %s\n", DisplayName(string(p.Beverage)), p.Status))
	if p.Style != "" {
		result.WriteString(fmt.Sprintf("Style: %s\n", p.Style))
	}
	if p.RecipeName != "" {
		result.WriteString(fmt.Sprintf("Recipe: %s\n", DisplayName(p.RecipeName)))
	}
	if p.YeastName != "" {
		result.WriteString(fmt.Sprintf("Yeast: %s\n", DisplayName(p.YeastName)))
	}
	if p.BatchGallons > 0 {
		result.WriteString(fmt.Sprintf("Batch: %.1f gal\n", p.BatchGallons))
	}
	if p.OG > 0 {
		result.WriteString(fmt.Sprintf("OG: %.3f\n", p.OG))
	}
	if p.FG > 0 {
		result.WriteString(fmt.Sprintf("FG: %.3f\n", p.FG))
	}
	if p.HasGravities() {
		result.WriteString(fmt.Sprintf("ABV: %.2f%%, attenuation %.1f%%\n",
			calculator.ABV(p.OG, p.FG), calculator.Attenuation(p.OG, p.FG)))
	}
	if p.StartedAt != nil {
		result.WriteString(fmt.Sprintf("Started: %s\n", p.StartedAt.Local().Format("2006-01-02")))
	}
	if p.NextActionAt != nil {
		result.WriteString(fmt.Sprintf("Next: %s on %s\n", p.NextAction, p.NextActionAt.Local().Format("2006-01-02")))
	}
	if p.Notes != "" {
		result.WriteString("\n" + p.Notes + "\n")
	}
	return result.String()
}

// FormatStats shows the headline numbers
func FormatStats(s *Stats) string {
	var result strings.Builder
	result.WriteString("📊 Brewing log:\n")
	result.WriteString(fmt.Sprintf("Ingredients stocked: %d\n", s.Ingredients))
	result.WriteString(fmt.Sprintf("Inventory value: %.2f\n", s.InventoryValue))
	for _, status := range entities.ProjectStatuses {
		if n := s.Projects[status]; n > 0 {
			result.WriteString(fmt.Sprintf("%s: %d\n", DisplayName(string(status)), n))
		}
	}
	return result.String()
}
