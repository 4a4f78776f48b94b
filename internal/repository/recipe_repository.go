package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/abelzeko/brew-bot/internal/entities"
)

const recipeColumns = `id, name, beverage, style, batch_gallons, boil_minutes, efficiency,
	target_og, target_fg, yeast_id, source_url, notes, created_at, updated_at`

func scanRecipe(row rowScanner) (*entities.Recipe, error) {
	var r entities.Recipe
	var yeastID sql.NullInt64
	if err := row.Scan(
		&r.ID,
		&r.Name,
		&r.Beverage,
		&r.Style,
		&r.BatchGallons,
		&r.BoilMinutes,
		&r.Efficiency,
		&r.TargetOG,
		&r.TargetFG,
		&yeastID,
		&r.SourceURL,
		&r.Notes,
		&r.CreatedAt,
		&r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	r.YeastID = intPtr(yeastID)
	return &r, nil
}

// CreateRecipe inserts a recipe together with its ingredients, steps and calculations.
// Callers wanting all-or-nothing behavior run it inside WithTx.
func (s *SQLiteStore) CreateRecipe(ctx context.Context, r *entities.RecipeWithDetails) error {
	ts := now()
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO recipes(name, beverage, style, batch_gallons, boil_minutes, efficiency,
			target_og, target_fg, yeast_id, source_url, notes, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Name, r.Beverage, r.Style, r.BatchGallons, r.BoilMinutes, r.Efficiency,
		r.TargetOG, r.TargetFG, nullInt(r.YeastID), r.SourceURL, r.Notes, ts, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recipe %s: %w", r.Name, translateError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read recipe id: %w", err)
	}
	r.ID = id
	r.CreatedAt, r.UpdatedAt = ts, ts

	for i := range r.Ingredients {
		ing := &r.Ingredients[i]
		ing.RecipeID = id
		res, err := s.q.ExecContext(ctx, `
			INSERT INTO recipe_ingredients(recipe_id, ingredient_id, name, type, amount, unit,
				color_lovibond, alpha_acid, boil_minutes, position)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, nullInt(ing.IngredientID), ing.Name, ing.Type, ing.Amount, ing.Unit,
			ing.ColorLovibond, ing.AlphaAcid, ing.BoilMinutes, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert ingredient %s of recipe %d: %w", ing.Name, id, translateError(err))
		}
		ing.Position = i
		if ing.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read recipe ingredient id: %w", err)
		}
	}

	for i := range r.Steps {
		step := &r.Steps[i]
		step.RecipeID = id
		step.Position = i + 1
		res, err := s.q.ExecContext(ctx, `
			INSERT INTO recipe_steps(recipe_id, position, description, minutes)
			VALUES(?, ?, ?, ?)`,
			id, step.Position, step.Description, step.Minutes,
		)
		if err != nil {
			return fmt.Errorf("failed to insert step %d of recipe %d: %w", step.Position, id, err)
		}
		if step.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read recipe step id: %w", err)
		}
	}

	for i := range r.Calculations {
		calc := &r.Calculations[i]
		calc.RecipeID = id
		if err := s.SaveCalculation(ctx, calc); err != nil {
			return err
		}
	}

	return nil
}

// GetRecipe retrieves one recipe without its child rows
func (s *SQLiteStore) GetRecipe(ctx context.Context, id int64) (*entities.Recipe, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id)
	r, err := scanRecipe(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe %d: %w", id, translateError(err))
	}
	return r, nil
}

// GetRecipeWithDetails retrieves a recipe with ingredients, steps and calculations
func (s *SQLiteStore) GetRecipeWithDetails(ctx context.Context, id int64) (*entities.RecipeWithDetails, error) {
	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	details := &entities.RecipeWithDetails{Recipe: *recipe}

	if details.Ingredients, err = s.recipeIngredients(ctx, id); err != nil {
		return nil, err
	}
	if details.Steps, err = s.recipeSteps(ctx, id); err != nil {
		return nil, err
	}
	if details.Calculations, err = s.recipeCalculations(ctx, id); err != nil {
		return nil, err
	}
	return details, nil
}

func (s *SQLiteStore) recipeIngredients(ctx context.Context, recipeID int64) ([]entities.RecipeIngredient, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, recipe_id, ingredient_id, name, type, amount, unit, color_lovibond,
			alpha_acid, boil_minutes, position
		FROM recipe_ingredients
		WHERE recipe_id = ?
		ORDER BY position`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredients of recipe %d: %w", recipeID, err)
	}
	defer rows.Close()

	var result []entities.RecipeIngredient
	for rows.Next() {
		var ing entities.RecipeIngredient
		var link sql.NullInt64
		if err := rows.Scan(
			&ing.ID,
			&ing.RecipeID,
			&link,
			&ing.Name,
			&ing.Type,
			&ing.Amount,
			&ing.Unit,
			&ing.ColorLovibond,
			&ing.AlphaAcid,
			&ing.BoilMinutes,
			&ing.Position,
		); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		ing.IngredientID = intPtr(link)
		result = append(result, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return result, nil
}

func (s *SQLiteStore) recipeSteps(ctx context.Context, recipeID int64) ([]entities.RecipeStep, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, recipe_id, position, description, minutes
		FROM recipe_steps
		WHERE recipe_id = ?
		ORDER BY position`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query steps of recipe %d: %w", recipeID, err)
	}
	defer rows.Close()

	var result []entities.RecipeStep
	for rows.Next() {
		var step entities.RecipeStep
		if err := rows.Scan(&step.ID, &step.RecipeID, &step.Position, &step.Description, &step.Minutes); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return result, nil
}

func (s *SQLiteStore) recipeCalculations(ctx context.Context, recipeID int64) ([]entities.RecipeCalculation, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, recipe_id, name, value, unit
		FROM recipe_calculations
		WHERE recipe_id = ?
		ORDER BY name`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query calculations of recipe %d: %w", recipeID, err)
	}
	defer rows.Close()

	var result []entities.RecipeCalculation
	for rows.Next() {
		var c entities.RecipeCalculation
		if err := rows.Scan(&c.ID, &c.RecipeID, &c.Name, &c.Value, &c.Unit); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return result, nil
}

// UpdateRecipe overwrites the recipe header. Child rows are left alone.
func (s *SQLiteStore) UpdateRecipe(ctx context.Context, r *entities.Recipe) error {
	ts := now()
	res, err := s.q.ExecContext(ctx, `
		UPDATE recipes SET name = ?, beverage = ?, style = ?, batch_gallons = ?, boil_minutes = ?,
			efficiency = ?, target_og = ?, target_fg = ?, yeast_id = ?, source_url = ?, notes = ?,
			updated_at = ?
		WHERE id = ?`,
		r.Name, r.Beverage, r.Style, r.BatchGallons, r.BoilMinutes,
		r.Efficiency, r.TargetOG, r.TargetFG, nullInt(r.YeastID), r.SourceURL, r.Notes,
		ts, r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update recipe %d: %w", r.ID, translateError(err))
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to update recipe %d: %w", r.ID, err)
	}
	r.UpdatedAt = ts
	return nil
}

// DeleteRecipe removes a recipe; its ingredients, steps and calculations cascade
func (s *SQLiteStore) DeleteRecipe(ctx context.Context, id int64) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe %d: %w", id, err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to delete recipe %d: %w", id, err)
	}
	return nil
}

// ListRecipes returns recipes matching the filter, ordered by name
func (s *SQLiteStore) ListRecipes(ctx context.Context, filter entities.RecipeFilter) ([]entities.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE 1 = 1`
	var args []any
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query += ` AND (lower(name) LIKE ? ESCAPE '\' OR lower(style) LIKE ? ESCAPE '\')`
		args = append(args, p, p)
	}
	if filter.Beverage != "" {
		query += ` AND beverage = ?`
		args = append(args, filter.Beverage)
	}
	query += ` ORDER BY name`

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	var result []entities.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return result, nil
}

// SaveCalculation stores a derived figure, replacing an earlier value of the same name
func (s *SQLiteStore) SaveCalculation(ctx context.Context, c *entities.RecipeCalculation) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO recipe_calculations(recipe_id, name, value, unit)
		VALUES(?, ?, ?, ?)
		ON CONFLICT(recipe_id, name) DO UPDATE SET
		value=excluded.value,
		unit=excluded.unit`,
		c.RecipeID, c.Name, c.Value, c.Unit,
	)
	if err != nil {
		return fmt.Errorf("failed to save calculation %s of recipe %d: %w", c.Name, c.RecipeID, translateError(err))
	}
	err = s.q.QueryRowContext(ctx,
		`SELECT id FROM recipe_calculations WHERE recipe_id = ? AND name = ?`, c.RecipeID, c.Name,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to read calculation id: %w", err)
	}
	return nil
}

// RecipeCost prices a recipe from the inventory. Lines without a linked ingredient
// cost nothing. Weights are converted to the inventory's unit; a line in a unit that
// cannot be converted is priced as if it used the inventory's unit.
func (s *SQLiteStore) RecipeCost(ctx context.Context, recipeID int64) (float64, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT ri.amount, ri.unit, i.unit, i.cost_per_unit
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = ?`, recipeID)
	if err != nil {
		return 0, fmt.Errorf("failed to price recipe %d: %w", recipeID, err)
	}
	defer rows.Close()

	var cost float64
	for rows.Next() {
		var (
			amount, perUnit     float64
			lineUnit, stockUnit string
		)
		if err := rows.Scan(&amount, &lineUnit, &stockUnit, &perUnit); err != nil {
			return 0, fmt.Errorf("failed to scan row: %w", err)
		}
		if converted, ok := entities.ConvertAmount(amount, lineUnit, stockUnit); ok {
			amount = converted
		}
		cost += amount * perUnit
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("error during row iteration: %w", err)
	}
	return cost, nil
}
