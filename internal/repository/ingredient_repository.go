package repository

import (
	"context"
	"fmt"

	"github.com/abelzeko/brew-bot/internal/entities"
)

const ingredientColumns = `id, name, type, quantity, unit, cost_per_unit, color_lovibond,
	alpha_acid, notes, usage_count, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIngredient(row rowScanner) (*entities.Ingredient, error) {
	var ing entities.Ingredient
	if err := row.Scan(
		&ing.ID,
		&ing.Name,
		&ing.Type,
		&ing.Quantity,
		&ing.Unit,
		&ing.CostPerUnit,
		&ing.ColorLovibond,
		&ing.AlphaAcid,
		&ing.Notes,
		&ing.UsageCount,
		&ing.CreatedAt,
		&ing.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ing, nil
}

// CreateIngredient inserts an ingredient and sets its ID
func (s *SQLiteStore) CreateIngredient(ctx context.Context, ing *entities.Ingredient) error {
	ts := now()
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO ingredients(name, type, quantity, unit, cost_per_unit, color_lovibond,
			alpha_acid, notes, usage_count, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		ing.Name, ing.Type, ing.Quantity, ing.Unit, ing.CostPerUnit, ing.ColorLovibond,
		ing.AlphaAcid, ing.Notes, ts, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ingredient %s: %w", ing.Name, translateError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read ingredient id: %w", err)
	}
	ing.ID = id
	ing.UsageCount = 0
	ing.CreatedAt, ing.UpdatedAt = ts, ts
	return nil
}

// GetIngredient retrieves one ingredient
func (s *SQLiteStore) GetIngredient(ctx context.Context, id int64) (*entities.Ingredient, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+ingredientColumns+` FROM ingredients WHERE id = ?`, id)
	ing, err := scanIngredient(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredient %d: %w", id, translateError(err))
	}
	return ing, nil
}

// GetIngredientByName retrieves an ingredient by its case-insensitive name
func (s *SQLiteStore) GetIngredientByName(ctx context.Context, name string) (*entities.Ingredient, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+ingredientColumns+` FROM ingredients WHERE name = ? COLLATE NOCASE`, name)
	ing, err := scanIngredient(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredient %q: %w", name, translateError(err))
	}
	return ing, nil
}

// UpdateIngredient overwrites the editable fields of an ingredient
func (s *SQLiteStore) UpdateIngredient(ctx context.Context, ing *entities.Ingredient) error {
	ts := now()
	res, err := s.q.ExecContext(ctx, `
		UPDATE ingredients SET name = ?, type = ?, quantity = ?, unit = ?, cost_per_unit = ?,
			color_lovibond = ?, alpha_acid = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		ing.Name, ing.Type, ing.Quantity, ing.Unit, ing.CostPerUnit,
		ing.ColorLovibond, ing.AlphaAcid, ing.Notes, ts, ing.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update ingredient %d: %w", ing.ID, translateError(err))
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to update ingredient %d: %w", ing.ID, err)
	}
	ing.UpdatedAt = ts
	return nil
}

// DeleteIngredient removes an ingredient. Recipe lines that linked to it keep their
// own copy of the name and lose only the link.
func (s *SQLiteStore) DeleteIngredient(ctx context.Context, id int64) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM ingredients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient %d: %w", id, err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to delete ingredient %d: %w", id, err)
	}
	return nil
}

// ListIngredients returns ingredients matching the filter, ordered by type then name
func (s *SQLiteStore) ListIngredients(ctx context.Context, filter entities.IngredientFilter) ([]entities.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE 1 = 1`
	var args []any
	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, filter.Type)
	}
	if filter.Search != "" {
		query += ` AND lower(name) LIKE ? ESCAPE '\'`
		args = append(args, likePattern(filter.Search))
	}
	query += ` ORDER BY type, name`

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredients: %w", err)
	}
	defer rows.Close()

	var result []entities.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, *ing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return result, nil
}

// IncrementIngredientUsage bumps the counter of how many batches used an ingredient
func (s *SQLiteStore) IncrementIngredientUsage(ctx context.Context, id int64) error {
	res, err := s.q.ExecContext(ctx, `UPDATE ingredients SET usage_count = usage_count + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to increment usage of ingredient %d: %w", id, err)
	}
	return checkAffected(res)
}

// CountIngredients returns the number of inventory items
func (s *SQLiteStore) CountIngredients(ctx context.Context) (int64, error) {
	var n int64
	if err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM ingredients`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count ingredients: %w", err)
	}
	return n, nil
}

// InventoryValue sums quantity times unit cost over the whole inventory
func (s *SQLiteStore) InventoryValue(ctx context.Context) (float64, error) {
	var v float64
	err := s.q.QueryRowContext(ctx, `SELECT COALESCE(SUM(quantity * cost_per_unit), 0) FROM ingredients`).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("failed to sum inventory value: %w", err)
	}
	return v, nil
}
