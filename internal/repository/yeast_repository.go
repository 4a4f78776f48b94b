package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/abelzeko/brew-bot/internal/entities"
)

const yeastColumns = `id, name, lab, product_code, form, attenuation_min, attenuation_max,
	temp_min_f, temp_max_f, quantity, expires_at, notes, usage_count, created_at`

func scanYeast(row rowScanner) (*entities.Yeast, error) {
	var y entities.Yeast
	var expires sql.NullTime
	if err := row.Scan(
		&y.ID,
		&y.Name,
		&y.Lab,
		&y.ProductCode,
		&y.Form,
		&y.AttenuationMin,
		&y.AttenuationMax,
		&y.TempMinF,
		&y.TempMaxF,
		&y.Quantity,
		&expires,
		&y.Notes,
		&y.UsageCount,
		&y.CreatedAt,
	); err != nil {
		return nil, err
	}
	y.ExpiresAt = timePtr(expires)
	return &y, nil
}

// CreateYeast inserts a yeast and sets its ID
func (s *SQLiteStore) CreateYeast(ctx context.Context, y *entities.Yeast) error {
	ts := now()
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO yeasts(name, lab, product_code, form, attenuation_min, attenuation_max,
			temp_min_f, temp_max_f, quantity, expires_at, notes, usage_count, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		y.Name, y.Lab, y.ProductCode, y.Form, y.AttenuationMin, y.AttenuationMax,
		y.TempMinF, y.TempMaxF, y.Quantity, nullTime(y.ExpiresAt), y.Notes, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to insert yeast %s: %w", y.Name, translateError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read yeast id: %w", err)
	}
	y.ID = id
	y.CreatedAt = ts
	return nil
}

// GetYeast retrieves one yeast
func (s *SQLiteStore) GetYeast(ctx context.Context, id int64) (*entities.Yeast, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+yeastColumns+` FROM yeasts WHERE id = ?`, id)
	y, err := scanYeast(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get yeast %d: %w", id, translateError(err))
	}
	return y, nil
}

// UpdateYeast overwrites the editable fields of a yeast
func (s *SQLiteStore) UpdateYeast(ctx context.Context, y *entities.Yeast) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE yeasts SET name = ?, lab = ?, product_code = ?, form = ?, attenuation_min = ?,
			attenuation_max = ?, temp_min_f = ?, temp_max_f = ?, quantity = ?, expires_at = ?, notes = ?
		WHERE id = ?`,
		y.Name, y.Lab, y.ProductCode, y.Form, y.AttenuationMin,
		y.AttenuationMax, y.TempMinF, y.TempMaxF, y.Quantity, nullTime(y.ExpiresAt), y.Notes, y.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update yeast %d: %w", y.ID, translateError(err))
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to update yeast %d: %w", y.ID, err)
	}
	return nil
}

// DeleteYeast removes a yeast
func (s *SQLiteStore) DeleteYeast(ctx context.Context, id int64) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM yeasts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete yeast %d: %w", id, err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to delete yeast %d: %w", id, err)
	}
	return nil
}

// ListYeasts returns yeasts whose name, lab or product code contains search
func (s *SQLiteStore) ListYeasts(ctx context.Context, search string) ([]entities.Yeast, error) {
	query := `SELECT ` + yeastColumns + ` FROM yeasts`
	var args []any
	if search != "" {
		p := likePattern(search)
		query += ` WHERE lower(name) LIKE ? ESCAPE '\' OR lower(lab) LIKE ? ESCAPE '\' OR lower(product_code) LIKE ? ESCAPE '\'`
		args = append(args, p, p, p)
	}
	query += ` ORDER BY name`

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query yeasts: %w", err)
	}
	defer rows.Close()

	var result []entities.Yeast
	for rows.Next() {
		y, err := scanYeast(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, *y)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return result, nil
}

// IncrementYeastUsage bumps the counter of how many batches pitched a yeast
func (s *SQLiteStore) IncrementYeastUsage(ctx context.Context, id int64) error {
	res, err := s.q.ExecContext(ctx, `UPDATE yeasts SET usage_count = usage_count + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to increment usage of yeast %d: %w", id, err)
	}
	return checkAffected(res)
}
