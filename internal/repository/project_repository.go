package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/abelzeko/brew-bot/internal/entities"
)

const projectColumns = `p.id, p.name, p.beverage, p.style, p.status, p.recipe_id, p.yeast_id,
	p.batch_gallons, p.og, p.fg, p.started_at, p.next_action_at, p.next_action, p.reminded_at,
	p.notes, p.created_at, p.updated_at`

func scanProject(row rowScanner, extra ...any) (*entities.Project, error) {
	var p entities.Project
	var recipeID, yeastID sql.NullInt64
	var started, nextAt, reminded sql.NullTime
	dest := []any{
		&p.ID,
		&p.Name,
		&p.Beverage,
		&p.Style,
		&p.Status,
		&recipeID,
		&yeastID,
		&p.BatchGallons,
		&p.OG,
		&p.FG,
		&started,
		&nextAt,
		&p.NextAction,
		&reminded,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	p.RecipeID = intPtr(recipeID)
	p.YeastID = intPtr(yeastID)
	p.StartedAt = timePtr(started)
	p.NextActionAt = timePtr(nextAt)
	p.RemindedAt = timePtr(reminded)
	return &p, nil
}

// CreateProject inserts a project and sets its ID
func (s *SQLiteStore) CreateProject(ctx context.Context, p *entities.Project) error {
	ts := now()
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO projects(name, beverage, style, status, recipe_id, yeast_id, batch_gallons,
			og, fg, started_at, next_action_at, next_action, reminded_at, notes, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Beverage, p.Style, p.Status, nullInt(p.RecipeID), nullInt(p.YeastID), p.BatchGallons,
		p.OG, p.FG, nullTime(p.StartedAt), nullTime(p.NextActionAt), p.NextAction, nullTime(p.RemindedAt),
		p.Notes, ts, ts,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project %s: %w", p.Name, translateError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read project id: %w", err)
	}
	p.ID = id
	p.CreatedAt, p.UpdatedAt = ts, ts
	return nil
}

// GetProject retrieves one project
func (s *SQLiteStore) GetProject(ctx context.Context, id int64) (*entities.Project, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects p WHERE p.id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get project %d: %w", id, translateError(err))
	}
	return p, nil
}

// GetProjectWithDetails retrieves a project with its recipe and yeast names
func (s *SQLiteStore) GetProjectWithDetails(ctx context.Context, id int64) (*entities.ProjectWithDetails, error) {
	query := `
		SELECT ` + projectColumns + `, COALESCE(r.name, ''), COALESCE(y.name, '')
		FROM projects p
		LEFT JOIN recipes r ON r.id = p.recipe_id
		LEFT JOIN yeasts y ON y.id = p.yeast_id
		WHERE p.id = ?`

	var recipeName, yeastName string
	p, err := scanProject(s.q.QueryRowContext(ctx, query, id), &recipeName, &yeastName)
	if err != nil {
		return nil, fmt.Errorf("failed to get project %d: %w", id, translateError(err))
	}
	return &entities.ProjectWithDetails{
		Project:    *p,
		RecipeName: recipeName,
		YeastName:  yeastName,
	}, nil
}

// UpdateProject overwrites the editable fields of a project
func (s *SQLiteStore) UpdateProject(ctx context.Context, p *entities.Project) error {
	ts := now()
	res, err := s.q.ExecContext(ctx, `
		UPDATE projects SET name = ?, beverage = ?, style = ?, status = ?, recipe_id = ?, yeast_id = ?,
			batch_gallons = ?, og = ?, fg = ?, started_at = ?, next_action_at = ?, next_action = ?,
			reminded_at = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Beverage, p.Style, p.Status, nullInt(p.RecipeID), nullInt(p.YeastID),
		p.BatchGallons, p.OG, p.FG, nullTime(p.StartedAt), nullTime(p.NextActionAt), p.NextAction,
		nullTime(p.RemindedAt), p.Notes, ts, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project %d: %w", p.ID, translateError(err))
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to update project %d: %w", p.ID, err)
	}
	p.UpdatedAt = ts
	return nil
}

// DeleteProject removes a project
func (s *SQLiteStore) DeleteProject(ctx context.Context, id int64) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project %d: %w", id, err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to delete project %d: %w", id, err)
	}
	return nil
}

// ListProjects returns projects in a status, or every project when status is empty.
// Newest first.
func (s *SQLiteStore) ListProjects(ctx context.Context, status entities.ProjectStatus) ([]entities.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p`
	var args []any
	if status != "" {
		query += ` WHERE p.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY p.created_at DESC, p.id DESC`
	return s.queryProjects(ctx, query, args...)
}

// ProjectsDue returns unfinished projects whose next action is at or before the cutoff
// and that have not been reminded since that action was scheduled
func (s *SQLiteStore) ProjectsDue(ctx context.Context, before time.Time) ([]entities.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects p
		WHERE p.next_action_at IS NOT NULL
			AND p.next_action_at <= ?
			AND p.status != ?
			AND (p.reminded_at IS NULL OR p.reminded_at < p.next_action_at)
		ORDER BY p.next_action_at`
	return s.queryProjects(ctx, query, before.UTC(), entities.StatusCompleted)
}

func (s *SQLiteStore) queryProjects(ctx context.Context, query string, args ...any) ([]entities.Project, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var result []entities.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return result, nil
}

// MarkReminded records that the brewer was told about a project's next action
func (s *SQLiteStore) MarkReminded(ctx context.Context, id int64, at time.Time) error {
	res, err := s.q.ExecContext(ctx, `UPDATE projects SET reminded_at = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark project %d reminded: %w", id, err)
	}
	return checkAffected(res)
}

// CountProjectsByStatus returns how many projects are in each status
func (s *SQLiteStore) CountProjectsByStatus(ctx context.Context) (map[entities.ProjectStatus]int64, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT status, COUNT(*) FROM projects GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	defer rows.Close()

	counts := make(map[entities.ProjectStatus]int64)
	for rows.Next() {
		var status entities.ProjectStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		counts[status] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return counts, nil
}
