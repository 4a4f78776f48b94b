// Package repository provides data access implementations
package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abelzeko/brew-bot/internal/entities"
	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// IngredientRepository persists the ingredient inventory
type IngredientRepository interface {
	CreateIngredient(ctx context.Context, ing *entities.Ingredient) error
	GetIngredient(ctx context.Context, id int64) (*entities.Ingredient, error)
	GetIngredientByName(ctx context.Context, name string) (*entities.Ingredient, error)
	UpdateIngredient(ctx context.Context, ing *entities.Ingredient) error
	DeleteIngredient(ctx context.Context, id int64) error
	ListIngredients(ctx context.Context, filter entities.IngredientFilter) ([]entities.Ingredient, error)
	IncrementIngredientUsage(ctx context.Context, id int64) error
	CountIngredients(ctx context.Context) (int64, error)
	InventoryValue(ctx context.Context) (float64, error)
}

// YeastRepository persists the yeast bank
type YeastRepository interface {
	CreateYeast(ctx context.Context, y *entities.Yeast) error
	GetYeast(ctx context.Context, id int64) (*entities.Yeast, error)
	UpdateYeast(ctx context.Context, y *entities.Yeast) error
	DeleteYeast(ctx context.Context, id int64) error
	ListYeasts(ctx context.Context, search string) ([]entities.Yeast, error)
	IncrementYeastUsage(ctx context.Context, id int64) error
}

// ProjectRepository persists brewing batches
type ProjectRepository interface {
	CreateProject(ctx context.Context, p *entities.Project) error
	GetProject(ctx context.Context, id int64) (*entities.Project, error)
	GetProjectWithDetails(ctx context.Context, id int64) (*entities.ProjectWithDetails, error)
	UpdateProject(ctx context.Context, p *entities.Project) error
	DeleteProject(ctx context.Context, id int64) error
	ListProjects(ctx context.Context, status entities.ProjectStatus) ([]entities.Project, error)
	CountProjectsByStatus(ctx context.Context) (map[entities.ProjectStatus]int64, error)
	ProjectsDue(ctx context.Context, before time.Time) ([]entities.Project, error)
	MarkReminded(ctx context.Context, id int64, at time.Time) error
}

// RecipeRepository persists the recipe library and its child rows
type RecipeRepository interface {
	CreateRecipe(ctx context.Context, r *entities.RecipeWithDetails) error
	GetRecipe(ctx context.Context, id int64) (*entities.Recipe, error)
	GetRecipeWithDetails(ctx context.Context, id int64) (*entities.RecipeWithDetails, error)
	UpdateRecipe(ctx context.Context, r *entities.Recipe) error
	DeleteRecipe(ctx context.Context, id int64) error
	ListRecipes(ctx context.Context, filter entities.RecipeFilter) ([]entities.Recipe, error)
	SaveCalculation(ctx context.Context, c *entities.RecipeCalculation) error
	RecipeCost(ctx context.Context, recipeID int64) (float64, error)
}

// Store is every repository behind one database
type Store interface {
	IngredientRepository
	YeastRepository
	ProjectRepository
	RecipeRepository
	// WithTx runs fn against a store bound to one transaction. The transaction
	// commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(Store) error) error
	Ping(ctx context.Context) error
	Close() error
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db     *sql.DB
	q      querier
	DBPath string
}

// NewSQLiteStore opens the database at dbPath and applies pending migrations
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		// Set default path if not specified
		dbDir := "data"
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dbPath = filepath.Join(dbDir, "brewbot.db")
	}

	slog.Info("Opening database", "path", dbPath)
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite has a single writer; one connection serializes our own writes
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{
		db:     db,
		q:      db,
		DBPath: dbPath,
	}, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping checks that the database answers
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithTx runs fn inside a transaction
func (s *SQLiteStore) WithTx(ctx context.Context, fn func(Store) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&SQLiteStore{db: s.db, q: tx, DBPath: s.DBPath}); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// translateError maps driver errors onto the entity sentinel errors
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return entities.ErrNotFound
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("%w: %v", entities.ErrAlreadyExists, err)
	}
	return err
}

// checkAffected turns an UPDATE or DELETE that touched nothing into ErrNotFound
func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entities.ErrNotFound
	}
	return nil
}

// likePattern builds a substring match for LIKE ... ESCAPE '\'. Wildcards typed by
// the user match literally.
func likePattern(search string) string {
	search = likeEscaper.Replace(strings.ToLower(strings.TrimSpace(search)))
	return "%" + search + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func intPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func now() time.Time {
	return time.Now().UTC()
}
