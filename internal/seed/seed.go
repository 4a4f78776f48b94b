// Package seed loads starter inventory from YAML files
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/abelzeko/brew-bot/internal/entities"
	"gopkg.in/yaml.v3"
)

// File is the layout of a seed file
type File struct {
	Ingredients []Ingredient `yaml:"ingredients"`
	Yeasts      []Yeast      `yaml:"yeasts"`
}

// Ingredient is one inventory entry in a seed file
type Ingredient struct {
	Name     string  `yaml:"name"`
	Type     string  `yaml:"type"`
	Quantity float64 `yaml:"quantity"`
	Unit     string  `yaml:"unit"`
	Cost     float64 `yaml:"cost"`
	Color    float64 `yaml:"color"`
	Alpha    float64 `yaml:"alpha"`
	Notes    string  `yaml:"notes"`
}

// Yeast is one yeast entry in a seed file
type Yeast struct {
	Name           string  `yaml:"name"`
	Lab            string  `yaml:"lab"`
	Code           string  `yaml:"code"`
	Form           string  `yaml:"form"`
	AttenuationMin float64 `yaml:"attenuation_min"`
	AttenuationMax float64 `yaml:"attenuation_max"`
	TempMinF       float64 `yaml:"temp_min_f"`
	TempMaxF       float64 `yaml:"temp_max_f"`
	Quantity       float64 `yaml:"quantity"`
	Expires        string  `yaml:"expires"` // YYYY-MM-DD
	Notes          string  `yaml:"notes"`
}

// Loader stores seeded entities. BrewUseCase satisfies it.
type Loader interface {
	AddIngredient(ctx context.Context, ing *entities.Ingredient) error
	AddYeast(ctx context.Context, y *entities.Yeast) error
}

// Result counts what a seed run did
type Result struct {
	Added   int
	Skipped int // Already present
}

// Parse decodes a seed file. Unknown keys are rejected so typos do not pass silently.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}
	return &f, nil
}

// LoadFile reads and parses the seed file at path
func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer fh.Close()
	return Parse(fh)
}

// Apply adds every entry of f. Entries that already exist are skipped; any other
// failure stops the run.
func Apply(ctx context.Context, l Loader, f *File) (Result, error) {
	var res Result
	count := func(err error, kind, name string) error {
		switch {
		case err == nil:
			res.Added++
		case errors.Is(err, entities.ErrAlreadyExists):
			slog.Info("Skipping existing entry", "kind", kind, "name", name)
			res.Skipped++
		default:
			return fmt.Errorf("%s %q: %w", kind, name, err)
		}
		return nil
	}

	for _, in := range f.Ingredients {
		ing := &entities.Ingredient{
			Name:          in.Name,
			Type:          entities.IngredientType(in.Type),
			Quantity:      in.Quantity,
			Unit:          in.Unit,
			CostPerUnit:   in.Cost,
			ColorLovibond: in.Color,
			AlphaAcid:     in.Alpha,
			Notes:         in.Notes,
		}
		if err := count(l.AddIngredient(ctx, ing), "ingredient", in.Name); err != nil {
			return res, err
		}
	}

	for _, in := range f.Yeasts {
		y := &entities.Yeast{
			Name:           in.Name,
			Lab:            in.Lab,
			ProductCode:    in.Code,
			Form:           in.Form,
			AttenuationMin: in.AttenuationMin,
			AttenuationMax: in.AttenuationMax,
			TempMinF:       in.TempMinF,
			TempMaxF:       in.TempMaxF,
			Quantity:       in.Quantity,
			Notes:          in.Notes,
		}
		if in.Expires != "" {
			exp, err := time.ParseInLocation("2006-01-02", in.Expires, time.Local)
			if err != nil {
				return res, fmt.Errorf("yeast %q: %w: expires must look like 2026-12-31", in.Name, entities.ErrInvalidInput)
			}
			y.ExpiresAt = &exp
		}
		if err := count(l.AddYeast(ctx, y), "yeast", in.Name); err != nil {
			return res, err
		}
	}
	return res, nil
}
