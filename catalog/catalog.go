// Package catalog stores the ingredient list autocomplete suggests from.
//
// Names are unique by their folded form, so "Olive Oil" and "olive oil" are
// the same ingredient; the first spelling stored is the one displayed.
package catalog

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/larder/db"
	"github.com/teranos/larder/errors"
	"github.com/teranos/larder/logger"
	"github.com/teranos/larder/match"
	"github.com/teranos/larder/normalize"
)

// Ingredient is one catalog row.
type Ingredient struct {
	ID        int64     `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Category  string    `json:"category,omitempty" yaml:"category,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Candidate converts the ingredient to an autocomplete candidate.
func (i Ingredient) Candidate() match.Candidate {
	return match.Candidate{ID: i.ID, Name: i.Name, Category: i.Category}
}

// Store reads and writes ingredients.
type Store struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// NewStore returns a store over an already migrated database.
func NewStore(conn *sql.DB, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{db: conn, log: log}
}

const selectColumns = "SELECT id, name, category, created_at FROM ingredients"

type scanner interface {
	Scan(dest ...any) error
}

func scanIngredient(row scanner) (Ingredient, error) {
	var ing Ingredient
	err := row.Scan(&ing.ID, &ing.Name, &ing.Category, &ing.CreatedAt)
	return ing, err
}

// List returns every ingredient in insertion order.
func (s *Store) List(ctx context.Context) ([]Ingredient, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY id")
	if err != nil {
		return nil, errors.Wrap(err, "list ingredients")
	}
	defer rows.Close()

	var out []Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan ingredient")
		}
		out = append(out, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list ingredients")
	}
	return out, nil
}

// Candidates returns the catalog as autocomplete candidates, in insertion order.
func (s *Store) Candidates(ctx context.Context) ([]match.Candidate, error) {
	ings, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]match.Candidate, len(ings))
	for i, ing := range ings {
		out[i] = ing.Candidate()
	}
	return out, nil
}

// Get returns the ingredient with the given id.
func (s *Store) Get(ctx context.Context, id int64) (Ingredient, error) {
	ing, err := scanIngredient(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return Ingredient{}, errors.NewNotFoundf("ingredient %d", id)
	}
	if err != nil {
		return Ingredient{}, errors.Wrapf(err, "get ingredient %d", id)
	}
	return ing, nil
}

// FindByName looks an ingredient up by name, ignoring case and surrounding
// whitespace.
func (s *Store) FindByName(ctx context.Context, name string) (Ingredient, error) {
	key := normalize.Key(name)
	if key == "" {
		return Ingredient{}, errors.NewInvalidRequestf("ingredient name is empty")
	}
	ing, err := scanIngredient(s.db.QueryRowContext(ctx, selectColumns+" WHERE name_key = ?", key))
	if errors.Is(err, sql.ErrNoRows) {
		return Ingredient{}, errors.NewNotFoundf("ingredient %q", normalize.Trim(name))
	}
	if err != nil {
		return Ingredient{}, errors.Wrapf(err, "find ingredient %q", name)
	}
	return ing, nil
}

// Create adds an ingredient. The name is trimmed and must be non-empty; a
// name that folds to an existing one is an ErrConflict. The category is
// stored folded so it lines up with the icon category table.
func (s *Store) Create(ctx context.Context, name, category string) (Ingredient, error) {
	name = normalize.Trim(name)
	if name == "" {
		return Ingredient{}, errors.WithHint(
			errors.NewInvalidRequestf("ingredient name is empty"),
			"type a name such as \"garlic\"")
	}
	category = normalize.Key(category)

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO ingredients (name, name_key, category) VALUES (?, ?, ?)",
		name, normalize.Key(name), category)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Ingredient{}, errors.NewConflictf("ingredient %q already exists", name)
		}
		return Ingredient{}, errors.Wrapf(err, "create ingredient %q", name)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Ingredient{}, errors.Wrapf(err, "create ingredient %q", name)
	}

	s.log.Infow("Ingredient created",
		logger.FieldIngredient, name,
		logger.FieldCategory, category,
		"id", id,
	)
	return s.Get(ctx, id)
}

// Delete removes the ingredient with the given id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM ingredients WHERE id = ?", id)
	if err != nil {
		return errors.Wrapf(err, "delete ingredient %d", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "delete ingredient %d", id)
	}
	if n == 0 {
		return errors.NewNotFoundf("ingredient %d", id)
	}
	s.log.Infow("Ingredient deleted", "id", id)
	return nil
}

// Count returns the number of ingredients.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ingredients").Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count ingredients")
	}
	return n, nil
}
