package catalog

import (
	"context"
	"database/sql"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/teranos/larder/errors"
	"github.com/teranos/larder/logger"
	"github.com/teranos/larder/normalize"
)

// ImportEntry is one element of an import document:
//
//	- name: Olive Oil
//	  category: pantry
//	- name: Garlic
type ImportEntry struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

// ImportReport lists what an import did.
type ImportReport struct {
	Added   []Ingredient `json:"added"`
	Skipped []string     `json:"skipped"`
}

// ParseImport decodes a YAML list of ingredients. Every entry needs a name.
func ParseImport(r io.Reader) ([]ImportEntry, error) {
	var entries []ImportEntry
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.WithHint(
			errors.Wrap(err, "decode ingredient list"),
			"expected a YAML list of {name, category} entries")
	}
	for i, e := range entries {
		if normalize.Trim(e.Name) == "" {
			return nil, errors.NewInvalidRequestf("entry %d has no name", i+1)
		}
	}
	return entries, nil
}

// Import adds every entry whose name is not in the catalog yet, in one
// transaction. Existing names, including repeats within r, are skipped.
func (s *Store) Import(ctx context.Context, r io.Reader) (ImportReport, error) {
	entries, err := ParseImport(r)
	if err != nil {
		return ImportReport{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportReport{}, errors.Wrap(err, "begin import")
	}
	defer tx.Rollback()

	var report ImportReport
	for _, e := range entries {
		name := normalize.Trim(e.Name)
		key := normalize.Key(name)

		var exists bool
		err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM ingredients WHERE name_key = ?)", key).Scan(&exists)
		if err != nil {
			return ImportReport{}, errors.Wrapf(err, "import %q", name)
		}
		if exists {
			report.Skipped = append(report.Skipped, name)
			continue
		}

		ing, err := insertTx(ctx, tx, name, key, normalize.Key(e.Category))
		if err != nil {
			return ImportReport{}, errors.Wrapf(err, "import %q", name)
		}
		report.Added = append(report.Added, ing)
	}

	if err := tx.Commit(); err != nil {
		return ImportReport{}, errors.Wrap(err, "commit import")
	}

	s.log.Infow("Ingredients imported",
		logger.FieldCount, len(report.Added),
		"skipped", len(report.Skipped),
	)
	return report, nil
}

func insertTx(ctx context.Context, tx *sql.Tx, name, key, category string) (Ingredient, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO ingredients (name, name_key, category) VALUES (?, ?, ?)",
		name, key, category)
	if err != nil {
		return Ingredient{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Ingredient{}, err
	}
	return scanIngredient(tx.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
}
