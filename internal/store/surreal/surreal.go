// Package surreal implements the loader's Store on SurrealDB through the
// database package. Collections are schemaless tables; record IDs are the
// loader's identifiers (accounts:⟨id⟩), and references are stored as the
// bare identifier strings.
package surreal

import (
	"context"
	"fmt"
	"regexp"

	"github.com/octofit/tracker/seed/internal/database"
	"github.com/octofit/tracker/seed/internal/model"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store writes collections to SurrealDB
type Store struct {
	db database.Database
}

// New creates a store over an open connection
func New(db database.Database) *Store {
	return &Store{db: db}
}

// DropCollection removes the table together with its indexes
func (s *Store) DropCollection(ctx context.Context, name string) error {
	if err := checkIdent(name); err != nil {
		return err
	}
	return s.db.Execute(ctx, fmt.Sprintf("REMOVE TABLE IF EXISTS %s", name), nil)
}

// CreateCollection defines an empty schemaless table
func (s *Store) CreateCollection(ctx context.Context, name string) error {
	if err := checkIdent(name); err != nil {
		return err
	}
	return s.db.Execute(ctx, fmt.Sprintf("DEFINE TABLE %s SCHEMALESS", name), nil)
}

// ResetCollections drops every named table in reverse order and redefines
// them in order, all in one transaction.
func (s *Store) ResetCollections(ctx context.Context, names []string) error {
	batch := database.NewAtomicBatch()
	for i := len(names) - 1; i >= 0; i-- {
		if err := checkIdent(names[i]); err != nil {
			return err
		}
		batch.Add(fmt.Sprintf("REMOVE TABLE IF EXISTS %s", names[i]), nil)
	}
	for _, name := range names {
		batch.Add(fmt.Sprintf("DEFINE TABLE %s SCHEMALESS", name), nil)
	}
	return batch.Execute(ctx, s.db)
}

// InsertMany inserts every document in one INSERT statement
func (s *Store) InsertMany(ctx context.Context, name string, docs []model.Document) ([]string, error) {
	if err := checkIdent(name); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(docs))
	rows := make([]map[string]interface{}, len(docs))
	for i, d := range docs {
		if d.DocumentID() == "" {
			return nil, fmt.Errorf("%w: %s document %d has no id", database.ErrQuery, name, i)
		}
		ids[i] = d.DocumentID()
		rows[i] = d.Fields()
	}

	query := fmt.Sprintf("INSERT INTO %s $docs", name)
	if err := s.db.Execute(ctx, query, map[string]interface{}{"docs": rows}); err != nil {
		return nil, err
	}
	return ids, nil
}

// AppendToSet adds value to an array field with set semantics
func (s *Store) AppendToSet(ctx context.Context, name, id, field, value string) error {
	if err := checkIdent(name); err != nil {
		return err
	}
	if err := checkIdent(field); err != nil {
		return err
	}

	query := fmt.Sprintf("UPDATE type::thing($tb, $id) SET %[1]s = array::union(%[1]s ?? [], [$value]) RETURN AFTER", field)
	results, err := s.db.Query(ctx, query, map[string]interface{}{
		"tb":    name,
		"id":    id,
		"value": value,
	})
	if err != nil {
		return err
	}
	if _, err := database.FirstRecord(results); err != nil {
		return fmt.Errorf("%s %q: %w", name, id, err)
	}
	return nil
}

// EnsureIndex defines an index named <table>_<field>
func (s *Store) EnsureIndex(ctx context.Context, name, field string, unique bool) error {
	if err := checkIdent(name); err != nil {
		return err
	}
	if err := checkIdent(field); err != nil {
		return err
	}

	query := fmt.Sprintf("DEFINE INDEX IF NOT EXISTS %s_%s ON TABLE %s FIELDS %s", name, field, name, field)
	if unique {
		query += " UNIQUE"
	}
	return s.db.Execute(ctx, query, nil)
}

// Count returns the number of records in the table
func (s *Store) Count(ctx context.Context, name string) (int64, error) {
	if err := checkIdent(name); err != nil {
		return 0, err
	}

	results, err := s.db.Query(ctx, fmt.Sprintf("SELECT count() AS count FROM %s GROUP ALL", name), nil)
	if err != nil {
		return 0, err
	}
	rec, err := database.FirstRecord(results)
	if err != nil {
		// GROUP ALL over an empty table yields no rows
		return 0, nil
	}
	row, ok := rec.(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("%w: unexpected count result %T", database.ErrQuery, rec)
	}
	return toInt64(row["count"])
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case nil:
		return 0, nil
	}
	return 0, fmt.Errorf("%w: unexpected count type %T", database.ErrQuery, v)
}

// checkIdent guards names that are interpolated into SurrealQL.
func checkIdent(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("%w: invalid identifier %q", database.ErrQuery, name)
	}
	return nil
}
