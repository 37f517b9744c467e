package surreal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octofit/tracker/seed/internal/database"
	"github.com/octofit/tracker/seed/internal/fixture"
	"github.com/octofit/tracker/seed/internal/model"
)

// ============================================================================
// Mock Database
// ============================================================================

type mockDB struct {
	queries   []string
	vars      []map[string]interface{}
	queryFunc func(query string, vars map[string]interface{}) ([]interface{}, error)
}

func (m *mockDB) Connect(ctx context.Context) error { return nil }
func (m *mockDB) Close() error                      { return nil }
func (m *mockDB) Ping(ctx context.Context) error    { return nil }

func (m *mockDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	m.queries = append(m.queries, query)
	m.vars = append(m.vars, vars)
	if m.queryFunc != nil {
		return m.queryFunc(query, vars)
	}
	return []interface{}{ok(nil)}, nil
}

func (m *mockDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	results, err := m.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return database.FirstRecord(results)
}

func (m *mockDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := m.Query(ctx, query, vars)
	return err
}

func ok(result interface{}) map[string]interface{} {
	return map[string]interface{}{"status": "OK", "result": result}
}

var _ fixture.Store = (*Store)(nil)
var _ fixture.Resetter = (*Store)(nil)

// ============================================================================
// Statements
// ============================================================================

func TestStore_ResetCollections_OneTransaction(t *testing.T) {
	t.Parallel()

	db := &mockDB{}
	require.NoError(t, New(db).ResetCollections(context.Background(), model.Collections))
	require.Len(t, db.queries, 1)

	q := db.queries[0]
	assert.True(t, strings.HasPrefix(q, "BEGIN TRANSACTION;"))
	assert.True(t, strings.HasSuffix(q, "COMMIT TRANSACTION;"))
	assert.Less(t, strings.Index(q, "REMOVE TABLE IF EXISTS workouts"), strings.Index(q, "REMOVE TABLE IF EXISTS accounts"))
	assert.Less(t, strings.Index(q, "REMOVE TABLE IF EXISTS accounts"), strings.Index(q, "DEFINE TABLE accounts SCHEMALESS"))
	assert.Less(t, strings.Index(q, "DEFINE TABLE accounts SCHEMALESS"), strings.Index(q, "DEFINE TABLE workouts SCHEMALESS"))
}

func TestStore_DropAndCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := &mockDB{}
	s := New(db)
	require.NoError(t, s.DropCollection(ctx, "teams"))
	require.NoError(t, s.CreateCollection(ctx, "teams"))
	assert.Equal(t, []string{"REMOVE TABLE IF EXISTS teams", "DEFINE TABLE teams SCHEMALESS"}, db.queries)
}

func TestStore_RejectsInvalidIdentifiers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := &mockDB{}
	s := New(db)
	for _, err := range []error{
		s.DropCollection(ctx, "teams; REMOVE NAMESPACE x"),
		s.CreateCollection(ctx, "1teams"),
		s.AppendToSet(ctx, "teams", "t1", "members = []", "a1"),
		s.EnsureIndex(ctx, "accounts", "e-mail", true),
		s.ResetCollections(ctx, []string{"ok", "not ok"}),
	} {
		assert.True(t, errors.Is(err, database.ErrQuery))
	}
	_, err := s.InsertMany(ctx, "", []model.Document{model.Workout{ID: "w"}})
	assert.True(t, errors.Is(err, database.ErrQuery))
	_, err = s.Count(ctx, "x y")
	assert.True(t, errors.Is(err, database.ErrQuery))
	assert.Empty(t, db.queries)
}

func TestStore_InsertMany(t *testing.T) {
	t.Parallel()

	db := &mockDB{}
	ids, err := New(db).InsertMany(context.Background(), "accounts", []model.Document{
		model.Account{ID: "a1", Email: "a@x.edu", Name: "A"},
		model.Account{ID: "a2", Email: "b@x.edu", Name: "B"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2"}, ids)
	require.Len(t, db.queries, 1)
	assert.Equal(t, "INSERT INTO accounts $docs", db.queries[0])

	rows := db.vars[0]["docs"].([]map[string]interface{})
	require.Len(t, rows, 2)
	assert.Equal(t, "a1", rows[0]["id"])
	assert.Equal(t, "b@x.edu", rows[1]["email"])
}

func TestStore_InsertMany_RequiresIDs(t *testing.T) {
	t.Parallel()

	db := &mockDB{}
	_, err := New(db).InsertMany(context.Background(), "workouts", []model.Document{model.Workout{Name: "x"}})
	assert.True(t, errors.Is(err, database.ErrQuery))
	assert.Empty(t, db.queries)

	ids, err := New(db).InsertMany(context.Background(), "workouts", nil)
	require.NoError(t, err)
	assert.Nil(t, ids)
}

func TestStore_InsertMany_DuplicateSurfaces(t *testing.T) {
	t.Parallel()

	db := &mockDB{queryFunc: func(string, map[string]interface{}) ([]interface{}, error) {
		return nil, fmt.Errorf("%w: Database index `accounts_email` already contains 'a@x.edu'", database.ErrDuplicate)
	}}
	_, err := New(db).InsertMany(context.Background(), "accounts", []model.Document{model.Account{ID: "a1"}})
	assert.True(t, errors.Is(err, database.ErrDuplicate))
}

func TestStore_AppendToSet(t *testing.T) {
	t.Parallel()

	db := &mockDB{queryFunc: func(string, map[string]interface{}) ([]interface{}, error) {
		return []interface{}{ok([]interface{}{map[string]interface{}{"members": []interface{}{"a1"}}})}, nil
	}}
	require.NoError(t, New(db).AppendToSet(context.Background(), "teams", "t1", "members", "a1"))
	assert.Equal(t, "UPDATE type::thing($tb, $id) SET members = array::union(members ?? [], [$value]) RETURN AFTER", db.queries[0])
	assert.Equal(t, map[string]interface{}{"tb": "teams", "id": "t1", "value": "a1"}, db.vars[0])
}

func TestStore_AppendToSet_MissingRecord(t *testing.T) {
	t.Parallel()

	db := &mockDB{queryFunc: func(string, map[string]interface{}) ([]interface{}, error) {
		return []interface{}{ok([]interface{}{})}, nil
	}}
	err := New(db).AppendToSet(context.Background(), "teams", "nope", "members", "a1")
	assert.True(t, errors.Is(err, database.ErrNotFound))
}

func TestStore_EnsureIndex(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := &mockDB{}
	s := New(db)
	require.NoError(t, s.EnsureIndex(ctx, "accounts", "email", true))
	require.NoError(t, s.EnsureIndex(ctx, "activities", "account_id", false))
	assert.Equal(t, []string{
		"DEFINE INDEX IF NOT EXISTS accounts_email ON TABLE accounts FIELDS email UNIQUE",
		"DEFINE INDEX IF NOT EXISTS activities_account_id ON TABLE activities FIELDS account_id",
	}, db.queries)
}

func TestStore_Count(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result interface{}
		want   int64
	}{
		{"uint64", []interface{}{map[string]interface{}{"count": uint64(5)}}, 5},
		{"float64", []interface{}{map[string]interface{}{"count": float64(3)}}, 3},
		{"int", []interface{}{map[string]interface{}{"count": 7}}, 7},
		{"empty table", []interface{}{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &mockDB{queryFunc: func(string, map[string]interface{}) ([]interface{}, error) {
				return []interface{}{ok(tt.result)}, nil
			}}
			n, err := New(db).Count(context.Background(), "accounts")
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
			assert.Equal(t, "SELECT count() AS count FROM accounts GROUP ALL", db.queries[0])
		})
	}
}

func TestStore_Count_UnexpectedShape(t *testing.T) {
	t.Parallel()

	db := &mockDB{queryFunc: func(string, map[string]interface{}) ([]interface{}, error) {
		return []interface{}{ok([]interface{}{map[string]interface{}{"count": "five"}})}, nil
	}}
	_, err := New(db).Count(context.Background(), "accounts")
	assert.True(t, errors.Is(err, database.ErrQuery))
}
