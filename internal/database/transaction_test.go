package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDB struct {
	queries []string
	vars    []map[string]interface{}
	err     error
}

func (r *recordingDB) Connect(ctx context.Context) error { return nil }
func (r *recordingDB) Close() error                      { return nil }
func (r *recordingDB) Ping(ctx context.Context) error    { return nil }

func (r *recordingDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	r.queries = append(r.queries, query)
	r.vars = append(r.vars, vars)
	return nil, r.err
}

func (r *recordingDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	_, err := r.Query(ctx, query, vars)
	return nil, err
}

func (r *recordingDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := r.Query(ctx, query, vars)
	return err
}

func TestTxBuilder_Build_Empty(t *testing.T) {
	t.Parallel()

	query, vars := NewTxBuilder().Build()
	assert.Empty(t, query)
	assert.Nil(t, vars)
}

func TestTxBuilder_Build_NamespacesVariables(t *testing.T) {
	t.Parallel()

	tb := NewTxBuilder()
	tb.Add("REMOVE TABLE IF EXISTS $tb", map[string]interface{}{"tb": "accounts"})
	tb.Add("DEFINE TABLE $tb SCHEMALESS;", map[string]interface{}{"tb": "teams"})

	query, vars := tb.Build()
	assert.True(t, strings.HasPrefix(query, "BEGIN TRANSACTION;\n"))
	assert.True(t, strings.HasSuffix(query, "COMMIT TRANSACTION;"))
	assert.Contains(t, query, "REMOVE TABLE IF EXISTS $v1_tb;")
	assert.Contains(t, query, "DEFINE TABLE $v2_tb SCHEMALESS;")
	assert.NotContains(t, query, ";;")
	assert.Equal(t, "accounts", vars["v1_tb"])
	assert.Equal(t, "teams", vars["v2_tb"])
}

func TestAtomicBatch_Execute_SingleRoundTrip(t *testing.T) {
	t.Parallel()

	db := &recordingDB{}
	batch := NewAtomicBatch().
		Add("REMOVE TABLE IF EXISTS accounts", nil).
		Add("DEFINE TABLE accounts SCHEMALESS", nil)
	require.Equal(t, 2, batch.Len())

	require.NoError(t, batch.Execute(context.Background(), db))
	require.Len(t, db.queries, 1)
	assert.Contains(t, db.queries[0], "REMOVE TABLE IF EXISTS accounts;")
	assert.Contains(t, db.queries[0], "DEFINE TABLE accounts SCHEMALESS;")
}

func TestAtomicBatch_Execute_EmptyIsNoop(t *testing.T) {
	t.Parallel()

	db := &recordingDB{}
	require.NoError(t, NewAtomicBatch().Execute(context.Background(), db))
	assert.Empty(t, db.queries)
}

func TestAtomicBatch_Execute_PropagatesError(t *testing.T) {
	t.Parallel()

	db := &recordingDB{err: fmt.Errorf("%w: boom", ErrQuery)}
	err := NewAtomicBatch().Add("DEFINE TABLE x", nil).Execute(context.Background(), db)
	assert.True(t, errors.Is(err, ErrQuery))
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", fmt.Errorf("%w: email", ErrDuplicate), true},
		{"surreal index", errors.New("Database index `accounts_email` already contains 'a@b.c'"), true},
		{"sqlite", errors.New("UNIQUE constraint failed: accounts.email"), true},
		{"mongo", errors.New("E11000 duplicate key error collection"), true},
		{"other", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}

func TestFirstRecord(t *testing.T) {
	t.Parallel()

	_, err := FirstRecord(nil)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = FirstRecord([]interface{}{map[string]interface{}{"status": "OK", "result": []interface{}{}}})
	assert.True(t, errors.Is(err, ErrNotFound))

	rec, err := FirstRecord([]interface{}{map[string]interface{}{
		"status": "OK",
		"result": []interface{}{map[string]interface{}{"count": 5}},
	}})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"count": 5}, rec)
}
