//go:build integration

package mongostore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/octofit/tracker/seed/internal/database"
	"github.com/octofit/tracker/seed/internal/fixture"
	"github.com/octofit/tracker/seed/internal/model"
	"github.com/octofit/tracker/seed/internal/sampleset"
	"github.com/octofit/tracker/seed/internal/store/mongostore"
	"github.com/octofit/tracker/seed/internal/testing/fixtures"
	"github.com/octofit/tracker/seed/internal/testing/helpers"
)

func startMongo(ctx context.Context, t *testing.T) *mongostore.Store {
	t.Helper()

	ctr, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)

	store, err := mongostore.Connect(ctx, mongostore.Config{
		URI:            uri,
		Database:       "octofit_db",
		ConnectTimeout: 10 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func TestMongo_ResetAndLoad(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	store := startMongo(ctx, t)
	loader := fixture.NewLoader(fixture.LoaderConfig{
		Store:      store,
		Logger:     fixtures.DiscardLogger(),
		BcryptCost: 4,
	})

	for run := 0; run < 2; run++ {
		summary, err := loader.ResetAndLoad(ctx, sampleset.Demo())
		require.NoError(t, err)
		require.NoError(t, loader.Verify(ctx, summary))
		helpers.AssertCounts(t, store, summary)
		helpers.AssertPartition(t, summary)
	}

	n, err := store.Count(ctx, model.CollectionTeams)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestMongo_UniqueEmailAndAddToSet(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	store := startMongo(ctx, t)
	require.NoError(t, store.CreateCollection(ctx, model.CollectionAccounts))
	require.NoError(t, store.CreateCollection(ctx, model.CollectionTeams))
	require.NoError(t, store.EnsureIndex(ctx, model.CollectionAccounts, model.FieldEmail, true))
	require.NoError(t, store.EnsureIndex(ctx, model.CollectionAccounts, model.FieldEmail, true))

	_, err := store.InsertMany(ctx, model.CollectionAccounts, []model.Document{
		model.Account{ID: "a1", Email: "same@x.edu"},
		model.Account{ID: "a2", Email: "same@x.edu"},
	})
	assert.True(t, errors.Is(err, database.ErrDuplicate), "got %v", err)

	_, err = store.InsertMany(ctx, model.CollectionTeams, []model.Document{model.Team{ID: "t1", Name: "Blue Team"}})
	require.NoError(t, err)
	require.NoError(t, store.AppendToSet(ctx, model.CollectionTeams, "t1", model.FieldMembers, "a1"))
	require.NoError(t, store.AppendToSet(ctx, model.CollectionTeams, "t1", model.FieldMembers, "a1"))

	err = store.AppendToSet(ctx, model.CollectionTeams, "nope", model.FieldMembers, "a1")
	assert.True(t, errors.Is(err, database.ErrNotFound))
}
