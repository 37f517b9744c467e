package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octofit/tracker/seed/internal/fixture"
	"github.com/octofit/tracker/seed/internal/model"
	"github.com/octofit/tracker/seed/internal/sampleset"
	"github.com/octofit/tracker/seed/internal/store/memstore"
	"github.com/octofit/tracker/seed/internal/testing/fixtures"
)

func loadSummary(t *testing.T) *fixture.Summary {
	t.Helper()
	set := fixtures.SampleSet(fixtures.WithUnresolvedActivities("ghost"))
	loader := fixture.NewLoader(fixture.LoaderConfig{
		Store:  memstore.New(),
		Logger: fixtures.DiscardLogger(),
		Now:    fixtures.FixedClock(fixtures.ReferenceTime),
	})
	summary, err := loader.ResetAndLoad(context.Background(), set)
	require.NoError(t, err)
	return summary
}

func TestRecorder_ObserveSuccess(t *testing.T) {
	t.Parallel()

	summary := loadSummary(t)
	r := NewRecorder()
	r.ObserveSuccess(summary)

	for _, c := range model.Collections {
		assert.Equal(t, float64(summary.Inserted[c]), testutil.ToFloat64(r.inserted.WithLabelValues(c)), c)
	}
	assert.Equal(t, float64(1), testutil.ToFloat64(r.skipped.WithLabelValues(model.CollectionActivities)))
	assert.Equal(t, float64(0), testutil.ToFloat64(r.skipped.WithLabelValues(model.CollectionLeaderboard)))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.runs.WithLabelValues("success")))
	assert.Equal(t, float64(fixtures.ReferenceTime.Unix()), testutil.ToFloat64(r.lastSuccess))
}

func TestRecorder_ObserveFailure(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.ObserveFailure()
	r.ObserveFailure()
	assert.Equal(t, float64(2), testutil.ToFloat64(r.runs.WithLabelValues("failure")))
	assert.Equal(t, float64(0), testutil.ToFloat64(r.lastSuccess))
}

func TestRecorder_MetricNames(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.ObserveSuccess(&fixture.Summary{
		Inserted:   map[string]int{model.CollectionAccounts: 2},
		StartedAt:  fixtures.ReferenceTime,
		FinishedAt: fixtures.ReferenceTime.Add(1500 * time.Millisecond),
	})

	expected := `
# HELP octofit_seed_duration_seconds Wall time of the last successful load.
# TYPE octofit_seed_duration_seconds gauge
octofit_seed_duration_seconds 1.5
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "octofit_seed_duration_seconds"))

	count, err := testutil.GatherAndCount(r.Registry(), "octofit_seed_documents_inserted_total")
	require.NoError(t, err)
	assert.Equal(t, len(model.Collections), count)
}

func TestRecorder_Push(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		path string
		body string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		raw, _ := io.ReadAll(req.Body)
		mu.Lock()
		path, body = req.URL.Path, string(raw)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewRecorder()
	r.ObserveFailure()
	require.NoError(t, r.Push(context.Background(), srv.URL, "octofit_seed"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/metrics/job/octofit_seed", path)
	assert.NotEmpty(t, body)
}

func TestRecorder_Push_Error(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewRecorder().Push(context.Background(), srv.URL, "octofit_seed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), srv.URL)
}

// keep the built-in sets honest: every one loads cleanly and records metrics
func TestRecorder_BuiltinSets(t *testing.T) {
	t.Parallel()

	for _, name := range sampleset.Names() {
		set, err := sampleset.Resolve(name)
		require.NoError(t, err)
		loader := fixture.NewLoader(fixture.LoaderConfig{Store: memstore.New(), Logger: fixtures.DiscardLogger(), BcryptCost: 4})
		summary, err := loader.ResetAndLoad(context.Background(), set)
		require.NoError(t, err, name)

		r := NewRecorder()
		r.ObserveSuccess(summary)
		assert.Equal(t, float64(summary.Inserted[model.CollectionAccounts]),
			testutil.ToFloat64(r.inserted.WithLabelValues(model.CollectionAccounts)), name)
	}
}
