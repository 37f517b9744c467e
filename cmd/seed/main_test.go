package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octofit/tracker/seed/internal/config"
	"github.com/octofit/tracker/seed/internal/database"
	"github.com/octofit/tracker/seed/internal/sampleset"
)

func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.EnvConfigFile, "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestSeed_MemoryBackend_Demo(t *testing.T) {
	out, logs, err := runCmd(t, "--backend", "memory", "--sample-set", "demo")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, successMessage))
	assert.Contains(t, out, "Sample set: demo@")
	assert.Contains(t, out, "Red: alice, carol, erin")
	assert.Contains(t, out, "Blue: bob, dave")
	assert.Contains(t, logs, `"msg":"sample set loaded"`)
}

func TestSeed_ORMBackend(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "seed.yaml")
	dsn := "file:" + filepath.Join(t.TempDir(), "octofit.db")
	require.NoError(t, os.WriteFile(cfgPath, []byte("loader:\n  backend: orm\n  bcrypt_cost: 4\norm:\n  dsn: \""+dsn+"\"\nlog:\n  format: text\n"), 0o600))

	out, logs, err := runCmd(t, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, successMessage)
	assert.Contains(t, out, "Sample set: "+sampleset.DefaultName+"@")
	assert.Contains(t, logs, "level=INFO")

	// a second run replaces the data
	_, _, err = runCmd(t, "--config", cfgPath)
	require.NoError(t, err)
}

func TestSeed_UnknownSampleSet(t *testing.T) {
	_, _, err := runCmd(t, "--backend", "memory", "--sample-set", "nope")
	assert.True(t, errors.Is(err, sampleset.ErrUnknownSet), "got %v", err)
}

func TestSeed_InvalidBackend(t *testing.T) {
	_, _, err := runCmd(t, "--backend", "cassandra")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loader.backend")
}

func TestSeed_RejectsArgs(t *testing.T) {
	_, _, err := runCmd(t, "extra")
	assert.Error(t, err)
}

func TestSeed_DuplicateEmailFailsBeforeWriting(t *testing.T) {
	setPath := filepath.Join(t.TempDir(), "dupes.yaml")
	require.NoError(t, os.WriteFile(setPath, []byte(`
name: dupes
version: "1"
accounts:
  - username: a
    name: A
    email: same@x.edu
  - username: b
    name: B
    email: SAME@x.edu
`), 0o600))

	out, _, err := runCmd(t, "--backend", "memory", "--sample-set", setPath)
	assert.True(t, errors.Is(err, database.ErrDuplicate), "got %v", err)
	assert.Empty(t, out)
}

func TestSeed_SurrealUnreachable(t *testing.T) {
	t.Setenv("OCTOFIT_DATABASE_HOST", "127.0.0.1")
	t.Setenv("OCTOFIT_DATABASE_PORT", "1")
	t.Setenv("OCTOFIT_LOADER_TIMEOUT", "5s")

	_, _, err := runCmd(t, "--backend", "surreal", "--sample-set", "demo")
	assert.True(t, errors.Is(err, database.ErrConnection), "got %v", err)
}

func TestSeed_FailureMetricsPushedAfterDeadline(t *testing.T) {
	var body string
	var calls int
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	t.Setenv(config.EnvConfigFile, "")
	t.Setenv("OCTOFIT_METRICS_PUSHGATEWAY_URL", gateway.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	setPath := filepath.Join(t.TempDir(), "dupes.yaml")
	require.NoError(t, os.WriteFile(setPath, []byte("name: dupes\nversion: \"1\"\naccounts:\n  - {username: a, name: A, email: x@x.edu}\n  - {username: b, name: B, email: x@x.edu}\n"), 0o600))

	var stdout, stderr bytes.Buffer
	err := run(ctx, &options{backend: "memory", sampleSet: setPath}, &stdout, &stderr)
	assert.True(t, errors.Is(err, database.ErrDuplicate), "got %v", err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, body, "octofit_seed_runs_total")
	assert.NotContains(t, stderr.String(), "failed to push metrics")
}
