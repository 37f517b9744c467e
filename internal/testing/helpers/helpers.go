// Package helpers provides assertions shared by the store and loader tests.
package helpers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/octofit/tracker/seed/internal/database"
	"github.com/octofit/tracker/seed/internal/fixture"
	"github.com/octofit/tracker/seed/internal/model"
)

// ============================================================================
// Store Assertion Helpers
// ============================================================================

// AssertCounts checks that every collection holds exactly the number of
// documents the summary reports.
func AssertCounts(t *testing.T, store fixture.Store, summary *fixture.Summary) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, c := range model.Collections {
		n, err := store.Count(ctx, c)
		if err != nil {
			t.Fatalf("failed to count %s: %v", c, err)
		}
		if int(n) != summary.Inserted[c] {
			t.Errorf("expected %d documents in %s, got %d", summary.Inserted[c], c, n)
		}
	}
}

// AssertPartition checks that team membership is a partition of the loaded
// accounts with team sizes differing by at most one.
func AssertPartition(t *testing.T, summary *fixture.Summary) {
	t.Helper()

	if len(summary.Teams) == 0 {
		return
	}

	seen := make(map[string]string)
	minSize, maxSize := -1, 0
	for _, team := range summary.Teams {
		for _, id := range team.MemberIDs {
			if other, dup := seen[id]; dup {
				t.Errorf("account %s is in both %s and %s", id, other, team.Name)
			}
			seen[id] = team.Name
		}
		size := len(team.MemberIDs)
		if minSize < 0 || size < minSize {
			minSize = size
		}
		if size > maxSize {
			maxSize = size
		}
	}

	if len(seen) != summary.Inserted[model.CollectionAccounts] {
		t.Errorf("expected %d assigned accounts, got %d", summary.Inserted[model.CollectionAccounts], len(seen))
	}
	if maxSize-minSize > 1 {
		t.Errorf("team sizes range from %d to %d, want a difference of at most 1", minSize, maxSize)
	}
}

// ============================================================================
// Database Assertion Helpers
// ============================================================================

// AssertRecordExists checks that a SurrealDB record exists
func AssertRecordExists(t *testing.T, db database.Database, table, id string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	recordID := trimTable(id)
	results, err := db.Query(ctx, "SELECT * FROM type::thing($table, $id)", map[string]interface{}{
		"table": table,
		"id":    recordID,
	})
	if err != nil {
		t.Fatalf("failed to query for record: %v", err)
	}

	if !hasResults(results) {
		t.Errorf("expected record %s:%s to exist, but it doesn't", table, recordID)
	}
}

// AssertRecordNotExists checks that a SurrealDB record does not exist
func AssertRecordNotExists(t *testing.T, db database.Database, table, id string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	recordID := trimTable(id)
	results, err := db.Query(ctx, "SELECT * FROM type::thing($table, $id)", map[string]interface{}{
		"table": table,
		"id":    recordID,
	})
	if err != nil {
		// Query error might mean not found, which is what we want
		return
	}

	if hasResults(results) {
		t.Errorf("expected record %s:%s to not exist, but it does", table, recordID)
	}
}

// trimTable strips a "table:" prefix from a full record ID
func trimTable(id string) string {
	if _, rest, ok := strings.Cut(id, ":"); ok {
		return rest
	}
	return id
}

// hasResults checks if a SurrealDB query returned any results
func hasResults(results []interface{}) bool {
	if len(results) == 0 {
		return false
	}

	resp, ok := results[0].(map[string]interface{})
	if !ok {
		return false
	}

	switch v := resp["result"].(type) {
	case []interface{}:
		return len(v) > 0
	case nil:
		return false
	default:
		return true
	}
}

// ============================================================================
// Utility Helpers
// ============================================================================

// IntPtr returns a pointer to the int
func IntPtr(i int) *int {
	return &i
}
