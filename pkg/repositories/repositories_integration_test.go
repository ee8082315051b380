//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/database"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/testhelpers"
)

// collectionTables lists every table keyed by source. Cleanup deletes by
// source so tests sharing the container cannot see each other's rows.
var collectionTables = []string{
	"units", "draw_history", "deadlines", "fees", "seasons",
	"regulations", "leftover_tags", "page_fingerprints",
	"run_audits", "tag_cost_summaries",
}

// setupRepoTest returns the shared migrated database and registers cleanup
// for everything written under the given source id. Each test uses its own
// source id so tests stay independent despite the shared container.
func setupRepoTest(t *testing.T, source string) *database.DB {
	t.Helper()

	db := testhelpers.GetTestDB(t).DB
	t.Cleanup(func() { cleanupSource(t, db, source) })
	return db
}

func cleanupSource(t *testing.T, db *database.DB, source string) {
	t.Helper()

	ctx := context.Background()
	for _, table := range collectionTables {
		if _, err := db.Exec(ctx, "DELETE FROM "+table+" WHERE source = $1", source); err != nil {
			t.Fatalf("failed to clean %s: %v", table, err)
		}
	}
}
