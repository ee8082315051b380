//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
)

// TestDeadlineRepository_UpsertBatch_PersistsRows tests the round-trip and
// the (species, deadline_type, year) list ordering.
func TestDeadlineRepository_UpsertBatch_PersistsRows(t *testing.T) {
	const source = "t_deadlines"
	db := setupRepoTest(t, source)
	repo := NewDeadlineRepository(db)
	ctx := context.Background()

	deadlines := []models.Deadline{
		{Source: source, Species: "elk", Type: "application", Year: 2026, Date: "2026-04-01", Note: "online only"},
		{Source: source, Species: "deer", Type: "application", Year: 2026, Date: "2026-05-31"},
		{Source: source, Species: "elk", Type: "leftover_sale", Year: 2026, Date: "2026-08-03"},
	}

	count, err := repo.UpsertBatch(ctx, deadlines)
	if err != nil {
		t.Fatalf("UpsertBatch failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 rows written, got %d", count)
	}

	got, err := repo.ListBySource(ctx, source)
	if err != nil {
		t.Fatalf("ListBySource failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 deadlines, got %d", len(got))
	}

	if got[0].Species != "deer" {
		t.Errorf("expected deer first, got %s", got[0].Species)
	}
	if got[1].Type != "application" || got[2].Type != "leftover_sale" {
		t.Errorf("expected elk types ordered application then leftover_sale, got %q then %q", got[1].Type, got[2].Type)
	}
	if got[1].Date != "2026-04-01" || got[1].Note != "online only" {
		t.Errorf("expected date and note to round-trip, got %q / %q", got[1].Date, got[1].Note)
	}
}

// TestDeadlineRepository_UpsertBatch_UpdatesOnConflict tests that a shifted
// date replaces the stored one for the same obligation.
func TestDeadlineRepository_UpsertBatch_UpdatesOnConflict(t *testing.T) {
	const source = "t_deadlines_conflict"
	db := setupRepoTest(t, source)
	repo := NewDeadlineRepository(db)
	ctx := context.Background()

	first := []models.Deadline{{Source: source, Species: "elk", Type: "application", Year: 2026, Date: "2026-04-01"}}
	if _, err := repo.UpsertBatch(ctx, first); err != nil {
		t.Fatalf("first UpsertBatch failed: %v", err)
	}

	second := []models.Deadline{{Source: source, Species: "elk", Type: "application", Year: 2026, Date: "2026-04-07", Note: "extended"}}
	if _, err := repo.UpsertBatch(ctx, second); err != nil {
		t.Fatalf("second UpsertBatch failed: %v", err)
	}

	got, err := repo.ListBySource(ctx, source)
	if err != nil {
		t.Fatalf("ListBySource failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 deadline after conflict update, got %d", len(got))
	}
	if got[0].Date != "2026-04-07" || got[0].Note != "extended" {
		t.Errorf("expected updated date and note, got %q / %q", got[0].Date, got[0].Note)
	}
}
