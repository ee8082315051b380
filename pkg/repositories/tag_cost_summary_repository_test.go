//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
)

// TestTagCostSummaryRepository_Upsert_PersistsRow tests the round-trip of
// every pointer column including the nils.
func TestTagCostSummaryRepository_Upsert_PersistsRow(t *testing.T) {
	const source = "t_summaries"
	db := setupRepoTest(t, source)
	repo := NewTagCostSummaryRepository(db)
	ctx := context.Background()

	summaries := []models.TagCostSummary{
		{Source: source, Species: "moose", NonresidentTag: floatPtr(2222), AppFee: floatPtr(15)},
		{Source: source, Species: "elk", ResidentTag: floatPtr(61.14), NonresidentTag: floatPtr(692), AppFee: floatPtr(9), QualifyingLicenseFee: floatPtr(123.99), PointFee: floatPtr(52)},
	}
	for i := range summaries {
		if err := repo.Upsert(ctx, &summaries[i]); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	got, err := repo.ListBySource(ctx, source)
	if err != nil {
		t.Fatalf("ListBySource failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(got))
	}

	// Ordered by species: elk, then moose.
	elk := got[0]
	if elk.Species != "elk" {
		t.Fatalf("expected elk first, got %s", elk.Species)
	}
	if elk.ResidentTag == nil || *elk.ResidentTag != 61.14 {
		t.Errorf("expected resident tag 61.14, got %v", elk.ResidentTag)
	}
	if elk.NonresidentTag == nil || *elk.NonresidentTag != 692 {
		t.Errorf("expected nonresident tag 692, got %v", elk.NonresidentTag)
	}
	if elk.QualifyingLicenseFee == nil || *elk.QualifyingLicenseFee != 123.99 {
		t.Errorf("expected qualifying license fee 123.99, got %v", elk.QualifyingLicenseFee)
	}
	if elk.PointFee == nil || *elk.PointFee != 52 {
		t.Errorf("expected point fee 52, got %v", elk.PointFee)
	}
	if elk.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set")
	}

	moose := got[1]
	if moose.ResidentTag != nil || moose.QualifyingLicenseFee != nil || moose.PointFee != nil {
		t.Errorf("expected unpriced columns to stay nil, got %+v", moose)
	}
}

// TestTagCostSummaryRepository_Upsert_UpdatesOnConflict tests that a resync
// replaces prices for a species in place.
func TestTagCostSummaryRepository_Upsert_UpdatesOnConflict(t *testing.T) {
	const source = "t_summaries_conflict"
	db := setupRepoTest(t, source)
	repo := NewTagCostSummaryRepository(db)
	ctx := context.Background()

	first := &models.TagCostSummary{Source: source, Species: "elk", NonresidentTag: floatPtr(660.5)}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}

	second := &models.TagCostSummary{Source: source, Species: "elk", NonresidentTag: floatPtr(692), ResidentTag: floatPtr(61.14)}
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	got, err := repo.ListBySource(ctx, source)
	if err != nil {
		t.Fatalf("ListBySource failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 summary after conflict update, got %d", len(got))
	}
	if got[0].NonresidentTag == nil || *got[0].NonresidentTag != 692 {
		t.Errorf("expected updated nonresident tag 692, got %v", got[0].NonresidentTag)
	}
	if got[0].ResidentTag == nil || *got[0].ResidentTag != 61.14 {
		t.Errorf("expected resident tag backfilled, got %v", got[0].ResidentTag)
	}
}
