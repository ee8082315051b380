package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/database"
)

// Store bundles every repository behind one handle. The orchestrator
// receives a Store explicitly; nothing reaches for package-level state.
type Store struct {
	Units            UnitRepository
	DrawHistory      DrawHistoryRepository
	Deadlines        DeadlineRepository
	Fees             FeeRepository
	Seasons          SeasonRepository
	Regulations      RegulationRepository
	LeftoverTags     LeftoverTagRepository
	Fingerprints     FingerprintRepository
	RunAudits        RunAuditRepository
	TagCostSummaries TagCostSummaryRepository
}

// NewStore wires all repositories against db.
func NewStore(db *database.DB) *Store {
	return &Store{
		Units:            NewUnitRepository(db),
		DrawHistory:      NewDrawHistoryRepository(db),
		Deadlines:        NewDeadlineRepository(db),
		Fees:             NewFeeRepository(db),
		Seasons:          NewSeasonRepository(db),
		Regulations:      NewRegulationRepository(db),
		LeftoverTags:     NewLeftoverTagRepository(db),
		Fingerprints:     NewFingerprintRepository(db),
		RunAudits:        NewRunAuditRepository(db),
		TagCostSummaries: NewTagCostSummaryRepository(db),
	}
}

// sendBatch executes every queued statement and surfaces the first error.
func sendBatch(ctx context.Context, db *database.DB, batch *pgx.Batch) error {
	results := db.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return err
		}
	}
	return results.Close()
}
