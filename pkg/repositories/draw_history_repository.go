package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/database"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
)

// DrawHistoryRepository defines data access for per-year draw statistics.
// Rows are keyed by (source, species, unit_code, year); a re-run of the
// same source and year is last-write-wins.
type DrawHistoryRepository interface {
	UpsertBatch(ctx context.Context, records []models.DrawHistory) (int, error)
	ListBySource(ctx context.Context, source string) ([]models.DrawHistory, error)
}

type drawHistoryRepository struct {
	db *database.DB
}

// NewDrawHistoryRepository creates a new draw history repository.
func NewDrawHistoryRepository(db *database.DB) DrawHistoryRepository {
	return &drawHistoryRepository{db: db}
}

func (r *drawHistoryRepository) UpsertBatch(ctx context.Context, records []models.DrawHistory) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO draw_history (source, species, unit_code, year, applicants, tags_issued, odds_percent, min_points_drawn, collected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (source, species, unit_code, year) DO UPDATE
		SET applicants = EXCLUDED.applicants,
		    tags_issued = EXCLUDED.tags_issued,
		    odds_percent = EXCLUDED.odds_percent,
		    min_points_drawn = EXCLUDED.min_points_drawn,
		    collected_at = EXCLUDED.collected_at`

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(query,
			rec.Source,
			rec.Species,
			rec.UnitCode,
			rec.Year,
			rec.Applicants,
			rec.TagsIssued,
			rec.OddsPercent,
			rec.MinPointsDrawn,
			rec.CollectedAt,
		)
	}

	if err := sendBatch(ctx, r.db, batch); err != nil {
		return 0, fmt.Errorf("failed to upsert draw history: %w", err)
	}

	return len(records), nil
}

func (r *drawHistoryRepository) ListBySource(ctx context.Context, source string) ([]models.DrawHistory, error) {
	query := `
		SELECT source, species, unit_code, year, applicants, tags_issued, odds_percent, min_points_drawn, collected_at
		FROM draw_history
		WHERE source = $1
		ORDER BY species, unit_code, year`

	rows, err := r.db.Query(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to query draw history: %w", err)
	}
	defer rows.Close()

	var records []models.DrawHistory
	for rows.Next() {
		var rec models.DrawHistory
		if err := rows.Scan(
			&rec.Source,
			&rec.Species,
			&rec.UnitCode,
			&rec.Year,
			&rec.Applicants,
			&rec.TagsIssued,
			&rec.OddsPercent,
			&rec.MinPointsDrawn,
			&rec.CollectedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan draw history record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating draw history: %w", err)
	}

	return records, nil
}

var _ DrawHistoryRepository = (*drawHistoryRepository)(nil)
