package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/database"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
)

// TagCostSummaryRepository defines data access for the per-species fee
// summaries derived by the fee sync step.
type TagCostSummaryRepository interface {
	Upsert(ctx context.Context, summary *models.TagCostSummary) error
	ListBySource(ctx context.Context, source string) ([]models.TagCostSummary, error)
}

type tagCostSummaryRepository struct {
	db *database.DB
}

// NewTagCostSummaryRepository creates a new tag cost summary repository.
func NewTagCostSummaryRepository(db *database.DB) TagCostSummaryRepository {
	return &tagCostSummaryRepository{db: db}
}

func (r *tagCostSummaryRepository) Upsert(ctx context.Context, summary *models.TagCostSummary) error {
	summary.UpdatedAt = time.Now()

	query := `
		INSERT INTO tag_cost_summaries (source, species, resident_tag, nonresident_tag, app_fee, qualifying_license_fee, point_fee, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (source, species) DO UPDATE
		SET resident_tag = EXCLUDED.resident_tag,
		    nonresident_tag = EXCLUDED.nonresident_tag,
		    app_fee = EXCLUDED.app_fee,
		    qualifying_license_fee = EXCLUDED.qualifying_license_fee,
		    point_fee = EXCLUDED.point_fee,
		    updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(ctx, query,
		summary.Source,
		summary.Species,
		summary.ResidentTag,
		summary.NonresidentTag,
		summary.AppFee,
		summary.QualifyingLicenseFee,
		summary.PointFee,
		summary.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert tag cost summary: %w", err)
	}

	return nil
}

func (r *tagCostSummaryRepository) ListBySource(ctx context.Context, source string) ([]models.TagCostSummary, error) {
	query := `
		SELECT source, species, resident_tag, nonresident_tag, app_fee, qualifying_license_fee, point_fee, updated_at
		FROM tag_cost_summaries
		WHERE source = $1
		ORDER BY species`

	rows, err := r.db.Query(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to query tag cost summaries: %w", err)
	}
	defer rows.Close()

	var summaries []models.TagCostSummary
	for rows.Next() {
		var s models.TagCostSummary
		if err := rows.Scan(
			&s.Source,
			&s.Species,
			&s.ResidentTag,
			&s.NonresidentTag,
			&s.AppFee,
			&s.QualifyingLicenseFee,
			&s.PointFee,
			&s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tag cost summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag cost summaries: %w", err)
	}

	return summaries, nil
}

var _ TagCostSummaryRepository = (*tagCostSummaryRepository)(nil)
