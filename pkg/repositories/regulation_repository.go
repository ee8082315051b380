package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/database"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
)

// RegulationRepository defines data access for regulatory announcements.
type RegulationRepository interface {
	UpsertBatch(ctx context.Context, regulations []models.Regulation) (int, error)
	ListBySource(ctx context.Context, source string) ([]models.Regulation, error)
}

type regulationRepository struct {
	db *database.DB
}

// NewRegulationRepository creates a new regulation repository.
func NewRegulationRepository(db *database.DB) RegulationRepository {
	return &regulationRepository{db: db}
}

func (r *regulationRepository) UpsertBatch(ctx context.Context, regulations []models.Regulation) (int, error) {
	if len(regulations) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO regulations (source, title, summary, category, source_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (source, title) DO UPDATE
		SET summary = EXCLUDED.summary,
		    category = EXCLUDED.category,
		    source_url = EXCLUDED.source_url`

	batch := &pgx.Batch{}
	for _, reg := range regulations {
		batch.Queue(query, reg.Source, reg.Title, reg.Summary, reg.Category, reg.SourceURL)
	}

	if err := sendBatch(ctx, r.db, batch); err != nil {
		return 0, fmt.Errorf("failed to upsert regulations: %w", err)
	}

	return len(regulations), nil
}

func (r *regulationRepository) ListBySource(ctx context.Context, source string) ([]models.Regulation, error) {
	query := `
		SELECT source, title, summary, category, source_url
		FROM regulations
		WHERE source = $1
		ORDER BY title`

	rows, err := r.db.Query(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to query regulations: %w", err)
	}
	defer rows.Close()

	var regulations []models.Regulation
	for rows.Next() {
		var reg models.Regulation
		if err := rows.Scan(&reg.Source, &reg.Title, &reg.Summary, &reg.Category, &reg.SourceURL); err != nil {
			return nil, fmt.Errorf("failed to scan regulation: %w", err)
		}
		regulations = append(regulations, reg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating regulations: %w", err)
	}

	return regulations, nil
}

var _ RegulationRepository = (*regulationRepository)(nil)
