package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/database"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
)

// LeftoverTagRepository defines data access for leftover tag availability.
type LeftoverTagRepository interface {
	UpsertBatch(ctx context.Context, tags []models.LeftoverTag) (int, error)
	ListBySource(ctx context.Context, source string) ([]models.LeftoverTag, error)
}

type leftoverTagRepository struct {
	db *database.DB
}

// NewLeftoverTagRepository creates a new leftover tag repository.
func NewLeftoverTagRepository(db *database.DB) LeftoverTagRepository {
	return &leftoverTagRepository{db: db}
}

func (r *leftoverTagRepository) UpsertBatch(ctx context.Context, tags []models.LeftoverTag) (int, error) {
	if len(tags) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO leftover_tags (source, species, unit_code, tags_available, season_type, source_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (source, species, unit_code) DO UPDATE
		SET tags_available = EXCLUDED.tags_available,
		    season_type = EXCLUDED.season_type,
		    source_url = EXCLUDED.source_url`

	batch := &pgx.Batch{}
	for _, tag := range tags {
		batch.Queue(query, tag.Source, tag.Species, tag.UnitCode, tag.TagsAvailable, tag.SeasonType, tag.SourceURL)
	}

	if err := sendBatch(ctx, r.db, batch); err != nil {
		return 0, fmt.Errorf("failed to upsert leftover tags: %w", err)
	}

	return len(tags), nil
}

func (r *leftoverTagRepository) ListBySource(ctx context.Context, source string) ([]models.LeftoverTag, error) {
	query := `
		SELECT source, species, unit_code, tags_available, season_type, source_url
		FROM leftover_tags
		WHERE source = $1
		ORDER BY species, unit_code`

	rows, err := r.db.Query(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to query leftover tags: %w", err)
	}
	defer rows.Close()

	var tags []models.LeftoverTag
	for rows.Next() {
		var tag models.LeftoverTag
		if err := rows.Scan(&tag.Source, &tag.Species, &tag.UnitCode, &tag.TagsAvailable, &tag.SeasonType, &tag.SourceURL); err != nil {
			return nil, fmt.Errorf("failed to scan leftover tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leftover tags: %w", err)
	}

	return tags, nil
}

var _ LeftoverTagRepository = (*leftoverTagRepository)(nil)
