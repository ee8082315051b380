package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/database"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
)

// SeasonRepository defines data access for hunting season windows.
type SeasonRepository interface {
	UpsertBatch(ctx context.Context, seasons []models.Season) (int, error)
	ListBySource(ctx context.Context, source string) ([]models.Season, error)
}

type seasonRepository struct {
	db *database.DB
}

// NewSeasonRepository creates a new season repository.
func NewSeasonRepository(db *database.DB) SeasonRepository {
	return &seasonRepository{db: db}
}

func (r *seasonRepository) UpsertBatch(ctx context.Context, seasons []models.Season) (int, error) {
	if len(seasons) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO seasons (source, species, season_type, year, start_date, end_date, unit_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (source, species, season_type, year) DO UPDATE
		SET start_date = EXCLUDED.start_date,
		    end_date = EXCLUDED.end_date,
		    unit_code = EXCLUDED.unit_code`

	batch := &pgx.Batch{}
	for _, s := range seasons {
		batch.Queue(query, s.Source, s.Species, s.Type, s.Year, s.StartDate, s.EndDate, s.UnitCode)
	}

	if err := sendBatch(ctx, r.db, batch); err != nil {
		return 0, fmt.Errorf("failed to upsert seasons: %w", err)
	}

	return len(seasons), nil
}

func (r *seasonRepository) ListBySource(ctx context.Context, source string) ([]models.Season, error) {
	query := `
		SELECT source, species, season_type, year, start_date, end_date, unit_code
		FROM seasons
		WHERE source = $1
		ORDER BY species, season_type, year`

	rows, err := r.db.Query(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to query seasons: %w", err)
	}
	defer rows.Close()

	var seasons []models.Season
	for rows.Next() {
		var s models.Season
		if err := rows.Scan(&s.Source, &s.Species, &s.Type, &s.Year, &s.StartDate, &s.EndDate, &s.UnitCode); err != nil {
			return nil, fmt.Errorf("failed to scan season: %w", err)
		}
		seasons = append(seasons, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating seasons: %w", err)
	}

	return seasons, nil
}

var _ SeasonRepository = (*seasonRepository)(nil)
