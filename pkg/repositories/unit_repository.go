package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/database"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
)

// UnitRepository defines data access for hunt units.
type UnitRepository interface {
	// UpsertBatch inserts or updates units keyed by (source, species,
	// unit_code) and returns the number of rows written.
	UpsertBatch(ctx context.Context, units []models.Unit) (int, error)

	// ListBySource returns every unit collected from a source.
	ListBySource(ctx context.Context, source string) ([]models.Unit, error)
}

// unitRepository implements UnitRepository using PostgreSQL.
type unitRepository struct {
	db *database.DB
}

// NewUnitRepository creates a new unit repository.
func NewUnitRepository(db *database.DB) UnitRepository {
	return &unitRepository{db: db}
}

func (r *unitRepository) UpsertBatch(ctx context.Context, units []models.Unit) (int, error) {
	if len(units) == 0 {
		return 0, nil
	}

	now := time.Now()
	query := `
		INSERT INTO units (source, species, unit_code, display_name, success_rate, min_points, terrain, quota, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (source, species, unit_code) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    success_rate = EXCLUDED.success_rate,
		    min_points = EXCLUDED.min_points,
		    terrain = EXCLUDED.terrain,
		    quota = EXCLUDED.quota,
		    updated_at = EXCLUDED.updated_at`

	batch := &pgx.Batch{}
	for i := range units {
		units[i].UpdatedAt = now

		var terrainJSON []byte
		if len(units[i].Terrain) > 0 {
			var err error
			terrainJSON, err = json.Marshal(units[i].Terrain)
			if err != nil {
				return 0, fmt.Errorf("failed to marshal terrain: %w", err)
			}
		}

		batch.Queue(query,
			units[i].Source,
			units[i].Species,
			units[i].UnitCode,
			units[i].DisplayName,
			units[i].SuccessRate,
			units[i].MinPoints,
			terrainJSON,
			units[i].Quota,
			units[i].UpdatedAt,
		)
	}

	if err := sendBatch(ctx, r.db, batch); err != nil {
		return 0, fmt.Errorf("failed to upsert units: %w", err)
	}

	return len(units), nil
}

func (r *unitRepository) ListBySource(ctx context.Context, source string) ([]models.Unit, error) {
	query := `
		SELECT source, species, unit_code, display_name, success_rate, min_points, terrain, quota, updated_at
		FROM units
		WHERE source = $1
		ORDER BY species, unit_code`

	rows, err := r.db.Query(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to query units: %w", err)
	}
	defer rows.Close()

	var units []models.Unit
	for rows.Next() {
		var u models.Unit
		var terrainJSON []byte
		if err := rows.Scan(
			&u.Source,
			&u.Species,
			&u.UnitCode,
			&u.DisplayName,
			&u.SuccessRate,
			&u.MinPoints,
			&terrainJSON,
			&u.Quota,
			&u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}

		if len(terrainJSON) > 0 && string(terrainJSON) != "null" {
			if err := json.Unmarshal(terrainJSON, &u.Terrain); err != nil {
				return nil, fmt.Errorf("failed to unmarshal terrain: %w", err)
			}
		}

		units = append(units, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating units: %w", err)
	}

	return units, nil
}

// Ensure unitRepository implements UnitRepository at compile time.
var _ UnitRepository = (*unitRepository)(nil)
