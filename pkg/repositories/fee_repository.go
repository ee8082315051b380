package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/database"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
)

// FeeRepository defines data access for license and tag fees. The fee sync
// step reads a source's fees back through ListBySource after the fee phase
// has written them, so the summary always reflects what was persisted.
type FeeRepository interface {
	UpsertBatch(ctx context.Context, fees []models.Fee) (int, error)
	ListBySource(ctx context.Context, source string) ([]models.Fee, error)
}

type feeRepository struct {
	db *database.DB
}

// NewFeeRepository creates a new fee repository.
func NewFeeRepository(db *database.DB) FeeRepository {
	return &feeRepository{db: db}
}

func (r *feeRepository) UpsertBatch(ctx context.Context, fees []models.Fee) (int, error) {
	if len(fees) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO fees (source, name, residency, amount, species, frequency, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (source, name, residency) DO UPDATE
		SET amount = EXCLUDED.amount,
		    species = EXCLUDED.species,
		    frequency = EXCLUDED.frequency,
		    note = EXCLUDED.note`

	batch := &pgx.Batch{}
	for _, f := range fees {
		batch.Queue(query, f.Source, f.Name, f.Residency, f.Amount, f.Species, f.Frequency, f.Note)
	}

	if err := sendBatch(ctx, r.db, batch); err != nil {
		return 0, fmt.Errorf("failed to upsert fees: %w", err)
	}

	return len(fees), nil
}

func (r *feeRepository) ListBySource(ctx context.Context, source string) ([]models.Fee, error) {
	query := `
		SELECT source, name, residency, amount, species, frequency, note
		FROM fees
		WHERE source = $1
		ORDER BY name, residency`

	rows, err := r.db.Query(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to query fees: %w", err)
	}
	defer rows.Close()

	var fees []models.Fee
	for rows.Next() {
		var f models.Fee
		if err := rows.Scan(&f.Source, &f.Name, &f.Residency, &f.Amount, &f.Species, &f.Frequency, &f.Note); err != nil {
			return nil, fmt.Errorf("failed to scan fee: %w", err)
		}
		fees = append(fees, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fees: %w", err)
	}

	return fees, nil
}

var _ FeeRepository = (*feeRepository)(nil)
