package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/database"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
)

// DeadlineRepository defines data access for application deadlines.
type DeadlineRepository interface {
	UpsertBatch(ctx context.Context, deadlines []models.Deadline) (int, error)
	ListBySource(ctx context.Context, source string) ([]models.Deadline, error)
}

type deadlineRepository struct {
	db *database.DB
}

// NewDeadlineRepository creates a new deadline repository.
func NewDeadlineRepository(db *database.DB) DeadlineRepository {
	return &deadlineRepository{db: db}
}

func (r *deadlineRepository) UpsertBatch(ctx context.Context, deadlines []models.Deadline) (int, error) {
	if len(deadlines) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO deadlines (source, species, deadline_type, year, due_date, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (source, species, deadline_type, year) DO UPDATE
		SET due_date = EXCLUDED.due_date,
		    note = EXCLUDED.note`

	batch := &pgx.Batch{}
	for _, d := range deadlines {
		batch.Queue(query, d.Source, d.Species, d.Type, d.Year, d.Date, d.Note)
	}

	if err := sendBatch(ctx, r.db, batch); err != nil {
		return 0, fmt.Errorf("failed to upsert deadlines: %w", err)
	}

	return len(deadlines), nil
}

func (r *deadlineRepository) ListBySource(ctx context.Context, source string) ([]models.Deadline, error) {
	query := `
		SELECT source, species, deadline_type, year, due_date, note
		FROM deadlines
		WHERE source = $1
		ORDER BY species, deadline_type, year`

	rows, err := r.db.Query(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to query deadlines: %w", err)
	}
	defer rows.Close()

	var deadlines []models.Deadline
	for rows.Next() {
		var d models.Deadline
		if err := rows.Scan(&d.Source, &d.Species, &d.Type, &d.Year, &d.Date, &d.Note); err != nil {
			return nil, fmt.Errorf("failed to scan deadline: %w", err)
		}
		deadlines = append(deadlines, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deadlines: %w", err)
	}

	return deadlines, nil
}

var _ DeadlineRepository = (*deadlineRepository)(nil)
