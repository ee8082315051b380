package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/database"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
)

// RunAuditRepository provides data access for the append-only run audit log.
type RunAuditRepository interface {
	// Create inserts a new run audit record. Audits are never updated.
	Create(ctx context.Context, audit *models.RunAudit) error

	// ListBySource returns the most recent audits for a source, newest first.
	ListBySource(ctx context.Context, source string, limit int) ([]*models.RunAudit, error)
}

type runAuditRepository struct {
	db *database.DB
}

// NewRunAuditRepository creates a new RunAuditRepository.
func NewRunAuditRepository(db *database.DB) RunAuditRepository {
	return &runAuditRepository{db: db}
}

var _ RunAuditRepository = (*runAuditRepository)(nil)

func (r *runAuditRepository) Create(ctx context.Context, audit *models.RunAudit) error {
	if audit.ID == uuid.Nil {
		audit.ID = uuid.New()
	}
	if audit.CreatedAt.IsZero() {
		audit.CreatedAt = time.Now()
	}

	// Convert errors to JSONB
	var errorsJSON []byte
	var err error
	if len(audit.Errors) > 0 {
		errorsJSON, err = json.Marshal(audit.Errors)
		if err != nil {
			return fmt.Errorf("failed to marshal errors: %w", err)
		}
	}

	query := `
		INSERT INTO run_audits (id, source, total_rows, rows_skipped, errors, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.Exec(ctx, query,
		audit.ID,
		audit.Source,
		audit.TotalRows,
		audit.RowsSkipped,
		errorsJSON,
		audit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create run audit: %w", err)
	}

	return nil
}

func (r *runAuditRepository) ListBySource(ctx context.Context, source string, limit int) ([]*models.RunAudit, error) {
	query := `
		SELECT id, source, total_rows, rows_skipped, errors, created_at
		FROM run_audits
		WHERE source = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, source, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query run audits: %w", err)
	}
	defer rows.Close()

	var audits []*models.RunAudit
	for rows.Next() {
		var audit models.RunAudit
		var errorsJSON []byte
		if err := rows.Scan(
			&audit.ID,
			&audit.Source,
			&audit.TotalRows,
			&audit.RowsSkipped,
			&errorsJSON,
			&audit.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run audit: %w", err)
		}

		if len(errorsJSON) > 0 && string(errorsJSON) != "null" {
			if err := json.Unmarshal(errorsJSON, &audit.Errors); err != nil {
				return nil, fmt.Errorf("failed to unmarshal errors: %w", err)
			}
		}

		audits = append(audits, &audit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run audits: %w", err)
	}

	return audits, nil
}
