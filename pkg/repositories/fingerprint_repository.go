package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/apperrors"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/database"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
)

// FingerprintRepository stores the last known structural signature per
// (source, url). There is no history; each check overwrites the row.
type FingerprintRepository interface {
	// Get returns the stored fingerprint, or apperrors.ErrNotFound when
	// the page has never been fingerprinted.
	Get(ctx context.Context, source, url string) (*models.Fingerprint, error)

	// Upsert records the latest signature for (source, url).
	Upsert(ctx context.Context, fp *models.Fingerprint) error
}

type fingerprintRepository struct {
	db *database.DB
}

// NewFingerprintRepository creates a new fingerprint repository.
func NewFingerprintRepository(db *database.DB) FingerprintRepository {
	return &fingerprintRepository{db: db}
}

var _ FingerprintRepository = (*fingerprintRepository)(nil)

func (r *fingerprintRepository) Get(ctx context.Context, source, url string) (*models.Fingerprint, error) {
	query := `
		SELECT source, url, signature, computed_at
		FROM page_fingerprints
		WHERE source = $1 AND url = $2`

	var fp models.Fingerprint
	var signatureJSON []byte

	err := r.db.QueryRow(ctx, query, source, url).Scan(
		&fp.Source,
		&fp.URL,
		&signatureJSON,
		&fp.ComputedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get fingerprint: %w", err)
	}

	if err := json.Unmarshal(signatureJSON, &fp.Signature); err != nil {
		return nil, fmt.Errorf("failed to unmarshal signature: %w", err)
	}

	return &fp, nil
}

func (r *fingerprintRepository) Upsert(ctx context.Context, fp *models.Fingerprint) error {
	signatureJSON, err := json.Marshal(fp.Signature)
	if err != nil {
		return fmt.Errorf("failed to marshal signature: %w", err)
	}

	query := `
		INSERT INTO page_fingerprints (source, url, signature, computed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (source, url) DO UPDATE
		SET signature = EXCLUDED.signature,
		    computed_at = EXCLUDED.computed_at`

	_, err = r.db.Exec(ctx, query, fp.Source, fp.URL, signatureJSON, fp.ComputedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert fingerprint: %w", err)
	}

	return nil
}
