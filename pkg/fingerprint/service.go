package fingerprint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/apperrors"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/repositories"
)

// Service checks fetched pages against their stored fingerprints.
type Service interface {
	// Check computes the signature for content, compares it against the
	// stored one for (source, url), persists the new signature, and returns
	// the comparison. The first sighting of a page reports no drift.
	Check(ctx context.Context, source, url, content string) (Report, error)
}

type service struct {
	repo   repositories.FingerprintRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a fingerprint service backed by repo.
func NewService(repo repositories.FingerprintRepository, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

var _ Service = (*service)(nil)

func (s *service) Check(ctx context.Context, source, url, content string) (Report, error) {
	next := Compute(content)

	var report Report
	prev, err := s.repo.Get(ctx, source, url)
	switch {
	case err == nil:
		report = Compare(prev.Signature, next)
	case errors.Is(err, apperrors.ErrNotFound):
		s.logger.Debug("no stored fingerprint, recording first signature",
			zap.String("source", source),
			zap.String("url", url))
	default:
		return Report{}, fmt.Errorf("failed to load fingerprint: %w", err)
	}

	fp := &models.Fingerprint{
		Source:     source,
		URL:        url,
		Signature:  next,
		ComputedAt: s.now(),
	}
	if err := s.repo.Upsert(ctx, fp); err != nil {
		return Report{}, fmt.Errorf("failed to store fingerprint: %w", err)
	}

	return report, nil
}
