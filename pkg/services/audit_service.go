// Package services holds the read-side services the CLI presents. The
// collection pipeline writes through repositories directly; these exist for
// operators asking what the last runs did.
package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/repositories"
)

// defaultRunLimit caps history listings when the caller passes no limit.
const defaultRunLimit = 20

// AuditService reads back the audit trail and derived fee summaries a
// source has accumulated.
type AuditService interface {
	// RecentRuns returns the latest run audits for one source, newest first.
	RecentRuns(ctx context.Context, source string, limit int) ([]*models.RunAudit, error)

	// TagCosts returns the current per-species fee summaries for one source.
	TagCosts(ctx context.Context, source string) ([]models.TagCostSummary, error)
}

type auditService struct {
	audits    repositories.RunAuditRepository
	summaries repositories.TagCostSummaryRepository
	logger    *zap.Logger
}

// NewAuditService creates a new AuditService.
func NewAuditService(audits repositories.RunAuditRepository, summaries repositories.TagCostSummaryRepository, logger *zap.Logger) AuditService {
	return &auditService{
		audits:    audits,
		summaries: summaries,
		logger:    logger.Named("audit-service"),
	}
}

var _ AuditService = (*auditService)(nil)

func (s *auditService) RecentRuns(ctx context.Context, source string, limit int) ([]*models.RunAudit, error) {
	if limit <= 0 {
		limit = defaultRunLimit
	}

	runs, err := s.audits.ListBySource(ctx, source, limit)
	if err != nil {
		s.logger.Error("Failed to list run audits",
			zap.String("source", source),
			zap.Error(err))
		return nil, fmt.Errorf("list run audits: %w", err)
	}

	return runs, nil
}

func (s *auditService) TagCosts(ctx context.Context, source string) ([]models.TagCostSummary, error) {
	summaries, err := s.summaries.ListBySource(ctx, source)
	if err != nil {
		s.logger.Error("Failed to list tag cost summaries",
			zap.String("source", source),
			zap.Error(err))
		return nil, fmt.Errorf("list tag cost summaries: %w", err)
	}

	return summaries, nil
}
