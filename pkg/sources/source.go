// Package sources defines the extraction contract agency modules implement
// and the shared plumbing they are built from: the page client, the endpoint
// catalog, and the registry the batch runner iterates.
package sources

import (
	"context"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
)

// Source is one agency module. Implementations return only successfully
// parsed records: a row that fails to parse is skipped inside the module,
// never surfaced as an error. An error return means the whole phase failed
// (endpoint missing, retrieval exhausted, expected table or column absent)
// and is reported by the orchestrator.
//
// CollectUnits and CollectDrawHistory are mandatory. The other five are
// optional enrichment; embed BaseSource to inherit return-empty defaults
// for whatever an agency does not publish.
type Source interface {
	// ID is the short lowercase identifier used in CLI arguments, log
	// fields, and the source column of every persisted row.
	ID() string
	// Name is the agency's display name.
	Name() string

	CollectUnits(ctx context.Context) ([]models.Unit, error)
	CollectDrawHistory(ctx context.Context) ([]models.DrawHistory, error)
	CollectDeadlines(ctx context.Context) ([]models.Deadline, error)
	CollectFees(ctx context.Context) ([]models.Fee, error)
	CollectSeasons(ctx context.Context) ([]models.Season, error)
	CollectRegulations(ctx context.Context) ([]models.Regulation, error)
	CollectLeftoverTags(ctx context.Context) ([]models.LeftoverTag, error)
}

// BaseSource provides return-empty defaults for the five optional
// collectors. Units and draw history have no default on purpose: a module
// that cannot produce them has no reason to exist.
type BaseSource struct{}

func (BaseSource) CollectDeadlines(_ context.Context) ([]models.Deadline, error) {
	return nil, nil
}

func (BaseSource) CollectFees(_ context.Context) ([]models.Fee, error) {
	return nil, nil
}

func (BaseSource) CollectSeasons(_ context.Context) ([]models.Season, error) {
	return nil, nil
}

func (BaseSource) CollectRegulations(_ context.Context) ([]models.Regulation, error) {
	return nil, nil
}

func (BaseSource) CollectLeftoverTags(_ context.Context) ([]models.LeftoverTag, error) {
	return nil, nil
}
