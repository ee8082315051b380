// Package collector runs the per-source collection state machine and the
// sequential batch runner on top of it.
package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/repositories"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/sources"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/validate"
)

// maxMissExamples bounds how many unresolved unit keys one draw-history
// error names.
const maxMissExamples = 3

// RunResult is what one orchestrator pass produced.
type RunResult struct {
	Source string

	Units        int
	DrawHistory  int
	Deadlines    int
	Fees         int
	Seasons      int
	Regulations  int
	LeftoverTags int

	Skipped int
	Errors  []string
}

// Total sums the per-kind persisted counts.
func (r *RunResult) Total() int {
	return r.Units + r.DrawHistory + r.Deadlines + r.Fees +
		r.Seasons + r.Regulations + r.LeftoverTags
}

// Count returns the persisted count for one kind.
func (r *RunResult) Count(kind models.RecordKind) int {
	switch kind {
	case models.KindUnits:
		return r.Units
	case models.KindDrawHistory:
		return r.DrawHistory
	case models.KindDeadlines:
		return r.Deadlines
	case models.KindFees:
		return r.Fees
	case models.KindSeasons:
		return r.Seasons
	case models.KindRegulations:
		return r.Regulations
	case models.KindLeftoverTags:
		return r.LeftoverTags
	}
	return 0
}

// Failed reports whether the run was wholly unproductive: nothing of the
// two mandatory kinds landed and at least one phase erred. Sources that
// legitimately find nothing are not failures.
func (r *RunResult) Failed() bool {
	return r.Units == 0 && r.DrawHistory == 0 && len(r.Errors) > 0
}

func (r *RunResult) add(other RunResult) {
	r.Units += other.Units
	r.DrawHistory += other.DrawHistory
	r.Deadlines += other.Deadlines
	r.Fees += other.Fees
	r.Seasons += other.Seasons
	r.Regulations += other.Regulations
	r.LeftoverTags += other.LeftoverTags
	r.Skipped += other.Skipped
	r.Errors = append(r.Errors, other.Errors...)
}

// Orchestrator executes one collection pass for one source. Every phase is
// individually fault-isolated: an error or panic anywhere inside a phase is
// recorded on the run and the next phase still executes, so a broken fee
// page cannot block draw statistics.
type Orchestrator struct {
	source sources.Source
	store  *repositories.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewOrchestrator creates an orchestrator for one source.
func NewOrchestrator(source sources.Source, store *repositories.Store, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		source: source,
		store:  store,
		logger: logger.Named(source.ID()),
		now:    time.Now,
	}
}

// Run executes the phases strictly in order: units, draw history,
// deadlines, fees, seasons, regulations, leftover tags, the fee summary
// sync, and finally the audit write.
func (o *Orchestrator) Run(ctx context.Context) RunResult {
	result := RunResult{Source: o.source.ID()}

	o.phase(&result, "units", func() error {
		n, skipped, err := collectKind(ctx, o, models.KindUnits,
			o.source.CollectUnits, validate.Unit, o.store.Units.UpsertBatch)
		result.Units = n
		result.Skipped += skipped
		return err
	})

	o.phase(&result, "draw_history", func() error {
		n, skipped, err := o.collectDrawHistory(ctx)
		result.DrawHistory = n
		result.Skipped += skipped
		return err
	})

	o.phase(&result, "deadlines", func() error {
		n, skipped, err := collectKind(ctx, o, models.KindDeadlines,
			o.source.CollectDeadlines, validate.Deadline, o.store.Deadlines.UpsertBatch)
		result.Deadlines = n
		result.Skipped += skipped
		return err
	})

	o.phase(&result, "fees", func() error {
		n, skipped, err := o.collectFees(ctx)
		result.Fees = n
		result.Skipped += skipped
		return err
	})

	o.phase(&result, "seasons", func() error {
		n, skipped, err := collectKind(ctx, o, models.KindSeasons,
			o.source.CollectSeasons, validate.Season, o.store.Seasons.UpsertBatch)
		result.Seasons = n
		result.Skipped += skipped
		return err
	})

	o.phase(&result, "regulations", func() error {
		n, skipped, err := collectKind(ctx, o, models.KindRegulations,
			o.source.CollectRegulations, validate.Regulation, o.store.Regulations.UpsertBatch)
		result.Regulations = n
		result.Skipped += skipped
		return err
	})

	o.phase(&result, "leftover_tags", func() error {
		n, skipped, err := collectKind(ctx, o, models.KindLeftoverTags,
			o.source.CollectLeftoverTags, validate.LeftoverTag, o.store.LeftoverTags.UpsertBatch)
		result.LeftoverTags = n
		result.Skipped += skipped
		return err
	})

	o.phase(&result, "fee_sync", func() error {
		return o.syncFeeSummaries(ctx)
	})

	o.phase(&result, "audit", func() error {
		audit := &models.RunAudit{
			Source:      o.source.ID(),
			TotalRows:   result.Total(),
			RowsSkipped: result.Skipped,
			Errors:      append([]string(nil), result.Errors...),
			CreatedAt:   o.now(),
		}
		if err := o.store.RunAudits.Create(ctx, audit); err != nil {
			return fmt.Errorf("failed to write run audit: %w", err)
		}
		return nil
	})

	o.logger.Info("run complete",
		zap.Int("total_rows", result.Total()),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)))

	return result
}

// phase runs fn with fault isolation. A panic inside an extraction module
// or repository becomes an error entry like any other failure.
func (o *Orchestrator) phase(result *RunResult, name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: panic: %v", name, r))
			o.logger.Error("phase panicked", zap.String("phase", name), zap.Any("panic", r))
		}
	}()

	if err := fn(); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", name, err))
		o.logger.Warn("phase failed", zap.String("phase", name), zap.Error(err))
	}
}

// collectKind is the shape shared by the straightforward phases: extract,
// validate, upsert.
func collectKind[T any](
	ctx context.Context,
	o *Orchestrator,
	kind models.RecordKind,
	collect func(context.Context) ([]T, error),
	check func(T) error,
	upsert func(context.Context, []T) (int, error),
) (int, int, error) {
	rows, err := collect(ctx)
	if err != nil {
		return 0, 0, err
	}

	accepted, skipped := validate.Batch(o.logger, kind, rows, check)
	if len(accepted) == 0 {
		return 0, skipped, nil
	}

	n, err := upsert(ctx, accepted)
	if err != nil {
		return 0, skipped, fmt.Errorf("failed to upsert %s: %w", kind, err)
	}
	return n, skipped, nil
}

// collectDrawHistory resolves every record's unit reference against the
// units currently stored for this source. Records naming unknown units are
// dropped, counted as skipped, and reported as one aggregated error; they
// are never allowed to invent units.
func (o *Orchestrator) collectDrawHistory(ctx context.Context) (int, int, error) {
	records, err := o.source.CollectDrawHistory(ctx)
	if err != nil {
		return 0, 0, err
	}

	accepted, skipped := validate.Batch(o.logger, models.KindDrawHistory, records, validate.DrawHistory)
	if len(accepted) == 0 {
		return 0, skipped, nil
	}

	known, err := o.unitKeys(ctx)
	if err != nil {
		return 0, skipped, fmt.Errorf("failed to load units for resolution: %w", err)
	}

	resolved := make([]models.DrawHistory, 0, len(accepted))
	missed := 0
	var examples []string
	for _, rec := range accepted {
		if !known[rec.UnitKey()] {
			missed++
			if len(examples) < maxMissExamples {
				examples = append(examples, rec.Species+"/"+rec.UnitCode)
			}
			continue
		}
		rec.ComputeOdds()
		rec.CollectedAt = o.now()
		resolved = append(resolved, rec)
	}
	skipped += missed

	written := 0
	if len(resolved) > 0 {
		written, err = o.store.DrawHistory.UpsertBatch(ctx, resolved)
		if err != nil {
			return 0, skipped, fmt.Errorf("failed to upsert draw history: %w", err)
		}
	}

	if missed > 0 {
		return written, skipped, fmt.Errorf("%d records reference unknown units (e.g. %s)",
			missed, strings.Join(examples, ", "))
	}
	return written, skipped, nil
}

func (o *Orchestrator) unitKeys(ctx context.Context) (map[models.UnitKey]bool, error) {
	units, err := o.store.Units.ListBySource(ctx, o.source.ID())
	if err != nil {
		return nil, err
	}
	keys := make(map[models.UnitKey]bool, len(units))
	for i := range units {
		keys[units[i].Key()] = true
	}
	return keys, nil
}

// collectFees adds duplicate suppression on top of the usual extract,
// validate, upsert shape. Suppressed duplicates count as skipped.
func (o *Orchestrator) collectFees(ctx context.Context) (int, int, error) {
	fees, err := o.source.CollectFees(ctx)
	if err != nil {
		return 0, 0, err
	}

	accepted, skipped := validate.Batch(o.logger, models.KindFees, fees, validate.Fee)
	deduped, dropped := dedupeFees(accepted)
	if dropped > 0 {
		skipped += dropped
		o.logger.Debug("suppressed duplicate fees", zap.Int("count", dropped))
	}
	if len(deduped) == 0 {
		return 0, skipped, nil
	}

	n, err := o.store.Fees.UpsertBatch(ctx, deduped)
	if err != nil {
		return 0, skipped, fmt.Errorf("failed to upsert fees: %w", err)
	}
	return n, skipped, nil
}
