package collector

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/repositories"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/sources"
)

// Runner collects sources sequentially with a politeness delay between
// them and renders the end-of-run summary table. Sources never run
// concurrently; agencies notice parallel scrapers.
type Runner struct {
	registry *sources.Registry
	store    *repositories.Store
	logger   *zap.Logger
	delay    time.Duration
	out      io.Writer

	// run and sleep exist so tests can substitute the orchestrator and
	// the politeness wait.
	run   func(ctx context.Context, src sources.Source) RunResult
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRunner creates a runner over the registered sources.
func NewRunner(registry *sources.Registry, store *repositories.Store, delay time.Duration, logger *zap.Logger) *Runner {
	r := &Runner{
		registry: registry,
		store:    store,
		logger:   logger,
		delay:    delay,
		out:      os.Stdout,
	}
	r.run = func(ctx context.Context, src sources.Source) RunResult {
		return NewOrchestrator(src, r.store, r.logger).Run(ctx)
	}
	r.sleep = func(ctx context.Context, d time.Duration) error {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return r
}

// Run collects every requested source in order and prints the summary
// table. An empty ids slice means all registered sources. The returned
// error is non-nil only for an unknown source id, a canceled run, or when
// at least one source was wholly unproductive: zero units, zero draw
// history rows, and at least one error.
func (r *Runner) Run(ctx context.Context, ids []string) error {
	srcs, err := r.registry.Filter(ids)
	if err != nil {
		return err
	}

	results := make([]RunResult, 0, len(srcs))
	for i, src := range srcs {
		if i > 0 && r.delay > 0 {
			if err := r.sleep(ctx, r.delay); err != nil {
				return fmt.Errorf("run canceled: %w", err)
			}
		}

		r.logger.Info("collecting source",
			zap.String("source", src.ID()),
			zap.String("name", src.Name()))
		results = append(results, r.runSource(ctx, src))
	}

	r.printSummary(results)

	var failed []string
	for _, res := range results {
		if res.Failed() {
			failed = append(failed, res.Source)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("sources produced no usable data: %s", strings.Join(failed, ", "))
	}
	return nil
}

// runSource guards against a panic escaping the orchestrator itself. The
// source still gets a summary row and the batch moves on.
func (r *Runner) runSource(ctx context.Context, src sources.Source) (result RunResult) {
	defer func() {
		if rec := recover(); rec != nil {
			result = RunResult{
				Source: src.ID(),
				Errors: []string{fmt.Sprintf("fatal: %v", rec)},
			}
			r.logger.Error("source run panicked",
				zap.String("source", src.ID()),
				zap.Any("panic", rec))
		}
	}()
	return r.run(ctx, src)
}

func (r *Runner) printSummary(results []RunResult) {
	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)

	fmt.Fprint(w, "SOURCE")
	for _, kind := range models.CollectionKinds {
		fmt.Fprintf(w, "\t%s", strings.ToUpper(string(kind)))
	}
	fmt.Fprint(w, "\tSKIPPED\tERRORS\n")

	var total RunResult
	for _, res := range results {
		fmt.Fprint(w, res.Source)
		for _, kind := range models.CollectionKinds {
			fmt.Fprintf(w, "\t%d", res.Count(kind))
		}
		fmt.Fprintf(w, "\t%d\t%d\n", res.Skipped, len(res.Errors))
		total.add(res)
	}

	fmt.Fprint(w, "TOTAL")
	for _, kind := range models.CollectionKinds {
		fmt.Fprintf(w, "\t%d", total.Count(kind))
	}
	fmt.Fprintf(w, "\t%d\t%d\n", total.Skipped, len(total.Errors))

	if err := w.Flush(); err != nil {
		r.logger.Warn("failed to render summary table", zap.Error(err))
	}

	for _, res := range results {
		for _, msg := range res.Errors {
			fmt.Fprintf(r.out, "%s: %s\n", res.Source, msg)
		}
	}
}
