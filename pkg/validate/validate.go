// Package validate filters scraped rows through per-kind structural and
// plausibility checks before they reach the store. Validation is total: a
// failing row is logged and dropped, never fatal to the run.
package validate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
)

// maxLoggedReasons caps per-row warnings so one garbled page cannot flood
// the log. The batch summary still carries the full counts.
const maxLoggedReasons = 5

// Batch runs every check against every row and splits the batch into
// accepted rows and a skipped count. len(accepted)+skipped == len(rows)
// holds for any input; a check that panics rejects its row instead of
// crashing the batch.
func Batch[T any](logger *zap.Logger, kind models.RecordKind, rows []T, checks ...func(T) error) ([]T, int) {
	accepted := make([]T, 0, len(rows))
	skipped := 0
	logged := 0

	for i, row := range rows {
		err := runChecks(row, checks)
		if err == nil {
			accepted = append(accepted, row)
			continue
		}
		skipped++
		if logged < maxLoggedReasons {
			logger.Warn("dropping invalid row",
				zap.String("kind", string(kind)),
				zap.Int("index", i),
				zap.Error(err))
			logged++
		}
	}

	if skipped > 0 {
		logger.Info("rows failed validation",
			zap.String("kind", string(kind)),
			zap.Int("accepted", len(accepted)),
			zap.Int("skipped", skipped))
	}

	return accepted, skipped
}

func runChecks[T any](row T, checks []func(T) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("check panicked: %v", r)
		}
	}()

	for _, check := range checks {
		if err := check(row); err != nil {
			return err
		}
	}
	return nil
}
