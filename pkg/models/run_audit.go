package models

import (
	"time"

	"github.com/google/uuid"
)

// RunAudit is the per-source record written at the end of every
// collection run, whether the run succeeded or not. TotalRows counts
// rows accepted across all phases, RowsSkipped counts rows rejected by
// validation, and Errors holds one entry per failed phase.
type RunAudit struct {
	ID          uuid.UUID `json:"id"`
	Source      string    `json:"source"`
	TotalRows   int       `json:"total_rows"`
	RowsSkipped int       `json:"rows_skipped"`
	Errors      []string  `json:"errors"`
	CreatedAt   time.Time `json:"created_at"`
}

// Failed reports whether any phase of the run recorded an error.
func (a *RunAudit) Failed() bool {
	return len(a.Errors) > 0
}
