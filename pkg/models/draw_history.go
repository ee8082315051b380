package models

import (
	"math"
	"time"
)

// DrawHistory is one year of lottery statistics for a unit. Stored in the
// draw_history table, upserted on (source, species, unit_code, year) with
// last-write-wins semantics; collected_at records which run wrote the row.
// A record whose unit is not present in the store is dropped, never created.
type DrawHistory struct {
	Source   string `json:"source"`
	Species  string `json:"species"`
	UnitCode string `json:"unit_code"`
	Year     int    `json:"year"`

	Applicants  int     `json:"applicants"`
	TagsIssued  int     `json:"tags_issued"`
	OddsPercent float64 `json:"odds_percent"`

	MinPointsDrawn *float64 `json:"min_points_drawn,omitempty"`

	CollectedAt time.Time `json:"collected_at"`
}

// UnitKey returns the key the orchestrator resolves against the units table.
func (d *DrawHistory) UnitKey() UnitKey {
	return UnitKey{Species: d.Species, UnitCode: d.UnitCode}
}

// ComputeOdds fills OddsPercent from applicants and tags when the extractor
// left it zero. Odds are tags/applicants as a percentage, rounded to two
// decimals; a year with no applicants keeps zero odds.
func (d *DrawHistory) ComputeOdds() {
	if d.OddsPercent != 0 || d.Applicants <= 0 {
		return
	}
	d.OddsPercent = math.Round(float64(d.TagsIssued)/float64(d.Applicants)*100*100) / 100
}
