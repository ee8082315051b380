package models

import "time"

// Unit is a geographic hunting area scoped to one species within one source
// agency. Stored in the units table, upserted on (source, species, unit_code)
// every successful run; never deleted by the collector.
type Unit struct {
	Source      string `json:"source"`
	Species     string `json:"species"`
	UnitCode    string `json:"unit_code"`
	DisplayName string `json:"display_name"`

	// Optional enrichment, present only when the agency publishes it.
	SuccessRate *float64 `json:"success_rate,omitempty"` // harvest success %, 0-100
	MinPoints   *float64 `json:"min_points,omitempty"`   // preference points to draw
	Terrain     []string `json:"terrain,omitempty"`
	Quota       *int     `json:"quota,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Key returns the natural key used for unit-reference resolution.
func (u *Unit) Key() UnitKey {
	return UnitKey{Species: u.Species, UnitCode: u.UnitCode}
}

// UnitKey identifies a unit within one source.
type UnitKey struct {
	Species  string
	UnitCode string
}
