package models

import "time"

// TagCostSummary denormalizes the fee table into one row per
// (source, species) so downstream consumers can price an application
// without re-implementing fee matching. Pointer fields stay nil when
// the source publishes no fee of that kind.
type TagCostSummary struct {
	Source               string    `json:"source"`
	Species              string    `json:"species"`
	ResidentTag          *float64  `json:"resident_tag,omitempty"`
	NonresidentTag       *float64  `json:"nonresident_tag,omitempty"`
	AppFee               *float64  `json:"app_fee,omitempty"`
	QualifyingLicenseFee *float64  `json:"qualifying_license_fee,omitempty"`
	PointFee             *float64  `json:"point_fee,omitempty"`
	UpdatedAt            time.Time `json:"updated_at"`
}
