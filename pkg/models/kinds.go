package models

// RecordKind identifies one of the collected record families. The orchestrator
// keys its per-phase counts by kind and the repositories map each kind to a
// table with the matching natural-key upsert.
type RecordKind string

const (
	KindUnits        RecordKind = "units"
	KindDrawHistory  RecordKind = "draw_history"
	KindDeadlines    RecordKind = "deadlines"
	KindFees         RecordKind = "fees"
	KindSeasons      RecordKind = "seasons"
	KindRegulations  RecordKind = "regulations"
	KindLeftoverTags RecordKind = "leftover_tags"
)

// CollectionKinds lists the seven collected kinds in phase order.
var CollectionKinds = []RecordKind{
	KindUnits,
	KindDrawHistory,
	KindDeadlines,
	KindFees,
	KindSeasons,
	KindRegulations,
	KindLeftoverTags,
}

// Residency values for fees.
const (
	ResidencyResident    = "resident"
	ResidencyNonresident = "nonresident"
)

// Fee frequencies.
const (
	FrequencyAnnual         = "annual"
	FrequencyOneTime        = "one_time"
	FrequencyPerApplication = "per_application"
)

// Deadline types.
const (
	DeadlineApplication   = "application"
	DeadlineLeftover      = "leftover"
	DeadlinePointPurchase = "point_purchase"
)

// Season types.
const (
	SeasonArchery      = "archery"
	SeasonMuzzleloader = "muzzleloader"
	SeasonRifle        = "rifle"
	SeasonGeneral      = "general"
)

// Regulation categories.
const (
	RegulationRuleChange       = "rule_change"
	RegulationAnnouncement     = "announcement"
	RegulationEmergencyClosure = "emergency_closure"
	RegulationLeftoverNotice   = "leftover_notice"
)

// KnownRegulationCategories is the set accepted by validation.
var KnownRegulationCategories = map[string]bool{
	RegulationRuleChange:       true,
	RegulationAnnouncement:     true,
	RegulationEmergencyClosure: true,
	RegulationLeftoverNotice:   true,
}
