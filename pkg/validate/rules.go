package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
)

// Plausible year windows. Deadlines and seasons are forward-looking
// announcements; draw statistics reach back to the oldest year agencies
// still publish.
const (
	minPlannedYear = 2024
	maxPlannedYear = 2030
	minDrawYear    = 2000
	maxDrawYear    = 2030
)

// maxFeeAmount is exclusive. No state charges a five-figure fee for
// anything this collector tracks; an amount that large is a parse error.
const maxFeeAmount = 10000

// Field length bounds. Anything longer is a scrape artifact (merged table
// cells, swallowed markup), not real data.
const (
	maxCodeLen    = 32
	maxNameLen    = 200
	maxTitleLen   = 300
	maxSummaryLen = 2000
	maxDateLen    = 100
)

// Unit checks one hunting unit row. Structural requirements run before
// plausibility bounds so the reported violation is the most fundamental one.
func Unit(u models.Unit) error {
	if err := unitSchema(u); err != nil {
		return err
	}
	return unitPlausibility(u)
}

func unitSchema(u models.Unit) error {
	return firstErr(
		required("source", u.Source),
		required("species", u.Species),
		required("unit_code", u.UnitCode),
		required("display_name", u.DisplayName),
		bounded("unit_code", u.UnitCode, maxCodeLen),
		bounded("species", u.Species, maxNameLen),
		bounded("display_name", u.DisplayName, maxNameLen),
	)
}

func unitPlausibility(u models.Unit) error {
	if u.SuccessRate != nil && (*u.SuccessRate < 0 || *u.SuccessRate > 100) {
		return fmt.Errorf("success_rate %.1f outside [0, 100]", *u.SuccessRate)
	}
	if u.MinPoints != nil && *u.MinPoints < 0 {
		return fmt.Errorf("min_points %.1f is negative", *u.MinPoints)
	}
	if u.Quota != nil && *u.Quota < 0 {
		return fmt.Errorf("quota %d is negative", *u.Quota)
	}
	return nil
}

// DrawHistory checks one year of lottery statistics.
func DrawHistory(d models.DrawHistory) error {
	if err := drawHistorySchema(d); err != nil {
		return err
	}
	return drawHistoryPlausibility(d)
}

func drawHistorySchema(d models.DrawHistory) error {
	if err := firstErr(
		required("source", d.Source),
		required("species", d.Species),
		required("unit_code", d.UnitCode),
		bounded("unit_code", d.UnitCode, maxCodeLen),
	); err != nil {
		return err
	}
	if d.Year < minDrawYear || d.Year > maxDrawYear {
		return fmt.Errorf("year %d outside [%d, %d]", d.Year, minDrawYear, maxDrawYear)
	}
	return nil
}

func drawHistoryPlausibility(d models.DrawHistory) error {
	if d.Applicants < 0 {
		return fmt.Errorf("applicants %d is negative", d.Applicants)
	}
	if d.TagsIssued < 0 {
		return fmt.Errorf("tags_issued %d is negative", d.TagsIssued)
	}
	if d.OddsPercent < 0 || d.OddsPercent > 100 {
		return fmt.Errorf("odds_percent %.2f outside [0, 100]", d.OddsPercent)
	}
	if d.MinPointsDrawn != nil && *d.MinPointsDrawn < 0 {
		return fmt.Errorf("min_points_drawn %.1f is negative", *d.MinPointsDrawn)
	}
	return nil
}

// Deadline checks one deadline row, including that its date string parses
// under an accepted layout and lands inside the plausible window.
func Deadline(d models.Deadline) error {
	if err := deadlineSchema(d); err != nil {
		return err
	}
	return deadlinePlausibility(d)
}

func deadlineSchema(d models.Deadline) error {
	if err := firstErr(
		required("source", d.Source),
		required("species", d.Species),
		required("date", d.Date),
		bounded("date", d.Date, maxDateLen),
	); err != nil {
		return err
	}
	if !knownDeadlineType(d.Type) {
		return fmt.Errorf("unknown deadline_type %q", d.Type)
	}
	if d.Year < minPlannedYear || d.Year > maxPlannedYear {
		return fmt.Errorf("year %d outside [%d, %d]", d.Year, minPlannedYear, maxPlannedYear)
	}
	return nil
}

func deadlinePlausibility(d models.Deadline) error {
	due, err := parseDate(d.Date)
	if err != nil {
		return err
	}
	if y := due.Year(); y < minPlannedYear || y > maxPlannedYear {
		return fmt.Errorf("date year %d outside [%d, %d]", y, minPlannedYear, maxPlannedYear)
	}
	return nil
}

// Fee checks one fee row.
func Fee(f models.Fee) error {
	if err := feeSchema(f); err != nil {
		return err
	}
	return feePlausibility(f)
}

func feeSchema(f models.Fee) error {
	if err := firstErr(
		required("source", f.Source),
		required("fee_name", f.Name),
		bounded("fee_name", f.Name, maxNameLen),
	); err != nil {
		return err
	}
	if f.Residency != models.ResidencyResident && f.Residency != models.ResidencyNonresident {
		return fmt.Errorf("unknown residency %q", f.Residency)
	}
	switch f.Frequency {
	case "", models.FrequencyAnnual, models.FrequencyOneTime, models.FrequencyPerApplication:
	default:
		return fmt.Errorf("unknown frequency %q", f.Frequency)
	}
	return nil
}

func feePlausibility(f models.Fee) error {
	if f.Amount == 0 && strings.Contains(strings.ToLower(f.Name), "tag") {
		return fmt.Errorf("tag fee %q cannot be free", f.Name)
	}
	if f.Amount <= 0 || f.Amount >= maxFeeAmount {
		return fmt.Errorf("amount %.2f outside (0, %d)", f.Amount, maxFeeAmount)
	}
	return nil
}

// Season checks one hunt window row.
func Season(s models.Season) error {
	if err := seasonSchema(s); err != nil {
		return err
	}
	return seasonPlausibility(s)
}

func seasonSchema(s models.Season) error {
	if err := firstErr(
		required("source", s.Source),
		required("species", s.Species),
		required("start_date", s.StartDate),
		required("end_date", s.EndDate),
	); err != nil {
		return err
	}
	if !knownSeasonType(s.Type) {
		return fmt.Errorf("unknown season_type %q", s.Type)
	}
	if s.Year < minPlannedYear || s.Year > maxPlannedYear {
		return fmt.Errorf("year %d outside [%d, %d]", s.Year, minPlannedYear, maxPlannedYear)
	}
	return nil
}

func seasonPlausibility(s models.Season) error {
	if _, err := parseDate(s.StartDate); err != nil {
		return fmt.Errorf("start_date: %w", err)
	}
	if _, err := parseDate(s.EndDate); err != nil {
		return fmt.Errorf("end_date: %w", err)
	}
	return nil
}

// Regulation checks one regulatory announcement row.
func Regulation(r models.Regulation) error {
	if err := regulationSchema(r); err != nil {
		return err
	}
	return regulationPlausibility(r)
}

func regulationSchema(r models.Regulation) error {
	return firstErr(
		required("source", r.Source),
		required("title", r.Title),
		required("summary", r.Summary),
		bounded("title", r.Title, maxTitleLen),
		bounded("summary", r.Summary, maxSummaryLen),
	)
}

func regulationPlausibility(r models.Regulation) error {
	if !models.KnownRegulationCategories[r.Category] {
		return fmt.Errorf("unknown category %q", r.Category)
	}
	return httpURL("source_url", r.SourceURL)
}

// LeftoverTag checks one leftover availability row. A row advertising zero
// tags is noise and rejected.
func LeftoverTag(l models.LeftoverTag) error {
	if err := leftoverTagSchema(l); err != nil {
		return err
	}
	return leftoverTagPlausibility(l)
}

func leftoverTagSchema(l models.LeftoverTag) error {
	if err := firstErr(
		required("source", l.Source),
		required("species", l.Species),
		required("unit_code", l.UnitCode),
		bounded("unit_code", l.UnitCode, maxCodeLen),
	); err != nil {
		return err
	}
	if l.SeasonType != nil && !knownSeasonType(*l.SeasonType) {
		return fmt.Errorf("unknown season_type %q", *l.SeasonType)
	}
	return nil
}

func leftoverTagPlausibility(l models.LeftoverTag) error {
	if l.TagsAvailable < 1 {
		return fmt.Errorf("tags_available %d below 1", l.TagsAvailable)
	}
	if l.SourceURL != "" {
		return httpURL("source_url", l.SourceURL)
	}
	return nil
}

// dateLayouts covers the formats agencies actually publish: ISO, long and
// abbreviated month names, and US numeric dates.
var dateLayouts = []string{
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
	"1/2/2006",
}

func parseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

func knownDeadlineType(t string) bool {
	switch t {
	case models.DeadlineApplication, models.DeadlineLeftover, models.DeadlinePointPurchase:
		return true
	}
	return false
}

func knownSeasonType(t string) bool {
	switch t {
	case models.SeasonArchery, models.SeasonMuzzleloader, models.SeasonRifle, models.SeasonGeneral:
		return true
	}
	return false
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func bounded(field, value string, max int) error {
	if len(value) > max {
		return fmt.Errorf("%s exceeds %d characters", field, max)
	}
	return nil
}

func httpURL(field, value string) error {
	if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
		return fmt.Errorf("%s must be an http(s) URL", field)
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
