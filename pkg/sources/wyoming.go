package sources

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
)

const (
	wyomingID   = "wy"
	wyomingName = "Wyoming Game & Fish Department"
)

// Wyoming collects from the Wyoming Game & Fish Department. Hunt areas,
// draw results, and leftover licenses come down as delimited feeds; fees
// and deadlines are HTML. Season dates and news are not published in a
// machine-readable form, so those collectors keep the empty defaults.
type Wyoming struct {
	BaseSource

	pages   *PageClient
	catalog *Catalog
	logger  *zap.Logger
}

// NewWyoming creates the WGFD module.
func NewWyoming(pages *PageClient, catalog *Catalog, logger *zap.Logger) *Wyoming {
	return &Wyoming{
		pages:   pages,
		catalog: catalog,
		logger:  logger.Named(wyomingID),
	}
}

var _ Source = (*Wyoming)(nil)

func (w *Wyoming) ID() string   { return wyomingID }
func (w *Wyoming) Name() string { return wyomingName }

// CollectUnits reads the hunt-area feed.
func (w *Wyoming) CollectUnits(ctx context.Context) ([]models.Unit, error) {
	records, _, err := w.feed(ctx, pageUnits, "species", "hunt_area")
	if err != nil {
		return nil, err
	}

	var units []models.Unit
	for _, rec := range records {
		if rec["species"] == "" || rec["hunt_area"] == "" {
			continue
		}
		unit := models.Unit{
			Source:      wyomingID,
			Species:     strings.ToLower(rec["species"]),
			UnitCode:    rec["hunt_area"],
			DisplayName: rec["area_name"],
		}
		if unit.DisplayName == "" {
			unit.DisplayName = "Hunt Area " + unit.UnitCode
		}
		if quota, ok := parseCount(rec["quota"]); ok {
			unit.Quota = &quota
		}
		if rate, ok := parsePercent(rec["success_rate"]); ok {
			unit.SuccessRate = &rate
		}
		units = append(units, unit)
	}
	return units, nil
}

// CollectDrawHistory reads the draw-results feed. WGFD leaves odds to the
// reader; they are derived downstream.
func (w *Wyoming) CollectDrawHistory(ctx context.Context) ([]models.DrawHistory, error) {
	records, _, err := w.feed(ctx, pageDrawStats, "species", "hunt_area", "year")
	if err != nil {
		return nil, err
	}

	var history []models.DrawHistory
	for _, rec := range records {
		year, ok := parseCount(rec["year"])
		if !ok {
			continue
		}
		applicants, ok := parseCount(rec["applicants"])
		if !ok {
			continue
		}
		tags, ok := parseCount(rec["licenses_issued"])
		if !ok {
			continue
		}
		h := models.DrawHistory{
			Source:     wyomingID,
			Species:    strings.ToLower(rec["species"]),
			UnitCode:   rec["hunt_area"],
			Year:       year,
			Applicants: applicants,
			TagsIssued: tags,
		}
		if pts, ok := parseFloat(rec["min_points"]); ok {
			h.MinPointsDrawn = &pts
		}
		history = append(history, h)
	}
	return history, nil
}

// CollectDeadlines reads the application calendar page.
func (w *Wyoming) CollectDeadlines(ctx context.Context) ([]models.Deadline, error) {
	url, err := w.catalog.URL(wyomingID, pageDeadlines)
	if err != nil {
		return nil, err
	}
	doc, err := w.pages.FetchPage(ctx, wyomingID, url)
	if err != nil {
		return nil, err
	}
	table := tableWithHeaders(doc, "species", "closes")
	if table == nil {
		return nil, fmt.Errorf("no deadline table on the %s page", pageDeadlines)
	}

	var deadlines []models.Deadline
	for _, row := range dataRows(table) {
		if len(row) < 3 {
			continue
		}
		kind := classifyDeadline(row[1])
		if kind == "" {
			continue
		}
		year, ok := yearIn(row[2])
		if !ok {
			continue
		}
		deadlines = append(deadlines, models.Deadline{
			Source:  wyomingID,
			Species: strings.ToLower(row[0]),
			Type:    kind,
			Year:    year,
			Date:    row[2],
		})
	}
	return deadlines, nil
}

// CollectFees reads the fee schedule, published long-format with one row
// per license and residency.
func (w *Wyoming) CollectFees(ctx context.Context) ([]models.Fee, error) {
	url, err := w.catalog.URL(wyomingID, pageFees)
	if err != nil {
		return nil, err
	}
	doc, err := w.pages.FetchPage(ctx, wyomingID, url)
	if err != nil {
		return nil, err
	}
	table := tableWithHeaders(doc, "license", "fee")
	if table == nil {
		return nil, fmt.Errorf("no fee table on the %s page", pageFees)
	}

	var fees []models.Fee
	for _, row := range dataRows(table) {
		if len(row) < 3 || row[0] == "" {
			continue
		}
		amount, ok := parseMoney(row[1])
		if !ok {
			continue
		}
		residency := classifyResidency(row[2])
		if residency == "" {
			continue
		}
		fees = append(fees, models.Fee{
			Source:    wyomingID,
			Name:      row[0],
			Residency: residency,
			Amount:    amount,
			Species:   speciesFromName(row[0]),
		})
	}
	return fees, nil
}

// CollectLeftoverTags reads the leftover feed WGFD refreshes after the
// draw settles.
func (w *Wyoming) CollectLeftoverTags(ctx context.Context) ([]models.LeftoverTag, error) {
	records, url, err := w.feed(ctx, pageLeftover, "species", "hunt_area", "licenses_remaining")
	if err != nil {
		return nil, err
	}

	var tags []models.LeftoverTag
	for _, rec := range records {
		count, ok := parseCount(rec["licenses_remaining"])
		if !ok {
			continue
		}
		tag := models.LeftoverTag{
			Source:        wyomingID,
			Species:       strings.ToLower(rec["species"]),
			UnitCode:      rec["hunt_area"],
			TagsAvailable: count,
			SourceURL:     url,
		}
		if season := rec["season"]; season != "" {
			st := classifySeason(season)
			tag.SeasonType = &st
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (w *Wyoming) feed(ctx context.Context, page string, required ...string) ([]map[string]string, string, error) {
	url, err := w.catalog.URL(wyomingID, page)
	if err != nil {
		return nil, "", err
	}
	rows, err := w.pages.FetchRows(ctx, wyomingID, url)
	if err != nil {
		return nil, "", err
	}
	records, err := zipFeed(rows, required...)
	if err != nil {
		return nil, "", fmt.Errorf("%s feed: %w", page, err)
	}
	return records, url, nil
}
