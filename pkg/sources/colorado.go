package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
)

const (
	coloradoID   = "co"
	coloradoName = "Colorado Parks & Wildlife"
)

// Colorado collects from Colorado Parks & Wildlife. Everything CPW
// publishes is HTML; every collector locates its table by header text and
// walks the rows, skipping any it cannot parse.
type Colorado struct {
	pages   *PageClient
	catalog *Catalog
	logger  *zap.Logger
}

// NewColorado creates the CPW module.
func NewColorado(pages *PageClient, catalog *Catalog, logger *zap.Logger) *Colorado {
	return &Colorado{
		pages:   pages,
		catalog: catalog,
		logger:  logger.Named(coloradoID),
	}
}

var _ Source = (*Colorado)(nil)

func (c *Colorado) ID() string   { return coloradoID }
func (c *Colorado) Name() string { return coloradoName }

// CollectUnits walks the GMU profile table: species, unit, name, quota,
// success rate, typical draw points, terrain.
func (c *Colorado) CollectUnits(ctx context.Context) ([]models.Unit, error) {
	doc, _, err := c.fetch(ctx, pageUnits)
	if err != nil {
		return nil, err
	}
	table := tableWithHeaders(doc, "species", "unit")
	if table == nil {
		return nil, fmt.Errorf("no unit table on the %s page", pageUnits)
	}

	var units []models.Unit
	for _, row := range dataRows(table) {
		if len(row) < 3 || row[0] == "" || row[1] == "" {
			continue
		}
		unit := models.Unit{
			Source:      coloradoID,
			Species:     strings.ToLower(row[0]),
			UnitCode:    row[1],
			DisplayName: row[2],
		}
		if len(row) > 3 {
			if quota, ok := parseCount(row[3]); ok {
				unit.Quota = &quota
			}
		}
		if len(row) > 4 {
			if rate, ok := parsePercent(row[4]); ok {
				unit.SuccessRate = &rate
			}
		}
		if len(row) > 5 {
			if pts, ok := parseFloat(row[5]); ok {
				unit.MinPoints = &pts
			}
		}
		if len(row) > 6 {
			unit.Terrain = splitList(row[6])
		}
		units = append(units, unit)
	}
	return units, nil
}

// CollectDrawHistory walks the draw recap table. CPW publishes applicants
// and licenses issued per unit and year; odds are derived downstream when
// no odds column is present.
func (c *Colorado) CollectDrawHistory(ctx context.Context) ([]models.DrawHistory, error) {
	doc, _, err := c.fetch(ctx, pageDrawStats)
	if err != nil {
		return nil, err
	}
	table := tableWithHeaders(doc, "unit", "applicants")
	if table == nil {
		return nil, fmt.Errorf("no draw statistics table on the %s page", pageDrawStats)
	}

	var history []models.DrawHistory
	for _, row := range dataRows(table) {
		if len(row) < 5 {
			continue
		}
		year, ok := parseCount(row[2])
		if !ok {
			continue
		}
		applicants, ok := parseCount(row[3])
		if !ok {
			continue
		}
		tags, ok := parseCount(row[4])
		if !ok {
			continue
		}
		rec := models.DrawHistory{
			Source:     coloradoID,
			Species:    strings.ToLower(row[0]),
			UnitCode:   row[1],
			Year:       year,
			Applicants: applicants,
			TagsIssued: tags,
		}
		if len(row) > 5 {
			if pts, ok := parseFloat(row[5]); ok {
				rec.MinPointsDrawn = &pts
			}
		}
		history = append(history, rec)
	}
	return history, nil
}

// CollectDeadlines reads the application calendar. The deadline type is
// classified from the row label; rows with unrecognized labels or undated
// cells are skipped.
func (c *Colorado) CollectDeadlines(ctx context.Context) ([]models.Deadline, error) {
	doc, _, err := c.fetch(ctx, pageDeadlines)
	if err != nil {
		return nil, err
	}
	table := tableWithHeaders(doc, "species", "deadline")
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
		d := models.Deadline{
			Source:  coloradoID,
			Species: strings.ToLower(row[0]),
			Type:    kind,
			Year:    year,
			Date:    row[2],
		}
		if len(row) > 3 {
			d.Note = row[3]
		}
		deadlines = append(deadlines, d)
	}
	return deadlines, nil
}

// CollectFees unpivots the fee schedule, which lists resident and
// nonresident prices side by side per license.
func (c *Colorado) CollectFees(ctx context.Context) ([]models.Fee, error) {
	doc, _, err := c.fetch(ctx, pageFees)
	if err != nil {
		return nil, err
	}
	table := tableWithHeaders(doc, "license", "resident")
	if table == nil {
		return nil, fmt.Errorf("no fee table on the %s page", pageFees)
	}

	var fees []models.Fee
	for _, row := range dataRows(table) {
		if len(row) < 3 || row[0] == "" {
			continue
		}
		name := row[0]
		species := speciesFromName(name)
		if amount, ok := parseMoney(row[1]); ok {
			fees = append(fees, models.Fee{
				Source:    coloradoID,
				Name:      name,
				Residency: models.ResidencyResident,
				Amount:    amount,
				Species:   species,
			})
		}
		if amount, ok := parseMoney(row[2]); ok {
			fees = append(fees, models.Fee{
				Source:    coloradoID,
				Name:      name,
				Residency: models.ResidencyNonresident,
				Amount:    amount,
				Species:   species,
			})
		}
	}
	return fees, nil
}

// CollectSeasons walks the season date table.
func (c *Colorado) CollectSeasons(ctx context.Context) ([]models.Season, error) {
	doc, _, err := c.fetch(ctx, pageSeasons)
	if err != nil {
		return nil, err
	}
	table := tableWithHeaders(doc, "season", "start")
	if table == nil {
		return nil, fmt.Errorf("no season table on the %s page", pageSeasons)
	}

	var seasons []models.Season
	for _, row := range dataRows(table) {
		if len(row) < 5 {
			continue
		}
		year, ok := parseCount(row[2])
		if !ok {
			continue
		}
		seasons = append(seasons, models.Season{
			Source:    coloradoID,
			Species:   strings.ToLower(row[0]),
			Type:      classifySeason(row[1]),
			Year:      year,
			StartDate: row[3],
			EndDate:   row[4],
		})
	}
	return seasons, nil
}

// CollectRegulations reads the news release list. Items without both a
// headline and a summary paragraph are skipped.
func (c *Colorado) CollectRegulations(ctx context.Context) ([]models.Regulation, error) {
	doc, pageURL, err := c.fetch(ctx, pageRegulations)
	if err != nil {
		return nil, err
	}

	var regs []models.Regulation
	doc.Find("article, .news-item").Each(func(_ int, item *goquery.Selection) {
		title := cleanText(item.Find("h2, h3").First().Text())
		summary := cleanText(item.Find("p").First().Text())
		if title == "" || summary == "" {
			return
		}
		href, _ := item.Find("a").First().Attr("href")
		regs = append(regs, models.Regulation{
			Source:    coloradoID,
			Title:     title,
			Summary:   summary,
			Category:  classifyRegulation(title),
			SourceURL: absoluteURL(pageURL, href),
		})
	})
	return regs, nil
}

// CollectLeftoverTags walks the leftover license list published after the
// draw settles.
func (c *Colorado) CollectLeftoverTags(ctx context.Context) ([]models.LeftoverTag, error) {
	doc, pageURL, err := c.fetch(ctx, pageLeftover)
	if err != nil {
		return nil, err
	}
	table := tableWithHeaders(doc, "unit", "available")
	if table == nil {
		return nil, fmt.Errorf("no leftover table on the %s page", pageLeftover)
	}

	var tags []models.LeftoverTag
	for _, row := range dataRows(table) {
		if len(row) < 3 {
			continue
		}
		count, ok := parseCount(row[2])
		if !ok {
			continue
		}
		tag := models.LeftoverTag{
			Source:        coloradoID,
			Species:       strings.ToLower(row[0]),
			UnitCode:      row[1],
			TagsAvailable: count,
			SourceURL:     pageURL,
		}
		if len(row) > 3 && row[3] != "" {
			st := classifySeason(row[3])
			tag.SeasonType = &st
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (c *Colorado) fetch(ctx context.Context, page string) (*goquery.Document, string, error) {
	url, err := c.catalog.URL(coloradoID, page)
	if err != nil {
		return nil, "", err
	}
	doc, err := c.pages.FetchPage(ctx, coloradoID, url)
	if err != nil {
		return nil, "", err
	}
	return doc, url, nil
}
