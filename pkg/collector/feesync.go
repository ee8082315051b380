package collector

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
)

// feeDedupPrefixLen bounds the name component of the fee dedup key.
// Comparing the full name would keep near-identical rows scraped from two
// pages; comparing less than this collides distinct fees that share a
// common stem.
const feeDedupPrefixLen = 30

type feeKey struct {
	amount    float64
	prefix    string
	residency string
}

// dedupeFees suppresses fees that repeat an earlier row's amount, residency,
// and normalized name prefix. First occurrence wins so page order decides
// which wording survives.
func dedupeFees(fees []models.Fee) ([]models.Fee, int) {
	seen := make(map[feeKey]bool, len(fees))
	out := make([]models.Fee, 0, len(fees))
	for _, f := range fees {
		key := feeKey{amount: f.Amount, prefix: feePrefix(f.Name), residency: f.Residency}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out, len(fees) - len(out)
}

func feePrefix(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if len(normalized) > feeDedupPrefixLen {
		normalized = normalized[:feeDedupPrefixLen]
	}
	return normalized
}

// syncFeeSummaries recomputes the per-species tag cost summaries from the
// fees now stored for this source. Nothing is written when no species can
// be summarized, which keeps a fee page outage from blanking summaries
// built on a previous run.
func (o *Orchestrator) syncFeeSummaries(ctx context.Context) error {
	fees, err := o.store.Fees.ListBySource(ctx, o.source.ID())
	if err != nil {
		return fmt.Errorf("failed to load fees: %w", err)
	}

	summaries := buildTagCostSummaries(o.source.ID(), fees)
	if len(summaries) == 0 {
		o.logger.Info("no species-tagged nonresident fees, skipping summary sync")
		return nil
	}

	for i := range summaries {
		if err := o.store.TagCostSummaries.Upsert(ctx, &summaries[i]); err != nil {
			return fmt.Errorf("failed to upsert tag cost summary for %s: %w", summaries[i].Species, err)
		}
	}

	o.logger.Info("tag cost summaries updated", zap.Int("species", len(summaries)))
	return nil
}

// buildTagCostSummaries derives one summary per species from the flat fee
// list. A nonresident tag price anchors each summary; resident tag prices
// and the license-level fees attach where present. Species names are
// singularized so "elk" and "elks" fold into one row.
func buildTagCostSummaries(source string, fees []models.Fee) []models.TagCostSummary {
	app, qualifying, point := classifyLicenseFees(fees)

	bySpecies := make(map[string]*models.TagCostSummary)
	for _, f := range fees {
		if f.Species == nil || !isTagFee(f.Name) {
			continue
		}
		species := inflection.Singular(strings.ToLower(strings.TrimSpace(*f.Species)))
		if species == "" {
			continue
		}

		s := bySpecies[species]
		if s == nil {
			s = &models.TagCostSummary{Source: source, Species: species}
			bySpecies[species] = s
		}

		amount := f.Amount
		switch f.Residency {
		case models.ResidencyNonresident:
			s.NonresidentTag = &amount
		case models.ResidencyResident:
			s.ResidentTag = &amount
		}
	}

	out := make([]models.TagCostSummary, 0, len(bySpecies))
	for _, s := range bySpecies {
		if s.NonresidentTag == nil {
			continue
		}
		s.AppFee = app
		s.QualifyingLicenseFee = qualifying
		s.PointFee = point
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Species < out[j].Species })
	return out
}

// isTagFee reports whether a fee name describes a species tag or permit.
// Names are compared word by word after singularization so "Elk Tags",
// "elk tag", and "Special Elk Licenses" classify alike.
func isTagFee(name string) bool {
	for _, word := range strings.Fields(strings.ToLower(name)) {
		switch inflection.Singular(strings.Trim(word, ".,()")) {
		case "tag", "license", "permit":
			return true
		}
	}
	return false
}

// classifyLicenseFees picks out the species-independent fees that attach to
// every summary. Nonresident amounts win over resident ones because the
// summary prices an out-of-state application.
func classifyLicenseFees(fees []models.Fee) (app, qualifying, point *float64) {
	set := func(slot **float64, amount float64, nonresident bool) {
		if *slot != nil && !nonresident {
			return
		}
		v := amount
		*slot = &v
	}

	for _, f := range fees {
		if f.Species != nil {
			continue
		}
		lower := strings.ToLower(f.Name)
		nonresident := f.Residency == models.ResidencyNonresident
		switch {
		case strings.Contains(lower, "application"):
			set(&app, f.Amount, nonresident)
		case strings.Contains(lower, "qualifying"):
			set(&qualifying, f.Amount, nonresident)
		case strings.Contains(lower, "point"):
			set(&point, f.Amount, nonresident)
		}
	}
	return app, qualifying, point
}
