package sources

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/apperrors"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/delimited"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
)

// Cell parsing helpers shared by agency modules. Agencies publish numbers
// wrapped in currency symbols, thousands separators, percent signs, and
// footnote markers; these strip the noise and fail soft so a module can
// skip the row per the extraction contract.

var (
	moneyRe   = regexp.MustCompile(`\$?\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)
	percentRe = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*%`)
	countRe   = regexp.MustCompile(`-?[0-9][0-9,]*`)
	yearRe    = regexp.MustCompile(`\b20[0-9]{2}\b`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

func cleanText(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

func parseMoney(s string) (float64, bool) {
	m := moneyRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	return v, err == nil
}

func parsePercent(s string) (float64, bool) {
	if m := percentRe.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		return v, err == nil
	}
	return parseFloat(s)
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v, err == nil
}

func parseCount(s string) (int, bool) {
	m := countRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	return v, err == nil
}

func yearIn(s string) (int, bool) {
	m := yearRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	return v, err == nil
}

// splitList breaks a comma- or semicolon-separated cell into trimmed
// lowercase items.
func splitList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, strings.ToLower(t))
		}
	}
	return out
}

// knownSpecies are the big-game species the tracked agencies run draws
// for, used to tag fees whose name mentions one.
var knownSpecies = []string{
	"elk", "deer", "antelope", "pronghorn", "moose", "sheep", "goat", "bison",
}

func speciesFromName(name string) *string {
	lower := strings.ToLower(name)
	for _, sp := range knownSpecies {
		if strings.Contains(lower, sp) {
			s := sp
			return &s
		}
	}
	return nil
}

func classifyDeadline(label string) string {
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "leftover"):
		return models.DeadlineLeftover
	case strings.Contains(lower, "point"):
		return models.DeadlinePointPurchase
	case strings.Contains(lower, "application"), strings.Contains(lower, "apply"):
		return models.DeadlineApplication
	}
	return ""
}

func classifySeason(label string) string {
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "archery"):
		return models.SeasonArchery
	case strings.Contains(lower, "muzzle"):
		return models.SeasonMuzzleloader
	case strings.Contains(lower, "rifle"):
		return models.SeasonRifle
	}
	return models.SeasonGeneral
}

func classifyResidency(label string) string {
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "nonresident"), strings.Contains(lower, "non-resident"):
		return models.ResidencyNonresident
	case strings.Contains(lower, "resident"):
		return models.ResidencyResident
	}
	return ""
}

func classifyRegulation(title string) string {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "closure"), strings.Contains(lower, "closed"):
		return models.RegulationEmergencyClosure
	case strings.Contains(lower, "leftover"):
		return models.RegulationLeftoverNotice
	case strings.Contains(lower, "rule"), strings.Contains(lower, "regulation"), strings.Contains(lower, "change"):
		return models.RegulationRuleChange
	}
	return models.RegulationAnnouncement
}

// absoluteURL resolves href against the page it was found on.
func absoluteURL(base, href string) string {
	if href == "" {
		return base
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return base
	}
	return b.ResolveReference(ref).String()
}

// zipFeed turns tokenized delimited rows into header-keyed records after
// verifying the required columns are present. A reshaped feed fails the
// whole phase rather than producing rows with silently empty fields.
func zipFeed(rows [][]string, required ...string) ([]map[string]string, error) {
	if len(rows) == 0 {
		return nil, apperrors.ErrEmptyDocument
	}

	header := rows[0]
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[strings.ToLower(strings.TrimSpace(h))] = true
	}
	for _, col := range required {
		if !have[col] {
			return nil, fmt.Errorf("%w: feed is missing column %q", apperrors.ErrHeaderMismatch, col)
		}
	}

	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, delimited.ZipHeader(header, row))
	}
	return out, nil
}
