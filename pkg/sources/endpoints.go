package sources

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/apperrors"
)

// Page names modules look up in the catalog. These double as the keys of
// the sources.yaml override file.
const (
	pageUnits       = "units"
	pageDrawStats   = "draw_stats"
	pageDeadlines   = "deadlines"
	pageFees        = "fees"
	pageSeasons     = "seasons"
	pageRegulations = "regulations"
	pageLeftover    = "leftover"
)

// Endpoints maps a page name to its URL for one source.
type Endpoints map[string]string

// Catalog holds every source's page URLs. The built-in defaults point at
// the agencies' current pages; a sources.yaml file shaped
// source -> page -> URL overrides individual entries, so an agency moving
// a page is an ops change, not a rebuild.
type Catalog struct {
	pages map[string]Endpoints
}

// DefaultCatalog returns the built-in endpoint set.
func DefaultCatalog() *Catalog {
	return &Catalog{pages: map[string]Endpoints{
		"co": {
			pageUnits:       "https://cpw.state.co.us/hunting/big-game/unit-profiles",
			pageDrawStats:   "https://cpw.state.co.us/hunting/big-game/draw-statistics",
			pageDeadlines:   "https://cpw.state.co.us/hunting/big-game/application-deadlines",
			pageFees:        "https://cpw.state.co.us/buy-apply/license-fees",
			pageSeasons:     "https://cpw.state.co.us/hunting/big-game/season-dates",
			pageRegulations: "https://cpw.state.co.us/about/news-releases",
			pageLeftover:    "https://cpw.state.co.us/buy-apply/leftover-licenses",
		},
		"wy": {
			pageUnits:     "https://wgfd.wyo.gov/hunting/feeds/hunt-areas.csv",
			pageDrawStats: "https://wgfd.wyo.gov/hunting/feeds/draw-results.csv",
			pageDeadlines: "https://wgfd.wyo.gov/hunting/application-deadlines",
			pageFees:      "https://wgfd.wyo.gov/hunting/license-fees",
			pageLeftover:  "https://wgfd.wyo.gov/hunting/feeds/leftover-licenses.csv",
		},
	}}
}

// Load merges overrides from a YAML file into the catalog. A missing file
// leaves the defaults untouched.
func (c *Catalog) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read sources file: %w", err)
	}

	var overrides map[string]map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("failed to parse sources file: %w", err)
	}

	for source, pages := range overrides {
		eps := c.pages[source]
		if eps == nil {
			eps = Endpoints{}
			c.pages[source] = eps
		}
		for page, url := range pages {
			eps[page] = url
		}
	}
	return nil
}

// URL returns the catalog entry for one source page.
func (c *Catalog) URL(source, page string) (string, error) {
	if u := c.pages[source][page]; u != "" {
		return u, nil
	}
	return "", fmt.Errorf("%w: %s %s", apperrors.ErrNoEndpoint, source, page)
}

// Pages returns the sorted page names configured for one source.
func (c *Catalog) Pages(source string) []string {
	eps := c.pages[source]
	pages := make([]string, 0, len(eps))
	for page, url := range eps {
		if url != "" {
			pages = append(pages, page)
		}
	}
	sort.Strings(pages)
	return pages
}
