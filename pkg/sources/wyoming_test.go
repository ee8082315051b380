package sources

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/apperrors"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
)

const wyUnitsCSV = `species,hunt_area,area_name,quota,success_rate
Elk,7,Green River,400,38%
Elk,100,,250,45%
Antelope,23,Big Sandy,1200,92%
`

const wyDrawCSV = `species,hunt_area,year,applicants,licenses_issued,min_points
Elk,7,2025,"2,406",310,2.5
Elk,7,2024,2102,295,
Antelope,23,2025,980,1200,0
`

const wyLeftoverCSV = `species,hunt_area,licenses_remaining,season
Antelope,23,17,Rifle
Deer,87,5,
`

const wyFeesHTML = `<html><body>
<table>
<tr><th>License</th><th>Fee</th><th>Residency</th></tr>
<tr><td>Elk Special License</td><td>$1,258.00</td><td>Nonresident</td></tr>
<tr><td>Elk License</td><td>$57.00</td><td>Resident</td></tr>
<tr><td>Conservation Stamp</td><td>$21.50</td><td>All buyers</td></tr>
</table>
</body></html>`

const wyDeadlinesHTML = `<html><body>
<table>
<tr><th>Species</th><th>Period</th><th>Closes</th></tr>
<tr><td>Elk</td><td>Nonresident application</td><td>2026-01-31</td></tr>
<tr><td>Deer</td><td>Points purchase</td><td>2026-10-31</td></tr>
</table>
</body></html>`

func testWyoming(t *testing.T, page, body string) *Wyoming {
	t.Helper()
	cat := DefaultCatalog()
	url, err := cat.URL(wyomingID, page)
	require.NoError(t, err)
	return NewWyoming(testPageClient(map[string]string{url: body}), cat, zap.NewNop())
}

func TestWyoming_CollectUnits(t *testing.T) {
	wy := testWyoming(t, pageUnits, wyUnitsCSV)

	units, err := wy.CollectUnits(context.Background())
	require.NoError(t, err)
	require.Len(t, units, 3)

	first := units[0]
	assert.Equal(t, "wy", first.Source)
	assert.Equal(t, "elk", first.Species)
	assert.Equal(t, "7", first.UnitCode)
	assert.Equal(t, "Green River", first.DisplayName)
	require.NotNil(t, first.Quota)
	assert.Equal(t, 400, *first.Quota)
	require.NotNil(t, first.SuccessRate)
	assert.Equal(t, 38.0, *first.SuccessRate)

	assert.Equal(t, "Hunt Area 100", units[1].DisplayName, "unnamed areas get a synthesized name")
}

func TestWyoming_CollectDrawHistory(t *testing.T) {
	wy := testWyoming(t, pageDrawStats, wyDrawCSV)

	history, err := wy.CollectDrawHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 3)

	first := history[0]
	assert.Equal(t, 2025, first.Year)
	assert.Equal(t, 2406, first.Applicants, "quoted thousands separators parse")
	assert.Equal(t, 310, first.TagsIssued)
	require.NotNil(t, first.MinPointsDrawn)
	assert.Equal(t, 2.5, *first.MinPointsDrawn)

	assert.Nil(t, history[1].MinPointsDrawn, "blank cells stay nil")
}

func TestWyoming_FeedHeaderMismatch(t *testing.T) {
	wy := testWyoming(t, pageUnits, "species,area\nElk,7\n")

	_, err := wy.CollectUnits(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrHeaderMismatch)
	assert.Contains(t, err.Error(), "hunt_area")
}

func TestWyoming_CollectLeftoverTags(t *testing.T) {
	wy := testWyoming(t, pageLeftover, wyLeftoverCSV)

	tags, err := wy.CollectLeftoverTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 2)

	feedURL, _ := DefaultCatalog().URL(wyomingID, pageLeftover)
	assert.Equal(t, 17, tags[0].TagsAvailable)
	assert.Equal(t, feedURL, tags[0].SourceURL)
	require.NotNil(t, tags[0].SeasonType)
	assert.Equal(t, models.SeasonRifle, *tags[0].SeasonType)

	assert.Nil(t, tags[1].SeasonType)
}

func TestWyoming_CollectFees(t *testing.T) {
	wy := testWyoming(t, pageFees, wyFeesHTML)

	fees, err := wy.CollectFees(context.Background())
	require.NoError(t, err)
	require.Len(t, fees, 2, "rows without a recognizable residency are skipped")

	assert.Equal(t, "Elk Special License", fees[0].Name)
	assert.Equal(t, models.ResidencyNonresident, fees[0].Residency)
	assert.Equal(t, 1258.0, fees[0].Amount)
	require.NotNil(t, fees[0].Species)
	assert.Equal(t, "elk", *fees[0].Species)

	assert.Equal(t, models.ResidencyResident, fees[1].Residency)
}

func TestWyoming_CollectDeadlines(t *testing.T) {
	wy := testWyoming(t, pageDeadlines, wyDeadlinesHTML)

	deadlines, err := wy.CollectDeadlines(context.Background())
	require.NoError(t, err)
	require.Len(t, deadlines, 2)

	assert.Equal(t, models.DeadlineApplication, deadlines[0].Type)
	assert.Equal(t, 2026, deadlines[0].Year)
	assert.Equal(t, models.DeadlinePointPurchase, deadlines[1].Type)
}

func TestWyoming_OptionalCollectorsDefaultEmpty(t *testing.T) {
	wy := NewWyoming(testPageClient(nil), DefaultCatalog(), zap.NewNop())
	ctx := context.Background()

	seasons, err := wy.CollectSeasons(ctx)
	require.NoError(t, err)
	assert.Empty(t, seasons)

	regs, err := wy.CollectRegulations(ctx)
	require.NoError(t, err)
	assert.Empty(t, regs)
}
