package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const drawStatsPage = `<html><body>
<h1>Draw Statistics</h1>
<h2>Elk</h2>
<h2>Deer</h2>
<table>
<tr><th>Unit</th><th>Applicants</th></tr>
<tr><td>54</td><td>1200</td></tr>
<tr><td>55</td><td>300</td></tr>
</table>
<table>
<tr><td>archived</td></tr>
</table>
<a href="/apply">Apply</a>
<form action="/search"><input name="q"></form>
</body></html>`

func TestCompute_HTMLCounts(t *testing.T) {
	sig := Compute(drawStatsPage)

	assert.Equal(t, 2, sig.Tables)
	assert.Equal(t, 4, sig.TableRows)
	assert.Equal(t, 1, sig.Headings[0])
	assert.Equal(t, 2, sig.Headings[1])
	assert.Equal(t, 0, sig.Headings[2])
	assert.Equal(t, 1, sig.Links)
	assert.Equal(t, 1, sig.Forms)
	assert.NotEmpty(t, sig.Skeleton)
}

func TestCompute_PlainText(t *testing.T) {
	sig := Compute("unit,species,quota\n54,elk,120\n55,elk,80\n")

	assert.Equal(t, 0, sig.Tables)
	assert.Equal(t, 0, sig.Links)
	assert.Equal(t, 4, sig.Lines)
	assert.NotEmpty(t, sig.Skeleton)
}

func TestCompute_PlainTextHashTracksContent(t *testing.T) {
	a := Compute("unit,species\n54,elk\n")
	b := Compute("unit,species\n54,elk\n")
	c := Compute("unit,species\n99,moose\n")

	assert.Equal(t, a.Skeleton, b.Skeleton)
	assert.NotEqual(t, a.Skeleton, c.Skeleton)
}

func TestCompute_NeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"<",
		"<html",
		"\x00\x01\x02 binary junk \xff",
		"<table><tr><td>unclosed",
	}
	for _, in := range inputs {
		sig := Compute(in)
		assert.NotEmpty(t, sig.Skeleton, "input %q", in)
	}
}

func TestCompare_IdenticalUnchanged(t *testing.T) {
	report := Compare(Compute(drawStatsPage), Compute(drawStatsPage))

	assert.False(t, report.Changed)
	assert.Empty(t, report.Details)
}

func TestCompare_TableCountDrift(t *testing.T) {
	prev := Compute(drawStatsPage)
	next := Compute(`<html><body><h1>Draw Statistics</h1><p>Tables are gone</p></body></html>`)

	report := Compare(prev, next)

	require.True(t, report.Changed)
	assert.Contains(t, report.Details[0], "table count changed from 2 to 0")
}

func TestCompare_HeadingDrift(t *testing.T) {
	prev := Compute("<html><body><h1>One</h1><h2>Two</h2></body></html>")
	next := Compute("<html><body><h1>One</h1><h3>Two</h3></body></html>")

	report := Compare(prev, next)

	require.True(t, report.Changed)
	found := false
	for _, d := range report.Details {
		if len(d) >= 7 && d[:7] == "heading" {
			found = true
		}
	}
	assert.True(t, found, "expected a heading detail, got %v", report.Details)
}

func TestCompare_RowGrowthWithinThreshold(t *testing.T) {
	prev := Compute("<table><tr><td>1</td></tr><tr><td>2</td></tr><tr><td>3</td></tr><tr><td>4</td></tr></table>")
	next := Compute("<table><tr><td>1</td></tr><tr><td>2</td></tr><tr><td>3</td></tr><tr><td>4</td></tr><tr><td>5</td></tr></table>")

	// 4 -> 5 rows is exactly 25%, which does not cross the threshold.
	report := Compare(prev, next)

	assert.False(t, report.Changed, "details: %v", report.Details)
}

func TestCompare_RowGrowthBeyondThreshold(t *testing.T) {
	prev := Compute("<table><tr><td>1</td></tr><tr><td>2</td></tr></table>")
	next := Compute("<table><tr><td>1</td></tr><tr><td>2</td></tr><tr><td>3</td></tr></table>")

	report := Compare(prev, next)

	require.True(t, report.Changed)
	assert.Contains(t, report.Details[0], "table rows moved")
}

func TestCompare_SkeletonOnlyChange(t *testing.T) {
	prev := Compute("<html><body><div><p>stats</p></div></body></html>")
	next := Compute("<html><body><div><span>stats</span></div></body></html>")

	report := Compare(prev, next)

	require.True(t, report.Changed)
	assert.Equal(t, []string{"tag skeleton changed"}, report.Details)
}

func TestCompare_PlainTextLineDrift(t *testing.T) {
	prev := Compute("a\nb\nc\nd\ne\nf\ng\nh\n")
	next := Compute("a\nb\nc\n")

	report := Compare(prev, next)

	require.True(t, report.Changed)
	assert.Contains(t, report.Details[0], "line count moved")
}
