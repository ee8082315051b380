package sources

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// tableWithHeaders returns the first table whose header row mentions every
// keyword, or nil. Matching on header text instead of CSS classes keeps the
// extractors working across agency site restyles.
func tableWithHeaders(doc *goquery.Document, keywords ...string) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		header := strings.ToLower(cleanText(table.Find("tr").First().Text()))
		for _, kw := range keywords {
			if !strings.Contains(header, kw) {
				return true
			}
		}
		found = table
		return false
	})
	return found
}

// dataRows collects the cell text of every row that has td cells. Header
// rows built from th cells fall out naturally.
func dataRows(table *goquery.Selection) [][]string {
	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}
		row := make([]string, 0, cells.Length())
		cells.Each(func(_ int, td *goquery.Selection) {
			row = append(row, cleanText(td.Text()))
		})
		rows = append(rows, row)
	})
	return rows
}
