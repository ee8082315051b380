// Package fingerprint implements the structural drift detector. A page's
// signature is a handful of cheap structural counts plus a hash of its tag
// skeleton; comparing signatures across runs flags agency page redesigns
// before the extraction modules silently start returning garbage. It is a
// heuristic, not an integrity check: false negatives are acceptable,
// identical input must always compare unchanged.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/models"
)

// driftThreshold is how far the volume counts (table rows, lines) may move
// between runs before the page is considered drifted. Exact-count fields
// (tables, headings, forms) drift on any difference.
const driftThreshold = 0.25

// Report describes the outcome of comparing two signatures.
type Report struct {
	Changed bool
	Details []string
}

// Compute derives a structural signature from page content. It never
// fails: content without real markup degrades to a line count and a hash
// over the trimmed text, with zero tag counts.
func Compute(content string) models.PageSignature {
	sig := models.PageSignature{
		Lines: strings.Count(content, "\n") + 1,
	}
	if content == "" {
		sig.Lines = 0
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		sig.Skeleton = hashString(strings.TrimSpace(content))
		return sig
	}

	sig.Tables = doc.Find("table").Length()
	sig.TableRows = doc.Find("tr").Length()
	for i := 0; i < 6; i++ {
		sig.Headings[i] = doc.Find(fmt.Sprintf("h%d", i+1)).Length()
	}
	sig.Links = doc.Find("a").Length()
	sig.Forms = doc.Find("form").Length()

	// The parser wraps everything in html/head/body; more than those three
	// distinct tags means the content carried real markup. The skeleton is
	// the tag names in first-appearance order, so row repetition leaves it
	// alone while a layout rewrite does not.
	seen := make(map[string]bool)
	var tags []string
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		if !seen[name] {
			seen[name] = true
			tags = append(tags, name)
		}
	})
	if len(tags) > 3 {
		sig.Skeleton = hashString(strings.Join(tags, ">"))
	} else {
		sig.Skeleton = hashString(strings.TrimSpace(content))
	}

	return sig
}

// Compare reports structural drift from prev to next. Table, heading and
// form counts drift on any difference; table rows and line counts only
// when they move more than 25%. A skeleton change with no count movement
// is still drift.
func Compare(prev, next models.PageSignature) Report {
	if prev == next {
		return Report{}
	}

	var details []string
	if next.Tables != prev.Tables {
		details = append(details, fmt.Sprintf("table count changed from %d to %d", prev.Tables, next.Tables))
	}
	if next.Headings != prev.Headings {
		details = append(details, fmt.Sprintf("heading structure changed from %v to %v", prev.Headings, next.Headings))
	}
	if next.Forms != prev.Forms {
		details = append(details, fmt.Sprintf("form count changed from %d to %d", prev.Forms, next.Forms))
	}
	if delta := relativeDelta(prev.TableRows, next.TableRows); delta > driftThreshold {
		details = append(details, fmt.Sprintf("table rows moved %.0f%% (%d to %d)", delta*100, prev.TableRows, next.TableRows))
	}
	if delta := relativeDelta(prev.Lines, next.Lines); delta > driftThreshold {
		details = append(details, fmt.Sprintf("line count moved %.0f%% (%d to %d)", delta*100, prev.Lines, next.Lines))
	}
	if len(details) == 0 && next.Skeleton != prev.Skeleton {
		details = append(details, "tag skeleton changed")
	}

	return Report{Changed: len(details) > 0, Details: details}
}

func relativeDelta(prev, next int) float64 {
	if prev == 0 {
		if next == 0 {
			return 0
		}
		return 1
	}
	return math.Abs(float64(next-prev)) / float64(prev)
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
