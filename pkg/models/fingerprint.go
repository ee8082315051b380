package models

import "time"

// PageSignature is the cheap structural summary of one fetched page. It is
// compared across runs to detect layout drift that would silently break a
// source's extraction heuristics. Counts are stable across byte-identical
// fetches; the skeleton hash covers the normalized tag sequence.
type PageSignature struct {
	Tables    int    `json:"tables"`
	TableRows int    `json:"table_rows"`
	Headings  [6]int `json:"headings"` // h1..h6 occurrence counts
	Links     int    `json:"links"`
	Forms     int    `json:"forms"`
	Lines     int    `json:"lines"`    // raw line count, the only signal for non-HTML
	Skeleton  string `json:"skeleton"` // sha256 over the tag-name skeleton
}

// Fingerprint is the stored signature for (source, url). One row per URL ever
// fetched; compared, then overwritten, on every fetch.
type Fingerprint struct {
	Source     string        `json:"source"`
	URL        string        `json:"url"`
	Signature  PageSignature `json:"signature"`
	ComputedAt time.Time     `json:"computed_at"`
}
