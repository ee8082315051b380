package models

// Deadline is a dated obligation published by a source: application windows,
// leftover sales, point-purchase cutoffs. Upserted on
// (source, species, deadline_type, year).
type Deadline struct {
	Source  string `json:"source"`
	Species string `json:"species"`
	Type    string `json:"deadline_type"`
	Year    int    `json:"year"`
	Date    string `json:"date"` // agency-formatted date string, validated parseable
	Note    string `json:"note,omitempty"`
}

// Fee is one price line scraped from a source, keyed on
// (source, fee_name, residency). Species is set only for species-tagged fees
// (tags, species licenses); license-level fees (application, qualifying
// license, points) leave it nil.
type Fee struct {
	Source    string  `json:"source"`
	Name      string  `json:"fee_name"`
	Residency string  `json:"residency"`
	Amount    float64 `json:"amount"`
	Species   *string `json:"species,omitempty"`
	Frequency string  `json:"frequency,omitempty"` // annual, one_time, per_application
	Note      string  `json:"note,omitempty"`
}

// Season is a hunt window, upserted on (source, species, season_type, year).
type Season struct {
	Source    string  `json:"source"`
	Species   string  `json:"species"`
	Type      string  `json:"season_type"`
	Year      int     `json:"year"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	UnitCode  *string `json:"unit_code,omitempty"`
}

// Regulation is a regulatory announcement, upserted on (source, title).
type Regulation struct {
	Source    string `json:"source"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Category  string `json:"category"`
	SourceURL string `json:"source_url"`
}

// LeftoverTag is remaining post-draw availability for a unit, upserted on
// (source, species, unit_code). A row with zero tags available is meaningless
// and rejected by validation.
type LeftoverTag struct {
	Source        string  `json:"source"`
	Species       string  `json:"species"`
	UnitCode      string  `json:"unit_code"`
	TagsAvailable int     `json:"tags_available"`
	SeasonType    *string `json:"season_type,omitempty"`
	SourceURL     string  `json:"source_url"`
}
