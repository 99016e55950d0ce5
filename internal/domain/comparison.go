package domain

import "time"

// ComparisonRequest is an incoming price comparison request
type ComparisonRequest struct {
	ProductName string `json:"productName" binding:"required"`
}

// SourceQuote is one side of a merged comparison entry
type SourceQuote struct {
	Marketplace string `json:"marketplace"`
	Title       string `json:"title"`
	Price       Price  `json:"price"`
	Link        string `json:"link"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// ComparisonEntry is one matched listing pair with the price verdict.
// Winner is the cheaper marketplace's name, "Same Price", or "N/A" when
// neither side has a usable price.
type ComparisonEntry struct {
	Title       string      `json:"title"`
	Primary     SourceQuote `json:"primary"`
	Secondary   SourceQuote `json:"secondary"`
	Winner      string      `json:"winner"`
	MatchScore  float64     `json:"matchScore"`
	MatchMethod MatchMethod `json:"matchMethod,omitempty"`
}

// ComparisonReport is the full output of one comparison run
type ComparisonReport struct {
	Query          string            `json:"query"`
	Results        []ComparisonEntry `json:"results"`
	PrimarySource  string            `json:"primarySource"`
	PrimaryCount   int               `json:"primaryCount"`
	SecondaryCount int               `json:"secondaryCount"`
	Source         string            `json:"source"` // "Live" or "Cache"
	ScrapedOn      time.Time         `json:"scrapedOn"`
}

const (
	WinnerSamePrice = "Same Price"
	WinnerNone      = "N/A"
)
