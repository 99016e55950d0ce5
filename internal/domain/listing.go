package domain

// Listing represents one scraped product entry from a marketplace
type Listing struct {
	Title       string `json:"title"`
	Price       string `json:"price"` // raw price text, may be a sentinel
	Link        string `json:"link"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Brand       string `json:"brand,omitempty"`       // optional pre-supplied override
	ModelNumber string `json:"modelNumber,omitempty"` // optional pre-supplied override
}

// MatchMethod identifies which pipeline stage produced a match verdict
type MatchMethod string

const (
	MethodBrand        MatchMethod = "brand"
	MethodSpecWordVeto MatchMethod = "spec-word-veto"
	MethodNumericVeto  MatchMethod = "numeric-veto"
	MethodJaccard      MatchMethod = "jaccard"
	MethodSemantic     MatchMethod = "semantic"
	MethodBrandModel   MatchMethod = "brand+model"
)

// MatchResult is the verdict for one listing pair.
// When Matched is true, Score is the similarity computed by the stage that
// produced the final yes (lexical, semantic, or the brand+model fast path),
// never a veto stage's score. Vetoed rejections keep the pre-veto score for
// diagnostics.
type MatchResult struct {
	Matched bool        `json:"matched"`
	Score   float64     `json:"score"` // 0..1
	Method  MatchMethod `json:"method,omitempty"`
	Reason  string      `json:"reason"`
}

// BestMatchOutcome is the result of a best-match search for one target listing
type BestMatchOutcome struct {
	Item   Listing     `json:"item"`
	Result MatchResult `json:"result"`
}

// SemanticResult is the outcome of a semantic similarity check.
// Ordinary "no match" and "service unavailable" outcomes come back with
// Matched=false and an explanatory reason, not as errors.
type SemanticResult struct {
	Matched bool    `json:"matched"`
	Score   float64 `json:"score"`
	Method  string  `json:"method"`
	Reason  string  `json:"reason"`
}
