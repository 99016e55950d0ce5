package usecase

import (
	"regexp"
	"strings"
)

var (
	// Matches any digit sequence, even attached to letters ("8gb", "5mm")
	numberRegex = regexp.MustCompile(`\d+(?:\.\d+)?`)

	// Candidate alphanumeric codes joined by hyphens or slashes ("sm-s928b",
	// "wh-1000xm5"). A candidate only counts as a model code if it carries at
	// least one digit, checked after the scan.
	modelCodeRegex = regexp.MustCompile(`\b[a-z0-9]+(?:[-/][a-z0-9]+)+\b`)

	// Named device families followed by a model token and any trailing
	// variant words ("galaxy s24 ultra", "iphone 15 pro max")
	namedDeviceRegex = regexp.MustCompile(`\b(?:galaxy|iphone|ipad|ipod|macbook|pixel|redmi|poco|note|pad|tab|watch|band|buds|xperia|thinkpad|ideapad|pavilion|inspiron)\s+[a-z]?\d+[a-z]*(?:\s+(?:pro|plus|ultra|max|mini|lite|fe|se))*\b`)

	// Generic letter-prefixed alphanumeric blocks ("s24", "gtx1660")
	genericModelRegex = regexp.MustCompile(`\b[a-z]{1,4}\d{1,4}[a-z0-9]*\b`)

	containsDigitRegex = regexp.MustCompile(`\d`)
)

// NormalizedAttributes are the structured signals pulled from one title.
// They are derived per comparison and never persisted.
type NormalizedAttributes struct {
	Brand       string
	ModelNumber string

	// ModelIsCode is true when the model came from an explicit alphanumeric
	// code ("sm-s928b") or a pre-supplied override, as opposed to a weaker
	// device-family guess ("galaxys24"). Only code-grade models are strong
	// enough for the brand+model fast accept.
	ModelIsCode   bool
	SpecWords     map[string]bool
	NumericTokens map[string]bool
}

// Extractor pulls brand, model, spec-word, and numeric signals out of raw
// titles using an injected vocabulary
type Extractor struct {
	vocab       *Vocabulary
	brandRegexs []*regexp.Regexp // compiled once, same order as vocab.Brands
}

// NewExtractor creates an extractor over the given vocabulary
func NewExtractor(vocab *Vocabulary) *Extractor {
	brandRegexs := make([]*regexp.Regexp, len(vocab.Brands))
	for i, brand := range vocab.Brands {
		brandRegexs[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(brand) + `\b`)
	}
	return &Extractor{vocab: vocab, brandRegexs: brandRegexs}
}

// Vocabulary returns the extractor's word lists
func (e *Extractor) Vocabulary() *Vocabulary {
	return e.vocab
}

// ExtractBrand returns the first recognized-vocabulary brand found in the
// title (vocabulary order breaks ties), falling back to the first normalized
// word when it is not a stop word and is at least 3 characters. Returns ""
// when no brand can be determined.
func (e *Extractor) ExtractBrand(title string) string {
	titleLower := Normalize(title)
	if titleLower == "" {
		return ""
	}

	for i, re := range e.brandRegexs {
		if re.MatchString(titleLower) {
			return e.vocab.Brands[i]
		}
	}

	firstWord := strings.SplitN(titleLower, " ", 2)[0]
	if firstWord != "" && !e.vocab.IsStopWord(firstWord) && len(firstWord) >= 3 {
		return firstWord
	}
	return ""
}

// IsKnownBrand reports whether b came from the recognized-brand vocabulary
func (e *Extractor) IsKnownBrand(b string) bool {
	return e.vocab.IsKnownBrand(b)
}

// ExtractModelNumber applies the ordered model patterns and returns the first
// hit, lowercased with internal whitespace removed; "" when nothing matches.
func (e *Extractor) ExtractModelNumber(title string) string {
	model, _ := e.extractModel(title)
	return model
}

// extractModel additionally reports whether the model came from the explicit
// code pattern
func (e *Extractor) extractModel(title string) (string, bool) {
	titleLower := Normalize(title)
	if titleLower == "" {
		return "", false
	}

	for _, match := range modelCodeRegex.FindAllString(titleLower, -1) {
		if containsDigitRegex.MatchString(match) {
			return strings.ReplaceAll(match, " ", ""), true
		}
	}

	if match := namedDeviceRegex.FindString(titleLower); match != "" {
		return strings.ReplaceAll(match, " ", ""), false
	}

	if match := genericModelRegex.FindString(titleLower); match != "" {
		return match, false
	}
	return "", false
}

// ExtractSpecWords returns the model-defining variant words present in the
// title, e.g. "iPhone 15 Pro Max" -> {pro, max}
func (e *Extractor) ExtractSpecWords(title string) map[string]bool {
	found := make(map[string]bool)
	titleLower := " " + Normalize(title) + " " // pad for whole-word boundaries
	for _, spec := range e.vocab.SpecWords {
		if strings.Contains(titleLower, " "+spec+" ") {
			found[spec] = true
		}
	}
	return found
}

// ExtractNumericTokens returns every digit sequence in the raw title as a set
// of literal strings. Capacities and generation numbers land here, which is
// what the numeric veto compares.
func (e *Extractor) ExtractNumericTokens(title string) map[string]bool {
	found := make(map[string]bool)
	for _, num := range numberRegex.FindAllString(title, -1) {
		found[num] = true
	}
	return found
}

// ExtractAttributes computes every signal for one title in a single pass.
// Pre-supplied brand/model overrides win over extraction.
func (e *Extractor) ExtractAttributes(title, brandOverride, modelOverride string) NormalizedAttributes {
	brand := Normalize(brandOverride)
	if brand == "" {
		brand = e.ExtractBrand(title)
	}
	model := Normalize(modelOverride)
	modelIsCode := model != ""
	if model != "" {
		model = strings.ReplaceAll(model, " ", "")
	} else {
		model, modelIsCode = e.extractModel(title)
	}

	return NormalizedAttributes{
		Brand:         brand,
		ModelNumber:   model,
		ModelIsCode:   modelIsCode,
		SpecWords:     e.ExtractSpecWords(title),
		NumericTokens: e.ExtractNumericTokens(title),
	}
}
