package usecase

// Vocabulary holds the fixed word lists the extractors and the lexical
// cleaner work from. It is plain configuration data: construct once, inject
// into the Extractor and LexicalScorer, never mutate. Tests substitute their
// own lists through NewExtractor.
type Vocabulary struct {
	// Brands is the ordered recognized-brand list. Order matters: the first
	// hit wins during extraction, so iteration must be deterministic.
	Brands []string

	// SpecWords are model-defining variant words. A conflict here between two
	// titles is a strong "different product" signal.
	SpecWords []string

	// StopWords are words the first-word brand fallback must never guess.
	StopWords []string

	// FluffWords are retail noise stripped before lexical token comparison.
	FluffWords []string

	brandSet map[string]bool
	specSet  map[string]bool
	stopSet  map[string]bool
	fluffSet map[string]bool
}

// NewVocabulary builds the membership sets for the given word lists
func NewVocabulary(brands, specWords, stopWords, fluffWords []string) *Vocabulary {
	v := &Vocabulary{
		Brands:     brands,
		SpecWords:  specWords,
		StopWords:  stopWords,
		FluffWords: fluffWords,
		brandSet:   make(map[string]bool, len(brands)),
		specSet:    make(map[string]bool, len(specWords)),
		stopSet:    make(map[string]bool, len(stopWords)),
		fluffSet:   make(map[string]bool, len(fluffWords)),
	}
	for _, b := range brands {
		v.brandSet[b] = true
	}
	for _, s := range specWords {
		v.specSet[s] = true
	}
	for _, s := range stopWords {
		v.stopSet[s] = true
	}
	for _, f := range fluffWords {
		v.fluffSet[f] = true
	}
	return v
}

// IsKnownBrand reports whether b is a recognized-vocabulary brand, as opposed
// to a fallback first-word guess
func (v *Vocabulary) IsKnownBrand(b string) bool {
	return v.brandSet[b]
}

// IsSpecWord reports whether w is a model-defining variant word
func (v *Vocabulary) IsSpecWord(w string) bool {
	return v.specSet[w]
}

// IsStopWord reports whether w is excluded from brand fallback guessing
func (v *Vocabulary) IsStopWord(w string) bool {
	return v.stopSet[w]
}

// IsFluffWord reports whether w is stripped before lexical comparison
func (v *Vocabulary) IsFluffWord(w string) bool {
	return v.fluffSet[w]
}

// defaultBrands covers the product categories the comparison service is
// pointed at: consumer tech plus common cosmetics/apparel brands.
var defaultBrands = []string{
	// Tech
	"apple", "samsung", "google", "oneplus", "xiaomi", "redmi", "oppo", "vivo",
	"realme", "motorola", "nokia", "sony", "lg", "asus", "poco", "boat",
	"jbl", "sennheiser", "bose", "hp", "dell", "lenovo", "acer", "msi",
	"noise", "fire-boltt", "amazfit", "garmin", "fitbit", "spigen", "anker",
	"logitech", "razer", "corsair", "whirlpool", "panasonic", "toshiba",
	"intel", "amd", "nvidia", "gopro", "dji", "canon", "nikon",
	// Cosmetics & general
	"l'oreal", "maybelline", "revlon", "nyx", "lakme", "mac", "sugar",
	"himalaya", "nivea", "dove", "olay", "ponds", "adidas", "nike", "puma",
}

var defaultSpecWords = []string{
	"pro", "plus", "ultra", "max", "lite", "fe", "se", "go", "mini",
}

var defaultStopWords = []string{
	"the", "new", "a", "an", "for", "with", "of",
}

var defaultFluffWords = []string{
	"combo", "edition", "gen", "pro", "max", "ultra", "lite", "plus",
	"black", "white", "blue", "red", "green", "grey", "gray", "silver",
	"gold", "titanium", "midnight", "starlight",
}

// DefaultVocabulary returns the built-in brand/spec/stop/fluff lists
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(defaultBrands, defaultSpecWords, defaultStopWords, defaultFluffWords)
}
