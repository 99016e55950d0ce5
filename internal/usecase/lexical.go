package usecase

import "strings"

// LexicalMode selects how token overlap is turned into a score
type LexicalMode string

const (
	// LexicalModeJaccard is the symmetric |A∩B| / |A∪B| index, suited to
	// general search results where both titles are noisy
	LexicalModeJaccard LexicalMode = "jaccard"

	// LexicalModeCoverage is one-sided |query∩title| / |query|, suited to
	// exact-query lookups where the query is authoritative
	LexicalModeCoverage LexicalMode = "coverage"
)

// LexicalScorer computes token-overlap similarity between two titles after
// strict cleaning (fluff words and non-token characters removed)
type LexicalScorer struct {
	vocab *Vocabulary
	mode  LexicalMode
}

// NewLexicalScorer creates a scorer in the given mode; an unknown mode falls
// back to jaccard
func NewLexicalScorer(vocab *Vocabulary, mode LexicalMode) *LexicalScorer {
	if mode != LexicalModeJaccard && mode != LexicalModeCoverage {
		mode = LexicalModeJaccard
	}
	return &LexicalScorer{vocab: vocab, mode: mode}
}

// Mode returns the configured scoring mode
func (s *LexicalScorer) Mode() LexicalMode {
	return s.mode
}

// Score returns similarity in [0,1] between the two titles. Zero when either
// side has no tokens left after cleaning.
func (s *LexicalScorer) Score(titleA, titleB string) float64 {
	tokensA := tokenSet(CleanForMatching(titleA, s.vocab))
	tokensB := tokenSet(CleanForMatching(titleB, s.vocab))
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range tokensA {
		if tokensB[tok] {
			intersection++
		}
	}

	if s.mode == LexicalModeCoverage {
		return float64(intersection) / float64(len(tokensA))
	}

	union := len(tokensA) + len(tokensB) - intersection
	return float64(intersection) / float64(union)
}

// tokenSet splits a cleaned title into its unique whitespace tokens
func tokenSet(cleaned string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(cleaned) {
		set[tok] = true
	}
	return set
}
