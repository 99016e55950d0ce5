package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/pricescope/backend/internal/domain"
)

// Default thresholds for the lexical-first pipeline
const (
	defaultAcceptThreshold = 0.8
	defaultRejectThreshold = 0.3
)

// MatcherConfig holds configuration for the match orchestrator
type MatcherConfig struct {
	// AcceptThreshold is the lexical score at or above which a pair is
	// tentatively accepted without a semantic call
	AcceptThreshold float64

	// RejectThreshold is the lexical score below which a pair is rejected
	// without a semantic call
	RejectThreshold float64

	// LexicalMode selects jaccard or coverage scoring
	LexicalMode LexicalMode

	// SemanticFirst skips the lexical gate and asks the semantic scorer
	// directly, treating lexical overlap as a secondary signal only
	SemanticFirst bool

	EnableDebugLogging bool
}

// Matcher decides whether two scraped listings denote the same real-world
// product. The pipeline is: brand check, brand+model fast accept, lexical
// gate (or straight to semantic), semantic check in the ambiguous band, then
// the strict spec-word and numeric vetoes on any tentative yes.
type Matcher struct {
	extractor          *Extractor
	lexical            *LexicalScorer
	semantic           domain.SemanticScorer
	cache              *pairCache
	acceptThreshold    float64
	rejectThreshold    float64
	semanticFirst      bool
	enableDebugLogging bool
}

// NewMatcher creates a matcher over the given extractor and semantic scorer
func NewMatcher(extractor *Extractor, semantic domain.SemanticScorer, config MatcherConfig) *Matcher {
	accept := config.AcceptThreshold
	if accept <= 0 || accept > 1 {
		accept = defaultAcceptThreshold
	}
	reject := config.RejectThreshold
	if reject <= 0 || reject >= accept {
		reject = defaultRejectThreshold
	}

	return &Matcher{
		extractor:          extractor,
		lexical:            NewLexicalScorer(extractor.Vocabulary(), config.LexicalMode),
		semantic:           semantic,
		cache:              newPairCache(),
		acceptThreshold:    accept,
		rejectThreshold:    reject,
		semanticFirst:      config.SemanticFirst,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// CachedPairs returns the number of memoized pair verdicts
func (m *Matcher) CachedPairs() int {
	return m.cache.size()
}

// MatchProducts returns the verdict for one listing pair. It never returns
// an error: every failure mode, including a broken semantic backend, becomes
// a rejected result with the cause in Reason.
func (m *Matcher) MatchProducts(ctx context.Context, a, b domain.Listing) domain.MatchResult {
	if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(b.Title) == "" {
		return domain.MatchResult{Reason: "one or both listings lack a title"}
	}

	key := m.cache.key(a.Title, b.Title)
	if cached, ok := m.cache.get(key); ok {
		if m.enableDebugLogging {
			log.Printf("[MATCH] Cache HIT: %q vs %q", a.Title, b.Title)
		}
		return cached
	}

	result := m.matchUncached(ctx, a, b)
	m.cache.set(key, result)
	return result
}

func (m *Matcher) matchUncached(ctx context.Context, a, b domain.Listing) domain.MatchResult {
	attrsA := m.extractor.ExtractAttributes(a.Title, a.Brand, a.ModelNumber)
	attrsB := m.extractor.ExtractAttributes(b.Title, b.Brand, b.ModelNumber)

	// Brand veto fires only when both sides carry a recognized-vocabulary
	// brand. Fallback first-word guesses are too weak to reject on.
	if m.extractor.IsKnownBrand(attrsA.Brand) && m.extractor.IsKnownBrand(attrsB.Brand) &&
		attrsA.Brand != attrsB.Brand {
		return domain.MatchResult{
			Method: domain.MethodBrand,
			Reason: fmt.Sprintf("known brand mismatch: %q vs %q", attrsA.Brand, attrsB.Brand),
		}
	}

	// Matching brand plus matching explicit model code is unbeatable
	if attrsA.Brand != "" && attrsA.Brand == attrsB.Brand &&
		attrsA.ModelIsCode && attrsB.ModelIsCode &&
		attrsA.ModelNumber != "" && attrsA.ModelNumber == attrsB.ModelNumber {
		return domain.MatchResult{
			Matched: true,
			Score:   1.0,
			Method:  domain.MethodBrandModel,
			Reason:  fmt.Sprintf("brand %q and model %q match exactly", attrsA.Brand, attrsA.ModelNumber),
		}
	}

	tentative, done := m.tentativeVerdict(ctx, a.Title, b.Title)
	if done {
		return tentative
	}

	// Strict vetoes: any asymmetric spec-word or numeric difference rejects,
	// preserving the pre-veto score for diagnostics
	if uniqueA, uniqueB, same := setDifference(attrsA.SpecWords, attrsB.SpecWords); !same {
		return domain.MatchResult{
			Score:  tentative.Score,
			Method: domain.MethodSpecWordVeto,
			Reason: fmt.Sprintf("spec word sets not identical: A has [%s] unique, B has [%s] unique",
				strings.Join(uniqueA, ","), strings.Join(uniqueB, ",")),
		}
	}

	if uniqueA, uniqueB, same := setDifference(attrsA.NumericTokens, attrsB.NumericTokens); !same {
		return domain.MatchResult{
			Score:  tentative.Score,
			Method: domain.MethodNumericVeto,
			Reason: fmt.Sprintf("numeric sets not identical: A has [%s] unique, B has [%s] unique",
				strings.Join(uniqueA, ","), strings.Join(uniqueB, ",")),
		}
	}

	return tentative
}

// tentativeVerdict runs the lexical gate and/or the semantic check. The
// second return value is true when the verdict is final (a rejection, which
// skips the vetoes).
func (m *Matcher) tentativeVerdict(ctx context.Context, titleA, titleB string) (domain.MatchResult, bool) {
	if !m.semanticFirst {
		score := m.lexical.Score(titleA, titleB)
		if m.enableDebugLogging {
			log.Printf("[MATCH] Lexical %.3f (%s): %q vs %q", score, m.lexical.Mode(), titleA, titleB)
		}

		if score >= m.acceptThreshold {
			return domain.MatchResult{
				Matched: true,
				Score:   score,
				Method:  domain.MethodJaccard,
				Reason:  fmt.Sprintf("lexical score %.3f >= threshold %.2f", score, m.acceptThreshold),
			}, false
		}
		if score < m.rejectThreshold {
			return domain.MatchResult{
				Score:  score,
				Method: domain.MethodJaccard,
				Reason: fmt.Sprintf("lexical score %.3f < threshold %.2f", score, m.rejectThreshold),
			}, true
		}
		// Ambiguous band: fall through to the semantic check
	}

	semResult, err := m.semantic.CheckSimilarity(ctx, titleA, titleB)
	if err != nil {
		// A broken semantic backend must not abort the surrounding search
		if m.enableDebugLogging {
			log.Printf("[MATCH] Semantic check failed: %v", err)
		}
		return domain.MatchResult{
			Method: domain.MethodSemantic,
			Reason: fmt.Sprintf("semantic check failed: %v", err),
		}, true
	}

	if !semResult.Matched {
		return domain.MatchResult{
			Score:  semResult.Score,
			Method: domain.MethodSemantic,
			Reason: semResult.Reason,
		}, true
	}

	return domain.MatchResult{
		Matched: true,
		Score:   semResult.Score,
		Method:  domain.MethodSemantic,
		Reason:  semResult.Reason,
	}, false
}

// setDifference returns the sorted elements unique to each side and whether
// the sets are identical
func setDifference(setA, setB map[string]bool) (uniqueA, uniqueB []string, same bool) {
	for k := range setA {
		if !setB[k] {
			uniqueA = append(uniqueA, k)
		}
	}
	for k := range setB {
		if !setA[k] {
			uniqueB = append(uniqueB, k)
		}
	}
	sort.Strings(uniqueA)
	sort.Strings(uniqueB)
	return uniqueA, uniqueB, len(uniqueA) == 0 && len(uniqueB) == 0
}
