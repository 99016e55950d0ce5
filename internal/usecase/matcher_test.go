package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pricescope/backend/internal/domain"
)

// stubScorer is a deterministic SemanticScorer that records call counts
type stubScorer struct {
	mu     sync.Mutex
	calls  int
	result domain.SemanticResult
	err    error
}

func (s *stubScorer) CheckSimilarity(ctx context.Context, titleA, titleB string) (*domain.SemanticResult, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	result := s.result
	return &result, nil
}

func (s *stubScorer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestMatcher(scorer domain.SemanticScorer, config MatcherConfig) *Matcher {
	return NewMatcher(newTestExtractor(), scorer, config)
}

func TestNewMatcher(t *testing.T) {
	t.Run("applies default thresholds", func(t *testing.T) {
		m := newTestMatcher(&stubScorer{}, MatcherConfig{})
		if m.acceptThreshold != 0.8 {
			t.Errorf("acceptThreshold = %v, want 0.8", m.acceptThreshold)
		}
		if m.rejectThreshold != 0.3 {
			t.Errorf("rejectThreshold = %v, want 0.3", m.rejectThreshold)
		}
	})

	t.Run("rejects invalid reject threshold", func(t *testing.T) {
		m := newTestMatcher(&stubScorer{}, MatcherConfig{AcceptThreshold: 0.7, RejectThreshold: 0.9})
		if m.rejectThreshold != 0.3 {
			t.Errorf("rejectThreshold = %v, want 0.3 (default when >= accept)", m.rejectThreshold)
		}
	})
}

func TestMatchProductsMissingTitle(t *testing.T) {
	m := newTestMatcher(&stubScorer{}, MatcherConfig{})
	ctx := context.Background()

	result := m.MatchProducts(ctx, domain.Listing{Title: ""}, domain.Listing{Title: "Samsung Galaxy S24"})
	if result.Matched {
		t.Error("Matched = true, want false for missing title")
	}
	if result.Reason != "one or both listings lack a title" {
		t.Errorf("Reason = %q, want lacks-a-title reason", result.Reason)
	}
	if m.CachedPairs() != 0 {
		t.Errorf("CachedPairs = %d, want 0 (missing-title verdicts are not cached)", m.CachedPairs())
	}
}

func TestMatchProductsBrandVetoPrecedence(t *testing.T) {
	// Semantic would say yes; the recognized-brand mismatch must win
	scorer := &stubScorer{result: domain.SemanticResult{Matched: true, Score: 0.99, Method: "semantic", Reason: "stub"}}
	m := newTestMatcher(scorer, MatcherConfig{})
	ctx := context.Background()

	result := m.MatchProducts(ctx,
		domain.Listing{Title: "Samsung Galaxy S24"},
		domain.Listing{Title: "Apple iPhone 15"},
	)

	if result.Matched {
		t.Error("Matched = true, want false")
	}
	if result.Method != domain.MethodBrand {
		t.Errorf("Method = %q, want %q", result.Method, domain.MethodBrand)
	}
	if result.Score != 0 {
		t.Errorf("Score = %v, want 0 for brand veto", result.Score)
	}
	if scorer.callCount() != 0 {
		t.Errorf("semantic calls = %d, want 0 (brand veto is a fast rejection)", scorer.callCount())
	}
}

func TestMatchProductsFallbackBrandGuessesDoNotVeto(t *testing.T) {
	// Both brands are first-word guesses, not vocabulary brands: no brand veto
	scorer := &stubScorer{result: domain.SemanticResult{Matched: true, Score: 0.9, Method: "semantic", Reason: "stub"}}
	m := newTestMatcher(scorer, MatcherConfig{SemanticFirst: true})
	ctx := context.Background()

	result := m.MatchProducts(ctx,
		domain.Listing{Title: "Zebronics Keyboard Km200"},
		domain.Listing{Title: "Portronics Keyboard Km200"},
	)

	if result.Method == domain.MethodBrand {
		t.Fatalf("Method = %q, fallback guesses must not trigger the brand veto", result.Method)
	}
	if !result.Matched {
		t.Errorf("Matched = false (%s: %s), want semantic yes to stand", result.Method, result.Reason)
	}
}

func TestMatchProductsBrandModelShortCircuit(t *testing.T) {
	scorer := &stubScorer{result: domain.SemanticResult{Matched: false, Score: 0.1, Method: "semantic", Reason: "stub"}}
	m := newTestMatcher(scorer, MatcherConfig{})
	ctx := context.Background()

	result := m.MatchProducts(ctx,
		domain.Listing{Title: "Samsung Galaxy S24 Ultra SM-S928B"},
		domain.Listing{Title: "Samsung Galaxy S24 Ultra SM-S928B 256GB Titanium"},
	)

	if !result.Matched {
		t.Fatalf("Matched = false (%s), want true", result.Reason)
	}
	if result.Method != domain.MethodBrandModel {
		t.Errorf("Method = %q, want %q", result.Method, domain.MethodBrandModel)
	}
	if result.Score != 1.0 {
		t.Errorf("Score = %v, want 1.0", result.Score)
	}
	if scorer.callCount() != 0 {
		t.Errorf("semantic calls = %d, want 0 (fast path)", scorer.callCount())
	}
}

func TestMatchProductsNumericVetoOverridesSemanticYes(t *testing.T) {
	scorer := &stubScorer{result: domain.SemanticResult{Matched: true, Score: 0.95, Method: "semantic", Reason: "stub"}}
	m := newTestMatcher(scorer, MatcherConfig{})
	ctx := context.Background()

	result := m.MatchProducts(ctx,
		domain.Listing{Title: "Samsung Galaxy S24 128GB"},
		domain.Listing{Title: "Samsung Galaxy S24 256GB"},
	)

	if result.Matched {
		t.Error("Matched = true, want false")
	}
	if result.Method != domain.MethodNumericVeto {
		t.Errorf("Method = %q, want %q", result.Method, domain.MethodNumericVeto)
	}
	if result.Score != 0.95 {
		t.Errorf("Score = %v, want pre-veto 0.95 preserved", result.Score)
	}
}

func TestMatchProductsSpecWordVeto(t *testing.T) {
	scorer := &stubScorer{result: domain.SemanticResult{Matched: true, Score: 0.9, Method: "semantic", Reason: "stub"}}
	m := newTestMatcher(scorer, MatcherConfig{})
	ctx := context.Background()

	result := m.MatchProducts(ctx,
		domain.Listing{Title: "iPhone 15"},
		domain.Listing{Title: "iPhone 15 Pro Max"},
	)

	if result.Matched {
		t.Error("Matched = true, want false")
	}
	if result.Method != domain.MethodSpecWordVeto {
		t.Errorf("Method = %q, want %q", result.Method, domain.MethodSpecWordVeto)
	}
	// Lexical score is 1.0 after fluff stripping; the veto keeps it
	if result.Score != 1.0 {
		t.Errorf("Score = %v, want pre-veto 1.0 preserved", result.Score)
	}
}

func TestMatchProductsLexicalThresholds(t *testing.T) {
	ctx := context.Background()

	t.Run("high lexical score accepts without semantic call", func(t *testing.T) {
		scorer := &stubScorer{}
		m := newTestMatcher(scorer, MatcherConfig{})

		result := m.MatchProducts(ctx,
			domain.Listing{Title: "Samsung Galaxy S24 128GB"},
			domain.Listing{Title: "Samsung Galaxy S24 128GB Smartphone"},
		)

		if !result.Matched {
			t.Fatalf("Matched = false (%s), want true", result.Reason)
		}
		if result.Method != domain.MethodJaccard {
			t.Errorf("Method = %q, want %q", result.Method, domain.MethodJaccard)
		}
		if scorer.callCount() != 0 {
			t.Errorf("semantic calls = %d, want 0", scorer.callCount())
		}
	})

	t.Run("low lexical score rejects without semantic call", func(t *testing.T) {
		scorer := &stubScorer{}
		m := newTestMatcher(scorer, MatcherConfig{})

		result := m.MatchProducts(ctx,
			domain.Listing{Title: "Cotton Bath Towel"},
			domain.Listing{Title: "Stainless Steel Water Bottle"},
		)

		if result.Matched {
			t.Error("Matched = true, want false")
		}
		if result.Method != domain.MethodJaccard {
			t.Errorf("Method = %q, want %q", result.Method, domain.MethodJaccard)
		}
		if scorer.callCount() != 0 {
			t.Errorf("semantic calls = %d, want 0", scorer.callCount())
		}
	})

	t.Run("ambiguous band consults semantic scorer", func(t *testing.T) {
		scorer := &stubScorer{result: domain.SemanticResult{Matched: true, Score: 0.88, Method: "semantic", Reason: "stub yes"}}
		m := newTestMatcher(scorer, MatcherConfig{})

		result := m.MatchProducts(ctx,
			domain.Listing{Title: "Samsung Galaxy S24 Smartphone 128GB"},
			domain.Listing{Title: "Samsung S24 Mobile Phone 128GB"},
		)

		if !result.Matched {
			t.Fatalf("Matched = false (%s), want true", result.Reason)
		}
		if result.Method != domain.MethodSemantic {
			t.Errorf("Method = %q, want %q", result.Method, domain.MethodSemantic)
		}
		if result.Score != 0.88 {
			t.Errorf("Score = %v, want 0.88 from the deciding stage", result.Score)
		}
		if scorer.callCount() != 1 {
			t.Errorf("semantic calls = %d, want 1", scorer.callCount())
		}
	})
}

func TestMatchProductsSemanticFailureIsRejection(t *testing.T) {
	scorer := &stubScorer{err: errors.New("model server unreachable")}
	m := newTestMatcher(scorer, MatcherConfig{SemanticFirst: true})
	ctx := context.Background()

	result := m.MatchProducts(ctx,
		domain.Listing{Title: "Samsung Galaxy S24 Smartphone 128GB"},
		domain.Listing{Title: "Samsung S24 Mobile Phone 128GB"},
	)

	if result.Matched {
		t.Error("Matched = true, want false on semantic failure")
	}
	if result.Method != domain.MethodSemantic {
		t.Errorf("Method = %q, want %q", result.Method, domain.MethodSemantic)
	}
	if result.Reason == "" {
		t.Error("Reason empty, want failure cause embedded")
	}
}

func TestMatchProductsCacheIdempotence(t *testing.T) {
	scorer := &stubScorer{result: domain.SemanticResult{Matched: true, Score: 0.9, Method: "semantic", Reason: "stub"}}
	m := newTestMatcher(scorer, MatcherConfig{})
	ctx := context.Background()

	a := domain.Listing{Title: "Samsung Galaxy S24 Smartphone 128GB"}
	b := domain.Listing{Title: "Samsung S24 Mobile Phone 128GB"}

	first := m.MatchProducts(ctx, a, b)
	second := m.MatchProducts(ctx, a, b)

	if first != second {
		t.Errorf("results differ: %+v vs %+v", first, second)
	}
	if scorer.callCount() != 1 {
		t.Errorf("semantic calls = %d, want 1 (second call must be a cache hit)", scorer.callCount())
	}

	// Unordered pair key: the reversed pair hits the same entry
	reversed := m.MatchProducts(ctx, b, a)
	if reversed != first {
		t.Errorf("reversed pair result differs: %+v vs %+v", reversed, first)
	}
	if scorer.callCount() != 1 {
		t.Errorf("semantic calls = %d, want 1 after reversed lookup", scorer.callCount())
	}
	if m.CachedPairs() != 1 {
		t.Errorf("CachedPairs = %d, want 1", m.CachedPairs())
	}
}
