package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/pricescope/backend/internal/domain"
)

// FindBestMatch evaluates the target listing against every candidate
// concurrently and returns the best accepted match, or nil when nothing
// matched. Selection is deterministic for a fixed input order: a brand+model
// hit beats everything, otherwise the highest score wins with ties broken by
// input order. A panic while evaluating one candidate is recovered into a
// rejected result so one bad candidate cannot fail the whole search.
func (m *Matcher) FindBestMatch(ctx context.Context, target domain.Listing, candidates []domain.Listing) *domain.BestMatchOutcome {
	if len(candidates) == 0 {
		return nil
	}

	results := make([]domain.MatchResult, len(candidates))

	var wg sync.WaitGroup
	for i, candidate := range candidates {
		wg.Add(1)
		go func(i int, candidate domain.Listing) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = domain.MatchResult{
						Reason: fmt.Sprintf("candidate evaluation failed: %v", r),
					}
				}
			}()
			results[i] = m.MatchProducts(ctx, target, candidate)
		}(i, candidate)
	}
	wg.Wait()

	best := -1
	for i, result := range results {
		if !result.Matched {
			continue
		}
		if result.Method == domain.MethodBrandModel {
			// Unbeatable: prefer the first brand+model hit over everything
			best = i
			break
		}
		if best == -1 || result.Score > results[best].Score {
			best = i
		}
	}

	if best == -1 {
		if m.enableDebugLogging {
			log.Printf("[MATCH] No match found for %q among %d candidates", target.Title, len(candidates))
		}
		return nil
	}

	if m.enableDebugLogging {
		log.Printf("[MATCH] Best match for %q: %q (score %.3f, method %s)",
			target.Title, candidates[best].Title, results[best].Score, results[best].Method)
	}

	return &domain.BestMatchOutcome{Item: candidates[best], Result: results[best]}
}
