package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pricescope/backend/internal/domain"
)

// ComparisonServiceConfig holds configuration for the comparison service
type ComparisonServiceConfig struct {
	CacheTTL           time.Duration
	Matcher            MatcherConfig
	EnableDebugLogging bool
}

// ComparisonService runs one full price comparison: search both marketplaces,
// match equivalent listings, parse prices, and pick the cheaper side.
type ComparisonService struct {
	cache              domain.CacheRepository
	sourceA            domain.ListingSource
	sourceB            domain.ListingSource
	matcher            *Matcher
	cacheTTL           time.Duration
	enableDebugLogging bool
}

// NewComparisonService creates a comparison service with dependencies
func NewComparisonService(
	cache domain.CacheRepository,
	sourceA, sourceB domain.ListingSource,
	matcher *Matcher,
	config ComparisonServiceConfig,
) *ComparisonService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	return &ComparisonService{
		cache:              cache,
		sourceA:            sourceA,
		sourceB:            sourceB,
		matcher:            matcher,
		cacheTTL:           cacheTTL,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// CompareProducts looks up a full comparison report for a product name.
// Flow: check cache -> search both marketplaces -> best-match each primary
// listing -> assemble report -> cache -> return.
func (s *ComparisonService) CompareProducts(ctx context.Context, request *domain.ComparisonRequest) (*domain.ComparisonReport, error) {
	if request == nil || strings.TrimSpace(request.ProductName) == "" {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := s.generateCacheKey(request.ProductName)
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil && cached != nil {
		cached.Source = "Cache"
		return cached, nil
	}

	listingsA, listingsB, err := s.fetchListings(ctx, request.ProductName)
	if err != nil {
		return nil, err
	}
	if len(listingsA) == 0 && len(listingsB) == 0 {
		return nil, domain.ErrNoListingsFound
	}

	report := s.assembleReport(ctx, request.ProductName, listingsA, listingsB)

	if err := s.setInCache(ctx, cacheKey, report); err != nil {
		log.Printf("[COMPARE] Failed to cache report for %q: %v", request.ProductName, err)
	}

	return report, nil
}

// fetchListings queries both marketplaces concurrently. A single failing
// source degrades to an empty list; both failing is an error.
func (s *ComparisonService) fetchListings(ctx context.Context, query string) ([]domain.Listing, []domain.Listing, error) {
	type sourceResult struct {
		listings []domain.Listing
		err      error
	}

	resultA := make(chan sourceResult, 1)
	resultB := make(chan sourceResult, 1)

	go func() {
		listings, err := s.sourceA.SearchListings(ctx, query)
		resultA <- sourceResult{listings, err}
	}()
	go func() {
		listings, err := s.sourceB.SearchListings(ctx, query)
		resultB <- sourceResult{listings, err}
	}()

	resA, resB := <-resultA, <-resultB

	if resA.err != nil {
		log.Printf("[COMPARE] %s search failed: %v", s.sourceA.Name(), resA.err)
	}
	if resB.err != nil {
		log.Printf("[COMPARE] %s search failed: %v", s.sourceB.Name(), resB.err)
	}
	if resA.err != nil && resB.err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v; %s: %v",
			domain.ErrMarketplaceUnavailable, s.sourceA.Name(), resA.err, s.sourceB.Name(), resB.err)
	}

	return resA.listings, resB.listings, nil
}

// assembleReport matches every primary listing against the other side and
// builds the merged comparison entries. The smaller collection acts as the
// primary side: fewer targets, each searched across the larger pool.
func (s *ComparisonService) assembleReport(ctx context.Context, query string, listingsA, listingsB []domain.Listing) *domain.ComparisonReport {
	primaryName, secondaryName := s.sourceA.Name(), s.sourceB.Name()
	primary, secondary := listingsA, listingsB
	if len(listingsB) < len(listingsA) {
		primaryName, secondaryName = secondaryName, primaryName
		primary, secondary = secondary, primary
	}

	report := &domain.ComparisonReport{
		Query:          query,
		Results:        []domain.ComparisonEntry{},
		PrimarySource:  primaryName,
		PrimaryCount:   len(primary),
		SecondaryCount: len(secondary),
		Source:         "Live",
		ScrapedOn:      time.Now().UTC(),
	}

	for _, listing := range primary {
		if strings.TrimSpace(listing.Title) == "" {
			continue
		}

		outcome := s.matcher.FindBestMatch(ctx, listing, secondary)
		if outcome == nil {
			continue
		}

		entry := domain.ComparisonEntry{
			Title: listing.Title,
			Primary: domain.SourceQuote{
				Marketplace: primaryName,
				Title:       listing.Title,
				Price:       ParsePrice(listing.Price),
				Link:        listing.Link,
				ImageURL:    listing.ImageURL,
			},
			Secondary: domain.SourceQuote{
				Marketplace: secondaryName,
				Title:       outcome.Item.Title,
				Price:       ParsePrice(outcome.Item.Price),
				Link:        outcome.Item.Link,
				ImageURL:    outcome.Item.ImageURL,
			},
			MatchScore:  outcome.Result.Score,
			MatchMethod: outcome.Result.Method,
		}
		entry.Winner = pickWinner(entry.Primary, entry.Secondary)

		report.Results = append(report.Results, entry)
	}

	if s.enableDebugLogging {
		log.Printf("[COMPARE] %q: %d common products across %s (%d) and %s (%d)",
			query, len(report.Results), primaryName, len(primary), secondaryName, len(secondary))
	}

	return report
}

// pickWinner names the cheaper marketplace, "Same Price" on a tie, or "N/A"
// when neither side has a usable price. A single usable price wins by default.
func pickWinner(primary, secondary domain.SourceQuote) string {
	pValid, sValid := primary.Price.Valid(), secondary.Price.Valid()
	switch {
	case pValid && sValid:
		if primary.Price.Amount < secondary.Price.Amount {
			return primary.Marketplace
		}
		if secondary.Price.Amount < primary.Price.Amount {
			return secondary.Marketplace
		}
		return domain.WinnerSamePrice
	case pValid:
		return primary.Marketplace
	case sValid:
		return secondary.Marketplace
	default:
		return domain.WinnerNone
	}
}

// generateCacheKey creates a normalized cache key from the product name.
// Format: "comparison:{normalized_product_name}"
func (s *ComparisonService) generateCacheKey(productName string) string {
	return "comparison:" + strings.ReplaceAll(Normalize(productName), " ", "_")
}

// getFromCache retrieves a report from cache, tolerating the JSON round-trip
// the cache applies to stored values
func (s *ComparisonService) getFromCache(ctx context.Context, key string) (*domain.ComparisonReport, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if report, ok := value.(*domain.ComparisonReport); ok {
		return report, nil
	}

	// Values come back as generic JSON from the memory and redis stores;
	// re-marshal into the concrete type
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, domain.ErrCacheMiss
	}
	var report domain.ComparisonReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, domain.ErrCacheMiss
	}
	return &report, nil
}

func (s *ComparisonService) setInCache(ctx context.Context, key string, report *domain.ComparisonReport) error {
	return s.cache.Set(ctx, key, report, s.cacheTTL)
}
