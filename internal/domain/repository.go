package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ListingSource produces scraped search listings for one marketplace.
// Implementations own page navigation and pagination; the matching engine
// only ever sees the resulting records.
type ListingSource interface {
	Name() string
	SearchListings(ctx context.Context, query string) ([]Listing, error)
}

// SemanticScorer is the pluggable embedding-based similarity capability.
// Ordinary "no match" and "service unavailable" outcomes are represented as
// Matched=false with a reason; callers must treat a returned error the same
// as Matched=false.
type SemanticScorer interface {
	CheckSimilarity(ctx context.Context, titleA, titleB string) (*SemanticResult, error)
}
