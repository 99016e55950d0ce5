package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNoListingsFound is returned when neither marketplace returned any listings
	ErrNoListingsFound = errors.New("no listings found for query")

	// ErrMarketplaceUnavailable is returned when every marketplace search failed
	ErrMarketplaceUnavailable = errors.New("marketplace request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
