package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pricescope/backend/config"
	httpDelivery "github.com/pricescope/backend/internal/delivery/http"
	"github.com/pricescope/backend/internal/domain"
	"github.com/pricescope/backend/internal/infrastructure/cache"
	"github.com/pricescope/backend/internal/infrastructure/marketplace"
	"github.com/pricescope/backend/internal/infrastructure/semantic"
	"github.com/pricescope/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting PriceScope Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s", cfg.Cache.Type)

	debug := cfg.Server.Environment == "development" || cfg.Matching.EnableDebugLogging

	// Cache backend
	var cacheRepo domain.CacheRepository
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(cfg.Cache.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisCache.Close()
		cacheRepo = redisCache
	default:
		cacheRepo = cache.NewMemoryCache()
	}
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	// Semantic scorer backend
	var scorer domain.SemanticScorer
	switch cfg.Semantic.Backend {
	case "openai":
		embScorer := semantic.NewEmbeddingScorer(
			cfg.Semantic.APIToken, cfg.Semantic.BaseURL, cfg.Semantic.Model, cfg.Semantic.Threshold)
		embScorer.SetDebug(debug)
		scorer = embScorer
	default:
		hfScorer := semantic.NewHuggingFaceScorer(
			cfg.Semantic.APIToken, cfg.Semantic.BaseURL, cfg.Semantic.Threshold)
		hfScorer.SetDebug(debug)
		scorer = hfScorer
	}
	log.Printf("Semantic backend: %s (threshold %.2f)", cfg.Semantic.Backend, cfg.Semantic.Threshold)
	if cfg.Semantic.APIToken == "" {
		log.Printf("WARNING: semantic API token not configured - semantic checks will report no-match")
	}

	// Marketplace scraper clients
	sourceA := marketplace.NewClient(
		cfg.Marketplaces.SourceA.Name, cfg.Marketplaces.SourceA.BaseURL,
		cfg.Marketplaces.SourceA.APIKey, cfg.Marketplaces.SourceA.Pages)
	sourceB := marketplace.NewClient(
		cfg.Marketplaces.SourceB.Name, cfg.Marketplaces.SourceB.BaseURL,
		cfg.Marketplaces.SourceB.APIKey, cfg.Marketplaces.SourceB.Pages)
	sourceA.SetDebug(debug)
	sourceB.SetDebug(debug)
	log.Printf("Marketplaces: %s (%s) vs %s (%s)",
		sourceA.Name(), cfg.Marketplaces.SourceA.BaseURL,
		sourceB.Name(), cfg.Marketplaces.SourceB.BaseURL)

	// Matching engine
	matcherConfig := usecase.MatcherConfig{
		AcceptThreshold:    cfg.Matching.AcceptThreshold,
		RejectThreshold:    cfg.Matching.RejectThreshold,
		LexicalMode:        usecase.LexicalMode(cfg.Matching.LexicalMode),
		SemanticFirst:      cfg.Matching.SemanticFirst,
		EnableDebugLogging: debug,
	}
	extractor := usecase.NewExtractor(usecase.DefaultVocabulary())
	matcher := usecase.NewMatcher(extractor, scorer, matcherConfig)
	log.Printf("Matching: mode=%s, accept=%.2f, reject=%.2f, semanticFirst=%v",
		cfg.Matching.LexicalMode, cfg.Matching.AcceptThreshold,
		cfg.Matching.RejectThreshold, cfg.Matching.SemanticFirst)

	comparisonService := usecase.NewComparisonService(
		cacheRepo, sourceA, sourceB, matcher,
		usecase.ComparisonServiceConfig{
			CacheTTL:           cfg.Cache.TTL,
			EnableDebugLogging: debug,
		},
	)

	handler := httpDelivery.NewHandler(comparisonService)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
