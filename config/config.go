package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig
	Marketplaces MarketplacesConfig
	Semantic     SemanticConfig
	Matching     MatchingConfig
	Cache        CacheConfig
	RateLimit    RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MarketplacesConfig names the two scraper services being compared
type MarketplacesConfig struct {
	SourceA MarketplaceConfig `mapstructure:"source_a"`
	SourceB MarketplaceConfig `mapstructure:"source_b"`
}

// MarketplaceConfig holds one scraper service endpoint
type MarketplaceConfig struct {
	Name    string `mapstructure:"name"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Pages   int    `mapstructure:"pages"`
}

// SemanticConfig holds the semantic scorer backend selection
type SemanticConfig struct {
	Backend   string  `mapstructure:"backend"` // "huggingface" or "openai"
	APIToken  string  `mapstructure:"api_token"`
	BaseURL   string  `mapstructure:"base_url"`
	Model     string  `mapstructure:"model"`
	Threshold float64 `mapstructure:"threshold"`
}

// MatchingConfig holds the match orchestrator knobs
type MatchingConfig struct {
	LexicalMode        string  `mapstructure:"lexical_mode"` // "jaccard" or "coverage"
	AcceptThreshold    float64 `mapstructure:"accept_threshold"`
	RejectThreshold    float64 `mapstructure:"reject_threshold"`
	SemanticFirst      bool    `mapstructure:"semantic_first"`
	EnableDebugLogging bool    `mapstructure:"enable_debug_logging"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricescope/")

	v.SetEnvPrefix("PRICESCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Marketplace defaults: local scraper sidecars
	v.SetDefault("marketplaces.source_a.name", "Amazon")
	v.SetDefault("marketplaces.source_a.base_url", "http://localhost:5001")
	v.SetDefault("marketplaces.source_a.pages", 1)
	v.SetDefault("marketplaces.source_b.name", "Flipkart")
	v.SetDefault("marketplaces.source_b.base_url", "http://localhost:5002")
	v.SetDefault("marketplaces.source_b.pages", 1)

	// Semantic defaults
	v.SetDefault("semantic.backend", "huggingface")
	v.SetDefault("semantic.threshold", 0.78)

	// Matching defaults
	v.SetDefault("matching.lexical_mode", "jaccard")
	v.SetDefault("matching.accept_threshold", 0.8)
	v.SetDefault("matching.reject_threshold", 0.3)
	v.SetDefault("matching.semantic_first", false)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "24h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}
	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("redis URL is required when cache type is 'redis'")
	}

	if config.Semantic.Backend != "huggingface" && config.Semantic.Backend != "openai" {
		return fmt.Errorf("semantic backend must be 'huggingface' or 'openai', got: %s", config.Semantic.Backend)
	}
	if config.Semantic.Threshold <= 0 || config.Semantic.Threshold >= 1 {
		return fmt.Errorf("semantic threshold must be in (0,1), got: %v", config.Semantic.Threshold)
	}

	if config.Matching.LexicalMode != "jaccard" && config.Matching.LexicalMode != "coverage" {
		return fmt.Errorf("lexical mode must be 'jaccard' or 'coverage', got: %s", config.Matching.LexicalMode)
	}
	if config.Matching.RejectThreshold >= config.Matching.AcceptThreshold {
		return fmt.Errorf("reject threshold (%v) must be below accept threshold (%v)",
			config.Matching.RejectThreshold, config.Matching.AcceptThreshold)
	}

	if config.Marketplaces.SourceA.BaseURL == "" || config.Marketplaces.SourceB.BaseURL == "" {
		return fmt.Errorf("both marketplace base URLs are required")
	}
	if config.Marketplaces.SourceA.Name == config.Marketplaces.SourceB.Name {
		return fmt.Errorf("marketplace names must differ, both are %q", config.Marketplaces.SourceA.Name)
	}

	return nil
}
