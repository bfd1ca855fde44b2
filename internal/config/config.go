package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Wikipedia  WikipediaConfig  `mapstructure:"wikipedia"`
	Retailer   RetailerConfig   `mapstructure:"retailer"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Redis      RedisConfig      `mapstructure:"redis"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           int    `mapstructure:"port"`
	Host           string `mapstructure:"host"`
	Environment    string `mapstructure:"environment"`
	RateLimitPerIP int    `mapstructure:"rate_limit_per_ip"` // requests per second, 0 disables
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

// WikipediaConfig holds MediaWiki API configuration
type WikipediaConfig struct {
	APIURL               string `mapstructure:"api_url"`
	UserAgent            string `mapstructure:"user_agent"`
	Timeout              int    `mapstructure:"timeout"`  // seconds
	Cooldown             int    `mapstructure:"cooldown"` // seconds the circuit breaker stays open
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`
	MaxItems             int    `mapstructure:"max_items"` // cap on continued listings
}

// RetailerConfig holds the page-fetch fallback configuration
type RetailerConfig struct {
	UserAgent string      `mapstructure:"user_agent"`
	Timeout   int         `mapstructure:"timeout"` // seconds
	Selectors []string    `mapstructure:"selectors"`
	Proxy     ProxyConfig `mapstructure:"proxy"`
}

type ProxyConfig struct {
	URLs            []string `mapstructure:"urls"`
	ValidateURL     string   `mapstructure:"validate_url"`
	ValidateTimeout int      `mapstructure:"validate_timeout"` // seconds
}

// ExtractionConfig holds the cascade heuristics
type ExtractionConfig struct {
	RichnessThreshold  int     `mapstructure:"richness_threshold"`
	CategoryConfidence float64 `mapstructure:"category_confidence"`
	ListConfidence     float64 `mapstructure:"list_confidence"`
	KeywordConfidence  float64 `mapstructure:"keyword_confidence"`
	PageConfidence     float64 `mapstructure:"page_confidence"`
	MaxDepth           int     `mapstructure:"max_depth"`
	ListSearchResults  int     `mapstructure:"list_search_results"`
	ListMinLinks       int     `mapstructure:"list_min_links"`
	KeywordMaxResults  int     `mapstructure:"keyword_max_results"`
	KeywordMaxLinks    int     `mapstructure:"keyword_max_links"`
	Workers            int     `mapstructure:"workers"`
}

// RedisConfig holds Redis connection details for the job queue
type RedisConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Password      string `mapstructure:"password"`
	Database      int    `mapstructure:"database"`
	ConsumerGroup string `mapstructure:"consumer_group"`
	MinIdleTime   int    `mapstructure:"min_idle_time"` // seconds
	ResultTTL     int    `mapstructure:"result_ttl"`    // seconds
}

// Load reads config.yaml (optional) with EXTRACTOR_* environment overrides.
// A nil viper instance gets a fresh one.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("EXTRACTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

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

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.rate_limit_per_ip", 5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("wikipedia.api_url", "https://en.wikipedia.org/w/api.php")
	v.SetDefault("wikipedia.user_agent", "product-extractor/1.0")
	v.SetDefault("wikipedia.timeout", 30)
	v.SetDefault("wikipedia.cooldown", 300)
	v.SetDefault("wikipedia.max_requests_per_second", 20)
	v.SetDefault("wikipedia.max_items", 2000)

	v.SetDefault("retailer.user_agent", "Mozilla/5.0 (compatible; product-extractor/1.0)")
	v.SetDefault("retailer.timeout", 10)
	v.SetDefault("retailer.selectors", []string{".product-title", ".product-name", "h2 a", ".product-card__title", ".s-title"})
	v.SetDefault("retailer.proxy.urls", []string{})
	v.SetDefault("retailer.proxy.validate_url", "")
	v.SetDefault("retailer.proxy.validate_timeout", 5)

	v.SetDefault("extraction.richness_threshold", 10)
	v.SetDefault("extraction.category_confidence", 0.9)
	v.SetDefault("extraction.list_confidence", 0.85)
	v.SetDefault("extraction.keyword_confidence", 0.7)
	v.SetDefault("extraction.page_confidence", 0.6)
	v.SetDefault("extraction.max_depth", 2)
	v.SetDefault("extraction.list_search_results", 5)
	v.SetDefault("extraction.list_min_links", 3)
	v.SetDefault("extraction.keyword_max_results", 10)
	v.SetDefault("extraction.keyword_max_links", 40)
	v.SetDefault("extraction.workers", 4)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.consumer_group", "extractor_consumer")
	v.SetDefault("redis.min_idle_time", 120)
	v.SetDefault("redis.result_ttl", 86400)
}

func validate(config *Config) error {
	if config.Wikipedia.APIURL == "" {
		return fmt.Errorf("wikipedia.api_url is required")
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("log format must be 'text' or 'json', got: %s", config.Log.Format)
	}

	e := config.Extraction
	for name, c := range map[string]float64{
		"category_confidence": e.CategoryConfidence,
		"list_confidence":     e.ListConfidence,
		"keyword_confidence":  e.KeywordConfidence,
		"page_confidence":     e.PageConfidence,
	} {
		if c < 0 || c > 1 {
			return fmt.Errorf("extraction.%s must be within [0,1], got: %v", name, c)
		}
	}

	for name, n := range map[string]int{
		"max_depth":          e.MaxDepth,
		"richness_threshold": e.RichnessThreshold,
		"list_min_links":     e.ListMinLinks,
		"keyword_max_links":  e.KeywordMaxLinks,
	} {
		if n < 0 {
			return fmt.Errorf("extraction.%s must not be negative, got: %d", name, n)
		}
	}

	for name, n := range map[string]int{
		"list_search_results": e.ListSearchResults,
		"keyword_max_results": e.KeywordMaxResults,
	} {
		if n <= 0 {
			return fmt.Errorf("extraction.%s must be positive, got: %d", name, n)
		}
	}

	if config.Redis.Enabled && config.Redis.ConsumerGroup == "" {
		return fmt.Errorf("redis.consumer_group is required when redis is enabled")
	}

	return nil
}
