package model

import "time"

// Config holds the full runtime configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Cache       CacheConfig       `yaml:"cache"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Extraction  ExtractionConfig  `yaml:"extraction"`
	LLM         LLMConfig         `yaml:"llm"`
	Output      OutputConfig      `yaml:"output"`
}

// HTTPConfig controls the registry fetcher
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy"`
}

// CacheConfig controls the layered fetch cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// RateLimitConfig controls per-domain request pacing
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers"`
}

// ExtractionConfig controls section and promise extraction bounds
type ExtractionConfig struct {
	MinSectionChars int `yaml:"min_section_chars"`
	MaxPromises     int `yaml:"max_promises"`
}

// LLMConfig controls the optional narrative summarizer
type LLMConfig struct {
	Provider  string `yaml:"provider"` // "openai" or "" (disabled)
	Model     string `yaml:"model"`
	APIKey    string `yaml:"-"`
	BaseURL   string `yaml:"base_url"`
	Timeout   int    `yaml:"timeout_seconds"`
	MaxTokens int    `yaml:"max_tokens"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      2 * time.Minute,
			UserAgent:    "attest/0.1 (+https://github.com/okazarov/attest)",
			MaxBodyBytes: 25_000_000, // annual filings run large
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "", // resolved to ~/.attest/cache at startup
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 4,
		},
		Extraction: ExtractionConfig{
			MinSectionChars: 500,
			MaxPromises:     200,
		},
		LLM: LLMConfig{
			Provider:  "",
			Timeout:   30,
			MaxTokens: 1000,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
