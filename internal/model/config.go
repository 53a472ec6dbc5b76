package model

import "time"

// Config is the complete tool configuration, loadable from
// ~/.contentaudit/config.yaml and overridable via CONTENTAUDIT_* env vars.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" json:"http"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Facts       FactsConfig       `yaml:"facts" json:"facts"`
	LLM         LLMConfig         `yaml:"llm" json:"llm"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// HTTPConfig controls page fetching.
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" json:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" json:"http_proxy,omitempty"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" json:"https_proxy,omitempty"`
	NoProxy       string        `yaml:"no_proxy,omitempty" json:"no_proxy,omitempty"`
}

// ConcurrencyConfig bounds parallel work.
type ConcurrencyConfig struct {
	BatchWorkers       int     `yaml:"batch_workers" json:"batch_workers"`             // Concurrent URL audits
	VerificationWindow int     `yaml:"verification_window" json:"verification_window"` // Claims verified per window
	RequestsPerSecond  float64 `yaml:"requests_per_second" json:"requests_per_second"` // Per-domain fetch rate
	Burst              int     `yaml:"burst" json:"burst"`
}

// CacheConfig controls the fact-validation cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	Dir       string        `yaml:"dir" json:"dir"` // Disk layer location; empty = memory only
	MemoryTTL time.Duration `yaml:"memory_ttl" json:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" json:"disk_ttl"`
}

// FactsConfig controls claim extraction and verification.
type FactsConfig struct {
	Enabled        bool `yaml:"enabled" json:"enabled"`                 // Extract and verify claims at all
	StalenessYears int  `yaml:"staleness_years" json:"staleness_years"` // Statistic age before "outdated"
	MaxClaims      int  `yaml:"max_claims" json:"max_claims"`           // 0 = unlimited
}

// LLMConfig selects the claim verifier backend.
type LLMConfig struct {
	Provider  string `yaml:"provider" json:"provider"` // "openai", "anthropic", "ollama", "" (noop)
	Model     string `yaml:"model" json:"model"`
	APIKey    string `yaml:"api_key,omitempty" json:"-"`
	BaseURL   string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Timeout   int    `yaml:"timeout" json:"timeout"` // Seconds
	MaxTokens int    `yaml:"max_tokens" json:"max_tokens"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format string `yaml:"format" json:"format"` // "text", "json", "yaml"
	Pretty bool   `yaml:"pretty" json:"pretty"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       15 * time.Second,
			UserAgent:     "contentaudit/0.1 (+https://github.com/avetrov/contentaudit)",
			MaxBodyBytes:  5 * 1024 * 1024,
			RespectRobots: true,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers:       4,
			VerificationWindow: 3,
			RequestsPerSecond:  2,
			Burst:              5,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   24 * time.Hour,
		},
		Facts: FactsConfig{
			Enabled:        true,
			StalenessYears: 2,
			MaxClaims:      50,
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "gpt-4o-mini",
			Timeout:   30,
			MaxTokens: 600,
		},
		Output: OutputConfig{
			Format: "text",
			Pretty: true,
		},
	}
}
