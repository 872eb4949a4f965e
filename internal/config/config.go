// Package config loads and validates crawler configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Crawler CrawlerConfig `mapstructure:"crawler"`
	Server  ServerConfig  `mapstructure:"server"`
	Enrich  EnrichConfig  `mapstructure:"enrich"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CrawlerConfig governs the crawl pipeline: seeds, admission policy, worker
// pool size, extraction fallbacks, and the persisted collection path.
type CrawlerConfig struct {
	Seeds                 []string `mapstructure:"seeds"`
	AllowedDomains        []string `mapstructure:"allowed_domains"`
	MaxPages              int      `mapstructure:"max_pages"`
	Concurrency           int      `mapstructure:"concurrency"`
	UserAgent             string   `mapstructure:"user_agent"`
	RequestTimeoutSeconds int      `mapstructure:"request_timeout_seconds"`
	RateLimitPerDomain    int      `mapstructure:"rate_limit_per_domain"`
	MaxURLLength          int      `mapstructure:"max_url_length"`
	ExcludeKeywords       []string `mapstructure:"exclude_keywords"`
	OutputFile            string   `mapstructure:"output_file"`
	ArticleLinkCap        int      `mapstructure:"article_link_cap"`
	OtherLinkCap          int      `mapstructure:"other_link_cap"`
	LocalDomains          []string `mapstructure:"local_domains"`
	LocalDefaultImage     string   `mapstructure:"local_default_image"`
	GlobalDefaultImage    string   `mapstructure:"global_default_image"`
	MaxDescriptionLength  int      `mapstructure:"max_description_length"`
}

// ServerConfig controls the status HTTP server; port 0 disables it.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// EnrichConfig controls translation retry behavior and credentials.
type EnrichConfig struct {
	MaxRetries       int    `mapstructure:"max_retries"`
	BackoffInitialMs int    `mapstructure:"backoff_initial_ms"`
	BackoffMaxMs     int    `mapstructure:"backoff_max_ms"`
	CredentialsFile  string `mapstructure:"credentials_file"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("NIROBO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("crawler.seeds", []string{
		"https://www.thedailystar.net/",
		"https://www.prothomalo.com/",
		"https://www.dhakatribune.com/",
		"https://www.bdnews24.com/",
		"https://www.bbc.com/",
		"https://www.nytimes.com/",
		"https://www.aljazeera.com/",
		"https://www.reuters.com/",
		"https://www.un.org/",
		"https://www.who.int/",
	})
	v.SetDefault("crawler.allowed_domains", []string{
		"thedailystar.net",
		"prothomalo.com",
		"dhakatribune.com",
		"bdnews24.com",
		"bbc.com",
		"nytimes.com",
		"aljazeera.com",
		"reuters.com",
		"un.org",
		"who.int",
	})
	v.SetDefault("crawler.max_pages", 150)
	v.SetDefault("crawler.concurrency", 4)
	v.SetDefault("crawler.user_agent", "nirobo-bot/0.1")
	v.SetDefault("crawler.request_timeout_seconds", 15)
	v.SetDefault("crawler.rate_limit_per_domain", 2)
	v.SetDefault("crawler.max_url_length", 300)
	v.SetDefault("crawler.exclude_keywords", []string{
		"#", "javascript:", "mailto:", "tel:",
		"/login", "/signin", "/subscribe", "/newsletter",
		"/privacy", "/terms", "/cookie", "/account",
	})
	v.SetDefault("crawler.output_file", "result.json")
	v.SetDefault("crawler.article_link_cap", 20)
	v.SetDefault("crawler.other_link_cap", 10)
	v.SetDefault("crawler.local_domains", []string{
		"thedailystar.net", "prothomalo.com", "dhakatribune.com", "bdnews24.com",
	})
	v.SetDefault("crawler.local_default_image", "https://i.imgur.com/ObR8yvE.jpeg")
	v.SetDefault("crawler.global_default_image", "https://i.imgur.com/ObR8yvE.jpeg")
	v.SetDefault("crawler.max_description_length", 0)
	v.SetDefault("server.port", 0)
	v.SetDefault("enrich.max_retries", 3)
	v.SetDefault("enrich.backoff_initial_ms", 500)
	v.SetDefault("enrich.backoff_max_ms", 8000)
	v.SetDefault("enrich.credentials_file", "google-credentials.json")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if len(c.Crawler.Seeds) == 0 {
		return fmt.Errorf("crawler.seeds must include at least one URL")
	}
	if len(c.Crawler.AllowedDomains) == 0 {
		return fmt.Errorf("crawler.allowed_domains must not be empty")
	}
	if c.Crawler.MaxPages <= 0 {
		return fmt.Errorf("crawler.max_pages must be > 0")
	}
	if c.Crawler.Concurrency <= 0 {
		return fmt.Errorf("crawler.concurrency must be > 0")
	}
	if c.Crawler.UserAgent == "" {
		return fmt.Errorf("crawler.user_agent must be set")
	}
	if c.Crawler.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("crawler.request_timeout_seconds must be > 0")
	}
	if c.Crawler.RateLimitPerDomain <= 0 {
		return fmt.Errorf("crawler.rate_limit_per_domain must be > 0")
	}
	if c.Crawler.MaxURLLength <= 0 {
		return fmt.Errorf("crawler.max_url_length must be > 0")
	}
	if c.Crawler.OutputFile == "" {
		return fmt.Errorf("crawler.output_file must be set")
	}
	if c.Enrich.MaxRetries <= 0 {
		return fmt.Errorf("enrich.max_retries must be > 0")
	}
	if c.Enrich.BackoffInitialMs <= 0 || c.Enrich.BackoffMaxMs < c.Enrich.BackoffInitialMs {
		return fmt.Errorf("enrich backoff window is invalid")
	}
	if c.Server.Port < 0 {
		return fmt.Errorf("server.port must be >= 0")
	}
	return nil
}

// RequestTimeout converts the configured fetch timeout into a Duration.
func (c CrawlerConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// BackoffInitial returns the first retry delay for enrichment calls.
func (c EnrichConfig) BackoffInitial() time.Duration {
	return time.Duration(c.BackoffInitialMs) * time.Millisecond
}

// BackoffMax returns the retry delay ceiling for enrichment calls.
func (c EnrichConfig) BackoffMax() time.Duration {
	return time.Duration(c.BackoffMaxMs) * time.Millisecond
}
