package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "HOUSINGSCOUT_CONFIG"
	databaseDSNEnv   = "DATABASE_DSN"
	searchBaseEnv    = "SEARCH_BASE_URL"
	userAgentEnv     = "SCRAPER_USER_AGENT"
	dnsResolverEnv   = "DNS_RESOLVER_ADDR"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Search   SearchConfig   `yaml:"search"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Probe    ProbeConfig    `yaml:"probe"`
	Budget   BudgetConfig   `yaml:"budget"`
}

// DatabaseConfig describes Postgres connection details.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SearchConfig describes the search provider endpoint and pacing.
type SearchConfig struct {
	BaseURL          string `yaml:"baseUrl"`
	QueryDelayMillis int    `yaml:"queryDelayMillis"`
}

// QueryDelay is the mandatory gap between consecutive search queries.
func (s SearchConfig) QueryDelay() time.Duration {
	return time.Duration(s.QueryDelayMillis) * time.Millisecond
}

// FetchConfig describes how target-site pages are requested.
type FetchConfig struct {
	UserAgent      string `yaml:"userAgent"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	MaxRedirects   int    `yaml:"maxRedirects"`
}

// Timeout bounds a single page fetch, distinct from the page budget.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// ProbeConfig describes existence probing of subdomains and paths.
type ProbeConfig struct {
	TimeoutSeconds   int    `yaml:"timeoutSeconds"`
	BatchSize        int    `yaml:"batchSize"`
	BatchDelayMillis int    `yaml:"batchDelayMillis"`
	DNSResolverAddr  string `yaml:"dnsResolverAddr"`
}

// Timeout bounds a single HEAD probe.
func (p ProbeConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// BatchDelay is the mandatory gap between probe batches.
func (p ProbeConfig) BatchDelay() time.Duration {
	return time.Duration(p.BatchDelayMillis) * time.Millisecond
}

// BudgetConfig carries the two wall-clock budgets gating a run.
type BudgetConfig struct {
	RunSeconds  int `yaml:"runSeconds"`
	PageSeconds int `yaml:"pageSeconds"`
}

// Run is the global budget across all page extractions.
func (b BudgetConfig) Run() time.Duration {
	return time.Duration(b.RunSeconds) * time.Second
}

// Page bounds a single page's extraction, secondary pages included.
func (b BudgetConfig) Page() time.Duration {
	return time.Duration(b.PageSeconds) * time.Second
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(searchBaseEnv); v != "" {
		c.Search.BaseURL = v
	}
	if v := os.Getenv(userAgentEnv); v != "" {
		c.Fetch.UserAgent = v
	}
	if v := os.Getenv(dnsResolverEnv); v != "" {
		c.Probe.DNSResolverAddr = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Database.DSN != "" {
		base.Database = override.Database
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Search.BaseURL != "" {
		base.Search.BaseURL = override.Search.BaseURL
	}
	if override.Search.QueryDelayMillis > 0 {
		base.Search.QueryDelayMillis = override.Search.QueryDelayMillis
	}

	if override.Fetch.UserAgent != "" {
		base.Fetch.UserAgent = override.Fetch.UserAgent
	}
	if override.Fetch.TimeoutSeconds > 0 {
		base.Fetch.TimeoutSeconds = override.Fetch.TimeoutSeconds
	}
	if override.Fetch.MaxRedirects > 0 {
		base.Fetch.MaxRedirects = override.Fetch.MaxRedirects
	}

	if override.Probe.TimeoutSeconds > 0 {
		base.Probe.TimeoutSeconds = override.Probe.TimeoutSeconds
	}
	if override.Probe.BatchSize > 0 {
		base.Probe.BatchSize = override.Probe.BatchSize
	}
	if override.Probe.BatchDelayMillis > 0 {
		base.Probe.BatchDelayMillis = override.Probe.BatchDelayMillis
	}
	if override.Probe.DNSResolverAddr != "" {
		base.Probe.DNSResolverAddr = override.Probe.DNSResolverAddr
	}

	if override.Budget.RunSeconds > 0 {
		base.Budget.RunSeconds = override.Budget.RunSeconds
	}
	if override.Budget.PageSeconds > 0 {
		base.Budget.PageSeconds = override.Budget.PageSeconds
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Database: DatabaseConfig{DSN: ""},
		Logging:  LoggingConfig{Level: "info"},
		Search: SearchConfig{
			BaseURL:          "https://html.duckduckgo.com/html/",
			QueryDelayMillis: 1500,
		},
		Fetch: FetchConfig{
			UserAgent:      defaultUserAgent,
			TimeoutSeconds: 30,
			MaxRedirects:   3,
		},
		Probe: ProbeConfig{
			TimeoutSeconds:   6,
			BatchSize:        5,
			BatchDelayMillis: 1000,
			DNSResolverAddr:  "8.8.8.8:53",
		},
		Budget: BudgetConfig{
			RunSeconds:  600,
			PageSeconds: 120,
		},
	}
}
