package config

import (
	"time"

	"github.com/vijay-prabhu/studyhub/internal/price"
)

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Search   SearchConfig   `toml:"search"`
	Scoring  ScoringConfig  `toml:"scoring"`
	Buckets  BucketConfig   `toml:"buckets"`
	Logging  LoggingConfig  `toml:"logging"`
	HTTP     HTTPConfig     `toml:"http"`
	MCP      MCPConfig      `toml:"mcp"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// CatalogConfig points at a catalog file. When set, serve and mcp load it
// into the database on startup.
type CatalogConfig struct {
	Path string `toml:"path"`
}

// SearchConfig contains facet settings
type SearchConfig struct {
	Fields        []string `toml:"fields"`
	CategoryField string   `toml:"category_field"`
	PriceField    string   `toml:"price_field"`
	WholeWord     bool     `toml:"whole_word"`
	DefaultLimit  int      `toml:"default_limit"`
}

// ScoringConfig contains profile scoring settings
type ScoringConfig struct {
	PrimaryFields   []string `toml:"primary_fields"`
	RelatedFields   []string `toml:"related_fields"`
	RelatedFactor   float64  `toml:"related_factor"`
	PopularityField string   `toml:"popularity_field"`
	FallbackScale   float64  `toml:"fallback_scale"`
}

// BucketConfig contains price bucket settings. Scales are keyed by
// currency code.
type BucketConfig struct {
	FreeMarkers     []string               `toml:"free_markers"`
	FreeLabel       string                 `toml:"free_label"`
	UnknownLabel    string                 `toml:"unknown_label"`
	DefaultCurrency string                 `toml:"default_currency"`
	Scales          map[string]price.Scale `toml:"scales"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Env   string `toml:"env"`
	Level string `toml:"level"`
}

// HTTPConfig contains HTTP API server settings
type HTTPConfig struct {
	Addr                   string `toml:"addr"`
	ReadTimeoutSeconds     int    `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int    `toml:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int    `toml:"shutdown_timeout_seconds"`
}

// ReadTimeout returns the read timeout as a duration
func (h HTTPConfig) ReadTimeout() time.Duration {
	return time.Duration(h.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the write timeout as a duration
func (h HTTPConfig) WriteTimeout() time.Duration {
	return time.Duration(h.WriteTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown budget as a duration
func (h HTTPConfig) ShutdownTimeout() time.Duration {
	return time.Duration(h.ShutdownTimeoutSeconds) * time.Second
}

// MCPConfig contains MCP server settings
type MCPConfig struct {
	Enabled   bool   `toml:"enabled"`
	Transport string `toml:"transport"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "~/.local/share/studyhub/studyhub.db",
		},
		Search: SearchConfig{
			Fields:        []string{"name", "city", "description", "tags"},
			CategoryField: "category",
			PriceField:    "price",
			DefaultLimit:  0,
		},
		Scoring: ScoringConfig{
			PrimaryFields:   []string{"tags", "category"},
			RelatedFields:   []string{"name", "description"},
			RelatedFactor:   0.5,
			PopularityField: "popularity",
			FallbackScale:   0.01,
		},
		Buckets: BucketConfig{
			FreeMarkers: []string{
				"грант",
				"бесплатно",
				"тегін",
				"free",
				"grant",
			},
			FreeLabel:       price.DefaultFreeLabel,
			UnknownLabel:    price.DefaultUnknownLabel,
			DefaultCurrency: string(price.KZT),
			Scales: map[string]price.Scale{
				string(price.KZT): {
					Thresholds: []price.Threshold{
						{Label: "low", Max: 1_000_000},
						{Label: "medium", Max: 3_000_000},
					},
					Overflow: "high",
				},
				string(price.USD): {
					Thresholds: []price.Threshold{
						{Label: "low", Max: 5_000},
						{Label: "medium", Max: 20_000},
					},
					Overflow: "high",
				},
			},
		},
		Logging: LoggingConfig{
			Env:   "local",
			Level: "warn",
		},
		HTTP: HTTPConfig{
			Addr:                   "127.0.0.1:8420",
			ReadTimeoutSeconds:     10,
			WriteTimeoutSeconds:    10,
			ShutdownTimeoutSeconds: 5,
		},
		MCP: MCPConfig{
			Enabled:   true,
			Transport: "stdio",
		},
	}
}
