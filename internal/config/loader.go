package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/vijay-prabhu/studyhub/internal/logger"
	"github.com/vijay-prabhu/studyhub/internal/price"
	"github.com/vijay-prabhu/studyhub/internal/scoring"
	"github.com/vijay-prabhu/studyhub/internal/search"
)

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	// Expand path
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	// Read file
	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run 'studyhub config init' to create)", expandedPath)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data)
}

// Parse decodes TOML on top of the defaults, expands paths and validates
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, falling back to defaults when the file does
// not exist
func LoadOrDefault(path string) (*Config, error) {
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}
	if _, err := os.Stat(expandedPath); errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		if err := cfg.expandPaths(); err != nil {
			return nil, fmt.Errorf("failed to expand paths: %w", err)
		}
		return cfg, nil
	}
	return Load(path)
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// expandPaths expands ~ in all path fields
func (c *Config) expandPaths() error {
	var err error

	c.Database.Path, err = expandPath(c.Database.Path)
	if err != nil {
		return err
	}

	c.Catalog.Path, err = expandPath(c.Catalog.Path)
	if err != nil {
		return err
	}

	return nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}

	// Search validation
	if len(c.Search.Fields) == 0 {
		errs = append(errs, errors.New("search.fields must list at least one field"))
	}
	if c.Search.CategoryField == "" {
		errs = append(errs, errors.New("search.category_field is required"))
	}
	if c.Search.PriceField == "" {
		errs = append(errs, errors.New("search.price_field is required"))
	}
	if c.Search.DefaultLimit < 0 {
		errs = append(errs, errors.New("search.default_limit must not be negative"))
	}

	// Scoring validation
	if len(c.Scoring.PrimaryFields) == 0 {
		errs = append(errs, errors.New("scoring.primary_fields must list at least one field"))
	}
	if c.Scoring.RelatedFactor <= 0 || c.Scoring.RelatedFactor >= 1 {
		errs = append(errs, fmt.Errorf("scoring.related_factor must be between 0 and 1 (exclusive), got %v", c.Scoring.RelatedFactor))
	}
	if c.Scoring.FallbackScale <= 0 {
		errs = append(errs, fmt.Errorf("scoring.fallback_scale must be positive, got %v", c.Scoring.FallbackScale))
	}

	// Bucket validation
	if _, err := price.ParseCurrency(c.Buckets.DefaultCurrency); err != nil {
		errs = append(errs, fmt.Errorf("buckets.default_currency: %w", err))
	}
	if len(c.Buckets.Scales) == 0 {
		errs = append(errs, errors.New("buckets.scales must define at least one currency"))
	}
	for code, scale := range c.Buckets.Scales {
		if _, err := price.ParseCurrency(code); err != nil {
			errs = append(errs, fmt.Errorf("buckets.scales.%s: %w", code, err))
		}
		if err := scale.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("buckets.scales.%s: %w", code, err))
		}
	}

	// Logging validation
	if _, err := logger.New(c.Logging.Env, c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	// HTTP validation
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if c.HTTP.ReadTimeoutSeconds < 1 || c.HTTP.WriteTimeoutSeconds < 1 {
		errs = append(errs, errors.New("http timeouts must be at least 1 second"))
	}

	// MCP validation
	if c.MCP.Transport != "stdio" {
		errs = append(errs, fmt.Errorf("mcp.transport must be 'stdio', got '%s'", c.MCP.Transport))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Bucketer builds the price bucketer described by the buckets section
func (c *Config) Bucketer() (*price.Bucketer, error) {
	def, err := price.ParseCurrency(c.Buckets.DefaultCurrency)
	if err != nil {
		return nil, err
	}

	scales := make(map[price.Currency]price.Scale, len(c.Buckets.Scales))
	for code, scale := range c.Buckets.Scales {
		cur, err := price.ParseCurrency(code)
		if err != nil {
			return nil, err
		}
		scales[cur] = scale
	}

	markers := make([]string, len(c.Buckets.FreeMarkers))
	copy(markers, c.Buckets.FreeMarkers)

	return &price.Bucketer{
		FreeMarkers:     markers,
		FreeLabel:       c.Buckets.FreeLabel,
		UnknownLabel:    c.Buckets.UnknownLabel,
		DefaultCurrency: def,
		Scales:          scales,
	}, nil
}

// ScorerConfig returns the scoring section as a scoring.Config
func (c *Config) ScorerConfig() scoring.Config {
	return scoring.Config{
		PrimaryFields:   c.Scoring.PrimaryFields,
		RelatedFields:   c.Scoring.RelatedFields,
		RelatedFactor:   c.Scoring.RelatedFactor,
		PopularityField: c.Scoring.PopularityField,
		FallbackScale:   c.Scoring.FallbackScale,
	}
}

// SearchOptions assembles the engine options from the search, scoring and
// buckets sections
func (c *Config) SearchOptions() (search.Options, error) {
	b, err := c.Bucketer()
	if err != nil {
		return search.Options{}, err
	}
	return search.Options{
		SearchFields:  c.Search.Fields,
		CategoryField: c.Search.CategoryField,
		PriceField:    c.Search.PriceField,
		WholeWord:     c.Search.WholeWord,
		DefaultLimit:  c.Search.DefaultLimit,
		Scoring:       c.ScorerConfig(),
		Bucketer:      b,
	}, nil
}

// EnsureDirectories creates necessary directories for the database
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Database.Path),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
