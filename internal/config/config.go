// Package config provides configuration loading and validation for the CLI.
//
// The run is driven by one explicit immutable Config passed into each
// component at construction; no package reads environment variables after
// the Config is built.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults applied by MergeWithDefaults when a field is unset.
const (
	DefaultAPIVersion      = "2025-01"
	DefaultLocationID      = "gid://shopify/Location/97195786556"
	DefaultPriceSelector   = ".many__price .price__value"
	DefaultProbeBatchSize  = 3
	DefaultNavTimeout      = 60 * time.Second
	DefaultPollInterval    = 6 * time.Second
	DefaultMaxPollAttempts = 300

	// DefaultDeltaExclusionMarker is the supplier-name fragment that
	// triggers the fixed delta offset.
	DefaultDeltaExclusionMarker = "Щу"
)

// Default strategy-tier membership by supplier shortname. Suppliers in
// neither list price on the middle tier.
var (
	DefaultAggressiveSuppliers = []string{"ЧЕ", "Б", "РИ", "BudgetDistributor"}
	DefaultPremiumSuppliers    = []string{"ИИ"}
)

// Config represents the run configuration that can be loaded from a JSON file.
// All fields are optional in the file; missing values use defaults or env
// fallbacks applied by the CLI layer.
type Config struct {
	// Catalog platform
	StoreURL    string `json:"store_url,omitempty" validate:"omitempty,url"`
	AccessToken string `json:"access_token,omitempty"`
	APIVersion  string `json:"api_version,omitempty"`
	LocationID  string `json:"location_id,omitempty"`

	// Competitor probing
	PriceSelector  string        `json:"price_selector,omitempty"`
	ProbeBatchSize int           `json:"probe_batch_size,omitempty" validate:"omitempty,min=1"`
	NavTimeout     time.Duration `json:"-"`
	NavTimeoutSecs int           `json:"nav_timeout_secs,omitempty" validate:"omitempty,min=1"`
	DisableProbing bool          `json:"disable_probing,omitempty"`

	// Pricing strategy membership: which supplier identities belong to the
	// aggressive and premium tiers. Suppliers in neither list use the middle
	// tier. Membership is a fixed table for the run, never inferred.
	AggressiveSuppliers []string `json:"aggressive_suppliers,omitempty"`
	PremiumSuppliers    []string `json:"premium_suppliers,omitempty"`

	// Delta adjustment: suppliers whose name contains the marker get the
	// fixed offset subtracted before amplification.
	DeltaExclusionMarker string `json:"delta_exclusion_marker,omitempty"`

	// Supplier feeds
	Sources []SourceConfig `json:"sources,omitempty" validate:"omitempty,dive"`

	// Bulk job polling
	PollInterval     time.Duration `json:"-"`
	PollIntervalSecs int           `json:"poll_interval_secs,omitempty" validate:"omitempty,min=1"`
	MaxPollAttempts  int           `json:"max_poll_attempts,omitempty" validate:"omitempty,min=1"`

	// Behavior
	Verbose bool `json:"verbose,omitempty"`
}

// SourceConfig declares one supplier feed: a JSON offers file with its
// identity, normalization factor, and data-quality floor.
type SourceConfig struct {
	Name                string  `json:"name" validate:"required"`
	Path                string  `json:"path" validate:"required"`
	NormalizationFactor float64 `json:"normalization_factor,omitempty" validate:"omitempty,gt=0"`
	MinCount            int     `json:"min_count,omitempty" validate:"omitempty,min=1"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	cfg.applyDurations()
	return &cfg, nil
}

// applyDurations converts the JSON second counts into time.Durations.
func (c *Config) applyDurations() {
	if c.NavTimeoutSecs > 0 {
		c.NavTimeout = time.Duration(c.NavTimeoutSecs) * time.Second
	}
	if c.PollIntervalSecs > 0 {
		c.PollInterval = time.Duration(c.PollIntervalSecs) * time.Second
	}
}

// Validate checks that the configuration has valid values.
// Required-field checks happen in the CLI layer after merging, so this only
// rejects values that can never be right.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	// Two feeds under one identity would double-count offers.
	seen := make(map[string]bool, len(c.Sources))
	for _, src := range c.Sources {
		if seen[src.Name] {
			return fmt.Errorf("config error: duplicate supplier source %q", src.Name)
		}
		seen[src.Name] = true
	}

	// A supplier cannot belong to two tiers.
	premium := make(map[string]bool, len(c.PremiumSuppliers))
	for _, name := range c.PremiumSuppliers {
		premium[name] = true
	}
	for _, name := range c.AggressiveSuppliers {
		if premium[name] {
			return fmt.Errorf("config error: supplier %q assigned to both aggressive and premium tiers", name)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from
// defaults. CLI flags are applied before this, so explicit values always win.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.StoreURL == "" {
		result.StoreURL = defaults.StoreURL
	}
	if result.AccessToken == "" {
		result.AccessToken = defaults.AccessToken
	}
	if result.APIVersion == "" {
		result.APIVersion = defaults.APIVersion
	}
	if result.LocationID == "" {
		result.LocationID = defaults.LocationID
	}
	if result.PriceSelector == "" {
		result.PriceSelector = defaults.PriceSelector
	}
	if result.DeltaExclusionMarker == "" {
		result.DeltaExclusionMarker = defaults.DeltaExclusionMarker
	}
	if result.ProbeBatchSize == 0 {
		result.ProbeBatchSize = defaults.ProbeBatchSize
	}
	if result.NavTimeout == 0 {
		result.NavTimeout = defaults.NavTimeout
	}
	if result.PollInterval == 0 {
		result.PollInterval = defaults.PollInterval
	}
	if result.MaxPollAttempts == 0 {
		result.MaxPollAttempts = defaults.MaxPollAttempts
	}
	if result.AggressiveSuppliers == nil {
		result.AggressiveSuppliers = defaults.AggressiveSuppliers
	}
	if result.PremiumSuppliers == nil {
		result.PremiumSuppliers = defaults.PremiumSuppliers
	}
	if result.Sources == nil {
		result.Sources = defaults.Sources
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Defaults returns the built-in defaults for everything except credentials.
func Defaults() Config {
	return Config{
		APIVersion:           DefaultAPIVersion,
		LocationID:           DefaultLocationID,
		PriceSelector:        DefaultPriceSelector,
		ProbeBatchSize:       DefaultProbeBatchSize,
		NavTimeout:           DefaultNavTimeout,
		PollInterval:         DefaultPollInterval,
		MaxPollAttempts:      DefaultMaxPollAttempts,
		DeltaExclusionMarker: DefaultDeltaExclusionMarker,
		AggressiveSuppliers:  append([]string(nil), DefaultAggressiveSuppliers...),
		PremiumSuppliers:     append([]string(nil), DefaultPremiumSuppliers...),
	}
}
