package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/transitmap/mapscreen/internal/lib/itinerary"
	"github.com/transitmap/mapscreen/internal/lib/selection"
)

// EnvPrefix is the prefix of environment overrides, e.g.
// MAPSCREEN__DEBOUNCE__DELAY=500ms sets debounce.delay
const EnvPrefix = "MAPSCREEN__"

// Config represents the complete map screen configuration
type Config struct {
	Debounce  DebounceConfig  `yaml:"debounce"`
	Viewport  ViewportConfig  `yaml:"viewport"`
	Itinerary ItineraryConfig `yaml:"itinerary"`
	Cache     CacheConfig     `yaml:"cache"`
}

// DebounceConfig holds payload debounce settings
type DebounceConfig struct {
	Delay time.Duration `yaml:"delay"`
}

// ViewportConfig holds camera framing settings
type ViewportConfig struct {
	Padding       float64            `yaml:"padding"`
	DefaultRegion selection.Viewport `yaml:"default_region"`
}

// ItineraryConfig holds itinerary rendering settings
type ItineraryConfig struct {
	FallbackColor     string `yaml:"fallback_color"`
	DirectionsBaseURL string `yaml:"directions_base_url"`
}

// CacheConfig holds settings for the built itinerary cache
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Debounce: DebounceConfig{
			Delay: 300 * time.Millisecond,
		},
		Viewport: ViewportConfig{
			Padding:       selection.DefaultPadding,
			DefaultRegion: selection.DefaultRegion,
		},
		Itinerary: ItineraryConfig{
			FallbackColor:     itinerary.DefaultColor,
			DirectionsBaseURL: itinerary.DirectionsBaseURL,
		},
		Cache: CacheConfig{
			TTL: 10 * time.Minute,
		},
	}
}

// defaults flattens DefaultConfig into koanf keys
func defaults() map[string]interface{} {
	d := DefaultConfig()
	return map[string]interface{}{
		"debounce.delay":                          d.Debounce.Delay,
		"viewport.padding":                        d.Viewport.Padding,
		"viewport.default_region.latitude":        d.Viewport.DefaultRegion.CenterLatitude,
		"viewport.default_region.longitude":       d.Viewport.DefaultRegion.CenterLongitude,
		"viewport.default_region.latitude_delta":  d.Viewport.DefaultRegion.LatitudeSpan,
		"viewport.default_region.longitude_delta": d.Viewport.DefaultRegion.LongitudeSpan,
		"itinerary.fallback_color":                d.Itinerary.FallbackColor,
		"itinerary.directions_base_url":           d.Itinerary.DirectionsBaseURL,
		"cache.ttl":                               d.Cache.TTL,
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// MAPSCREEN__ environment variables, in increasing order of precedence.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps MAPSCREEN__VIEWPORT__DEFAULT_REGION__LATITUDE to
// viewport.default_region.latitude
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	var errs []string

	if c.Debounce.Delay < 0 {
		errs = append(errs, "debounce.delay must not be negative")
	}
	if c.Viewport.Padding < 0 {
		errs = append(errs, "viewport.padding must not be negative")
	}
	if c.Viewport.DefaultRegion.LatitudeSpan <= 0 || c.Viewport.DefaultRegion.LongitudeSpan <= 0 {
		errs = append(errs, "viewport.default_region spans must be positive")
	}
	if c.Itinerary.FallbackColor == "" {
		errs = append(errs, "itinerary.fallback_color is required")
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, "cache.ttl must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
