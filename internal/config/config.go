package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Color modes for terminal output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds application configuration.
type Config struct {
	// BaseURL is the PokeAPI root, without a trailing slash.
	BaseURL string `json:"base_url,omitempty" env:"POKEMENU_BASE_URL"`

	// HTTPTimeoutSeconds bounds each API request. 0 means no timeout.
	HTTPTimeoutSeconds int `json:"http_timeout_seconds,omitempty" env:"POKEMENU_HTTP_TIMEOUT_SECONDS"`

	// RandomMax is the largest ID the "random" menu option can draw (inclusive).
	RandomMax int `json:"random_max,omitempty" env:"POKEMENU_RANDOM_MAX"`

	// ImageWidth is the character-art width in columns.
	// 0 means half the terminal width.
	ImageWidth int `json:"image_width,omitempty" env:"POKEMENU_IMAGE_WIDTH"`

	// BannerFont is the figlet font used for the name banner.
	BannerFont string `json:"banner_font,omitempty" env:"POKEMENU_BANNER_FONT"`

	// Color is one of auto, always, never.
	// auto disables color when stdout is not a terminal.
	Color string `json:"color,omitempty" env:"POKEMENU_COLOR"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty" env:"POKEMENU_DISABLED_TOOLS" envSeparator:","`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://pokeapi.co/api/v2",
		RandomMax:  248,
		BannerFont: "starwars",
		Color:      ColorAuto,
	}
}

// HTTPTimeout returns the request timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Validate checks values that cannot be defaulted away.
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always or never)", c.Color)
	}
	if c.RandomMax < 1 {
		return fmt.Errorf("random_max must be at least 1, got %d", c.RandomMax)
	}
	if c.HTTPTimeoutSeconds < 0 {
		return fmt.Errorf("http_timeout_seconds must be non-negative, got %d", c.HTTPTimeoutSeconds)
	}
	return nil
}

// Load loads configuration from baseDir/config.json, then applies POKEMENU_*
// environment overrides from the process environment.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.pokemenu.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	overlay, err := LoadEnv(nil)
	if err != nil {
		return nil, err
	}
	return Merge(cfg, overlay), nil
}

// LoadEnv parses POKEMENU_* variables into a zero-valued config suitable as
// a Merge overlay. A nil environ reads the process environment.
func LoadEnv(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.Parse(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.BaseURL = strings.TrimRight(firstNonEmpty(overlay.BaseURL, base.BaseURL), "/")
	result.BannerFont = firstNonEmpty(overlay.BannerFont, base.BannerFont)
	result.Color = firstNonEmpty(strings.ToLower(overlay.Color), base.Color)

	result.HTTPTimeoutSeconds = overlay.HTTPTimeoutSeconds
	if result.HTTPTimeoutSeconds == 0 {
		result.HTTPTimeoutSeconds = base.HTTPTimeoutSeconds
	}

	result.RandomMax = overlay.RandomMax
	if result.RandomMax == 0 {
		result.RandomMax = base.RandomMax
	}

	result.ImageWidth = overlay.ImageWidth
	if result.ImageWidth == 0 {
		result.ImageWidth = base.ImageWidth
	}

	// Arrays: merge and deduplicate
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return strings.TrimSpace(a)
	}
	return b
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
