// Package config loads settings for the world engine hosts.
//
// Precedence, lowest first: built-in defaults, YAML file, environment
// (optionally seeded from a .env file), command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvConfigPath      = "UTOPIA_CONFIG"
	EnvLandmarkKey     = "UTOPIA_LANDMARK_KEY"
	EnvServerAddr      = "UTOPIA_SERVER_ADDR"
	EnvMaxRegionWidth  = "UTOPIA_MAX_REGION_WIDTH"
	EnvMaxRegionHeight = "UTOPIA_MAX_REGION_HEIGHT"
	EnvMaxSearchRadius = "UTOPIA_MAX_SEARCH_RADIUS"
	EnvTheme           = "UTOPIA_THEME"
	EnvTelemetry       = "UTOPIA_TELEMETRY"
	EnvHoneycombKey    = "HONEYCOMB_UTOPIA_API_KEY"
	EnvHoneycombSet    = "HONEYCOMB_UTOPIA_DATASET"
)

var (
	// ErrInvalidExtent is returned for a non-positive step or region limit.
	ErrInvalidExtent = errors.New("config: extent must be positive")
	// ErrInvalidRadius is returned for a negative search radius limit.
	ErrInvalidRadius = errors.New("config: search radius must not be negative")
	// ErrInvalidCoordinate is returned for a start position outside the int32 plane.
	ErrInvalidCoordinate = errors.New("config: coordinate out of range")
)

// Config is the root configuration.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Explorer  ExplorerConfig  `yaml:"explorer"`
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// WorldConfig selects which world is generated.
type WorldConfig struct {
	LandmarkKey string `yaml:"landmark_key"`
}

// ExplorerConfig tunes the terminal explorer.
type ExplorerConfig struct {
	StartX      int    `yaml:"start_x"`
	StartY      int    `yaml:"start_y"`
	PanStep     int    `yaml:"pan_step"`
	FastPanStep int    `yaml:"fast_pan_step"`
	Theme       string `yaml:"theme"` // theme id; empty selects the default
}

// ServerConfig tunes the HTTP binding. The limits clamp what one request may ask for.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	MaxRegionWidth  int    `yaml:"max_region_width"`
	MaxRegionHeight int    `yaml:"max_region_height"`
	MaxSearchRadius int    `yaml:"max_search_radius"`
}

// TelemetryConfig controls OpenTelemetry export.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
	Dataset     string `yaml:"dataset"`
	APIKey      string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		World: WorldConfig{LandmarkKey: "ascicat"},
		Explorer: ExplorerConfig{
			PanStep:     1,
			FastPanStep: 10,
		},
		Server: ServerConfig{
			Addr:            ":8088",
			MaxRegionWidth:  500,
			MaxRegionHeight: 300,
			MaxSearchRadius: 1000,
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "endlessutopia",
			Dataset:     "endlessutopia",
		},
	}
}

// Load reads a YAML file over the defaults. An empty path falls back to
// UTOPIA_CONFIG; if that is unset too, the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfigPath)
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDotEnv copies variables from .env files into the process environment.
// Variables that are already set win. A missing file is reported but harmless.
func LoadDotEnv(files ...string) error {
	return godotenv.Load(files...)
}

// ApplyEnv overrides fields from environment variables found by lookup
// (usually os.LookupEnv).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLandmarkKey); ok {
		c.World.LandmarkKey = v
	}
	if v, ok := lookup(EnvTheme); ok {
		c.Explorer.Theme = v
	}
	if v, ok := lookup(EnvServerAddr); ok {
		c.Server.Addr = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{EnvMaxRegionWidth, &c.Server.MaxRegionWidth},
		{EnvMaxRegionHeight, &c.Server.MaxRegionHeight},
		{EnvMaxSearchRadius, &c.Server.MaxSearchRadius},
	}
	for _, f := range ints {
		v, ok := lookup(f.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", f.key, v, err)
		}
		*f.dst = n
	}

	if v, ok := lookup(EnvTelemetry); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", EnvTelemetry, v, err)
		}
		c.Telemetry.Enabled = enabled
	}
	if v, ok := lookup(EnvHoneycombKey); ok {
		c.Telemetry.APIKey = v
	}
	if v, ok := lookup(EnvHoneycombSet); ok && v != "" {
		c.Telemetry.Dataset = v
	}
	return nil
}

// Bind attaches the configuration to fs. Flags parsed afterwards override
// whatever was loaded before.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.World.LandmarkKey, "landmark-key", c.World.LandmarkKey, "byte string hashed to place the landmark")
	fs.IntVar(&c.Explorer.StartX, "start-x", c.Explorer.StartX, "explorer start x")
	fs.IntVar(&c.Explorer.StartY, "start-y", c.Explorer.StartY, "explorer start y")
	fs.IntVar(&c.Explorer.PanStep, "pan-step", c.Explorer.PanStep, "explorer pan step")
	fs.IntVar(&c.Explorer.FastPanStep, "fast-pan-step", c.Explorer.FastPanStep, "explorer fast pan step")
	fs.StringVar(&c.Explorer.Theme, "theme", c.Explorer.Theme, "explorer colour theme id")
	fs.StringVar(&c.Server.Addr, "addr", c.Server.Addr, "HTTP listen address")
	fs.IntVar(&c.Server.MaxRegionWidth, "max-region-width", c.Server.MaxRegionWidth, "largest region width served")
	fs.IntVar(&c.Server.MaxRegionHeight, "max-region-height", c.Server.MaxRegionHeight, "largest region height served")
	fs.IntVar(&c.Server.MaxSearchRadius, "max-search-radius", c.Server.MaxSearchRadius, "largest landmark search radius served")
	fs.BoolVar(&c.Telemetry.Enabled, "telemetry", c.Telemetry.Enabled, "export traces over OTLP")
}

// Validate checks the configuration for values the hosts cannot use.
func (c *Config) Validate() error {
	if c.Explorer.PanStep <= 0 || c.Explorer.FastPanStep <= 0 {
		return fmt.Errorf("explorer pan steps %d/%d: %w", c.Explorer.PanStep, c.Explorer.FastPanStep, ErrInvalidExtent)
	}
	if c.Server.MaxRegionWidth <= 0 || c.Server.MaxRegionHeight <= 0 {
		return fmt.Errorf("server region limit %dx%d: %w", c.Server.MaxRegionWidth, c.Server.MaxRegionHeight, ErrInvalidExtent)
	}
	if c.Server.MaxSearchRadius < 0 || c.Server.MaxSearchRadius > math.MaxInt32 {
		return fmt.Errorf("server search radius %d: %w", c.Server.MaxSearchRadius, ErrInvalidRadius)
	}
	for _, v := range []int{c.Explorer.StartX, c.Explorer.StartY} {
		if v < math.MinInt32 || v > math.MaxInt32 {
			return fmt.Errorf("explorer start %d: %w", v, ErrInvalidCoordinate)
		}
	}
	return nil
}
