package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/designlens/designlens/pkg/bitmap"
	"github.com/designlens/designlens/pkg/colors"
	"github.com/designlens/designlens/pkg/effects"
	"github.com/designlens/designlens/pkg/geometry"
	"github.com/designlens/designlens/pkg/spatial"
)

// Config holds the application configuration for the CLI.
type Config struct {
	Loader   LoaderConfig   `json:"loader"`
	Colors   ColorsConfig   `json:"colors"`
	Spatial  SpatialConfig  `json:"spatial"`
	Geometry GeometryConfig `json:"geometry"`
	Effects  EffectsConfig  `json:"effects"`
	Output   OutputConfig   `json:"output"`
}

// LoaderConfig holds configuration for image loading.
type LoaderConfig struct {
	MaxDimension   int    `json:"max_dimension"`
	HTTPTimeoutSec int    `json:"http_timeout_sec"`
	UserAgent      string `json:"user_agent"`
}

// ColorsConfig holds configuration for color analysis.
type ColorsConfig struct {
	SampleStride      int `json:"sample_stride"`
	AlphaThreshold    int `json:"alpha_threshold"`
	QuantizeStep      int `json:"quantize_step"`
	MaxDominantColors int `json:"max_dominant_colors"`
}

// SpatialConfig holds configuration for spatial analysis.
type SpatialConfig struct {
	WhitespaceLightness  float64 `json:"whitespace_lightness"`
	WhitespaceSaturation float64 `json:"whitespace_saturation"`
	GridColumns          int     `json:"grid_columns"`
	GridRowStep          int     `json:"grid_row_step"`
}

// GeometryConfig holds configuration for geometry analysis.
type GeometryConfig struct {
	EdgeThreshold float64 `json:"edge_threshold"`
	ProbeGridSize int     `json:"probe_grid_size"`
}

// EffectsConfig holds configuration for effects analysis.
type EffectsConfig struct {
	GradientGrid int   `json:"gradient_grid"`
	GlassSamples int   `json:"glass_samples"`
	Seed         int64 `json:"seed"`
}

// OutputConfig holds configuration for CLI output.
type OutputConfig struct {
	Pretty         bool   `json:"pretty"`
	OutputDir      string `json:"output_dir"`
	SwatchTileSize int    `json:"swatch_tile_size"`
	SwatchColors   int    `json:"swatch_colors"`
}

// Default returns a configuration with default values.
func Default() *Config {
	lc := bitmap.DefaultConfig()
	cc := colors.DefaultConfig()
	sc := spatial.DefaultConfig()
	gc := geometry.DefaultConfig()
	ec := effects.DefaultConfig()

	return &Config{
		Loader: LoaderConfig{
			MaxDimension:   lc.MaxDimension,
			HTTPTimeoutSec: int(lc.HTTPTimeout / time.Second),
			UserAgent:      lc.UserAgent,
		},
		Colors: ColorsConfig{
			SampleStride:      cc.SampleStride,
			AlphaThreshold:    cc.AlphaThreshold,
			QuantizeStep:      cc.QuantizeStep,
			MaxDominantColors: cc.MaxDominantColors,
		},
		Spatial: SpatialConfig{
			WhitespaceLightness:  sc.WhitespaceLightness,
			WhitespaceSaturation: sc.WhitespaceSaturation,
			GridColumns:          sc.GridColumns,
			GridRowStep:          sc.GridRowStep,
		},
		Geometry: GeometryConfig{
			EdgeThreshold: gc.EdgeThreshold,
			ProbeGridSize: gc.ProbeGridSize,
		},
		Effects: EffectsConfig{
			GradientGrid: ec.GradientGrid,
			GlassSamples: ec.GlassSamples,
			Seed:         ec.Seed,
		},
		Output: OutputConfig{
			Pretty:         true,
			OutputDir:      "./out",
			SwatchTileSize: 64,
			SwatchColors:   7,
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Missing fields keep
// their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a JSON file.
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Loader.MaxDimension < 1 {
		return fmt.Errorf("loader.max_dimension must be positive")
	}
	if c.Colors.SampleStride < 1 {
		return fmt.Errorf("colors.sample_stride must be positive")
	}
	if c.Colors.AlphaThreshold < 0 || c.Colors.AlphaThreshold > 255 {
		return fmt.Errorf("colors.alpha_threshold must be between 0 and 255")
	}
	if c.Colors.QuantizeStep < 1 || c.Colors.QuantizeStep > 128 {
		return fmt.Errorf("colors.quantize_step must be between 1 and 128")
	}
	if c.Colors.MaxDominantColors < 1 {
		return fmt.Errorf("colors.max_dominant_colors must be positive")
	}
	if c.Spatial.GridColumns < 1 {
		return fmt.Errorf("spatial.grid_columns must be positive")
	}
	if c.Spatial.GridRowStep < 1 {
		return fmt.Errorf("spatial.grid_row_step must be positive")
	}
	if c.Geometry.EdgeThreshold <= 0 {
		return fmt.Errorf("geometry.edge_threshold must be positive")
	}
	if c.Geometry.ProbeGridSize < 1 {
		return fmt.Errorf("geometry.probe_grid_size must be positive")
	}
	if c.Effects.GradientGrid < 1 {
		return fmt.Errorf("effects.gradient_grid must be positive")
	}
	if c.Effects.GlassSamples < 1 {
		return fmt.Errorf("effects.glass_samples must be positive")
	}
	if c.Output.SwatchColors < 1 {
		return fmt.Errorf("output.swatch_colors must be positive")
	}
	return nil
}

// StageConfigs converts the file configuration into per-stage engine
// configurations.
func (c *Config) StageConfigs() (bitmap.Config, colors.Config, spatial.Config, geometry.Config, effects.Config) {
	return bitmap.Config{
			MaxDimension: c.Loader.MaxDimension,
			HTTPTimeout:  time.Duration(c.Loader.HTTPTimeoutSec) * time.Second,
			UserAgent:    c.Loader.UserAgent,
		}, colors.Config{
			SampleStride:      c.Colors.SampleStride,
			AlphaThreshold:    c.Colors.AlphaThreshold,
			QuantizeStep:      c.Colors.QuantizeStep,
			MaxDominantColors: c.Colors.MaxDominantColors,
		}, spatial.Config{
			WhitespaceLightness:  c.Spatial.WhitespaceLightness,
			WhitespaceSaturation: c.Spatial.WhitespaceSaturation,
			GridColumns:          c.Spatial.GridColumns,
			GridRowStep:          c.Spatial.GridRowStep,
		}, geometry.Config{
			EdgeThreshold: c.Geometry.EdgeThreshold,
			ProbeGridSize: c.Geometry.ProbeGridSize,
		}, effects.Config{
			GradientGrid: c.Effects.GradientGrid,
			GlassSamples: c.Effects.GlassSamples,
			Seed:         c.Effects.Seed,
		}
}

// GetConfigPath returns the default configuration file path.
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "designlens", "config.json")
}
