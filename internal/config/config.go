package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "tileworld.cfg.json"

// Config is the full application configuration.
type Config struct {
	LogLevel  string          `json:"logLevel" mapstructure:"logLevel"`
	Window    WindowConfig    `json:"window" mapstructure:"window"`
	Geography GeographyConfig `json:"geography" mapstructure:"geography"`
	Unit      UnitConfig      `json:"unit" mapstructure:"unit"`
	Picking   PickingConfig   `json:"picking" mapstructure:"picking"`
	View      ViewConfig      `json:"view" mapstructure:"view"`
}

// WindowConfig sizes the game window and the id-pass target.
type WindowConfig struct {
	Width  int `json:"width" mapstructure:"width"`
	Height int `json:"height" mapstructure:"height"`
}

// GeographyConfig selects the tile source. An empty File generates a grid.
type GeographyConfig struct {
	File string `json:"file" mapstructure:"file"`
	Cols int    `json:"cols" mapstructure:"cols"`
	Rows int    `json:"rows" mapstructure:"rows"`
	Seed int64  `json:"seed" mapstructure:"seed"`
}

// UnitConfig describes the starting unit.
type UnitConfig struct {
	Kind     string `json:"kind" mapstructure:"kind"`
	Movement int    `json:"movement" mapstructure:"movement"`
}

// PickingConfig tunes the id pass.
type PickingConfig struct {
	FlipY bool `json:"flipY" mapstructure:"flipY"`
}

// ViewConfig is the fixed projection of the planet onto the window.
type ViewConfig struct {
	Scale float64 `json:"scale" mapstructure:"scale"`
	Yaw   float64 `json:"yaw" mapstructure:"yaw"`
	Pitch float64 `json:"pitch" mapstructure:"pitch"`
	// CullBack hides tiles facing away from the viewer. Useful for sphere
	// meshes, pointless for flat grids.
	CullBack bool `json:"cullBack" mapstructure:"cullBack"`
}

var envReplacer = strings.NewReplacer(".", "_")

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")

	v.SetDefault("window.width", 960)
	v.SetDefault("window.height", 640)

	v.SetDefault("geography.file", "")
	v.SetDefault("geography.cols", 24)
	v.SetDefault("geography.rows", 16)
	v.SetDefault("geography.seed", 1)

	v.SetDefault("unit.kind", "explorer")
	v.SetDefault("unit.movement", 5)

	v.SetDefault("picking.flipY", false)

	v.SetDefault("view.scale", 36.0)
	v.SetDefault("view.yaw", 0.0)
	v.SetDefault("view.pitch", 0.0)
	v.SetDefault("view.cullBack", false)
}

// Load reads FileName from configDir on top of the defaults. A missing file
// is not an error; a malformed one is. Environment variables prefixed
// TILEWORLD_ override both (e.g. TILEWORLD_UNIT_MOVEMENT).
func Load(configDir string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(strings.TrimSuffix(FileName, ".json"))
	v.SetConfigType("json")
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("tileworld")
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Unit.Movement < 0 {
		return fmt.Errorf("unit.movement must be >= 0, got %d", c.Unit.Movement)
	}
	if c.Geography.File == "" && (c.Geography.Cols <= 0 || c.Geography.Rows <= 0) {
		return fmt.Errorf("geography grid must be positive, got %dx%d", c.Geography.Cols, c.Geography.Rows)
	}
	return nil
}
