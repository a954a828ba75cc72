// Package config loads settings for the vecfield command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override settings.
// For example, VECFIELD_SEED_COUNT sets seed.count.
const EnvPrefix = "VECFIELD"

// Config is the full set of settings.
type Config struct {
	// LogLevel is one of trace, debug, info, warn, error, or disabled.
	LogLevel string `mapstructure:"log-level"`
	// Catalogue is a preset catalogue file to use in place of the built-in
	// one.
	Catalogue string `mapstructure:"catalogue"`
	// Preset is the name of the preset to run when no expressions are given.
	Preset string `mapstructure:"preset"`
	// DT is the simulation time step.
	DT float64 `mapstructure:"dt"`
	// Steps is the number of simulation steps to run.
	Steps int `mapstructure:"steps"`
	// Seed describes the initial points.
	Seed Seed `mapstructure:"seed"`
}

// Seed describes a grid of initial points.
type Seed struct {
	// Count is the number of points along each axis of the grid.
	Count int `mapstructure:"count"`
	// Radius is the half-width of the grid.
	Radius float64 `mapstructure:"radius"`
	// Center is the center of the grid.
	Center []float64 `mapstructure:"center"`
}

// New creates a viper instance with defaults and environment overrides.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults sets the default value of every setting.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log-level", "disabled")
	v.SetDefault("catalogue", "")
	v.SetDefault("preset", "lorenz")
	v.SetDefault("dt", 0.01)
	v.SetDefault("steps", 1000)
	v.SetDefault("seed.count", 10)
	v.SetDefault("seed.radius", 0.1)
	v.SetDefault("seed.center", []float64{1, 1, 10})
}

// ReadFile reads a YAML config file into v. If path is empty, ReadFile uses
// ./vecfield.yaml or $HOME/.vecfield/config.yaml, whichever exists first, and
// it is not an error for neither to exist. It returns the file used, if any.
func ReadFile(v *viper.Viper, path string) (string, error) {
	if path == "" {
		path = search()
		if path == "" {
			return "", nil
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("couldn't read config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

func search() string {
	paths := []string{"vecfield.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".vecfield", "config.yaml"))
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load decodes and validates the settings in v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("couldn't decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports every invalid setting in cfg.
func (cfg *Config) Validate() error {
	var errs []error
	if !(cfg.DT > 0) {
		errs = append(errs, fmt.Errorf("dt must be positive, have %g", cfg.DT))
	}
	if cfg.Steps < 0 {
		errs = append(errs, fmt.Errorf("steps must not be negative, have %d", cfg.Steps))
	}
	if cfg.Seed.Count < 1 {
		errs = append(errs, fmt.Errorf("seed.count must be at least 1, have %d", cfg.Seed.Count))
	}
	if cfg.Seed.Radius < 0 {
		errs = append(errs, fmt.Errorf("seed.radius must not be negative, have %g", cfg.Seed.Radius))
	}
	if len(cfg.Seed.Center) != 3 {
		errs = append(errs, fmt.Errorf("seed.center must have 3 coordinates, have %d", len(cfg.Seed.Center)))
	}
	if len(errs) != 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Point returns the seed center as a point.
func (s Seed) Point() [3]float64 {
	var p [3]float64
	copy(p[:], s.Center)
	return p
}
