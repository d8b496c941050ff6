// Package config loads generator settings from flags, environment, an optional config
// file and a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"mini-realm/internal/logging"
	"mini-realm/internal/world"
)

// EnvPrefix is prepended to every environment key, e.g. REALM_WORLD_SEED.
const EnvPrefix = "REALM"

type Config struct {
	World  WorldConfig    `mapstructure:"world"`
	Assets AssetsConfig   `mapstructure:"assets"`
	Limits world.Limits   `mapstructure:"limits"`
	Log    logging.Config `mapstructure:"log"`
	Output OutputConfig   `mapstructure:"output"`
	Walk   WalkConfig     `mapstructure:"walk"`
}

type WorldConfig struct {
	Seed        int64 `mapstructure:"seed"`
	ChunkWidth  int   `mapstructure:"chunk_width"`
	ChunkHeight int   `mapstructure:"chunk_height"`
	Radius      int   `mapstructure:"radius"`
	// Geography pins every region to one geography and wins over Geographies.
	Geography   string   `mapstructure:"geography"`
	Geographies []string `mapstructure:"geographies"`
}

// GeographyList is the set regions choose from.
func (w WorldConfig) GeographyList() []string {
	if w.Geography != "" {
		return []string{w.Geography}
	}
	return w.Geographies
}

type AssetsConfig struct {
	Path string `mapstructure:"path"`
}

type OutputConfig struct {
	PNG   string `mapstructure:"png"`
	ASCII bool   `mapstructure:"ascii"`
	Scale int    `mapstructure:"scale"`
}

// WalkConfig moves the focal point east this many regions after the first window.
type WalkConfig struct {
	Steps int `mapstructure:"steps"`
}

func setDefaults(v *viper.Viper) {
	lim := world.DefaultLimits()
	v.SetDefault("world.seed", 1337)
	v.SetDefault("world.chunk_width", 48)
	v.SetDefault("world.chunk_height", 32)
	v.SetDefault("world.radius", 1)
	v.SetDefault("world.geography", "")
	v.SetDefault("world.geographies", []string{"plains", "woods", "village"})
	v.SetDefault("assets.path", "assets")
	v.SetDefault("limits.anchor_retries", lim.AnchorRetries)
	v.SetDefault("limits.solver_retries", lim.SolverRetries)
	v.SetDefault("limits.interior_passes", lim.InteriorPasses)
	v.SetDefault("limits.global_retries", lim.GlobalRetries)
	v.SetDefault("limits.structure_scale", lim.StructureScale)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 7)
	v.SetDefault("output.png", "")
	v.SetDefault("output.ascii", true)
	v.SetDefault("output.scale", 1)
	v.SetDefault("walk.steps", 0)
}

// flagKeys binds command-line flags to config keys.
var flagKeys = map[string]string{
	"seed":       "world.seed",
	"radius":     "world.radius",
	"geography":  "world.geography",
	"assets":     "assets.path",
	"png":        "output.png",
	"ascii":      "output.ascii",
	"steps":      "walk.steps",
	"log-level":  "log.level",
	"log-format": "log.format",
	"log-file":   "log.file",
}

// Load resolves the configuration. Precedence, highest first: flags, REALM_* environment
// (including values from the .env file), the --config file, defaults.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("realmgen", pflag.ContinueOnError)
	cfgFile := fs.String("config", "", "config file (yaml, json, toml)")
	envFile := fs.String("env-file", ".env", "dotenv file to load if present")
	fs.Int64("seed", 1337, "world seed")
	fs.Int("radius", 1, "chunk radius around the focal region")
	fs.String("geography", "", "force a single geography for every region")
	fs.String("assets", "assets", "template directory")
	fs.String("png", "", "write a PNG preview to this path")
	fs.Bool("ascii", true, "print the focal window as text")
	fs.Int("steps", 0, "regions to walk east after the first window")
	fs.String("log-level", "info", "log level")
	fs.String("log-format", "text", "log format (text, json)")
	fs.String("log-file", "", "rotate logs into this file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("could not load env file: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	if *cfgFile != "" {
		v.SetConfigFile(*cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the generator cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.World.ChunkWidth < 8 || c.World.ChunkHeight < 8:
		return fmt.Errorf("chunk size %dx%d is below 8x8", c.World.ChunkWidth, c.World.ChunkHeight)
	case c.World.Radius < 0:
		return fmt.Errorf("radius %d is negative", c.World.Radius)
	case len(c.World.GeographyList()) == 0:
		return errors.New("no geographies configured")
	case c.Limits.AnchorRetries < 1 || c.Limits.SolverRetries < 1 || c.Limits.GlobalRetries < 1:
		return errors.New("retry limits must be positive")
	case c.Limits.InteriorPasses < 0:
		return errors.New("interior passes must not be negative")
	}
	return nil
}
