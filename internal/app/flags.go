package app

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"lifegrid/internal/sims/survival"
)

// Config represents the command-line parameters shared by the commands.
// Zero values for Seed, Width and Height keep the world config's values.
type Config struct {
	ConfigPath string
	Seed       int64
	Scale      int
	TPS        int

	Width  int
	Height int
	Ticks  int

	TickLogDir string
	IndexPath  string
	LogLevel   string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Scale: 8, TPS: 10, LogLevel: "info"}
}

// Bind attaches the flags common to every command to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "YAML world config")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset (0 keeps the config seed)")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
}

// BindWindow adds the GUI flags.
func (c *Config) BindWindow(fs *flag.FlagSet) {
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
}

// BindRunner adds the headless runner flags.
func (c *Config) BindRunner(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "w", c.Width, "grid width (0 keeps the config width)")
	fs.IntVar(&c.Height, "h", c.Height, "grid height (0 keeps the config height)")
	fs.IntVar(&c.Ticks, "ticks", c.Ticks, "ticks to run, 0 runs until interrupted")
	fs.StringVar(&c.TickLogDir, "ticklog", c.TickLogDir, "directory for the compressed tick log")
	fs.StringVar(&c.IndexPath, "index", c.IndexPath, "SQLite stats index path")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
}

// World resolves the world config: defaults, then the YAML file, then flag
// overrides.
func (c *Config) World() (survival.Config, error) {
	cfg := survival.DefaultConfig()
	if c.ConfigPath != "" {
		loaded, err := survival.LoadConfig(c.ConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("load %s: %w", c.ConfigPath, err)
		}
		cfg = loaded
	}
	if c.Seed != 0 {
		cfg.Seed = c.Seed
	}
	if c.Width > 0 {
		cfg.Width = c.Width
	}
	if c.Height > 0 {
		cfg.Height = c.Height
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ParseLogLevel maps a level name to its slog level.
func ParseLogLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", name, err)
	}
	return level, nil
}

// NewLogger builds the text logger used by the commands.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}
