package app

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"

	"github.com/corey/stashre/internal/domain/pattern"
)

// DefaultBudget is the consumer's search box limit in characters.
const DefaultBudget = 50

// Config is .stashre/config.toml. A missing file means DefaultConfig.
type Config struct {
	// CatalogDir replaces the embedded catalog when set. Relative paths
	// resolve against the project root.
	CatalogDir string `toml:"catalog_dir"`
	Include    string `toml:"include"`

	Budget     int  `toml:"budget"`
	Rounds     int  `toml:"rounds"`
	Workers    int  `toml:"workers"`
	MaxTextLen int  `toml:"max_text_len"`
	Cache      bool `toml:"cache"`

	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Include:  "*.yaml",
		Budget:   DefaultBudget,
		Rounds:   pattern.DefaultRounds,
		Cache:    true,
		LogLevel: "info",
	}
}

// LoadConfig reads path over DefaultConfig. Unknown keys are an error so
// typos do not silently fall back to defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects negative limits and unknown log levels.
func (c Config) Validate() error {
	switch {
	case c.Budget < 0:
		return fmt.Errorf("budget must be >= 0, got %d", c.Budget)
	case c.Rounds < 0:
		return fmt.Errorf("rounds must be >= 0, got %d", c.Rounds)
	case c.Workers < 0:
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	case c.MaxTextLen < 0:
		return fmt.Errorf("max_text_len must be >= 0, got %d", c.MaxTextLen)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel; empty means info.
func (c Config) Level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.InfoLevel, nil
	}
	l, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return l, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// SaveConfig writes cfg to path as TOML.
func SaveConfig(path string, cfg Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
