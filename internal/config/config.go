// Package config handles configuration loading from TOML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/rs/zerolog"

	"github.com/xonecas/enclose/internal/treesitter"
)

// DefaultTheme is the Chroma style used for snippets when none is configured.
const DefaultTheme = "github-dark"

// Config is the root configuration structure.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Parser ParserConfig `toml:"parser"`
	Output OutputConfig `toml:"output"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a zerolog level name: trace, debug, info, warn, error.
	Level string `toml:"level"`
}

// ParserConfig holds adapter settings.
type ParserConfig struct {
	MaxFileSize int64  `toml:"max_file_size"`
	Policy      string `toml:"policy"`
}

// OutputConfig holds rendering settings for the CLI.
type OutputConfig struct {
	Theme  string `toml:"theme"`
	Color  bool   `toml:"color"`
	Tagged bool   `toml:"tagged"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info"},
		Parser: ParserConfig{MaxFileSize: treesitter.DefaultMaxFileSize, Policy: "outermost"},
		Output: OutputConfig{Theme: DefaultTheme, Color: true},
	}
}

// Load reads configuration from a TOML file over the defaults and applies
// environment variable overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is required")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return finish(cfg)
}

// LoadDefault reads the config file in the data directory when present and
// falls back to Default otherwise.
func LoadDefault() (*Config, error) {
	dir, err := DataDir()
	if err == nil {
		path := filepath.Join(dir, "config.toml")
		if _, statErr := os.Stat(path); statErr == nil {
			return Load(path)
		}
	}
	return finish(Default())
}

func finish(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level=%q is invalid: %v", c.Log.Level, err))
	}

	if c.Parser.MaxFileSize <= 0 {
		errs = append(errs, fmt.Errorf("parser.max_file_size=%d must be positive", c.Parser.MaxFileSize))
	}
	if _, err := treesitter.ParsePolicy(c.Parser.Policy); err != nil {
		errs = append(errs, fmt.Errorf("parser.policy: %w", err))
	}

	if _, ok := styles.Registry[c.Output.Theme]; !ok {
		errs = append(errs, fmt.Errorf("output.theme=%q is not a known chroma style", c.Output.Theme))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// LogLevel returns the parsed log level, info when unset.
func (c *Config) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil || c.Log.Level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Policy returns the parsed containment policy.
func (c *Config) Policy() treesitter.Policy {
	p, _ := treesitter.ParsePolicy(c.Parser.Policy)
	return p
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	for _, setter := range []struct {
		env   string
		apply func(string)
	}{
		{"ENCLOSE_LOG_LEVEL", func(v string) {
			if v != "" {
				cfg.Log.Level = v
			}
		}},
		{"ENCLOSE_THEME", func(v string) {
			if v != "" {
				cfg.Output.Theme = v
			}
		}},
		{"NO_COLOR", func(v string) {
			if v != "" {
				cfg.Output.Color = false
			}
		}},
	} {
		setter.apply(os.Getenv(setter.env))
	}
}

// DataDir returns the path to the enclose config directory (~/.config/enclose).
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "enclose"), nil
}
