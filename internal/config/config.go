// Package config loads the toolwire CLI configuration: tool definitions,
// privacy pairs and decoder settings from a YAML file, with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/skosovsky/toolwire"
	"github.com/skosovsky/toolwire/fenced"
)

// DefaultPath is used when TOOLWIRE_CONFIG is unset.
const DefaultPath = "toolwire.yaml"

// Config is the on-disk CLI configuration.
type Config struct {
	Tools    []toolwire.ToolDefinition `yaml:"tools"`
	Privacy  []toolwire.PrivacyPair    `yaml:"privacy"`
	Paths    []string                  `yaml:"paths"`
	Exclude  []string                  `yaml:"exclude"`
	CallIDs  bool                      `yaml:"call_ids"`
	LogLevel string                    `yaml:"log_level"`
}

// Load reads config from env map. For production use LoadFromEnv.
// TOOLWIRE_CONFIG names the YAML file; a missing file is an error only when
// the variable was set explicitly. TOOLWIRE_LOG_LEVEL overrides log_level.
func Load(env map[string]string) (*Config, error) {
	path := env["TOOLWIRE_CONFIG"]
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if cfg, err = Parse(data); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if lvl := env["TOOLWIRE_LOG_LEVEL"]; lvl != "" {
		cfg.LogLevel = lvl
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads config from os environment variables.
func LoadFromEnv() (*Config, error) {
	env := map[string]string{
		"TOOLWIRE_CONFIG":    os.Getenv("TOOLWIRE_CONFIG"),
		"TOOLWIRE_LOG_LEVEL": os.Getenv("TOOLWIRE_LOG_LEVEL"),
	}
	return Load(env)
}

// Parse decodes YAML config and checks every tool definition.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	seen := make(map[string]bool, len(cfg.Tools))
	for i, def := range cfg.Tools {
		if def.Name == "" {
			return nil, fmt.Errorf("tools[%d]: name required", i)
		}
		if def.Format == "" {
			return nil, fmt.Errorf("tool %q: type required", def.Name)
		}
		if seen[def.Name] {
			return nil, fmt.Errorf("tool %q: defined twice", def.Name)
		}
		seen[def.Name] = true
	}
	if err := fenced.ValidatePatterns(cfg.Paths...); err != nil {
		return nil, fmt.Errorf("paths: %w", err)
	}
	return &cfg, nil
}

// Level returns the configured slog level, Info when unset.
func (c *Config) Level() slog.Level {
	lvl, _ := ParseLevel(c.LogLevel)
	return lvl
}

// DecoderOptions translates the config into toolwire decoder options.
func (c *Config) DecoderOptions(logger *slog.Logger) []toolwire.DecoderOption {
	opts := []toolwire.DecoderOption{toolwire.WithLogger(logger)}
	if len(c.Paths) > 0 {
		opts = append(opts, toolwire.WithPathPatterns(c.Paths...))
	}
	if len(c.Exclude) > 0 {
		opts = append(opts, toolwire.WithExcludedBlockTypes(c.Exclude...))
	}
	if c.CallIDs {
		opts = append(opts, toolwire.WithCallIDs())
	}
	return opts
}

// ParseLevel maps debug/info/warn/error (case-insensitive) to a slog.Level.
// The empty string is Info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
}
