// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads docsearch configuration from a YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ianlewis/go-docsearch/symindex"
)

// EnvPrefix is the prefix of environment variables overriding config values.
const EnvPrefix = "DOCSEARCH_"

// ErrInvalid indicates an invalid configuration value.
var ErrInvalid = errors.New("invalid config")

// Config is the top-level configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// SearchConfig controls which documentation sets are loaded and how they are
// queried.
type SearchConfig struct {
	DataDirs       []string `yaml:"dataDirs"`
	DefaultSection string   `yaml:"defaultSection"`
	Match          string   `yaml:"match"`
	DefaultLimit   int      `yaml:"defaultLimit"`
	MaxResults     int      `yaml:"maxResults"`
}

// MatchMode returns the parsed match mode.
func (s SearchConfig) MatchMode() (symindex.MatchMode, error) {
	m, err := symindex.ParseMatchMode(s.Match)
	if err != nil {
		return m, fmt.Errorf("%w: search.match: %w", ErrInvalid, err)
	}
	return m, nil
}

// LoggingConfig controls log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Search: SearchConfig{
			DefaultSection: "all",
			Match:          symindex.MatchSubstring.String(),
			DefaultLimit:   20,
			MaxResults:     200,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load reads a YAML config file, if path is not empty, over the defaults and
// applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	if err := applyEnvOverrides(cfg, os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if _, err := c.Search.MatchMode(); err != nil {
		return err
	}
	if c.Search.DefaultLimit < 1 {
		return fmt.Errorf("%w: search.defaultLimit must be positive", ErrInvalid)
	}
	if c.Search.MaxResults < c.Search.DefaultLimit {
		return fmt.Errorf("%w: search.maxResults is less than search.defaultLimit", ErrInvalid)
	}
	if c.Search.DefaultSection == "" {
		return fmt.Errorf("%w: search.defaultSection is empty", ErrInvalid)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalid, c.Logging.Format)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("%w: metrics.path %q", ErrInvalid, c.Metrics.Path)
	}
	return nil
}

// applyEnvOverrides reads DOCSEARCH_* variables through getenv and overrides
// the corresponding fields.
func applyEnvOverrides(cfg *Config, getenv func(string) string) error {
	env := func(name string) string {
		return getenv(EnvPrefix + name)
	}

	if v := env("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	for name, d := range map[string]*time.Duration{
		"SERVER_READ_TIMEOUT":     &cfg.Server.ReadTimeout,
		"SERVER_WRITE_TIMEOUT":    &cfg.Server.WriteTimeout,
		"SERVER_SHUTDOWN_TIMEOUT": &cfg.Server.ShutdownTimeout,
	} {
		if v := env(name); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%w: %s%s: %w", ErrInvalid, EnvPrefix, name, err)
			}
			*d = parsed
		}
	}

	if v := env("DATA_DIRS"); v != "" {
		cfg.Search.DataDirs = filepath.SplitList(v)
	}
	if v := env("SEARCH_DEFAULT_SECTION"); v != "" {
		cfg.Search.DefaultSection = v
	}
	if v := env("SEARCH_MATCH"); v != "" {
		cfg.Search.Match = v
	}
	for name, n := range map[string]*int{
		"SEARCH_DEFAULT_LIMIT": &cfg.Search.DefaultLimit,
		"SEARCH_MAX_RESULTS":   &cfg.Search.MaxResults,
	} {
		if v := env(name); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s%s: %w", ErrInvalid, EnvPrefix, name, err)
			}
			*n = parsed
		}
	}

	if v := env("LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := env("LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	if v := env("METRICS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sMETRICS_ENABLED: %w", ErrInvalid, EnvPrefix, err)
		}
		cfg.Metrics.Enabled = enabled
	}
	if v := env("METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}
	return nil
}
