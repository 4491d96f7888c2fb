// Package config loads episodeview settings from a TOML file, an optional
// .env file and EPISODEVIEW_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// EnvFile is the dotenv file read before the environment is consulted.
var EnvFile = ".env"

// Source lists where episodes come from.
type Source struct {
	RemoteURLs []string `toml:"remote_urls"`
	Fallback   string   `toml:"fallback"`
}

// HTTP tunes the fetch client.
type HTTP struct {
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RetryMax       int     `toml:"retry_max"`
	RetryBaseMS    int     `toml:"retry_base_ms"`
	RetryCapMS     int     `toml:"retry_cap_ms"`
	RPS            float64 `toml:"rps"`
	Burst          int     `toml:"burst"`
}

// Display holds presentation timings, the filter mode and the fuzzy
// matching thresholds.
type Display struct {
	FallbackDelayMS  int     `toml:"fallback_delay_ms"`
	SuccessHoldMS    int     `toml:"success_hold_ms"`
	FilterMode       string  `toml:"filter_mode"`
	FuzzyMinCoverage float64 `toml:"fuzzy_min_coverage"`
	FuzzyMaxSpread   int     `toml:"fuzzy_max_spread"`
	FuzzyMaxResults  int     `toml:"fuzzy_max_results"`
}

// Logging selects the log level and, for the TUI, the log file.
type Logging struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type Config struct {
	Source  Source  `toml:"source"`
	HTTP    HTTP    `toml:"http"`
	Display Display `toml:"display"`
	Logging Logging `toml:"logging"`
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "episodeview", "config.toml"), nil
}

// Load reads the TOML file at path (the default path when empty). A missing
// file is not an error. The .env file and the environment are applied on
// top, then the result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	file, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", EnvFile, err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg as TOML, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("EPISODEVIEW_REMOTE_URLS"); ok {
		c.Source.RemoteURLs = splitList(v)
	}
	if v, ok := os.LookupEnv("EPISODEVIEW_FALLBACK"); ok {
		c.Source.Fallback = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv("EPISODEVIEW_TIMEOUT"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("EPISODEVIEW_TIMEOUT: %w", err)
		}
		c.HTTP.TimeoutSeconds = n
	}
	if v, ok := os.LookupEnv("EPISODEVIEW_RETRY_MAX"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("EPISODEVIEW_RETRY_MAX: %w", err)
		}
		c.HTTP.RetryMax = n
	}
	if v, ok := os.LookupEnv("EPISODEVIEW_FILTER_MODE"); ok {
		c.Display.FilterMode = v
	}
	if v, ok := os.LookupEnv("EPISODEVIEW_LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	return nil
}

func (c *Config) normalize() {
	urls := c.Source.RemoteURLs[:0:0]
	for _, u := range c.Source.RemoteURLs {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	c.Source.RemoteURLs = urls
	c.Source.Fallback = strings.TrimSpace(c.Source.Fallback)
	c.Display.FilterMode = strings.ToLower(strings.TrimSpace(c.Display.FilterMode))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Timeout is the per-request client timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

func (c *Config) RetryBase() time.Duration {
	return time.Duration(c.HTTP.RetryBaseMS) * time.Millisecond
}

func (c *Config) RetryCap() time.Duration {
	return time.Duration(c.HTTP.RetryCapMS) * time.Millisecond
}

func (c *Config) FallbackDelay() time.Duration {
	return time.Duration(c.Display.FallbackDelayMS) * time.Millisecond
}

func (c *Config) SuccessHold() time.Duration {
	return time.Duration(c.Display.SuccessHoldMS) * time.Millisecond
}
