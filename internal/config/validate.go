package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Source.Fallback == "" {
		return errors.New("source.fallback must be set")
	}
	if c.HTTP.TimeoutSeconds < 0 {
		return fmt.Errorf("http.timeout_seconds must be >= 0, got %d", c.HTTP.TimeoutSeconds)
	}
	if c.HTTP.RetryMax < 0 {
		return fmt.Errorf("http.retry_max must be >= 0, got %d", c.HTTP.RetryMax)
	}
	if c.HTTP.RetryBaseMS < 0 || c.HTTP.RetryCapMS < 0 {
		return errors.New("http retry delays must be >= 0")
	}
	if c.HTTP.RPS < 0 || c.HTTP.Burst < 0 {
		return errors.New("http rate limit must be >= 0")
	}
	if c.Display.FallbackDelayMS < 0 || c.Display.SuccessHoldMS < 0 {
		return errors.New("display delays must be >= 0")
	}
	if c.Display.FuzzyMinCoverage < 0 || c.Display.FuzzyMinCoverage > 1 {
		return fmt.Errorf("display.fuzzy_min_coverage must be within [0, 1], got %g", c.Display.FuzzyMinCoverage)
	}
	if c.Display.FuzzyMaxSpread < 0 || c.Display.FuzzyMaxResults < 0 {
		return errors.New("display fuzzy limits must be >= 0")
	}
	switch c.Display.FilterMode {
	case "", "substring", "fuzzy":
	default:
		return fmt.Errorf("display.filter_mode must be substring or fuzzy, got %q", c.Display.FilterMode)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not a known level", c.Logging.Level)
	}
	return nil
}
