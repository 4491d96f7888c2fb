package main

import (
	"os"
	"strings"
	"sync"

	"episodeview/internal/config"
	"episodeview/internal/feed"
	"episodeview/internal/infra/logx"
	"episodeview/internal/loader"
	"episodeview/internal/view"
)

type commandContext struct {
	configFlag   *string
	fallbackFlag *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, fallbackFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		fallbackFlag: fallbackFlag,
		logLevelFlag: logLevelFlag,
	}
}

// ensureConfig loads the configuration once, applies the global flags on
// top and sets up logging.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load(strings.TrimSpace(*c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if v := strings.TrimSpace(*c.fallbackFlag); v != "" {
			cfg.Source.Fallback = v
		}
		if v := strings.TrimSpace(*c.logLevelFlag); v != "" {
			cfg.Logging.Level = v
		}
		lvl, err := logx.ParseLevel(cfg.Logging.Level)
		if err != nil {
			c.configErr = err
			return
		}
		logx.SetMinLevel(lvl)
		logx.SetVerbose(lvl == logx.LevelDebug)
		logx.SetOutput(os.Stderr)
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() (string, error) {
	if p := strings.TrimSpace(*c.configFlag); p != "" {
		return p, nil
	}
	return config.DefaultPath()
}

func fuzzyConfig(cfg *config.Config) view.FuzzyConfig {
	return view.FuzzyConfig{
		MinCoverage: cfg.Display.FuzzyMinCoverage,
		MaxSpread:   cfg.Display.FuzzyMaxSpread,
		MaxResults:  cfg.Display.FuzzyMaxResults,
	}
}

// newLoader wires a feed client and a loader from the configuration. The
// cosmetic status delays are skipped when nobody is watching.
func newLoader(cfg *config.Config, interactive bool) (*loader.Loader, *feed.Client) {
	topts := feed.DefaultTransportOptions()
	topts.RetryMax = cfg.HTTP.RetryMax
	if d := cfg.RetryBase(); d > 0 {
		topts.BackoffBase = d
	}
	if d := cfg.RetryCap(); d > 0 {
		topts.BackoffCap = d
	}
	if cfg.HTTP.RPS > 0 {
		topts.DefaultLimit = feed.Limit{RPS: cfg.HTTP.RPS, Burst: cfg.HTTP.Burst}
	}
	client := feed.New(feed.Options{Timeout: cfg.Timeout(), Transport: topts})

	opts := loader.Options{
		RemoteURLs: cfg.Source.RemoteURLs,
		Fallback:   cfg.Source.Fallback,
	}
	if interactive {
		opts.FallbackDelay = cfg.FallbackDelay()
		opts.SuccessHold = cfg.SuccessHold()
	}
	return loader.New(client, opts), client
}
