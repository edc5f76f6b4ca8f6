package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if RACEGATE_CONFIG is set
//  3. env (prefix RACEGATE_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("RACEGATE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: RACEGATE_ADDR, RACEGATE_FEED_SIZE, ...
	// Keys keep underscores to match the koanf tags on the struct.
	envProvider := env.Provider("RACEGATE_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "racegate_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DataDir == "":
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	case c.EventsFile == "":
		return fmt.Errorf("%w: events_file must not be empty", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.ScanIntervalMin < 1:
		return fmt.Errorf("%w: scan_interval_min must be positive", ErrInvalidConfig)
	case c.FeedSize < 1:
		return fmt.Errorf("%w: feed_size must be positive", ErrInvalidConfig)
	case c.NewEventWindowDays < 0 || c.StockWindowDays < 0:
		return fmt.Errorf("%w: lookback windows must not be negative", ErrInvalidConfig)
	case c.LowStockThreshold < 0:
		return fmt.Errorf("%w: low_stock_threshold must not be negative", ErrInvalidConfig)
	}
	return nil
}
