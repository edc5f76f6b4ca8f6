// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env on top.
// - External errors are wrapped via this package's sentinel kinds.
package config

import "runtime"

// Config contains process configuration for the tracker.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address for serve mode, e.g. ":9090".
	Addr string `koanf:"addr"`

	// DataDir holds one history JSON file per tracked event id.
	DataDir string `koanf:"data_dir"`

	// EventsFile is the tracked-event registry (JSON, comments allowed).
	EventsFile string `koanf:"events_file"`

	// FeedFile is where the rendered notification feed is published.
	FeedFile string `koanf:"feed_file"`

	// FetchTimeoutMS bounds one event page fetch.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// ScanIntervalMin is the period between scan runs in serve mode.
	ScanIntervalMin int `koanf:"scan_interval_min"`

	// WorkerCount sets the number of capture workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory capture queue.
	QueueSize int `koanf:"queue_size"`

	// NewEventWindowDays gates how long a young listing keeps announcing
	// itself as new, measured from its first recorded day.
	NewEventWindowDays int `koanf:"new_event_window_days"`

	// StockWindowDays bounds how far back the pairwise delta scan reaches.
	StockWindowDays int `koanf:"stock_window_days"`

	// LowStockThreshold is the stock level at or under which a ticket
	// counts as running low.
	LowStockThreshold int `koanf:"low_stock_threshold"`

	// ExcludeKeywords drops tickets whose name contains any of these,
	// case-insensitively, during normalization.
	ExcludeKeywords []string `koanf:"exclude_keywords"`

	// DisplayPrefix is a cosmetic brand token stripped from ticket names
	// in rendered messages. Comparison keys keep the full name.
	DisplayPrefix string `koanf:"display_prefix"`

	// FeedSize caps the published notification feed.
	FeedSize int `koanf:"feed_size"`

	// Per-kind notification priorities. Higher sorts first within a day.
	RestockPriority  int `koanf:"restock_priority"`
	LowStockPriority int `koanf:"low_stock_priority"`
	NewEventPriority int `koanf:"new_event_priority"`
	SoldOutPriority  int `koanf:"soldout_priority"`

	// SkipPastEvents skips capturing events whose start date has passed.
	SkipPastEvents bool `koanf:"skip_past_events"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9090",
		DataDir:            "data",
		EventsFile:         "events.json",
		FeedFile:           "notifications.json",
		FetchTimeoutMS:     30_000,
		ScanIntervalMin:    360,
		WorkerCount:        runtime.NumCPU() * 2,
		QueueSize:          256,
		NewEventWindowDays: 7,
		StockWindowDays:    3,
		LowStockThreshold:  5,
		ExcludeKeywords:    []string{"SPECTATOR", "RELAY", "CHARITY"},
		DisplayPrefix:      "HYROX",
		FeedSize:           20,
		RestockPriority:    3,
		LowStockPriority:   2,
		NewEventPriority:   1,
		SoldOutPriority:    0,
		SkipPastEvents:     true,
	}
}
