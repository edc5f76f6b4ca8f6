package app

import (
	"time"

	"github.com/okian/racegate/internal/domain/model"
	"github.com/okian/racegate/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDataDir sets the directory holding per-event history files.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithEventsFile sets the path of the tracked-event registry.
func WithEventsFile(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.eventsFile = path
		}
	}
}

// WithFeedFile sets where the notification feed is published.
func WithFeedFile(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.feedFile = path
		}
	}
}

// WithFetchTimeout bounds one event page fetch.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.fetchTimeout = timeout
		}
	}
}

// WithWorkerCount sets the number of capture workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize bounds the capture job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithNewEventWindow sets the new-listing lookback window in days.
func WithNewEventWindow(days int) Option {
	return func(s *Service) {
		if days >= 0 {
			s.newEventWindowDays = days
		}
	}
}

// WithStockWindow sets the delta-scan lookback window in days.
func WithStockWindow(days int) Option {
	return func(s *Service) {
		if days >= 0 {
			s.stockWindowDays = days
		}
	}
}

// WithLowStockThreshold sets the running-low stock boundary.
func WithLowStockThreshold(threshold int) Option {
	return func(s *Service) {
		if threshold >= 0 {
			s.lowStockThreshold = threshold
		}
	}
}

// WithExcludeKeywords sets the ticket-name exclusion list.
func WithExcludeKeywords(keywords []string) Option {
	return func(s *Service) {
		s.excludeKeywords = keywords
	}
}

// WithDisplayPrefix sets the cosmetic brand token stripped from
// rendered ticket names.
func WithDisplayPrefix(prefix string) Option {
	return func(s *Service) {
		s.displayPrefix = prefix
	}
}

// WithFeedSize caps the published feed.
func WithFeedSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.feedSize = size
		}
	}
}

// WithPriority overrides the priority of one transition kind.
func WithPriority(kind model.TransitionKind, priority int) Option {
	return func(s *Service) {
		s.priorities[kind] = priority
	}
}

// WithSkipPastEvents toggles skipping capture for already-run events.
func WithSkipPastEvents(skip bool) Option {
	return func(s *Service) {
		s.skipPastEvents = skip
	}
}
