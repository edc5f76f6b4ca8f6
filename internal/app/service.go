// Package app wires the capture, classification, and publication phases.
package app

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/racegate/internal/adapters/feedfile"
	"github.com/okian/racegate/internal/adapters/fetch"
	"github.com/okian/racegate/internal/adapters/history"
	"github.com/okian/racegate/internal/adapters/registry"
	"github.com/okian/racegate/internal/domain/classify"
	"github.com/okian/racegate/internal/domain/feed"
	"github.com/okian/racegate/internal/domain/model"
	"github.com/okian/racegate/internal/domain/normalize"
	"github.com/okian/racegate/internal/scan"
	"github.com/okian/racegate/pkg/logger"
	"github.com/okian/racegate/pkg/metrics"
)

// Service runs scan cycles: capture inventories for all registered
// events, then regenerate and publish the notification feed.
type Service struct {
	mu sync.Mutex

	// Components, built in Start.
	store      history.Store
	fetcher    *fetch.Fetcher
	normalizer *normalize.Normalizer
	classifier *classify.Classifier
	builder    *feed.Builder
	pool       *scan.Pool

	// Configuration.
	dataDir            string
	eventsFile         string
	feedFile           string
	fetchTimeout       time.Duration
	workerCount        int
	queueSize          int
	newEventWindowDays int
	stockWindowDays    int
	lowStockThreshold  int
	excludeKeywords    []string
	displayPrefix      string
	feedSize           int
	priorities         map[model.TransitionKind]int
	skipPastEvents     bool

	started  bool
	lastScan time.Time
	lastFeed int

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataDir:            "data",
		eventsFile:         "events.json",
		feedFile:           "notifications.json",
		fetchTimeout:       30 * time.Second,
		workerCount:        runtime.NumCPU() * 2,
		queueSize:          256,
		newEventWindowDays: 7,
		stockWindowDays:    3,
		lowStockThreshold:  5,
		feedSize:           20,
		priorities: map[model.TransitionKind]int{
			model.KindRestock:  3,
			model.KindLowStock: 2,
			model.KindNewEvent: 1,
			model.KindSoldOut:  0,
		},
		skipPastEvents: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("app")
	}

	store, err := history.NewFileStore(ctx, history.WithDir(s.dataDir))
	if err != nil {
		return fmt.Errorf("init history store: %w", err)
	}
	s.store = store

	s.fetcher = fetch.New(fetch.WithTimeout(s.fetchTimeout))
	s.normalizer = normalize.New(
		normalize.WithExcludeKeywords(s.excludeKeywords),
		normalize.WithDisplayPrefix(s.displayPrefix),
	)

	classifyOpts := []classify.Option{
		classify.WithNewEventWindow(s.newEventWindowDays),
		classify.WithStockWindow(s.stockWindowDays),
		classify.WithLowStockThreshold(s.lowStockThreshold),
		classify.WithDisplayPrefix(s.displayPrefix),
		classify.WithExcludeKeywords(s.excludeKeywords),
	}
	for kind, priority := range s.priorities {
		classifyOpts = append(classifyOpts, classify.WithPriority(kind, priority))
	}
	s.classifier = classify.New(classifyOpts...)

	s.builder = feed.New(feed.WithSize(s.feedSize))
	s.pool = scan.New(s.captureEvent,
		scan.WithWorkerCount(s.workerCount),
		scan.WithQueueSize(s.queueSize),
	)

	s.started = true
	s.logger.Info(ctx, "tracker service started",
		logger.Int("workers", s.workerCount),
		logger.String("dataDir", s.dataDir),
		logger.String("eventsFile", s.eventsFile),
	)
	return nil
}

// Stop marks the service stopped. Scan runs own no long-lived goroutines.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
}

// RunScan performs one full cycle: load the registry, capture every
// upcoming event's inventory in parallel, then classify all stored
// histories and publish the feed.
//
// Only a missing or unreadable registry is fatal; per-event fetch and
// parse failures are logged and the rest of the batch proceeds.
func (s *Service) RunScan(ctx context.Context) ([]model.Notification, error) {
	runID := uuid.NewString()
	start := time.Now()
	metrics.RecordScanRun()

	events, err := registry.Load(ctx, s.eventsFile)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}

	s.logger.Info(ctx, "scan started",
		logger.String("runID", runID),
		logger.Int("events", len(events)),
	)

	captured := s.pool.Run(ctx, s.upcoming(ctx, events))

	notifications, err := s.generateFeed(ctx, events)
	if err != nil {
		return nil, err
	}
	if err := feedfile.Write(s.feedFile, notifications); err != nil {
		return nil, fmt.Errorf("publish feed: %w", err)
	}
	metrics.RecordFeedPublished()
	metrics.UpdateFeedSize(len(notifications))
	metrics.ObserveScanDuration(time.Since(start).Seconds())

	s.mu.Lock()
	s.lastScan = time.Now()
	s.lastFeed = len(notifications)
	s.mu.Unlock()

	s.logger.Info(ctx, "scan finished",
		logger.String("runID", runID),
		logger.Int("captured", captured),
		logger.Int("notifications", len(notifications)),
		logger.Duration("took", time.Since(start)),
	)
	return notifications, nil
}

// captureEvent is the per-event worker pipeline: fetch, normalize, record.
func (s *Service) captureEvent(ctx context.Context, ev model.EventDescriptor) error {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	rows, err := s.fetcher.Inventory(fetchCtx, ev.URL)
	if err != nil {
		return err
	}

	snapshot := s.normalizer.Snapshot(rows)
	now := time.Now().UTC()
	if _, err := s.store.Record(ctx, ev, model.DayOf(now), now, snapshot); err != nil {
		return err
	}
	metrics.RecordEventCaptured()
	return nil
}

// upcoming filters out events whose valid start date has already passed.
// Events with no or malformed start dates are kept: an unschedulable
// skip check never drops an event.
func (s *Service) upcoming(ctx context.Context, events []model.EventDescriptor) []model.EventDescriptor {
	if !s.skipPastEvents {
		return events
	}

	today := model.DayOf(time.Now().UTC())
	out := make([]model.EventDescriptor, 0, len(events))
	for _, ev := range events {
		if !ev.StartDate.IsZero() && ev.StartDate.Before(today) {
			metrics.RecordEventSkipped()
			s.logger.Debug(ctx, "event already ran, capture skipped",
				logger.String("eventID", ev.ID),
				logger.String("startDate", ev.StartDate.String()),
			)
			continue
		}
		out = append(out, ev)
	}
	return out
}

// generateFeed classifies every stored history and builds the bounded
// feed. Stored histories of events no longer in the registry still
// participate, with their persisted name as a fallback.
func (s *Service) generateFeed(ctx context.Context, events []model.EventDescriptor) ([]model.Notification, error) {
	ids, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list histories: %w", err)
	}

	nameByID := make(map[string]string, len(events))
	for _, ev := range events {
		nameByID[ev.ID] = ev.Name
	}

	now := time.Now().UTC()
	var transitions []model.StockTransition
	for _, id := range ids {
		h, err := s.store.Read(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("read history %s: %w", id, err)
		}
		if name, ok := nameByID[id]; ok && name != "" {
			h.EventName = name
		} else if h.EventName == "" {
			h.EventName = id
		}

		ts := s.classifier.Transitions(h, now)
		for _, t := range ts {
			metrics.RecordTransition(string(t.Kind))
		}
		transitions = append(transitions, ts...)
	}

	return s.builder.Build(transitions), nil
}

// Feed returns the last published feed.
func (s *Service) Feed(ctx context.Context) ([]model.Notification, error) {
	return feedfile.Read(s.feedFile)
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"feedSize":    s.lastFeed,
		"skipPast":    s.skipPastEvents,
		"dataDir":     s.dataDir,
	}
	if !s.lastScan.IsZero() {
		stats["lastScan"] = s.lastScan.UTC().Format(time.RFC3339)
	}
	return stats
}
