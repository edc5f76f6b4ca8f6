package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/okian/racegate/internal/domain/model"
	"github.com/okian/racegate/pkg/logger"
	"github.com/okian/racegate/pkg/metrics"
)

// FileStore implements Store with one JSON file per event id under a
// data directory. The file layout matches the published history shape:
// {event_id, event_name, url, history: [{date, fetched_at, data}]}.
type FileStore struct {
	dir    string
	logger logger.Logger
}

// NewFileStore creates the store and its data directory.
func NewFileStore(ctx context.Context, opts ...Option) (*FileStore, error) {
	s := &FileStore{
		dir:    "data",
		logger: logger.Get().Named("history"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", s.dir, err)
	}
	return s, nil
}

// Record merges one day's snapshot into the event's persisted history.
// The insert keeps the history sorted ascending by date; an existing
// record for the same day is replaced in place.
func (s *FileStore) Record(ctx context.Context, ev model.EventDescriptor, day model.Day, fetchedAt time.Time, snapshot model.InventorySnapshot) (model.EventHistory, error) {
	if ev.ID == "" {
		return model.EventHistory{}, ErrEmptyEventID
	}

	h := s.load(ctx, ev.ID)
	h.EventID = ev.ID
	if ev.Name != "" {
		h.EventName = ev.Name
	}
	if ev.URL != "" {
		h.URL = ev.URL
	}

	record := model.HistoryRecord{Date: day, FetchedAt: fetchedAt, Data: snapshot}

	// Sorted insert: in practice captures arrive at or after the latest
	// date, but backfills and out-of-order captures must keep the
	// ascending-by-date invariant too.
	i := sort.Search(len(h.History), func(i int) bool {
		return !h.History[i].Date.Before(day)
	})
	switch {
	case i < len(h.History) && h.History[i].Date.Equal(day):
		h.History[i] = record
	default:
		h.History = append(h.History, model.HistoryRecord{})
		copy(h.History[i+1:], h.History[i:])
		h.History[i] = record
	}

	if err := s.save(h); err != nil {
		return model.EventHistory{}, err
	}
	metrics.RecordHistoryWrite()
	return h, nil
}

// Read returns the stored history, or an empty history for unknown ids.
func (s *FileStore) Read(ctx context.Context, eventID string) (model.EventHistory, error) {
	if eventID == "" {
		return model.EventHistory{}, ErrEmptyEventID
	}
	return s.load(ctx, eventID), nil
}

// List returns event ids with a stored history file.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir %s: %w", s.dir, err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// load reads a history file, degrading to an empty history when the file
// is missing or corrupt. One bad file must not block other events.
func (s *FileStore) load(ctx context.Context, eventID string) model.EventHistory {
	empty := model.EventHistory{EventID: eventID}

	data, err := os.ReadFile(s.path(eventID))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn(ctx, "history unreadable, starting fresh",
				logger.String("eventID", eventID),
				logger.Error(err),
			)
			metrics.RecordCorruptHistory()
		}
		return empty
	}

	var h model.EventHistory
	if err := json.Unmarshal(data, &h); err != nil {
		s.logger.Warn(ctx, "history corrupt, starting fresh",
			logger.String("eventID", eventID),
			logger.Error(err),
		)
		metrics.RecordCorruptHistory()
		return empty
	}
	if h.EventID == "" {
		h.EventID = eventID
	}
	return h
}

// save writes the history atomically via a temp file rename.
func (s *FileStore) save(h model.EventHistory) error {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrWriteFailed, h.EventID, err)
	}

	path := s.path(h.EventID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

func (s *FileStore) path(eventID string) string {
	return filepath.Join(s.dir, eventID+".json")
}
