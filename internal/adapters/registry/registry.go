// Package registry loads the tracked-event list from disk.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tidwall/jsonc"

	"github.com/okian/racegate/internal/domain/model"
	"github.com/okian/racegate/pkg/logger"
)

// startDateFormat is the dd.mm.yyyy form the registry builder writes.
const startDateFormat = "02.01.2006"

// Sentinel kinds for registry errors. A missing registry is fatal for a
// run: without it there are no events to process.
var (
	ErrMissingRegistry = errors.New("events registry not found")
	ErrBadRegistry     = errors.New("events registry unreadable")
)

// fileEvent mirrors one entry of the registry file.
type fileEvent struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	StartDate string `json:"startDate"`
}

// Load reads the registry file into event descriptors. The file is JSON
// with comments and trailing commas tolerated.
//
// Entries without an id or url are dropped. A malformed start date only
// disables the skip-if-past check for that event: it is logged and the
// event is still processed.
func Load(ctx context.Context, path string) ([]model.EventDescriptor, error) {
	log := logger.Get().Named("registry")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingRegistry, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrBadRegistry, err)
	}

	var raw []fileEvent
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRegistry, err)
	}

	events := make([]model.EventDescriptor, 0, len(raw))
	for _, r := range raw {
		if r.ID == "" || r.URL == "" {
			log.Warn(ctx, "registry entry missing id or url, dropped",
				logger.String("name", r.Name),
			)
			continue
		}

		ev := model.EventDescriptor{ID: r.ID, Name: r.Name, URL: r.URL}
		if ev.Name == "" {
			ev.Name = r.ID
		}
		if r.StartDate != "" {
			t, err := time.Parse(startDateFormat, r.StartDate)
			if err != nil {
				log.Warn(ctx, "registry entry has malformed start date, processing anyway",
					logger.String("eventID", r.ID),
					logger.String("startDate", r.StartDate),
				)
			} else {
				ev.StartDate = model.DayOf(t)
			}
		}
		events = append(events, ev)
	}
	return events, nil
}
