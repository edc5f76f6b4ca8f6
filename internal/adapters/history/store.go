// Package history persists per-event snapshot time series.
package history

import (
	"context"
	"time"

	"github.com/okian/racegate/internal/domain/model"
)

// Store provides read/write access to event histories.
//
// Invariants held by every implementation:
//   - at most one record per (event id, day); same-day writes replace
//   - the history slice is strictly ascending by date
//   - reading an unknown or corrupt event id yields an empty history,
//     never an error that would block other events
type Store interface {
	// Record merges one day's snapshot into the event's history and
	// returns the updated history. Last write wins per (event, day).
	Record(ctx context.Context, ev model.EventDescriptor, day model.Day, fetchedAt time.Time, snapshot model.InventorySnapshot) (model.EventHistory, error)

	// Read returns the stored history for an event id, or an empty
	// history when none exists.
	Read(ctx context.Context, eventID string) (model.EventHistory, error)

	// List returns the event ids that have stored history.
	List(ctx context.Context) ([]string, error)
}
