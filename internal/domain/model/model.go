// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"time"
)

// dayFormat is the canonical key format for one calendar day of history.
const dayFormat = "2006-01-02"

// Day is a calendar date without a time component. It is the key under
// which snapshots are merged into an event's history.
type Day struct {
	t time.Time
}

// DayOf truncates a timestamp to its calendar date.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// NewDay builds a Day from explicit components.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayFormat, s)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return DayOf(t), nil
}

// String renders the day in YYYY-MM-DD form.
func (d Day) String() string { return d.t.Format(dayFormat) }

// Time returns the midnight UTC instant of the day.
func (d Day) Time() time.Time { return d.t }

// IsZero reports whether the day is the zero value.
func (d Day) IsZero() bool { return d.t.IsZero() }

// Before reports whether d falls strictly before other.
func (d Day) Before(other Day) bool { return d.t.Before(other.t) }

// After reports whether d falls strictly after other.
func (d Day) After(other Day) bool { return d.t.After(other.t) }

// Equal reports whether two days are the same calendar date.
func (d Day) Equal(other Day) bool { return d.t.Equal(other.t) }

// AddDays returns the day shifted by n calendar days (n may be negative).
func (d Day) AddDays(n int) Day { return Day{t: d.t.AddDate(0, 0, n)} }

// MarshalJSON encodes the day as a YYYY-MM-DD string.
func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Day) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("day must be a %q string, got %s", dayFormat, data)
	}
	parsed, err := ParseDay(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// EventDescriptor identifies one tracked event from the registry.
// Descriptors are immutable within a run.
type EventDescriptor struct {
	ID        string // stable slug-like id, e.g. "hyrox-vienna-2026"
	Name      string
	URL       string
	StartDate Day // zero when unknown or malformed in the registry
}

// TicketLine is one normalized inventory row.
type TicketLine struct {
	Category string `json:"category"`
	Name     string `json:"ticket"`
	Stock    int    `json:"stock"`
}

// InventorySnapshot is the canonical, exclusion-filtered inventory of one
// event at one point in time.
type InventorySnapshot struct {
	Tickets    []TicketLine              `json:"tickets"`
	ByCategory map[string]map[string]int `json:"by_category"`
}

// StockByName flattens the snapshot into ticket name -> total stock,
// summing across categories. Classification compares by name only.
func (s InventorySnapshot) StockByName() map[string]int {
	out := make(map[string]int, len(s.Tickets))
	for _, t := range s.Tickets {
		out[t.Name] += t.Stock
	}
	return out
}

// HistoryRecord is one captured day of inventory for an event. At most one
// record exists per (event, date); a same-day re-capture replaces it.
type HistoryRecord struct {
	Date      Day               `json:"date"`
	FetchedAt time.Time         `json:"fetched_at"`
	Data      InventorySnapshot `json:"data"`
}

// EventHistory is the chronologically ordered snapshot series for one
// event id. History is strictly ascending by date with no duplicates.
type EventHistory struct {
	EventID   string          `json:"event_id"`
	EventName string          `json:"event_name"`
	URL       string          `json:"url"`
	History   []HistoryRecord `json:"history"`
}

// TransitionKind classifies a stock transition between consecutive days.
type TransitionKind string

// Transition kinds, in the wire spelling used by the published feed.
const (
	KindNewEvent TransitionKind = "new_event"
	KindRestock  TransitionKind = "restock"
	KindLowStock TransitionKind = "low_stock"
	KindSoldOut  TransitionKind = "soldout"
)

// StockTransition is a derived, ephemeral classification of one ticket's
// movement between two consecutive history records. Only the rendered
// notification list is persisted, never transitions themselves.
type StockTransition struct {
	EventID      string
	EventName    string
	TicketName   string // display name: cosmetic prefix stripped
	PriorStock   int
	CurrentStock int
	ObservedDate Day
	Kind         TransitionKind
	Priority     int
}

// Notification is one rendered entry of the published feed.
type Notification struct {
	Type     TransitionKind `json:"type"`
	Message  string         `json:"message"`
	Date     Day            `json:"date"`
	Priority int            `json:"priority"`
}
