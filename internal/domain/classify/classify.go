// Package classify derives stock transitions from an event's snapshot history.
package classify

import (
	"sort"
	"strings"
	"time"

	"github.com/okian/racegate/internal/domain/model"
)

// Default classifier configuration constants.
const (
	defaultNewEventWindowDays = 7
	defaultStockWindowDays    = 3
	defaultLowStockThreshold  = 5
)

// Classifier turns an EventHistory into zero or more StockTransitions.
// It is a pure function of the history, the clock passed to Transitions,
// and its configuration; it performs no I/O.
type Classifier struct {
	newEventWindowDays int
	stockWindowDays    int
	lowStockThreshold  int
	displayPrefix      string
	exclude            []string // upper-cased keywords
	priorities         map[model.TransitionKind]int
}

// New creates a Classifier with configuration options.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		newEventWindowDays: defaultNewEventWindowDays,
		stockWindowDays:    defaultStockWindowDays,
		lowStockThreshold:  defaultLowStockThreshold,
		priorities: map[model.TransitionKind]int{
			model.KindRestock:  3,
			model.KindLowStock: 2,
			model.KindNewEvent: 1,
			model.KindSoldOut:  0,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transitions computes the transitions implied by h as of now.
//
// A new-listing transition fires while the first record is still inside the
// new-event window, inclusive at the edge. Stock transitions come from a
// backward pairwise scan over consecutive records; the scan stops at the
// first record older than the stock window. Per ticket and per day-pair at
// most one transition kind fires: restock, then low-stock, then sold-out,
// first match wins.
func (c *Classifier) Transitions(h model.EventHistory, now time.Time) []model.StockTransition {
	if len(h.History) == 0 {
		return nil
	}

	today := model.DayOf(now.UTC())
	var out []model.StockTransition

	first := h.History[0]
	if !first.Date.Before(today.AddDays(-c.newEventWindowDays)) {
		out = append(out, model.StockTransition{
			EventID:      h.EventID,
			EventName:    h.EventName,
			ObservedDate: first.Date,
			Kind:         model.KindNewEvent,
			Priority:     c.priorities[model.KindNewEvent],
		})
	}

	stockCutoff := today.AddDays(-c.stockWindowDays)
	for i := len(h.History) - 1; i >= 1; i-- {
		curr := h.History[i]
		if curr.Date.Before(stockCutoff) {
			break
		}
		out = append(out, c.classifyPair(h, h.History[i-1], curr)...)
	}

	return out
}

// classifyPair compares one consecutive day pair. Tickets present on either
// side participate; an absent side counts as zero stock.
func (c *Classifier) classifyPair(h model.EventHistory, prev, curr model.HistoryRecord) []model.StockTransition {
	prevStock := prev.Data.StockByName()
	currStock := curr.Data.StockByName()

	names := make([]string, 0, len(prevStock)+len(currStock))
	for name := range currStock {
		names = append(names, name)
	}
	for name := range prevStock {
		if _, ok := currStock[name]; !ok {
			names = append(names, name)
		}
	}
	// Deterministic order so equal-key feed ties are stable across runs.
	sort.Strings(names)

	var out []model.StockTransition
	for _, name := range names {
		if c.excluded(name) {
			continue
		}
		before := prevStock[name]
		after := currStock[name]

		var kind model.TransitionKind
		switch {
		case before == 0 && after > 0:
			kind = model.KindRestock
		case before > c.lowStockThreshold && after > 0 && after <= c.lowStockThreshold:
			kind = model.KindLowStock
		case before > 0 && after == 0:
			kind = model.KindSoldOut
		default:
			continue
		}

		out = append(out, model.StockTransition{
			EventID:      h.EventID,
			EventName:    h.EventName,
			TicketName:   c.displayName(name),
			PriorStock:   before,
			CurrentStock: after,
			ObservedDate: curr.Date,
			Kind:         kind,
			Priority:     c.priorities[kind],
		})
	}
	return out
}

func (c *Classifier) excluded(name string) bool {
	upper := strings.ToUpper(name)
	for _, kw := range c.exclude {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

func (c *Classifier) displayName(name string) string {
	if c.displayPrefix == "" {
		return strings.TrimSpace(name)
	}
	return strings.TrimSpace(strings.ReplaceAll(name, c.displayPrefix, ""))
}
