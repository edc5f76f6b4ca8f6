// Package normalize builds canonical inventory snapshots from raw fetch rows.
package normalize

import (
	"strings"

	"github.com/okian/racegate/internal/domain/model"
)

// RawLine is one inventory row as extracted by the fetcher, before any
// filtering or merging.
type RawLine struct {
	Category string
	Name     string
	Stock    int
}

// Normalizer converts raw inventory rows into a canonical snapshot.
// It is a pure transformation: no I/O, no shared state.
type Normalizer struct {
	exclude       []string // upper-cased keywords
	displayPrefix string
}

// New creates a Normalizer with configuration options.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Snapshot filters, merges, and orders raw rows into an InventorySnapshot.
//
// Rules:
//   - names are whitespace-trimmed; empty names are dropped
//   - names containing an excluded keyword (case-insensitive) are dropped
//   - negative stock is clamped to zero
//   - duplicate (category, name) rows are merged by summing stock,
//     keeping first-seen order
func (n *Normalizer) Snapshot(rows []RawLine) model.InventorySnapshot {
	type key struct{ category, name string }

	tickets := make([]model.TicketLine, 0, len(rows))
	index := make(map[key]int, len(rows))
	byCategory := make(map[string]map[string]int)

	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" || n.Excluded(name) {
			continue
		}
		category := strings.TrimSpace(row.Category)
		if category == "" {
			category = "Unknown"
		}
		stock := row.Stock
		if stock < 0 {
			stock = 0
		}

		k := key{category: category, name: name}
		if i, ok := index[k]; ok {
			tickets[i].Stock += stock
		} else {
			index[k] = len(tickets)
			tickets = append(tickets, model.TicketLine{Category: category, Name: name, Stock: stock})
		}

		if byCategory[category] == nil {
			byCategory[category] = make(map[string]int)
		}
		byCategory[category][name] += stock
	}

	return model.InventorySnapshot{Tickets: tickets, ByCategory: byCategory}
}

// Excluded reports whether a ticket name matches any exclusion keyword.
func (n *Normalizer) Excluded(name string) bool {
	upper := strings.ToUpper(name)
	for _, kw := range n.exclude {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// DisplayName strips the cosmetic brand prefix for rendered messages.
// The untouched name remains the comparison key everywhere else.
func (n *Normalizer) DisplayName(name string) string {
	if n.displayPrefix == "" {
		return strings.TrimSpace(name)
	}
	return strings.TrimSpace(strings.ReplaceAll(name, n.displayPrefix, ""))
}
