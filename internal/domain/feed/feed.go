// Package feed renders and orders the published notification list.
package feed

import (
	"fmt"
	"sort"

	"github.com/okian/racegate/internal/domain/model"
)

// defaultSize caps the published feed when not configured.
const defaultSize = 20

// Message templates per transition kind. Arguments are always, in order:
// event name, ticket name, stock count; indexed verbs let a template use
// only the ones it needs.
var defaultTemplates = map[model.TransitionKind]string{
	model.KindNewEvent: "NEW RACE: %[1]s just landed on the calendar!",
	model.KindRestock:  "TICKETS LIVE: %[1]s - %[3]d tickets just opened in %[2]s!",
	model.KindLowStock: "RUNNING LOW: %[1]s - only %[3]d left in %[2]s.",
	model.KindSoldOut:  "SOLD OUT: %[1]s - %[2]s is gone.",
}

// Builder turns classified transitions into the final bounded feed.
// It is pure: rendering, sorting, and truncation only.
type Builder struct {
	size      int
	templates map[model.TransitionKind]string
}

// New creates a Builder with configuration options.
func New(opts ...Option) *Builder {
	b := &Builder{
		size:      defaultSize,
		templates: make(map[model.TransitionKind]string, len(defaultTemplates)),
	}
	for kind, tmpl := range defaultTemplates {
		b.templates[kind] = tmpl
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build renders transitions and returns the feed ordered by
// (date descending, priority descending), truncated to the feed size.
// The sort is stable: same-key transitions keep their production order.
// Truncation is a hard cap on feed length, applied after ordering.
func (b *Builder) Build(transitions []model.StockTransition) []model.Notification {
	out := make([]model.Notification, 0, len(transitions))
	for _, t := range transitions {
		out = append(out, model.Notification{
			Type:     t.Kind,
			Message:  b.render(t),
			Date:     t.ObservedDate,
			Priority: t.Priority,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Priority > out[j].Priority
	})

	if len(out) > b.size {
		out = out[:b.size]
	}
	return out
}

func (b *Builder) render(t model.StockTransition) string {
	tmpl, ok := b.templates[t.Kind]
	if !ok {
		return fmt.Sprintf("%s: %s %s", t.Kind, t.EventName, t.TicketName)
	}
	return fmt.Sprintf(tmpl, t.EventName, t.TicketName, t.CurrentStock)
}
