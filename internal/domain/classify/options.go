package classify

import (
	"strings"

	"github.com/okian/racegate/internal/domain/model"
)

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithNewEventWindow sets how many days a first record stays announceable
// as a new listing.
func WithNewEventWindow(days int) Option {
	return func(c *Classifier) {
		if days >= 0 {
			c.newEventWindowDays = days
		}
	}
}

// WithStockWindow sets how many days back the pairwise scan reaches.
func WithStockWindow(days int) Option {
	return func(c *Classifier) {
		if days >= 0 {
			c.stockWindowDays = days
		}
	}
}

// WithLowStockThreshold sets the running-low stock boundary.
func WithLowStockThreshold(threshold int) Option {
	return func(c *Classifier) {
		if threshold >= 0 {
			c.lowStockThreshold = threshold
		}
	}
}

// WithDisplayPrefix sets the cosmetic brand token stripped from ticket
// names carried on transitions.
func WithDisplayPrefix(prefix string) Option {
	return func(c *Classifier) {
		c.displayPrefix = strings.TrimSpace(prefix)
	}
}

// WithExcludeKeywords guards against excluded tickets surfacing from
// histories recorded before the exclusion list grew.
func WithExcludeKeywords(keywords []string) Option {
	return func(c *Classifier) {
		c.exclude = c.exclude[:0]
		for _, kw := range keywords {
			kw = strings.ToUpper(strings.TrimSpace(kw))
			if kw != "" {
				c.exclude = append(c.exclude, kw)
			}
		}
	}
}

// WithPriority overrides the priority assigned to one transition kind.
func WithPriority(kind model.TransitionKind, priority int) Option {
	return func(c *Classifier) {
		c.priorities[kind] = priority
	}
}
