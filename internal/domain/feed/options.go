package feed

import "github.com/okian/racegate/internal/domain/model"

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithSize sets the maximum length of the published feed.
func WithSize(size int) Option {
	return func(b *Builder) {
		if size > 0 {
			b.size = size
		}
	}
}

// WithTemplate overrides the message template for one transition kind.
// Templates receive event name, ticket name, and stock count as %[1]s,
// %[2]s, and %[3]d.
func WithTemplate(kind model.TransitionKind, template string) Option {
	return func(b *Builder) {
		if template != "" {
			b.templates[kind] = template
		}
	}
}
