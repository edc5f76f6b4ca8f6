package normalize

import "strings"

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithExcludeKeywords sets the exclusion keyword list. Matching is
// case-insensitive substring.
func WithExcludeKeywords(keywords []string) Option {
	return func(n *Normalizer) {
		n.exclude = n.exclude[:0]
		for _, kw := range keywords {
			kw = strings.ToUpper(strings.TrimSpace(kw))
			if kw != "" {
				n.exclude = append(n.exclude, kw)
			}
		}
	}
}

// WithDisplayPrefix sets the cosmetic brand token stripped from display names.
func WithDisplayPrefix(prefix string) Option {
	return func(n *Normalizer) {
		n.displayPrefix = strings.TrimSpace(prefix)
	}
}
