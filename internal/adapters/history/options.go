package history

import "github.com/okian/racegate/pkg/logger"

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithDir sets the data directory holding per-event history files.
func WithDir(dir string) Option {
	return func(s *FileStore) {
		if dir != "" {
			s.dir = dir
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}
