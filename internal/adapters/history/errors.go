package history

import "errors"

// Sentinel kinds for history store errors.
var (
	ErrEmptyEventID = errors.New("empty event id")
	ErrWriteFailed  = errors.New("history write failed")
)
