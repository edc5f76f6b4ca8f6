// Package feedfile persists the published notification feed.
package feedfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/okian/racegate/internal/domain/model"
)

// ErrBadFeed marks a feed file that exists but cannot be parsed.
var ErrBadFeed = errors.New("feed file unreadable")

// Write publishes the feed atomically via a temp file rename.
func Write(path string, notifications []model.Notification) error {
	if notifications == nil {
		notifications = []model.Notification{}
	}
	data, err := json.MarshalIndent(notifications, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal feed: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write feed: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("publish feed: %w", err)
	}
	return nil
}

// Read loads the last published feed. A missing file is an empty feed.
func Read(path string) ([]model.Notification, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Notification{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrBadFeed, err)
	}

	var notifications []model.Notification
	if err := json.Unmarshal(data, &notifications); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFeed, err)
	}
	return notifications, nil
}
