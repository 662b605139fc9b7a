package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("storage: not found")
	ErrExists      = errors.New("storage: already exists")
	ErrPersistence = errors.New("storage: persistence failed")
)

// Fixed keys in the durable store. The whole reminder collection lives
// under a single key as one JSON blob; settings are individual JSON
// booleans.
const (
	KeyReminders            = "reminders"
	KeyNotificationsEnabled = "notificationsEnabled"
	KeySoundEnabled         = "soundEnabled"
	KeyDarkMode             = "darkMode"
)

// KV is the durable store capability: string keys to string values,
// surviving process restarts. Only the repository and settings layers
// talk to it; nothing else addresses the store directly.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
