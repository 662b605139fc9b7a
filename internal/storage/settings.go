package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// Settings exposes the persisted boolean flags. Values are stored as
// JSON booleans, matching the reminder blob encoding.
type Settings struct {
	kv KV
}

func NewSettings(kv KV) *Settings {
	return &Settings{kv: kv}
}

// NotificationsEnabled defaults to true until the user toggles it off.
func (s *Settings) NotificationsEnabled(ctx context.Context) (bool, error) {
	return s.flag(ctx, KeyNotificationsEnabled, true)
}

func (s *Settings) SetNotificationsEnabled(ctx context.Context, v bool) error {
	return s.setFlag(ctx, KeyNotificationsEnabled, v)
}

func (s *Settings) SoundEnabled(ctx context.Context) (bool, error) {
	return s.flag(ctx, KeySoundEnabled, true)
}

func (s *Settings) SetSoundEnabled(ctx context.Context, v bool) error {
	return s.setFlag(ctx, KeySoundEnabled, v)
}

func (s *Settings) DarkMode(ctx context.Context) (bool, error) {
	return s.flag(ctx, KeyDarkMode, false)
}

func (s *Settings) SetDarkMode(ctx context.Context, v bool) error {
	return s.setFlag(ctx, KeyDarkMode, v)
}

func (s *Settings) flag(ctx context.Context, key string, fallback bool) (bool, error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return fallback, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || raw == "" {
		return fallback, nil
	}
	var v bool
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return fallback, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, nil
}

func (s *Settings) setFlag(ctx context.Context, key string, v bool) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, string(raw))
}
