// Package config loads the application configuration from defaults, an
// optional YAML file, and VOICEALERT_* environment variables, in that
// order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
)

const (
	PresenceForeground = "foreground"
	PresenceNoop       = "noop"
)

type Config struct {
	Storage   StorageConfig   `koanf:"storage"`
	Sounds    SoundsConfig    `koanf:"sounds"`
	Reminders RemindersConfig `koanf:"reminders"`
	Presence  PresenceConfig  `koanf:"presence"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Reconcile ReconcileConfig `koanf:"reconcile"`
	Playback  PlaybackConfig  `koanf:"playback"`
}

type StorageConfig struct {
	Path string `koanf:"path"`
}

type SoundsConfig struct {
	Dir string `koanf:"dir"`
}

type RemindersConfig struct {
	Snooze string `koanf:"snooze"`
}

type PresenceConfig struct {
	Mode     string `koanf:"mode"`
	Wakelock string `koanf:"wakelock"`
}

type SchedulerConfig struct {
	Buffer int `koanf:"buffer"`
}

// ReconcileConfig controls the periodic pass that rearms reminders
// whose alerts were lost while the process was down.
type ReconcileConfig struct {
	Enabled bool   `koanf:"enabled"`
	Spec    string `koanf:"spec"`
}

type PlaybackConfig struct {
	Enabled bool `koanf:"enabled"`
}

func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = expandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	// VOICEALERT_STORAGE_PATH -> storage.path; leaf keys are single
	// words so the underscore split is unambiguous.
	if err := k.Load(env.Provider("VOICEALERT_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "VOICEALERT_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Storage.Path = expandPath(cfg.Storage.Path)
	cfg.Sounds.Dir = expandPath(cfg.Sounds.Dir)
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Storage.Path == "" {
		return fmt.Errorf("storage path is required")
	}
	if _, err := c.SnoozeInterval(); err != nil {
		return err
	}
	if _, err := c.WakeLockBound(); err != nil {
		return err
	}
	switch c.Presence.Mode {
	case PresenceForeground, PresenceNoop:
	default:
		return fmt.Errorf("unknown presence mode: %s (supported: %s, %s)",
			c.Presence.Mode, PresenceForeground, PresenceNoop)
	}
	if c.Scheduler.Buffer <= 0 {
		return fmt.Errorf("scheduler buffer must be positive")
	}
	if c.Reconcile.Enabled {
		if _, err := cron.ParseStandard(c.Reconcile.Spec); err != nil {
			return fmt.Errorf("bad reconcile spec %q: %w", c.Reconcile.Spec, err)
		}
	}
	return nil
}

func (c *Config) SnoozeInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Reminders.Snooze)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("bad snooze interval %q", c.Reminders.Snooze)
	}
	return d, nil
}

func (c *Config) WakeLockBound() (time.Duration, error) {
	d, err := time.ParseDuration(c.Presence.Wakelock)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("bad wakelock bound %q", c.Presence.Wakelock)
	}
	return d, nil
}

func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}
