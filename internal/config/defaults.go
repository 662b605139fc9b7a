package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"storage": map[string]interface{}{
			"path": "~/.voice-alert/voice-alert.db",
		},
		"sounds": map[string]interface{}{
			"dir": "~/.voice-alert/sounds",
		},
		"reminders": map[string]interface{}{
			"snooze": "15m",
		},
		"presence": map[string]interface{}{
			"mode":     "foreground",
			"wakelock": "10m",
		},
		"scheduler": map[string]interface{}{
			"buffer": 16,
		},
		"reconcile": map[string]interface{}{
			"enabled": true,
			"spec":    "@every 1m",
		},
		"playback": map[string]interface{}{
			"enabled": true,
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.voice-alert/config.yaml"
}
