package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robfig/cron/v3"

	"github.com/fallenscent22/voice-alert/internal/audio"
	"github.com/fallenscent22/voice-alert/internal/config"
	"github.com/fallenscent22/voice-alert/internal/lifecycle"
	"github.com/fallenscent22/voice-alert/internal/notify"
	"github.com/fallenscent22/voice-alert/internal/presence"
	"github.com/fallenscent22/voice-alert/internal/sound"
	"github.com/fallenscent22/voice-alert/internal/storage"
	"github.com/fallenscent22/voice-alert/internal/update"
)

// logNotice surfaces the foreground-playback banner on the process log;
// the TUI owns the screen, so the notice has nowhere else to go.
type logNotice struct{}

func (logNotice) Show(title, body string) { log.Printf("[notice] %s: %s", title, body) }
func (logNotice) Clear()                  {}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "voice-alert failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.GetDefaultConfigPath(), "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	snooze, _ := cfg.SnoozeInterval()
	wakeLock, _ := cfg.WakeLockBound()

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	kv, err := storage.OpenSQLite(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer kv.Close()

	repo := storage.NewReminderRepository(kv)
	settings := storage.NewSettings(kv)

	engine := notify.NewEngine(cfg.Scheduler.Buffer)
	engine.Start()
	defer engine.Stop()

	var pres presence.Presence = presence.Noop{}
	if cfg.Presence.Mode == config.PresenceForeground {
		pres = presence.NewForeground(wakeLock, logNotice{})
	}

	var player audio.Player = audio.NewBeepPlayer()
	controller := audio.NewController(player)
	// Playback ending for any reason releases the foreground presence.
	controller.SetIdleObserver(pres.Stop)
	if !cfg.Playback.Enabled {
		controller = nil
	}

	coord := lifecycle.New(lifecycle.Deps{
		Repo:      repo,
		Settings:  settings,
		Scheduler: notify.NewScheduler(engine),
		Resolver:  sound.NewResolver(cfg.Sounds.Dir),
		Audio:     audioOrSilent(controller),
		Presence:  pres,
		Snooze:    snooze,
	})

	ctx := context.Background()
	if err := coord.HandleResume(ctx); err != nil {
		log.Printf("[main] startup reconcile: %v", err)
	}

	var reconciler *cron.Cron
	if cfg.Reconcile.Enabled {
		reconciler = cron.New()
		if _, err := reconciler.AddFunc(cfg.Reconcile.Spec, func() {
			if err := coord.HandleResume(context.Background()); err != nil {
				log.Printf("[main] reconcile: %v", err)
			}
		}); err != nil {
			return fmt.Errorf("schedule reconcile: %w", err)
		}
		reconciler.Start()
		defer reconciler.Stop()
	}

	m := update.NewModel(coord, repo, settings, engine.Deliveries())
	program := tea.NewProgram(m)
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

// silentAudio stands in when playback is configured off; alerts still
// fire and prompt, they just make no noise.
type silentAudio struct{}

func (silentAudio) Play(context.Context, sound.Source) error { return nil }
func (silentAudio) Stop()                                    {}

func audioOrSilent(c *audio.Controller) lifecycle.AudioController {
	if c == nil {
		return silentAudio{}
	}
	return c
}
