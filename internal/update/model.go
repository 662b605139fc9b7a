// Package update holds the terminal UI: a bubbletea model over the
// reminder list, a slash-command palette, and the alert prompt shown
// when a reminder fires.
package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/fallenscent22/voice-alert/internal/lifecycle"
	"github.com/fallenscent22/voice-alert/internal/model"
	"github.com/fallenscent22/voice-alert/internal/notify"
)

// Backend is the slice of the lifecycle coordinator the UI drives.
type Backend interface {
	Save(ctx context.Context, rem model.Reminder) (model.Reminder, error)
	Delete(ctx context.Context, id string) error
	Play(ctx context.Context, id string) error
	Preview(ctx context.Context, name string) error
	StopPlayback()
	HandleDelivery(ctx context.Context, d notify.Delivery) error
	HandleAction(ctx context.Context, id string, action notify.Action) error
	SetNotificationsEnabled(ctx context.Context, enabled bool) error
}

type SettingsAccess interface {
	NotificationsEnabled(ctx context.Context) (bool, error)
	SoundEnabled(ctx context.Context) (bool, error)
	DarkMode(ctx context.Context) (bool, error)
	SetSoundEnabled(ctx context.Context, v bool) error
	SetDarkMode(ctx context.Context, v bool) error
}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Up      string
	Down    string
	Play    string
	Delete  string
	Refresh string
	Help    string
	Quit    string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// ActiveAlert is a fired reminder waiting for the user to snooze or
// stop it.
type ActiveAlert struct {
	Reminder model.Reminder
	Body     string
}

type Model struct {
	Items         []model.Reminder
	Cursor        int
	Scope         string // "", "all", or "done"
	Palette       CommandPaletteState
	Status        StatusBar
	Alert         *ActiveAlert
	Notifications bool
	Sound         bool
	Dark          bool
	HelpVisible   bool
	SoundsPane    bool
	Keys          GlobalKeyMap
	Quitting      bool

	backend      Backend
	repo         lifecycle.Repository
	settings     SettingsAccess
	deliveries   <-chan notify.Delivery
	commandInput textinput.Model
	now          func() time.Time
}

type SetRemindersMsg struct {
	Items []model.Reminder
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type AppErrorMsg struct {
	Err error
}

// SetSettingsMsg carries the persisted settings flags; View renders
// only these cached copies.
type SetSettingsMsg struct {
	Notifications bool
	Sound         bool
	Dark          bool
}

// ReminderAlertMsg arrives when the platform delivers an alert.
type ReminderAlertMsg struct {
	Delivery notify.Delivery
}

// AlertReadyMsg follows ReminderAlertMsg once the delivery has been
// routed through the coordinator and the reminder looked up.
type AlertReadyMsg struct {
	Reminder model.Reminder
	Body     string
	Err      error
}

type ActionDoneMsg struct {
	Action notify.Action
	Err    error
}

func NewModel(backend Backend, repo lifecycle.Repository, settings SettingsAccess, deliveries <-chan notify.Delivery) Model {
	m := Model{
		backend:       backend,
		repo:          repo,
		settings:      settings,
		deliveries:    deliveries,
		now:           time.Now,
		Notifications: true,
		Sound:         true,
		Keys: GlobalKeyMap{
			Up:      "k",
			Down:    "j",
			Play:    "p",
			Delete:  "D",
			Refresh: "r",
			Help:    "?",
			Quit:    "q",
		},
	}

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	if settings != nil {
		ctx := context.Background()
		if v, err := settings.NotificationsEnabled(ctx); err == nil {
			m.Notifications = v
		}
		if v, err := settings.SoundEnabled(ctx); err == nil {
			m.Sound = v
		}
		if v, err := settings.DarkMode(ctx); err == nil {
			m.Dark = v
		}
	}
	return m
}
