// Package lifecycle drives the reminder state machine. The coordinator
// reacts to app-resume, alert-delivery, and user-action events; all
// durable truth lives in the repository, ordering inside one handler is
// the correctness contract (disarm before arm, stop before play), and
// handlers never run interleaved.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fallenscent22/voice-alert/internal/model"
	"github.com/fallenscent22/voice-alert/internal/notify"
	"github.com/fallenscent22/voice-alert/internal/presence"
	"github.com/fallenscent22/voice-alert/internal/sound"
	"github.com/fallenscent22/voice-alert/internal/storage"
)

const DefaultSnooze = 15 * time.Minute

var ErrUnknownAction = errors.New("lifecycle: unknown notification action")

// Repository is the slice of the reminder store the coordinator needs.
type Repository interface {
	List(ctx context.Context) ([]model.Reminder, error)
	Get(ctx context.Context, id string) (model.Reminder, error)
	Create(ctx context.Context, rem model.Reminder) error
	Update(ctx context.Context, rem model.Reminder) error
	Delete(ctx context.Context, id string) error
	ClearNotificationHandles(ctx context.Context) error
}

type Scheduler interface {
	Arm(ctx context.Context, rem model.Reminder) (string, error)
	ArmSnoozed(ctx context.Context, rem model.Reminder) (string, error)
	Disarm(ctx context.Context, handle string) error
	DisarmAll(ctx context.Context) error
}

type Resolver interface {
	Resolve(audioURI, selectedSound string) (sound.Source, error)
}

type AudioController interface {
	Play(ctx context.Context, src sound.Source) error
	Stop()
}

type SettingsStore interface {
	NotificationsEnabled(ctx context.Context) (bool, error)
	SetNotificationsEnabled(ctx context.Context, v bool) error
	SoundEnabled(ctx context.Context) (bool, error)
}

// Deps wires the coordinator to its collaborators. Presence and Prompt
// may be nil (no-op presence, no UI).
type Deps struct {
	Repo      Repository
	Settings  SettingsStore
	Scheduler Scheduler
	Resolver  Resolver
	Audio     AudioController
	Presence  presence.Presence
	Snooze    time.Duration
	Now       func() time.Time
}

type Coordinator struct {
	repo      Repository
	settings  SettingsStore
	scheduler Scheduler
	resolver  Resolver
	audio     AudioController
	presence  presence.Presence
	snooze    time.Duration
	now       func() time.Time

	// opMu serializes event handlers; lifecycle operations are
	// multi-step read-modify-write cycles and must never interleave.
	opMu   sync.Mutex
	prompt func(model.Reminder)
}

func New(deps Deps) *Coordinator {
	c := &Coordinator{
		repo:      deps.Repo,
		settings:  deps.Settings,
		scheduler: deps.Scheduler,
		resolver:  deps.Resolver,
		audio:     deps.Audio,
		presence:  deps.Presence,
		snooze:    deps.Snooze,
		now:       deps.Now,
	}
	if c.presence == nil {
		c.presence = presence.Noop{}
	}
	if c.snooze <= 0 {
		c.snooze = DefaultSnooze
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// SetPromptHandler registers the snooze/stop prompt surface. The
// coordinator owns alert routing; whoever owns the screen registers
// here instead of listening on a global emitter.
func (c *Coordinator) SetPromptHandler(fn func(model.Reminder)) {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.prompt = fn
}

// Save validates and persists a new or edited reminder: disarm the old
// alert (via arm's replace semantics), arm the new one, then write. A
// failure at any step rejects the save with the stored state untouched.
func (c *Coordinator) Save(ctx context.Context, rem model.Reminder) (model.Reminder, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	creating := false
	if rem.ID == "" {
		rem.ID = uuid.NewString()
		creating = true
	}
	if err := rem.Validate(); err != nil {
		return model.Reminder{}, err
	}

	if !creating {
		stored, err := c.repo.Get(ctx, rem.ID)
		if errors.Is(err, storage.ErrNotFound) {
			creating = true
		} else if err != nil {
			return model.Reminder{}, err
		} else {
			// Arm cancels the prior handle before registering the new
			// alert; hand it the authoritative one.
			rem.NotificationID = stored.NotificationID
		}
	}

	handle, err := c.scheduler.Arm(ctx, rem)
	if err != nil {
		return model.Reminder{}, err
	}
	rem.NotificationID = handle
	rem.Completed = nil

	if creating {
		err = c.repo.Create(ctx, rem)
	} else {
		err = c.repo.Update(ctx, rem)
	}
	if err != nil {
		// The fresh alert must not outlive a rejected save.
		if disarmErr := c.scheduler.Disarm(ctx, handle); disarmErr != nil {
			log.Printf("[lifecycle] disarm after failed save: %v", disarmErr)
		}
		return model.Reminder{}, err
	}
	return rem, nil
}

// Delete disarms and removes a reminder; deleting an absent id is a
// successful no-op.
func (c *Coordinator) Delete(ctx context.Context, id string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	rem, err := c.repo.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := c.scheduler.Disarm(ctx, rem.NotificationID); err != nil {
		return err
	}
	return c.repo.Delete(ctx, id)
}

// HandleResume reconciles stored reminders with the platform alert
// store: future reminders missing a handle get armed, and past-due
// recurring reminders advance to their next occurrence with a fresh
// alert, before any prompt is shown. A resume arriving while one is
// already running is ignored.
func (c *Coordinator) HandleResume(ctx context.Context) error {
	if !c.opMu.TryLock() {
		return nil
	}
	defer c.opMu.Unlock()

	enabled, err := c.settings.NotificationsEnabled(ctx)
	if err != nil {
		return err
	}
	if !enabled {
		return nil
	}

	reminders, err := c.repo.List(ctx)
	if err != nil {
		return err
	}

	now := c.now()
	var errs []error
	for _, rem := range reminders {
		switch {
		case rem.IsRecurring && !rem.Date.After(now):
			rem.Date = rem.NextOccurrence(now)
			if err := c.rearm(ctx, rem); err != nil {
				errs = append(errs, fmt.Errorf("advance %s: %w", rem.ID, err))
			}
		case rem.Date.After(now) && rem.NotificationID == "" && !rem.IsCompleted():
			if err := c.rearm(ctx, rem); err != nil {
				errs = append(errs, fmt.Errorf("rearm %s: %w", rem.ID, err))
			}
		}
		// Past-due one-shots are left alone: the stored handle stays
		// until the alert actually fires.
	}
	return errors.Join(errs...)
}

func (c *Coordinator) rearm(ctx context.Context, rem model.Reminder) error {
	handle, err := c.scheduler.Arm(ctx, rem)
	if err != nil {
		return err
	}
	rem.NotificationID = handle
	return c.repo.Update(ctx, rem)
}

// HandleDelivery routes a fired alert: resolve the reminder from the
// payload, start playback behind the foreground presence, then surface
// the snooze/stop prompt.
func (c *Coordinator) HandleDelivery(ctx context.Context, d notify.Delivery) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	rem, err := c.repo.Get(ctx, d.Payload.ReminderID)
	if err != nil {
		return fmt.Errorf("delivered reminder %q: %w", d.Payload.ReminderID, err)
	}

	// The one-shot alert just consumed its handle.
	if !rem.IsRecurring && rem.NotificationID != "" {
		rem.NotificationID = ""
		if err := c.repo.Update(ctx, rem); err != nil {
			log.Printf("[lifecycle] clear fired handle %s: %v", rem.ID, err)
		}
	}

	playErr := c.playLocked(ctx, rem)
	if c.prompt != nil {
		c.prompt(rem)
	}
	return playErr
}

// HandleAction applies a SNOOZE or STOP chosen on a delivered alert.
func (c *Coordinator) HandleAction(ctx context.Context, reminderID string, action notify.Action) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	rem, err := c.repo.Get(ctx, reminderID)
	if err != nil {
		return fmt.Errorf("action %s on reminder %q: %w", action, reminderID, err)
	}

	switch action {
	case notify.ActionSnooze:
		return c.snoozeLocked(ctx, rem)
	case notify.ActionStop:
		return c.stopLocked(ctx, rem)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

func (c *Coordinator) snoozeLocked(ctx context.Context, rem model.Reminder) error {
	if err := c.scheduler.Disarm(ctx, rem.NotificationID); err != nil {
		return err
	}
	c.audio.Stop()

	rem.Date = c.now().Add(c.snooze)
	rem.NotificationID = ""
	handle, err := c.scheduler.ArmSnoozed(ctx, rem)
	if err != nil {
		return err
	}
	rem.NotificationID = handle
	return c.repo.Update(ctx, rem)
}

func (c *Coordinator) stopLocked(ctx context.Context, rem model.Reminder) error {
	if err := c.scheduler.Disarm(ctx, rem.NotificationID); err != nil {
		return err
	}
	c.audio.Stop()

	rem.NotificationID = ""
	if !rem.IsRecurring {
		completed := true
		rem.Completed = &completed
	}
	// A stopped recurring reminder keeps completed unset; the next
	// resume advances it and arms the following occurrence.
	return c.repo.Update(ctx, rem)
}

// Play starts a reminder's sound on demand, outside any alert.
func (c *Coordinator) Play(ctx context.Context, reminderID string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	rem, err := c.repo.Get(ctx, reminderID)
	if err != nil {
		return err
	}
	return c.playLocked(ctx, rem)
}

// Preview plays a catalog sound by name, outside any reminder.
func (c *Coordinator) Preview(ctx context.Context, name string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	src, err := c.resolver.Resolve("", name)
	if err != nil {
		return err
	}
	if err := c.audio.Play(ctx, src); err != nil {
		return err
	}
	return nil
}

// StopPlayback stops whatever is playing; safe while idle.
func (c *Coordinator) StopPlayback() {
	c.audio.Stop()
}

func (c *Coordinator) playLocked(ctx context.Context, rem model.Reminder) error {
	soundOn, err := c.settings.SoundEnabled(ctx)
	if err != nil {
		log.Printf("[lifecycle] read sound setting: %v", err)
		soundOn = true
	}
	if !soundOn {
		return nil
	}

	src, err := c.resolver.Resolve(rem.AudioURI, rem.SelectedSound)
	if err != nil {
		return err
	}
	if err := c.presence.Start(ctx); err != nil {
		log.Printf("[lifecycle] foreground presence: %v", err)
	}
	if err := c.audio.Play(ctx, src); err != nil {
		c.presence.Stop()
		return err
	}
	return nil
}

// SetNotificationsEnabled persists the global toggle; disabling clears
// every outstanding alert and the stored handles with it.
func (c *Coordinator) SetNotificationsEnabled(ctx context.Context, enabled bool) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if err := c.settings.SetNotificationsEnabled(ctx, enabled); err != nil {
		return err
	}
	if enabled {
		return nil
	}
	if err := c.scheduler.DisarmAll(ctx); err != nil {
		return err
	}
	return c.repo.ClearNotificationHandles(ctx)
}
