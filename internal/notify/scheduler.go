package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fallenscent22/voice-alert/internal/model"
)

var ErrInvalidScheduleTime = errors.New("notify: schedule time must be in the future")

const defaultBody = "Time for your reminder!"

// Scheduler arms and disarms platform alerts for reminders. It enforces
// the one-armed-handle rule: arming always cancels the reminder's prior
// handle before registering a new alert.
type Scheduler struct {
	platform Platform
	now      func() time.Time
}

func NewScheduler(platform Platform) *Scheduler {
	return &Scheduler{platform: platform, now: time.Now}
}

// Arm validates the trigger, disarms any prior handle held by the
// reminder, and registers a fresh alert. Recurring reminders repeat
// daily after the first delivery.
func (s *Scheduler) Arm(ctx context.Context, rem model.Reminder) (string, error) {
	return s.arm(ctx, rem, defaultBody)
}

// ArmSnoozed is Arm with the snooze delivery body.
func (s *Scheduler) ArmSnoozed(ctx context.Context, rem model.Reminder) (string, error) {
	return s.arm(ctx, rem, "Reminder Snoozed")
}

func (s *Scheduler) arm(ctx context.Context, rem model.Reminder, body string) (string, error) {
	if !rem.Date.After(s.now()) {
		return "", fmt.Errorf("%w: %s", ErrInvalidScheduleTime, rem.Date.Format(time.RFC3339))
	}
	if rem.NotificationID != "" {
		if err := s.platform.Cancel(ctx, rem.NotificationID); err != nil {
			return "", fmt.Errorf("cancel stale alert: %w", err)
		}
	}

	handle, err := s.platform.Schedule(ctx,
		Content{
			Title: rem.Title,
			Body:  body,
			Payload: Payload{
				ReminderID:    rem.ID,
				AudioURI:      rem.AudioURI,
				SelectedSound: rem.SelectedSound,
			},
		},
		Trigger{At: rem.Date, RepeatDaily: rem.IsRecurring},
	)
	if err != nil {
		return "", fmt.Errorf("schedule alert: %w", err)
	}
	return handle, nil
}

// Disarm cancels a specific alert. Empty, fired, and unknown handles are
// successful no-ops.
func (s *Scheduler) Disarm(ctx context.Context, handle string) error {
	if handle == "" {
		return nil
	}
	return s.platform.Cancel(ctx, handle)
}

// DisarmAll clears every outstanding alert; used when the user disables
// notifications globally.
func (s *Scheduler) DisarmAll(ctx context.Context) error {
	return s.platform.CancelAll(ctx)
}
