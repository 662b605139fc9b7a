package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/fallenscent22/voice-alert/internal/model"
)

// ReminderRepository owns the reminder collection. Every operation is a
// read-modify-write of the whole collection stored as one JSON array
// under KeyReminders: atomic from the caller's perspective, single-writer
// by construction.
type ReminderRepository struct {
	kv KV
}

func NewReminderRepository(kv KV) *ReminderRepository {
	return &ReminderRepository{kv: kv}
}

// List returns every reminder sorted ascending by trigger date.
func (r *ReminderRepository) List(ctx context.Context) ([]model.Reminder, error) {
	return r.load(ctx)
}

func (r *ReminderRepository) Get(ctx context.Context, id string) (model.Reminder, error) {
	reminders, err := r.load(ctx)
	if err != nil {
		return model.Reminder{}, err
	}
	for _, rem := range reminders {
		if rem.ID == id {
			return rem, nil
		}
	}
	return model.Reminder{}, ErrNotFound
}

func (r *ReminderRepository) Create(ctx context.Context, rem model.Reminder) error {
	reminders, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, existing := range reminders {
		if existing.ID == rem.ID {
			return fmt.Errorf("%w: reminder %q", ErrExists, rem.ID)
		}
	}
	return r.save(ctx, append(reminders, rem))
}

// Update replaces the record with the same id. An absent id reports
// ErrNotFound; it never inserts.
func (r *ReminderRepository) Update(ctx context.Context, rem model.Reminder) error {
	reminders, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i, existing := range reminders {
		if existing.ID == rem.ID {
			reminders[i] = rem
			return r.save(ctx, reminders)
		}
	}
	return ErrNotFound
}

// Delete removes the record with the given id. Deleting an absent id is
// a successful no-op.
func (r *ReminderRepository) Delete(ctx context.Context, id string) error {
	reminders, err := r.load(ctx)
	if err != nil {
		return err
	}
	kept := reminders[:0]
	for _, rem := range reminders {
		if rem.ID != id {
			kept = append(kept, rem)
		}
	}
	if len(kept) == len(reminders) {
		return nil
	}
	return r.save(ctx, kept)
}

// ClearNotificationHandles drops every stored alert handle in one write.
// Used when notifications are globally disabled after the platform alerts
// have been cancelled.
func (r *ReminderRepository) ClearNotificationHandles(ctx context.Context) error {
	reminders, err := r.load(ctx)
	if err != nil {
		return err
	}
	changed := false
	for i := range reminders {
		if reminders[i].NotificationID != "" {
			reminders[i].NotificationID = ""
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return r.save(ctx, reminders)
}

func (r *ReminderRepository) load(ctx context.Context) ([]model.Reminder, error) {
	raw, ok, err := r.kv.Get(ctx, KeyReminders)
	if err != nil {
		return nil, fmt.Errorf("read reminders: %w", err)
	}
	if !ok || raw == "" {
		return []model.Reminder{}, nil
	}
	var reminders []model.Reminder
	if err := json.Unmarshal([]byte(raw), &reminders); err != nil {
		return nil, fmt.Errorf("decode reminders: %w", err)
	}
	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].Date.Before(reminders[j].Date)
	})
	return reminders, nil
}

func (r *ReminderRepository) save(ctx context.Context, reminders []model.Reminder) error {
	raw, err := json.Marshal(reminders)
	if err != nil {
		return fmt.Errorf("encode reminders: %w", err)
	}
	return r.kv.Set(ctx, KeyReminders, string(raw))
}
