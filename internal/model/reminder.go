package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrMissingID     = errors.New("model: reminder id is required")
	ErrMissingTitle  = errors.New("model: reminder title is required")
	ErrMissingDate   = errors.New("model: reminder date is required")
	ErrNoSoundSource = errors.New("model: reminder needs a recording or a catalog sound")
)

// Reminder is a scheduled alert with an attached sound. AudioURI points at
// a locally recorded file; SelectedSound names a catalog entry. When both
// are set the recording wins. NotificationID holds the handle of the
// currently armed alert and is empty while nothing is armed.
type Reminder struct {
	ID             string
	Title          string
	Date           time.Time
	IsRecurring    bool
	AudioURI       string
	SelectedSound  string
	NotificationID string
	Completed      *bool
}

func (r Reminder) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(r.Title) == "" {
		return ErrMissingTitle
	}
	if r.Date.IsZero() {
		return ErrMissingDate
	}
	if !r.HasSoundSource() {
		return ErrNoSoundSource
	}
	return nil
}

func (r Reminder) HasSoundSource() bool {
	return strings.TrimSpace(r.AudioURI) != "" || strings.TrimSpace(r.SelectedSound) != ""
}

// IsCompleted reports whether the reminder was explicitly stopped after
// firing. Recurring reminders never complete.
func (r Reminder) IsCompleted() bool {
	return r.Completed != nil && *r.Completed
}

// NextOccurrence returns the first daily occurrence strictly after now.
// A reminder several days overdue skips the missed occurrences instead of
// replaying them one by one.
func (r Reminder) NextOccurrence(now time.Time) time.Time {
	next := r.Date
	for !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// wireReminder is the persisted layout: dates travel as epoch
// milliseconds, empty optionals as null, and completed is omitted until
// the reminder has actually been stopped.
type wireReminder struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Date           int64   `json:"date"`
	IsRecurring    bool    `json:"isRecurring"`
	AudioURI       *string `json:"audioUri"`
	SelectedSound  *string `json:"selectedSound"`
	NotificationID *string `json:"notificationId"`
	Completed      *bool   `json:"completed,omitempty"`
}

func (r Reminder) MarshalJSON() ([]byte, error) {
	w := wireReminder{
		ID:             r.ID,
		Title:          r.Title,
		Date:           r.Date.UnixMilli(),
		IsRecurring:    r.IsRecurring,
		AudioURI:       optional(r.AudioURI),
		SelectedSound:  optional(r.SelectedSound),
		NotificationID: optional(r.NotificationID),
		Completed:      r.Completed,
	}
	return json.Marshal(w)
}

func (r *Reminder) UnmarshalJSON(data []byte) error {
	var w wireReminder
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.ID = w.ID
	r.Title = w.Title
	r.Date = time.UnixMilli(w.Date).UTC()
	r.IsRecurring = w.IsRecurring
	r.AudioURI = deref(w.AudioURI)
	r.SelectedSound = deref(w.SelectedSound)
	r.NotificationID = deref(w.NotificationID)
	r.Completed = w.Completed
	return nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
