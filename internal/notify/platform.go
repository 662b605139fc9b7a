package notify

import (
	"context"
	"time"
)

// Payload rides inside an armed alert and comes back on delivery; it is
// everything a handler needs to route the alert without touching the
// store first.
type Payload struct {
	ReminderID    string
	AudioURI      string
	SelectedSound string
}

type Content struct {
	Title   string
	Body    string
	Payload Payload
}

// Trigger describes when an alert fires. RepeatDaily re-arms the alert
// every 24 hours after the first delivery under the same handle.
type Trigger struct {
	At          time.Time
	RepeatDaily bool
}

// Delivery is emitted when an armed alert fires.
type Delivery struct {
	Handle  string
	Title   string
	Body    string
	Payload Payload
	FiredAt time.Time
}

// Action is a user response to a delivered alert.
type Action string

const (
	ActionSnooze Action = "SNOOZE"
	ActionStop   Action = "STOP"
)

// Platform is the notification capability: it owns alert timing and hands
// back opaque handles. Cancel of an unknown, fired, or already-cancelled
// handle is a successful no-op.
type Platform interface {
	Schedule(ctx context.Context, content Content, trigger Trigger) (handle string, err error)
	Cancel(ctx context.Context, handle string) error
	CancelAll(ctx context.Context) error
	Deliveries() <-chan Delivery
}
