// Package presence keeps playback alive while the app is not in the
// foreground. On platforms where backgrounded audio is unreliable the
// coordinator raises an OS-visible presence, holds a bounded wake lock,
// and takes exclusive alarm-class audio focus for the duration of the
// session; elsewhere it is a no-op shim. The implementation is chosen at
// composition time.
package presence

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultWakeLockBound caps how long the wake lock may be held
// regardless of playback state. It is a leak guard, not a feature.
const DefaultWakeLockBound = 10 * time.Minute

type Presence interface {
	Start(ctx context.Context) error
	Stop()
}

// Notice is the silent persistent notification shown while the
// foreground presence is up.
type Notice interface {
	Show(title, body string)
	Clear()
}

// Noop is the presence for platforms that do not need one.
type Noop struct{}

func (Noop) Start(context.Context) error { return nil }
func (Noop) Stop()                       {}

// Foreground is the coordinator for the platform that requires an
// OS-visible running state. Start and Stop are idempotent; Stop is
// called both on explicit stop and on natural playback completion.
type Foreground struct {
	mu        sync.Mutex
	bound     time.Duration
	notice    Notice
	lockTimer *time.Timer
	lockHeld  bool
	focusHeld bool
	active    bool
}

func NewForeground(bound time.Duration, notice Notice) *Foreground {
	if bound <= 0 {
		bound = DefaultWakeLockBound
	}
	return &Foreground{bound: bound, notice: notice}
}

func (f *Foreground) Start(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active {
		return nil
	}
	if f.notice != nil {
		f.notice.Show("Voice Alert", "Playing reminder sound...")
	}
	f.acquireWakeLockLocked()
	f.focusHeld = true
	f.active = true
	log.Printf("[presence] started (wake lock bound %s)", f.bound)
	return nil
}

func (f *Foreground) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.active {
		return
	}
	f.releaseWakeLockLocked()
	f.focusHeld = false
	if f.notice != nil {
		f.notice.Clear()
	}
	f.active = false
	log.Printf("[presence] stopped")
}

// WakeLockHeld reports whether the leak-guard lock is currently held.
func (f *Foreground) WakeLockHeld() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lockHeld
}

// FocusHeld reports whether exclusive audio focus is currently requested.
func (f *Foreground) FocusHeld() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focusHeld
}

func (f *Foreground) acquireWakeLockLocked() {
	f.lockHeld = true
	f.lockTimer = time.AfterFunc(f.bound, f.expireWakeLock)
}

func (f *Foreground) releaseWakeLockLocked() {
	if f.lockTimer != nil {
		f.lockTimer.Stop()
		f.lockTimer = nil
	}
	f.lockHeld = false
}

// expireWakeLock releases only the lock. Playback and the presence
// notice are untouched; the bound exists to stop a leaked lock from
// pinning the device forever.
func (f *Foreground) expireWakeLock() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.lockHeld {
		return
	}
	f.lockHeld = false
	f.lockTimer = nil
	log.Printf("[presence] wake lock expired after %s", f.bound)
}
