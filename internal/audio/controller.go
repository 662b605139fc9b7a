package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fallenscent22/voice-alert/internal/sound"
)

var ErrPlaybackFailed = errors.New("audio: playback failed")

type State string

const (
	StateIdle    State = "Idle"
	StatePlaying State = "Playing"
)

// Controller owns the single audio session: at most one session is ever
// live, enforced by stopping and releasing the current one before
// starting the next. Playback failures leave the controller Idle and are
// never fatal.
type Controller struct {
	mu      sync.Mutex
	player  Player
	session Session
	state   State
	gen     uint64
	onIdle  func()
}

func NewController(player Player) *Controller {
	return &Controller{player: player, state: StateIdle}
}

// SetIdleObserver registers a callback fired on every Playing -> Idle
// transition, whether from natural completion or an explicit Stop. The
// foreground coordinator hangs its teardown off this.
func (c *Controller) SetIdleObserver(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onIdle = fn
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Play stops any live session, then loads and starts src. An error from
// load or start is reported as ErrPlaybackFailed with the controller back
// in Idle.
func (c *Controller) Play(ctx context.Context, src sound.Source) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StatePlaying {
		c.teardownLocked()
	}

	session, err := c.player.Load(ctx, src)
	if err != nil {
		return fmt.Errorf("%w: load %s: %v", ErrPlaybackFailed, src.Name, err)
	}

	c.gen++
	gen := c.gen
	session.OnCompletion(func() { c.completed(gen) })

	if err := session.Play(); err != nil {
		session.Release()
		return fmt.Errorf("%w: start %s: %v", ErrPlaybackFailed, src.Name, err)
	}

	c.session = session
	c.state = StatePlaying
	return nil
}

// Stop ends the live session if there is one; stopping while Idle is a
// no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StatePlaying {
		return
	}
	c.teardownLocked()
	c.notifyIdleLocked()
}

// completed handles natural end of playback. The generation guard drops
// callbacks from sessions that were already replaced or stopped.
func (c *Controller) completed(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.state != StatePlaying {
		return
	}
	if c.session != nil {
		c.session.Release()
		c.session = nil
	}
	c.state = StateIdle
	c.notifyIdleLocked()
}

func (c *Controller) teardownLocked() {
	if c.session != nil {
		_ = c.session.Stop()
		c.session.Release()
		c.session = nil
	}
	c.gen++ // invalidate any pending completion callback
	c.state = StateIdle
}

func (c *Controller) notifyIdleLocked() {
	if c.onIdle != nil {
		fn := c.onIdle
		go fn()
	}
}
