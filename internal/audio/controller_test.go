package audio

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fallenscent22/voice-alert/internal/sound"
)

type fakeSession struct {
	mu       sync.Mutex
	playErr  error
	playing  bool
	stopped  int
	released int
	onDone   func()
}

func (s *fakeSession) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playErr != nil {
		return s.playErr
	}
	s.playing = true
	return nil
}

func (s *fakeSession) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
	s.stopped++
	return nil
}

func (s *fakeSession) OnCompletion(fn func()) {
	s.onDone = fn
}

func (s *fakeSession) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released++
}

func (s *fakeSession) complete() {
	if s.onDone != nil {
		s.onDone()
	}
}

type fakePlayer struct {
	sessions []*fakeSession
	loadErr  error
}

func (p *fakePlayer) Load(context.Context, sound.Source) (Session, error) {
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	s := &fakeSession{}
	p.sessions = append(p.sessions, s)
	return s, nil
}

func TestPlayTransitionsToPlaying(t *testing.T) {
	player := &fakePlayer{}
	ctrl := NewController(player)

	if err := ctrl.Play(context.Background(), sound.Source{Name: "Bird"}); err != nil {
		t.Fatalf("play: %v", err)
	}
	if ctrl.State() != StatePlaying {
		t.Fatalf("expected Playing, got %s", ctrl.State())
	}
}

func TestPlayWhilePlayingLeavesSingleSession(t *testing.T) {
	player := &fakePlayer{}
	ctrl := NewController(player)
	ctx := context.Background()

	if err := ctrl.Play(ctx, sound.Source{Name: "first"}); err != nil {
		t.Fatalf("first play: %v", err)
	}
	if err := ctrl.Play(ctx, sound.Source{Name: "second"}); err != nil {
		t.Fatalf("second play: %v", err)
	}

	first := player.sessions[0]
	if first.stopped != 1 || first.released != 1 {
		t.Fatalf("first session must be stopped and released exactly once: stopped=%d released=%d", first.stopped, first.released)
	}
	second := player.sessions[1]
	if !second.playing {
		t.Fatal("second session must be the live one")
	}
	if ctrl.State() != StatePlaying {
		t.Fatalf("expected Playing, got %s", ctrl.State())
	}
}

func TestNaturalCompletionReturnsToIdle(t *testing.T) {
	player := &fakePlayer{}
	ctrl := NewController(player)
	idle := make(chan struct{}, 1)
	ctrl.SetIdleObserver(func() { idle <- struct{}{} })

	if err := ctrl.Play(context.Background(), sound.Source{Name: "Bird"}); err != nil {
		t.Fatalf("play: %v", err)
	}
	player.sessions[0].complete()

	select {
	case <-idle:
	case <-time.After(time.Second):
		t.Fatal("idle observer never fired after completion")
	}
	if ctrl.State() != StateIdle {
		t.Fatalf("expected Idle after completion, got %s", ctrl.State())
	}
	if player.sessions[0].released != 1 {
		t.Fatalf("session must be released on completion, got %d", player.sessions[0].released)
	}
}

func TestStaleCompletionIsIgnored(t *testing.T) {
	player := &fakePlayer{}
	ctrl := NewController(player)
	ctx := context.Background()

	if err := ctrl.Play(ctx, sound.Source{Name: "first"}); err != nil {
		t.Fatalf("first play: %v", err)
	}
	stale := player.sessions[0]
	if err := ctrl.Play(ctx, sound.Source{Name: "second"}); err != nil {
		t.Fatalf("second play: %v", err)
	}

	// The replaced session finishing late must not disturb the live one.
	stale.complete()
	if ctrl.State() != StatePlaying {
		t.Fatalf("stale completion stopped the live session: %s", ctrl.State())
	}
}

func TestStopIsIdempotent(t *testing.T) {
	player := &fakePlayer{}
	ctrl := NewController(player)

	ctrl.Stop() // Idle stop is a no-op

	if err := ctrl.Play(context.Background(), sound.Source{Name: "Bird"}); err != nil {
		t.Fatalf("play: %v", err)
	}
	ctrl.Stop()
	ctrl.Stop()

	if ctrl.State() != StateIdle {
		t.Fatalf("expected Idle, got %s", ctrl.State())
	}
	if player.sessions[0].stopped != 1 || player.sessions[0].released != 1 {
		t.Fatalf("session torn down more than once: %#v", player.sessions[0])
	}
}

func TestLoadFailureLeavesIdle(t *testing.T) {
	player := &fakePlayer{loadErr: errors.New("boom")}
	ctrl := NewController(player)

	err := ctrl.Play(context.Background(), sound.Source{Name: "Bird"})
	if !errors.Is(err, ErrPlaybackFailed) {
		t.Fatalf("expected ErrPlaybackFailed, got %v", err)
	}
	if ctrl.State() != StateIdle {
		t.Fatalf("expected Idle after failure, got %s", ctrl.State())
	}
}

func TestPlayStartFailureReleasesSession(t *testing.T) {
	failing := &fakeSession{playErr: errors.New("device busy")}
	ctrl := NewController(playerFunc(func() (Session, error) { return failing, nil }))

	err := ctrl.Play(context.Background(), sound.Source{Name: "Bird"})
	if !errors.Is(err, ErrPlaybackFailed) {
		t.Fatalf("expected ErrPlaybackFailed, got %v", err)
	}
	if failing.released != 1 {
		t.Fatalf("failed session must be released, got %d", failing.released)
	}
	if ctrl.State() != StateIdle {
		t.Fatalf("expected Idle, got %s", ctrl.State())
	}
}

type playerFunc func() (Session, error)

func (f playerFunc) Load(context.Context, sound.Source) (Session, error) {
	return f()
}
