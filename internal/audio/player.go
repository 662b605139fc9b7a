package audio

import (
	"context"

	"github.com/fallenscent22/voice-alert/internal/sound"
)

// Session is one loaded playback session. OnCompletion must be registered
// before Play; the callback fires once when playback finishes naturally,
// never after Stop.
type Session interface {
	Play() error
	Stop() error
	OnCompletion(func())
	Release()
}

// Player is the audio capability: it loads a resolved source into a
// playable session.
type Player interface {
	Load(ctx context.Context, src sound.Source) (Session, error)
}
