package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/fallenscent22/voice-alert/internal/sound"
)

const speakerSampleRate = beep.SampleRate(44100)

// BeepPlayer plays wav and mp3 files through the system speaker. The
// speaker is initialized once at a fixed rate; every source is resampled
// to it.
type BeepPlayer struct {
	initOnce sync.Once
	initErr  error
}

func NewBeepPlayer() *BeepPlayer {
	return &BeepPlayer{}
}

func (p *BeepPlayer) Load(_ context.Context, src sound.Source) (Session, error) {
	p.initOnce.Do(func() {
		p.initErr = speaker.Init(speakerSampleRate, speakerSampleRate.N(time.Second/10))
	})
	if p.initErr != nil {
		return nil, fmt.Errorf("init speaker: %w", p.initErr)
	}

	f, err := os.Open(src.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src.Path, err)
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(src.Path)) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		streamer, format, err = mp3.Decode(f)
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode %s: %w", src.Path, err)
	}

	return &beepSession{
		streamer: streamer,
		stream:   beep.Resample(4, format.SampleRate, speakerSampleRate, streamer),
	}, nil
}

type beepSession struct {
	streamer beep.StreamSeekCloser
	stream   beep.Streamer
	ctrl     *beep.Ctrl
	onDone   func()
	mu       sync.Mutex
	released bool
}

func (s *beepSession) OnCompletion(fn func()) {
	s.onDone = fn
}

func (s *beepSession) Play() error {
	done := s.onDone
	s.ctrl = &beep.Ctrl{
		Streamer: beep.Seq(s.stream, beep.Callback(func() {
			if done != nil {
				done()
			}
		})),
	}
	speaker.Play(s.ctrl)
	return nil
}

func (s *beepSession) Stop() error {
	if s.ctrl != nil {
		speaker.Lock()
		s.ctrl.Streamer = nil
		speaker.Unlock()
	}
	return nil
}

func (s *beepSession) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.released = true
	_ = s.streamer.Close()
}
