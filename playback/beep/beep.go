// Package beep plays MP3 artifacts in-process on the default output device.
package beep

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"

	"github.com/kbukum/voxlate/errors"
	"github.com/kbukum/voxlate/playback"
)

// Player decodes MP3 files and plays them on the default output device.
type Player struct {
	mu   sync.Mutex
	rate beep.SampleRate
}

// New creates a Player. The speaker is initialized on first use with the
// file's sample rate.
func New() playback.Player {
	return &Player{}
}

// Name returns "beep".
func (p *Player) Name() string { return playback.KindBeep }

// Play blocks until the file has been played or ctx is done.
func (p *Player) Play(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.PlaybackFailed(p.Name(), path, err)
	}
	streamer, format, err := mp3.Decode(f)
	if err != nil {
		_ = f.Close()
		return errors.PlaybackFailed(p.Name(), path, err)
	}
	defer streamer.Close()

	if err := p.initSpeaker(format.SampleRate); err != nil {
		return errors.PlaybackFailed(p.Name(), path, err)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() { close(done) })))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}

func (p *Player) initSpeaker(rate beep.SampleRate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rate == rate {
		return nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return err
	}
	p.rate = rate
	return nil
}
