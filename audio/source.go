package audio

import (
	"context"
	"time"
)

// DefaultSampleRate is the capture rate requested from devices. 16 kHz mono
// LINEAR16 is accepted by every speech backend.
const DefaultSampleRate = 16000

// BytesPerSample is the size of one PCM16 sample.
const BytesPerSample = 2

// Format describes a PCM16LE stream.
type Format struct {
	SampleRate int
	Channels   int
}

// BytesPerSecond returns the byte rate of the stream.
func (f Format) BytesPerSecond() int {
	return f.SampleRate * f.Channels * BytesPerSample
}

// DurationOf returns the playing time of n bytes of audio.
func (f Format) DurationOf(n int) time.Duration {
	bps := f.BytesPerSecond()
	if bps == 0 {
		return 0
	}
	return time.Duration(n) * time.Second / time.Duration(bps)
}

// Source opens a capture stream. Implementations must release the device
// when the returned Stream is closed.
type Source interface {
	Name() string
	Open(ctx context.Context) (Stream, error)
}

// Stream delivers PCM16LE frames.
type Stream interface {
	// Format reports the negotiated format.
	Format() Format
	// Read blocks until the next frame is available. io.EOF ends the stream.
	Read(ctx context.Context) ([]byte, error)
	Close() error
}
