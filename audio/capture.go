package audio

import (
	"bytes"
	"encoding/binary"
	"time"
)

// CaptureResult is one recorded utterance.
type CaptureResult struct {
	// PCM holds little-endian signed 16-bit samples.
	PCM        []byte
	Format     Format
	CapturedAt time.Time
	Duration   time.Duration
}

// Empty reports whether no speech was recorded.
func (c CaptureResult) Empty() bool {
	return len(c.PCM) == 0
}

// WAV renders the capture as a RIFF/WAVE file for backends that expect a
// container rather than raw LINEAR16.
func (c CaptureResult) WAV() []byte {
	channels := c.Format.Channels
	if channels == 0 {
		channels = 1
	}
	rate := c.Format.SampleRate
	if rate == 0 {
		rate = DefaultSampleRate
	}
	blockAlign := channels * BytesPerSample
	dataLen := uint32(len(c.PCM))

	var buf bytes.Buffer
	buf.Grow(44 + len(c.PCM))
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, 36+dataLen)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(rate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(rate*blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(BytesPerSample*8))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, dataLen)
	buf.Write(c.PCM)
	return buf.Bytes()
}
