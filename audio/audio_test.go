package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
	"time"

	apperrors "github.com/kbukum/voxlate/errors"
)

const frameSamples = 1600 // 100ms at 16kHz

func frame(amplitude int16) []byte {
	b := make([]byte, frameSamples*BytesPerSample)
	for i := 0; i < frameSamples; i++ {
		v := amplitude
		if i%2 == 1 {
			v = -amplitude
		}
		binary.LittleEndian.PutUint16(b[i*2:], uint16(v))
	}
	return b
}

func frames(n int, amplitude int16) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = frame(amplitude)
	}
	return out
}

type fakeStream struct {
	frames  [][]byte
	readErr error
	format  *Format
	reads   int
	closed  bool
}

func (f *fakeStream) Format() Format {
	if f.format != nil {
		return *f.format
	}
	return Format{SampleRate: DefaultSampleRate, Channels: 1}
}

func (f *fakeStream) Read(ctx context.Context) ([]byte, error) {
	f.reads++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(f.frames) == 0 {
		if f.readErr != nil {
			return nil, f.readErr
		}
		return nil, io.EOF
	}
	fr := f.frames[0]
	f.frames = f.frames[1:]
	return fr, nil
}

func (f *fakeStream) Close() error {
	f.closed = true
	return nil
}

type fakeSource struct {
	stream  *fakeStream
	openErr error
}

func (s *fakeSource) Name() string { return "fake" }

func (s *fakeSource) Open(context.Context) (Stream, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	return s.stream, nil
}

func script(parts ...[][]byte) *fakeStream {
	var all [][]byte
	for _, p := range parts {
		all = append(all, p...)
	}
	return &fakeStream{frames: all}
}

func TestRMS(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
		want  float64
	}{
		{"empty", nil, 0},
		{"constant amplitude", frame(1000), 1000},
		{"silence", frame(0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RMS(tt.frame); math.Abs(got-tt.want) > 0.001 {
				t.Errorf("RMS = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestThresholdCalibration(t *testing.T) {
	cfg := RecorderConfig{}
	cfg.ApplyDefaults()
	th := newThreshold(cfg)
	for i := 0; i < 10; i++ {
		th.observe(10, 0.1)
	}
	// 300*0.15 + 15*0.85
	if math.Abs(th.value-57.75) > 0.01 {
		t.Errorf("threshold = %v, want 57.75", th.value)
	}

	for i := 0; i < 100; i++ {
		th.observe(0, 0.1)
	}
	if th.value != cfg.MinEnergyThreshold {
		t.Errorf("threshold = %v, want floor %v", th.value, cfg.MinEnergyThreshold)
	}
}

func TestCaptureRecordsUtterance(t *testing.T) {
	stream := script(
		frames(10, 10),  // calibration
		frames(3, 10),   // waiting, kept as pre-roll
		frames(5, 5000), // speech
		frames(12, 10),  // trailing silence
	)
	rec := NewRecorder(RecorderConfig{})

	result, err := rec.Capture(context.Background(), &fakeSource{stream: stream})
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	wantFrames := 3 + 5 + 8
	if got := len(result.PCM) / len(frame(0)); got != wantFrames {
		t.Errorf("captured %d frames, want %d", got, wantFrames)
	}
	if result.Duration != time.Duration(wantFrames)*100*time.Millisecond {
		t.Errorf("Duration = %v", result.Duration)
	}
	if result.Format.SampleRate != DefaultSampleRate || result.CapturedAt.IsZero() {
		t.Errorf("unexpected metadata %+v", result.Format)
	}
	if !stream.closed {
		t.Error("expected stream to be closed")
	}
}

func TestCapturePreRollIsBounded(t *testing.T) {
	stream := script(frames(10, 10), frames(20, 10), frames(1, 5000), frames(8, 10))
	rec := NewRecorder(RecorderConfig{})

	result, err := rec.Capture(context.Background(), &fakeSource{stream: stream})
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	// 5 pre-roll frames (0.5s) + 1 speech + 8 silence
	if got := len(result.PCM) / len(frame(0)); got != 14 {
		t.Errorf("captured %d frames, want 14", got)
	}
}

func TestCapturePhraseTimeLimit(t *testing.T) {
	stream := script(frames(10, 10), frames(50, 5000))
	rec := NewRecorder(RecorderConfig{PhraseTimeLimit: time.Second})

	result, err := rec.Capture(context.Background(), &fakeSource{stream: stream})
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if result.Duration != time.Second {
		t.Errorf("Duration = %v, want 1s", result.Duration)
	}
}

func TestCaptureListenTimeout(t *testing.T) {
	stream := script(frames(10, 10), frames(30, 10))
	rec := NewRecorder(RecorderConfig{ListenTimeout: 2 * time.Second})

	result, err := rec.Capture(context.Background(), &fakeSource{stream: stream})
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if !result.Empty() {
		t.Errorf("expected empty capture, got %d bytes", len(result.PCM))
	}
}

func TestCaptureDeviceErrors(t *testing.T) {
	tests := []struct {
		name   string
		source *fakeSource
	}{
		{"open fails", &fakeSource{openErr: errors.New("no such device")}},
		{"read fails during calibration", &fakeSource{stream: &fakeStream{frames: frames(2, 10), readErr: errors.New("overrun")}}},
		{"stream ends during calibration", &fakeSource{stream: &fakeStream{frames: frames(2, 10)}}},
		{"zero format", &fakeSource{stream: &fakeStream{frames: frames(20, 10), format: &Format{}}}},
		{"empty frames during calibration", &fakeSource{stream: &fakeStream{frames: make([][]byte, 200)}}},
		{"empty frames while listening", &fakeSource{stream: script(frames(10, 10), make([][]byte, 200))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRecorder(RecorderConfig{}).Capture(context.Background(), tt.source)
			if !apperrors.HasCode(err, apperrors.ErrCodeDeviceError) {
				t.Fatalf("expected DEVICE_ERROR, got %v", err)
			}
			if tt.source.stream != nil && !tt.source.stream.closed {
				t.Error("expected stream to be closed after failure")
			}
		})
	}
}

func TestCaptureEmptyFramesAreBounded(t *testing.T) {
	stream := &fakeStream{frames: make([][]byte, 1000)}
	_, err := NewRecorder(RecorderConfig{}).Capture(context.Background(), &fakeSource{stream: stream})
	if !apperrors.HasCode(err, apperrors.ErrCodeDeviceError) {
		t.Fatalf("expected DEVICE_ERROR, got %v", err)
	}
	if stream.reads != maxEmptyReads {
		t.Errorf("reads = %d, want %d", stream.reads, maxEmptyReads)
	}
}

func TestCaptureSkipsOccasionalEmptyFrames(t *testing.T) {
	var all [][]byte
	for _, f := range frames(10, 10) {
		all = append(all, nil, f)
	}
	stream := script(all, frames(5, 5000), [][]byte{{}}, frames(12, 10))

	result, err := NewRecorder(RecorderConfig{}).Capture(context.Background(), &fakeSource{stream: stream})
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if got := len(result.PCM) / len(frame(0)); got != 5+8 {
		t.Errorf("captured %d frames, want %d", got, 5+8)
	}
}

func TestCaptureCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stream := script(frames(10, 10))

	_, err := NewRecorder(RecorderConfig{}).Capture(ctx, &fakeSource{stream: stream})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !stream.closed {
		t.Error("expected stream to be closed")
	}
}

func TestMicrophoneCapture(t *testing.T) {
	mic := &Microphone{
		Recorder: NewRecorder(RecorderConfig{}),
		Source:   &fakeSource{stream: script(frames(10, 10), frames(2, 5000), frames(8, 10))},
	}
	result, err := mic.Capture(context.Background())
	if err != nil || result.Empty() {
		t.Fatalf("expected a recording, got %v", err)
	}
}

func TestCaptureResultWAV(t *testing.T) {
	pcm := frame(100)
	c := CaptureResult{PCM: pcm, Format: Format{SampleRate: 16000, Channels: 1}}
	wav := c.WAV()

	if len(wav) != 44+len(pcm) {
		t.Fatalf("len = %d, want %d", len(wav), 44+len(pcm))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" || string(wav[36:40]) != "data" {
		t.Errorf("bad chunk ids: %q", wav[:40])
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != 16000 {
		t.Errorf("sample rate = %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[28:32]); got != 32000 {
		t.Errorf("byte rate = %d", got)
	}
	if got := binary.LittleEndian.Uint16(wav[34:36]); got != 16 {
		t.Errorf("bits per sample = %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); int(got) != len(pcm) {
		t.Errorf("data length = %d", got)
	}
	if !bytes.Equal(wav[44:], pcm) {
		t.Error("payload mismatch")
	}
}

func TestFormatDurationOf(t *testing.T) {
	f := Format{SampleRate: 16000, Channels: 1}
	if got := f.DurationOf(32000); got != time.Second {
		t.Errorf("DurationOf = %v", got)
	}
	if got := (Format{}).DurationOf(100); got != 0 {
		t.Errorf("zero format should yield 0, got %v", got)
	}
}
