package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	apperrors "github.com/kbukum/voxlate/errors"
	"github.com/kbukum/voxlate/logger"
)

// RecorderConfig tunes calibration and end-of-utterance detection.
type RecorderConfig struct {
	// CalibrationDuration is how long ambient noise is sampled before listening.
	CalibrationDuration time.Duration `yaml:"calibration_duration" mapstructure:"calibration_duration"`
	// EnergyThreshold is the starting speech threshold (RMS of PCM16 samples).
	EnergyThreshold float64 `yaml:"energy_threshold" mapstructure:"energy_threshold"`
	// MinEnergyThreshold floors the calibrated threshold.
	MinEnergyThreshold float64 `yaml:"min_energy_threshold" mapstructure:"min_energy_threshold"`
	// Dynamic keeps adjusting the threshold on silent frames while waiting for speech.
	Dynamic bool `yaml:"dynamic" mapstructure:"dynamic"`
	// DynamicDamping is the per-second damping of threshold adjustments.
	DynamicDamping float64 `yaml:"dynamic_damping" mapstructure:"dynamic_damping"`
	// DynamicRatio is the speech-to-ambient energy ratio.
	DynamicRatio float64 `yaml:"dynamic_ratio" mapstructure:"dynamic_ratio"`
	// PauseThreshold is the trailing silence that ends an utterance.
	PauseThreshold time.Duration `yaml:"pause_threshold" mapstructure:"pause_threshold"`
	// PreRoll is the audio kept from before the first loud frame.
	PreRoll time.Duration `yaml:"pre_roll" mapstructure:"pre_roll"`
	// PhraseTimeLimit caps the utterance length.
	PhraseTimeLimit time.Duration `yaml:"phrase_time_limit" mapstructure:"phrase_time_limit"`
	// ListenTimeout bounds the wait for speech to start. Zero waits until canceled.
	ListenTimeout time.Duration `yaml:"listen_timeout" mapstructure:"listen_timeout"`
}

// ApplyDefaults fills zero values.
func (c *RecorderConfig) ApplyDefaults() {
	if c.CalibrationDuration == 0 {
		c.CalibrationDuration = time.Second
	}
	if c.EnergyThreshold == 0 {
		c.EnergyThreshold = 300
	}
	if c.MinEnergyThreshold == 0 {
		c.MinEnergyThreshold = 50
	}
	if c.DynamicDamping == 0 {
		c.DynamicDamping = 0.15
	}
	if c.DynamicRatio == 0 {
		c.DynamicRatio = 1.5
	}
	if c.PauseThreshold == 0 {
		c.PauseThreshold = 800 * time.Millisecond
	}
	if c.PreRoll == 0 {
		c.PreRoll = 500 * time.Millisecond
	}
	if c.PhraseTimeLimit == 0 {
		c.PhraseTimeLimit = 15 * time.Second
	}
}

// Recorder records single utterances.
type Recorder struct {
	cfg RecorderConfig
	log *logger.Logger
	now func() time.Time
}

// NewRecorder creates a Recorder. Zero config fields take defaults.
func NewRecorder(cfg RecorderConfig) *Recorder {
	cfg.ApplyDefaults()
	return &Recorder{
		cfg: cfg,
		log: logger.WithComponent("audio"),
		now: time.Now,
	}
}

// Capture opens src, calibrates against ambient noise and records one
// utterance. The stream is closed on every return path.
//
// Device failures are DEVICE_ERRORs. When ListenTimeout elapses before any
// speech the result is empty and the error nil.
func (r *Recorder) Capture(ctx context.Context, src Source) (CaptureResult, error) {
	stream, err := src.Open(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return CaptureResult{}, ctx.Err()
		}
		return CaptureResult{}, toDeviceError(src.Name(), err)
	}
	defer func() {
		if cerr := stream.Close(); cerr != nil {
			r.log.Warn("closing capture stream failed", logger.Fields(logger.FieldError, cerr.Error()))
		}
	}()

	format := stream.Format()
	if format.BytesPerSecond() <= 0 {
		return CaptureResult{}, apperrors.DeviceError(src.Name(), fmt.Errorf("stream reported no usable format (%d Hz, %d channels)", format.SampleRate, format.Channels))
	}
	th := newThreshold(r.cfg)

	if err := r.calibrate(ctx, stream, format, th); err != nil {
		return CaptureResult{}, r.classify(ctx, src, err)
	}
	r.log.Debug("calibrated", logger.Fields("energy_threshold", th.value))

	capturedAt := r.now()
	pcm, err := r.listen(ctx, stream, format, th)
	if err != nil {
		return CaptureResult{}, r.classify(ctx, src, err)
	}
	return CaptureResult{
		PCM:        pcm,
		Format:     format,
		CapturedAt: capturedAt,
		Duration:   format.DurationOf(len(pcm)),
	}, nil
}

// maxEmptyReads bounds consecutive zero-length reads before a stream is
// treated as stalled.
const maxEmptyReads = 64

var errStalled = fmt.Errorf("stream returned %d empty frames in a row", maxEmptyReads)

// readFrame returns the next non-empty frame.
func readFrame(ctx context.Context, stream Stream) ([]byte, error) {
	for range maxEmptyReads {
		frame, err := stream.Read(ctx)
		if err != nil || len(frame) > 0 {
			return frame, err
		}
	}
	return nil, errStalled
}

func (r *Recorder) calibrate(ctx context.Context, stream Stream, format Format, th *threshold) error {
	var elapsed time.Duration
	for elapsed < r.cfg.CalibrationDuration {
		frame, err := readFrame(ctx, stream)
		if err != nil {
			return err
		}
		d := format.DurationOf(len(frame))
		th.observe(RMS(frame), d.Seconds())
		elapsed += d
	}
	return nil
}

// errListenTimeout ends the wait for speech.
var errListenTimeout = errors.New("no speech before listen timeout")

func (r *Recorder) listen(ctx context.Context, stream Stream, format Format, th *threshold) ([]byte, error) {
	var (
		preRoll  [][]byte
		preBytes int
		waited   time.Duration
		maxPre   = int(r.cfg.PreRoll.Seconds() * float64(format.BytesPerSecond()))
	)

	// Wait for the first loud frame, keeping a short pre-roll.
	var first []byte
	for first == nil {
		frame, err := readFrame(ctx, stream)
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		d := format.DurationOf(len(frame))
		energy := RMS(frame)
		if th.exceeded(energy) {
			first = frame
			break
		}
		if r.cfg.Dynamic {
			th.observe(energy, d.Seconds())
		}
		preRoll = append(preRoll, frame)
		preBytes += len(frame)
		for preBytes > maxPre && len(preRoll) > 0 {
			preBytes -= len(preRoll[0])
			preRoll = preRoll[1:]
		}
		waited += d
		if r.cfg.ListenTimeout > 0 && waited >= r.cfg.ListenTimeout {
			r.log.Debug(errListenTimeout.Error())
			return nil, nil
		}
	}

	pcm := make([]byte, 0, preBytes+format.BytesPerSecond())
	for _, f := range preRoll {
		pcm = append(pcm, f...)
	}
	pcm = append(pcm, first...)

	var silence, phrase time.Duration
	phrase = format.DurationOf(len(first))
	for silence < r.cfg.PauseThreshold && phrase < r.cfg.PhraseTimeLimit {
		frame, err := readFrame(ctx, stream)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		d := format.DurationOf(len(frame))
		pcm = append(pcm, frame...)
		phrase += d
		if th.exceeded(RMS(frame)) {
			silence = 0
		} else {
			silence += d
		}
	}
	return pcm, nil
}

func (r *Recorder) classify(ctx context.Context, src Source, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, io.EOF) {
		return apperrors.DeviceError(src.Name(), errors.New("stream ended during calibration"))
	}
	return toDeviceError(src.Name(), err)
}

func toDeviceError(device string, err error) error {
	if apperrors.HasCode(err, apperrors.ErrCodeDeviceError) {
		return err
	}
	return apperrors.DeviceError(device, err)
}

// Microphone binds a Recorder to a Source.
type Microphone struct {
	Recorder *Recorder
	Source   Source
}

// Capture records one utterance from the bound source.
func (m *Microphone) Capture(ctx context.Context) (CaptureResult, error) {
	return m.Recorder.Capture(ctx, m.Source)
}
