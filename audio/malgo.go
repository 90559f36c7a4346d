package audio

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gen2brain/malgo"
)

// DeviceInfo describes a capture device.
type DeviceInfo struct {
	Name      string
	IsDefault bool
}

// MalgoConfig selects and configures the capture device.
type MalgoConfig struct {
	// Device is a case-insensitive substring of the device name. Empty uses the default device.
	Device     string `yaml:"device" mapstructure:"device"`
	SampleRate int    `yaml:"sample_rate" mapstructure:"sample_rate"`
	// BufferFrames is the number of frames queued between the device callback and the recorder.
	BufferFrames int `yaml:"buffer_frames" mapstructure:"buffer_frames"`
}

// MalgoSource captures from a microphone through miniaudio.
type MalgoSource struct {
	cfg MalgoConfig
}

// NewMalgoSource creates a MalgoSource.
func NewMalgoSource(cfg MalgoConfig) *MalgoSource {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.BufferFrames == 0 {
		cfg.BufferFrames = 256
	}
	return &MalgoSource{cfg: cfg}
}

// Name returns the configured device name or "default".
func (s *MalgoSource) Name() string {
	if s.cfg.Device == "" {
		return "default"
	}
	return s.cfg.Device
}

// Open initializes a miniaudio context and starts a mono PCM16 capture device.
func (s *MalgoSource) Open(_ context.Context) (Stream, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = uint32(s.cfg.SampleRate)

	if s.cfg.Device != "" {
		info, err := findDevice(mctx, s.cfg.Device)
		if err != nil {
			freeContext(mctx)
			return nil, err
		}
		deviceConfig.Capture.DeviceID = info.ID.Pointer()
	}

	st := &malgoStream{
		ctx:    mctx,
		frames: make(chan []byte, s.cfg.BufferFrames),
		format: Format{SampleRate: s.cfg.SampleRate, Channels: 1},
	}
	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			frame := make([]byte, len(input))
			copy(frame, input)
			select {
			case st.frames <- frame:
			default:
				// recorder is behind; drop the frame rather than block the audio thread
			}
		},
	}

	device, err := malgo.InitDevice(mctx.Context, deviceConfig, callbacks)
	if err != nil {
		freeContext(mctx)
		return nil, fmt.Errorf("init capture device: %w", err)
	}
	st.device = device
	if err := device.Start(); err != nil {
		device.Uninit()
		freeContext(mctx)
		return nil, fmt.Errorf("start capture device: %w", err)
	}
	return st, nil
}

type malgoStream struct {
	ctx    *malgo.AllocatedContext
	device *malgo.Device
	frames chan []byte
	format Format
	once   sync.Once
}

func (m *malgoStream) Format() Format { return m.format }

func (m *malgoStream) Read(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case frame, ok := <-m.frames:
		if !ok {
			return nil, io.EOF
		}
		return frame, nil
	}
}

func (m *malgoStream) Close() error {
	var err error
	m.once.Do(func() {
		if m.device != nil {
			err = m.device.Stop()
			m.device.Uninit()
		}
		freeContext(m.ctx)
	})
	return err
}

func freeContext(mctx *malgo.AllocatedContext) {
	_ = mctx.Uninit()
	mctx.Free()
}

func findDevice(mctx *malgo.AllocatedContext, name string) (malgo.DeviceInfo, error) {
	infos, err := mctx.Devices(malgo.Capture)
	if err != nil {
		return malgo.DeviceInfo{}, fmt.Errorf("enumerate capture devices: %w", err)
	}
	want := strings.ToLower(name)
	for _, info := range infos {
		if strings.Contains(strings.ToLower(info.Name()), want) {
			return info, nil
		}
	}
	return malgo.DeviceInfo{}, fmt.Errorf("no capture device matches %q", name)
}

// ListDevices enumerates capture devices.
func ListDevices() ([]DeviceInfo, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}
	defer freeContext(mctx)

	infos, err := mctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("enumerate capture devices: %w", err)
	}
	devices := make([]DeviceInfo, 0, len(infos))
	for _, info := range infos {
		devices = append(devices, DeviceInfo{Name: info.Name(), IsDefault: info.IsDefault != 0})
	}
	return devices, nil
}
