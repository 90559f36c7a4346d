package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/voxlate/audio"
	"github.com/kbukum/voxlate/errors"
	"github.com/kbukum/voxlate/playback"
	"github.com/kbukum/voxlate/provider"
	"github.com/kbukum/voxlate/synthesis"
	"github.com/kbukum/voxlate/transcription"
	"github.com/kbukum/voxlate/translation"
)

type fakeMic struct{ calls int }

func (m *fakeMic) Capture(context.Context) (audio.CaptureResult, error) {
	m.calls++
	return audio.CaptureResult{
		PCM:    make([]byte, 3200),
		Format: audio.Format{SampleRate: audio.DefaultSampleRate, Channels: 1},
	}, nil
}

// stubSTT records its lifecycle.
type stubSTT struct {
	text    string
	err     error
	started bool
	closed  bool
}

func (s *stubSTT) Name() string                     { return "stub" }
func (s *stubSTT) IsAvailable(context.Context) bool { return true }
func (s *stubSTT) Start(context.Context) error {
	s.started = true
	return nil
}
func (s *stubSTT) Close(context.Context) error {
	s.closed = true
	return nil
}
func (s *stubSTT) Execute(context.Context, transcription.Request) (string, error) {
	return s.text, s.err
}

type fakePlayer struct{ played []string }

func (p *fakePlayer) Name() string { return "fake" }
func (p *fakePlayer) Play(_ context.Context, path string) error {
	p.played = append(p.played, path)
	return nil
}

func stubBackends(stt *stubSTT, translations *[]translation.Request) Backends {
	b := Backends{
		Transcription: transcription.NewRegistry(),
		Translation:   translation.NewRegistry(),
		Synthesis:     synthesis.NewRegistry(),
	}
	b.Transcription.RegisterFactory("stub", func(map[string]any) (transcription.Backend, error) {
		return stt, nil
	})
	b.Translation.RegisterFactory("stub", func(map[string]any) (translation.Backend, error) {
		return provider.Func("stub", func(_ context.Context, req translation.Request) (translation.Result, error) {
			*translations = append(*translations, req)
			return translation.Result{TranslatedText: "こんにちは"}, nil
		}), nil
	})
	b.Synthesis.RegisterFactory("stub", func(map[string]any) (synthesis.Backend, error) {
		return provider.Func("stub", func(_ context.Context, req synthesis.Request) (synthesis.Audio, error) {
			return synthesis.Audio{Data: []byte(req.Text), Format: synthesis.FormatMP3}, nil
		}), nil
	})
	return b
}

func testConfig() *Config {
	cfg := &Config{}
	cfg.Environment = "development"
	cfg.Pipeline.TargetLanguage = "ja"
	cfg.Transcription.Provider = "stub"
	cfg.Translation.Provider = "stub"
	cfg.Synthesis.Provider = "stub"
	return cfg
}

func TestRun(t *testing.T) {
	stt := &stubSTT{text: "hello"}
	var translations []translation.Request
	var console bytes.Buffer
	mic := &fakeMic{}

	a, err := New(testConfig(), WithBackends(stubBackends(stt, &translations)), WithConsole(&console), WithCapturer(mic))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if !stt.started || !stt.closed {
		t.Errorf("backend lifecycle started=%v closed=%v", stt.started, stt.closed)
	}
	if len(translations) != 1 || translations[0] != (translation.Request{Text: "hello", Target: "ja"}) {
		t.Errorf("translations = %+v", translations)
	}
	want := "Speak!\nYou said: hello\nTranslation: こんにちは\n"
	if console.String() != want {
		t.Errorf("console = %q, want %q", console.String(), want)
	}
}

func TestRunSourceFromHint(t *testing.T) {
	var translations []translation.Request
	cfg := testConfig()
	cfg.Pipeline.SourceLanguage = "en-US"
	cfg.Translation.SourceFromHint = true

	a, err := New(cfg, WithBackends(stubBackends(&stubSTT{text: "hello"}, &translations)),
		WithConsole(&bytes.Buffer{}), WithCapturer(&fakeMic{}))
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if translations[0].Source != "en-US" {
		t.Errorf("Source = %q, want en-US", translations[0].Source)
	}
}

func TestRunSpeak(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	cfg.Pipeline.Speak = true
	cfg.Pipeline.KeepArtifact = true
	cfg.Synthesis.OutputDir = dir
	player := &fakePlayer{}
	var translations []translation.Request

	a, err := New(cfg, WithBackends(stubBackends(&stubSTT{text: "hello"}, &translations)),
		WithConsole(&bytes.Buffer{}), WithCapturer(&fakeMic{}), WithPlayer(player))
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	path := filepath.Join(dir, "output.mp3")
	if len(player.played) != 1 || player.played[0] != path {
		t.Fatalf("played = %v, want %s", player.played, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "こんにちは" {
		t.Errorf("artifact = %q", data)
	}
}

func TestRunServiceUnavailable(t *testing.T) {
	stt := &stubSTT{err: errors.ServiceUnavailable("stub")}
	var translations []translation.Request
	var console bytes.Buffer

	a, err := New(testConfig(), WithBackends(stubBackends(stt, &translations)), WithConsole(&console), WithCapturer(&fakeMic{}))
	if err != nil {
		t.Fatal(err)
	}
	err = a.Run(context.Background())
	if errors.ExitCode(err) != 4 {
		t.Fatalf("exit code = %d (%v), want 4", errors.ExitCode(err), err)
	}
	if len(translations) != 0 {
		t.Error("translation ran after the service failed")
	}
	if !strings.Contains(console.String(), "ERROR: API unavailable\n") {
		t.Errorf("console = %q", console.String())
	}
	if !stt.closed {
		t.Error("backend not closed after a failed run")
	}
}

func TestNewUnknownProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Translation.Provider = "babelfish"
	var translations []translation.Request

	_, err := New(cfg, WithBackends(stubBackends(&stubSTT{}, &translations)))
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("error = %v, want INVALID_INPUT", err)
	}
	if !strings.Contains(err.Error(), "babelfish") {
		t.Errorf("error = %v", err)
	}
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Pipeline.TargetLanguage = "not a language"
	_, err := New(cfg)
	if errors.ExitCode(err) != 2 {
		t.Fatalf("exit code = %d (%v), want 2", errors.ExitCode(err), err)
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Name != Name {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Pipeline.TargetLanguage != "ja" || cfg.Pipeline.MaxAttempts != 5 {
		t.Errorf("pipeline = %+v", cfg.Pipeline)
	}
	if cfg.Transcription.Provider != "google" || cfg.Translation.Provider != "google" || cfg.Synthesis.Provider != "google" {
		t.Errorf("providers = %s/%s/%s", cfg.Transcription.Provider, cfg.Translation.Provider, cfg.Synthesis.Provider)
	}
	if cfg.Synthesis.FileName != "output.mp3" || cfg.Synthesis.OutputDir != "." {
		t.Errorf("synthesis = %+v", cfg.Synthesis)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	d := Defaults()
	if d["pipeline.source_language"] != "en-US" || d["audio.recorder.dynamic"] != true {
		t.Errorf("Defaults() = %v", d)
	}
}

func TestDefaultBackends(t *testing.T) {
	b := DefaultBackends()
	tests := []struct {
		stage string
		got   []string
		want  []string
	}{
		{"transcription", b.Transcription.List(), []string{"deepgram", "google", "whisper"}},
		{"translation", b.Translation.List(), []string{"google", "openai"}},
		{"synthesis", b.Synthesis.List(), []string{"elevenlabs", "google", "openai"}},
	}
	for _, tt := range tests {
		t.Run(tt.stage, func(t *testing.T) {
			if strings.Join(tt.got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("List() = %v, want %v", tt.got, tt.want)
			}
		})
	}
	if b.InProcess == nil || b.InProcess().Name() != playback.KindBeep {
		t.Error("expected the beep player for in-process playback")
	}
}
