package google

import (
	"context"
	"testing"

	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kbukum/voxlate/audio"
	apperrors "github.com/kbukum/voxlate/errors"
	"github.com/kbukum/voxlate/transcription"
)

type fakeRecognizer struct {
	resp     *speechpb.RecognizeResponse
	err      error
	req      *speechpb.RecognizeRequest
	settings gax.CallSettings
	closed   bool
}

func (f *fakeRecognizer) Recognize(_ context.Context, req *speechpb.RecognizeRequest, opts ...gax.CallOption) (*speechpb.RecognizeResponse, error) {
	f.req = req
	for _, o := range opts {
		o.Resolve(&f.settings)
	}
	return f.resp, f.err
}

func (f *fakeRecognizer) Close() error {
	f.closed = true
	return nil
}

func result(text string) *speechpb.SpeechRecognitionResult {
	return &speechpb.SpeechRecognitionResult{
		Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: text, Confidence: 0.9}},
	}
}

func request(hint string) transcription.Request {
	return transcription.Request{
		Audio: audio.CaptureResult{
			PCM:    []byte{1, 0, 2, 0},
			Format: audio.Format{SampleRate: 16000, Channels: 1},
		},
		LanguageHint: hint,
	}
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name     string
		resp     *speechpb.RecognizeResponse
		err      error
		want     string
		wantCode apperrors.ErrorCode
	}{
		{
			name: "single result",
			resp: &speechpb.RecognizeResponse{Results: []*speechpb.SpeechRecognitionResult{result("hello")}},
			want: "hello",
		},
		{
			name: "results joined",
			resp: &speechpb.RecognizeResponse{Results: []*speechpb.SpeechRecognitionResult{result("hello"), result(" world")}},
			want: "hello world",
		},
		{
			name:     "no results",
			resp:     &speechpb.RecognizeResponse{},
			wantCode: apperrors.ErrCodeUnintelligibleSpeech,
		},
		{
			name:     "rpc failure",
			err:      status.Error(codes.Unavailable, "dns failure"),
			wantCode: apperrors.ErrCodeServiceUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRecognizer{resp: tt.resp, err: tt.err}
			p := New(Config{Punctuation: true})
			p.client = fake

			got, err := p.Execute(context.Background(), request("ja-JP"))
			if tt.wantCode != "" {
				if !apperrors.HasCode(err, tt.wantCode) {
					t.Fatalf("expected %s, got %v", tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Execute = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExecuteRequestShape(t *testing.T) {
	fake := &fakeRecognizer{resp: &speechpb.RecognizeResponse{Results: []*speechpb.SpeechRecognitionResult{result("hi")}}}
	p := New(Config{Model: "latest_short", Punctuation: true})
	p.client = fake

	if _, err := p.Execute(context.Background(), request("")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := fake.req.GetConfig()
	if cfg.GetEncoding() != speechpb.RecognitionConfig_LINEAR16 {
		t.Errorf("encoding = %v", cfg.GetEncoding())
	}
	if cfg.GetSampleRateHertz() != 16000 || cfg.GetAudioChannelCount() != 1 {
		t.Errorf("format = %d Hz / %d ch", cfg.GetSampleRateHertz(), cfg.GetAudioChannelCount())
	}
	if cfg.GetLanguageCode() != "en-US" {
		t.Errorf("empty hint should fall back to en-US, got %q", cfg.GetLanguageCode())
	}
	if cfg.GetModel() != "latest_short" || !cfg.GetEnableAutomaticPunctuation() {
		t.Errorf("unexpected config %+v", cfg)
	}
	if len(fake.req.GetAudio().GetContent()) != 4 {
		t.Error("expected raw PCM content")
	}
	if fake.settings.Retry == nil || fake.settings.Retry() != nil {
		t.Error("expected the call to disable client-side retries")
	}
}

func TestCloseReleasesClient(t *testing.T) {
	fake := &fakeRecognizer{}
	p := New(Config{})
	p.client = fake
	if err := p.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !fake.closed || p.client != nil {
		t.Error("expected client to be closed and cleared")
	}
	if err := p.Close(context.Background()); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}

func TestFactory(t *testing.T) {
	b, err := Factory()(map[string]any{"model": "latest_long", "language": "de-DE"})
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}
	p := b.(*Provider)
	if p.cfg.Model != "latest_long" || p.cfg.DefaultLanguage != "de-DE" || !p.cfg.Punctuation {
		t.Errorf("unexpected config %+v", p.cfg)
	}
	if p.Name() != "google" {
		t.Errorf("Name = %q", p.Name())
	}
}
