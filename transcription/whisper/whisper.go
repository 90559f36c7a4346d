// Package whisper transcribes speech with the OpenAI Whisper API.
package whisper

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/voxlate/errors"
	"github.com/kbukum/voxlate/provider"
	"github.com/kbukum/voxlate/transcription"
)

const (
	// ProviderName is the registered name for the Whisper backend.
	ProviderName = "whisper"

	defaultTimeout = 60 * time.Second
)

// Config holds configuration for the Whisper backend.
type Config struct {
	APIKey string
	// BaseURL overrides the API root, e.g. for an OpenAI-compatible server.
	BaseURL string
	Model   string
	// Prompt biases recognition towards expected vocabulary.
	Prompt  string
	Timeout time.Duration
}

// Provider implements transcription.Backend using the audio transcription endpoint.
type Provider struct {
	cfg    Config
	client *openai.Client
}

// New creates a Whisper backend.
func New(cfg Config) *Provider {
	if cfg.Model == "" {
		cfg.Model = openai.Whisper1
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &Provider{cfg: cfg, client: openai.NewClientWithConfig(clientCfg)}
}

// Factory returns a provider.Factory reading the backend options map.
func Factory() provider.Factory[transcription.Backend] {
	return func(cfg map[string]any) (transcription.Backend, error) {
		o := provider.Options(cfg)
		key := o.String("api_key", "")
		if key == "" {
			return nil, errors.InvalidInput("transcription.options.api_key", "is required for whisper")
		}
		return New(Config{
			APIKey:  key,
			BaseURL: o.String("base_url", ""),
			Model:   o.String("model", openai.Whisper1),
			Prompt:  o.String("prompt", ""),
			Timeout: o.Duration("timeout", defaultTimeout),
		}), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether an API key is configured.
func (p *Provider) IsAvailable(context.Context) bool { return p.cfg.APIKey != "" }

// Execute uploads the capture as a WAV file.
func (p *Provider) Execute(ctx context.Context, req transcription.Request) (string, error) {
	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.cfg.Model,
		FilePath: "speech.wav",
		Reader:   bytes.NewReader(req.Audio.WAV()),
		Prompt:   p.cfg.Prompt,
		Language: transcription.BaseLanguage(req.LanguageHint),
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", errors.ServiceUnavailable(ProviderName).WithCause(err).WithDetails(apiErrorDetails(err))
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", errors.UnintelligibleSpeech(ProviderName)
	}
	return text, nil
}

func apiErrorDetails(err error) map[string]any {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return map[string]any{"status": apiErr.HTTPStatusCode, "type": apiErr.Type}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return map[string]any{"status": reqErr.HTTPStatusCode}
	}
	return nil
}
