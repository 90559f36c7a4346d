// Package openai synthesizes speech with the OpenAI speech endpoint.
package openai

import (
	"context"
	"io"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/voxlate/errors"
	"github.com/kbukum/voxlate/provider"
	"github.com/kbukum/voxlate/synthesis"
)

const (
	// ProviderName is the registered name for the OpenAI backend.
	ProviderName = "openai"

	defaultTimeout  = 60 * time.Second
	defaultSlowRate = 0.75
)

// Config holds configuration for the OpenAI speech backend.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Voice   string
	// SlowRate is the speed sent for slow requests; normal requests use 1.0.
	SlowRate float64
	Timeout  time.Duration
}

// Provider implements synthesis.Backend. The voice detects the language
// from the text, so Request.Language is not sent.
type Provider struct {
	cfg    Config
	client *openai.Client
}

// New creates an OpenAI speech backend.
func New(cfg Config) *Provider {
	if cfg.Model == "" {
		cfg.Model = string(openai.TTSModel1)
	}
	if cfg.Voice == "" {
		cfg.Voice = string(openai.VoiceAlloy)
	}
	if cfg.SlowRate == 0 {
		cfg.SlowRate = defaultSlowRate
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
func Factory() provider.Factory[synthesis.Backend] {
	return func(cfg map[string]any) (synthesis.Backend, error) {
		o := provider.Options(cfg)
		key := o.String("api_key", "")
		if key == "" {
			return nil, errors.InvalidInput("synthesis.options.api_key", "is required for openai")
		}
		return New(Config{
			APIKey:   key,
			BaseURL:  o.String("base_url", ""),
			Model:    o.String("model", string(openai.TTSModel1)),
			Voice:    o.String("voice", string(openai.VoiceAlloy)),
			SlowRate: o.Float("slow_rate", defaultSlowRate),
			Timeout:  o.Duration("timeout", defaultTimeout),
		}), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether an API key is configured.
func (p *Provider) IsAvailable(context.Context) bool { return p.cfg.APIKey != "" }

// Execute requests MP3 audio for the text.
func (p *Provider) Execute(ctx context.Context, req synthesis.Request) (synthesis.Audio, error) {
	speed := 1.0
	if req.Slow {
		speed = p.cfg.SlowRate
	}
	resp, err := p.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.cfg.Model),
		Input:          req.Text,
		Voice:          openai.SpeechVoice(p.cfg.Voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          speed,
	})
	if err != nil {
		return synthesis.Audio{}, errors.SynthesisFailed(ProviderName, err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return synthesis.Audio{}, errors.SynthesisFailed(ProviderName, err)
	}
	return synthesis.Audio{Data: data, Format: synthesis.FormatMP3}, nil
}
