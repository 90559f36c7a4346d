// Package elevenlabs synthesizes speech with the ElevenLabs text-to-speech API.
package elevenlabs

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/kbukum/voxlate/errors"
	"github.com/kbukum/voxlate/httpclient"
	"github.com/kbukum/voxlate/provider"
	"github.com/kbukum/voxlate/synthesis"
)

const (
	// ProviderName is the registered name for the ElevenLabs backend.
	ProviderName = "elevenlabs"

	defaultBaseURL      = "https://api.elevenlabs.io"
	defaultModel        = "eleven_multilingual_v2"
	defaultOutputFormat = "mp3_44100_128"
	defaultTimeout      = 60 * time.Second
	defaultStability    = 0.75
	defaultSimilarity   = 0.7
	defaultSlowRate     = 0.75
)

// Config holds configuration for the ElevenLabs backend.
type Config struct {
	APIKey          string
	BaseURL         string
	VoiceID         string
	Model           string
	Stability       float64
	SimilarityBoost float64
	// SlowRate is the voice speed for slow requests; normal requests use 1.0.
	SlowRate float64
	Timeout  time.Duration
}

// Provider implements synthesis.Backend over POST /v1/text-to-speech/{voice}.
// The multilingual model detects the language from the text.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

// New creates an ElevenLabs backend.
func New(cfg Config) (*Provider, error) {
	if cfg.VoiceID == "" {
		return nil, errors.InvalidInput("synthesis.options.voice_id", "is required for elevenlabs")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.SlowRate == 0 {
		cfg.SlowRate = defaultSlowRate
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	client, err := httpclient.New(httpclient.Config{
		Name:    ProviderName,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Auth:    httpclient.APIKeyAuthHeader(cfg.APIKey, "xi-api-key"),
		Retry:   httpclient.DefaultRetryConfig(),
	})
	if err != nil {
		return nil, errors.InvalidInput("synthesis.options", err.Error())
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Factory returns a provider.Factory reading the backend options map.
func Factory() provider.Factory[synthesis.Backend] {
	return func(cfg map[string]any) (synthesis.Backend, error) {
		o := provider.Options(cfg)
		key := o.String("api_key", "")
		if key == "" {
			return nil, errors.InvalidInput("synthesis.options.api_key", "is required for elevenlabs")
		}
		p, err := New(Config{
			APIKey:          key,
			BaseURL:         o.String("base_url", defaultBaseURL),
			VoiceID:         o.String("voice_id", ""),
			Model:           o.String("model", defaultModel),
			Stability:       o.Float("stability", defaultStability),
			SimilarityBoost: o.Float("similarity_boost", defaultSimilarity),
			SlowRate:        o.Float("slow_rate", defaultSlowRate),
			Timeout:         o.Duration("timeout", defaultTimeout),
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether an API key is configured.
func (p *Provider) IsAvailable(context.Context) bool { return p.cfg.APIKey != "" }

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Speed           float64 `json:"speed"`
}

type speechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Execute posts the text and returns the MP3 body.
func (p *Provider) Execute(ctx context.Context, req synthesis.Request) (synthesis.Audio, error) {
	speed := 1.0
	if req.Slow {
		speed = p.cfg.SlowRate
	}
	resp, err := p.client.Do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    "/v1/text-to-speech/" + url.PathEscape(p.cfg.VoiceID),
		Query:   map[string]string{"output_format": defaultOutputFormat},
		Headers: map[string]string{"Accept": "audio/mpeg"},
		Body: speechRequest{
			Text:    req.Text,
			ModelID: p.cfg.Model,
			VoiceSettings: voiceSettings{
				Stability:       p.cfg.Stability,
				SimilarityBoost: p.cfg.SimilarityBoost,
				Speed:           speed,
			},
		},
	})
	if err != nil {
		appErr := errors.SynthesisFailed(ProviderName, err)
		if resp != nil {
			appErr.WithDetail("status", resp.StatusCode)
		}
		return synthesis.Audio{}, appErr
	}
	return synthesis.Audio{Data: resp.Body, Format: synthesis.FormatMP3}, nil
}
