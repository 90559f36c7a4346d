// Package deepgram transcribes speech with the Deepgram pre-recorded audio API.
package deepgram

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/voxlate/errors"
	"github.com/kbukum/voxlate/httpclient"
	"github.com/kbukum/voxlate/provider"
	"github.com/kbukum/voxlate/transcription"
)

const (
	// ProviderName is the registered name for the Deepgram backend.
	ProviderName = "deepgram"

	defaultBaseURL = "https://api.deepgram.com"
	defaultModel   = "nova-2"
	defaultTimeout = 30 * time.Second
)

// Config holds configuration for the Deepgram backend.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	SmartFormat bool
	Timeout     time.Duration
}

// Provider implements transcription.Backend over POST /v1/listen.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

// New creates a Deepgram backend.
func New(cfg Config) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	// No Retry: an unreachable service is reported after a single request.
	client, err := httpclient.New(httpclient.Config{
		Name:    ProviderName,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Auth:    httpclient.TokenAuth(cfg.APIKey),
	})
	if err != nil {
		return nil, errors.InvalidInput("transcription.options", err.Error())
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Factory returns a provider.Factory reading the backend options map.
func Factory() provider.Factory[transcription.Backend] {
	return func(cfg map[string]any) (transcription.Backend, error) {
		o := provider.Options(cfg)
		key := o.String("api_key", "")
		if key == "" {
			return nil, errors.InvalidInput("transcription.options.api_key", "is required for deepgram")
		}
		p, err := New(Config{
			APIKey:      key,
			BaseURL:     o.String("base_url", defaultBaseURL),
			Model:       o.String("model", defaultModel),
			SmartFormat: o.Bool("smart_format", true),
			Timeout:     o.Duration("timeout", defaultTimeout),
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

type listenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Execute posts the capture as audio/wav.
func (p *Provider) Execute(ctx context.Context, req transcription.Request) (string, error) {
	query := map[string]string{
		"model":        p.cfg.Model,
		"smart_format": strconv.FormatBool(p.cfg.SmartFormat),
	}
	if req.LanguageHint != "" {
		query["language"] = req.LanguageHint
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    "/v1/listen",
		Query:   query,
		Headers: map[string]string{"Content-Type": "audio/wav"},
		Body:    req.Audio.WAV(),
	})
	if err != nil {
		appErr := errors.ServiceUnavailable(ProviderName).WithCause(err)
		if resp != nil {
			appErr.WithDetail("status", resp.StatusCode)
		}
		return "", appErr
	}

	var parsed listenResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return "", errors.ServiceUnavailable(ProviderName).WithCause(err)
	}
	if len(parsed.Results.Channels) == 0 || len(parsed.Results.Channels[0].Alternatives) == 0 {
		return "", errors.UnintelligibleSpeech(ProviderName)
	}
	text := strings.TrimSpace(parsed.Results.Channels[0].Alternatives[0].Transcript)
	if text == "" {
		return "", errors.UnintelligibleSpeech(ProviderName)
	}
	return text, nil
}
