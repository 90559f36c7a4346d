// Package google transcribes speech with Google Cloud Speech-to-Text.
package google

import (
	"context"
	"strings"
	"sync"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"github.com/kbukum/voxlate/errors"
	"github.com/kbukum/voxlate/gcloud"
	"github.com/kbukum/voxlate/provider"
	"github.com/kbukum/voxlate/transcription"
)

const defaultLanguage = "en-US"

// Config holds the Speech-to-Text request settings.
type Config struct {
	// Model is the recognition model, e.g. "latest_short". Empty uses the API default.
	Model string
	// Punctuation enables automatic punctuation.
	Punctuation bool
	// ProfanityFilter masks profanity in the transcript.
	ProfanityFilter bool
	// DefaultLanguage is used when the request carries no hint.
	DefaultLanguage string
}

// noRetry makes an unreachable service surface after a single request.
var noRetry = gax.WithRetry(func() gax.Retryer { return nil })

// recognizer is the subset of *speech.Client the backend calls.
type recognizer interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest, opts ...gax.CallOption) (*speechpb.RecognizeResponse, error)
	Close() error
}

// Provider implements transcription.Backend with the synchronous Recognize RPC.
type Provider struct {
	cfg     Config
	options []option.ClientOption

	mu     sync.Mutex
	client recognizer
}

// New creates a Provider. The gRPC client is created on Start or first use.
func New(cfg Config, opts ...option.ClientOption) *Provider {
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = defaultLanguage
	}
	return &Provider{cfg: cfg, options: opts}
}

// Factory returns a provider.Factory reading the backend options map.
func Factory() provider.Factory[transcription.Backend] {
	return func(cfg map[string]any) (transcription.Backend, error) {
		o := provider.Options(cfg)
		return New(Config{
			Model:           o.String("model", ""),
			Punctuation:     o.Bool("punctuation", true),
			ProfanityFilter: o.Bool("profanity_filter", false),
			DefaultLanguage: o.String("language", defaultLanguage),
		}, gcloud.ClientOptions(o)...), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return gcloud.ProviderName }

// IsAvailable reports true; credentials are resolved when the client starts.
func (p *Provider) IsAvailable(context.Context) bool { return true }

// Start creates the Speech client, surfacing credential errors early.
func (p *Provider) Start(ctx context.Context) error {
	_, err := p.recognizer(ctx)
	return err
}

// Close releases the gRPC connection.
func (p *Provider) Close(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client = nil
	return err
}

func (p *Provider) recognizer(ctx context.Context) (recognizer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}
	c, err := speech.NewClient(ctx, p.options...)
	if err != nil {
		return nil, errors.ServiceUnavailable("google speech").WithCause(err)
	}
	p.client = c
	return c, nil
}

// Execute sends the capture as LINEAR16 and joins the top alternative of
// every result.
func (p *Provider) Execute(ctx context.Context, req transcription.Request) (string, error) {
	client, err := p.recognizer(ctx)
	if err != nil {
		return "", err
	}

	lang := req.LanguageHint
	if lang == "" {
		lang = p.cfg.DefaultLanguage
	}
	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:            int32(req.Audio.Format.SampleRate),
			AudioChannelCount:          int32(req.Audio.Format.Channels),
			LanguageCode:               lang,
			Model:                      p.cfg.Model,
			EnableAutomaticPunctuation: p.cfg.Punctuation,
			ProfanityFilter:            p.cfg.ProfanityFilter,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: req.Audio.PCM},
		},
	}, noRetry)
	if err != nil {
		return "", errors.ServiceUnavailable("google speech").WithCause(err).WithDetails(gcloud.Details(err))
	}

	var parts []string
	for _, result := range resp.GetResults() {
		alts := result.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if t := strings.TrimSpace(alts[0].GetTranscript()); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return "", errors.UnintelligibleSpeech("google speech")
	}
	return strings.Join(parts, " "), nil
}
