// Package google synthesizes speech with Google Cloud Text-to-Speech.
package google

import (
	"context"
	"strings"
	"sync"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"github.com/kbukum/voxlate/errors"
	"github.com/kbukum/voxlate/gcloud"
	"github.com/kbukum/voxlate/provider"
	"github.com/kbukum/voxlate/synthesis"
)

const (
	defaultSpeakingRate = 1.0
	defaultSlowRate     = 0.75
)

// Config holds the voice and audio settings.
type Config struct {
	// Voice is a voice name such as "ja-JP-Neural2-B". Empty lets the API
	// pick one for the language and gender.
	Voice string
	// Gender is NEUTRAL, MALE or FEMALE.
	Gender string
	// SpeakingRate is the normal rate, 1.0 being the voice's native speed.
	SpeakingRate float64
	// SlowRate is used when a request asks for slow speech.
	SlowRate float64
}

// synthesizer is the subset of *texttospeech.Client the backend calls.
type synthesizer interface {
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
	Close() error
}

// Provider implements synthesis.Backend.
type Provider struct {
	cfg     Config
	options []option.ClientOption

	mu     sync.Mutex
	client synthesizer
}

// New creates a Provider. The gRPC client is created on Start or first use.
func New(cfg Config, opts ...option.ClientOption) *Provider {
	if cfg.SpeakingRate == 0 {
		cfg.SpeakingRate = defaultSpeakingRate
	}
	if cfg.SlowRate == 0 {
		cfg.SlowRate = defaultSlowRate
	}
	if cfg.Gender == "" {
		cfg.Gender = texttospeechpb.SsmlVoiceGender_NEUTRAL.String()
	}
	return &Provider{cfg: cfg, options: opts}
}

// Factory returns a provider.Factory reading the backend options map.
func Factory() provider.Factory[synthesis.Backend] {
	return func(cfg map[string]any) (synthesis.Backend, error) {
		o := provider.Options(cfg)
		gender := strings.ToUpper(o.String("gender", "NEUTRAL"))
		if _, ok := texttospeechpb.SsmlVoiceGender_value[gender]; !ok {
			return nil, errors.InvalidInput("synthesis.options.gender", "must be NEUTRAL, MALE or FEMALE")
		}
		return New(Config{
			Voice:        o.String("voice", ""),
			Gender:       gender,
			SpeakingRate: o.Float("speaking_rate", defaultSpeakingRate),
			SlowRate:     o.Float("slow_rate", defaultSlowRate),
		}, gcloud.ClientOptions(o)...), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return gcloud.ProviderName }

// IsAvailable reports true; credentials are resolved when the client starts.
func (p *Provider) IsAvailable(context.Context) bool { return true }

// Start creates the Text-to-Speech client.
func (p *Provider) Start(ctx context.Context) error {
	_, err := p.synthesizer(ctx)
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

func (p *Provider) synthesizer(ctx context.Context) (synthesizer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}
	c, err := texttospeech.NewClient(ctx, p.options...)
	if err != nil {
		return nil, errors.SynthesisFailed("google", err)
	}
	p.client = c
	return c, nil
}

// Execute requests MP3 audio for the text.
func (p *Provider) Execute(ctx context.Context, req synthesis.Request) (synthesis.Audio, error) {
	client, err := p.synthesizer(ctx)
	if err != nil {
		return synthesis.Audio{}, err
	}

	rate := p.cfg.SpeakingRate
	if req.Slow {
		rate = p.cfg.SlowRate
	}
	resp, err := client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: req.Text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: req.Language,
			Name:         p.cfg.Voice,
			SsmlGender:   texttospeechpb.SsmlVoiceGender(texttospeechpb.SsmlVoiceGender_value[p.cfg.Gender]),
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
			SpeakingRate:  rate,
		},
	})
	if err != nil {
		return synthesis.Audio{}, errors.SynthesisFailed("google", err).WithDetails(gcloud.Details(err))
	}
	return synthesis.Audio{Data: resp.GetAudioContent(), Format: synthesis.FormatMP3}, nil
}
