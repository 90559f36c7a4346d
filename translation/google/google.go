// Package google translates text with Google Cloud Translation (v2).
package google

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"

	"github.com/kbukum/voxlate/errors"
	"github.com/kbukum/voxlate/gcloud"
	"github.com/kbukum/voxlate/provider"
	"github.com/kbukum/voxlate/translation"
)

// Config holds the translation request settings.
type Config struct {
	// Model is "nmt" or "base". Empty uses the API default.
	Model string
	// HTML keeps the API's HTML escaping of the output. Off returns plain text.
	HTML bool
}

// translator is the subset of *translate.Client the backend calls.
type translator interface {
	Translate(ctx context.Context, inputs []string, target language.Tag, opts *translate.Options) ([]translate.Translation, error)
	Close() error
}

// Provider implements translation.Backend.
type Provider struct {
	cfg     Config
	options []option.ClientOption

	mu     sync.Mutex
	client translator
}

// New creates a Provider. The client is created on Start or first use.
func New(cfg Config, opts ...option.ClientOption) *Provider {
	return &Provider{cfg: cfg, options: opts}
}

// Factory returns a provider.Factory reading the backend options map.
func Factory() provider.Factory[translation.Backend] {
	return func(cfg map[string]any) (translation.Backend, error) {
		o := provider.Options(cfg)
		return New(Config{
			Model: o.String("model", ""),
			HTML:  o.Bool("html", false),
		}, gcloud.ClientOptions(o)...), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return gcloud.ProviderName }

// IsAvailable reports true; credentials are resolved when the client starts.
func (p *Provider) IsAvailable(context.Context) bool { return true }

// Start creates the Translation client.
func (p *Provider) Start(ctx context.Context) error {
	_, err := p.translator(ctx)
	return err
}

// Close releases the client.
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

func (p *Provider) translator(ctx context.Context) (translator, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}
	c, err := translate.NewClient(ctx, p.options...)
	if err != nil {
		return nil, errors.TranslationFailed("google", err)
	}
	p.client = c
	return c, nil
}

// Execute translates a single text.
func (p *Provider) Execute(ctx context.Context, req translation.Request) (translation.Result, error) {
	target, err := language.Parse(req.Target)
	if err != nil {
		return translation.Result{}, errors.InvalidInput("target_language", err.Error())
	}
	opts := &translate.Options{Model: p.cfg.Model, Format: translate.Text}
	if p.cfg.HTML {
		opts.Format = translate.HTML
	}
	if req.Source != "" {
		source, err := language.Parse(req.Source)
		if err != nil {
			return translation.Result{}, errors.InvalidInput("source_language", err.Error())
		}
		// The API expects a bare language for the source.
		base, _ := source.Base()
		opts.Source = language.Make(base.String())
	}

	client, err := p.translator(ctx)
	if err != nil {
		return translation.Result{}, err
	}
	translations, err := client.Translate(ctx, []string{req.Text}, target, opts)
	if err != nil {
		return translation.Result{}, errors.TranslationFailed("google", err).WithDetails(gcloud.Details(err))
	}
	if len(translations) == 0 {
		return translation.Result{}, errors.TranslationFailed("google", fmt.Errorf("no translations returned"))
	}

	result := translation.Result{TranslatedText: translations[0].Text}
	if translations[0].Source != language.Und {
		result.DetectedSourceLanguage = translations[0].Source.String()
	}
	return result, nil
}
