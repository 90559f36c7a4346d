// Package openai translates text with an OpenAI chat model.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/kbukum/voxlate/errors"
	"github.com/kbukum/voxlate/provider"
	"github.com/kbukum/voxlate/translation"
)

const (
	// ProviderName is the registered name for the OpenAI backend.
	ProviderName = "openai"

	defaultTimeout = 30 * time.Second
)

// Config holds configuration for the OpenAI translation backend.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Provider implements translation.Backend with a chat completion.
type Provider struct {
	cfg    Config
	client *openai.Client
}

// New creates an OpenAI translation backend.
func New(cfg Config) *Provider {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
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
func Factory() provider.Factory[translation.Backend] {
	return func(cfg map[string]any) (translation.Backend, error) {
		o := provider.Options(cfg)
		key := o.String("api_key", "")
		if key == "" {
			return nil, errors.InvalidInput("translation.options.api_key", "is required for openai")
		}
		return New(Config{
			APIKey:  key,
			BaseURL: o.String("base_url", ""),
			Model:   o.String("model", openai.GPT4oMini),
			Timeout: o.Duration("timeout", defaultTimeout),
		}), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether an API key is configured.
func (p *Provider) IsAvailable(context.Context) bool { return p.cfg.APIKey != "" }

// Execute asks the model for the translation alone.
func (p *Provider) Execute(ctx context.Context, req translation.Request) (translation.Result, error) {
	target, err := language.Parse(req.Target)
	if err != nil {
		return translation.Result{}, errors.InvalidInput("target_language", err.Error())
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.cfg.Model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(target, req.Source)},
			{Role: openai.ChatMessageRoleUser, Content: req.Text},
		},
	})
	if err != nil {
		return translation.Result{}, errors.TranslationFailed(ProviderName, err)
	}
	if len(resp.Choices) == 0 {
		return translation.Result{}, errors.TranslationFailed(ProviderName, fmt.Errorf("no choices returned"))
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return translation.Result{}, errors.TranslationFailed(ProviderName, fmt.Errorf("empty completion"))
	}
	return translation.Result{TranslatedText: text}, nil
}

// languageName renders a tag as an English name, e.g. "ja" -> "Japanese".
func languageName(tag language.Tag) string {
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return tag.String()
}

func systemPrompt(target language.Tag, source string) string {
	from := "the source language"
	if source != "" {
		if tag, err := language.Parse(source); err == nil {
			from = languageName(tag)
		}
	}
	return fmt.Sprintf("Translate the user's message from %s into %s (%s). "+
		"Reply with the translation only, without quotes or commentary.",
		from, languageName(target), target)
}
