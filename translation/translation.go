package translation

import (
	"context"
	"strings"

	"github.com/kbukum/voxlate/errors"
	"github.com/kbukum/voxlate/logger"
	"github.com/kbukum/voxlate/provider"
)

// Stage is the pipeline stage name used in logs, metrics and config.
const Stage = "translation"

// Request is one translation call.
type Request struct {
	Text string
	// Target is a BCP-47 tag such as "ja".
	Target string
	// Source is an optional source-language tag. Empty lets the backend detect it.
	Source string
}

// Result is a translated text.
type Result struct {
	TranslatedText         string `json:"translated_text"`
	DetectedSourceLanguage string `json:"detected_source_language,omitempty"`
}

// Backend translates text. Failures should be TRANSLATION_FAILED errors;
// other errors are wrapped into one by the Client.
type Backend = provider.RequestResponse[Request, Result]

// NewRegistry creates a registry of translation backend factories.
func NewRegistry() *provider.Registry[Backend] {
	return provider.NewRegistry[Backend](Stage)
}

// Client validates input and calls a Backend.
type Client struct {
	backend Backend
	source  string
	log     *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithSourceLanguage sends a fixed source language instead of relying on detection.
func WithSourceLanguage(tag string) Option {
	return func(c *Client) { c.source = tag }
}

// NewClient creates a Client over backend.
func NewClient(backend Backend, opts ...Option) *Client {
	c := &Client{backend: backend, log: logger.WithComponent(Stage)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the backend name.
func (c *Client) Name() string {
	return c.backend.Name()
}

// Translate translates text into target. Blank text fails with EMPTY_INPUT
// without contacting the backend. The text is forwarded unmodified.
func (c *Client) Translate(ctx context.Context, text, target string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, errors.EmptyInput(Stage)
	}
	if strings.TrimSpace(target) == "" {
		return Result{}, errors.InvalidInput("target_language", "is required")
	}

	result, err := c.backend.Execute(ctx, Request{Text: text, Target: target, Source: c.source})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.IsAppError(err) {
			return Result{}, err
		}
		return Result{}, errors.TranslationFailed(c.backend.Name(), err)
	}
	return result, nil
}

// Close releases the backend's resources.
func (c *Client) Close(ctx context.Context) error {
	return provider.Close(ctx, c.backend)
}
