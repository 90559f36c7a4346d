package transcription

import (
	"context"
	"strings"

	"github.com/kbukum/voxlate/audio"
	"github.com/kbukum/voxlate/errors"
	"github.com/kbukum/voxlate/logger"
	"github.com/kbukum/voxlate/provider"
)

// Client transcribes captures through a Backend and folds the outcome into
// a Response.
type Client struct {
	backend Backend
	log     *logger.Logger
}

// NewClient creates a Client over backend, typically one wrapped with
// provider.Instrument.
func NewClient(backend Backend) *Client {
	return &Client{backend: backend, log: logger.WithComponent(Stage)}
}

// Name returns the backend name.
func (c *Client) Name() string {
	return c.backend.Name()
}

// Transcribe sends the capture to the backend. It never returns an error:
// request failures become Unavailable, silence and empty results become
// Unintelligible. An empty capture is not sent.
func (c *Client) Transcribe(ctx context.Context, capture audio.CaptureResult, hint string) Response {
	if capture.Empty() {
		c.log.WithContext(ctx).Debug("empty capture, skipping request")
		return Unintelligible()
	}

	text, err := c.backend.Execute(ctx, Request{Audio: capture, LanguageHint: hint})
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeUnintelligibleSpeech) {
			return Unintelligible()
		}
		return Unavailable()
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Unintelligible()
	}
	return Recognized(text)
}

// Close releases the backend's resources.
func (c *Client) Close(ctx context.Context) error {
	return provider.Close(ctx, c.backend)
}
