package synthesis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kbukum/voxlate/errors"
	"github.com/kbukum/voxlate/logger"
	"github.com/kbukum/voxlate/provider"
)

// Stage is the pipeline stage name used in logs, metrics and config.
const Stage = "synthesis"

// DefaultFileName is the artifact name used when none is configured.
const DefaultFileName = "output.mp3"

// FormatMP3 is the audio format every backend is asked for.
const FormatMP3 = "mp3"

// Request is one synthesis call.
type Request struct {
	Text string
	// Language is a BCP-47 tag for the voice, e.g. "ja".
	Language string
	// Slow asks for a reduced speaking rate.
	Slow bool
}

// Audio is encoded speech returned by a backend.
type Audio struct {
	Data   []byte
	Format string
}

// Backend synthesizes speech. Failures should be SYNTHESIS_FAILED errors;
// other errors are wrapped into one by the Client.
type Backend = provider.RequestResponse[Request, Audio]

// NewRegistry creates a registry of synthesis backend factories.
func NewRegistry() *provider.Registry[Backend] {
	return provider.NewRegistry[Backend](Stage)
}

// Artifact is a synthesized audio file on disk.
type Artifact struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
}

// Remove deletes the artifact file. A missing file is not an error.
func (a *Artifact) Remove() error {
	if a == nil || a.Path == "" {
		return nil
	}
	if err := os.Remove(a.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Client writes backend output to the fixed artifact path.
type Client struct {
	backend Backend
	dir     string
	name    string
	log     *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithOutputDir sets the directory the artifact is written to.
func WithOutputDir(dir string) Option {
	return func(c *Client) { c.dir = dir }
}

// WithFileName overrides DefaultFileName.
func WithFileName(name string) Option {
	return func(c *Client) { c.name = name }
}

// NewClient creates a Client over backend. The artifact defaults to
// output.mp3 in the working directory.
func NewClient(backend Backend, opts ...Option) *Client {
	c := &Client{backend: backend, dir: ".", name: DefaultFileName, log: logger.WithComponent(Stage)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the backend name.
func (c *Client) Name() string {
	return c.backend.Name()
}

// Path returns where the artifact is written.
func (c *Client) Path() string {
	return filepath.Join(c.dir, c.name)
}

// Synthesize converts text to speech and overwrites the artifact file.
// Blank text fails with EMPTY_INPUT without contacting the backend.
func (c *Client) Synthesize(ctx context.Context, text, lang string, slow bool) (*Artifact, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.EmptyInput(Stage)
	}

	out, err := c.backend.Execute(ctx, Request{Text: text, Language: lang, Slow: slow})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.SynthesisFailed(c.backend.Name(), err)
	}
	if len(out.Data) == 0 {
		return nil, errors.SynthesisFailed(c.backend.Name(), fmt.Errorf("backend returned no audio"))
	}

	path := c.Path()
	if err := writeFile(path, out.Data); err != nil {
		return nil, errors.SynthesisFailed(c.backend.Name(), err).WithDetail("path", path)
	}

	format := out.Format
	if format == "" {
		format = FormatMP3
	}
	c.log.WithContext(ctx).Debug("artifact written", logger.Fields(
		"path", path,
		"bytes", len(out.Data),
	))
	return &Artifact{Path: path, Format: format, Size: int64(len(out.Data))}, nil
}

// Close releases the backend's resources.
func (c *Client) Close(ctx context.Context) error {
	return provider.Close(ctx, c.backend)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
