package pipeline

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/voxlate/audio"
	"github.com/kbukum/voxlate/errors"
	"github.com/kbukum/voxlate/logger"
	"github.com/kbukum/voxlate/observability"
	"github.com/kbukum/voxlate/playback"
	"github.com/kbukum/voxlate/resilience"
	"github.com/kbukum/voxlate/synthesis"
	"github.com/kbukum/voxlate/transcription"
	"github.com/kbukum/voxlate/translation"
)

// Capturer records one utterance. *audio.Microphone implements it.
type Capturer interface {
	Capture(ctx context.Context) (audio.CaptureResult, error)
}

// Transcriber turns a capture into a Response. *transcription.Client implements it.
type Transcriber interface {
	Transcribe(ctx context.Context, capture audio.CaptureResult, hint string) transcription.Response
}

// Translator translates text. *translation.Client implements it.
type Translator interface {
	Translate(ctx context.Context, text, target string) (translation.Result, error)
}

// Synthesizer writes speech for text to an artifact. *synthesis.Client implements it.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string, slow bool) (*synthesis.Artifact, error)
}

// Outcome describes a completed or partially completed run.
type Outcome struct {
	RunID         string
	Transcription transcription.Response
	Attempts      int
	Translation   translation.Result
	Artifact      *synthesis.Artifact
	// PlaybackErr is a reported, non-fatal playback failure.
	PlaybackErr error
}

// Pipeline wires the stages of a run.
type Pipeline struct {
	cfg         Config
	capturer    Capturer
	transcriber Transcriber
	translator  Translator
	synthesizer Synthesizer
	player      playback.Player
	console     console
	metrics     *observability.Metrics
	log         *logger.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSpeech enables the synthesis and playback stages used when
// Config.Speak is set.
func WithSpeech(s Synthesizer, p playback.Player) Option {
	return func(pl *Pipeline) {
		pl.synthesizer = s
		pl.player = p
	}
}

// WithConsole sets where prompts and results are printed. Defaults to stdout.
func WithConsole(w io.Writer) Option {
	return func(p *Pipeline) { p.console = console{w: w} }
}

// WithMetrics records capture attempts per run.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// New creates a Pipeline.
func New(cfg Config, c Capturer, t Transcriber, tr Translator, opts ...Option) *Pipeline {
	cfg.ApplyDefaults()
	p := &Pipeline{
		cfg:         cfg,
		capturer:    c,
		transcriber: t,
		translator:  tr,
		console:     console{w: os.Stdout},
		log:         logger.WithComponent("pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RunWithRetries captures and transcribes up to maxAttempts times. It stops
// at the first response with text or with success=false; unintelligible
// responses prompt the user again. It returns the last response and the
// number of captures made. The error is non-nil only when capturing failed
// or ctx was canceled.
func (p *Pipeline) RunWithRetries(ctx context.Context, maxAttempts int) (transcription.Response, int, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	log := p.log.WithContext(ctx)

	retry := resilience.RetryConfig{
		MaxAttempts:    maxAttempts,
		InitialBackoff: p.cfg.RetryPause,
		MaxBackoff:     p.cfg.RetryPause,
		BackoffFactor:  1,
		RetryIf: func(err error) bool {
			return errors.HasCode(err, errors.ErrCodeUnintelligibleSpeech)
		},
		OnRetry: func(attempt int, _ error, _ time.Duration) {
			log.Debug("speech not recognized, capturing again", logger.Fields(logger.FieldAttempt, attempt))
		},
	}

	resp, attempts, err := resilience.Retry(ctx, retry, func(ctx context.Context, attempt int) (transcription.Response, error) {
		p.console.speak()
		capture, err := p.capturer.Capture(ctx)
		if err != nil {
			return transcription.Response{}, err
		}
		log.Debug("utterance captured", logger.Fields(
			logger.FieldAttempt, attempt,
			logger.FieldDuration, capture.Duration.Milliseconds(),
		))

		resp := p.transcriber.Transcribe(ctx, capture, p.cfg.SourceLanguage)
		if resp.HasText() || !resp.Success {
			return resp, nil
		}
		p.console.retry()
		return resp, errors.UnintelligibleSpeech(transcription.Stage)
	})
	if err != nil && !errors.HasCode(err, errors.ErrCodeUnintelligibleSpeech) {
		return resp, attempts, err
	}
	return resp, attempts, nil
}

// Run executes one full translation. Fatal failures are returned as
// AppErrors together with the partial Outcome; a playback failure is only
// recorded in Outcome.PlaybackErr.
func (p *Pipeline) Run(ctx context.Context) (*Outcome, error) {
	out := &Outcome{RunID: uuid.NewString()}
	ctx = logger.ContextWithCorrelationID(ctx, out.RunID)
	log := p.log.WithContext(ctx)
	start := time.Now()

	resp, attempts, err := p.RunWithRetries(ctx, p.cfg.MaxAttempts)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	out.Transcription, out.Attempts = resp, attempts
	if p.metrics != nil {
		p.metrics.RecordCaptureAttempts(ctx, attempts, resp.HasText())
	}
	if err != nil {
		return out, p.fail(ctx, "capture", err)
	}

	if resp.Error != "" {
		p.console.error(resp.Error)
	}
	if !resp.Success {
		return out, errors.New(errors.ErrCodeServiceUnavailable, "The speech recognition service could not be reached.").
			WithDetails(map[string]any{"service": transcription.Stage, logger.FieldAttempt: attempts})
	}
	if !resp.HasText() {
		return out, errors.EmptyInput(translation.Stage).WithDetail(logger.FieldAttempt, attempts)
	}
	p.console.heard(resp.Transcription)

	result, err := p.translator.Translate(ctx, resp.Transcription, p.cfg.TargetLanguage)
	if err != nil {
		return out, p.fail(ctx, translation.Stage, err)
	}
	out.Translation = result
	p.console.translated(result.TranslatedText)

	if p.cfg.Speak {
		if err := p.speak(ctx, out); err != nil {
			return out, err
		}
	}

	log.Info("run completed", logger.Fields(
		logger.FieldAttempt, attempts,
		logger.FieldLanguage, p.cfg.TargetLanguage,
		"detected_source", result.DetectedSourceLanguage,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return out, nil
}

func (p *Pipeline) speak(ctx context.Context, out *Outcome) error {
	if p.synthesizer == nil || p.player == nil {
		return errors.InvalidInput("pipeline.speak", "speech output is not configured")
	}
	log := p.log.WithContext(ctx)

	artifact, err := p.synthesizer.Synthesize(ctx, out.Translation.TranslatedText, p.cfg.TargetLanguage, p.cfg.Slow)
	if err != nil {
		return p.fail(ctx, synthesis.Stage, err)
	}
	out.Artifact = artifact

	if err := p.player.Play(ctx, artifact.Path); err != nil {
		if ctx.Err() != nil {
			return p.fail(ctx, playback.Stage, err)
		}
		out.PlaybackErr = err
		log.Warn("playback failed", logger.Fields(
			logger.FieldProvider, p.player.Name(),
			logger.FieldPath, artifact.Path,
			logger.FieldError, err.Error(),
		))
		if appErr, ok := errors.AsAppError(err); ok {
			p.console.error(appErr.Message)
		} else {
			p.console.error(err.Error())
		}
	}

	if !p.cfg.KeepArtifact {
		if err := artifact.Remove(); err != nil {
			log.Warn("could not remove artifact", logger.Fields(logger.FieldPath, artifact.Path, logger.FieldError, err.Error()))
		}
	}
	return nil
}

// fail converts cancellation into TIMEOUT and anything untyped into INTERNAL.
func (p *Pipeline) fail(ctx context.Context, stage string, err error) error {
	if ctx.Err() != nil {
		return errors.Timeout(stage).WithCause(err)
	}
	if errors.IsAppError(err) {
		return err
	}
	return errors.Internal(err).WithDetail(logger.FieldOperation, stage)
}
