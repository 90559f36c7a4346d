package app

import (
	"context"
	"io"
	"os"

	"github.com/kbukum/voxlate/audio"
	"github.com/kbukum/voxlate/bootstrap"
	"github.com/kbukum/voxlate/component"
	"github.com/kbukum/voxlate/logger"
	"github.com/kbukum/voxlate/observability"
	"github.com/kbukum/voxlate/pipeline"
	"github.com/kbukum/voxlate/playback"
	"github.com/kbukum/voxlate/provider"
	"github.com/kbukum/voxlate/synthesis"
	"github.com/kbukum/voxlate/transcription"
	"github.com/kbukum/voxlate/translation"
	"github.com/kbukum/voxlate/version"
)

// App is a configured voxlate run.
type App struct {
	*bootstrap.App[*Config]

	backends  Backends
	console   io.Writer
	capturer  pipeline.Capturer
	player    playback.Player
	telemetry *observability.Telemetry

	transcriber *transcription.Client
	translator  *translation.Client
	synthesizer *synthesis.Client
	pipeline    *pipeline.Pipeline
}

// Option configures an App.
type Option func(*options)

type options struct {
	backends  *Backends
	console   io.Writer
	capturer  pipeline.Capturer
	player    playback.Player
	bootstrap []bootstrap.Option
}

// WithBackends replaces the built-in backend registries.
func WithBackends(b Backends) Option {
	return func(o *options) { o.backends = &b }
}

// WithConsole sets where prompts and results are printed. Defaults to stdout.
func WithConsole(w io.Writer) Option {
	return func(o *options) { o.console = w }
}

// WithCapturer replaces the microphone built from the audio config.
func WithCapturer(c pipeline.Capturer) Option {
	return func(o *options) { o.capturer = c }
}

// WithPlayer replaces the player built from the playback config.
func WithPlayer(p playback.Player) Option {
	return func(o *options) { o.player = p }
}

// WithBootstrapOptions passes options through to bootstrap.NewApp.
func WithBootstrapOptions(opts ...bootstrap.Option) Option {
	return func(o *options) { o.bootstrap = append(o.bootstrap, opts...) }
}

// New validates cfg, creates the configured backends and registers their
// lifecycles. Nothing is contacted until Run.
func New(cfg *Config, opts ...Option) (*App, error) {
	o := &options{console: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Short()
	}

	base, err := bootstrap.NewApp(cfg, o.bootstrap...)
	if err != nil {
		return nil, err
	}

	a := &App{App: base, console: o.console, capturer: o.capturer, player: o.player}
	if o.backends != nil {
		a.backends = *o.backends
	} else {
		a.backends = DefaultBackends()
	}

	a.telemetry, err = observability.Setup(context.Background(), cfg.Observability, cfg.Name, cfg.Version, cfg.Environment)
	if err != nil {
		return nil, err
	}
	a.OnStop(a.telemetry.Shutdown)

	if err := a.buildStages(); err != nil {
		_ = a.telemetry.Shutdown(context.Background())
		return nil, err
	}
	a.OnConfigure(func(_ context.Context, _ *bootstrap.App[*Config]) error {
		return a.buildPipeline()
	})
	return a, nil
}

// Run executes one pipeline run inside the bootstrap lifecycle.
func (a *App) Run(ctx context.Context) error {
	return a.RunTask(ctx, func(ctx context.Context) error {
		_, err := a.pipeline.Run(ctx)
		return err
	})
}

func (a *App) buildStages() error {
	cfg := a.Cfg
	metrics := a.telemetry.Metrics

	stt, err := a.backends.Transcription.Create(cfg.Transcription.Provider, cfg.Transcription.Options)
	if err != nil {
		return err
	}
	a.transcriber = transcription.NewClient(
		provider.Instrument(stt, transcription.Stage, logger.WithComponent(transcription.Stage), metrics))
	if err := a.registerStage(transcription.Stage, stt, cfg.Transcription.Options, a.transcriber.Close); err != nil {
		return err
	}

	mt, err := a.backends.Translation.Create(cfg.Translation.Provider, cfg.Translation.Options)
	if err != nil {
		return err
	}
	var mtOpts []translation.Option
	if cfg.Translation.SourceFromHint && cfg.Pipeline.SourceLanguage != "" {
		mtOpts = append(mtOpts, translation.WithSourceLanguage(cfg.Pipeline.SourceLanguage))
	}
	a.translator = translation.NewClient(
		provider.Instrument(mt, translation.Stage, logger.WithComponent(translation.Stage), metrics), mtOpts...)
	if err := a.registerStage(translation.Stage, mt, cfg.Translation.Options, a.translator.Close); err != nil {
		return err
	}

	if !cfg.Pipeline.Speak {
		return nil
	}
	tts, err := a.backends.Synthesis.Create(cfg.Synthesis.Provider, cfg.Synthesis.Options)
	if err != nil {
		return err
	}
	a.synthesizer = synthesis.NewClient(
		provider.Instrument(tts, synthesis.Stage, logger.WithComponent(synthesis.Stage), metrics),
		synthesis.WithOutputDir(cfg.Synthesis.OutputDir),
		synthesis.WithFileName(cfg.Synthesis.FileName),
	)
	if err := a.registerStage(synthesis.Stage, tts, cfg.Synthesis.Options, a.synthesizer.Close); err != nil {
		return err
	}

	if a.player == nil {
		a.player, err = playback.New(cfg.Playback, a.backends.InProcess)
		if err != nil {
			return err
		}
	}
	return nil
}

// registerStage starts the raw backend with the app and closes it through
// the instrumented client on shutdown.
func (a *App) registerStage(stage string, backend provider.Provider, opts map[string]any, closeFn func(context.Context) error) error {
	a.Logger.Debug("backend configured", logger.Fields(
		"stage", stage,
		logger.FieldProvider, backend.Name(),
		"options", provider.Options(opts).Redacted(),
	))
	return a.RegisterComponent(&component.Funcs{
		ComponentName: stage,
		OnStart: func(ctx context.Context) error {
			return provider.Start(ctx, backend)
		},
		OnStop: closeFn,
	})
}

func (a *App) buildPipeline() error {
	cfg := a.Cfg
	capturer := a.capturer
	if capturer == nil {
		capturer = &audio.Microphone{
			Recorder: audio.NewRecorder(cfg.Audio.Recorder),
			Source:   audio.NewMalgoSource(cfg.Audio.MalgoConfig),
		}
	}

	opts := []pipeline.Option{
		pipeline.WithConsole(a.console),
		pipeline.WithMetrics(a.telemetry.Metrics),
	}
	if cfg.Pipeline.Speak {
		opts = append(opts, pipeline.WithSpeech(a.synthesizer, a.player))
	}
	a.pipeline = pipeline.New(cfg.Pipeline, capturer, a.transcriber, a.translator, opts...)
	a.Logger.Debug("pipeline ready", logger.Fields(
		"transcription", a.transcriber.Name(),
		"translation", a.translator.Name(),
		"speak", cfg.Pipeline.Speak,
	))
	return nil
}
