// Command voxlate records one spoken sentence, translates it and optionally
// speaks the translation.
//
//	voxlate --target ja
//	voxlate --target de --speak --slow
//	voxlate --list-devices
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/kbukum/voxlate/audio"
	"github.com/kbukum/voxlate/config"
	"github.com/kbukum/voxlate/errors"
	"github.com/kbukum/voxlate/internal/app"
	"github.com/kbukum/voxlate/logger"
	"github.com/kbukum/voxlate/pipeline"
	"github.com/kbukum/voxlate/version"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// flagKeys maps config keys to the flags that override them.
var flagKeys = map[string]string{
	"pipeline.target_language":     "target",
	"pipeline.source_language":     "source",
	"pipeline.max_attempts":        "max-attempts",
	"pipeline.speak":               "speak",
	"pipeline.slow":                "slow",
	"pipeline.keep_artifact":       "keep-artifact",
	"audio.device":                 "device",
	"transcription.provider":       "stt",
	"translation.provider":         "translator",
	"synthesis.provider":           "tts",
	"synthesis.output_dir":         "output-dir",
	"playback.player":              "player",
	"debug":                        "debug",
	"observability.endpoint":       "otlp-endpoint",
	"translation.source_from_hint": "source-from-hint",
}

func newFlagSet(stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(app.Name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringP("config", "c", "", "config file (default: ./voxlate.yml, ./config.yml, ~/.config/voxlate/config.yml)")
	fs.String("env-file", "", ".env file to load")
	fs.BoolP("version", "v", false, "print version and exit")
	fs.Bool("list-devices", false, "list capture devices and exit")

	fs.StringP("target", "t", pipeline.DefaultTargetLanguage, "language to translate into")
	fs.StringP("source", "s", pipeline.DefaultSourceLanguage, "language spoken, used as recognition hint")
	fs.Bool("source-from-hint", false, "send --source to the translator instead of detecting the language")
	fs.Int("max-attempts", pipeline.DefaultMaxAttempts, "how many times to ask before giving up")
	fs.Bool("speak", false, "speak the translation")
	fs.Bool("slow", false, "speak slowly")
	fs.Bool("keep-artifact", true, "keep the synthesized audio file after playback")
	fs.String("output-dir", ".", "directory for the synthesized audio file")
	fs.StringP("device", "d", "", "capture device name (substring match)")
	fs.String("stt", "", "speech-to-text backend: google, whisper, deepgram")
	fs.String("translator", "", "translation backend: google, openai")
	fs.String("tts", "", "text-to-speech backend: google, openai, elevenlabs")
	fs.String("player", "", "playback: command, beep, auto")
	fs.String("otlp-endpoint", "", "OTLP/HTTP endpoint for traces and metrics")
	fs.Bool("debug", false, "enable debug logging")
	return fs
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return fail(stderr, errors.InvalidInput("", err.Error()))
	}

	if show, _ := fs.GetBool("version"); show {
		fmt.Fprintf(stdout, "%s %s\n", app.Name, version.Get())
		return 0
	}
	if list, _ := fs.GetBool("list-devices"); list {
		return listDevices(stdout, stderr)
	}

	loaderOpts := []config.LoaderOption{
		config.WithDefaults(app.Defaults()),
		config.WithEnvPrefix(app.EnvPrefix),
		config.WithFlags(fs, flagKeys),
	}
	if path, _ := fs.GetString("config"); path != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(path))
	}
	if path, _ := fs.GetString("env-file"); path != "" {
		loaderOpts = append(loaderOpts, config.WithEnvFile(path))
	}

	var cfg app.Config
	if err := config.LoadConfig(app.Name, &cfg, loaderOpts...); err != nil {
		return fail(stderr, errors.Validation(err.Error()).WithCause(err))
	}

	a, err := app.New(&cfg, app.WithConsole(stdout))
	if err != nil {
		return fail(stderr, err)
	}
	return fail(stderr, a.Run(ctx))
}

func listDevices(stdout, stderr io.Writer) int {
	devices, err := audio.ListDevices()
	if err != nil {
		return fail(stderr, errors.DeviceError("default", err))
	}
	for _, d := range devices {
		marker := " "
		if d.IsDefault {
			marker = "*"
		}
		fmt.Fprintf(stdout, "%s %s\n", marker, d.Name)
	}
	return 0
}

// fail prints err as "ERROR: <message>" and returns its exit status.
func fail(stderr io.Writer, err error) int {
	if err == nil {
		return 0
	}
	msg := err.Error()
	if appErr, ok := errors.AsAppError(err); ok {
		msg = appErr.Message
		if appErr.Cause != nil {
			logger.Debug("run failed", logger.Fields(
				"code", string(appErr.Code),
				logger.FieldError, appErr.Cause.Error(),
			))
		}
	}
	fmt.Fprintf(stderr, "ERROR: %s\n", msg)
	return errors.ExitCode(err)
}
