package app

import (
	"fmt"

	"github.com/kbukum/voxlate/audio"
	"github.com/kbukum/voxlate/config"
	"github.com/kbukum/voxlate/observability"
	"github.com/kbukum/voxlate/pipeline"
	"github.com/kbukum/voxlate/playback"
	"github.com/kbukum/voxlate/synthesis"
	"github.com/kbukum/voxlate/validation"
)

// Name is the application name used for config lookup.
const Name = "voxlate"

// EnvPrefix prefixes environment overrides, as in VOXLATE_PIPELINE_TARGET_LANGUAGE.
const EnvPrefix = "VOXLATE"

// Config is the complete voxlate configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Pipeline      pipeline.Config      `yaml:"pipeline" mapstructure:"pipeline"`
	Audio         AudioConfig          `yaml:"audio" mapstructure:"audio"`
	Transcription BackendConfig        `yaml:"transcription" mapstructure:"transcription"`
	Translation   TranslationConfig    `yaml:"translation" mapstructure:"translation"`
	Synthesis     SynthesisConfig      `yaml:"synthesis" mapstructure:"synthesis"`
	Playback      playback.Config      `yaml:"playback" mapstructure:"playback"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// BackendConfig selects a stage backend by registry name. Options are
// passed to the backend's factory as-is.
type BackendConfig struct {
	Provider string         `yaml:"provider" mapstructure:"provider" validate:"required"`
	Options  map[string]any `yaml:"options" mapstructure:"options"`
}

// TranslationConfig selects the translation backend.
type TranslationConfig struct {
	BackendConfig `yaml:",inline" mapstructure:",squash"`
	// SourceFromHint sends pipeline.source_language as the source language
	// instead of letting the service detect it.
	SourceFromHint bool `yaml:"source_from_hint" mapstructure:"source_from_hint"`
}

// SynthesisConfig selects the speech backend and where the artifact goes.
type SynthesisConfig struct {
	BackendConfig `yaml:",inline" mapstructure:",squash"`
	OutputDir     string `yaml:"output_dir" mapstructure:"output_dir"`
	FileName      string `yaml:"file_name" mapstructure:"file_name"`
}

// AudioConfig selects the capture device and tunes utterance detection.
type AudioConfig struct {
	audio.MalgoConfig `yaml:",inline" mapstructure:",squash"`
	Recorder          audio.RecorderConfig `yaml:"recorder" mapstructure:"recorder"`
}

// Defaults returns the values applied before the config file, environment
// and flags, keyed by config path.
func Defaults() map[string]any {
	return map[string]any{
		"name":                      Name,
		"pipeline.target_language":  pipeline.DefaultTargetLanguage,
		"pipeline.source_language":  pipeline.DefaultSourceLanguage,
		"pipeline.max_attempts":     pipeline.DefaultMaxAttempts,
		"pipeline.keep_artifact":    true,
		"audio.recorder.dynamic":    true,
		"transcription.provider":    "google",
		"translation.provider":      "google",
		"synthesis.provider":        "google",
		"synthesis.output_dir":      ".",
		"synthesis.file_name":       synthesis.DefaultFileName,
		"playback.player":           playback.KindCommand,
		"observability.sample_rate": 1.0,
	}
}

// ApplyDefaults fills zero values. Fields whose zero value is meaningful
// (booleans, the source language) are defaulted through Defaults instead.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = Name
	}
	c.ServiceConfig.ApplyDefaults()
	c.Pipeline.ApplyDefaults()
	c.Audio.Recorder.ApplyDefaults()
	c.Playback.ApplyDefaults()
	c.Observability.ApplyDefaults()

	for _, b := range []*BackendConfig{&c.Transcription, &c.Translation.BackendConfig, &c.Synthesis.BackendConfig} {
		if b.Provider == "" {
			b.Provider = "google"
		}
	}
	if c.Synthesis.OutputDir == "" {
		c.Synthesis.OutputDir = "."
	}
	if c.Synthesis.FileName == "" {
		c.Synthesis.FileName = synthesis.DefaultFileName
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}
	if c.Audio.SampleRate < 0 {
		return fmt.Errorf("audio.sample_rate must not be negative")
	}
	return nil
}
