package pipeline

import (
	"time"

	"github.com/kbukum/voxlate/validation"
)

// Defaults used when the configuration leaves a field empty.
const (
	DefaultTargetLanguage = "ja"
	DefaultSourceLanguage = "en-US"
	DefaultMaxAttempts    = 5
)

// Config controls a pipeline run.
type Config struct {
	// TargetLanguage is the BCP-47 tag translated into and spoken in.
	TargetLanguage string `yaml:"target_language" mapstructure:"target_language" validate:"required,langtag"`
	// SourceLanguage is the recognition hint and, when set, the translation source.
	SourceLanguage string `yaml:"source_language" mapstructure:"source_language" validate:"omitempty,langtag"`
	// MaxAttempts bounds the capture and transcription loop.
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts" validate:"gte=1"`
	// RetryPause is waited before prompting again. Zero prompts immediately.
	RetryPause time.Duration `yaml:"retry_pause" mapstructure:"retry_pause" validate:"gte=0"`
	// Speak synthesizes and plays the translation.
	Speak bool `yaml:"speak" mapstructure:"speak"`
	// Slow asks the synthesizer for a reduced speaking rate.
	Slow bool `yaml:"slow" mapstructure:"slow"`
	// KeepArtifact leaves the synthesized file on disk after playback.
	KeepArtifact bool `yaml:"keep_artifact" mapstructure:"keep_artifact"`
}

// ApplyDefaults fills in the language and attempt defaults.
func (c *Config) ApplyDefaults() {
	if c.TargetLanguage == "" {
		c.TargetLanguage = DefaultTargetLanguage
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
}

// Validate checks the language tags and bounds.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
