package playback

import (
	"context"
	"fmt"
	"strings"

	"github.com/kbukum/voxlate/errors"
	"github.com/kbukum/voxlate/process"
)

// Stage is the pipeline stage name used in logs and config.
const Stage = "playback"

// Player kinds accepted by New.
const (
	KindCommand = "command"
	KindBeep    = "beep"
	KindAuto    = "auto"
)

// Player plays an audio file and returns when playback has finished.
type Player interface {
	Name() string
	Play(ctx context.Context, path string) error
}

// Config selects and configures a Player.
type Config struct {
	// Player is "command", "beep" or "auto". Auto uses the command when its
	// binary is installed and falls back to in-process playback.
	Player string `yaml:"player" mapstructure:"player" validate:"omitempty,oneof=command beep auto"`
	// Command overrides the platform default binary.
	Command string `yaml:"command" mapstructure:"command"`
	// Args are passed to the command before the file path.
	Args []string `yaml:"args" mapstructure:"args"`
}

// ApplyDefaults fills in the platform defaults.
func (c *Config) ApplyDefaults() {
	if c.Player == "" {
		c.Player = KindCommand
	}
	if c.Command == "" {
		c.Command = DefaultCommand
		if c.Args == nil {
			c.Args = DefaultArgs
		}
	}
}

// InProcessFunc creates the in-process Player used for the beep kind.
type InProcessFunc func() Player

// New creates the Player selected by cfg. inProcess backs the beep kind and
// the auto fallback; without it those kinds are rejected.
func New(cfg Config, inProcess InProcessFunc) (Player, error) {
	cfg.ApplyDefaults()
	kind := strings.ToLower(cfg.Player)
	switch kind {
	case KindCommand:
		return NewCommandPlayer(cfg.Command, cfg.Args...), nil
	case KindAuto:
		if process.Available(cfg.Command) {
			return NewCommandPlayer(cfg.Command, cfg.Args...), nil
		}
		fallthrough
	case KindBeep:
		if inProcess == nil {
			return nil, errors.InvalidInput("playback.player", fmt.Sprintf("player %q needs in-process playback, which is not available", kind))
		}
		return inProcess(), nil
	default:
		return nil, errors.InvalidInput("playback.player", fmt.Sprintf("unknown player %q", cfg.Player))
	}
}
