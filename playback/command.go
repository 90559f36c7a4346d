package playback

import (
	"context"
	"os"
	"time"

	"github.com/kbukum/voxlate/errors"
	"github.com/kbukum/voxlate/process"
)

// CommandPlayer plays a file by running an external command with the path as
// its final argument. The command's exit status is not inspected; only a
// failure to start it is an error.
type CommandPlayer struct {
	Binary string
	Args   []string
	// GracePeriod bounds how long a canceled player may take to exit.
	GracePeriod time.Duration
}

// NewCommandPlayer creates a CommandPlayer.
func NewCommandPlayer(binary string, args ...string) *CommandPlayer {
	return &CommandPlayer{Binary: binary, Args: args, GracePeriod: 2 * time.Second}
}

// Name returns the binary name.
func (p *CommandPlayer) Name() string { return p.Binary }

// Play runs the command and waits for it to exit.
func (p *CommandPlayer) Play(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return errors.PlaybackFailed(p.Name(), path, err)
	}

	args := make([]string, 0, len(p.Args)+1)
	args = append(args, p.Args...)
	args = append(args, path)

	_, err := process.Run(ctx, process.Command{
		Binary:         p.Binary,
		Args:           args,
		GracePeriod:    p.GracePeriod,
		IgnoreExitCode: true,
	})
	if err != nil {
		return errors.PlaybackFailed(p.Name(), path, err)
	}
	return nil
}
