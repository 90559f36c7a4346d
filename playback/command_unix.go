//go:build !darwin && !windows

package playback

// DefaultCommand is the audio command used when none is configured.
const DefaultCommand = "mpg123"

// DefaultArgs are passed to DefaultCommand before the file path.
var DefaultArgs = []string{"-q"}
