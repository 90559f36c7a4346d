package playback

// DefaultCommand is the audio command used when none is configured.
const DefaultCommand = "afplay"

// DefaultArgs are passed to DefaultCommand before the file path.
var DefaultArgs []string
