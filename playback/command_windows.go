package playback

// DefaultCommand is the audio command used when none is configured.
const DefaultCommand = "ffplay"

// DefaultArgs keep ffplay headless and make it exit at end of file.
var DefaultArgs = []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}
