// Package playback plays a synthesized audio artifact.
//
// Two Players are provided: CommandPlayer hands the file path to a
// platform audio command (afplay on macOS, mpg123 on other unix systems,
// ffplay on Windows) and the beep sub-package decodes MP3 in-process and
// plays it on the default output device. Playback failures are PLAYBACK_FAILED
// errors, which callers report without aborting the run.
package playback
