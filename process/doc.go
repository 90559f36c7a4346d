// Package process runs external executables, such as the platform audio
// player, with output capture and context cancellation.
package process
