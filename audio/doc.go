// Package audio captures one spoken utterance from a microphone.
//
// A Source opens a Stream of PCM16LE mono frames. The Recorder calibrates an
// energy threshold against ambient noise, waits for the first frame above it
// and records until a trailing-silence window or the phrase limit ends the
// utterance. MalgoSource reads from a real capture device through miniaudio.
package audio
