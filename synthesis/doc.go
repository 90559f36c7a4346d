// Package synthesis turns translated text into speech and stores it as a
// fixed-name audio artifact for playback.
//
// A Client validates the text, calls a Backend (Google Cloud Text-to-Speech,
// OpenAI speech or ElevenLabs) and writes the returned audio to
// <dir>/<name>, replacing the artifact of any previous run:
//
//	client := synthesis.NewClient(backend, synthesis.WithOutputDir(os.TempDir()))
//	artifact, err := client.Synthesize(ctx, "こんにちは", "ja", false)
//	defer artifact.Remove()
package synthesis
