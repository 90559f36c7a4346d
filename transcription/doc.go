// Package transcription turns a captured utterance into text.
//
// A Backend sends audio to a remote speech-to-text service and reports
// failures as typed errors. The Client folds every outcome into a Response:
//
//	reachable, recognized     -> {Success: true,  Error: "",                           Transcription: text}
//	unreachable / failed      -> {Success: false, Error: "API unavailable",            Transcription: ""}
//	reachable, unintelligible -> {Success: true,  Error: "Unable to recognize speech", Transcription: ""}
//
// # Backends
//
//   - transcription/google: Google Cloud Speech-to-Text
//   - transcription/whisper: OpenAI Whisper
//   - transcription/deepgram: Deepgram pre-recorded audio API
package transcription
