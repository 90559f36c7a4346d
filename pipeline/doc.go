// Package pipeline runs one speech translation: capture an utterance,
// transcribe it, translate the text and optionally speak the translation.
//
// Capture and transcription run in a retry loop. An attempt that yields
// text or a service failure ends the loop; an unintelligible attempt prompts
// the user to speak again until the attempts run out. The loop's final
// response then passes a fatal check:
//
//	success=false      -> SERVICE_UNAVAILABLE
//	empty transcription -> EMPTY_INPUT
//
// so translation only ever sees non-empty text. Console prompts go to the
// configured writer and are separate from log output.
package pipeline
