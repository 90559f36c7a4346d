// Package translation translates recognized text into a target language.
//
// Empty input is rejected before any remote call. Remote failures are
// TRANSLATION_FAILED and are not retried.
//
// # Backends
//
//   - translation/google: Google Cloud Translation (v2)
//   - translation/openai: OpenAI chat completion
package translation
