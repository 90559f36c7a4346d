package transcription

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/kbukum/voxlate/audio"
	"github.com/kbukum/voxlate/provider"
)

// Stage is the pipeline stage name used in logs, metrics and config.
const Stage = "transcription"

// Request is one utterance to transcribe.
type Request struct {
	Audio audio.CaptureResult
	// LanguageHint is a BCP-47 tag such as "en-US". Empty lets the backend decide.
	LanguageHint string
}

// Backend transcribes audio. Implementations return the recognized text, an
// UNINTELLIGIBLE_SPEECH error when nothing was recognized, or a
// SERVICE_UNAVAILABLE error when the request failed.
type Backend = provider.RequestResponse[Request, string]

// NewRegistry creates a registry of transcription backend factories.
func NewRegistry() *provider.Registry[Backend] {
	return provider.NewRegistry[Backend](Stage)
}

// BaseLanguage reduces a BCP-47 tag to its ISO 639-1 base ("en-US" -> "en"),
// for APIs that take only a language. Unparseable hints yield "".
func BaseLanguage(hint string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return ""
	}
	tag, err := language.Parse(hint)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}
