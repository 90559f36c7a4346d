package app

import (
	"github.com/kbukum/voxlate/playback"
	"github.com/kbukum/voxlate/playback/beep"
	"github.com/kbukum/voxlate/provider"
	"github.com/kbukum/voxlate/synthesis"
	synthelevenlabs "github.com/kbukum/voxlate/synthesis/elevenlabs"
	synthgoogle "github.com/kbukum/voxlate/synthesis/google"
	synthopenai "github.com/kbukum/voxlate/synthesis/openai"
	"github.com/kbukum/voxlate/transcription"
	"github.com/kbukum/voxlate/transcription/deepgram"
	sttgoogle "github.com/kbukum/voxlate/transcription/google"
	"github.com/kbukum/voxlate/transcription/whisper"
	"github.com/kbukum/voxlate/translation"
	mtgoogle "github.com/kbukum/voxlate/translation/google"
	mtopenai "github.com/kbukum/voxlate/translation/openai"
)

// Backends holds the factory registry of each remote stage and the
// in-process audio player.
type Backends struct {
	Transcription *provider.Registry[transcription.Backend]
	Translation   *provider.Registry[translation.Backend]
	Synthesis     *provider.Registry[synthesis.Backend]
	InProcess     playback.InProcessFunc
}

// DefaultBackends registers every built-in backend.
func DefaultBackends() Backends {
	b := Backends{
		Transcription: transcription.NewRegistry(),
		Translation:   translation.NewRegistry(),
		Synthesis:     synthesis.NewRegistry(),
		InProcess:     beep.New,
	}

	b.Transcription.RegisterFactory("google", sttgoogle.Factory())
	b.Transcription.RegisterFactory(whisper.ProviderName, whisper.Factory())
	b.Transcription.RegisterFactory(deepgram.ProviderName, deepgram.Factory())

	b.Translation.RegisterFactory("google", mtgoogle.Factory())
	b.Translation.RegisterFactory(mtopenai.ProviderName, mtopenai.Factory())

	b.Synthesis.RegisterFactory("google", synthgoogle.Factory())
	b.Synthesis.RegisterFactory(synthopenai.ProviderName, synthopenai.Factory())
	b.Synthesis.RegisterFactory(synthelevenlabs.ProviderName, synthelevenlabs.Factory())
	return b
}
