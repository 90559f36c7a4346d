package transcription

const (
	// MsgUnavailable is reported when the service could not be reached.
	MsgUnavailable = "API unavailable"
	// MsgUnintelligible is reported when the service heard no words.
	MsgUnintelligible = "Unable to recognize speech"
)

// Response is the outcome of one transcription attempt. Build it with
// Recognized, Unavailable or Unintelligible; it is passed by value and never
// modified afterwards.
type Response struct {
	Success       bool   `json:"success"`
	Error         string `json:"error,omitempty"`
	Transcription string `json:"transcription,omitempty"`
}

// Recognized is a successful transcription.
func Recognized(text string) Response {
	return Response{Success: true, Transcription: text}
}

// Unavailable reports an unreachable or failing service.
func Unavailable() Response {
	return Response{Success: false, Error: MsgUnavailable}
}

// Unintelligible reports a reachable service that recognized nothing.
func Unintelligible() Response {
	return Response{Success: true, Error: MsgUnintelligible}
}

// HasText reports whether the response carries a transcription.
func (r Response) HasText() bool {
	return r.Transcription != ""
}
