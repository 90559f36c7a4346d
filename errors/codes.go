package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Capture errors
const (
	// ErrCodeDeviceError indicates the microphone could not be opened or calibrated.
	ErrCodeDeviceError ErrorCode = "DEVICE_ERROR"
)

// Remote service errors
const (
	// ErrCodeServiceUnavailable indicates a remote service could not be reached.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeUnintelligibleSpeech indicates the recognizer could not make out any speech.
	ErrCodeUnintelligibleSpeech ErrorCode = "UNINTELLIGIBLE_SPEECH"
	// ErrCodeTranslationFailed indicates the translation service rejected the request.
	ErrCodeTranslationFailed ErrorCode = "TRANSLATION_FAILED"
	// ErrCodeSynthesisFailed indicates speech synthesis or writing the artifact failed.
	ErrCodeSynthesisFailed ErrorCode = "SYNTHESIS_FAILED"
	// ErrCodePlaybackFailed indicates the artifact could not be played.
	ErrCodePlaybackFailed ErrorCode = "PLAYBACK_FAILED"
	// ErrCodeTimeout indicates the operation was canceled or timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Validation errors
const (
	// ErrCodeEmptyInput indicates a stage received empty text.
	ErrCodeEmptyInput ErrorCode = "EMPTY_INPUT"
	// ErrCodeInvalidInput indicates invalid configuration or arguments.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeUnintelligibleSpeech: true,
}

// IsRetryableCode returns true if the error code is absorbed by the capture loop.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

// non-fatal codes are reported but never terminate a run.
var nonFatalCodes = map[ErrorCode]bool{
	ErrCodeUnintelligibleSpeech: true,
	ErrCodePlaybackFailed:       true,
}

// isFatalCode reports whether an error with this code must abort the pipeline.
func isFatalCode(code ErrorCode) bool {
	return !nonFatalCodes[code]
}

var exitCodes = map[ErrorCode]int{
	ErrCodeInternal:           1,
	ErrCodeInvalidInput:       2,
	ErrCodeDeviceError:        3,
	ErrCodeServiceUnavailable: 4,
	ErrCodeEmptyInput:         5,
	ErrCodeTranslationFailed:  6,
	ErrCodeSynthesisFailed:    7,
	ErrCodeTimeout:            130,
}
