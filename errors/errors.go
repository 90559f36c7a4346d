package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates the capture loop may try again.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Fatal reports whether the error must abort the pipeline.
func (e *AppError) Fatal() bool { return isFatalCode(e.Code) }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Pipeline Error Constructors ---

// DeviceError creates a new AppError for a microphone that could not be used.
func DeviceError(device string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeDeviceError, Message: fmt.Sprintf("Audio device %q could not be used.", device),
		Details: map[string]any{"device": device}, Cause: cause,
	}
}

// ServiceUnavailable creates a new AppError for a remote service that could not be reached.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: "API unavailable",
		Details: map[string]any{"service": service},
	}
}

// UnintelligibleSpeech creates a new AppError for audio the recognizer could not transcribe.
func UnintelligibleSpeech(service string) *AppError {
	return &AppError{
		Code: ErrCodeUnintelligibleSpeech, Message: "Unable to recognize speech",
		Retryable: true, Details: map[string]any{"service": service},
	}
}

// EmptyInput creates a new AppError for a stage that received no text to work on.
func EmptyInput(stage string) *AppError {
	return &AppError{
		Code: ErrCodeEmptyInput, Message: fmt.Sprintf("No text for %s: the input is empty.", stage),
		Details: map[string]any{"stage": stage},
	}
}

// TranslationFailed creates a new AppError for a rejected translation request.
func TranslationFailed(service string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTranslationFailed, Message: fmt.Sprintf("The %s translation service failed.", service),
		Details: map[string]any{"service": service}, Cause: cause,
	}
}

// SynthesisFailed creates a new AppError for a failed speech synthesis.
func SynthesisFailed(service string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeSynthesisFailed, Message: fmt.Sprintf("The %s speech synthesis failed.", service),
		Details: map[string]any{"service": service}, Cause: cause,
	}
}

// PlaybackFailed creates a new AppError for an artifact that could not be played.
func PlaybackFailed(player, path string, cause error) *AppError {
	return &AppError{
		Code: ErrCodePlaybackFailed, Message: fmt.Sprintf("Could not play %s.", path),
		Details: map[string]any{"player": player, "path": path}, Cause: cause,
	}
}

// Timeout creates a new AppError for an operation that was canceled or timed out.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The operation was canceled.",
		Details: map[string]any{"operation": operation},
	}
}

// InvalidInput creates a new AppError for invalid configuration or arguments.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// Internal creates a new AppError for an unexpected error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Cause: cause,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// ExitCode returns the process exit status for err: 0 for nil,
// the mapped status for AppErrors and 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	appErr, ok := AsAppError(err)
	if !ok {
		return 1
	}
	if code, ok := exitCodes[appErr.Code]; ok {
		return code
	}
	return 1
}

// Is is errors.Is, re-exported so callers need a single errors import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As is errors.As, re-exported so callers need a single errors import.
func As(err error, target any) bool { return stderrors.As(err, target) }
