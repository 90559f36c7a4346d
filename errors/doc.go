// Package errors provides the unified error type for voxlate.
// Every stage failure is an AppError carrying a machine-readable code,
// retryable detection and the process exit status the CLI terminates with.
package errors
