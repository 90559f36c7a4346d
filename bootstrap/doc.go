// Package bootstrap runs voxlate's one-shot lifecycle.
//
// NewApp validates the typed config and initializes logging. RunTask starts
// registered components, runs configure callbacks, executes the task under a
// signal-aware context and always shuts down afterwards, stopping components
// in reverse order.
package bootstrap
