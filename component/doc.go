// Package component manages the lifecycle of a run's resources.
//
// Components start in registration order and stop in reverse order, so a
// resource registered after its dependency is released before it.
package component
