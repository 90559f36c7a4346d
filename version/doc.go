// Package version reports the voxlate build version.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/voxlate/version.Version=1.0.0"
//
// Unset values fall back to the module's embedded VCS build settings.
package version
