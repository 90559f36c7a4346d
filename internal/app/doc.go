// Package app assembles voxlate from its configuration: it selects the
// stage backends, instruments them, registers their lifecycles with the
// bootstrap App and builds the pipeline that RunTask executes.
package app
