// Package logger provides structured logging for voxlate using zerolog.
//
// Loggers are component scoped and pick up the run's correlation id from
// the context. Output defaults to stderr so that stdout carries only the
// prompts and results the user reads.
//
// # Configuration
//
//	logging:
//	  level: "warn"
//	  format: "console"
//
// # Usage
//
//	log := logger.Get("pipeline").WithContext(ctx)
//	log.Info("translated", logger.Fields("target", "ja"))
package logger
