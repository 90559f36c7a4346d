package provider

import (
	"context"
	"time"

	"github.com/kbukum/voxlate/errors"
	"github.com/kbukum/voxlate/logger"
)

// WithLogging returns a Middleware that logs each Execute call with the
// provider name, stage, duration and outcome.
func WithLogging[I, O any](log *logger.Logger, stage string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &loggingRR[I, O]{inner: inner, log: log, stage: stage}
	}
}

type loggingRR[I, O any] struct {
	inner RequestResponse[I, O]
	log   *logger.Logger
	stage string
}

func (l *loggingRR[I, O]) Name() string                         { return l.inner.Name() }
func (l *loggingRR[I, O]) IsAvailable(ctx context.Context) bool { return l.inner.IsAvailable(ctx) }
func (l *loggingRR[I, O]) Close(ctx context.Context) error      { return Close(ctx, l.inner) }

func (l *loggingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	output, err := l.inner.Execute(ctx, input)

	log := l.log.WithContext(ctx)
	fields := logger.Fields(
		logger.FieldProvider, l.inner.Name(),
		logger.FieldOperation, l.stage,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	)
	if err == nil {
		log.Debug("stage completed", fields)
		return output, nil
	}

	fields[logger.FieldError] = err.Error()
	if appErr, ok := errors.AsAppError(err); ok && !appErr.Fatal() {
		log.Info("stage returned a recoverable error", fields)
	} else {
		log.Error("stage failed", fields)
	}
	return output, err
}
