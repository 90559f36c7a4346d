package provider

import (
	"context"
	"time"

	"github.com/kbukum/voxlate/errors"
	"github.com/kbukum/voxlate/observability"
)

// WithMetrics returns a Middleware that records stage count, duration and
// errors using the observability.Metrics instruments.
func WithMetrics[I, O any](metrics *observability.Metrics, stage string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &metricsRR[I, O]{inner: inner, metrics: metrics, stage: stage}
	}
}

type metricsRR[I, O any] struct {
	inner   RequestResponse[I, O]
	metrics *observability.Metrics
	stage   string
}

func (m *metricsRR[I, O]) Name() string                         { return m.inner.Name() }
func (m *metricsRR[I, O]) IsAvailable(ctx context.Context) bool { return m.inner.IsAvailable(ctx) }
func (m *metricsRR[I, O]) Close(ctx context.Context) error      { return Close(ctx, m.inner) }

func (m *metricsRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	output, err := m.inner.Execute(ctx, input)

	status := "ok"
	if err != nil {
		status = "error"
		code := string(errors.ErrCodeInternal)
		if appErr, ok := errors.AsAppError(err); ok {
			code = string(appErr.Code)
		}
		m.metrics.RecordError(ctx, code, m.inner.Name())
	}
	m.metrics.RecordStage(ctx, m.inner.Name(), m.stage, status, time.Since(start))
	return output, err
}
