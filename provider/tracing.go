package provider

import (
	"context"

	"github.com/kbukum/voxlate/errors"
	"github.com/kbukum/voxlate/observability"
)

// WithTracing returns a Middleware that creates an OpenTelemetry span named
// "voxlate.{stage}" around each Execute call.
func WithTracing[I, O any](stage string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &tracingRR[I, O]{inner: inner, stage: stage}
	}
}

type tracingRR[I, O any] struct {
	inner RequestResponse[I, O]
	stage string
}

func (t *tracingRR[I, O]) Name() string                         { return t.inner.Name() }
func (t *tracingRR[I, O]) IsAvailable(ctx context.Context) bool { return t.inner.IsAvailable(ctx) }
func (t *tracingRR[I, O]) Close(ctx context.Context) error      { return Close(ctx, t.inner) }

func (t *tracingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	ctx, span := observability.StartSpan(ctx, "voxlate."+t.stage)
	defer span.End()

	observability.SetSpanAttribute(ctx, observability.AttrStage, t.stage)
	observability.SetSpanAttribute(ctx, observability.AttrProvider, t.inner.Name())

	output, err := t.inner.Execute(ctx, input)
	if err != nil {
		observability.SetSpanError(ctx, err)
		if appErr, ok := errors.AsAppError(err); ok {
			observability.SetSpanAttribute(ctx, observability.AttrErrorCode, string(appErr.Code))
		}
	}
	return output, err
}
