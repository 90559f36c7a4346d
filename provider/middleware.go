package provider

import (
	"github.com/kbukum/voxlate/logger"
	"github.com/kbukum/voxlate/observability"
)

// Middleware transforms a RequestResponse provider by wrapping it.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain composes multiple middlewares into one. The first middleware is
// outermost: Chain(a, b, c)(p) is equivalent to a(b(c(p))).
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}

// Instrument wraps a stage backend with logging, metrics and tracing.
// A nil metrics skips the metrics middleware.
func Instrument[I, O any](p RequestResponse[I, O], stage string, log *logger.Logger, metrics *observability.Metrics) RequestResponse[I, O] {
	mws := []Middleware[I, O]{WithLogging[I, O](log, stage)}
	if metrics != nil {
		mws = append(mws, WithMetrics[I, O](metrics, stage))
	}
	mws = append(mws, WithTracing[I, O](stage))
	return Chain(mws...)(p)
}
