// Package observability wires OpenTelemetry tracing and metrics.
//
// Export is opt-in: Setup installs OTLP/HTTP exporters only when an
// endpoint is configured and otherwise hands out instruments backed by a
// no-op meter, so callers never branch on whether telemetry is on.
//
//	tel, err := observability.Setup(ctx, cfg.Observability, "voxlate", version, env)
//	defer tel.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "voxlate.translate")
//	defer span.End()
package observability
