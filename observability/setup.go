package observability

import (
	"context"
	stderrors "errors"

	"go.opentelemetry.io/otel/metric/noop"
)

// Telemetry bundles the installed providers and the pipeline instruments.
type Telemetry struct {
	Metrics   *Metrics
	shutdowns []func(context.Context) error
}

// Setup installs OTLP exporters when cfg is enabled and always returns usable
// Metrics. Without an endpoint the instruments come from a no-op meter.
func Setup(ctx context.Context, cfg Config, serviceName, serviceVersion, environment string) (*Telemetry, error) {
	cfg.ApplyDefaults()
	t := &Telemetry{}

	if !cfg.Enabled() {
		metrics, err := NewMetrics(noop.NewMeterProvider().Meter(serviceName))
		if err != nil {
			return nil, err
		}
		t.Metrics = metrics
		return t, nil
	}

	tp, err := InitTracer(ctx, TracerConfig{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Environment:    environment,
		Endpoint:       cfg.Endpoint,
		Insecure:       cfg.Insecure,
		SampleRate:     cfg.SampleRate,
	})
	if err != nil {
		return nil, err
	}
	t.shutdowns = append(t.shutdowns, tp.Shutdown)

	mp, err := InitMeter(ctx, &MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Environment:    environment,
		Endpoint:       cfg.Endpoint,
		Insecure:       cfg.Insecure,
		Interval:       cfg.MetricInterval,
	})
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	t.shutdowns = append(t.shutdowns, mp.Shutdown)

	metrics, err := NewMetrics(Meter(serviceName))
	if err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}
	t.Metrics = metrics
	return t, nil
}

// Shutdown flushes and stops the installed providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(t.shutdowns) - 1; i >= 0; i-- {
		if err := t.shutdowns[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	t.shutdowns = nil
	return stderrors.Join(errs...)
}
