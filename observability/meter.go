package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/voxlate/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	Interval time.Duration
}

// InitMeter initializes the OpenTelemetry meter provider and installs it globally.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Debug("meter initialized", logger.Fields(
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded by the pipeline.
type Metrics struct {
	stageTotal     metric.Int64Counter
	stageDuration  metric.Float64Histogram
	errorTotal     metric.Int64Counter
	captureAttempt metric.Int64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	stageTotal, err := meter.Int64Counter("voxlate.stage.total",
		metric.WithDescription("Pipeline stage executions by provider and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating voxlate.stage.total counter: %w", err)
	}

	stageDuration, err := meter.Float64Histogram("voxlate.stage.duration",
		metric.WithDescription("Duration of pipeline stage executions"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating voxlate.stage.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("voxlate.error.total",
		metric.WithDescription("Errors by code and provider"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating voxlate.error.total counter: %w", err)
	}

	captureAttempt, err := meter.Int64Histogram("voxlate.capture.attempts",
		metric.WithDescription("Capture attempts needed per run"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating voxlate.capture.attempts histogram: %w", err)
	}

	return &Metrics{
		stageTotal:     stageTotal,
		stageDuration:  stageDuration,
		errorTotal:     errorTotal,
		captureAttempt: captureAttempt,
	}, nil
}

// RecordStage records one stage execution.
func (m *Metrics) RecordStage(ctx context.Context, provider, stage, status string, duration time.Duration) {
	m.stageTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("stage", stage),
		attribute.String("status", status),
	))
	m.stageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("stage", stage),
	))
}

// RecordError records an error by code and provider.
func (m *Metrics) RecordError(ctx context.Context, code, provider string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("provider", provider),
	))
}

// RecordCaptureAttempts records how many capture attempts a run needed.
func (m *Metrics) RecordCaptureAttempts(ctx context.Context, attempts int, recognized bool) {
	m.captureAttempt.Record(ctx, int64(attempts), metric.WithAttributes(
		attribute.Bool("recognized", recognized),
	))
}
