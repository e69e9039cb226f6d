// Package observability wires OpenTelemetry tracing and metrics around
// notification dispatch.
package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/kart-io/pling/pkg/config"
)

const instrumentationName = "github.com/kart-io/pling"

// TelemetryProvider provides observability features
type TelemetryProvider struct {
	config        config.TelemetryConfig
	tracer        trace.Tracer
	meter         metric.Meter
	traceProvider *sdktrace.TracerProvider

	// Metrics
	sent         metric.Int64Counter
	failed       metric.Int64Counter
	sendDuration metric.Float64Histogram
}

// NewTelemetryProvider creates a new telemetry provider. A disabled
// configuration yields a provider backed by the global no-op tracer.
func NewTelemetryProvider(cfg config.TelemetryConfig) (*TelemetryProvider, error) {
	tp := &TelemetryProvider{config: cfg}

	if !cfg.Enabled {
		tp.tracer = otel.Tracer(instrumentationName)
		tp.meter = otel.Meter(instrumentationName)
		return tp, nil
	}

	if err := tp.initTracing(); err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	if err := tp.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}
	return tp, nil
}

// NewTelemetryProviderWith builds a provider around existing OpenTelemetry
// providers. Shutdown is left to the caller.
func NewTelemetryProviderWith(tracerProvider trace.TracerProvider, meterProvider metric.MeterProvider) (*TelemetryProvider, error) {
	tp := &TelemetryProvider{
		config: config.TelemetryConfig{Enabled: true},
		tracer: tracerProvider.Tracer(instrumentationName),
		meter:  meterProvider.Meter(instrumentationName),
	}
	if err := tp.createInstruments(); err != nil {
		return nil, err
	}
	return tp, nil
}

func (tp *TelemetryProvider) initTracing() error {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", tp.config.ServiceName),
			attribute.String("service.version", config.Version),
		),
	)
	if err != nil {
		return fmt.Errorf("create resource: %w", err)
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(tp.config.Endpoint)}
	if tp.config.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptrace.New(context.Background(), otlptracehttp.NewClient(opts...))
	if err != nil {
		return fmt.Errorf("create exporter: %w", err)
	}

	tp.traceProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(tp.config.SampleRate)),
	)
	otel.SetTracerProvider(tp.traceProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	tp.tracer = tp.traceProvider.Tracer(instrumentationName,
		trace.WithInstrumentationVersion(config.Version),
	)
	return nil
}

func (tp *TelemetryProvider) initMetrics() error {
	tp.meter = otel.Meter(instrumentationName,
		metric.WithInstrumentationVersion(config.Version),
	)
	return tp.createInstruments()
}

func (tp *TelemetryProvider) createInstruments() error {
	var err error

	tp.sent, err = tp.meter.Int64Counter(
		"pling_notifications_sent_total",
		metric.WithDescription("Total number of notifications delivered"),
	)
	if err != nil {
		return fmt.Errorf("create sent counter: %w", err)
	}

	tp.failed, err = tp.meter.Int64Counter(
		"pling_notifications_failed_total",
		metric.WithDescription("Total number of notifications that failed"),
	)
	if err != nil {
		return fmt.Errorf("create failed counter: %w", err)
	}

	tp.sendDuration, err = tp.meter.Float64Histogram(
		"pling_send_duration_seconds",
		metric.WithDescription("Duration of notification send operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("create send_duration histogram: %w", err)
	}
	return nil
}

// TraceSend starts a span for one notification send. Without a tracer the
// returned span is non-recording and never the caller's span.
func (tp *TelemetryProvider) TraceSend(ctx context.Context, channel, sendID, mode string) (context.Context, trace.Span) {
	if tp == nil || tp.tracer == nil {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return tp.tracer.Start(ctx, "pling.send",
		trace.WithAttributes(
			attribute.String("pling.channel", channel),
			attribute.String("pling.send.id", sendID),
			attribute.String("pling.send.mode", mode),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// RecordSent records a successful delivery.
func (tp *TelemetryProvider) RecordSent(ctx context.Context, channel string, duration time.Duration) {
	if tp == nil {
		return
	}
	if tp.sent != nil {
		tp.sent.Add(ctx, 1, metric.WithAttributes(attribute.String("channel", channel)))
	}
	if tp.sendDuration != nil {
		tp.sendDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
			attribute.String("channel", channel),
			attribute.String("status", "success"),
		))
	}
}

// RecordFailed records a failed delivery with its error code.
func (tp *TelemetryProvider) RecordFailed(ctx context.Context, channel string, duration time.Duration, code string) {
	if tp == nil {
		return
	}
	if tp.failed != nil {
		tp.failed.Add(ctx, 1, metric.WithAttributes(
			attribute.String("channel", channel),
			attribute.String("error_code", code),
		))
	}
	if tp.sendDuration != nil {
		tp.sendDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
			attribute.String("channel", channel),
			attribute.String("status", "error"),
		))
	}
}

// SetSpanError sets an error on the span
func SetSpanError(span trace.Span, err error) {
	if span != nil && err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess marks the span as successful
func SetSpanSuccess(span trace.Span) {
	if span != nil {
		span.SetStatus(codes.Ok, "")
	}
}

// Shutdown flushes and stops the exporter, if one was started.
func (tp *TelemetryProvider) Shutdown(ctx context.Context) error {
	if tp != nil && tp.traceProvider != nil {
		return tp.traceProvider.Shutdown(ctx)
	}
	return nil
}
