package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kart-io/pling/pkg/config"
)

func TestDisabledProvider(t *testing.T) {
	tp, err := NewTelemetryProvider(config.TelemetryConfig{})
	require.NoError(t, err)

	ctx, span := tp.TraceSend(context.Background(), "slack", "id", "blocking")
	assert.NotNil(t, ctx)
	SetSpanSuccess(span)
	span.End()

	tp.RecordSent(ctx, "slack", time.Millisecond)
	tp.RecordFailed(ctx, "slack", time.Millisecond, "PLT008")
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNilProvider(t *testing.T) {
	var tp *TelemetryProvider
	ctx, span := tp.TraceSend(context.Background(), "slack", "id", "async")
	span.End()
	tp.RecordSent(ctx, "slack", 0)
	tp.RecordFailed(ctx, "slack", 0, "")
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNilProviderLeavesCallerSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	ctx, parent := provider.Tracer("test").Start(context.Background(), "caller-op")

	var tp *TelemetryProvider
	_, span := tp.TraceSend(ctx, "slack", "id", "blocking")
	assert.False(t, span.IsRecording())
	SetSpanError(span, errors.New("boom"))
	span.End()

	assert.True(t, parent.IsRecording())
	assert.Empty(t, sr.Ended())
	parent.End()
}

func TestTraceSendRecordsSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	tp, err := NewTelemetryProviderWith(provider, noopmetric.NewMeterProvider())
	require.NoError(t, err)

	_, span := tp.TraceSend(context.Background(), "telegram", "abc", "async")
	SetSpanError(span, errors.New("boom"))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "pling.send", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("pling.channel", "telegram"))
	assert.Contains(t, spans[0].Attributes(), attribute.String("pling.send.id", "abc"))

	tp.RecordSent(context.Background(), "telegram", time.Second)
}
