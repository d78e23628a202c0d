package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInit_DiscardingExporter(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	shutdown, err := Init(context.Background(), "phoneprice-test", "")
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "op")
	require.True(t, span.SpanContext().HasTraceID())
	span.End()

	require.NoError(t, shutdown(context.Background()))
}
