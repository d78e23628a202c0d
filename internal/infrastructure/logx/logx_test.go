package logx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFrom_AddsContextIDs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx := WithTraceID(WithRequestID(context.Background(), "req-1"), "trace-1")
	From(ctx, base).Info("hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "req-1", fields["request_id"])
	require.Equal(t, "trace-1", fields["trace_id"])
}

func TestFrom_NoIDsReturnsBase(t *testing.T) {
	base := zap.NewNop()
	require.Same(t, base, From(context.Background(), base))
	require.NotNil(t, L())
	require.Empty(t, RequestID(context.Background()))
}
