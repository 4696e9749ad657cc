package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

func TestWithTrace_AddsIDs(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	var buf bytes.Buffer
	logger := WithTrace(ctx, zerolog.New(&buf))
	logger.Info().Msg("hello")

	assert.Contains(t, buf.String(), `"trace_id":"4bf92f3577b34da6a3ce929d0e0e4736"`)
	assert.Contains(t, buf.String(), `"span_id":"00f067aa0ba902b7"`)
}

func TestWithTrace_NoSpan(t *testing.T) {
	var buf bytes.Buffer
	logger := WithTrace(context.Background(), zerolog.New(&buf))
	logger.Info().Msg("hello")

	assert.NotContains(t, buf.String(), "trace_id")
}
