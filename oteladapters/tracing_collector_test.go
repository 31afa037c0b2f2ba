package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/librarydesk/oteladapters"
	"github.com/AntonStoeckl/librarydesk/shell"
)

func Test_TracingCollector_StartAndFinishSpan(t *testing.T) {
	// arrange
	recorder, collector := newTracingCollector()

	// act
	ctx, span := collector.StartSpan(context.Background(), shell.SpanNameCommandHandle,
		map[string]string{shell.LogAttrCommandType: "RemoveBook"})
	collector.FinishSpan(span, shell.StatusSuccess, map[string]string{shell.LogAttrDurationMS: "1.50"})

	// assert
	assert.True(t, trace.SpanContextFromContext(ctx).IsValid(), "Should put the span into the context")

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, shell.SpanNameCommandHandle, ended[0].Name())
	assert.Equal(t, codes.Ok, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.String(shell.LogAttrCommandType, "RemoveBook"))
	assert.Contains(t, ended[0].Attributes(), attribute.String(shell.LogAttrDurationMS, "1.50"))
}

func Test_TracingCollector_StatusMapping(t *testing.T) {
	testCases := []struct {
		status       string
		expectedCode codes.Code
	}{
		{shell.StatusSuccess, codes.Ok},
		{shell.StatusIdempotent, codes.Ok},
		{shell.StatusError, codes.Error},
		{shell.StatusCanceled, codes.Error},
		{shell.StatusTimeout, codes.Error},
		{shell.StatusTransport, codes.Error},
		{shell.StatusRejected, codes.Unset},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			recorder, collector := newTracingCollector()

			_, span := collector.StartSpan(context.Background(), "op", nil)
			collector.FinishSpan(span, tc.status, nil)

			ended := recorder.Ended()
			require.Len(t, ended, 1)
			assert.Equal(t, tc.expectedCode, ended[0].Status().Code)
		})
	}
}

func Test_TracingCollector_RejectedStatusIsRecordedAsAttribute(t *testing.T) {
	recorder, collector := newTracingCollector()

	_, span := collector.StartSpan(context.Background(), "op", nil)
	collector.FinishSpan(span, shell.StatusRejected, nil)

	assert.Contains(t, recorder.Ended()[0].Attributes(), attribute.String("status", shell.StatusRejected))
}

func Test_TracingCollector_IgnoresForeignSpanContext(t *testing.T) {
	recorder, collector := newTracingCollector()

	assert.NotPanics(t, func() {
		collector.FinishSpan(foreignSpanContext{}, shell.StatusSuccess, nil)
	})
	assert.Empty(t, recorder.Ended())
}

func Test_OTelSpanContext_Methods(t *testing.T) {
	recorder, collector := newTracingCollector()

	_, span := collector.StartSpan(context.Background(), "op", nil)
	span.AddAttribute(shell.LogAttrTicket, "t-1")
	span.SetStatus(shell.StatusTimeout)
	collector.FinishSpan(span, shell.StatusTimeout, nil)

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Contains(t, ended[0].Attributes(), attribute.String(shell.LogAttrTicket, "t-1"))
	assert.Equal(t, codes.Error, ended[0].Status().Code)
}

func newTracingCollector() (*tracetest.SpanRecorder, *oteladapters.TracingCollector) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	return recorder, oteladapters.NewTracingCollector(provider.Tracer("test"))
}

type foreignSpanContext struct{}

func (foreignSpanContext) SetStatus(string)            {}
func (foreignSpanContext) AddAttribute(string, string) {}
