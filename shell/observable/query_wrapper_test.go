package observable_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/librarydesk/core"
	"github.com/AntonStoeckl/librarydesk/shell"
	"github.com/AntonStoeckl/librarydesk/shell/observable"
	. "github.com/AntonStoeckl/librarydesk/testutil/helper" //nolint:revive
)

func Test_QueryWrapper_Handle_Success(t *testing.T) {
	// arrange
	handler := &mockQueryHandler{result: mockQueryResult{Count: 3}}
	metricsCollector := NewMetricsCollectorSpy(true)
	tracingCollector := NewTracingCollectorSpy(true)
	contextualLogger := NewContextualLoggerSpy(true)

	wrapper, err := observable.NewQueryWrapper[mockQuery, mockQueryResult](
		handler,
		observable.WithQueryMetrics[mockQuery, mockQueryResult](metricsCollector),
		observable.WithQueryTracing[mockQuery, mockQueryResult](tracingCollector),
		observable.WithQueryContextualLogging[mockQuery, mockQueryResult](contextualLogger),
	)
	assert.NoError(t, err, "Should create wrapper")

	// act
	result, err := wrapper.Handle(context.Background(), mockQuery{})

	// assert
	assert.NoError(t, err, "Should handle query successfully")
	assert.Equal(t, 3, result.Count, "Should return handler result")
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.QueryHandlerCallsMetric).
		WithLabel("query_type", "TestQuery").
		WithStatus(shell.StatusSuccess).
		Assert(), "Should record success metric")
	assert.True(t, metricsCollector.HasDurationRecordForMetric(shell.QueryHandlerDurationMetric).
		WithLabel("query_type", "TestQuery").
		Assert(), "Should record duration metric")
	assert.True(t, tracingCollector.HasFinishedSpan(shell.SpanNameQueryHandle, shell.StatusSuccess),
		"Should finish span with success")
	assert.True(t, contextualLogger.HasInfoLog("query handler started"), "Should log query start")
	assert.True(t, contextualLogger.HasInfoLog("query handler completed"), "Should log query completion")
}

func Test_QueryWrapper_Handle_TransportError(t *testing.T) {
	// arrange
	transportErr := core.NewTransportError(0, "", errors.New("connection refused"))
	handler := &mockQueryHandler{err: transportErr}
	metricsCollector := NewMetricsCollectorSpy(true)
	contextualLogger := NewContextualLoggerSpy(true)

	wrapper, err := observable.NewQueryWrapper[mockQuery, mockQueryResult](
		handler,
		observable.WithQueryMetrics[mockQuery, mockQueryResult](metricsCollector),
		observable.WithQueryLogging[mockQuery, mockQueryResult](contextualLogger),
	)
	assert.NoError(t, err, "Should create wrapper")

	// act
	_, err = wrapper.Handle(context.Background(), mockQuery{})

	// assert
	assert.ErrorIs(t, err, core.ErrTransport)
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.QueryHandlerCallsMetric).
		WithStatus(shell.StatusTransport).
		Assert(), "Should record transport status")
	assert.True(t, contextualLogger.HasErrorLog("query handler failed"), "Should log query failure")
}

func Test_QueryWrapper_Handle_Canceled(t *testing.T) {
	handler := &mockQueryHandler{err: context.Canceled}
	metricsCollector := NewMetricsCollectorSpy(true)

	wrapper, err := observable.NewQueryWrapper[mockQuery, mockQueryResult](
		handler,
		observable.WithQueryMetrics[mockQuery, mockQueryResult](metricsCollector),
	)
	assert.NoError(t, err, "Should create wrapper")

	_, err = wrapper.Handle(context.Background(), mockQuery{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.QueryHandlerCanceledMetric).Assert(),
		"Should record canceled metric")
}

type mockQuery struct{}

func (q mockQuery) QueryType() string {
	return "TestQuery"
}

type mockQueryResult struct {
	Count int
}

type mockQueryHandler struct {
	result mockQueryResult
	err    error
}

func (h *mockQueryHandler) Handle(_ context.Context, _ mockQuery) (mockQueryResult, error) {
	return h.result, h.err
}
