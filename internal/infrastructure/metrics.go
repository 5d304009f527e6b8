package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	apperrors "salescli/internal/errors"
)

// Metrics holds the application instruments.
type Metrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	OperationsTotal   metric.Int64Counter
	OperationDuration metric.Float64Histogram
	OperationErrors   metric.Int64Counter

	RowsLoaded         metric.Int64Counter
	PartitionRows      metric.Int64Counter
	SubmissionsWritten metric.Int64Counter
	Scores             metric.Float64Histogram
}

// NewMetrics creates every instrument on meter. A nil meter yields no-op
// instruments.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter(MeterName)
	}

	var (
		m   Metrics
		err error
	)
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.HTTPRequestsTotal, "http_requests_total", "Total number of HTTP requests"},
		{&m.OperationsTotal, "operations_total", "Total number of dataset and submission operations"},
		{&m.OperationErrors, "operation_errors_total", "Total number of failed operations"},
		{&m.RowsLoaded, "dataset_rows_loaded_total", "Feature set rows read from disk"},
		{&m.PartitionRows, "dataset_partition_rows_total", "Rows assigned to partitions"},
		{&m.SubmissionsWritten, "submissions_written_total", "Submission files written"},
	}
	for _, c := range counters {
		if *c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc)); err != nil {
			return nil, fmt.Errorf("create %s: %w", c.name, err)
		}
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("create http_request_duration_seconds: %w", err)
	}
	if m.OperationDuration, err = meter.Float64Histogram(
		"operation_duration_seconds",
		metric.WithDescription("Operation duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("create operation_duration_seconds: %w", err)
	}
	if m.Scores, err = meter.Float64Histogram(
		"submission_score",
		metric.WithDescription("Clipped RMSE of evaluated submissions"),
	); err != nil {
		return nil, fmt.Errorf("create submission_score: %w", err)
	}

	return &m, nil
}

// RecordOperation records one execution of operation. A nil receiver is a no-op.
func (m *Metrics) RecordOperation(ctx context.Context, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
	m.OperationsTotal.Add(ctx, 1, attrs)
	m.OperationDuration.Record(ctx, duration.Seconds(), attrs)

	if err != nil {
		errType := string(apperrors.TypeOf(err))
		if errType == "" {
			errType = "INTERNAL"
		}
		m.OperationErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("error.type", errType),
		))
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("operation.metrics_recorded", trace.WithAttributes(
			attribute.String("operation", operation),
			attribute.Bool("success", err == nil),
			attribute.Float64("duration_seconds", duration.Seconds()),
		))
	}
}

// AddRows increments counter by n with the given attributes. A nil receiver
// is a no-op.
func (m *Metrics) AddRows(ctx context.Context, counter metric.Int64Counter, n int, attrs ...attribute.KeyValue) {
	if m == nil || counter == nil {
		return
	}
	counter.Add(ctx, int64(n), metric.WithAttributes(attrs...))
}
