package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds OTel metric instruments for comment generation.
type Metrics struct {
	ReportsRendered metric.Int64Counter
	DocumentsLoaded metric.Int64Counter
	MonthlyDelta    metric.Float64Histogram
}

// NewMetrics creates the metric instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	return NewMetricsFromMeter(otel.Meter("infracost-comment"))
}

// NewMetricsFromMeter creates the metric instruments on meter.
func NewMetricsFromMeter(meter metric.Meter) (*Metrics, error) {
	reportsRendered, err := meter.Int64Counter("infracost.report.rendered",
		metric.WithDescription("Number of cost comments rendered"),
	)
	if err != nil {
		return nil, err
	}

	documentsLoaded, err := meter.Int64Counter("infracost.document.loaded",
		metric.WithDescription("Number of cost documents read"),
	)
	if err != nil {
		return nil, err
	}

	monthlyDelta, err := meter.Float64Histogram("infracost.monthly_delta",
		metric.WithDescription("Resolved monthly cost delta"),
		metric.WithUnit("{currency}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ReportsRendered: reportsRendered,
		DocumentsLoaded: documentsLoaded,
		MonthlyDelta:    monthlyDelta,
	}, nil
}

// RecordReport records a rendered comment and its monthly delta.
func (m *Metrics) RecordReport(ctx context.Context, strategy, currencyCode string, delta float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("strategy", strategy),
		attribute.String("currency", currencyCode),
	)
	m.ReportsRendered.Add(ctx, 1, attrs)
	m.MonthlyDelta.Record(ctx, delta, attrs)
}

// RecordDocument records a cost document read for the given role.
func (m *Metrics) RecordDocument(ctx context.Context, role string) {
	if m == nil {
		return
	}
	m.DocumentsLoaded.Add(ctx, 1,
		metric.WithAttributes(attribute.String("role", role)),
	)
}
