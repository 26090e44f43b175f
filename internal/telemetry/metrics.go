// Package telemetry provides OpenTelemetry instruments for the viewport sync coordinator.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SyncMetricsMeterName is the name used for the sync metrics meter
const SyncMetricsMeterName = "github.com/microbe-atlas/locus/sync"

const (
	navigationsName  = "locus_sync_navigations_total"
	observationsName = "locus_sync_observations_total"
	fetchesName      = "locus_sync_fetches_total"
	fetchSecondsName = "locus_sync_fetch_duration_seconds"
)

// SyncMetrics holds the OpenTelemetry instruments for viewport sync
type SyncMetrics struct {
	navigations   metric.Int64Counter
	observations  metric.Int64Counter
	fetches       metric.Int64Counter
	fetchDuration metric.Float64Histogram
}

// NewSyncMetrics creates a new SyncMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SyncMetricsMeterName)

	navigations, err := meter.Int64Counter(
		navigationsName,
		metric.WithDescription("Table-initiated navigations"),
		metric.WithUnit("{navigation}"),
	)
	if err != nil {
		return nil, err
	}

	observations, err := meter.Int64Counter(
		observationsName,
		metric.WithDescription("Viewer region observations by listener decision"),
		metric.WithUnit("{observation}"),
	)
	if err != nil {
		return nil, err
	}

	fetches, err := meter.Int64Counter(
		fetchesName,
		metric.WithDescription("Viewport gene fetches by outcome"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, err
	}

	fetchDuration, err := meter.Float64Histogram(
		fetchSecondsName,
		metric.WithDescription("Duration of viewport gene fetches in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		navigations:   navigations,
		observations:  observations,
		fetches:       fetches,
		fetchDuration: fetchDuration,
	}, nil
}

// RecordNavigation counts a Browse action from the named table
func (m *SyncMetrics) RecordNavigation(ctx context.Context, table string) {
	if m == nil || m.navigations == nil {
		return
	}
	m.navigations.Add(ctx, 1, metric.WithAttributes(attribute.String("table", table)))
}

// RecordObservation counts one listener decision
func (m *SyncMetrics) RecordObservation(ctx context.Context, decision string) {
	if m == nil || m.observations == nil {
		return
	}
	m.observations.Add(ctx, 1, metric.WithAttributes(attribute.String("decision", decision)))
}

// RecordFetch records a completed viewport fetch and its duration
func (m *SyncMetrics) RecordFetch(ctx context.Context, outcome string, duration time.Duration) {
	if m == nil || m.fetches == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.fetches.Add(ctx, 1, attrs)
	m.fetchDuration.Record(ctx, duration.Seconds(), attrs)
}
