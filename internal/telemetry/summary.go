package telemetry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Summary is a flattened view of the sync counters for a session.
type Summary struct {
	// Counts maps "metric{attr=value}" to its cumulative value.
	Counts map[string]int64
}

// Collect reads the current sync counters from a manual reader.
func Collect(ctx context.Context, reader *sdkmetric.ManualReader) (Summary, error) {
	summary := Summary{Counts: map[string]int64{}}
	if reader == nil {
		return summary, nil
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return summary, fmt.Errorf("collect metrics: %w", err)
	}

	for _, scope := range rm.ScopeMetrics {
		if scope.Scope.Name != SyncMetricsMeterName {
			continue
		}
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				summary.Counts[seriesKey(m.Name, dp.Attributes.ToSlice())] += dp.Value
			}
		}
	}
	return summary, nil
}

// Get returns the value for a metric and a single attribute pair.
func (s Summary) Get(name, key, value string) int64 {
	return s.Counts[fmt.Sprintf("%s{%s=%s}", name, key, value)]
}

// String renders counters in a stable order for the exit log line.
func (s Summary) String() string {
	keys := make([]string, 0, len(s.Counts))
	for k := range s.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, s.Counts[k]))
	}
	return strings.Join(parts, " ")
}

func seriesKey(name string, attrs []attribute.KeyValue) string {
	pairs := make([]string, 0, len(attrs))
	for _, kv := range attrs {
		pairs = append(pairs, string(kv.Key)+"="+kv.Value.Emit())
	}
	return name + "{" + strings.Join(pairs, ",") + "}"
}
