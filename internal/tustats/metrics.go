package tustats

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "cachefang"

	metricRecordsTotal        = "cachefang.tu_stats.records.total"
	metricRecordFailuresTotal = "cachefang.tu_stats.record_failures.total"
)

// Metrics holds the OTel instruments for the stats recorder. Instruments are
// created against the global meter and stay no-op unless the host process
// installs a meter provider.
type Metrics struct {
	recordsTotal        metric.Int64Counter
	recordFailuresTotal metric.Int64Counter
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// recorderMetrics returns the lazily created recorder instruments.
func recorderMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = newMetrics(otel.Meter(meterName))
	})

	return metrics
}

// newMetrics creates recorder instruments from the given meter. Instrument
// creation failures are logged and leave the affected instrument nil.
func newMetrics(mt metric.Meter) *Metrics {
	m := &Metrics{}

	var err error

	m.recordsTotal, err = mt.Int64Counter(metricRecordsTotal,
		metric.WithDescription("Translation unit stats records accepted by the store"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		slog.Warn("failed to create stats counter", "metric", metricRecordsTotal, "error", err)
	}

	m.recordFailuresTotal, err = mt.Int64Counter(metricRecordFailuresTotal,
		metric.WithDescription("Translation unit stats records dropped due to write failure"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		slog.Warn("failed to create stats counter", "metric", metricRecordFailuresTotal, "error", err)
	}

	return m
}

func (m *Metrics) recordAccepted() {
	if m.recordsTotal == nil {
		return
	}

	m.recordsTotal.Add(context.Background(), 1)
}

func (m *Metrics) recordFailure() {
	if m.recordFailuresTotal == nil {
		return
	}

	m.recordFailuresTotal.Add(context.Background(), 1)
}
