package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricSourcesTotal  = "solt.sources.total"
	metricUnknownTotal  = "solt.imports.unknown.total"
	metricBytesTotal    = "solt.bytes.total"
	metricRunDuration   = "solt.run.duration.seconds"
	metricRunErrorTotal = "solt.run.errors.total"
)

// durationBucketBoundaries covers 1ms to 120s; verification polling dominates the upper end.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120}

// RunStats summarizes one command invocation.
type RunStats struct {
	Command  string
	Sources  int
	Unknown  int
	Bytes    int64
	Duration time.Duration
	Failed   bool
}

// RunMetrics holds the OTel instruments recorded once per command run.
// A nil *RunMetrics records nothing.
type RunMetrics struct {
	sourcesTotal metric.Int64Counter
	unknownTotal metric.Int64Counter
	bytesTotal   metric.Int64Counter
	errorsTotal  metric.Int64Counter
	runDuration  metric.Float64Histogram
}

// NewRunMetrics creates run instruments from the given meter.
func NewRunMetrics(mt metric.Meter) (*RunMetrics, error) {
	sources, err := mt.Int64Counter(metricSourcesTotal,
		metric.WithDescription("Source files placed in a manifest"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricSourcesTotal, err)
	}

	unknown, err := mt.Int64Counter(metricUnknownTotal,
		metric.WithDescription("Package imports that could not be located"),
		metric.WithUnit("{import}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricUnknownTotal, err)
	}

	bytesTotal, err := mt.Int64Counter(metricBytesTotal,
		metric.WithDescription("Bytes of manifest output written"),
		metric.WithUnit("{byte}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricBytesTotal, err)
	}

	errorsTotal, err := mt.Int64Counter(metricRunErrorTotal,
		metric.WithDescription("Command runs that ended in an error"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunErrorTotal, err)
	}

	duration, err := mt.Float64Histogram(metricRunDuration,
		metric.WithDescription("Command run duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunDuration, err)
	}

	return &RunMetrics{
		sourcesTotal: sources,
		unknownTotal: unknown,
		bytesTotal:   bytesTotal,
		errorsTotal:  errorsTotal,
		runDuration:  duration,
	}, nil
}

// RecordRun records the counters and duration of a finished run.
func (rm *RunMetrics) RecordRun(ctx context.Context, stats RunStats) {
	if rm == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrCommand, stats.Command))

	rm.sourcesTotal.Add(ctx, int64(stats.Sources), attrs)
	rm.unknownTotal.Add(ctx, int64(stats.Unknown), attrs)
	rm.bytesTotal.Add(ctx, stats.Bytes, attrs)
	rm.runDuration.Record(ctx, stats.Duration.Seconds(), attrs)

	if stats.Failed {
		rm.errorsTotal.Add(ctx, 1, attrs)
	}
}

// WriteTextfile dumps everything gathered by g to path in the Prometheus
// text exposition format, suitable for the node_exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	err := prometheus.WriteToTextfile(path, g)
	if err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}

	return nil
}
