package observability_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/solt/pkg/observability"
)

func initProviders(t *testing.T) observability.Providers {
	t.Helper()

	cfg := observability.DefaultConfig()
	cfg.LogWriter = &strings.Builder{}

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { _ = providers.Shutdown(context.Background()) })

	return providers
}

func TestRunMetrics_RecordRun(t *testing.T) {
	t.Parallel()

	providers := initProviders(t)

	rm, err := observability.NewRunMetrics(providers.Meter)
	require.NoError(t, err)

	rm.RecordRun(context.Background(), observability.RunStats{
		Command:  "write",
		Sources:  3,
		Unknown:  1,
		Bytes:    2048,
		Duration: 150 * time.Millisecond,
	})

	families, err := providers.Registry.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)

	for _, family := range families {
		for _, m := range family.GetMetric() {
			if m.GetCounter() != nil {
				values[family.GetName()] = m.GetCounter().GetValue()
			}
		}
	}

	assert.InDelta(t, 3, findMetric(t, values, "solt_sources"), 0)
	assert.InDelta(t, 1, findMetric(t, values, "solt_imports_unknown"), 0)
	assert.InDelta(t, 2048, findMetric(t, values, "solt_bytes"), 0)
}

func TestRunMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var rm *observability.RunMetrics

	assert.NotPanics(t, func() {
		rm.RecordRun(context.Background(), observability.RunStats{Command: "write", Failed: true})
	})
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()

	providers := initProviders(t)

	rm, err := observability.NewRunMetrics(providers.Meter)
	require.NoError(t, err)

	rm.RecordRun(context.Background(), observability.RunStats{Command: "collect", Sources: 2, Failed: true})

	path := filepath.Join(t.TempDir(), "solt.prom")
	require.NoError(t, observability.WriteTextfile(path, providers.Registry))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(data), "solt_sources")
	assert.Contains(t, string(data), "solt_run_errors")
	assert.Contains(t, string(data), `command="collect"`)
}

func TestWriteTextfile_BadDir(t *testing.T) {
	t.Parallel()

	providers := initProviders(t)

	err := observability.WriteTextfile(filepath.Join(t.TempDir(), "missing", "solt.prom"), providers.Registry)
	require.Error(t, err)
}

func findMetric(t *testing.T, values map[string]float64, prefix string) float64 {
	t.Helper()

	for name, value := range values {
		if strings.HasPrefix(name, prefix) {
			return value
		}
	}

	require.Failf(t, "metric not found", "no metric with prefix %q in %v", prefix, values)

	return 0
}
