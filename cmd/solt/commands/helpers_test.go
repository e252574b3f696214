package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/solt/pkg/observability"
)

type runOutput struct {
	stdout string
	stderr string
}

// runSolt executes the root command with an isolated config file.
func runSolt(t *testing.T, configYAML string, initObs observabilityInit, args ...string) (runOutput, error) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), ".solt.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configYAML), 0o600))

	if initObs == nil {
		initObs = observability.Init
	}

	cmd := newRootCommandWithDeps(initObs)

	var stdout, stderr bytes.Buffer

	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := cmd.Execute()

	return runOutput{stdout: stdout.String(), stderr: stderr.String()}, err
}

// recordingInit swaps in a tracer whose finished spans land in recorder.
func recordingInit(recorder *tracetest.SpanRecorder) observabilityInit {
	return func(cfg observability.Config) (observability.Providers, error) {
		providers, err := observability.Init(cfg)
		if err != nil {
			return providers, err
		}

		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
		providers.Tracer = tp.Tracer("solt")

		return providers, nil
	}
}

// writeTree creates files below a fresh temp dir and returns it.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()

	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	return dir
}
