package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/solt/pkg/config"
)

func TestRoot_InvalidConfig(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"A.sol": "contract A {}\n"})

	_, err := runSolt(t, "logging:\n  level: loud\n", nil, "write", dir, "--base", dir)
	require.ErrorIs(t, err, config.ErrInvalidLogLevel)
}

func TestRoot_VerboseJSONLogs(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"A.sol": "contract A {}\n"})

	out, err := runSolt(t, "", nil, "-v", "--log-json", "deps", dir, "--base", dir)
	require.NoError(t, err)

	assert.Contains(t, out.stderr, `"level":"DEBUG"`)
	assert.Contains(t, out.stderr, `"service":"solt"`)
	assert.Contains(t, out.stderr, `"command":"deps"`)
	assert.Contains(t, out.stderr, `"target":"`+dir+`"`)
}

func TestVersion(t *testing.T) {
	t.Parallel()

	// A broken config does not affect version.
	out, err := runSolt(t, "logging: [", nil, "version")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out.stdout, "solt "))
}

func TestSchema(t *testing.T) {
	t.Parallel()

	out, err := runSolt(t, "", nil, "schema")
	require.NoError(t, err)

	assert.Contains(t, out.stdout, "Solidity Standard JSON Input")

	path := filepath.Join(t.TempDir(), "schema.json")

	_, err = runSolt(t, "", nil, "schema", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out.stdout, string(data))
}
