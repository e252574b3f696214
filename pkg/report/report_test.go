package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/solt/pkg/importgraph"
	"github.com/Sumatoshi-tech/solt/pkg/report"
	"github.com/Sumatoshi-tech/solt/pkg/resolver"
)

func loadedFile(t *testing.T, root, key string, isPackage bool, content string) *resolver.SourceFile {
	t.Helper()

	file := resolver.NewSourceFile(root, key, isPackage)
	require.NoError(t, os.MkdirAll(filepath.Dir(file.Path), 0o755))
	require.NoError(t, os.WriteFile(file.Path, []byte(content), 0o600))

	_, err := file.Content()
	require.NoError(t, err)

	return file
}

func TestSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := []*resolver.SourceFile{
		loadedFile(t, dir, "A.sol", false, strings.Repeat("a", 1500)),
		loadedFile(t, filepath.Join(dir, "node_modules"), "pkg/Console.sol", true, "library Console {}"),
	}

	var buf bytes.Buffer

	require.NoError(t, report.Sources(&buf, files))

	out := buf.String()
	assert.Contains(t, out, "A.sol")
	assert.Contains(t, out, "project")
	assert.Contains(t, out, "pkg/Console.sol")
	assert.Contains(t, out, "package")
	assert.Contains(t, out, "1.5 kB")
	assert.Contains(t, out, "TOTAL: 2 FILES")
}

func TestUnknownImports(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	report.UnknownImports(&buf, []resolver.UnknownImport{
		{Specifier: "pkg/Console.sol", ImportedBy: []string{"A.sol", "B.sol"}},
	})

	out := buf.String()
	assert.Contains(t, out, `unknown import "pkg/Console.sol" (imported by A.sol, B.sol)`)
	assert.Contains(t, out, "--npm")
}

func TestUnknownImports_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	report.UnknownImports(&buf, nil)

	assert.Empty(t, buf.String())
}

func TestWritten(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	report.Written(&buf, "solc-input-a.json", 2048, 3)

	assert.Equal(t, "wrote solc-input-a.json (2.0 kB, 3 sources)\n", buf.String())
}

func TestDrift(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	report.Drift(&buf, "-old\n+new\n")

	assert.Equal(t, "-old\n+new\n", buf.String())
}

func TestDependencies(t *testing.T) {
	t.Parallel()

	graph := importgraph.New()
	graph.AddEdge("A.sol", "B.sol")
	graph.AddEdge("B.sol", "lib/C.sol")
	graph.AddEdge("lib/C.sol", "B.sol")

	var buf bytes.Buffer

	require.NoError(t, report.Dependencies(&buf, graph))

	assert.Equal(t,
		"A.sol\n  -> B.sol\nB.sol\n  -> lib/C.sol\nlib/C.sol\n  -> B.sol\ncycle: B.sol, lib/C.sol\n",
		buf.String())
}
