package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect_BundlesFolderWithoutImports(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"src/A.sol":              "import \"../outside/X.sol\";\ncontract A {}\n",
		"src/A.t.sol":            "contract ATest {}\n",
		"src/sub/C.sol":          "contract C {}\n",
		"src/node_modules/D.sol": "contract D {}\n",
		"outside/X.sol":          "contract X {}\n",
	})
	output := filepath.Join(dir, "solc-input.json")

	out, err := runSolt(t, "", nil, "collect", filepath.Join(dir, "src"), "--base", dir, "-o", output, "--no-opt")
	require.NoError(t, err)

	doc := readManifest(t, output)
	assert.Equal(t, []string{"src/A.sol", "src/sub/C.sol"}, doc.Keys())
	assert.Nil(t, doc.Settings.Optimizer)
	assert.Contains(t, out.stdout, "TOTAL: 2 FILES")
}

func TestCollect_IgnoreExtOverride(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"A.sol":   "contract A {}\n",
		"A.t.sol": "contract ATest {}\n",
	})
	output := filepath.Join(dir, "out.json")

	_, err := runSolt(t, "", nil, "collect", dir, "--base", dir, "-o", output, "-i", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"A.sol", "A.t.sol"}, readManifest(t, output).Keys())
}

func TestCollect_MissingFolder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := runSolt(t, "", nil, "collect", filepath.Join(dir, "absent"), "--base", dir)
	require.Error(t, err)
}
