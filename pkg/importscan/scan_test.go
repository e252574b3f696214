package importscan_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/solt/pkg/importscan"
)

func TestParseLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want importscan.Reference
	}{
		{"plain relative", `import "./B.sol";`, importscan.Reference{Kind: importscan.Relative, Specifier: "./B.sol"}},
		{"parent relative", `import '../lib/C.sol';`, importscan.Reference{Kind: importscan.Relative, Specifier: "../lib/C.sol"}},
		{"named bindings", `import {A, B} from "./AB.sol";`, importscan.Reference{Kind: importscan.Relative, Specifier: "./AB.sol"}},
		{"namespace", `import * as Lib from "pkg/Lib.sol";`, importscan.Reference{Kind: importscan.Package, Specifier: "pkg/Lib.sol"}},
		{"default binding", `import Token from "./Token.sol"`, importscan.Reference{Kind: importscan.Relative, Specifier: "./Token.sol"}},
		{"alias suffix", `import "./Math.sol" as M;`, importscan.Reference{Kind: importscan.Relative, Specifier: "./Math.sol"}},
		{"indented with comment", "    import \"hardhat/console.sol\"; // debug\r\n", importscan.Reference{Kind: importscan.Package, Specifier: "hardhat/console.sol"}},
		{"no semicolon", `import "@openzeppelin/contracts/token/ERC20/ERC20.sol"`, importscan.Reference{Kind: importscan.Package, Specifier: "@openzeppelin/contracts/token/ERC20/ERC20.sol"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := importscan.ParseLine(tc.line)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseLine_NoMatch(t *testing.T) {
	t.Parallel()

	for _, line := range []string{
		"",
		"pragma solidity ^0.8.0;",
		"contract Importer {",
		`importx "./B.sol";`,
		`import {A,`,
		`string s = "import './x.sol'";`,
	} {
		_, ok := importscan.ParseLine(line)
		assert.False(t, ok, line)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, importscan.Relative, importscan.Classify("./x.sol").Kind)
	assert.Equal(t, importscan.Relative, importscan.Classify("../x.sol").Kind)
	assert.Equal(t, importscan.Package, importscan.Classify("x.sol").Kind)
	assert.Equal(t, importscan.Package, importscan.Classify(".../x.sol").Kind)
	assert.Equal(t, importscan.Package, importscan.Classify("/abs/x.sol").Kind)
}

func TestScan_OnePerLineInOrder(t *testing.T) {
	t.Parallel()

	text := `// SPDX-License-Identifier: MIT
pragma solidity ^0.8.0;

import "./A.sol";
import {B} from "pkg/B.sol";
import "./C.sol"; import "./D.sol";

contract X {}
`

	got := slices.Collect(importscan.Scan(text))

	assert.Equal(t, []importscan.Reference{
		{Kind: importscan.Relative, Specifier: "./A.sol"},
		{Kind: importscan.Package, Specifier: "pkg/B.sol"},
	}, got)
}

func TestScan_StopsEarly(t *testing.T) {
	t.Parallel()

	text := "import \"./A.sol\";\nimport \"./B.sol\";\nimport \"./C.sol\";\n"

	var seen []string

	for ref := range importscan.Scan(text) {
		seen = append(seen, ref.Specifier)
		if len(seen) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"./A.sol", "./B.sol"}, seen)
}

func TestScan_CommentedImportIsReported(t *testing.T) {
	t.Parallel()

	// Block comment bodies starting with "import" are not filtered.
	text := "/*\nimport \"./Old.sol\";\n*/\n"

	got := slices.Collect(importscan.Scan(text))
	require.Len(t, got, 1)
	assert.Equal(t, "./Old.sol", got[0].Specifier)
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "relative", importscan.Relative.String())
	assert.Equal(t, "package", importscan.Package.String())
	assert.Equal(t, "unknown", importscan.Kind(9).String())
}
