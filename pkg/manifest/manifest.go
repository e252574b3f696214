// Package manifest builds and inspects Solidity Standard JSON Input documents.
package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
)

// Language is the only language value this package emits.
const Language = "Solidity"

// DefaultRuns is the optimizer run count used when none is configured.
const DefaultRuns = 200

// Output selection entries requested for every file and contract.
var (
	contractOutputs = []string{"abi", "evm.bytecode", "evm.deployedBytecode", "evm.methodIdentifiers"}
	fileOutputs     = []string{"id", "ast"}
)

// Manifest is a Standard JSON Input document.
type Manifest struct {
	Language string            `json:"language"`
	Sources  map[string]Source `json:"sources"`
	Settings Settings          `json:"settings"`
}

// Source is one entry of the sources map.
type Source struct {
	Content string `json:"content"`
}

// Settings holds compiler settings. A nil Optimizer omits the key entirely.
type Settings struct {
	Metadata        Metadata        `json:"metadata"`
	Optimizer       *Optimizer      `json:"optimizer,omitempty"`
	OutputSelection OutputSelection `json:"outputSelection"`
}

// Metadata controls what the compiler embeds in contract metadata.
type Metadata struct {
	UseLiteralContent bool `json:"useLiteralContent"`
}

// Optimizer enables the optimizer with a run count.
type Optimizer struct {
	Enabled bool `json:"enabled"`
	Runs    int  `json:"runs"`
}

// OutputSelection maps file name, then contract name, to requested outputs.
type OutputSelection map[string]map[string][]string

// DefaultOutputSelection returns the wildcard selection requesting ABI,
// bytecode and method identifiers per contract plus id and AST per file.
func DefaultOutputSelection() OutputSelection {
	return OutputSelection{
		"*": {
			"*": slices.Clone(contractOutputs),
			"":  slices.Clone(fileOutputs),
		},
	}
}

// Keys returns the source keys in lexical order.
func (m *Manifest) Keys() []string {
	return slices.Sorted(maps.Keys(m.Sources))
}

// Decode reads a Standard JSON Input document.
func Decode(r io.Reader) (*Manifest, error) {
	var m Manifest

	err := json.NewDecoder(r).Decode(&m)
	if err != nil {
		return nil, fmt.Errorf("decode standard json input: %w", err)
	}

	return &m, nil
}
