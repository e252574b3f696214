// Package importscan recognizes single-line Solidity import statements and
// classifies their specifiers.
package importscan

import (
	"iter"
	"regexp"
	"strings"
)

// Kind classifies an import specifier.
type Kind int

const (
	// Relative specifiers start with "./" or "../" and resolve against the importing file.
	Relative Kind = iota
	// Package specifiers are bare and resolve against the package root.
	Package
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case Relative:
		return "relative"
	case Package:
		return "package"
	default:
		return "unknown"
	}
}

// Reference is one import found on one line.
type Reference struct {
	Kind      Kind
	Specifier string
}

// importPattern matches a whole line holding one import statement:
// an optional binding clause ({A, B}, * as X, X) with "from", the quoted
// specifier, an optional "as Alias", an optional semicolon and an optional
// trailing line comment. Only the first group is read.
var importPattern = regexp.MustCompile(
	`^\s*import\s+(?:[\w*\s{},]*?\s*from\s+)?["']([^"']+)["'](?:\s+as\s+\w+)?\s*;?\s*(?://.*)?\s*$`,
)

// ParseLine returns the import on line, if any.
func ParseLine(line string) (Reference, bool) {
	match := importPattern.FindStringSubmatch(line)
	if match == nil {
		return Reference{}, false
	}

	return Classify(match[1]), true
}

// Classify wraps a specifier into a Reference of the right kind.
func Classify(specifier string) Reference {
	kind := Package
	if strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") {
		kind = Relative
	}

	return Reference{Kind: kind, Specifier: specifier}
}

// Scan yields the imports of text in line order, at most one per line.
// Multi-line imports are not recognized.
func Scan(text string) iter.Seq[Reference] {
	return func(yield func(Reference) bool) {
		for line := range strings.Lines(text) {
			ref, ok := ParseLine(line)
			if !ok {
				continue
			}

			if !yield(ref) {
				return
			}
		}
	}
}
