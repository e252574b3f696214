package manifest

import (
	"path"
	"regexp"
	"strings"
)

var contractPattern = regexp.MustCompile(`contract (\w+)`)

// FindContractName returns the name of the first "contract X" in content.
// Comments and strings are not excluded.
func FindContractName(content string) (string, bool) {
	for line := range strings.Lines(content) {
		if match := contractPattern.FindStringSubmatch(line); match != nil {
			return match[1], true
		}
	}

	return "", false
}

// SolidityName returns the file name of key without the ".sol" suffix.
func SolidityName(key string) string {
	name := path.Base(key)
	if idx := strings.Index(name, ".sol"); idx >= 0 {
		return name[:idx]
	}

	return name
}

// Match is a source selected by FindContract.
type Match struct {
	Key  string
	Name string
}

// FindContract returns the first source, in key order, whose key contains
// search or whose first contract name contains it, case-insensitively.
// A key match names the contract after the file.
func (m *Manifest) FindContract(search string) (Match, bool) {
	needle := strings.ToLower(search)

	for _, key := range m.Keys() {
		if strings.Contains(strings.ToLower(key), needle) {
			return Match{Key: key, Name: SolidityName(key)}, true
		}

		name, ok := FindContractName(m.Sources[key].Content)
		if ok && strings.Contains(strings.ToLower(name), needle) {
			return Match{Key: key, Name: name}, true
		}
	}

	return Match{}, false
}

// Names returns, for every source, the file name without ".sol" and the
// first contract name when one is declared.
func (m *Manifest) Names() []string {
	names := make([]string, 0, 2*len(m.Sources))

	for _, key := range m.Keys() {
		names = append(names, SolidityName(key))

		if name, ok := FindContractName(m.Sources[key].Content); ok {
			names = append(names, name)
		}
	}

	return names
}
