package resolver

import (
	"path"
	"strings"
)

// Fold resolves a relative specifier against the directory of key.
// ".." pops one segment, "." and empty segments are skipped, anything else
// descends. A ".." with nothing left to pop is dropped, so the result never
// climbs above the root; clamped reports whether that happened.
func Fold(key, specifier string) (string, bool) {
	return Join(path.Dir(key), specifier)
}

// Join folds specifier onto dir using the same rules as Fold.
func Join(dir, specifier string) (string, bool) {
	var segments []string

	if dir != "." && dir != "" && dir != "/" {
		segments = strings.Split(strings.Trim(dir, "/"), "/")
	}

	clamped := false

	for _, segment := range strings.Split(specifier, "/") {
		switch segment {
		case "..":
			if len(segments) == 0 {
				clamped = true

				continue
			}

			segments = segments[:len(segments)-1]
		case ".", "":
		default:
			segments = append(segments, segment)
		}
	}

	return strings.Join(segments, "/"), clamped
}
