// Copyright (c) 2015, Arbo von Monkiewitsch All rights reserved.
// Use of this source code is governed by a BSD-style
// license.

// Package levenshtein computes edit distances and picks close matches for
// misspelled names.
package levenshtein

import (
	"slices"
	"strings"
)

// Context reuses one buffer across Distance calls.
type Context struct {
	column []int
}

func (ctx *Context) buffer(length int) []int {
	if cap(ctx.column) < length {
		ctx.column = make([]int, length)
	}

	return ctx.column[:length]
}

// Distance returns the minimum number of single-rune insertions, deletions
// or substitutions turning a into b. It keeps a single column of the
// classic table, so space is O(len(a)).
func (ctx *Context) Distance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(rb) == 0 {
		return len(ra)
	}

	column := ctx.buffer(len(ra) + 1)
	for i := range column {
		column[i] = i
	}

	for j, r := range rb {
		diag := column[0]
		column[0] = j + 1

		for i := range ra {
			cost := 1
			if ra[i] == r {
				cost = 0
			}

			above := column[i+1]
			column[i+1] = min(above+1, column[i]+1, diag+cost)
			diag = above
		}
	}

	return column[len(ra)]
}

// Suggest returns the candidates within maxDistance of target, compared
// case-insensitively, nearest first and then in lexical order. Duplicates
// are reported once.
func Suggest(target string, candidates []string, maxDistance int) []string {
	type scored struct {
		name     string
		distance int
	}

	var (
		ctx     Context
		matches []scored
	)

	needle := strings.ToLower(target)
	seen := make(map[string]struct{}, len(candidates))

	for _, candidate := range candidates {
		if _, dup := seen[candidate]; dup {
			continue
		}

		seen[candidate] = struct{}{}

		d := ctx.Distance(needle, strings.ToLower(candidate))
		if d <= maxDistance {
			matches = append(matches, scored{name: candidate, distance: d})
		}
	}

	slices.SortFunc(matches, func(x, y scored) int {
		if x.distance != y.distance {
			return x.distance - y.distance
		}

		return strings.Compare(x.name, y.name)
	})

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}

	return out
}
