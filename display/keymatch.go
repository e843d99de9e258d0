// Package display implements the second pipeline stage: expanding shortcode
// markers left in a rendered fragment against real datasets - resolving key
// hints, filtering rows and emitting final markup.
package display

import (
	"sort"
	"strings"
)

// ResolveKey maps a heading-derived hint onto one of a dataset's known key
// values. Rules apply in order, first match wins:
//
//  1. the hint is a key
//  2. one of the hint's words (split on whitespace and hyphens) is a key
//  3. the hint starts with a key
//  4. the hint contains a key
//
// Keys are tried in sorted order within rules 3 and 4 so resolution never
// depends on map iteration order. Empty result means no match.
func ResolveKey(hint string, known map[string]struct{}) string {
	if hint == "" || len(known) == 0 {
		return ""
	}

	if _, ok := known[hint]; ok {
		return hint
	}

	words := strings.FieldsFunc(hint, func(r rune) bool {
		return r == '-' || r == ' ' || r == '\t'
	})
	for _, w := range words {
		if _, ok := known[w]; ok {
			return w
		}
	}

	keys := make([]string, 0, len(known))
	for k := range known {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if strings.HasPrefix(hint, k) {
			return k
		}
	}
	for _, k := range keys {
		if strings.Contains(hint, k) {
			return k
		}
	}
	return ""
}
