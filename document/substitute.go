// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package document

import (
	"sort"
	"strings"
)

// Substitute returns a copy of v in which every occurrence of each replacement key
// inside string leaves is replaced by its value. Object keys, numbers, booleans and
// nulls are left as they are; key and element order is kept.
//
// All keys are replaced in a single pass, so a replacement value that happens to
// contain another key is not replaced again.
func Substitute(v any, replacements map[string]string) any {
	return substitute(v, newReplacer(replacements))
}

// SubstituteString applies replacements to a single string.
func SubstituteString(s string, replacements map[string]string) string {
	return newReplacer(replacements).Replace(s)
}

func newReplacer(replacements map[string]string) *strings.Replacer {
	keys := make([]string, 0, len(replacements))
	for k := range replacements {
		if k == "" {
			continue
		}
		keys = append(keys, k)
	}
	// longest key wins when two keys match at the same position
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, replacements[k])
	}
	return strings.NewReplacer(pairs...)
}

func substitute(v any, r *strings.Replacer) any {
	switch t := v.(type) {
	case *Map:
		if t == nil {
			return t
		}
		out := NewMap()
		for _, k := range t.keys {
			out.Set(k, substitute(t.values[k], r))
		}
		return out
	case []any:
		if t == nil {
			return t
		}
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = substitute(item, r)
		}
		return out
	case string:
		return r.Replace(t)
	default:
		return v
	}
}
