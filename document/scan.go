// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package document

import (
	"fmt"
	"strings"
)

// Missing is an unresolved placeholder found in a document.
type Missing struct {
	// Path is the structural path of the leaf, e.g. l2vpn_svc.sites.site[0].site_id
	Path  string `json:"path"`
	Token string `json:"token"`
}

func (m Missing) String() string {
	return fmt.Sprintf("%s=%s", m.Path, m.Token)
}

// IsPlaceholder reports whether s is a placeholder token such as {CVLAN_ID}.
func IsPlaceholder(s string) bool {
	return strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")
}

// Scan walks v and reports every string leaf that is still a placeholder token.
// Results are in document order.
func Scan(v any) (bool, []Missing) {
	var missing []Missing
	scan(v, "", &missing)
	return len(missing) > 0, missing
}

func scan(v any, path string, missing *[]Missing) {
	switch t := v.(type) {
	case *Map:
		if t == nil {
			return
		}
		for _, k := range t.keys {
			p := k
			if path != "" {
				p = path + "." + k
			}
			scan(t.values[k], p, missing)
		}
	case []any:
		for i, item := range t {
			scan(item, fmt.Sprintf("%s[%d]", path, i), missing)
		}
	case string:
		if IsPlaceholder(t) {
			*missing = append(*missing, Missing{Path: path, Token: t})
		}
	}
}
