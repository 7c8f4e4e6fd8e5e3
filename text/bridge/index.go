// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bridge

import "cogentcore.org/tmbridge/colors"

// ScopeIndex maps normalized colors back to the scope of the first
// theme rule with that color. Later rules with the same color are
// shadowed.
type ScopeIndex struct {
	scopes map[string]string
}

// NewScopeIndex builds the index of the given rules, in order.
func NewScopeIndex(rules []Rule) *ScopeIndex {
	si := &ScopeIndex{scopes: make(map[string]string, len(rules))}
	for _, r := range rules {
		c := colors.Normalize(r.Foreground)
		if _, ok := si.scopes[c]; !ok {
			si.scopes[c] = r.Token
		}
	}
	return si
}

// Lookup returns the scope for the given normalized color, or "".
func (si *ScopeIndex) Lookup(color string) string {
	return si.scopes[color]
}

// Len returns the number of distinct colors.
func (si *ScopeIndex) Len() int {
	return len(si.scopes)
}
