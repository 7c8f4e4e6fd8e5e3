// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package colors

import (
	"strings"
	"unicode/utf8"
)

// Marker is the character that prefixes hex colors in themes
// and in editor color tables.
const Marker = "#"

// Normalize returns the canonical comparable form of the given hex color
// string: one leading [Marker] is removed, the digits are lowercased, and
// the short 3 and 4 digit forms are expanded to 6 and 8 digits by doubling
// each digit. The empty string represents an absent color and is returned
// unchanged. The digits are not validated: malformed input is transformed
// in the same way and never rejected.
func Normalize(c string) string {
	if c == "" {
		return ""
	}
	c = strings.ToLower(strings.TrimPrefix(c, Marker))
	n := utf8.RuneCountInString(c)
	if n != 3 && n != 4 {
		return c
	}
	var b strings.Builder
	b.Grow(2 * len(c))
	for _, r := range c {
		b.WriteRune(r)
		b.WriteRune(r)
	}
	return b.String()
}

// WithMarker returns the [Normalize]d form of the given color prefixed
// with [Marker], which is the form editor color tables expect.
// An absent (empty) color stays empty.
func WithMarker(c string) string {
	c = Normalize(c)
	if c == "" {
		return ""
	}
	return Marker + c
}
