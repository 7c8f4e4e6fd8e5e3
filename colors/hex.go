// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package colors provides color parsing, formatting and the
// canonical hex form used to compare theme colors.
package colors

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
)

// FromHex parses the given hex color string, with or without
// the leading [Marker], in any of the 3, 4, 6 or 8 digit forms,
// and returns the resulting color.
func FromHex(hex string) (color.RGBA, error) {
	h := Normalize(hex)
	if len(h) != 6 && len(h) != 8 {
		return color.RGBA{}, errors.New("colors.FromHex: could not process: " + hex)
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("colors.FromHex: could not process %q: %w", hex, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MustFromHex parses the given hex color string
// and returns the resulting color. It panics on any
// resulting error; see [FromHex] for a version
// that returns an error.
func MustFromHex(hex string) color.RGBA {
	c, err := FromHex(hex)
	if err != nil {
		panic("colors.MustFromHex: " + err.Error())
	}
	return c
}

// AsHex returns the color as a lowercase [Marker] prefixed
// 2-hexadecimal-digits-per-component string, omitting the
// alpha component when the color is fully opaque.
func AsHex(c color.Color) string {
	if c == nil {
		return ""
	}
	r := color.RGBAModel.Convert(c).(color.RGBA)
	if r.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", r.R, r.G, r.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", r.R, r.G, r.B, r.A)
}
