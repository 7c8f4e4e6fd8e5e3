// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package highlighting

import (
	"slices"

	"cogentcore.org/tmbridge/colors"
)

// Reserved color ids.
const (
	// NoColor is the reserved id 0, which never names a color.
	NoColor = 0

	// DefaultForeground is the id of the theme's default foreground.
	DefaultForeground = 1

	// DefaultBackground is the id of the theme's default background.
	DefaultBackground = 2
)

// maxColors is the number of ids that fit in the foreground
// bits of [Metadata].
const maxColors = 1 << 9

// maxBackgrounds is the number of ids that fit in the background
// bits of [Metadata].
const maxBackgrounds = 1 << 8

// ColorMap is the color table of a compiled theme: the colors that
// [Metadata] foreground and background ids index into, as "#rrggbb"
// (or "#rrggbbaa") strings.
type ColorMap struct {
	colors []string
	ids    map[string]int
}

// NewColorMap returns a color map with the given default
// foreground and background colors.
func NewColorMap(fg, bg string) *ColorMap {
	cm := &ColorMap{colors: []string{""}, ids: map[string]int{}}
	for _, c := range []string{fg, bg} {
		c = colors.WithMarker(c)
		if _, ok := cm.ids[c]; !ok && c != "" {
			cm.ids[c] = len(cm.colors)
		}
		cm.colors = append(cm.colors, c)
	}
	return cm
}

// ID returns the id of the given color, adding it to the map if it
// is new. The empty color has id [NoColor], as does any color added
// after the map is full.
func (cm *ColorMap) ID(c string) int {
	c = colors.WithMarker(c)
	if c == "" {
		return NoColor
	}
	if id, ok := cm.ids[c]; ok {
		return id
	}
	if len(cm.colors) >= maxColors {
		return NoColor
	}
	id := len(cm.colors)
	cm.colors = append(cm.colors, c)
	cm.ids[c] = id
	return id
}

// BackgroundID is [ColorMap.ID] for background colors, which only have
// room for the first [maxBackgrounds] ids. A color that does not fit gets
// [NoColor] and is not added.
func (cm *ColorMap) BackgroundID(c string) int {
	if id, ok := cm.ids[colors.WithMarker(c)]; ok {
		if id >= maxBackgrounds {
			return NoColor
		}
		return id
	}
	if len(cm.colors) >= maxBackgrounds {
		return NoColor
	}
	return cm.ID(c)
}

// Color returns the color with the given id,
// or "" if the id is out of range.
func (cm *ColorMap) Color(id int) string {
	if id < 0 || id >= len(cm.colors) {
		return ""
	}
	return cm.colors[id]
}

// Len returns the number of ids, including the reserved id 0.
func (cm *ColorMap) Len() int {
	return len(cm.colors)
}

// Colors returns a copy of the color table, indexed by id.
func (cm *ColorMap) Colors() []string {
	return slices.Clone(cm.colors)
}
