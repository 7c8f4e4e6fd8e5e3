// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bridge

// ActiveTheme records the theme selected in the host, which the
// host itself offers no way to query. [ActiveTheme.SetTheme] is
// the only writer; every tokenize call reads it.
type ActiveTheme struct {
	host Host
	id   string
}

// SetTheme selects the theme in the host, so that its own side
// effects still happen, then records it.
func (at *ActiveTheme) SetTheme(id string) {
	at.host.SetTheme(id)
	at.id = id
}

// Current returns the id of the selected theme.
func (at *ActiveTheme) Current() string {
	return at.id
}
