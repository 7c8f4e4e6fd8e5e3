// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lines

import "strings"

// Base themes a [Theme] can build on.
const (
	BaseLight = "vs"
	BaseDark  = "vs-dark"
)

// Theme is an editor theme: token rules with foreground colors and
// named UI colors, on top of a base theme.
type Theme struct {
	// Base is [BaseLight] or [BaseDark].
	Base string `json:"base" yaml:"base"`

	// Inherit is whether rules and colors missing here
	// come from the base theme.
	Inherit bool `json:"inherit" yaml:"inherit"`

	// Colors are named UI colors as "#" followed by hex digits.
	Colors map[string]string `json:"colors" yaml:"colors"`

	// Rules are the token rules, in order.
	Rules []ThemeRule `json:"rules" yaml:"rules"`
}

// ThemeRule is the foreground color of the tokens whose
// classification is, or starts with, Token.
type ThemeRule struct {
	Token string `json:"token" yaml:"token"`

	// Foreground is the color as hex digits without a leading "#".
	Foreground string `json:"foreground,omitempty" yaml:"foreground,omitempty"`
}

// IsDark returns whether the theme builds on the dark base theme.
func (th *Theme) IsDark() bool {
	return th.Base == BaseDark
}

// Foreground returns the foreground color of the given token
// classification as "#" followed by hex digits. The rule with the
// longest matching token wins, and the earliest among equally long
// ones. Without a matching rule the editor.foreground color is returned,
// which may be "".
func (th *Theme) Foreground(scope string) string {
	best := -1
	fg := ""
	for _, r := range th.Rules {
		if r.Foreground == "" || len(r.Token) <= best {
			continue
		}
		if scope == r.Token || strings.HasPrefix(scope, r.Token+".") {
			best = len(r.Token)
			fg = "#" + r.Foreground
		}
	}
	if best < 0 {
		return th.Colors["editor.foreground"]
	}
	return fg
}
