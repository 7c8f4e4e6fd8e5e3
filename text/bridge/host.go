// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bridge connects a TextMate style highlighting engine to an
// editor that expects one classification per token. Engine themes are
// converted to editor themes, and the colors the engine resolves tokens
// to are mapped back to the first scope of the active theme that has
// that color. The mapping is lossy where scopes share a color.
//
// Nothing in this package is safe for concurrent use: the editor calls
// into it from its single event loop.
package bridge

import (
	"time"

	"cogentcore.org/tmbridge/text/highlighting"
	"cogentcore.org/tmbridge/text/lines"
	"cogentcore.org/tmbridge/text/textmate"
)

// Engine is the highlighting engine the bridge tokenizes with.
// It is implemented by [highlighting.Highlighter].
type Engine interface {
	// LoadedThemes returns the ids of the loaded themes.
	LoadedThemes() []string

	// LoadedLanguages returns the ids of the loaded languages.
	LoadedLanguages() []string

	// Theme returns the loaded theme with the given id.
	Theme(id string) (*highlighting.Theme, error)

	// SetTheme activates the theme with the given id and returns the
	// color map that token foreground ids index into.
	SetTheme(id string) (*highlighting.ColorMap, error)

	// TokenizeLine2 tokenizes one line of the given language into
	// start / metadata pairs, from the given stack, within the budget.
	TokenizeLine2(lang, line string, stack *textmate.StateStack, budget time.Duration) (*textmate.BinaryResult, error)
}

// Host is the editor the bridge registers themes and tokenizers with.
// It is implemented by [lines.Registry].
type Host interface {
	DefineTheme(id string, th *HostTheme)
	SetTheme(id string)
	Languages() []string
	SetTokensProvider(lang string, tp lines.TokensProvider)
}

// HostTheme is a theme in the editor's form.
type HostTheme = lines.Theme

// Rule is a token rule of a [HostTheme].
type Rule = lines.ThemeRule
