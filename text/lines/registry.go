// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lines

import (
	"log/slog"
	"slices"

	"cogentcore.org/tmbridge/base/keylist"
)

// Registry holds the editor's known languages with their tokens
// providers, and its defined themes with the current one.
// It is not safe for concurrent use.
type Registry struct {
	themes    keylist.List[string, *Theme]
	languages keylist.List[string, TokensProvider]

	// current is the id of the current theme.
	current string

	themeListeners []*themeListener
}

// themeListener is a function added with [Registry.OnThemeChange].
type themeListener struct {
	fun func(id string)
}

// NewRegistry returns a new registry that knows the given languages.
func NewRegistry(languages ...string) *Registry {
	rg := &Registry{}
	for _, l := range languages {
		rg.AddLanguage(l)
	}
	return rg
}

// AddLanguage makes the given language known, without a tokens
// provider. It does nothing for a language that is already known.
func (rg *Registry) AddLanguage(lang string) {
	if rg.languages.IndexByKey(lang) >= 0 {
		return
	}
	rg.languages.Set(lang, nil)
}

// Languages returns the known languages, in the order they became known.
func (rg *Registry) Languages() []string {
	return slices.Clone(rg.languages.Keys)
}

// SetTokensProvider sets the tokens provider of the given language,
// making the language known if it is not.
func (rg *Registry) SetTokensProvider(lang string, tp TokensProvider) {
	rg.languages.Set(lang, tp)
}

// TokensProvider returns the tokens provider of the given language,
// and false if there is none.
func (rg *Registry) TokensProvider(lang string) (TokensProvider, bool) {
	tp := rg.languages.At(lang)
	return tp, tp != nil
}

// DefineTheme defines the theme with the given id,
// replacing any theme defined with that id.
func (rg *Registry) DefineTheme(id string, th *Theme) {
	rg.themes.Set(id, th)
}

// Theme returns the theme defined with the given id.
func (rg *Registry) Theme(id string) (*Theme, bool) {
	return rg.themes.AtTry(id)
}

// Themes returns the ids of the defined themes, in definition order.
func (rg *Registry) Themes() []string {
	return slices.Clone(rg.themes.Keys)
}

// SetTheme makes the theme with the given id current and notifies the
// theme change listeners. An undefined theme is ignored with a warning.
func (rg *Registry) SetTheme(id string) {
	if rg.themes.IndexByKey(id) < 0 {
		slog.Warn("lines: SetTheme: theme is not defined", "theme", id)
		return
	}
	rg.current = id
	for _, l := range slices.Clone(rg.themeListeners) {
		l.fun(id)
	}
}

// CurrentTheme returns the id of the current theme, or "" if none was set.
func (rg *Registry) CurrentTheme() string {
	return rg.current
}

// OnThemeChange adds a function that is called with the theme id
// whenever [Registry.SetTheme] changes the theme. It returns a function
// that removes it again.
func (rg *Registry) OnThemeChange(fun func(id string)) (remove func()) {
	l := &themeListener{fun: fun}
	rg.themeListeners = append(rg.themeListeners, l)
	return func() {
		rg.themeListeners = slices.DeleteFunc(rg.themeListeners, func(o *themeListener) bool { return o == l })
	}
}
