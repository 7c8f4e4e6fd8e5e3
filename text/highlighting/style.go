// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package highlighting provides a TextMate style highlighting engine:
// it loads themes and grammars, resolves the scopes produced by the
// [textmate] grammar interpreter against the active theme, and packs
// the result into per token [Metadata] with a theme [ColorMap].
// Themes can also be imported from github.com/alecthomas/chroma styles.
package highlighting

import (
	"strings"

	"cogentcore.org/tmbridge/colors"
)

// selector is one compiled scope selector of a theme setting,
// such as "source.go comment.line".
type selector struct {
	// scope is the selector for the innermost scope.
	scope string

	// parents are the selectors that must match enclosing
	// scopes, outermost first.
	parents []string

	// specificity is the number of dotted parts of scope.
	specificity int

	fg, bg    int
	fontStyle FontStyle
	hasFont   bool

	// order is the index of the setting in the theme.
	order int
}

// style is a resolved token style.
type style struct {
	fg, bg    int
	fontStyle FontStyle
}

// compiledTheme is a theme with its selectors compiled
// against its own color map.
type compiledTheme struct {
	theme     *Theme
	colors    *ColorMap
	selectors []selector
	defaults  style

	// cache holds the metadata of scope paths already resolved,
	// keyed by language id and joined scopes.
	cache map[metaKey]Metadata
}

type metaKey struct {
	lang int
	path string
}

// defaultColors are the foreground and background used when a
// theme names none, by theme type.
var defaultColors = map[bool][2]string{
	true:  {"#000000", "#ffffff"},
	false: {"#d4d4d4", "#1e1e1e"},
}

// compileTheme compiles the settings of the given theme, followed by
// its pre-resolved rules, which win ties against settings.
func compileTheme(th *Theme) *compiledTheme {
	dc := defaultColors[th.IsLight()]
	fg, bg := dc[0], dc[1]
	var fs FontStyle
	for _, ts := range th.Settings {
		if len(ts.Scope) > 0 {
			continue
		}
		if ts.Settings.Foreground != "" {
			fg = ts.Settings.Foreground
		}
		if ts.Settings.Background != "" {
			bg = ts.Settings.Background
		}
		fs = ParseFontStyle(ts.Settings.FontStyle)
	}
	if c := th.Colors["editor.foreground"]; c != "" {
		fg = c
	}
	if c := th.Colors["editor.background"]; c != "" {
		bg = c
	}
	ct := &compiledTheme{
		theme:    th,
		colors:   NewColorMap(fg, bg),
		defaults: style{fg: DefaultForeground, bg: DefaultBackground, fontStyle: fs},
		cache:    map[metaKey]Metadata{},
	}
	for i, ts := range th.Settings {
		for _, sc := range ts.Scope {
			ct.addSelector(sc, ts.Settings, i)
		}
	}
	for i, r := range th.Rules {
		ct.addSelector(r.Token, StyleSettings{Foreground: r.Foreground}, len(th.Settings)+i)
	}
	return ct
}

// addSelector compiles one selector. Exclusions after " - " are dropped.
func (ct *compiledTheme) addSelector(sel string, ss StyleSettings, order int) {
	if i := strings.Index(sel, " -"); i >= 0 {
		sel = sel[:i]
	}
	parts := strings.Fields(sel)
	if len(parts) == 0 {
		return
	}
	scope := parts[len(parts)-1]
	s := selector{
		scope:       scope,
		parents:     parts[:len(parts)-1],
		specificity: strings.Count(scope, ".") + 1,
		order:       order,
	}
	if ss.Foreground != "" && colors.Normalize(ss.Foreground) != "" {
		s.fg = ct.colors.ID(ss.Foreground)
	}
	if ss.Background != "" {
		s.bg = ct.colors.BackgroundID(ss.Background)
	}
	if ss.FontStyle != "" {
		s.fontStyle = ParseFontStyle(ss.FontStyle)
		s.hasFont = true
	}
	ct.selectors = append(ct.selectors, s)
}

// scopeMatches returns whether selector sel matches scope:
// the scope equals sel or starts with sel followed by a dot.
func scopeMatches(sel, scope string) bool {
	if !strings.HasPrefix(scope, sel) {
		return false
	}
	return len(scope) == len(sel) || scope[len(sel)] == '.'
}

// score is the match quality of a selector against a scope path.
// Scores compare field by field; a zero depth means no match.
type score struct {
	depth, specificity, parents, order int
}

func (a score) less(b score) bool {
	switch {
	case a.depth != b.depth:
		return a.depth < b.depth
	case a.specificity != b.specificity:
		return a.specificity < b.specificity
	case a.parents != b.parents:
		return a.parents < b.parents
	}
	return a.order < b.order
}

// match returns the score of s against the scope path, outermost first.
// The innermost scope matching s.scope decides the depth, and the
// parents must match enclosing scopes in order.
func (s *selector) match(scopes []string) score {
	for i := len(scopes) - 1; i >= 0; i-- {
		if !scopeMatches(s.scope, scopes[i]) {
			continue
		}
		if parentsMatch(s.parents, scopes[:i]) {
			return score{depth: i + 1, specificity: s.specificity, parents: len(s.parents), order: s.order}
		}
	}
	return score{}
}

// parentsMatch returns whether the parent selectors match
// the enclosing scopes in order, not necessarily adjacent.
func parentsMatch(parents, scopes []string) bool {
	j := len(scopes) - 1
	for p := len(parents) - 1; p >= 0; p-- {
		for j >= 0 && !scopeMatches(parents[p], scopes[j]) {
			j--
		}
		if j < 0 {
			return false
		}
		j--
	}
	return true
}

// resolve returns the style of the given scope path. Each attribute
// comes from the best scoring selector that sets it.
func (ct *compiledTheme) resolve(scopes []string) style {
	st := ct.defaults
	var fgBest, bgBest, fsBest score
	for i := range ct.selectors {
		s := &ct.selectors[i]
		sc := s.match(scopes)
		if sc.depth == 0 {
			continue
		}
		if s.fg != NoColor && !sc.less(fgBest) {
			st.fg, fgBest = s.fg, sc
		}
		if s.bg != NoColor && !sc.less(bgBest) {
			st.bg, bgBest = s.bg, sc
		}
		if s.hasFont && !sc.less(fsBest) {
			st.fontStyle, fsBest = s.fontStyle, sc
		}
	}
	return st
}

// metadata returns the packed metadata of the given scope path
// in the given language, caching the result.
func (ct *compiledTheme) metadata(lang int, scopes []string) Metadata {
	key := metaKey{lang: lang, path: strings.Join(scopes, " ")}
	if md, ok := ct.cache[key]; ok {
		return md
	}
	st := ct.resolve(scopes)
	md := NewMetadata(lang, tokenTypeOf(scopes), st.fontStyle, st.fg, st.bg)
	ct.cache[key] = md
	return md
}
