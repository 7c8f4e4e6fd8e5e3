// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package highlighting

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"cogentcore.org/tmbridge/base/errors"
	"cogentcore.org/tmbridge/base/keylist"
	"cogentcore.org/tmbridge/base/suggest"
	"cogentcore.org/tmbridge/text/textmate"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/gobwas/glob"
)

var (
	// ErrThemeNotFound is returned for a theme id that is not loaded.
	ErrThemeNotFound = errors.New("theme not found")

	// ErrLanguageNotFound is returned for a language id that is not loaded.
	ErrLanguageNotFound = errors.New("language not found")
)

// maxLanguages is the number of language ids that fit in [Metadata].
const maxLanguages = 255

// Language describes a language to load into a [Highlighter].
type Language struct {
	// ID is the identifier of the language, such as go.
	ID string

	// Aliases are other names the language can be looked up by.
	Aliases []string

	// FilePatterns are glob patterns of the file names the language
	// applies to, such as *.go, in addition to the grammar file types.
	FilePatterns []string

	// Grammar is the grammar document of the language.
	Grammar *textmate.GrammarJSON
}

// LanguageFromGrammar returns a language for the given grammar, with
// the id taken from its scope name and file patterns from its file types.
func LanguageFromGrammar(gj *textmate.GrammarJSON) *Language {
	id := gj.ScopeName
	if i := strings.LastIndexByte(id, '.'); i >= 0 {
		id = id[i+1:]
	}
	l := &Language{ID: id, Grammar: gj}
	if nm := strings.ToLower(gj.Name); nm != "" && nm != id {
		l.Aliases = append(l.Aliases, nm)
	}
	return l
}

// language is a loaded language.
type language struct {
	*Language
	id      int
	grammar *textmate.Grammar
	globs   []glob.Glob
}

// Highlighter is the highlighting engine: it holds the loaded themes and
// languages, the active theme, and tokenizes lines into [Metadata] tokens
// for the active theme. It is not safe for concurrent use.
type Highlighter struct {
	themes    keylist.List[string, *Theme]
	languages keylist.List[string, *language]
	grammars  *textmate.Registry

	// compiled caches compiled themes by id.
	compiled map[string]*compiledTheme

	// current is the active theme, set by [Highlighter.SetTheme].
	current *compiledTheme
}

// New returns a new empty [Highlighter]. See [Highlighter.LoadDefaults].
func New() *Highlighter {
	return &Highlighter{
		grammars: textmate.NewRegistry(),
		compiled: map[string]*compiledTheme{},
	}
}

// Grammars returns the registry of loaded grammars.
func (hi *Highlighter) Grammars() *textmate.Registry {
	return hi.grammars
}

// LoadTheme loads the given theme under its name,
// replacing any theme already loaded under that name.
func (hi *Highlighter) LoadTheme(th *Theme) error {
	if th.Name == "" {
		return errors.New("highlighting.LoadTheme: theme has no name")
	}
	hi.themes.Set(th.Name, th)
	delete(hi.compiled, th.Name)
	if hi.current != nil && hi.current.theme.Name == th.Name {
		hi.current = nil
	}
	return nil
}

// LoadLanguage compiles the grammar of the given language and loads it.
// A language id can only be loaded once.
func (hi *Highlighter) LoadLanguage(l *Language) error {
	if l.ID == "" || l.Grammar == nil {
		return errors.New("highlighting.LoadLanguage: language needs an id and a grammar")
	}
	if _, ok := hi.languages.Resolve(l.ID); ok {
		return fmt.Errorf("highlighting.LoadLanguage: language %q is already loaded", l.ID)
	}
	if hi.languages.Len() >= maxLanguages {
		return fmt.Errorf("highlighting.LoadLanguage: cannot load %q: more than %d languages", l.ID, maxLanguages)
	}
	ll := &language{Language: l, id: hi.languages.Len() + 1}
	pats := slices.Clone(l.FilePatterns)
	for _, ft := range l.Grammar.FileTypes {
		pats = append(pats, "*."+strings.TrimPrefix(ft, "."))
	}
	for _, p := range pats {
		gl, err := glob.Compile(p)
		if err != nil {
			return fmt.Errorf("highlighting.LoadLanguage %q: file pattern %q: %w", l.ID, p, err)
		}
		ll.globs = append(ll.globs, gl)
	}
	g, err := hi.grammars.Add(l.Grammar)
	if err != nil {
		return fmt.Errorf("highlighting.LoadLanguage %q: %w", l.ID, err)
	}
	ll.grammar = g
	hi.languages.Set(l.ID, ll)
	for _, a := range l.Aliases {
		if err := hi.languages.SetAlias(a, l.ID); err != nil {
			slog.Debug("highlighting: skipping language alias", "language", l.ID, "alias", a, "err", err)
		}
	}
	return nil
}

// LoadedThemes returns the ids of the loaded themes, in load order.
func (hi *Highlighter) LoadedThemes() []string {
	return slices.Clone(hi.themes.Keys)
}

// LoadedLanguages returns the ids of the loaded languages, in load order.
func (hi *Highlighter) LoadedLanguages() []string {
	return slices.Clone(hi.languages.Keys)
}

// Theme returns the loaded theme with the given id.
func (hi *Highlighter) Theme(id string) (*Theme, error) {
	th, ok := hi.themes.AtTry(id)
	if !ok {
		return nil, fmt.Errorf("highlighting: %w: %q%s", ErrThemeNotFound, id, suggest.DidYouMean(id, hi.themes.Keys))
	}
	return th, nil
}

// SetTheme makes the theme with the given id the active theme and
// returns its color map, which the foreground and background ids of
// [Metadata] produced from now on index into.
func (hi *Highlighter) SetTheme(id string) (*ColorMap, error) {
	if hi.current != nil && hi.current.theme.Name == id {
		return hi.current.colors, nil
	}
	th, err := hi.Theme(id)
	if err != nil {
		return nil, err
	}
	ct, ok := hi.compiled[id]
	if !ok {
		ct = compileTheme(th)
		hi.compiled[id] = ct
	}
	hi.current = ct
	return ct.colors, nil
}

// CurrentTheme returns the id of the active theme, or "" if none is set.
func (hi *Highlighter) CurrentTheme() string {
	if hi.current == nil {
		return ""
	}
	return hi.current.theme.Name
}

// language returns the loaded language with the given id or alias.
func (hi *Highlighter) language(id string) (*language, error) {
	l, ok := hi.languages.AtTry(id)
	if !ok {
		all := hi.languages.AllKeys(strings.Compare)
		return nil, fmt.Errorf("highlighting: %w: %q%s", ErrLanguageNotFound, id, suggest.DidYouMean(id, all))
	}
	return l, nil
}

// TokenizeLine tokenizes one line of the given language into scoped
// tokens, starting from the given stack ([textmate.InitialStack] for
// the first line), spending at most budget when it is positive.
func (hi *Highlighter) TokenizeLine(lang, line string, stack *textmate.StateStack, budget time.Duration) (*textmate.LineResult, error) {
	l, err := hi.language(lang)
	if err != nil {
		return nil, err
	}
	return l.grammar.TokenizeLine(line, stack, budget), nil
}

// TokenizeLine2 is [Highlighter.TokenizeLine] with each token resolved
// against the active theme into [Metadata]. If no theme has been set,
// the first loaded theme is activated.
func (hi *Highlighter) TokenizeLine2(lang, line string, stack *textmate.StateStack, budget time.Duration) (*textmate.BinaryResult, error) {
	l, err := hi.language(lang)
	if err != nil {
		return nil, err
	}
	if hi.current == nil {
		if hi.themes.Len() == 0 {
			return nil, fmt.Errorf("highlighting.TokenizeLine2: %w: no themes are loaded", ErrThemeNotFound)
		}
		if _, err := hi.SetTheme(hi.themes.Keys[0]); err != nil {
			return nil, err
		}
	}
	ct := hi.current
	meta := func(scopes []string) uint32 {
		return uint32(ct.metadata(l.id, scopes))
	}
	return l.grammar.TokenizeLine2(line, stack, budget, meta), nil
}

// DetectLanguage returns the id of the loaded language for the given
// file name, matching the language file patterns first and then the
// chroma lexer for the file, mapped onto loaded ids by name or alias.
func (hi *Highlighter) DetectLanguage(filename string) (string, bool) {
	base := filepath.Base(filename)
	for i, l := range hi.languages.Values {
		for _, gl := range l.globs {
			if gl.Match(base) {
				return hi.languages.Keys[i], true
			}
		}
	}
	lx := lexers.Match(base)
	if lx == nil {
		return "", false
	}
	cfg := lx.Config()
	for _, nm := range append([]string{cfg.Name}, cfg.Aliases...) {
		if id, ok := hi.languages.Resolve(strings.ToLower(nm)); ok {
			return id, true
		}
	}
	return "", false
}
