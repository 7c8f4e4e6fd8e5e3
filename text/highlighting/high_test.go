// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package highlighting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"cogentcore.org/tmbridge/base/errors"
	"cogentcore.org/tmbridge/text/textmate"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"
)

func TestScopesUnmarshal(t *testing.T) {
	var ts ThemeSetting
	require.NoError(t, json.Unmarshal([]byte(`{"scope": "comment, string.quoted ,", "settings": {"foreground": "#fff"}}`), &ts))
	assert.Equal(t, Scopes{"comment", "string.quoted"}, ts.Scope)

	require.NoError(t, json.Unmarshal([]byte(`{"scope": ["keyword", " storage "], "settings": {}}`), &ts))
	assert.Equal(t, Scopes{"keyword", "storage"}, ts.Scope)

	assert.Error(t, json.Unmarshal([]byte(`{"scope": 3}`), &ts))

	var ys ThemeSetting
	require.NoError(t, yaml.Unmarshal([]byte("scope: comment, string\nsettings:\n  foreground: '#abc'\n"), &ys))
	assert.Equal(t, Scopes{"comment", "string"}, ys.Scope)
	assert.Equal(t, "#abc", ys.Settings.Foreground)

	require.NoError(t, yaml.Unmarshal([]byte("scope:\n  - a\n  - b.c\n"), &ys))
	assert.Equal(t, Scopes{"a", "b.c"}, ys.Scope)
}

func TestOpenThemeYAML(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "solar.theme.yaml")
	doc := `type: light
colors:
  editor.background: '#FDF6E3'
tokenColors:
  - scope: comment
    settings:
      foreground: '#93A1A1'
      fontStyle: italic
`
	require.NoError(t, os.WriteFile(fn, []byte(doc), 0o644))
	th, err := OpenTheme(fn)
	require.NoError(t, err)
	assert.Equal(t, "solar", th.Name)
	assert.True(t, th.IsLight())
	assert.Nil(t, th.Rules)
	require.Len(t, th.Settings, 1)
	assert.Equal(t, Scopes{"comment"}, th.Settings[0].Scope)

	_, err = OpenTheme(filepath.Join(t.TempDir(), "none.json"))
	assert.Error(t, err)
}

func TestColorMap(t *testing.T) {
	cm := NewColorMap("#FFF", "000")
	assert.Equal(t, "", cm.Color(NoColor))
	assert.Equal(t, "#ffffff", cm.Color(DefaultForeground))
	assert.Equal(t, "#000000", cm.Color(DefaultBackground))

	id := cm.ID("#ABC")
	assert.Equal(t, 3, id)
	assert.Equal(t, id, cm.ID("aabbcc"))
	assert.Equal(t, "#aabbcc", cm.Color(id))
	assert.Equal(t, NoColor, cm.ID(""))
	assert.Equal(t, "", cm.Color(99))
	assert.Equal(t, "", cm.Color(-1))
	assert.Equal(t, 4, cm.Len())
}

func TestMetadata(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lang := rapid.IntRange(0, 255).Draw(rt, "lang")
		tt := TokenType(rapid.IntRange(0, 3).Draw(rt, "tt"))
		fs := FontStyle(rapid.IntRange(0, 15).Draw(rt, "fs"))
		fg := rapid.IntRange(0, maxColors-1).Draw(rt, "fg")
		bg := rapid.IntRange(0, 255).Draw(rt, "bg")
		md := NewMetadata(lang, tt, fs, fg, bg)
		assert.Equal(rt, lang, md.LanguageID())
		assert.Equal(rt, tt, md.TokenType())
		assert.Equal(rt, fs, md.FontStyle())
		assert.Equal(rt, fg, md.Foreground())
		assert.Equal(rt, bg, md.Background())
	})
}

func TestFontStyle(t *testing.T) {
	fs := ParseFontStyle("bold  italic wavy")
	assert.Equal(t, FontItalic|FontBold, fs)
	assert.Equal(t, "italic bold", fs.String())
	assert.Equal(t, FontStyle(0), ParseFontStyle(""))
}

func TestTokenType(t *testing.T) {
	assert.Equal(t, TokenComment, tokenTypeOf([]string{"source.go", "comment.line"}))
	assert.Equal(t, TokenString, tokenTypeOf([]string{"source.go", "string.quoted.double", "constant.character.escape"}))
	assert.Equal(t, TokenRegEx, tokenTypeOf([]string{"source.js", "string.regexp"}))
	assert.Equal(t, TokenOther, tokenTypeOf([]string{"source.go", "strings"}))
}

func TestBackgroundIDs(t *testing.T) {
	cm := NewColorMap("fff", "000")
	assert.Equal(t, DefaultBackground, cm.BackgroundID("#000"))
	for i := cm.Len(); i < 300; i++ {
		cm.ID(fmt.Sprintf("#%06x", i))
	}
	assert.Equal(t, 300, cm.Len())
	assert.Equal(t, 255, cm.BackgroundID(fmt.Sprintf("#%06x", 255)))
	assert.Equal(t, NoColor, cm.BackgroundID(fmt.Sprintf("#%06x", 256)))
	assert.Equal(t, NoColor, cm.BackgroundID("#abcdef"))
	assert.Equal(t, 300, cm.Len())
	assert.Equal(t, 300, cm.ID("#abcdef"))
}

func TestResolveManyBackgrounds(t *testing.T) {
	th := &Theme{Name: "t"}
	for i := range 300 {
		th.Settings = append(th.Settings, ThemeSetting{
			Scope:    Scopes{fmt.Sprintf("s%d", i)},
			Settings: StyleSettings{Background: fmt.Sprintf("#%06x", i+0x100)},
		})
	}
	ct := compileTheme(th)
	bgOf := func(scope string) string {
		md := ct.metadata(1, []string{"source.x", scope})
		return ct.colors.Color(md.Background())
	}
	assert.Equal(t, fmt.Sprintf("#%06x", 0x100), bgOf("s0"))
	assert.Equal(t, fmt.Sprintf("#%06x", 0x100+252), bgOf("s252"))
	// out of background ids: the default background applies
	assert.Equal(t, ct.colors.Color(DefaultBackground), bgOf("s253"))
	assert.Equal(t, ct.colors.Color(DefaultBackground), bgOf("s299"))
}

func TestResolve(t *testing.T) {
	th := &Theme{Name: "t", Type: "dark", Settings: []ThemeSetting{
		{Settings: StyleSettings{Foreground: "#010101"}},
		{Scope: Scopes{"comment"}, Settings: StyleSettings{Foreground: "#111111", FontStyle: "italic"}},
		{Scope: Scopes{"comment.line"}, Settings: StyleSettings{Foreground: "#222222"}},
		{Scope: Scopes{"source.go string"}, Settings: StyleSettings{Foreground: "#333333"}},
		{Scope: Scopes{"string"}, Settings: StyleSettings{Foreground: "#444444"}},
		{Scope: Scopes{"keyword"}, Settings: StyleSettings{Foreground: "#555555"}},
		{Scope: Scopes{"keyword"}, Settings: StyleSettings{Foreground: "#666666"}},
		{Scope: Scopes{"markup.bold"}, Settings: StyleSettings{FontStyle: "bold"}},
	}}
	ct := compileTheme(th)
	fg := func(scopes ...string) string {
		return ct.colors.Color(ct.resolve(scopes).fg)
	}
	assert.Equal(t, "#010101", ct.colors.Color(DefaultForeground))
	assert.Equal(t, "#1e1e1e", ct.colors.Color(DefaultBackground))

	assert.Equal(t, "#222222", fg("source.go", "comment.line.double-slash.go"))
	assert.Equal(t, "#111111", fg("source.go", "comment.block.go"))
	assert.Equal(t, "#333333", fg("source.go", "string.quoted.double.go"))
	assert.Equal(t, "#444444", fg("source.json", "string.quoted.double.json"))
	assert.Equal(t, "#666666", fg("source.go", "keyword.control.go"))
	assert.Equal(t, "#010101", fg("source.go", "keywords"))

	// the innermost matching scope decides
	assert.Equal(t, "#444444", fg("source.json", "comment.block", "string"))

	st := ct.resolve([]string{"source.go", "comment.line"})
	assert.Equal(t, FontItalic, st.fontStyle)
	st = ct.resolve([]string{"text.md", "markup.bold"})
	assert.Equal(t, FontBold, st.fontStyle)
	assert.Equal(t, DefaultForeground, st.fg)
}

func TestResolveRules(t *testing.T) {
	th := &Theme{Name: "T", Colors: map[string]string{}, Rules: []Rule{
		{Token: "comment", Foreground: "6a9955"},
		{Token: "keyword.control", Foreground: "C586C0"},
	}}
	ct := compileTheme(th)
	fg := func(scopes ...string) string {
		return ct.colors.Color(ct.resolve(scopes).fg)
	}
	assert.Equal(t, "#6a9955", fg("source.l", "comment.line"))
	assert.Equal(t, "#c586c0", fg("source.l", "keyword.control.l"))
	assert.Equal(t, "#d4d4d4", fg("source.l", "keyword.operator"))

	th.Settings = []ThemeSetting{{Scope: Scopes{"comment"}, Settings: StyleSettings{Foreground: "#111111"}}}
	ct = compileTheme(th)
	assert.Equal(t, "#6a9955", fg("source.l", "comment"))
}

func TestParentsMatch(t *testing.T) {
	assert.True(t, parentsMatch(nil, nil))
	assert.True(t, parentsMatch([]string{"source.go"}, []string{"source.go", "meta.block"}))
	assert.True(t, parentsMatch([]string{"source", "meta"}, []string{"source.go", "meta.block", "meta.paren"}))
	assert.False(t, parentsMatch([]string{"meta", "source"}, []string{"source.go", "meta.block"}))
	assert.False(t, parentsMatch([]string{"text"}, []string{"source.go"}))
}

func loadDefaults(t *testing.T) *Highlighter {
	hi := New()
	require.NoError(t, hi.LoadDefaults())
	return hi
}

func fgOf(t *testing.T, cm *ColorMap, br *textmate.BinaryResult, i int) string {
	t.Helper()
	_, md := br.Token(i)
	return cm.Color(Metadata(md).Foreground())
}

func TestDefaults(t *testing.T) {
	hi := loadDefaults(t)
	assert.Equal(t, []string{"dark-plus", "light-plus"}, hi.LoadedThemes())
	assert.Equal(t, []string{"go", "json"}, hi.LoadedLanguages())

	cm, err := hi.SetTheme("dark-plus")
	require.NoError(t, err)
	assert.Equal(t, "dark-plus", hi.CurrentTheme())
	br, err := hi.TokenizeLine2("go", "// hi", textmate.InitialStack, 0)
	require.NoError(t, err)
	require.Equal(t, 1, br.NumTokens())
	assert.Equal(t, "#6a9955", fgOf(t, cm, br, 0))
	_, md := br.Token(0)
	assert.Equal(t, TokenComment, Metadata(md).TokenType())
	assert.Equal(t, 1, Metadata(md).LanguageID())

	br, err = hi.TokenizeLine2("go", "func main() {", textmate.InitialStack, 0)
	require.NoError(t, err)
	require.Equal(t, 4, br.NumTokens())
	assert.Equal(t, "#569cd6", fgOf(t, cm, br, 0))
	st, _ := br.Token(2)
	assert.Equal(t, 5, st)
	assert.Equal(t, "#dcdcaa", fgOf(t, cm, br, 2))
	assert.Equal(t, "#d4d4d4", fgOf(t, cm, br, 3))

	cm, err = hi.SetTheme("light-plus")
	require.NoError(t, err)
	br, err = hi.TokenizeLine2("go", "// hi", textmate.InitialStack, 0)
	require.NoError(t, err)
	assert.Equal(t, "#008000", fgOf(t, cm, br, 0))
}

func TestJSONGrammar(t *testing.T) {
	hi := loadDefaults(t)
	_, err := hi.SetTheme("dark-plus")
	require.NoError(t, err)
	lr, err := hi.TokenizeLine("json", `{"a": [1, true]}`, textmate.InitialStack, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, lr.Stack.Depth())
	at := func(pos int) []string {
		for _, tok := range lr.Tokens {
			if tok.Start <= pos && pos < tok.End {
				return tok.Scopes
			}
		}
		return nil
	}
	assert.Contains(t, at(2), "support.type.property-name.json")
	assert.Contains(t, at(7), "constant.numeric.json")
	assert.Contains(t, at(11), "constant.language.json")
	assert.Contains(t, at(8), "punctuation.separator.array.json")

	lr, err = hi.TokenizeLine("json", `{"open": [`, textmate.InitialStack, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, lr.Stack.Depth())
}

func TestFirstThemeIsDefault(t *testing.T) {
	hi := loadDefaults(t)
	assert.Equal(t, "", hi.CurrentTheme())
	_, err := hi.TokenizeLine2("go", "x", textmate.InitialStack, 0)
	require.NoError(t, err)
	assert.Equal(t, "dark-plus", hi.CurrentTheme())

	empty := New()
	require.NoError(t, empty.LoadLanguage(LanguageFromGrammar(&textmate.GrammarJSON{ScopeName: "source.x"})))
	_, err = empty.TokenizeLine2("x", "x", textmate.InitialStack, 0)
	assert.True(t, errors.Is(err, ErrThemeNotFound))
}

func TestNotFound(t *testing.T) {
	hi := loadDefaults(t)
	_, err := hi.SetTheme("dark-plu")
	assert.True(t, errors.Is(err, ErrThemeNotFound))
	assert.ErrorContains(t, err, `did you mean "dark-plus"?`)

	_, err = hi.Theme("solarized")
	assert.True(t, errors.Is(err, ErrThemeNotFound))

	_, err = hi.TokenizeLine2("jsn", "{}", textmate.InitialStack, 0)
	assert.True(t, errors.Is(err, ErrLanguageNotFound))
	assert.ErrorContains(t, err, `did you mean "json"?`)
}

func TestLoadErrors(t *testing.T) {
	hi := loadDefaults(t)
	assert.Error(t, hi.LoadTheme(&Theme{}))
	assert.Error(t, hi.LoadLanguage(&Language{ID: "x"}))
	err := hi.LoadLanguage(LanguageFromGrammar(&textmate.GrammarJSON{ScopeName: "source.go"}))
	assert.ErrorContains(t, err, "already loaded")
	err = hi.LoadLanguage(&Language{ID: "bad", FilePatterns: []string{"[a"}, Grammar: &textmate.GrammarJSON{ScopeName: "source.bad"}})
	assert.ErrorContains(t, err, "file pattern")
}

func TestReloadTheme(t *testing.T) {
	hi := New()
	require.NoError(t, hi.LoadTheme(&Theme{Name: "t", Settings: []ThemeSetting{
		{Scope: Scopes{"comment"}, Settings: StyleSettings{Foreground: "#111111"}},
	}}))
	cm, err := hi.SetTheme("t")
	require.NoError(t, err)
	assert.Equal(t, 4, cm.Len())

	require.NoError(t, hi.LoadTheme(&Theme{Name: "t", Type: "light"}))
	assert.Equal(t, "", hi.CurrentTheme())
	cm, err = hi.SetTheme("t")
	require.NoError(t, err)
	assert.Equal(t, 3, cm.Len())
	assert.Equal(t, "#000000", cm.Color(DefaultForeground))
}

func TestDetectLanguage(t *testing.T) {
	hi := loadDefaults(t)
	id, ok := hi.DetectLanguage("/src/cmd/main.go")
	assert.True(t, ok)
	assert.Equal(t, "go", id)

	id, ok = hi.DetectLanguage("settings.jsonc")
	assert.True(t, ok)
	assert.Equal(t, "json", id)

	_, ok = hi.DetectLanguage("notes.txt")
	assert.False(t, ok)

	// no pattern matches, but the chroma lexer for the file is python
	require.NoError(t, hi.LoadLanguage(&Language{ID: "python", Grammar: &textmate.GrammarJSON{ScopeName: "source.python"}}))
	id, ok = hi.DetectLanguage("script.py")
	assert.True(t, ok)
	assert.Equal(t, "python", id)

	require.NoError(t, hi.LoadLanguage(&Language{ID: "mk", FilePatterns: []string{"Makefile", "*.mk"}, Grammar: &textmate.GrammarJSON{ScopeName: "source.makefile"}}))
	id, ok = hi.DetectLanguage("sub/Makefile")
	assert.True(t, ok)
	assert.Equal(t, "mk", id)
}

func TestThemeFromChroma(t *testing.T) {
	th := ThemeFromChroma(styles.Get("monokai"))
	assert.Equal(t, "monokai", th.Name)
	assert.False(t, th.IsLight())
	assert.Equal(t, "#272822", th.Colors["editor.background"])
	assert.NotEmpty(t, th.Settings)
	found := false
	for _, ts := range th.Settings {
		if ts.Scope[0] == "comment" {
			found = true
			assert.NotEmpty(t, ts.Settings.Foreground)
		}
	}
	assert.True(t, found)

	th, err := ChromaTheme("github")
	require.NoError(t, err)
	assert.True(t, th.IsLight())

	hi := New()
	require.NoError(t, hi.LoadTheme(th))
	_, err = hi.SetTheme("github")
	assert.NoError(t, err)

	_, err = ChromaTheme("monokaii")
	assert.True(t, errors.Is(err, ErrThemeNotFound))
}
