// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package highlighting

import (
	"fmt"
	"image/color"
	"strings"

	"cogentcore.org/tmbridge/base/suggest"
	"cogentcore.org/tmbridge/colors"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// chromaScopes maps chroma token types onto the TextMate scopes
// their style is applied to, in theme setting order.
var chromaScopes = []struct {
	tt     chroma.TokenType
	scopes []string
}{
	{chroma.Comment, []string{"comment", "punctuation.definition.comment"}},
	{chroma.CommentPreproc, []string{"meta.preprocessor"}},
	{chroma.Keyword, []string{"keyword", "storage"}},
	{chroma.KeywordType, []string{"storage.type", "support.type"}},
	{chroma.KeywordConstant, []string{"constant.language"}},
	{chroma.Operator, []string{"keyword.operator"}},
	{chroma.Punctuation, []string{"punctuation"}},
	{chroma.NameFunction, []string{"entity.name.function", "support.function"}},
	{chroma.NameClass, []string{"entity.name.type", "entity.name.class"}},
	{chroma.NameBuiltin, []string{"support.function.builtin", "variable.language"}},
	{chroma.NameVariable, []string{"variable"}},
	{chroma.NameConstant, []string{"variable.other.constant"}},
	{chroma.NameTag, []string{"entity.name.tag"}},
	{chroma.NameAttribute, []string{"entity.other.attribute-name"}},
	{chroma.LiteralString, []string{"string"}},
	{chroma.LiteralStringEscape, []string{"constant.character.escape"}},
	{chroma.LiteralStringRegex, []string{"string.regexp"}},
	{chroma.LiteralNumber, []string{"constant.numeric"}},
	{chroma.GenericHeading, []string{"markup.heading"}},
	{chroma.GenericEmph, []string{"markup.italic"}},
	{chroma.GenericStrong, []string{"markup.bold"}},
	{chroma.GenericInserted, []string{"markup.inserted"}},
	{chroma.GenericDeleted, []string{"markup.deleted"}},
	{chroma.Error, []string{"invalid"}},
}

// ThemeFromChroma converts the given chroma style into a [Theme]
// named after the style, mapping chroma token types onto scopes.
func ThemeFromChroma(st *chroma.Style) *Theme {
	th := &Theme{Name: st.Name, Type: "dark", Colors: map[string]string{}}
	bg := st.Get(chroma.Background)
	if bg.Background.IsSet() {
		th.Colors["editor.background"] = chromaHex(bg.Background)
		if bg.Background.Brightness() > 0.5 {
			th.Type = "light"
		}
	}
	if bg.Colour.IsSet() {
		th.Colors["editor.foreground"] = chromaHex(bg.Colour)
	}
	for _, cs := range chromaScopes {
		se := st.Get(cs.tt)
		ss := StyleSettings{FontStyle: chromaFontStyle(se)}
		if se.Colour.IsSet() {
			ss.Foreground = chromaHex(se.Colour)
		}
		if ss.Foreground == "" && ss.FontStyle == "" {
			continue
		}
		th.Settings = append(th.Settings, ThemeSetting{
			Name:     cs.tt.String(),
			Scope:    cs.scopes,
			Settings: ss,
		})
	}
	return th
}

func chromaHex(c chroma.Colour) string {
	return colors.AsHex(color.RGBA{R: c.Red(), G: c.Green(), B: c.Blue(), A: 255})
}

// chromaFontStyle returns the theme font style of a chroma style entry.
func chromaFontStyle(se chroma.StyleEntry) string {
	var fs []string
	if se.Italic == chroma.Yes {
		fs = append(fs, "italic")
	}
	if se.Bold == chroma.Yes {
		fs = append(fs, "bold")
	}
	if se.Underline == chroma.Yes {
		fs = append(fs, "underline")
	}
	return strings.Join(fs, " ")
}

// ChromaTheme returns the named chroma style as a [Theme].
func ChromaTheme(name string) (*Theme, error) {
	st, ok := styles.Registry[name]
	if !ok {
		return nil, fmt.Errorf("highlighting.ChromaTheme: %w: chroma style %q%s", ErrThemeNotFound, name, suggest.DidYouMean(name, styles.Names()))
	}
	return ThemeFromChroma(st), nil
}
