// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package textmate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cogentcore.org/tmbridge/base/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const src = "source.test"

func testGrammar() *GrammarJSON {
	return &GrammarJSON{
		ScopeName: src,
		Patterns: []RuleJSON{
			{Include: "#comments"},
			{Name: "keyword.control.test", Match: `\b(if|else|return)\b`},
			{Match: `\b(func)\s+(\w+)`, Captures: map[string]RuleJSON{
				"1": {Name: "storage.type.function.test"},
				"2": {Name: "entity.name.function.test"},
			}},
			{Name: "string.quoted.double.test", Begin: `"`, End: `"`, Patterns: []RuleJSON{
				{Name: "constant.character.escape.test", Match: `\\.`},
			}},
			{Name: "string.unquoted.heredoc.test", Begin: `<<(\w+)`, End: `^\1$`},
			{Name: "meta.paren.test", Begin: `\(`, End: `\)`, Patterns: []RuleJSON{{Include: "$self"}}},
		},
		Repository: map[string]RuleJSON{
			"comments": {Patterns: []RuleJSON{
				{Name: "comment.line.double-slash.test", Match: `//.*$`},
				{Name: "comment.block.test", Begin: `/\*`, End: `\*/`},
			}},
		},
	}
}

func compileTest(t *testing.T) *Grammar {
	g, err := Compile(testGrammar(), nil)
	require.NoError(t, err)
	return g
}

func sc(scopes ...string) []string {
	return append([]string{src}, scopes...)
}

func TestLineComment(t *testing.T) {
	g := compileTest(t)
	lr := g.TokenizeLine("// hi", InitialStack, 0)
	assert.Equal(t, []Token{{Start: 0, End: 5, Scopes: sc("comment.line.double-slash.test")}}, lr.Tokens)
	assert.Equal(t, 1, lr.Stack.Depth())
	assert.False(t, lr.StoppedEarly)
}

func TestCaptures(t *testing.T) {
	g := compileTest(t)
	lr := g.TokenizeLine("func main() {", InitialStack, 0)
	want := []Token{
		{Start: 0, End: 4, Scopes: sc("storage.type.function.test")},
		{Start: 4, End: 5, Scopes: sc()},
		{Start: 5, End: 9, Scopes: sc("entity.name.function.test")},
		{Start: 9, End: 11, Scopes: sc("meta.paren.test")},
		{Start: 11, End: 13, Scopes: sc()},
	}
	assert.Equal(t, want, lr.Tokens)
}

func TestStringEscapes(t *testing.T) {
	g := compileTest(t)
	lr := g.TokenizeLine(`s = "a\"b"`, InitialStack, 0)
	want := []Token{
		{Start: 0, End: 4, Scopes: sc()},
		{Start: 4, End: 6, Scopes: sc("string.quoted.double.test")},
		{Start: 6, End: 8, Scopes: sc("string.quoted.double.test", "constant.character.escape.test")},
		{Start: 8, End: 10, Scopes: sc("string.quoted.double.test")},
	}
	assert.Equal(t, want, lr.Tokens)
}

func TestBlockCommentAcrossLines(t *testing.T) {
	g := compileTest(t)
	l1 := g.TokenizeLine("a /* b", InitialStack, 0)
	assert.Equal(t, []Token{
		{Start: 0, End: 2, Scopes: sc()},
		{Start: 2, End: 6, Scopes: sc("comment.block.test")},
	}, l1.Tokens)
	assert.Equal(t, 2, l1.Stack.Depth())
	assert.Equal(t, sc("comment.block.test"), l1.Stack.Scopes())

	l2 := g.TokenizeLine("c */ d", l1.Stack, 0)
	assert.Equal(t, []Token{
		{Start: 0, End: 4, Scopes: sc("comment.block.test")},
		{Start: 4, End: 6, Scopes: sc()},
	}, l2.Tokens)
	assert.Equal(t, 1, l2.Stack.Depth())
	assert.True(t, l2.Stack.Equal(newRootStack(g)))
	assert.False(t, l2.Stack.Equal(l1.Stack))

	// the stack handed out for line 1 is not changed by line 2
	assert.Equal(t, 2, l1.Stack.Depth())
}

func TestHeredocBackrefs(t *testing.T) {
	g := compileTest(t)
	l1 := g.TokenizeLine("x <<EOF", InitialStack, 0)
	assert.Equal(t, 2, l1.Stack.Depth())

	l2 := g.TokenizeLine("EOFX", l1.Stack, 0)
	assert.Equal(t, 2, l2.Stack.Depth())
	assert.Equal(t, []Token{{Start: 0, End: 4, Scopes: sc("string.unquoted.heredoc.test")}}, l2.Tokens)

	l3 := g.TokenizeLine("EOF", l2.Stack, 0)
	assert.Equal(t, 1, l3.Stack.Depth())

	other := g.TokenizeLine("x <<END", InitialStack, 0)
	assert.False(t, other.Stack.Equal(l1.Stack))
	again := g.TokenizeLine("y <<EOF", InitialStack, 0)
	assert.True(t, again.Stack.Equal(l1.Stack))
}

func TestSelfInclude(t *testing.T) {
	g := compileTest(t)
	lr := g.TokenizeLine("((", InitialStack, 0)
	assert.Equal(t, 3, lr.Stack.Depth())
	assert.Equal(t, sc("meta.paren.test", "meta.paren.test"), lr.Stack.Scopes())
	lr = g.TokenizeLine("))", lr.Stack, 0)
	assert.Equal(t, 1, lr.Stack.Depth())
}

func TestEmptyLine(t *testing.T) {
	g := compileTest(t)
	lr := g.TokenizeLine("", InitialStack, 0)
	assert.Equal(t, []Token{{Start: 0, End: 0, Scopes: sc()}}, lr.Tokens)
}

func TestZeroWidthMatch(t *testing.T) {
	g, err := Compile(&GrammarJSON{ScopeName: src, Patterns: []RuleJSON{
		{Name: "meta.look.test", Match: `(?=x)`},
	}}, nil)
	require.NoError(t, err)
	lr := g.TokenizeLine("xx", InitialStack, 0)
	assert.Equal(t, []Token{{Start: 0, End: 2, Scopes: sc()}}, lr.Tokens)
}

func TestStoppedEarly(t *testing.T) {
	g := compileTest(t)
	line := strings.Repeat("if ", 2000)
	lr := g.TokenizeLine(line, InitialStack, time.Nanosecond)
	assert.True(t, lr.StoppedEarly)
	require.NotEmpty(t, lr.Tokens)
	assert.Equal(t, len(line), lr.Tokens[len(lr.Tokens)-1].End)
}

func TestStoppedEarlyInsideMatch(t *testing.T) {
	g, err := Compile(&GrammarJSON{ScopeName: src, Patterns: []RuleJSON{
		{Name: "invalid.backtrack.test", Match: `(a+)+b`},
	}}, nil)
	require.NoError(t, err)
	line := strings.Repeat("a", 27)
	start := time.Now()
	lr := g.TokenizeLine(line, InitialStack, 10*time.Millisecond)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.True(t, lr.StoppedEarly)
	assert.Equal(t, []Token{{Start: 0, End: 27, Scopes: sc()}}, lr.Tokens)

	// the same expression still matches without a budget
	lr = g.TokenizeLine("aab", InitialStack, 0)
	assert.False(t, lr.StoppedEarly)
	assert.Equal(t, []Token{{Start: 0, End: 3, Scopes: sc("invalid.backtrack.test")}}, lr.Tokens)
}

func TestZeroWidthBeginSelf(t *testing.T) {
	g, err := Compile(&GrammarJSON{ScopeName: src, Patterns: []RuleJSON{
		{Name: "meta.look.test", Begin: `(?=a)`, End: `b`, Patterns: []RuleJSON{{Include: "$self"}}},
	}}, nil)
	require.NoError(t, err)
	l1 := g.TokenizeLine("aaa", InitialStack, 0)
	assert.Equal(t, 2, l1.Stack.Depth())
	assert.Equal(t, []Token{{Start: 0, End: 3, Scopes: sc("meta.look.test")}}, l1.Tokens)
	l2 := g.TokenizeLine("aaa", l1.Stack, 0)
	assert.Equal(t, 2, l2.Stack.Depth())
	assert.True(t, l2.Stack.Equal(l1.Stack))

	l3 := g.TokenizeLine("ab", l2.Stack, 0)
	assert.Equal(t, 1, l3.Stack.Depth())
}

func TestRunesOffsets(t *testing.T) {
	g := compileTest(t)
	lr := g.TokenizeLine(`"é" if`, InitialStack, 0)
	assert.Equal(t, []Token{
		{Start: 0, End: 3, Scopes: sc("string.quoted.double.test")},
		{Start: 3, End: 4, Scopes: sc()},
		{Start: 4, End: 6, Scopes: sc("keyword.control.test")},
	}, lr.Tokens)
}

func TestTokenizeLine2(t *testing.T) {
	g := compileTest(t)
	depth := func(scopes []string) uint32 { return uint32(len(scopes)) }
	br := g.TokenizeLine2("a /* b", InitialStack, 0, depth)
	assert.Equal(t, []uint32{0, 1, 2, 2}, br.Tokens)
	assert.Equal(t, 2, br.NumTokens())
	st, md := br.Token(1)
	assert.Equal(t, 2, st)
	assert.Equal(t, uint32(2), md)

	constant := func([]string) uint32 { return 7 }
	br = g.TokenizeLine2("func main() {", InitialStack, 0, constant)
	assert.Equal(t, []uint32{0, 7}, br.Tokens)

	br = g.TokenizeLine2("", InitialStack, 0, depth)
	assert.Equal(t, []uint32{0, 1}, br.Tokens)
}

func TestRegistryIncludes(t *testing.T) {
	rg := NewRegistry()
	_, err := rg.Add(&GrammarJSON{
		ScopeName: "source.inner",
		Patterns:  []RuleJSON{{Name: "constant.numeric.inner", Match: `\d+`}},
		Repository: map[string]RuleJSON{
			"words": {Name: "variable.inner", Match: `[a-z]+`},
		},
	})
	require.NoError(t, err)
	outer, err := rg.Add(&GrammarJSON{
		ScopeName: "source.outer",
		Patterns: []RuleJSON{
			{Include: "source.inner"},
			{Include: "source.inner#words"},
			{Include: "source.missing"},
		},
	})
	require.NoError(t, err)

	lr := outer.TokenizeLine("ab 12", InitialStack, 0)
	assert.Equal(t, []Token{
		{Start: 0, End: 2, Scopes: []string{"source.outer", "variable.inner"}},
		{Start: 2, End: 3, Scopes: []string{"source.outer"}},
		{Start: 3, End: 5, Scopes: []string{"source.outer", "constant.numeric.inner"}},
	}, lr.Tokens)
	assert.Equal(t, []string{"source.inner", "source.outer"}, rg.ScopeNames())

	_, err = rg.Grammar("source.outr")
	assert.True(t, errors.Is(err, ErrGrammarNotFound))
	assert.Contains(t, err.Error(), `did you mean "source.outer"?`)
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile(&GrammarJSON{}, nil)
	assert.Error(t, err)

	_, err = Compile(&GrammarJSON{ScopeName: src, Patterns: []RuleJSON{{Begin: `(`, End: `x`}}}, nil)
	assert.ErrorContains(t, err, "begin")

	_, err = Compile(&GrammarJSON{ScopeName: src, Patterns: []RuleJSON{{Begin: `x`}}}, nil)
	assert.ErrorContains(t, err, "begin or end omitted")

	_, err = Compile(&GrammarJSON{ScopeName: src, Repository: map[string]RuleJSON{
		"bad": {Match: `x`, Captures: map[string]RuleJSON{"one": {Name: "a"}}},
	}}, nil)
	assert.ErrorContains(t, err, "invalid capture group")
}

func TestOpenGrammarYAML(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "test.tmLanguage.yaml")
	doc := `scopeName: source.test
patterns:
  - name: keyword.control.test
    match: \bif\b
`
	require.NoError(t, os.WriteFile(fn, []byte(doc), 0o644))
	rg := NewRegistry()
	g, err := rg.Open(fn)
	require.NoError(t, err)
	lr := g.TokenizeLine("if", InitialStack, 0)
	assert.Equal(t, []Token{{Start: 0, End: 2, Scopes: sc("keyword.control.test")}}, lr.Tokens)

	_, err = rg.Open(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
