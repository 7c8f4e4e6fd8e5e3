// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bridge

import (
	"log/slog"
	"time"
	"unicode/utf8"

	"cogentcore.org/tmbridge/colors"
	"cogentcore.org/tmbridge/text/highlighting"
	"cogentcore.org/tmbridge/text/lines"
	"cogentcore.org/tmbridge/text/textmate"
)

const (
	// MaxLineLength is the default line length, in runes, from which
	// lines are not tokenized.
	MaxLineLength = 20000

	// TimeBudget is the default time allowed for tokenizing one line.
	TimeBudget = 500 * time.Millisecond
)

// Tokenizer is the [lines.TokensProvider] of one language.
type Tokenizer struct {
	lang string
	br   *Bridge
}

// Language returns the language the tokenizer is for.
func (tk *Tokenizer) Language() string {
	return tk.lang
}

// InitialState returns the state for the first line of a document.
func (tk *Tokenizer) InitialState() lines.State {
	return NewLineState(textmate.InitialStack, tk.br.engine)
}

// Tokenize tokenizes one line, mapping the color of each token back
// to a scope of the active theme. Lines at or above the maximum length,
// and lines the engine fails on, become one token without a scope and
// leave the state unchanged. When the time budget runs out the tokens
// produced so far are still returned.
func (tk *Tokenizer) Tokenize(line string, state lines.State) *lines.LineTokens {
	ls, ok := state.(*LineState)
	if !ok || ls == nil {
		ls = NewLineState(textmate.InitialStack, tk.br.engine)
	}
	if utf8.RuneCountInString(line) >= tk.br.opts.MaxLineLength {
		LongLines.WithLabelValues(tk.lang).Inc()
		return wholeLine(ls)
	}
	start := time.Now()
	defer func() { TokenizeDuration.Observe(time.Since(start).Seconds()) }()

	theme := tk.br.active.Current()
	cm, err := tk.br.engine.SetTheme(theme)
	if err != nil {
		slog.Warn("bridge: cannot set theme", "theme", theme, "err", err)
		return wholeLine(ls)
	}
	idx, err := tk.br.scopeIndex(theme)
	if err != nil {
		slog.Warn("bridge: no scope index", "theme", theme, "err", err)
		return wholeLine(ls)
	}
	res, err := tk.br.engine.TokenizeLine2(tk.lang, line, ls.stack, tk.br.opts.TimeBudget)
	if err != nil {
		slog.Warn("bridge: tokenize", "language", tk.lang, "err", err)
		return wholeLine(ls)
	}
	TokenizedLines.WithLabelValues(tk.lang).Inc()
	if res.StoppedEarly {
		StoppedEarly.WithLabelValues(tk.lang).Inc()
		slog.Warn("bridge: tokenization stopped early", "language", tk.lang, "budget", tk.br.opts.TimeBudget, "length", len(line))
	}
	n := res.NumTokens()
	toks := make([]lines.Token, n)
	unresolved := 0
	for i := range n {
		st, md := res.Token(i)
		c := colors.Normalize(cm.Color(highlighting.Metadata(md).Foreground()))
		scope := idx.Lookup(c)
		if scope == "" {
			unresolved++
		}
		toks[i] = lines.Token{StartIndex: st, Scopes: scope}
	}
	if unresolved > 0 {
		UnresolvedTokens.WithLabelValues(tk.lang).Add(float64(unresolved))
	}
	return &lines.LineTokens{Tokens: toks, EndState: NewLineState(res.Stack, tk.br.engine)}
}

// wholeLine returns one token without a scope for the whole line,
// ending in the given state.
func wholeLine(ls *LineState) *lines.LineTokens {
	return &lines.LineTokens{Tokens: []lines.Token{{StartIndex: 0, Scopes: ""}}, EndState: ls}
}
