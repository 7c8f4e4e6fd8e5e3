// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lines

import (
	"slices"
	"strings"
)

// Lines is a document of text lines in one language, with the tokens
// of each line kept up to date through the language's tokens provider.
// After an edit, lines are tokenized again from the first edited line
// until a line ends in the same state as before the edit.
// It is not safe for concurrent use.
type Lines struct {
	registry *Registry
	lang     string

	lines  []string
	tokens [][]Token

	// states are the end states of the lines, nil
	// where the line has not been tokenized.
	states []State

	// tokenized is the number of lines tokenized by the last update.
	tokenized int

	// stale is set when the theme changed, and all the lines
	// are tokenized again on the next access.
	stale bool

	listeners []func(st, ed int)

	// unlisten removes the theme change listener from the registry.
	unlisten func()
}

// NewLines returns a new empty document in the given language, which
// is tokenized with the language's provider in the registry. The
// document is tokenized again on the first access after the
// registry's theme changes, as an editor re-renders on its next frame.
// Call [Lines.Close] when the document is no longer used.
func NewLines(rg *Registry, lang string) *Lines {
	ls := &Lines{registry: rg, lang: lang}
	ls.setText("")
	ls.unlisten = rg.OnThemeChange(func(string) { ls.stale = true })
	return ls
}

// Close stops following the theme of the registry, which then no
// longer refers to the document. It is safe to call more than once.
func (ls *Lines) Close() {
	if ls.unlisten != nil {
		ls.unlisten()
		ls.unlisten = nil
	}
}

// Language returns the language of the document.
func (ls *Lines) Language() string {
	return ls.lang
}

// SetText replaces all the text, which is split into lines at
// line breaks, and tokenizes it.
func (ls *Lines) SetText(text string) *Lines {
	ls.setText(text)
	return ls
}

// String returns the text, with lines joined by line breaks.
func (ls *Lines) String() string {
	return strings.Join(ls.lines, "\n")
}

// NumLines returns the number of lines, which is at least one.
func (ls *Lines) NumLines() int {
	return len(ls.lines)
}

// IsValidLine returns whether the given line index is in range.
func (ls *Lines) IsValidLine(ln int) bool {
	return ln >= 0 && ln < len(ls.lines)
}

// Line returns the text of the given line, or "" if out of range.
func (ls *Lines) Line(ln int) string {
	if !ls.IsValidLine(ln) {
		return ""
	}
	return ls.lines[ln]
}

// Strings returns a copy of the lines.
func (ls *Lines) Strings() []string {
	return slices.Clone(ls.lines)
}

// Tokens returns the tokens of the given line, or nil if out of range.
func (ls *Lines) Tokens(ln int) []Token {
	if !ls.IsValidLine(ln) {
		return nil
	}
	ls.update()
	return ls.tokens[ln]
}

// EndState returns the tokenizer state at the end of the given line,
// or nil if out of range or there is no tokens provider.
func (ls *Lines) EndState(ln int) State {
	if !ls.IsValidLine(ln) {
		return nil
	}
	ls.update()
	return ls.states[ln]
}

// LastTokenized returns the number of lines the last update tokenized.
func (ls *Lines) LastTokenized() int {
	ls.update()
	return ls.tokenized
}

// SetLine replaces the text of the given line, which must
// not contain a line break, and tokenizes again as needed.
func (ls *Lines) SetLine(ln int, text string) {
	if !ls.IsValidLine(ln) {
		return
	}
	ls.update()
	ls.lines[ln] = text
	ls.tokenizeFrom(ln, ln)
}

// InsertLines inserts the given lines before line ln; ln equal to
// [Lines.NumLines] appends.
func (ls *Lines) InsertLines(ln int, text ...string) {
	if ln < 0 || ln > len(ls.lines) || len(text) == 0 {
		return
	}
	ls.update()
	n := len(text)
	ls.lines = slices.Insert(ls.lines, ln, text...)
	ls.tokens = slices.Insert(ls.tokens, ln, make([][]Token, n)...)
	ls.states = slices.Insert(ls.states, ln, make([]State, n)...)
	ls.tokenizeFrom(ln, ln+n)
}

// DeleteLines deletes n lines starting at line st.
// At least one, empty, line always remains.
func (ls *Lines) DeleteLines(st, n int) {
	if !ls.IsValidLine(st) || n <= 0 {
		return
	}
	ls.update()
	ed := min(st+n, len(ls.lines))
	ls.lines = slices.Delete(ls.lines, st, ed)
	ls.tokens = slices.Delete(ls.tokens, st, ed)
	ls.states = slices.Delete(ls.states, st, ed)
	if len(ls.lines) == 0 {
		ls.setText("")
		return
	}
	if st < len(ls.lines) {
		ls.tokenizeFrom(st, st)
	}
}

// Retokenize tokenizes all the lines again, as needed
// when the theme or the tokens provider changes.
func (ls *Lines) Retokenize() {
	ls.stale = false
	ls.tokenizeFrom(0, len(ls.lines))
}

// update tokenizes all the lines again if the theme changed.
func (ls *Lines) update() {
	if ls.stale {
		ls.Retokenize()
	}
}
