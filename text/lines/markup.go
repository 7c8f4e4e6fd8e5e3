// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lines

import "strings"

// setText splits text into lines and tokenizes all of them.
func (ls *Lines) setText(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	ls.lines = strings.Split(text, "\n")
	n := len(ls.lines)
	ls.tokens = make([][]Token, n)
	ls.states = make([]State, n)
	ls.stale = false
	ls.tokenizeFrom(0, n)
}

// tokenizeFrom tokenizes lines starting at line st. From line minEnd on,
// it stops after a line whose new end state equals its previous one,
// since the following lines then tokenize as they did before.
func (ls *Lines) tokenizeFrom(st, minEnd int) {
	n := len(ls.lines)
	ls.tokenized = 0
	tp, ok := ls.registry.TokensProvider(ls.lang)
	if !ok {
		for ln := st; ln < n; ln++ {
			ls.tokens[ln] = []Token{{StartIndex: 0}}
			ls.states[ln] = nil
		}
		ls.tokenized = n - st
		ls.sendRetokenize(st, n)
		return
	}
	var state State
	if st == 0 || ls.states[st-1] == nil {
		state = tp.InitialState()
	} else {
		state = ls.states[st-1].Clone()
	}
	ed := n
	for ln := st; ln < n; ln++ {
		lt := tp.Tokenize(ls.lines[ln], state)
		old := ls.states[ln]
		if lt == nil {
			lt = &LineTokens{Tokens: []Token{{StartIndex: 0}}, EndState: state}
		}
		ls.tokens[ln] = lt.Tokens
		ls.states[ln] = lt.EndState
		ls.tokenized++
		if ln >= minEnd && old != nil && lt.EndState != nil && lt.EndState.Equals(old) {
			ed = ln + 1
			break
		}
		state = lt.EndState
		if state != nil {
			state = state.Clone()
		} else {
			state = tp.InitialState()
		}
	}
	ls.sendRetokenize(st, ed)
}
