// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lines is the editor side of syntax highlighting: the tokens
// provider contract an editor model consumes, a [Registry] of themes and
// providers per language, and [Lines], a document model that tokenizes
// its lines incrementally through the provider of its language.
package lines

// State is the tokenizer state at the end of a line, which the
// next line is tokenized from. The editor treats it as opaque.
type State interface {
	// Clone returns a copy of the state that can be handed
	// to [TokensProvider.Tokenize].
	Clone() State

	// Equals returns whether the two states tokenize any
	// following line the same way.
	Equals(other State) bool
}

// Token is the start of a token in a line, with its classification.
// A token extends to the start of the next token or the end of the line.
type Token struct {
	// StartIndex is the rune offset in the line.
	StartIndex int

	// Scopes is the single classification of the token,
	// such as comment, or "" for none.
	Scopes string
}

// LineTokens is the result of tokenizing one line.
type LineTokens struct {
	Tokens   []Token
	EndState State
}

// TokensProvider tokenizes the lines of one language.
type TokensProvider interface {
	// InitialState returns the state to tokenize the first line with.
	InitialState() State

	// Tokenize tokenizes one line, which has no line break,
	// starting in the given state.
	Tokenize(line string, state State) *LineTokens
}
