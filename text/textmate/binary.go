// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package textmate

import "time"

// MetadataFunc returns the packed style metadata for the given scopes,
// outermost first. It is supplied by the theme layer.
type MetadataFunc func(scopes []string) uint32

// BinaryResult is the compact result of tokenizing one line.
type BinaryResult struct {
	// Tokens holds two entries per token: the rune offset where the
	// token starts, then its metadata. Adjacent tokens always differ
	// in metadata.
	Tokens []uint32

	// Stack is the state at the end of the line.
	Stack *StateStack

	// StoppedEarly is set when the time budget ran out.
	StoppedEarly bool
}

// NumTokens returns the number of tokens.
func (br *BinaryResult) NumTokens() int {
	return len(br.Tokens) / 2
}

// Token returns the start offset and metadata of token i.
func (br *BinaryResult) Token(i int) (start int, metadata uint32) {
	return int(br.Tokens[2*i]), br.Tokens[2*i+1]
}

// TokenizeLine2 is [Grammar.TokenizeLine] with each token reduced to
// its style metadata by meta, merging neighbors that end up the same.
// An empty line yields one token at offset 0.
func (g *Grammar) TokenizeLine2(line string, prev *StateStack, budget time.Duration, meta MetadataFunc) *BinaryResult {
	lr := g.TokenizeLine(line, prev, budget)
	br := &BinaryResult{Stack: lr.Stack, StoppedEarly: lr.StoppedEarly}
	br.Tokens = make([]uint32, 0, 2*len(lr.Tokens))
	for _, tok := range lr.Tokens {
		md := meta(tok.Scopes)
		if n := len(br.Tokens); n > 0 && br.Tokens[n-1] == md {
			continue
		}
		br.Tokens = append(br.Tokens, uint32(tok.Start), md)
	}
	return br
}
