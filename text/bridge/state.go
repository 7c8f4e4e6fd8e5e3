// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bridge

import (
	"cogentcore.org/tmbridge/text/lines"
	"cogentcore.org/tmbridge/text/textmate"
)

// LineState is the [lines.State] of the bridge: the grammar stack at the
// end of a line and the engine that produced it. It is immutable.
type LineState struct {
	stack  *textmate.StateStack
	engine Engine
}

// NewLineState returns a new line state.
func NewLineState(stack *textmate.StateStack, engine Engine) *LineState {
	return &LineState{stack: stack, engine: engine}
}

// Stack returns the grammar stack.
func (ls *LineState) Stack() *textmate.StateStack {
	return ls.stack
}

func (ls *LineState) Clone() lines.State {
	return &LineState{stack: ls.stack, engine: ls.engine}
}

// Equals returns whether other is a [LineState] of the same engine
// with a structurally equal grammar stack.
func (ls *LineState) Equals(other lines.State) bool {
	o, ok := other.(*LineState)
	if !ok || o == nil {
		return false
	}
	return ls.engine == o.engine && ls.stack.Equal(o.stack)
}

func (ls *LineState) String() string {
	return ls.stack.String()
}
