// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package textmate

import (
	"slices"
	"strings"

	"github.com/dlclark/regexp2"
)

// InitialStack is the stack to tokenize the first line of a document with.
// It stands for the root of whatever grammar tokenizes the line.
var InitialStack *StateStack

// StateStack is the grammar state at the end of a line: the chain of
// begin / end blocks that are still open. It is immutable: pushing and
// popping return new stacks and never modify existing frames, so a stack
// handed out for one line stays valid no matter what happens later.
type StateStack struct {
	parent *StateStack

	// rule is the begin / end rule of the block, or the grammar root.
	rule *rule

	// end is the resolved end expression for the block, with back
	// references substituted.
	end   string
	endRe *regexp2.Regexp

	// nameScopes are the scopes of the begin and end text,
	// contentScopes those of the text inside the block.
	nameScopes    []string
	contentScopes []string

	depth int
}

// newRootStack returns the root frame for the given grammar.
func newRootStack(g *Grammar) *StateStack {
	sc := []string{g.ScopeName}
	return &StateStack{rule: g.root, nameScopes: sc, contentScopes: sc, depth: 1}
}

// push returns a new stack with a frame for the given rule on top.
func (st *StateStack) push(r *rule, end string, endRe *regexp2.Regexp, nameScopes, contentScopes []string) *StateStack {
	return &StateStack{
		parent:        st,
		rule:          r,
		end:           end,
		endRe:         endRe,
		nameScopes:    nameScopes,
		contentScopes: contentScopes,
		depth:         st.depth + 1,
	}
}

// pop returns the stack below the top frame. The root frame is never popped.
func (st *StateStack) pop() *StateStack {
	if st.parent == nil {
		return st
	}
	return st.parent
}

// Depth returns the number of frames, including the root frame.
// The [InitialStack] has depth 0.
func (st *StateStack) Depth() int {
	if st == nil {
		return 0
	}
	return st.depth
}

// Scopes returns the scopes that apply to text at the
// current position, outermost first.
func (st *StateStack) Scopes() []string {
	if st == nil {
		return nil
	}
	return slices.Clone(st.contentScopes)
}

// Equal returns whether the two stacks describe the same grammar state:
// the same depth, and pairwise the same rule, resolved end expression and
// scopes. Two stacks that are equal tokenize any following line the same way,
// which is what allows incremental re-tokenization to stop early.
func (st *StateStack) Equal(other *StateStack) bool {
	for st != other {
		if st == nil || other == nil {
			return false
		}
		if st.depth != other.depth || st.rule != other.rule || st.end != other.end {
			return false
		}
		if !slices.Equal(st.contentScopes, other.contentScopes) || !slices.Equal(st.nameScopes, other.nameScopes) {
			return false
		}
		st, other = st.parent, other.parent
	}
	return true
}

// String returns the content scopes of each frame, outermost first.
func (st *StateStack) String() string {
	if st == nil {
		return "<initial>"
	}
	var frames []string
	for s := st; s != nil; s = s.parent {
		frames = append(frames, "["+strings.Join(s.contentScopes, " ")+"]")
	}
	slices.Reverse(frames)
	return strings.Join(frames, " ")
}

// appendScopes returns a new scope list with the given scope names
// added to base. A name may hold several space separated scopes.
// The base list is never modified.
func appendScopes(base []string, names ...string) []string {
	var add []string
	for _, nm := range names {
		add = append(add, strings.Fields(nm)...)
	}
	if len(add) == 0 {
		return base
	}
	return slices.Concat(base, add)
}
