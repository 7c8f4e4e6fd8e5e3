// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package textmate

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// maxStalls is the number of consecutive zero width matches after which
// a line is considered stuck in a grammar loop and the rest of the line
// is emitted with the current scopes.
const maxStalls = 100

// Grammar is a compiled TextMate grammar. A Grammar caches expanded
// pattern lists and end expressions as it is used and is not safe
// for concurrent use.
type Grammar struct {
	// Name is the display name of the grammar.
	Name string

	// ScopeName is the root scope, such as source.go.
	ScopeName string

	// FileTypes are the file extensions the grammar applies to.
	FileTypes []string

	root       *rule
	repository map[string]*rule
	registry   *Registry

	// endCache holds end expressions compiled with back references resolved.
	endCache map[string]*regexp2.Regexp

	// expanded caches the flattened pattern lists of rules.
	expanded map[expandKey][]*rule
}

// expandKey identifies the pattern list of a rule when the grammar
// that started tokenizing is base, which $base includes resolve to.
type expandKey struct {
	rule *rule
	base *Grammar
}

// Token is a span of a line with the scopes that apply to it,
// outermost first. Start and End are rune offsets, End exclusive.
type Token struct {
	Start  int
	End    int
	Scopes []string
}

// LineResult is the result of tokenizing one line.
type LineResult struct {
	// Tokens cover the line in order, without gaps.
	Tokens []Token

	// Stack is the state at the end of the line,
	// to tokenize the next line with.
	Stack *StateStack

	// StoppedEarly is set when the time budget ran out before
	// the end of the line; the remainder of the line is then
	// covered by a single token with the scopes in effect.
	StoppedEarly bool
}

// TokenizeLine tokenizes the given line, which must not contain a line
// break, starting in the given state, which is [InitialStack] for the
// first line. A budget greater than zero bounds the time spent, including
// inside a single match attempt; when it runs out the result is marked
// StoppedEarly.
func (g *Grammar) TokenizeLine(line string, prev *StateStack, budget time.Duration) *LineResult {
	stack := prev
	if stack == nil {
		stack = newRootStack(g)
	}
	src := []rune(line + "\n")
	lt := &lineTokens{lineLen: len(src) - 1}
	res := &LineResult{}
	var deadline time.Time
	if budget > 0 {
		deadline = time.Now().Add(budget)
	}
	pos := 0
	stalls := 0
	for pos < len(src) {
		m, r, isEnd, timedOut := g.scan(stack, src, pos, deadline)
		if timedOut {
			res.StoppedEarly = true
			break
		}
		if m == nil {
			break
		}
		mStart, mEnd := m.Index, m.Index+m.Length
		lt.produce(stack.contentScopes, mStart)
		if !isEnd && r.kind == kindBeginEnd && mEnd == mStart && r == stack.rule {
			// a zero width begin of the block already on top would
			// push the same frame again without consuming anything
			lt.produce(stack.contentScopes, mStart+1)
			pos = mStart + 1
			stalls = 0
			continue
		}
		switch {
		case isEnd:
			lt.captures(stack.nameScopes, m, stack.rule.endCaptures)
			lt.produce(stack.nameScopes, mEnd)
			stack = stack.pop()
		case r.kind == kindBeginEnd:
			nameScopes := appendScopes(stack.contentScopes, r.name)
			lt.captures(nameScopes, m, r.beginCaptures)
			lt.produce(nameScopes, mEnd)
			end, endRe := g.endFor(r, m)
			stack = stack.push(r, end, endRe, nameScopes, appendScopes(nameScopes, r.contentName))
		default:
			scopes := appendScopes(stack.contentScopes, r.name)
			lt.captures(scopes, m, r.captures)
			lt.produce(scopes, mEnd)
		}
		if mEnd > pos {
			pos = mEnd
			stalls = 0
			continue
		}
		stalls++
		if stalls > maxStalls {
			slog.Warn("textmate: grammar does not advance; skipping rest of line", "grammar", g.ScopeName, "pos", pos)
			break
		}
		if !isEnd && r.kind == kindMatch {
			// a zero width match that leaves the stack as is
			// would match again at the same position
			lt.produce(stack.contentScopes, pos+1)
			pos++
		}
	}
	lt.produce(stack.contentScopes, lt.lineLen)
	if len(lt.tokens) == 0 {
		lt.tokens = append(lt.tokens, Token{Start: 0, End: 0, Scopes: stack.contentScopes})
	}
	res.Tokens = lt.tokens
	res.Stack = stack
	return res
}

// scan finds the earliest match at or after pos among the end expression
// of the top block and its patterns. Ties go to the end expression, unless
// the block applies its end pattern last, and then to pattern order.
// A non-zero deadline bounds each match attempt; timedOut reports that it
// passed before or during the scan.
func (g *Grammar) scan(stack *StateStack, src []rune, pos int, deadline time.Time) (best *regexp2.Match, bestRule *rule, bestIsEnd, timedOut bool) {
	try := func(re *regexp2.Regexp, r *rule, isEnd bool) {
		if timedOut {
			return
		}
		re.MatchTimeout = regexp2.DefaultMatchTimeout
		if !deadline.IsZero() {
			left := time.Until(deadline)
			if left <= 0 {
				timedOut = true
				return
			}
			re.MatchTimeout = left
		}
		m, err := re.FindRunesMatchStartingAt(src, pos)
		if err != nil {
			// the only error regexp2 returns while matching is a timeout
			timedOut = true
			return
		}
		if m == nil {
			return
		}
		if best == nil || m.Index < best.Index {
			best, bestRule, bestIsEnd = m, r, isEnd
		}
	}
	top := stack.rule
	hasEnd := top.kind == kindBeginEnd && stack.endRe != nil
	if hasEnd && !top.applyEndPatternLast {
		try(stack.endRe, top, true)
	}
	for _, r := range g.patternsOf(top) {
		try(r.re, r, false)
	}
	if hasEnd && top.applyEndPatternLast {
		try(stack.endRe, top, true)
	}
	return best, bestRule, bestIsEnd, timedOut
}

// patternsOf returns the match and begin / end rules to try inside
// the given rule, with includes and containers flattened in order.
func (g *Grammar) patternsOf(r *rule) []*rule {
	key := expandKey{rule: r, base: g}
	if ps, ok := g.expanded[key]; ok {
		return ps
	}
	var ps []*rule
	seen := map[*rule]bool{}
	for _, p := range r.patterns {
		ps = g.expand(p, ps, seen)
	}
	g.expanded[key] = ps
	return ps
}

// expand appends the executable rules reachable from r to ps.
// Seen guards against include cycles.
func (g *Grammar) expand(r *rule, ps []*rule, seen map[*rule]bool) []*rule {
	if r == nil || seen[r] {
		return ps
	}
	switch r.kind {
	case kindMatch, kindBeginEnd:
		return append(ps, r)
	case kindContainer:
		seen[r] = true
		for _, p := range r.patterns {
			ps = g.expand(p, ps, seen)
		}
		return ps
	}
	seen[r] = true
	target, err := g.resolveInclude(r)
	if err != nil {
		slog.Warn("textmate: unresolved include", "grammar", g.ScopeName, "include", r.include, "err", err)
		return ps
	}
	return g.expand(target, ps, seen)
}

// resolveInclude returns the rule an include refers to.
func (g *Grammar) resolveInclude(r *rule) (*rule, error) {
	inc := r.include
	switch {
	case inc == "$self":
		return r.grammar.root, nil
	case inc == "$base":
		return g.root, nil
	case inc[0] == '#':
		if rr, ok := r.grammar.repository[inc[1:]]; ok {
			return rr, nil
		}
		return nil, fmt.Errorf("repository rule %q not found in %s", inc[1:], r.grammar.ScopeName)
	}
	if r.grammar.registry == nil {
		return nil, fmt.Errorf("no registry to resolve %q", inc)
	}
	scope, name, _ := strings.Cut(inc, "#")
	og, err := r.grammar.registry.Grammar(scope)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return og.root, nil
	}
	if rr, ok := og.repository[name]; ok {
		return rr, nil
	}
	return nil, fmt.Errorf("repository rule %q not found in %s", name, scope)
}

// endFor returns the end expression for a block opened by
// the given begin match, resolving back references.
func (g *Grammar) endFor(r *rule, m *regexp2.Match) (string, *regexp2.Regexp) {
	if r.endRe != nil {
		return r.end, r.endRe
	}
	groups := make([]string, m.GroupCount())
	for i := range groups {
		if gr := m.GroupByNumber(i); gr != nil && len(gr.Captures) > 0 {
			groups[i] = gr.String()
		}
	}
	end := resolveBackrefs(r.end, groups)
	if re, ok := g.endCache[end]; ok {
		return end, re
	}
	re, err := compileRegexp(end, g.ScopeName+" end")
	if err != nil {
		slog.Warn("textmate: end expression", "err", err)
		re = nil
	}
	g.endCache[end] = re
	return end, re
}

// lineTokens accumulates the tokens of a line.
type lineTokens struct {
	tokens  []Token
	lastPos int
	lineLen int
}

// produce covers the line up to endPos with the given scopes,
// extending the previous token if its scopes are the same.
func (lt *lineTokens) produce(scopes []string, endPos int) {
	endPos = min(endPos, lt.lineLen)
	if endPos <= lt.lastPos {
		return
	}
	if n := len(lt.tokens); n > 0 && slices.Equal(lt.tokens[n-1].Scopes, scopes) {
		lt.tokens[n-1].End = endPos
	} else {
		lt.tokens = append(lt.tokens, Token{Start: lt.lastPos, End: endPos, Scopes: scopes})
	}
	lt.lastPos = endPos
}

// captureSpan is a capture group whose scope is still open.
type captureSpan struct {
	scopes []string
	end    int
}

// captures produces the tokens for the named capture groups of m,
// nesting groups that lie inside other groups.
func (lt *lineTokens) captures(base []string, m *regexp2.Match, caps []*capture) {
	if len(caps) == 0 {
		return
	}
	mEnd := m.Index + m.Length
	var open []captureSpan
	closeUntil := func(pos int) {
		for len(open) > 0 && open[len(open)-1].end <= pos {
			top := open[len(open)-1]
			lt.produce(top.scopes, top.end)
			open = open[:len(open)-1]
		}
	}
	for i, c := range caps {
		if c == nil {
			continue
		}
		gr := m.GroupByNumber(i)
		if gr == nil || len(gr.Captures) == 0 || gr.Length == 0 {
			continue
		}
		if gr.Index >= mEnd {
			break
		}
		closeUntil(gr.Index)
		outer := base
		if len(open) > 0 {
			outer = open[len(open)-1].scopes
		}
		lt.produce(outer, gr.Index)
		open = append(open, captureSpan{scopes: appendScopes(outer, c.name), end: min(gr.Index+gr.Length, mEnd)})
	}
	closeUntil(mEnd)
}
