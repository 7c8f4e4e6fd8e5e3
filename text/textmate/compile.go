// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package textmate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

// ruleKind is the kind of a compiled rule.
type ruleKind int

const (
	// kindContainer only groups patterns.
	kindContainer ruleKind = iota

	// kindMatch matches a single regular expression.
	kindMatch

	// kindBeginEnd opens a block on begin that is closed by end.
	kindBeginEnd

	// kindInclude refers to another rule, resolved when scanning.
	kindInclude
)

// rule is an executable grammar rule.
type rule struct {
	kind        ruleKind
	name        string
	contentName string

	// re is the match or begin expression.
	re *regexp2.Regexp

	// end is the raw end expression, which may hold back references
	// into the begin match.
	end string

	// endRe is the compiled end expression when it has no back references.
	endRe *regexp2.Regexp

	applyEndPatternLast bool

	// captures are indexed by group number, nil where unnamed.
	captures      []*capture
	beginCaptures []*capture
	endCaptures   []*capture

	patterns []*rule
	include  string

	// grammar is the grammar the rule was defined in, which
	// resolves $self and #name includes.
	grammar *Grammar
}

// capture names the scope of one capture group.
type capture struct {
	name string
}

// backrefRe finds back references such as \1 in end expressions.
var backrefRe = regexp2.MustCompile(`\\(\d+)`, regexp2.None)

// Compile compiles the given grammar document into a [Grammar].
// The registry, which may be nil, resolves includes of other grammars
// by scope name. Compile fails on any expression that does not compile,
// naming the rule path in the error.
func Compile(gj *GrammarJSON, reg *Registry) (*Grammar, error) {
	if gj.ScopeName == "" {
		return nil, fmt.Errorf("textmate.Compile: grammar %q has no scopeName", gj.Name)
	}
	g := &Grammar{
		Name:       gj.Name,
		ScopeName:  gj.ScopeName,
		FileTypes:  gj.FileTypes,
		registry:   reg,
		repository: make(map[string]*rule, len(gj.Repository)),
		endCache:   make(map[string]*regexp2.Regexp),
		expanded:   make(map[expandKey][]*rule),
	}
	if g.Name == "" {
		g.Name = strings.TrimPrefix(gj.ScopeName, "source.")
	}
	root, err := g.compileRule(RuleJSON{Patterns: gj.Patterns}, gj.ScopeName)
	if err != nil {
		return nil, err
	}
	g.root = root
	for nm, rj := range gj.Repository {
		r, err := g.compileRule(rj, gj.ScopeName+"#"+nm)
		if err != nil {
			return nil, err
		}
		g.repository[nm] = r
	}
	return g, nil
}

// compileRegexp compiles the given TextMate expression, returning
// an error that names the rule path on failure.
func compileRegexp(expr, where string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(expr, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("textmate.Compile: %s: %w", where, err)
	}
	return re, nil
}

// compileCaptures converts string-indexed captures to a slice
// sized 0..max, leaving missing indices as nil.
func compileCaptures(cj map[string]RuleJSON, where string) ([]*capture, error) {
	if len(cj) == 0 {
		return nil, nil
	}
	mx := 0
	for num := range cj {
		i, err := strconv.Atoi(num)
		if err != nil || i < 0 {
			return nil, fmt.Errorf("textmate.Compile: %s: invalid capture group %q", where, num)
		}
		mx = max(mx, i)
	}
	caps := make([]*capture, mx+1)
	for num, c := range cj {
		i, _ := strconv.Atoi(num)
		if c.Name != "" {
			caps[i] = &capture{name: c.Name}
		}
	}
	return caps, nil
}

// compileRule compiles one rule, in TextMate order of precedence:
// include, match, begin / end, and otherwise a container of patterns.
func (g *Grammar) compileRule(rj RuleJSON, where string) (*rule, error) {
	r := &rule{name: rj.Name, contentName: rj.ContentName, grammar: g}
	var err error
	switch {
	case rj.Include != "":
		r.kind = kindInclude
		r.include = rj.Include
		return r, nil
	case rj.Match != "":
		r.kind = kindMatch
		if r.re, err = compileRegexp(rj.Match, where+" match"); err != nil {
			return nil, err
		}
		if r.captures, err = compileCaptures(rj.Captures, where); err != nil {
			return nil, err
		}
		return r, nil
	case rj.Begin != "" && rj.End != "":
		r.kind = kindBeginEnd
		r.applyEndPatternLast = rj.ApplyEndPatternLast
		if r.re, err = compileRegexp(rj.Begin, where+" begin"); err != nil {
			return nil, err
		}
		r.end = rj.End
		if hasBackrefs(rj.End) {
			// validate with empty back references; the real
			// expression is compiled when the block is entered
			if _, err = compileRegexp(resolveBackrefs(rj.End, nil), where+" end"); err != nil {
				return nil, err
			}
		} else if r.endRe, err = compileRegexp(rj.End, where+" end"); err != nil {
			return nil, err
		}
		bc, ec := rj.BeginCaptures, rj.EndCaptures
		if len(rj.Captures) > 0 {
			bc, ec = rj.Captures, rj.Captures
		}
		if r.beginCaptures, err = compileCaptures(bc, where); err != nil {
			return nil, err
		}
		if r.endCaptures, err = compileCaptures(ec, where); err != nil {
			return nil, err
		}
	case rj.Begin != "" || rj.End != "":
		return nil, fmt.Errorf("textmate.Compile: %s: rule with begin or end omitted", where)
	default:
		r.kind = kindContainer
	}
	r.patterns = make([]*rule, len(rj.Patterns))
	for i, pj := range rj.Patterns {
		if r.patterns[i], err = g.compileRule(pj, where+"/"+strconv.Itoa(i)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// hasBackrefs returns whether the given end expression refers back
// to groups of the begin match.
func hasBackrefs(expr string) bool {
	ok, _ := backrefRe.MatchString(expr)
	return ok
}

// resolveBackrefs replaces back references in the given end expression
// with the escaped text of the corresponding begin match groups.
// Groups that did not participate resolve to the empty string.
func resolveBackrefs(expr string, groups []string) string {
	res, err := backrefRe.ReplaceFunc(expr, func(m regexp2.Match) string {
		i, _ := strconv.Atoi(m.GroupByNumber(1).String())
		if i < len(groups) {
			return regexp2.Escape(groups[i])
		}
		return ""
	}, -1, -1)
	if err != nil {
		return expr
	}
	return res
}
