// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package textmate

import (
	"fmt"
	"io/fs"
	"strings"

	"cogentcore.org/tmbridge/base/errors"
	"cogentcore.org/tmbridge/base/keylist"
	"cogentcore.org/tmbridge/base/suggest"
)

// ErrGrammarNotFound is returned for a scope name no grammar is registered for.
var ErrGrammarNotFound = errors.New("grammar not found")

// Registry holds compiled grammars by scope name, and resolves
// includes of one grammar from another.
type Registry struct {
	grammars keylist.List[string, *Grammar]
}

// NewRegistry returns a new empty [Registry].
func NewRegistry() *Registry {
	return &Registry{}
}

// Add compiles the given grammar document and registers it under
// its scope name, replacing any grammar with the same scope name.
func (rg *Registry) Add(gj *GrammarJSON) (*Grammar, error) {
	g, err := Compile(gj, rg)
	if err != nil {
		return nil, err
	}
	rg.grammars.Set(g.ScopeName, g)
	return g, nil
}

// Open loads, compiles and registers the grammar in the given file.
func (rg *Registry) Open(filename string) (*Grammar, error) {
	gj, err := OpenGrammar(filename)
	if err != nil {
		return nil, fmt.Errorf("textmate.Registry.Open: %w", err)
	}
	return rg.Add(gj)
}

// OpenFS loads, compiles and registers the grammar in the given file of fsys.
func (rg *Registry) OpenFS(fsys fs.FS, filename string) (*Grammar, error) {
	gj, err := OpenGrammarFS(fsys, filename)
	if err != nil {
		return nil, fmt.Errorf("textmate.Registry.OpenFS: %w", err)
	}
	return rg.Add(gj)
}

// Grammar returns the grammar registered under the given scope name.
func (rg *Registry) Grammar(scopeName string) (*Grammar, error) {
	if g, ok := rg.grammars.AtTry(scopeName); ok {
		return g, nil
	}
	return nil, fmt.Errorf("textmate: %w: %q%s", ErrGrammarNotFound, scopeName, suggest.DidYouMean(scopeName, rg.grammars.Keys))
}

// ScopeNames returns the scope names of all grammars, in the order added.
func (rg *Registry) ScopeNames() []string {
	return append([]string(nil), rg.grammars.Keys...)
}

// String returns a summary of the registered grammars.
func (rg *Registry) String() string {
	return "textmate.Registry[" + strings.Join(rg.grammars.Keys, ", ") + "]"
}
