// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package textmate tokenizes lines of text using TextMate grammars.
// Each line is tokenized starting from the [StateStack] left at the
// end of the previous line, so that an editor can re-tokenize a single
// edited line and resume exactly where the grammar left off.
package textmate

import (
	"io/fs"
	"path"
	"strings"

	"cogentcore.org/tmbridge/base/iox/jsonx"
	"cogentcore.org/tmbridge/base/iox/yamlx"
)

// GrammarJSON is a TextMate grammar document as found on disk,
// in JSON or YAML form. It is compiled into a [Grammar] by [Compile].
type GrammarJSON struct {
	Name       string              `json:"name,omitempty" yaml:"name,omitempty"`
	ScopeName  string              `json:"scopeName" yaml:"scopeName"`
	FileTypes  []string            `json:"fileTypes,omitempty" yaml:"fileTypes,omitempty"`
	FirstLine  string              `json:"firstLineMatch,omitempty" yaml:"firstLineMatch,omitempty"`
	Patterns   []RuleJSON          `json:"patterns" yaml:"patterns"`
	Repository map[string]RuleJSON `json:"repository,omitempty" yaml:"repository,omitempty"`
}

// RuleJSON is one raw grammar rule. Capture groups are
// addressed by their decimal group number ("0", "1", ...).
type RuleJSON struct {
	Name                string              `json:"name,omitempty" yaml:"name,omitempty"`
	ContentName         string              `json:"contentName,omitempty" yaml:"contentName,omitempty"`
	Match               string              `json:"match,omitempty" yaml:"match,omitempty"`
	Begin               string              `json:"begin,omitempty" yaml:"begin,omitempty"`
	End                 string              `json:"end,omitempty" yaml:"end,omitempty"`
	Captures            map[string]RuleJSON `json:"captures,omitempty" yaml:"captures,omitempty"`
	BeginCaptures       map[string]RuleJSON `json:"beginCaptures,omitempty" yaml:"beginCaptures,omitempty"`
	EndCaptures         map[string]RuleJSON `json:"endCaptures,omitempty" yaml:"endCaptures,omitempty"`
	Patterns            []RuleJSON          `json:"patterns,omitempty" yaml:"patterns,omitempty"`
	Include             string              `json:"include,omitempty" yaml:"include,omitempty"`
	ApplyEndPatternLast bool                `json:"applyEndPatternLast,omitempty" yaml:"applyEndPatternLast,omitempty"`
}

// IsYAML returns whether the given grammar or theme file name
// denotes YAML rather than JSON content.
func IsYAML(filename string) bool {
	switch strings.ToLower(path.Ext(filename)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// OpenGrammar reads a grammar document from the given file,
// decoding YAML for .yaml / .yml files and JSON otherwise.
func OpenGrammar(filename string) (*GrammarJSON, error) {
	gj := &GrammarJSON{}
	var err error
	if IsYAML(filename) {
		err = yamlx.Open(gj, filename)
	} else {
		err = jsonx.Open(gj, filename)
	}
	if err != nil {
		return nil, err
	}
	return gj, nil
}

// OpenGrammarFS is [OpenGrammar] on the given filesystem.
func OpenGrammarFS(fsys fs.FS, filename string) (*GrammarJSON, error) {
	gj := &GrammarJSON{}
	var err error
	if IsYAML(filename) {
		err = yamlx.OpenFS(gj, fsys, filename)
	} else {
		err = jsonx.OpenFS(gj, fsys, filename)
	}
	if err != nil {
		return nil, err
	}
	return gj, nil
}
