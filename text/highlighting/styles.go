// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package highlighting

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"

	"cogentcore.org/tmbridge/base/errors"
	"cogentcore.org/tmbridge/text/textmate"
)

// DefaultTheme is the name of the default theme.
var DefaultTheme = "dark-plus"

//go:embed defaults
var defaults embed.FS

// DefaultThemes returns the embedded default themes.
func DefaultThemes() ([]*Theme, error) {
	fns, err := fs.Glob(defaults, "defaults/themes/*")
	if err != nil {
		return nil, err
	}
	var ths []*Theme
	for _, fn := range fns {
		th, err := OpenThemeFS(defaults, fn)
		if err != nil {
			return nil, err
		}
		ths = append(ths, th)
	}
	return ths, nil
}

// DefaultGrammars returns the embedded default grammars.
func DefaultGrammars() ([]*textmate.GrammarJSON, error) {
	fns, err := fs.Glob(defaults, "defaults/grammars/*")
	if err != nil {
		return nil, err
	}
	var gjs []*textmate.GrammarJSON
	for _, fn := range fns {
		gj, err := textmate.OpenGrammarFS(defaults, fn)
		if err != nil {
			return nil, err
		}
		gjs = append(gjs, gj)
	}
	return gjs, nil
}

// LoadDefaults loads the embedded default themes and the languages
// of the embedded default grammars.
func (hi *Highlighter) LoadDefaults() error {
	ths, err := DefaultThemes()
	if err != nil {
		return fmt.Errorf("highlighting.LoadDefaults: %w", err)
	}
	var errs []error
	for _, th := range ths {
		if err := hi.LoadTheme(th); err != nil {
			errs = append(errs, err)
		}
	}
	gjs, err := DefaultGrammars()
	if err != nil {
		return fmt.Errorf("highlighting.LoadDefaults: %w", err)
	}
	for _, gj := range gjs {
		if err := hi.LoadLanguage(LanguageFromGrammar(gj)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadThemeFiles loads the themes in the given files.
// Errors are collected and the remaining files still load.
func (hi *Highlighter) LoadThemeFiles(filenames ...string) error {
	var errs []error
	for _, fn := range filenames {
		th, err := OpenTheme(fn)
		if err == nil {
			err = hi.LoadTheme(th)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadGrammarFiles loads a language for each of the given grammar files.
// Errors are collected and the remaining files still load.
func (hi *Highlighter) LoadGrammarFiles(filenames ...string) error {
	var errs []error
	for _, fn := range filenames {
		gj, err := textmate.OpenGrammar(fn)
		if err == nil {
			err = hi.LoadLanguage(LanguageFromGrammar(gj))
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(fn), err))
		}
	}
	return errors.Join(errs...)
}
