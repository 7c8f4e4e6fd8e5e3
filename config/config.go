// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration of the tmbridge tool,
// which is read from a TOML file.
package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"cogentcore.org/tmbridge/base/errors"
	"cogentcore.org/tmbridge/base/iox/tomlx"
	"cogentcore.org/tmbridge/text/bridge"
	"cogentcore.org/tmbridge/text/highlighting"
)

// Filename is the name of the configuration file that is looked
// for in the current directory when no file is given.
const Filename = "tmbridge.toml"

// Config is the configuration of the tmbridge tool.
type Config struct {

	// Theme is the theme that is active initially.
	Theme string `toml:"theme"`

	// MaxLineLength is the line length, in runes,
	// from which lines are not tokenized.
	MaxLineLength int `toml:"max_line_length"`

	// TimeBudget is the time allowed for tokenizing one line.
	TimeBudget Duration `toml:"time_budget"`

	// ThemePaths are theme files, or directories of them,
	// loaded after the embedded default themes.
	ThemePaths []string `toml:"theme_paths,omitempty"`

	// GrammarPaths are grammar files, or directories of them,
	// loaded after the embedded default grammars.
	GrammarPaths []string `toml:"grammar_paths,omitempty"`

	// ChromaThemes are the names of chroma styles to load as themes.
	ChromaThemes []string `toml:"chroma_themes,omitempty"`

	// Color is whether to color terminal output.
	Color bool `toml:"color"`
}

// Duration is a [time.Duration] written as a duration string, such as "500ms".
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Theme:         highlighting.DefaultTheme,
		MaxLineLength: bridge.MaxLineLength,
		TimeBudget:    Duration(bridge.TimeBudget),
		Color:         true,
	}
}

// Open returns the configuration in the given file, on top of the
// [Defaults]. If filename is empty, [Filename] is used when it exists
// in the current directory, and the defaults otherwise.
func Open(filename string) (*Config, error) {
	c := Defaults()
	if filename == "" {
		if _, err := os.Stat(Filename); err != nil {
			return c, nil
		}
		filename = Filename
	}
	if err := tomlx.Open(c, filename); err != nil {
		return nil, fmt.Errorf("config.Open: %w", err)
	}
	return c, nil
}

// Save saves the configuration to the given file.
func (c *Config) Save(filename string) error {
	return tomlx.Save(c, filename)
}

// Options returns the bridge options of the configuration.
func (c *Config) Options() []bridge.Option {
	return []bridge.Option{
		bridge.WithDefaultTheme(c.Theme),
		bridge.WithMaxLineLength(c.MaxLineLength),
		bridge.WithTimeBudget(time.Duration(c.TimeBudget)),
	}
}

// Load loads into the given highlighter the embedded defaults, then
// the themes and grammars on the configured paths, then the configured
// chroma styles. Errors are collected and everything else still loads.
func (c *Config) Load(hi *highlighting.Highlighter) error {
	errs := []error{hi.LoadDefaults()}
	ths, err := expand(c.ThemePaths)
	errs = append(errs, err, hi.LoadThemeFiles(ths...))
	gms, err := expand(c.GrammarPaths)
	errs = append(errs, err, hi.LoadGrammarFiles(gms...))
	for _, nm := range c.ChromaThemes {
		th, err := highlighting.ChromaTheme(nm)
		if err == nil {
			err = hi.LoadTheme(th)
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// expand replaces each directory in paths with the JSON
// and YAML files in it, in lexical order.
func expand(paths []string) ([]string, error) {
	var files []string
	var errs []error
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p {
					return filepath.SkipDir
				}
				return nil
			}
			switch filepath.Ext(path) {
			case ".json", ".yaml", ".yml":
				files = append(files, path)
			}
			return nil
		})
		errs = append(errs, err)
	}
	return files, errors.Join(errs...)
}
