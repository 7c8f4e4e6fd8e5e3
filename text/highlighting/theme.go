// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package highlighting

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"cogentcore.org/tmbridge/base/iox/jsonx"
	"cogentcore.org/tmbridge/base/iox/yamlx"
	"cogentcore.org/tmbridge/text/textmate"
	"gopkg.in/yaml.v3"
)

// Theme is a highlighting theme in the TextMate / VS Code form:
// a list of scope settings plus a table of named UI colors.
// A Theme is not modified once it has been loaded into a [Highlighter].
type Theme struct {
	// Name is the identifier the theme is registered under.
	Name string `json:"name" yaml:"name"`

	// Type is "light" or "dark".
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Colors are named UI colors, such as editor.background.
	Colors map[string]string `json:"colors,omitempty" yaml:"colors,omitempty"`

	// Settings are the token color settings, in order.
	Settings []ThemeSetting `json:"tokenColors,omitempty" yaml:"tokenColors,omitempty"`

	// Rules are pre-resolved token rules. A non-nil Rules slice means the
	// theme already carries the rule list an editor needs, and it is used
	// as is instead of being derived from Settings.
	Rules []Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// ThemeSetting applies one set of style settings to a list of scopes.
// An entry without scopes sets the theme defaults.
type ThemeSetting struct {
	Name     string        `json:"name,omitempty" yaml:"name,omitempty"`
	Scope    Scopes        `json:"scope,omitempty" yaml:"scope,omitempty"`
	Settings StyleSettings `json:"settings" yaml:"settings"`
}

// StyleSettings are the style attributes of a [ThemeSetting].
type StyleSettings struct {
	Foreground string `json:"foreground,omitempty" yaml:"foreground,omitempty"`
	Background string `json:"background,omitempty" yaml:"background,omitempty"`

	// FontStyle is a space separated list of italic, bold,
	// underline and strikethrough.
	FontStyle string `json:"fontStyle,omitempty" yaml:"fontStyle,omitempty"`
}

// Rule is a pre-resolved token rule: a scope and its foreground color.
type Rule struct {
	Token      string `json:"token" yaml:"token"`
	Foreground string `json:"foreground,omitempty" yaml:"foreground,omitempty"`
}

// IsLight returns whether the theme declares itself light.
func (th *Theme) IsLight() bool {
	return strings.EqualFold(th.Type, "light")
}

// Scopes is a list of scope selectors. In theme files it is written
// either as a list, or as one string with comma separated selectors.
type Scopes []string

// ParseScopes splits a comma separated selector string.
func ParseScopes(s string) Scopes {
	var sc Scopes
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			sc = append(sc, p)
		}
	}
	return sc
}

func (sc *Scopes) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*sc = ParseScopes(s)
		return nil
	}
	var l []string
	if err := json.Unmarshal(b, &l); err != nil {
		return fmt.Errorf("highlighting: scope must be a string or a list of strings: %w", err)
	}
	*sc = trimScopes(l)
	return nil
}

func (sc *Scopes) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*sc = ParseScopes(value.Value)
		return nil
	}
	var l []string
	if err := value.Decode(&l); err != nil {
		return fmt.Errorf("highlighting: scope must be a string or a list of strings: %w", err)
	}
	*sc = trimScopes(l)
	return nil
}

func trimScopes(l []string) Scopes {
	sc := make(Scopes, 0, len(l))
	for _, s := range l {
		if s = strings.TrimSpace(s); s != "" {
			sc = append(sc, s)
		}
	}
	return sc
}

// themeName returns the name a theme file is registered under
// when the theme does not name itself.
func themeName(filename string) string {
	nm := filepath.Base(filename)
	if i := strings.IndexByte(nm, '.'); i > 0 {
		nm = nm[:i]
	}
	return nm
}

// OpenTheme opens a theme from the given JSON or YAML file,
// selected by extension.
func OpenTheme(filename string) (*Theme, error) {
	th := &Theme{}
	var err error
	if textmate.IsYAML(filename) {
		err = yamlx.Open(th, filename)
	} else {
		err = jsonx.Open(th, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("highlighting.OpenTheme: %w", err)
	}
	if th.Name == "" {
		th.Name = themeName(filename)
	}
	return th, nil
}

// OpenThemeFS is [OpenTheme] on the given filesystem.
func OpenThemeFS(fsys fs.FS, filename string) (*Theme, error) {
	th := &Theme{}
	var err error
	if textmate.IsYAML(filename) {
		err = yamlx.OpenFS(th, fsys, filename)
	} else {
		err = jsonx.OpenFS(th, fsys, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("highlighting.OpenThemeFS: %w", err)
	}
	if th.Name == "" {
		th.Name = themeName(filename)
	}
	return th, nil
}
