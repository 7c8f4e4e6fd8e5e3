// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bridge

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"cogentcore.org/tmbridge/base/errors"
	"github.com/jinzhu/copier"
)

// Options are the options of a [Bridge].
type Options struct {
	// DefaultTheme is the initially active theme. If it is empty,
	// the first theme the engine has loaded is active.
	DefaultTheme string

	// MaxLineLength is the line length, in runes, from which lines
	// are not tokenized. It defaults to [MaxLineLength].
	MaxLineLength int

	// TimeBudget is the time allowed for tokenizing one line.
	// It defaults to [TimeBudget].
	TimeBudget time.Duration
}

// Option sets an option of a [Bridge].
type Option func(o *Options)

// WithDefaultTheme sets [Options.DefaultTheme].
func WithDefaultTheme(id string) Option {
	return func(o *Options) { o.DefaultTheme = id }
}

// WithMaxLineLength sets [Options.MaxLineLength]; values <= 0 are ignored.
func WithMaxLineLength(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxLineLength = n
		}
	}
}

// WithTimeBudget sets [Options.TimeBudget]; values <= 0 are ignored.
func WithTimeBudget(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.TimeBudget = d
		}
	}
}

// Bridge registers the themes and languages of an [Engine] with a [Host]
// and tokenizes lines for the host. Host themes are converted once and
// cached by id, as are the scope indexes built from them.
type Bridge struct {
	engine Engine
	host   Host
	opts   Options
	active *ActiveTheme

	hostThemes map[string]*HostTheme
	indexes    map[string]*ScopeIndex
	tokenizers map[string]*Tokenizer
}

// New returns a new bridge between the given engine and host.
func New(engine Engine, host Host, opts ...Option) *Bridge {
	br := &Bridge{
		engine:     engine,
		host:       host,
		opts:       Options{MaxLineLength: MaxLineLength, TimeBudget: TimeBudget},
		hostThemes: map[string]*HostTheme{},
		indexes:    map[string]*ScopeIndex{},
		tokenizers: map[string]*Tokenizer{},
	}
	for _, o := range opts {
		o(&br.opts)
	}
	br.active = &ActiveTheme{host: host, id: br.opts.DefaultTheme}
	if br.active.id == "" {
		if ths := engine.LoadedThemes(); len(ths) > 0 {
			br.active.id = ths[0]
		}
	}
	return br
}

// Options returns the options in effect.
func (br *Bridge) Options() Options {
	return br.opts
}

// Register defines every engine theme in the host, and sets a
// [Tokenizer] as the tokens provider of every engine language the
// host knows. Languages unknown to the host are skipped.
func (br *Bridge) Register() {
	for _, id := range br.engine.LoadedThemes() {
		ht, err := br.hostTheme(id)
		if err != nil {
			errors.Log(err)
			continue
		}
		br.host.DefineTheme(id, ht)
	}
	known := br.host.Languages()
	for _, lang := range br.engine.LoadedLanguages() {
		if !slices.Contains(known, lang) {
			slog.Debug("bridge: language not known to host", "language", lang)
			continue
		}
		br.host.SetTokensProvider(lang, br.Tokenizer(lang))
	}
}

// Tokenizer returns the tokenizer of the given language.
func (br *Bridge) Tokenizer(lang string) *Tokenizer {
	tk, ok := br.tokenizers[lang]
	if !ok {
		tk = &Tokenizer{lang: lang, br: br}
		br.tokenizers[lang] = tk
	}
	return tk
}

// SetTheme selects the given theme in the host and makes it the theme
// that lines are tokenized for from now on.
func (br *Bridge) SetTheme(id string) {
	br.active.SetTheme(id)
}

// ActiveTheme returns the id of the active theme.
func (br *Bridge) ActiveTheme() string {
	return br.active.Current()
}

// HostTheme returns a copy of the host theme converted for the given
// engine theme id, converting it if needed.
func (br *Bridge) HostTheme(id string) (*HostTheme, error) {
	ht, err := br.hostTheme(id)
	if err != nil {
		return nil, err
	}
	cp := &HostTheme{}
	if err := copier.CopyWithOption(cp, ht, copier.Option{CaseSensitive: true, DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("bridge.HostTheme %q: %w", id, err)
	}
	return cp, nil
}

// hostTheme returns the cached host theme for the given id.
func (br *Bridge) hostTheme(id string) (*HostTheme, error) {
	if ht, ok := br.hostThemes[id]; ok {
		return ht, nil
	}
	th, err := br.engine.Theme(id)
	if err != nil {
		return nil, err
	}
	ht := ConvertTheme(th)
	br.hostThemes[id] = ht
	return ht, nil
}

// scopeIndex returns the scope index of the given theme,
// building it on first use.
func (br *Bridge) scopeIndex(id string) (*ScopeIndex, error) {
	if si, ok := br.indexes[id]; ok {
		return si, nil
	}
	ht, err := br.hostTheme(id)
	if err != nil {
		return nil, err
	}
	si := NewScopeIndex(ht.Rules)
	br.indexes[id] = si
	return si, nil
}
