// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"cogentcore.org/tmbridge/base/errors"
	"cogentcore.org/tmbridge/base/iox/jsonx"
	"cogentcore.org/tmbridge/base/suggest"
	"cogentcore.org/tmbridge/colors"
	"cogentcore.org/tmbridge/text/lines"
	"github.com/fsnotify/fsnotify"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

type tokenizeFlags struct {
	lang        string
	theme       string
	watch       bool
	json        bool
	metrics     bool
	metricsAddr string
}

func newTokenizeCmd(a *app) *cobra.Command {
	f := &tokenizeFlags{}
	cmd := &cobra.Command{
		Use:   "tokenize FILE",
		Short: "Print the tokens an editor gets for each line of a file",
		Long: `Print the tokens an editor gets for each line of a file: the rune
offset where each token starts and its single scope, colored with the
foreground the editor theme gives that scope.

With --watch, the file is watched and the lines that are tokenized again
after each change are printed, until interrupted. --metrics-addr then
serves the tokenizer metrics over HTTP while watching, and --metrics
prints them to stderr when done.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.tokenize(cmd, args[0], f)
		},
	}
	cmd.Flags().StringVarP(&f.lang, "lang", "l", "", "language (default: detected from the file name)")
	cmd.Flags().StringVarP(&f.theme, "theme", "t", "", "theme (default: from the config)")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "watch the file and print changed lines")
	cmd.Flags().BoolVar(&f.json, "json", false, "print JSON")
	cmd.Flags().BoolVar(&f.metrics, "metrics", false, "print the tokenizer metrics to stderr when done")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "serve the tokenizer metrics at /metrics on this address while watching")
	return cmd
}

func (a *app) tokenize(cmd *cobra.Command, filename string, f *tokenizeFlags) error {
	text, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	lang := f.lang
	if lang == "" {
		var ok bool
		lang, ok = a.hi.DetectLanguage(filename)
		if !ok {
			return fmt.Errorf("no language for %q: use --lang", filename)
		}
	}
	theme := f.theme
	if theme == "" {
		theme = a.br.ActiveTheme()
	}
	if _, ok := a.rg.Theme(theme); !ok {
		return fmt.Errorf("unknown theme %q%s", theme, suggest.DidYouMean(theme, a.rg.Themes()))
	}
	a.br.SetTheme(theme)
	if f.metrics {
		defer func() { errors.Log(writeMetrics(cmd.ErrOrStderr())) }()
	}

	ls := lines.NewLines(a.rg, lang).SetText(string(text))
	defer ls.Close()
	p := a.newPrinter(cmd.OutOrStdout(), theme)
	if f.json {
		return p.json(ls, 0, ls.NumLines())
	}
	p.lines(ls, 0, ls.NumLines())
	if !f.watch {
		return nil
	}
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()
	if f.metricsAddr != "" {
		go func() { errors.Log(serveMetrics(ctx, f.metricsAddr)) }()
	}
	ls.OnRetokenize(func(st, ed int) {
		fmt.Fprintf(p.w, "-- lines %d-%d\n", st+1, ed)
		p.lines(ls, st, ed)
	})
	return watch(ctx, filename, ls)
}

// watch applies each change of the file to the document,
// until the context is done.
func watch(ctx context.Context, filename string, ls *lines.Lines) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	// the directory, since editors replace files on save
	if err := fw.Add(filepath.Dir(filename)); err != nil {
		return err
	}
	target := filepath.Clean(filename)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			text, err := os.ReadFile(filename)
			if err != nil {
				slog.Warn("tmbridge: reading changed file", "file", filename, "err", err)
				continue
			}
			applyText(ls, string(text))
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("tmbridge: watching", "file", filename, "err", err)
		}
	}
}

// applyText updates the document to the given text, changing only
// the lines that differ when the number of lines is the same.
func applyText(ls *lines.Lines, text string) {
	nl := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(nl) != ls.NumLines() {
		ls.SetText(text)
		return
	}
	for ln, s := range nl {
		if ls.Line(ln) != s {
			ls.SetLine(ln, s)
		}
	}
}

// printer prints tokens colored by an editor theme.
type printer struct {
	w     io.Writer
	out   *termenv.Output
	theme *lines.Theme
}

func (a *app) newPrinter(w io.Writer, theme string) *printer {
	p := &printer{w: w}
	if a.cfg.Color {
		p.out = termenv.NewOutput(w)
	} else {
		p.out = termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	}
	p.theme, _ = a.rg.Theme(theme)
	return p
}

// segments returns the text of each token of the line.
func segments(line string, toks []lines.Token) []string {
	rs := []rune(line)
	seg := make([]string, len(toks))
	for i, tok := range toks {
		st := min(tok.StartIndex, len(rs))
		ed := len(rs)
		if i+1 < len(toks) {
			ed = min(toks[i+1].StartIndex, len(rs))
		}
		seg[i] = string(rs[st:max(st, ed)])
	}
	return seg
}

func (p *printer) style(scope, text string) string {
	s := p.out.String(text)
	if p.theme != nil {
		if c, err := colors.FromHex(p.theme.Foreground(scope)); err == nil {
			s = s.Foreground(p.out.FromColor(c))
		}
	}
	return s.String()
}

// lines prints the tokens of lines [st, ed), one per line.
func (p *printer) lines(ls *lines.Lines, st, ed int) {
	for ln := st; ln < ed; ln++ {
		toks := ls.Tokens(ln)
		for i, seg := range segments(ls.Line(ln), toks) {
			scope := toks[i].Scopes
			if scope == "" {
				scope = "-"
			}
			fmt.Fprintf(p.w, "%4d:%-4d %-32s %s\n", ln+1, toks[i].StartIndex, scope, p.style(toks[i].Scopes, fmt.Sprintf("%q", seg)))
		}
	}
}

type lineJSON struct {
	Line   int         `json:"line"`
	Tokens []tokenJSON `json:"tokens"`
}

type tokenJSON struct {
	Start int    `json:"start"`
	Scope string `json:"scope"`
	Text  string `json:"text"`
}

// json prints the tokens of lines [st, ed) as JSON.
func (p *printer) json(ls *lines.Lines, st, ed int) error {
	out := make([]lineJSON, 0, ed-st)
	for ln := st; ln < ed; ln++ {
		toks := ls.Tokens(ln)
		lj := lineJSON{Line: ln + 1, Tokens: make([]tokenJSON, len(toks))}
		for i, seg := range segments(ls.Line(ln), toks) {
			lj.Tokens[i] = tokenJSON{Start: toks[i].StartIndex, Scope: toks[i].Scopes, Text: seg}
		}
		out = append(out, lj)
	}
	return jsonx.Write(out, p.w)
}
