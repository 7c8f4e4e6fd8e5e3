// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"cogentcore.org/tmbridge/base/errors"
	"cogentcore.org/tmbridge/config"
	"cogentcore.org/tmbridge/logx"
	"cogentcore.org/tmbridge/text/bridge"
	"cogentcore.org/tmbridge/text/highlighting"
	"cogentcore.org/tmbridge/text/lines"
	"github.com/spf13/cobra"
)

// app is the state shared by the commands.
type app struct {
	cfgFile string
	verbose bool
	quiet   bool

	cfg *config.Config
	hi  *highlighting.Highlighter
	rg  *lines.Registry
	br  *bridge.Bridge
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "tmbridge",
		Short:         "Tokenize files through the TextMate to editor bridge",
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logx.UserLevel = logx.LevelFromFlags(false, a.verbose, a.quiet)
			logx.SetDefaultLogger()
			return a.setup()
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default: ./"+config.Filename+" if present)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log more")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "log only errors")
	root.AddCommand(newTokenizeCmd(a), newThemesCmd(a), newLanguagesCmd(a))
	return root
}

// setup loads the configuration and the highlighter, and registers
// the highlighter with a new editor registry through a bridge.
// Load errors are logged, and whatever did load is used.
func (a *app) setup() error {
	cfg, err := config.Open(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.hi = highlighting.New()
	errors.Log(cfg.Load(a.hi))
	a.rg = lines.NewRegistry(a.hi.LoadedLanguages()...)
	a.br = bridge.New(a.hi, a.rg, cfg.Options()...)
	a.br.Register()
	return nil
}
