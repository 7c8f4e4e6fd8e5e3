// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLanguagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the languages and whether the editor tokenizes them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, lang := range a.rg.Languages() {
				state := "plain"
				if _, ok := a.rg.TokensProvider(lang); ok {
					state = "tokenized"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", lang, state)
			}
			return nil
		},
	}
}
