// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"cogentcore.org/tmbridge/base/iox/jsonx"
	"cogentcore.org/tmbridge/base/iox/yamlx"
	"github.com/spf13/cobra"
)

func newThemesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "themes",
		Short: "List and show the themes converted for the editor",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List the themes, marking the active one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range a.hi.LoadedThemes() {
				mark := " "
				if id == a.br.ActiveTheme() {
					mark = "*"
				}
				ht, err := a.br.HostTheme(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-20s %-8s %d rules\n", mark, id, ht.Base, len(ht.Rules))
			}
			return nil
		},
	}
	var format string
	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show a theme in the editor's form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ht, err := a.br.HostTheme(args[0])
			if err != nil {
				return err
			}
			switch format {
			case "json":
				return jsonx.Write(ht, cmd.OutOrStdout())
			case "yaml":
				return yamlx.Write(ht, cmd.OutOrStdout())
			}
			return fmt.Errorf("unknown format %q: must be json or yaml", format)
		},
	}
	show.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	cmd.AddCommand(list, show)
	return cmd
}
