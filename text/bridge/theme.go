// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bridge

import (
	"cogentcore.org/tmbridge/colors"
	"cogentcore.org/tmbridge/text/highlighting"
	"cogentcore.org/tmbridge/text/lines"
)

// ConvertTheme converts an engine theme to the editor's form. It never
// fails: settings without a foreground or scope are skipped.
//
// Pre-resolved theme rules are used as they are. Otherwise each scope of
// each setting with a foreground becomes one rule, in setting order and
// then scope order, which decides which scope a shared color maps back to.
// Colors gain a "#" and are normalized. The result does not inherit from
// the editor's base theme.
func ConvertTheme(th *highlighting.Theme) *HostTheme {
	ht := &HostTheme{
		Base:   lines.BaseDark,
		Colors: make(map[string]string, len(th.Colors)),
	}
	if th.IsLight() {
		ht.Base = lines.BaseLight
	}
	if th.Rules != nil {
		ht.Rules = make([]Rule, len(th.Rules))
		for i, r := range th.Rules {
			ht.Rules[i] = Rule{Token: r.Token, Foreground: r.Foreground}
		}
	} else {
		ht.Rules = []Rule{}
		for _, ts := range th.Settings {
			fg := ts.Settings.Foreground
			if fg == "" {
				continue
			}
			for _, sc := range ts.Scope {
				if sc == "" {
					continue
				}
				ht.Rules = append(ht.Rules, Rule{Token: sc, Foreground: colors.Normalize(fg)})
			}
		}
	}
	for nm, c := range th.Colors {
		ht.Colors[nm] = colors.Marker + colors.Normalize(c)
	}
	return ht
}
