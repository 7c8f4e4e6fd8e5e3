// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lines

// OnRetokenize adds a listener that is called with the range of lines
// [st, ed) whose tokens were just updated, so views can redraw them.
func (ls *Lines) OnRetokenize(fun func(st, ed int)) {
	ls.listeners = append(ls.listeners, fun)
}

// sendRetokenize calls the retokenize listeners.
func (ls *Lines) sendRetokenize(st, ed int) {
	if st >= ed {
		return
	}
	for _, fun := range ls.listeners {
		fun(st, ed)
	}
}
