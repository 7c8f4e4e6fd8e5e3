// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package suggest finds the closest known name to an unknown one,
// for "did you mean" hints in not-found errors.
package suggest

import (
	"fmt"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// MinSimilarity is the similarity, in the range [0, 1], below which
// a candidate is not considered close enough to suggest.
var MinSimilarity = 0.5

// Closest returns the candidate most similar to name under
// case-insensitive Levenshtein similarity, and false if no
// candidate reaches [MinSimilarity].
func Closest(name string, candidates []string) (string, bool) {
	lev := metrics.NewLevenshtein()
	lev.CaseSensitive = false
	best := ""
	bestSim := 0.0
	for _, c := range candidates {
		sim := strutil.Similarity(name, c, lev)
		if sim > bestSim {
			best, bestSim = c, sim
		}
	}
	if bestSim < MinSimilarity {
		return "", false
	}
	return best, true
}

// DidYouMean returns a "; did you mean ...?" suffix naming the
// [Closest] candidate, or "" if there is none.
func DidYouMean(name string, candidates []string) string {
	c, ok := Closest(name, candidates)
	if !ok {
		return ""
	}
	return fmt.Sprintf("; did you mean %q?", c)
}
