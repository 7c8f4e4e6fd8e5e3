// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bridge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	TokenizedLines = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tmbridge_tokenized_lines_total",
		Help: "Total number of lines tokenized through the grammar.",
	}, []string{"language"})

	StoppedEarly = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tmbridge_stopped_early_total",
		Help: "Total number of lines whose tokenization ran out of time.",
	}, []string{"language"})

	LongLines = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tmbridge_long_lines_total",
		Help: "Total number of lines skipped for being too long.",
	}, []string{"language"})

	UnresolvedTokens = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tmbridge_unresolved_tokens_total",
		Help: "Total number of tokens whose color maps to no scope.",
	}, []string{"language"})

	TokenizeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tmbridge_tokenize_seconds",
		Help:    "Time spent tokenizing one line.",
		Buckets: prometheus.DefBuckets,
	})
)
