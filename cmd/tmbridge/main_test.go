// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cogentcore.org/tmbridge/text/lines"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the command with the given arguments in a new
// directory, returning its stdout and stderr.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Chdir(t.TempDir())
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"-q"}, args...))
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	out, _, err := execute(t, args...)
	require.NoError(t, err)
	return out
}

func TestTokenizeJSON(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(fn, []byte("// hi\nfunc main() {}"), 0o666))
	out := run(t, "tokenize", "--json", fn)
	var got []lineJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, []tokenJSON{{Start: 0, Scope: "comment", Text: "// hi"}}, got[0].Tokens)
	assert.Equal(t, tokenJSON{Start: 0, Scope: "constant.language", Text: "func"}, got[1].Tokens[0])
}

func TestTokenizeText(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "x.json")
	require.NoError(t, os.WriteFile(fn, []byte(`{"a": 1}`), 0o666))
	out := run(t, "tokenize", "--theme", "light-plus", fn)
	assert.Contains(t, out, `"{"`)
	assert.Contains(t, out, "   1:0")
}

func TestTokenizeUnknownTheme(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(fn, []byte("// hi"), 0o666))
	out, _, err := execute(t, "tokenize", "--theme", "light-plu", fn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown theme "light-plu"`)
	assert.Contains(t, err.Error(), `did you mean "light-plus"?`)
	assert.Empty(t, out)
}

func TestTokenizeMetrics(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(fn, []byte("// hi\nfunc main() {}"), 0o666))
	out, errOut, err := execute(t, "tokenize", "--metrics", fn)
	require.NoError(t, err)
	assert.Contains(t, out, "comment")
	assert.Contains(t, errOut, "# TYPE tmbridge_tokenized_lines_total counter")
	assert.Contains(t, errOut, `tmbridge_tokenized_lines_total{language="go"}`)
	assert.Contains(t, errOut, "tmbridge_tokenize_seconds_count")
	assert.NotContains(t, errOut, "go_goroutines")
}

func TestWriteMetrics(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, writeMetrics(&b))
	for _, line := range strings.Split(strings.TrimSpace(b.String()), "\n") {
		name := strings.TrimPrefix(strings.TrimPrefix(line, "# HELP "), "# TYPE ")
		assert.True(t, strings.HasPrefix(name, metricsPrefix), line)
	}
}

func TestServeMetrics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serveMetrics(ctx, "127.0.0.1:0") }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serveMetrics did not return after cancel")
	}
}

func TestThemes(t *testing.T) {
	out := run(t, "themes", "list")
	assert.Contains(t, out, "* dark-plus")
	assert.Contains(t, out, "  light-plus")

	out = run(t, "themes", "show", "light-plus", "--format", "yaml")
	assert.Contains(t, out, "base: vs\n")
	assert.Contains(t, out, "token: comment")
}

func TestLanguages(t *testing.T) {
	out := run(t, "languages")
	assert.Contains(t, out, "go               tokenized")
	assert.Contains(t, out, "json             tokenized")
}

func TestSegments(t *testing.T) {
	toks := []lines.Token{{StartIndex: 0}, {StartIndex: 2}, {StartIndex: 9}}
	assert.Equal(t, []string{"éa", "bc", ""}, segments("éabc", toks))
}

func TestApplyText(t *testing.T) {
	rg := lines.NewRegistry("txt")
	ls := lines.NewLines(rg, "txt").SetText("a\nb\nc")
	var ranges [][2]int
	ls.OnRetokenize(func(st, ed int) { ranges = append(ranges, [2]int{st, ed}) })
	applyText(ls, "a\nx\nc")
	assert.Equal(t, [][2]int{{1, 3}}, ranges)
	applyText(ls, "a\r\nx")
	assert.Equal(t, []string{"a", "x"}, ls.Strings())
}
