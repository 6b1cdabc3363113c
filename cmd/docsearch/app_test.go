// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ianlewis/go-docsearch/internal/testutil"
	"github.com/ianlewis/go-docsearch/shard"
)

func makeDataDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	add := &shard.Record{ID: "add_0", Label: "add", Targets: []*shard.Target{
		{URL: "../classns_1_1_list.html#a1", Scope: "ns::List"},
	}}
	addFont := &shard.Record{ID: "addfont_0", Label: "addFont", Targets: []*shard.Target{
		{URL: "../classns_1_1_fonts.html#a2", Scope: "ns::Fonts"},
	}}
	testutil.MakeDocSet(t, filepath.Join(dir, "engine"), []*testutil.Section{
		{
			Name:    "all",
			Label:   "All",
			Buckets: "a",
			Shards:  [][]*shard.Record{{add, addFont}},
		},
		{
			Name:    "functions",
			Label:   "Functions",
			Buckets: "a",
			Shards:  [][]*shard.Record{{add, addFont}},
		},
	}, testutil.Gzip)
	return dir
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := newDocsearchApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.Run(append([]string{"docsearch"}, args...))
	return stdout.String(), err
}

func TestList(t *testing.T) {
	dir := makeDataDir(t)

	out, err := runApp(t, "--data-dir", dir, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"engine", "functions", "Functions"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestQuery(t *testing.T) {
	dir := makeDataDir(t)

	out, err := runApp(t, "--data-dir", dir, "query", "--section", "functions", "font")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !strings.Contains(out, "addFont") || !strings.Contains(out, "classns_1_1_fonts.html#a2") {
		t.Errorf("query output:\n%s", out)
	}
	if strings.Contains(out, "ns::List") {
		t.Errorf("query output contains unmatched symbol:\n%s", out)
	}

	out, err = runApp(t, "--data-dir", dir, "query", "--limit", "1", "add")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !strings.Contains(out, "... 1 more") {
		t.Errorf("query output:\n%s", out)
	}
}

func TestQuery_Errors(t *testing.T) {
	dir := makeDataDir(t)

	tests := []struct {
		name string
		args []string
		err  error
	}{
		{
			name: "no query",
			args: []string{"--data-dir", dir, "query"},
			err:  ErrFlagParse,
		},
		{
			name: "bad limit",
			args: []string{"--data-dir", dir, "query", "--limit", "0", "add"},
			err:  ErrFlagParse,
		},
		{
			name: "bad match",
			args: []string{"--data-dir", dir, "--match", "fuzzy", "query", "add"},
			err:  ErrFlagParse,
		},
		{
			name: "unknown section",
			args: []string{"--data-dir", dir, "query", "--section", "macros", "add"},
			err:  ErrOpen,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := runApp(t, test.args...); !errors.Is(err, test.err) {
				t.Errorf("run: want %v, got %v", test.err, err)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	out, err := runApp(t, "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.Contains(out, "GitVersion") {
		t.Errorf("version output:\n%s", out)
	}
}
