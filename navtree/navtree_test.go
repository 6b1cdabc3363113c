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

package navtree_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ianlewis/go-docsearch/internal/testutil"
	"github.com/ianlewis/go-docsearch/navtree"
)

const groupText = "group__text"

// writeSite writes a root navigation tree referencing the group__text
// script from testdata.
func writeSite(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	root := []*navtree.Node{
		{
			Label: "tre",
			URL:   "index.html",
			Children: []*navtree.Node{
				{Label: "Text", URL: "group__text.html", Ref: groupText},
				{Label: "Audio", URL: "group__audio.html", Ref: "group__audio"},
				{Label: "Files", URL: "files.html"},
			},
		},
	}
	if err := os.WriteFile(filepath.Join(dir, navtree.FileName), testutil.MakeNavTree(navtree.RootVar, root), 0o600); err != nil {
		t.Fatal(err)
	}
	testutil.CopyFile(t, filepath.Join("testdata", groupText+".js"), filepath.Join(dir, groupText+".js"))
	return filepath.Join(dir, navtree.FileName)
}

func TestOpen_Testdata(t *testing.T) {
	t.Parallel()

	tree, err := navtree.Open(filepath.Join("testdata", groupText+".js"), groupText)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	var labels []string
	for _, n := range tree.Roots {
		labels = append(labels, n.Label)
	}
	want := []string{
		"Bitmap Text",
		"Debug Text",
		"Dynamic Text",
		"Static Text",
		"tre::TextOutline",
		"tre::Align",
		"tre::HorizontalAlign",
		"tre::VerticalAlign",
		"tre::renderMultistyleText",
		"tre::NO_OUTLINE",
	}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Errorf("Roots (-want, +got):\n%s", diff)
	}

	// Inline children, a reference and a leaf.
	if got, want := len(tree.Roots[5].Children), 9; got != want {
		t.Errorf("len(tre::Align children): want %d, got %d", want, got)
	}
	if got, want := tree.Roots[0].Ref, "group__bitmap__text"; got != want {
		t.Errorf("Ref: want %q, got %q", want, got)
	}
	if n := tree.Roots[9]; n.Children != nil || n.Ref != "" {
		t.Errorf("leaf: want no children, got %+v", n)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tree, err := navtree.Load(writeSite(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		url      string
		expected []string
	}{
		{
			url:      "group__text.html#gaa79002b278ae0c30edbc10a455b26e94",
			expected: []string{"tre", "Text", "tre::NO_OUTLINE"},
		},
		{
			url:      "structtre_1_1TextOutline.html#ac44f1b40475f7ad58c37d8cdcd3fc68b",
			expected: []string{"tre", "Text", "tre::TextOutline", "thickness"},
		},
		{
			// Falls back to the page.
			url:      "structtre_1_1TextOutline.html#unknown",
			expected: []string{"tre", "Text", "tre::TextOutline"},
		},
		{
			url:      "files.html",
			expected: []string{"tre", "Files"},
		},
		{
			url: "classtre_1_1Unknown.html",
		},
	}

	for _, test := range tests {
		t.Run(test.url, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(test.expected, tree.Path(test.url)); diff != "" {
				t.Errorf("Path (-want, +got):\n%s", diff)
			}
		})
	}

	// The missing group__audio script stays a reference.
	audio := tree.Roots[0].Children[1]
	if got, want := audio.Ref, "group__audio"; got != want {
		t.Errorf("Ref: want %q, got %q", want, got)
	}
	if tree.Roots[0].Children[0].Ref != "" {
		t.Errorf("Ref: want resolved, got %q", tree.Roots[0].Children[0].Ref)
	}
}

func TestTree_Walk(t *testing.T) {
	t.Parallel()

	tree, err := navtree.New(strings.NewReader(string(testutil.MakeNavTree("NAVTREE", []*navtree.Node{
		{Label: "a", Children: []*navtree.Node{
			{Label: "b", Children: []*navtree.Node{{Label: "c"}}},
			{Label: "d"},
		}},
		{Label: "e"},
	}))), "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var got []string
	tree.Walk(func(ancestors []*navtree.Node, n *navtree.Node) bool {
		var p []string
		for _, a := range ancestors {
			p = append(p, a.Label)
		}
		got = append(got, strings.Join(append(p, n.Label), "/"))
		return n.Label != "b"
	})

	want := []string{"a", "a/b", "a/d", "e"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Walk (-want, +got):\n%s", diff)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		varName string

		expected []*navtree.Node
		err      error
	}{
		{
			name: "named variable after others",
			input: `/*
@licstart
@licend
*/
var NAVTREEINDEX = [ "index.html" ];
var NAVTREE =
[
  [ "tre", "index.html", [
    [ "Modules", "modules.html", "modules" ]
  ] ]
];
var SYNCONMSG = 'click to disable panel synchronisation';
`,
			varName: navtree.RootVar,
			expected: []*navtree.Node{
				{
					Label: "tre",
					URL:   "index.html",
					Children: []*navtree.Node{
						{Label: "Modules", URL: "modules.html", Ref: "modules"},
					},
				},
			},
		},
		{
			name:     "null url",
			input:    `var x = [ [ "Overview", null, null ] ];`,
			expected: []*navtree.Node{{Label: "Overview"}},
		},
		{
			name:    "missing variable",
			input:   `var x = [];`,
			varName: navtree.RootVar,
			err:     navtree.ErrNotFound,
		},
		{
			name:  "not an array",
			input: `var NAVTREE = 'x';`,
			err:   navtree.ErrFormat,
		},
		{
			name:  "bad label",
			input: `var NAVTREE = [ [ 1, "a.html", null ] ];`,
			err:   navtree.ErrFormat,
		},
		{
			name:  "bad children",
			input: `var NAVTREE = [ [ "a", "a.html", 1 ] ];`,
			err:   navtree.ErrFormat,
		},
		{
			name:  "syntax",
			input: `var NAVTREE = [ [ "a"`,
			err:   navtree.ErrFormat,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			tree, err := navtree.New(strings.NewReader(test.input), test.varName)
			if !errors.Is(err, test.err) {
				t.Fatalf("New: want %v, got %v", test.err, err)
			}
			if err != nil {
				return
			}
			if diff := cmp.Diff(test.expected, tree.Roots, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Roots (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	_, err := navtree.Load(filepath.Join(t.TempDir(), navtree.FileName))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load: want %v, got %v", os.ErrNotExist, err)
	}
}
