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

package docsearch

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ianlewis/go-docsearch/internal/testutil"
	"github.com/ianlewis/go-docsearch/navtree"
	"github.com/ianlewis/go-docsearch/shard"
	"github.com/ianlewis/go-docsearch/symindex"
)

func record(id, label string, targets ...*shard.Target) *shard.Record {
	return &shard.Record{
		ID:      id,
		Label:   label,
		Targets: targets,
	}
}

func fixtureSections() []*testutil.Section {
	addFont := record("addfont_0", "addFont",
		&shard.Target{URL: "../classns_1_1_fonts.html#a1", Scope: "ns::Fonts::addFont(const std::string &amp;name)"},
		&shard.Target{URL: "../classns_1_1_fonts.html#a2", Scope: "ns::Fonts::addFont(int id)"},
	)
	add := record("add_0", "add", &shard.Target{URL: "../classns_1_1_list.html#a3", Scope: "ns::List"})
	addLayer := record("addlayer_0", "addLayer", &shard.Target{URL: "../classns_1_1_view.html#a4", Scope: "ns::View"})
	batch := record("batch_0", "Batch", &shard.Target{URL: "../classns_1_1_batch.html"})
	std := record("string_0", "string", &shard.Target{URL: "https://en.cppreference.com/w/cpp/string", External: true})

	return []*testutil.Section{
		{
			Name:    "all",
			Label:   "All",
			Buckets: "abs",
			Shards: [][]*shard.Record{
				{add, addFont, addLayer},
				{batch},
				{std},
			},
		},
		{
			Name:    "classes",
			Label:   "Classes",
			Buckets: "b",
			Shards: [][]*shard.Record{
				{batch},
			},
		},
		{
			Name:    "functions",
			Label:   "Functions",
			Buckets: "a",
			Shards: [][]*shard.Record{
				{add, addFont, addLayer},
			},
		},
		{
			Name:  "enums",
			Label: "Enumerations",
		},
	}
}

func titles(entries []*Entry) []string {
	var l []string
	for _, e := range entries {
		l = append(l, e.Title())
	}
	return l
}

func TestOpen(t *testing.T) {
	t.Parallel()

	for _, c := range []testutil.Compression{testutil.None, testutil.Gzip, testutil.DictZip} {
		t.Run(c.Ext(), func(t *testing.T) {
			t.Parallel()

			searchDir := testutil.MakeDocSet(t, filepath.Join(t.TempDir(), "engine"), fixtureSections(), c)

			d, err := Open(searchDir, nil)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}

			if got, want := d.Name(), "engine"; got != want {
				t.Errorf("Name: want %q, got %q", want, got)
			}
			if got, want := d.Path(), searchDir; got != want {
				t.Errorf("Path: want %q, got %q", want, got)
			}

			var names []string
			for _, s := range d.Sections() {
				names = append(names, s.Name)
			}
			if diff := cmp.Diff([]string{"all", "classes", "functions", "enums"}, names); diff != "" {
				t.Errorf("Sections (-want, +got):\n%s", diff)
			}

			counts := map[string]int{}
			for _, s := range d.Sections() {
				counts[s.Name] = d.Index(s.Name).Len()
			}
			wantCounts := map[string]int{
				"all":       5,
				"classes":   1,
				"functions": 3,
				"enums":     0,
			}
			if diff := cmp.Diff(wantCounts, counts); diff != "" {
				t.Errorf("section sizes (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestOpen_Sections(t *testing.T) {
	t.Parallel()

	searchDir := testutil.MakeDocSet(t, t.TempDir(), fixtureSections(), testutil.None)

	d, err := Open(searchDir, &Options{
		Sections:    []string{"functions"},
		Concurrency: 1,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	var names []string
	for _, s := range d.Sections() {
		names = append(names, s.Name)
	}
	// The all section is loaded even when not requested.
	if diff := cmp.Diff([]string{"all", "functions"}, names); diff != "" {
		t.Errorf("Sections (-want, +got):\n%s", diff)
	}
	if idx := d.Index("classes"); idx != nil {
		t.Errorf("Index(%q): want nil, got %v", "classes", idx)
	}
	if diff := cmp.Diff([]string{"Batch"}, titles(d.Search("batch"))); diff != "" {
		t.Errorf("Search (-want, +got):\n%s", diff)
	}
}

func TestOpen_Error(t *testing.T) {
	t.Parallel()

	t.Run("missing searchdata", func(t *testing.T) {
		t.Parallel()

		if _, err := Open(t.TempDir(), nil); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Open: want %v, got %v", os.ErrNotExist, err)
		}
	})

	t.Run("bad shard", func(t *testing.T) {
		t.Parallel()

		searchDir := testutil.MakeDocSet(t, t.TempDir(), fixtureSections(), testutil.None)
		if err := os.WriteFile(filepath.Join(searchDir, "functions_1.js"), []byte("var searchData=[[1,"), 0o600); err != nil {
			t.Fatal(err)
		}

		if _, err := Open(searchDir, nil); !errors.Is(err, shard.ErrFormat) {
			t.Errorf("Open: want %v, got %v", shard.ErrFormat, err)
		}
	})
}

func TestOpenAll(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.MakeDocSet(t, filepath.Join(root, "engine"), fixtureSections(), testutil.None)
	testutil.MakeDocSet(t, filepath.Join(root, "tools"), fixtureSections(), testutil.Gzip)

	// A broken set is reported without hiding the others.
	broken := filepath.Join(root, "broken", "search")
	if err := os.MkdirAll(broken, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(broken, "searchdata.js"), []byte("var x = {"), 0o600); err != nil {
		t.Fatal(err)
	}

	sets, errs := OpenAll(root, nil)
	if got, want := len(errs), 1; got != want {
		t.Errorf("len(errs): want %d, got %d: %v", want, got, errs)
	}

	var names []string
	for _, d := range sets {
		names = append(names, d.Name())
	}
	if diff := cmp.Diff([]string{"engine", "tools"}, names); diff != "" {
		t.Errorf("OpenAll (-want, +got):\n%s", diff)
	}
}

func TestDocSet_Search(t *testing.T) {
	t.Parallel()

	searchDir := testutil.MakeDocSet(t, t.TempDir(), fixtureSections(), testutil.None)
	d, err := Open(searchDir, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	tests := []struct {
		name  string
		query string

		expected []string
	}{
		{
			name:     "substring",
			query:    "add",
			expected: []string{"add", "addFont", "addLayer"},
		},
		{
			name:     "inner",
			query:    "font",
			expected: []string{"addFont"},
		},
		{
			name:     "case insensitive",
			query:    "BATCH",
			expected: []string{"Batch"},
		},
		{
			name:  "no match",
			query: "xyz",
		},
		{
			name:  "empty",
			query: "",
		},
		{
			name:  "whitespace",
			query: " \t ",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(test.expected, titles(d.Search(test.query))); diff != "" {
				t.Errorf("Search (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestDocSet_SearchSection(t *testing.T) {
	t.Parallel()

	searchDir := testutil.MakeDocSet(t, t.TempDir(), fixtureSections(), testutil.None)
	d, err := Open(searchDir, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	entries, err := d.SearchSection("classes", "a")
	if err != nil {
		t.Fatalf("SearchSection: %v", err)
	}
	if diff := cmp.Diff([]string{"Batch"}, titles(entries)); diff != "" {
		t.Errorf("SearchSection (-want, +got):\n%s", diff)
	}
	for _, e := range entries {
		if got, want := e.Section(), "classes"; got != want {
			t.Errorf("Section: want %q, got %q", want, got)
		}
		if e.Set() != d {
			t.Errorf("Set: want %p, got %p", d, e.Set())
		}
	}

	if _, err := d.SearchSection("macros", "a"); !errors.Is(err, ErrUnknownSection) {
		t.Errorf("SearchSection: want %v, got %v", ErrUnknownSection, err)
	}
}

func TestDocSet_Targets(t *testing.T) {
	t.Parallel()

	searchDir := testutil.MakeDocSet(t, t.TempDir(), fixtureSections(), testutil.None)
	d, err := Open(searchDir, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	entries := d.Search("addfont")
	if got, want := len(entries), 1; got != want {
		t.Fatalf("len(Search): want %d, got %d", want, got)
	}

	want := []*symindex.Target{
		{
			Label: "addFont",
			URL:   "../classns_1_1_fonts.html#a1",
			Scope: "ns::Fonts::addFont(const std::string &name)",
		},
		{
			Label: "addFont",
			URL:   "../classns_1_1_fonts.html#a2",
			Scope: "ns::Fonts::addFont(int id)",
		},
	}
	if diff := cmp.Diff(want, entries[0].Targets()); diff != "" {
		t.Errorf("Targets (-want, +got):\n%s", diff)
	}
}

func TestDocSet_Concurrent(t *testing.T) {
	t.Parallel()

	searchDir := testutil.MakeDocSet(t, t.TempDir(), fixtureSections(), testutil.None)
	d, err := Open(searchDir, &Options{Match: symindex.MatchPrefix})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if got, want := len(d.Search("add")), 3; got != want {
					t.Errorf("len(Search): want %d, got %d", want, got)
					return
				}
				if got := d.Search("font"); len(got) != 0 {
					t.Errorf("Search(%q): want none, got %v", "font", titles(got))
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestSetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		expected string
	}{
		{
			path:     filepath.Join("docs", "engine", "html", "search"),
			expected: "engine",
		},
		{
			path:     filepath.Join("docs", "engine", "search"),
			expected: "engine",
		},
		{
			path:     filepath.Join("docs", "engine", "search") + string(filepath.Separator),
			expected: "engine",
		},
		{
			path:     "search",
			expected: "search",
		},
	}

	for _, test := range tests {
		t.Run(test.path, func(t *testing.T) {
			t.Parallel()

			if got := setName(test.path); got != test.expected {
				t.Errorf("setName(%q): want %q, got %q", test.path, test.expected, got)
			}
		})
	}
}

// makeDoxygenSet writes a documentation set holding the generated shards in
// shard/testdata/doxygen and a navigation tree referencing
// navtree/testdata/group__text.js.
func makeDoxygenSet(t *testing.T) string {
	t.Helper()

	searchDir := testutil.MakeDocSet(t, filepath.Join(t.TempDir(), "tre"), []*testutil.Section{
		{Name: "all", Label: "All", Buckets: "1b"},
		{Name: "functions", Label: "Functions", Buckets: "0"},
	}, testutil.None)
	for _, name := range []string{"all_1.js", "all_b.js", "functions_0.js"} {
		testutil.CopyFile(t, filepath.Join("shard", "testdata", "doxygen", name), filepath.Join(searchDir, name))
	}

	htmlDir := filepath.Dir(searchDir)
	nav := testutil.MakeNavTree(navtree.RootVar, []*navtree.Node{
		{
			Label: "tre",
			URL:   "index.html",
			Children: []*navtree.Node{
				{Label: "Text", URL: "group__text.html", Ref: "group__text"},
			},
		},
	})
	if err := os.WriteFile(filepath.Join(htmlDir, navtree.FileName), nav, 0o600); err != nil {
		t.Fatal(err)
	}
	testutil.CopyFile(t, filepath.Join("navtree", "testdata", "group__text.js"), filepath.Join(htmlDir, "group__text.js"))
	return searchDir
}

func TestOpen_Doxygen(t *testing.T) {
	t.Parallel()

	d, err := Open(makeDoxygenSet(t), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got, want := d.Name(), "tre"; got != want {
		t.Errorf("Name: want %q, got %q", want, got)
	}
	if d.Navigation() == nil {
		t.Fatalf("Navigation: want tree, got nil")
	}

	// Audio and audio fold to the same key.
	if got, want := d.Index("all").Len(), 28; got != want {
		t.Errorf("all: want %d entries, got %d", want, got)
	}

	tests := []struct {
		name    string
		section string
		query   string

		expected []string
	}{
		{
			name:    "add",
			section: "all",
			query:   "add",
			expected: []string{
				"add", "addColorFan", "addColorMesh", "addColorOnlyLayer", "addColorQuad",
				"addFont", "addLayer", "addTextureFan", "addTextureMesh", "addTextureQuad",
			},
		},
		{
			name:     "font",
			section:  "all",
			query:    "font",
			expected: []string{"addFont"},
		},
		{
			name:     "merged case variants",
			section:  "all",
			query:    "AUDIO",
			expected: []string{"Audio", "audioActive", "AudioManager", "AudioSource", "AudioStream"},
		},
		{
			name:     "functions",
			section:  "functions",
			query:    "rotated",
			expected: []string{"addTexturedRotatedRectangle", "addUntexturedRotatedRectangle"},
		},
		{
			name:    "no match",
			section: "all",
			query:   "xyz",
		},
		{
			name:    "whitespace",
			section: "all",
			query:   "   ",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			entries, err := d.SearchSection(test.section, test.query)
			if err != nil {
				t.Fatalf("SearchSection: %v", err)
			}
			if diff := cmp.Diff(test.expected, titles(entries)); diff != "" {
				t.Errorf("SearchSection (-want, +got):\n%s", diff)
			}
		})
	}

	t.Run("every key finds its entry", func(t *testing.T) {
		t.Parallel()

		for _, e := range d.Index("all").Entries() {
			found := false
			for _, r := range d.Search(e.Key) {
				if r.Key() == e.Key {
					found = true
				}
			}
			if !found {
				t.Errorf("Search(%q): entry not found", e.Key)
			}
		}
	})

	t.Run("scope and breadcrumb", func(t *testing.T) {
		t.Parallel()

		entries := d.Search("no_outline")
		if got, want := len(entries), 1; got != want {
			t.Fatalf("len(Search): want %d, got %d", want, got)
		}
		e := entries[0]
		targets := e.Targets()
		if diff := cmp.Diff([]string{"tre", "Text", "tre::NO_OUTLINE"}, e.Breadcrumb(targets[0])); diff != "" {
			t.Errorf("Breadcrumb (-want, +got):\n%s", diff)
		}

		entries = d.Search("add")
		if got, want := entries[0].Targets()[0].Scope, "tre::DynAtlas2D::add(const std::string &name, const tr::SubBitmap &bitmap)"; got != want {
			t.Errorf("Scope: want %q, got %q", want, got)
		}
		if got := entries[0].Breadcrumb(entries[0].Targets()[0]); got != nil {
			t.Errorf("Breadcrumb: want nil, got %v", got)
		}
	})
}
