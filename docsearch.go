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
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/k3a/html2text"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/transform"

	"github.com/ianlewis/go-docsearch/navtree"
	"github.com/ianlewis/go-docsearch/searchdata"
	"github.com/ianlewis/go-docsearch/shard"
	"github.com/ianlewis/go-docsearch/symindex"
)

// ErrUnknownSection indicates that a documentation set has no section with
// the requested name.
var ErrUnknownSection = errors.New("unknown section")

// Options are options for opening documentation sets.
type Options struct {
	// Match is the match mode used by searches.
	Match symindex.MatchMode

	// Folder returns a [transform.Transformer] used to normalize symbol
	// names and queries. If nil, the symindex default folding is used.
	Folder func() transform.Transformer

	// Sections restricts loading to the named sections. If empty, every
	// section is loaded. The all section backing Search is always loaded.
	Sections []string

	// Concurrency is the maximum number of sections loaded at once. If
	// zero, GOMAXPROCS is used.
	Concurrency int
}

// DefaultOptions is the default options for opening documentation sets.
var DefaultOptions = &Options{
	Match: symindex.MatchSubstring,
}

// DocSet is a generated documentation set's search index.
type DocSet struct {
	name string
	path string

	sections []*searchdata.Section
	indexes  map[string]*symindex.Index

	// nav is the navigation tree of the HTML directory, if present.
	nav *navtree.Tree
}

// OpenAll opens all documentation sets under a directory. A documentation
// set is any directory containing a searchdata.js file. This function will
// return all successfully opened sets along with any errors that occurred.
func OpenAll(path string, options *Options) ([]*DocSet, []error) {
	var sets []*DocSet
	var errs []error
	if err := filepath.WalkDir(path, func(path string, info fs.DirEntry, err error) error {
		// Walking the file path will ignore errors.
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if !info.IsDir() && info.Name() == searchdata.FileName {
			set, err := Open(filepath.Dir(path), options)
			if err != nil {
				errs = append(errs, err)
				return nil
			}
			sets = append(sets, set)
		}
		return nil
	}); err != nil {
		errs = append(errs, err)
		return nil, errs
	}
	return sets, errs
}

// Open opens the documentation set whose search index is in searchDir.
// Every section is read into memory before Open returns.
func Open(searchDir string, options *Options) (*DocSet, error) {
	if options == nil {
		options = DefaultOptions
	}

	sd, err := searchdata.Open(searchDir)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", searchDir, err)
	}

	d := &DocSet{
		name:    setName(searchDir),
		path:    searchDir,
		indexes: map[string]*symindex.Index{},
	}

	symOpts := &symindex.Options{
		Folder: options.Folder,
		Match:  options.Match,
	}

	limit := options.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	g.SetLimit(limit)

	var mu sync.Mutex
	for _, s := range sd.Sections() {
		if len(options.Sections) > 0 && s.Name != searchdata.AllSection && !slices.Contains(options.Sections, s.Name) {
			continue
		}
		d.sections = append(d.sections, s)

		g.Go(func() error {
			idx, err := loadSection(searchDir, s.Name, symOpts)
			if err != nil {
				return fmt.Errorf("loading section %q of %q: %w", s.Name, searchDir, err)
			}
			mu.Lock()
			defer mu.Unlock()
			d.indexes[s.Name] = idx
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	navPath := filepath.Join(filepath.Dir(filepath.Clean(searchDir)), navtree.FileName)
	nav, err := navtree.Load(navPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("loading navigation tree of %q: %w", searchDir, err)
	default:
		d.nav = nav
	}

	return d, nil
}

// Name returns the documentation set name. It is derived from the directory
// holding the generated HTML.
func (d *DocSet) Name() string {
	return d.name
}

// Path returns the path of the search directory.
func (d *DocSet) Path() string {
	return d.path
}

// Sections returns the loaded sections ordered by ID.
func (d *DocSet) Sections() []*searchdata.Section {
	return slices.Clone(d.sections)
}

// Navigation returns the navigation tree of the documentation set, or nil
// if the generated HTML has none.
func (d *DocSet) Navigation() *navtree.Tree {
	return d.nav
}

// Index returns the symbol index of the named section, or nil.
func (d *DocSet) Index(section string) *symindex.Index {
	return d.indexes[section]
}

// Search searches the all section, which holds every symbol. A query
// matching nothing returns no entries, as does every query on a set whose
// search data declares no all section.
func (d *DocSet) Search(query string) []*Entry {
	entries, err := d.SearchSection(searchdata.AllSection, query)
	if err != nil {
		return nil
	}
	return entries
}

// SearchSection searches the named section.
func (d *DocSet) SearchSection(section, query string) ([]*Entry, error) {
	idx, ok := d.indexes[section]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}

	var entries []*Entry
	for _, e := range idx.Lookup(query) {
		entries = append(entries, &Entry{
			set:     d,
			section: section,
			entry:   e,
		})
	}
	return entries, nil
}

// loadSection reads every shard of section into a new index. A section
// without shards yields an empty index.
func loadSection(searchDir, section string, opts *symindex.Options) (*symindex.Index, error) {
	b := symindex.NewBuilder(opts)

	files, err := shard.Files(searchDir, section)
	if errors.Is(err, shard.ErrNoShards) {
		return b.Build(), nil
	}
	if err != nil {
		return nil, err
	}

	for _, path := range files {
		records, err := shard.Read(path)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			if err := b.Add(recordEntry(r)); err != nil {
				return nil, fmt.Errorf("%q: record %q: %w", path, r.ID, err)
			}
		}
	}
	return b.Build(), nil
}

// recordEntry converts a shard record to an index entry. Labels and scopes
// are stored as plain text.
func recordEntry(r *shard.Record) *symindex.Entry {
	label := plainText(r.Label)
	e := &symindex.Entry{
		Label: label,
	}
	for _, t := range r.Targets {
		e.Targets = append(e.Targets, &symindex.Target{
			Label:    label,
			URL:      t.URL,
			Scope:    plainText(t.Scope),
			External: t.External,
		})
	}
	return e
}

// plainText converts HTML escaped text to plain text.
func plainText(s string) string {
	if !strings.ContainsAny(s, "&<") {
		return s
	}
	return html2text.HTML2Text(s)
}

// setName derives a documentation set name from its search directory. The
// generator writes html/search/ under the output directory so a trailing
// "html" component is skipped.
func setName(searchDir string) string {
	dir := filepath.Dir(filepath.Clean(searchDir))
	if strings.EqualFold(filepath.Base(dir), "html") {
		dir = filepath.Dir(dir)
	}
	name := filepath.Base(dir)
	if name == "." || name == string(filepath.Separator) {
		return filepath.Base(filepath.Clean(searchDir))
	}
	return name
}
