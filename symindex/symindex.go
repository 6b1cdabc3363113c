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

package symindex

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/transform"

	"github.com/ianlewis/go-docsearch/internal/folding"
	"github.com/ianlewis/go-docsearch/internal/index"
)

var (
	// ErrNoTargets indicates that an entry was added without any targets.
	ErrNoTargets = errors.New("entry has no targets")

	// ErrEmptyKey indicates that an entry's key is empty after folding.
	ErrEmptyKey = errors.New("empty key")

	// ErrInvalidMatchMode indicates an unknown match mode name.
	ErrInvalidMatchMode = errors.New("invalid match mode")
)

// Target is a single definition of a symbol.
type Target struct {
	// Label is the symbol name as written at this definition.
	Label string

	// URL is the location of the definition, usually a relative page URL
	// with an anchor fragment.
	URL string

	// Scope is the optional enclosing scope or full signature of the
	// definition, e.g. "engine::Batch::add(const Quad &)".
	Scope string

	// External is true if the target points outside the documentation set.
	External bool
}

// Entry is a searchable symbol record.
type Entry struct {
	// Key is the folded identifier used for matching. It is unique within
	// an Index.
	Key string

	// Label is the display label of the symbol.
	Label string

	// Targets holds one item per definition sharing Key. It is never empty
	// for entries returned by an Index.
	Targets []*Target
}

// String returns the entry's key.
func (e *Entry) String() string {
	return e.Key
}

// MatchMode selects how a query is compared to entry keys.
type MatchMode int

const (
	// MatchSubstring matches keys that contain the query anywhere.
	MatchSubstring MatchMode = iota

	// MatchPrefix matches keys that start with the query.
	MatchPrefix

	// MatchExact matches keys equal to the query.
	MatchExact
)

var matchModeNames = []string{
	MatchSubstring: "substring",
	MatchPrefix:    "prefix",
	MatchExact:     "exact",
}

// String returns the name of the match mode.
func (m MatchMode) String() string {
	if int(m) < 0 || int(m) >= len(matchModeNames) {
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
	return matchModeNames[m]
}

// ParseMatchMode returns the match mode with the given name. The empty
// string selects MatchSubstring.
func ParseMatchMode(name string) (MatchMode, error) {
	if name == "" {
		return MatchSubstring, nil
	}
	i := slices.Index(matchModeNames, strings.ToLower(name))
	if i < 0 {
		return MatchSubstring, fmt.Errorf("%w: %q", ErrInvalidMatchMode, name)
	}
	return MatchMode(i), nil
}

// Options are options for building an Index.
type Options struct {
	// Folder returns a [transform.Transformer] that normalizes labels into
	// keys. The same folding is applied to queries.
	Folder func() transform.Transformer

	// Match is the default match mode used by Lookup.
	Match MatchMode
}

// DefaultOptions is the default options for an Index.
var DefaultOptions = &Options{
	Folder: folding.Default,
	Match:  MatchSubstring,
}

// Builder accumulates entries for an Index.
type Builder struct {
	fold  func() transform.Transformer
	match MatchMode

	entries map[string]*Entry
}

// NewBuilder returns a new Builder. A nil options uses DefaultOptions.
func NewBuilder(options *Options) *Builder {
	if options == nil {
		options = DefaultOptions
	}

	b := &Builder{
		fold:  DefaultOptions.Folder,
		match: options.Match,
	}
	if options.Folder != nil {
		b.fold = options.Folder
	}
	return b
}

// Add adds an entry. The entry's key is derived by folding Key, or Label if
// Key is empty. If an entry with the same key was added before, the targets
// are appended to it. Add copies the entry and its targets.
func (b *Builder) Add(e *Entry) error {
	src := e.Key
	if src == "" {
		src = e.Label
	}
	if len(e.Targets) == 0 {
		return fmt.Errorf("%w: %q", ErrNoTargets, src)
	}

	key, err := folding.String(b.fold, src)
	if err != nil {
		return fmt.Errorf("folding %q: %w", src, err)
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: %q", ErrEmptyKey, src)
	}

	targets := make([]*Target, 0, len(e.Targets))
	for _, t := range e.Targets {
		tc := *t
		targets = append(targets, &tc)
	}

	if b.entries == nil {
		b.entries = map[string]*Entry{}
	}
	if existing, ok := b.entries[key]; ok {
		existing.Targets = append(existing.Targets, targets...)
		return nil
	}

	label := e.Label
	if label == "" {
		label = src
	}
	b.entries[key] = &Entry{
		Key:     key,
		Label:   label,
		Targets: targets,
	}
	return nil
}

// Len returns the number of distinct keys added so far.
func (b *Builder) Len() int {
	return len(b.entries)
}

// Build returns an Index of the entries added so far and resets the
// Builder.
func (b *Builder) Build() *Index {
	entries := make([]*Entry, 0, len(b.entries))
	for _, e := range b.entries {
		entries = append(entries, e)
	}
	b.entries = nil

	return &Index{
		entries: index.NewIndex(entries, strings.Compare),
		fold:    b.fold,
		match:   b.match,
	}
}

// Index is an immutable symbol index.
type Index struct {
	// entries is sorted by key.
	entries *index.Index[*Entry]

	fold  func() transform.Transformer
	match MatchMode
}

// New returns a new Index containing the given entries.
func New(entries []*Entry, options *Options) (*Index, error) {
	b := NewBuilder(options)
	for _, e := range entries {
		if err := b.Add(e); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// Lookup returns the entries matching query using the index's match mode.
// The query is folded like the keys. Results are ordered by key. Empty or
// whitespace-only queries return no results. The returned entries are
// shared with the index and must not be modified.
func (idx *Index) Lookup(query string) []*Entry {
	return idx.LookupMode(query, idx.match)
}

// LookupMode is like Lookup but uses the given match mode.
func (idx *Index) LookupMode(query string, mode MatchMode) []*Entry {
	q, err := folding.String(idx.fold, query)
	if err != nil || strings.TrimSpace(q) == "" {
		// A query that cannot be folded cannot match any key.
		return nil
	}

	switch mode {
	case MatchPrefix:
		return idx.entries.Prefix(q)
	case MatchExact:
		return idx.entries.Search(q)
	default:
		return idx.entries.Contains(q)
	}
}

// Match returns the index's default match mode.
func (idx *Index) Match() MatchMode {
	return idx.match
}

// Len returns the number of entries in the index.
func (idx *Index) Len() int {
	return idx.entries.Len()
}

// Entries returns all entries ordered by key.
func (idx *Index) Entries() []*Entry {
	return idx.entries.All()
}
