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

// Package searchdata implements reading the section table of a generated
// search index.
//
// The section table lives in searchdata.js next to the shard files. It
// declares three objects keyed by section number:
//
//	var indexSectionsWithContent = { 0: "abcdefghilmnoprstuvw~", ... };
//	var indexSectionNames = { 0: "all", 1: "classes", ... };
//	var indexSectionLabels = { 0: "All", 1: "Classes", ... };
//
// Section names are the file name prefixes of the section's shards. The
// content string lists the leading characters that have a shard.
package searchdata

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/ianlewis/go-docsearch/internal/jsdata"
)

// FileName is the name of the section table file.
const FileName = "searchdata.js"

// AllSection is the name of the section holding every symbol.
const AllSection = "all"

var (
	// ErrMissingSections indicates that the section names are missing.
	ErrMissingSections = errors.New("missing indexSectionNames")

	// ErrInvalid indicates that the section table is malformed.
	ErrInvalid = errors.New("invalid section table")
)

// Section is a partition of the search index by symbol kind.
type Section struct {
	// ID is the section number.
	ID int

	// Name is the section name and shard file prefix, e.g. "functions".
	Name string

	// Label is the human readable section name, e.g. "Functions".
	Label string

	// Buckets are the leading characters that have entries in this section.
	Buckets string
}

// SearchData is a section table.
type SearchData struct {
	// sections is sorted by ID.
	sections []*Section
}

// New returns a new SearchData by reading the table from r.
func New(r io.Reader) (*SearchData, error) {
	vars, err := jsdata.NewDecoder(r).Vars()
	if err != nil {
		return nil, fmt.Errorf("decoding section table: %w", err)
	}

	namesVar, ok := vars["indexSectionNames"]
	if !ok {
		return nil, ErrMissingSections
	}
	names, err := stringMap(namesVar)
	if err != nil {
		return nil, fmt.Errorf("%w: indexSectionNames: %w", ErrInvalid, err)
	}

	var labels, buckets map[int]string
	if v, ok := vars["indexSectionLabels"]; ok {
		if labels, err = stringMap(v); err != nil {
			return nil, fmt.Errorf("%w: indexSectionLabels: %w", ErrInvalid, err)
		}
	}
	if v, ok := vars["indexSectionsWithContent"]; ok {
		if buckets, err = stringMap(v); err != nil {
			return nil, fmt.Errorf("%w: indexSectionsWithContent: %w", ErrInvalid, err)
		}
	}

	sd := &SearchData{}
	for id, name := range names {
		if name == "" {
			return nil, fmt.Errorf("%w: section %d has no name", ErrInvalid, id)
		}
		label := labels[id]
		if label == "" {
			label = name
		}
		sd.sections = append(sd.sections, &Section{
			ID:      id,
			Name:    name,
			Label:   label,
			Buckets: buckets[id],
		})
	}
	slices.SortFunc(sd.sections, func(a, b *Section) int {
		return a.ID - b.ID
	})

	return sd, nil
}

// Open reads the section table in searchDir.
func Open(searchDir string) (*SearchData, error) {
	path := filepath.Join(searchDir, FileName)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening section table: %w", err)
	}
	defer f.Close()

	sd, err := New(f)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return sd, nil
}

// Sections returns the sections ordered by ID.
func (sd *SearchData) Sections() []*Section {
	return slices.Clone(sd.sections)
}

// Section returns the section with the given name, or nil.
func (sd *SearchData) Section(name string) *Section {
	for _, s := range sd.sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// stringMap converts a decoded object with numeric keys and string values.
func stringMap(v any) (map[int]string, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object, got %T", v)
	}

	m := make(map[int]string, len(obj))
	for k, v := range obj {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("key %q is not a number", k)
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("value of %d is %T, not a string", id, v)
		}
		m[id] = s
	}
	return m, nil
}
