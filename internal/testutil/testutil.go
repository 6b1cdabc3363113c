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

// Package testutil generates search index fixtures for tests.
package testutil

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ianlewis/go-dictzip"

	"github.com/ianlewis/go-docsearch/navtree"
	"github.com/ianlewis/go-docsearch/shard"
)

// Compression is a shard file compression format.
type Compression int

const (
	// None writes plain .js shards.
	None Compression = iota

	// Gzip writes .js.gz shards.
	Gzip

	// DictZip writes .js.dz shards.
	DictZip
)

// Ext returns the file extension for the compression format.
func (c Compression) Ext() string {
	switch c {
	case Gzip:
		return ".js.gz"
	case DictZip:
		return ".js.dz"
	default:
		return ".js"
	}
}

// Quote returns s as a single quoted JavaScript string literal.
func Quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`)
	return "'" + r.Replace(s) + "'"
}

// MakeShard makes a shard file given a list of records.
func MakeShard(records []*shard.Record) []byte {
	var b bytes.Buffer
	b.WriteString("var searchData=\n[\n")
	for i, r := range records {
		fmt.Fprintf(&b, "  [%s,[%s", Quote(r.ID), Quote(r.Label))
		for _, t := range r.Targets {
			flag := 1
			if t.External {
				flag = 0
			}
			fmt.Fprintf(&b, ",[%s,%d,%s]", Quote(t.URL), flag, Quote(t.Scope))
		}
		b.WriteString("]]")
		if i < len(records)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("];\n")
	return b.Bytes()
}

// WriteShard writes a shard file at path with the given compression.
func WriteShard(t *testing.T, path string, records []*shard.Record, c Compression) {
	t.Helper()

	WriteFile(t, path, MakeShard(records), c)
}

// WriteFile writes data at path with the given compression.
func WriteFile(t *testing.T, path string, data []byte, c Compression) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	switch c {
	case Gzip:
		z := gzip.NewWriter(f)
		if _, err := z.Write(data); err != nil {
			t.Fatal(err)
		}
		if err := z.Close(); err != nil {
			t.Fatal(err)
		}
	case DictZip:
		z, err := dictzip.NewWriter(f)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := z.Write(data); err != nil {
			t.Fatal(err)
		}
		if err := z.Close(); err != nil {
			t.Fatal(err)
		}
	default:
		if _, err := f.Write(data); err != nil {
			t.Fatal(err)
		}
	}
}

// Section describes a fixture section.
type Section struct {
	Name    string
	Label   string
	Buckets string

	// Shards holds the records of each shard file.
	Shards [][]*shard.Record
}

// MakeSearchData makes a searchdata.js file for the given sections.
func MakeSearchData(sections []*Section) []byte {
	var b bytes.Buffer
	writeObject := func(name string, value func(*Section) string) {
		fmt.Fprintf(&b, "var %s =\n{\n", name)
		for i, s := range sections {
			fmt.Fprintf(&b, "  %d: %q", i, value(s))
			if i < len(sections)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString("};\n\n")
	}
	writeObject("indexSectionsWithContent", func(s *Section) string { return s.Buckets })
	writeObject("indexSectionNames", func(s *Section) string { return s.Name })
	writeObject("indexSectionLabels", func(s *Section) string { return s.Label })
	return b.Bytes()
}

// MakeDocSet writes a documentation set under dir in the layout produced by
// the documentation generator (html/search/...) and returns the path of the
// search directory.
func MakeDocSet(t *testing.T, dir string, sections []*Section, c Compression) string {
	t.Helper()

	searchDir := filepath.Join(dir, "html", "search")
	if err := os.MkdirAll(searchDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(searchDir, "searchdata.js"), MakeSearchData(sections), 0o600); err != nil {
		t.Fatal(err)
	}
	for _, s := range sections {
		for i, records := range s.Shards {
			WriteShard(t, filepath.Join(searchDir, fmt.Sprintf("%s_%d%s", s.Name, i, c.Ext())), records, c)
		}
	}
	return searchDir
}

// MakeNavTree makes a navigation tree script declaring nodes as the
// variable name. Nodes with a Ref are written as references.
func MakeNavTree(name string, nodes []*navtree.Node) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "var %s =\n", name)
	writeNodes(&b, nodes, "")
	b.WriteString(";\n")
	return b.Bytes()
}

func writeNodes(b *bytes.Buffer, nodes []*navtree.Node, indent string) {
	b.WriteString("[\n")
	for i, n := range nodes {
		url := "null"
		if n.URL != "" {
			url = fmt.Sprintf("%q", n.URL)
		}
		fmt.Fprintf(b, "%s  [ %q, %s, ", indent, n.Label, url)
		switch {
		case n.Ref != "":
			fmt.Fprintf(b, "%q", n.Ref)
		case len(n.Children) > 0:
			writeNodes(b, n.Children, indent+"  ")
		default:
			b.WriteString("null")
		}
		b.WriteString(" ]")
		if i < len(nodes)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(indent + "]")
}

// CopyFile copies the file at src to dst.
func CopyFile(t *testing.T, src, dst string) {
	t.Helper()

	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, data, 0o600); err != nil {
		t.Fatal(err)
	}
}
