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

// Package navtree implements reading the navigation tree scripts written
// alongside generated HTML documentation.
//
// The root script (navtreedata.js) declares a NAVTREE array of
// [label, url, children] nodes. Children are either an inline array, null,
// or the name of another script declaring a variable of that name, which
// holds the children.
package navtree

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ianlewis/go-docsearch/internal/jsdata"
)

const (
	// FileName is the name of the root navigation tree script.
	FileName = "navtreedata.js"

	// RootVar is the variable declared by the root script.
	RootVar = "NAVTREE"
)

var (
	// ErrFormat indicates a malformed navigation tree.
	ErrFormat = errors.New("invalid navigation tree")

	// ErrNotFound indicates that a script does not declare the tree
	// variable.
	ErrNotFound = errors.New("navigation tree not found")
)

// Node is a navigation tree node.
type Node struct {
	// Label is the node's display label.
	Label string

	// URL is the page the node links to, relative to the HTML root. It is
	// empty for nodes without a page.
	URL string

	// Children are the node's children.
	Children []*Node

	// Ref names the script holding the children when they were not
	// inlined. It is cleared once the script is loaded.
	Ref string
}

// Tree is a navigation tree.
type Tree struct {
	// Name is the variable the tree was declared as.
	Name string

	// Roots are the top level nodes.
	Roots []*Node

	// paths maps node URLs to the labels leading to the node.
	paths map[string][]string
}

// New reads the tree declared as the variable name from r. If name is
// empty the first declaration is used.
func New(r io.Reader, name string) (*Tree, error) {
	d := jsdata.NewDecoder(r)
	for {
		varName, err := d.Var()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		if err != nil {
			return nil, formatErr(err)
		}
		v, err := d.Value()
		if err != nil {
			return nil, formatErr(err)
		}
		if name != "" && varName != name {
			continue
		}

		roots, err := decodeNodes(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFormat, varName, err)
		}
		t := &Tree{
			Name:  varName,
			Roots: roots,
		}
		t.index()
		return t, nil
	}
}

// Open reads the tree declared as the variable name in the script at path.
func Open(path, name string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening navigation tree: %w", err)
	}
	defer f.Close()

	t, err := New(f, name)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return t, nil
}

// Load reads the root tree in the script at path and the scripts its nodes
// reference from the same directory. References to missing scripts are left
// unresolved.
func Load(path string) (*Tree, error) {
	t, err := Open(path, RootVar)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	seen := map[string]bool{}
	var resolve func(nodes []*Node) error
	resolve = func(nodes []*Node) error {
		for _, n := range nodes {
			if n.Ref != "" && !seen[n.Ref] {
				seen[n.Ref] = true
				sub, err := Open(filepath.Join(dir, n.Ref+".js"), n.Ref)
				switch {
				case errors.Is(err, os.ErrNotExist):
				case err != nil:
					return err
				default:
					n.Children = sub.Roots
					n.Ref = ""
				}
			}
			if err := resolve(n.Children); err != nil {
				return err
			}
		}
		return nil
	}
	if err := resolve(t.Roots); err != nil {
		return nil, err
	}

	t.index()
	return t, nil
}

// Walk calls fn for every node in depth first order with the node's
// ancestors. Walk does not descend into a node's children if fn returns
// false.
func (t *Tree) Walk(fn func(ancestors []*Node, n *Node) bool) {
	var walk func(ancestors, nodes []*Node)
	walk = func(ancestors, nodes []*Node) {
		for _, n := range nodes {
			if fn(ancestors, n) {
				walk(append(ancestors[:len(ancestors):len(ancestors)], n), n.Children)
			}
		}
	}
	walk(nil, t.Roots)
}

// Path returns the labels from the root to the node linking to url. If no
// node links to url exactly, the node linking to the page without its
// fragment is used. Path returns nil if no node matches.
func (t *Tree) Path(url string) []string {
	if p, ok := t.paths[url]; ok {
		return p
	}
	if page, _, ok := strings.Cut(url, "#"); ok {
		return t.paths[page]
	}
	return nil
}

// index records the path to every node with a URL. The first node
// linking to a URL wins.
func (t *Tree) index() {
	t.paths = map[string][]string{}
	t.Walk(func(ancestors []*Node, n *Node) bool {
		if n.URL == "" {
			return true
		}
		if _, ok := t.paths[n.URL]; ok {
			return true
		}
		p := make([]string, 0, len(ancestors)+1)
		for _, a := range ancestors {
			p = append(p, a.Label)
		}
		t.paths[n.URL] = append(p, n.Label)
		return true
	})
}

func decodeNodes(v any) ([]*Node, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected an array, got %T", v)
	}

	nodes := make([]*Node, 0, len(list))
	for i, nv := range list {
		n, err := decodeNode(nv)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func decodeNode(v any) (*Node, error) {
	fields, ok := v.([]any)
	if !ok || len(fields) == 0 {
		return nil, errors.New("expected a non-empty array")
	}
	label, ok := fields[0].(string)
	if !ok {
		return nil, fmt.Errorf("label is %T, not a string", fields[0])
	}
	n := &Node{Label: label}

	if len(fields) > 1 && fields[1] != nil {
		url, ok := fields[1].(string)
		if !ok {
			return nil, fmt.Errorf("%q: url is %T, not a string", label, fields[1])
		}
		n.URL = url
	}

	if len(fields) > 2 {
		switch c := fields[2].(type) {
		case nil:
		case string:
			n.Ref = c
		case []any:
			children, err := decodeNodes(c)
			if err != nil {
				return nil, fmt.Errorf("%q: %w", label, err)
			}
			n.Children = children
		default:
			return nil, fmt.Errorf("%q: children are %T", label, fields[2])
		}
	}
	return n, nil
}

// formatErr marks decoder syntax errors as malformed trees.
func formatErr(err error) error {
	if errors.Is(err, jsdata.ErrSyntax) {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return err
}
