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
	"path"
	"strings"

	"github.com/ianlewis/go-docsearch/symindex"
)

// Entry is a search result.
type Entry struct {
	set     *DocSet
	section string
	entry   *symindex.Entry
}

// Title return the entry's display label.
func (e *Entry) Title() string {
	return e.entry.Label
}

// Key returns the normalized key the entry was matched on.
func (e *Entry) Key() string {
	return e.entry.Key
}

// Section returns the name of the section the entry was found in.
func (e *Entry) Section() string {
	return e.section
}

// Set returns the documentation set the entry belongs to.
func (e *Entry) Set() *DocSet {
	return e.set
}

// Targets returns the entry's navigation targets.
func (e *Entry) Targets() []*symindex.Target {
	return e.entry.Targets
}

// Href returns the target URL relative to the documentation set's HTML root.
// External URLs are returned unchanged.
func (e *Entry) Href(t *symindex.Target) string {
	if t.External {
		return t.URL
	}
	u := t.URL
	for strings.HasPrefix(u, "../") {
		u = strings.TrimPrefix(u, "../")
	}
	return path.Clean(u)
}

// Breadcrumb returns the navigation tree labels leading to the target's
// page, or nil if the documentation set has no navigation tree or the page
// is not in it.
func (e *Entry) Breadcrumb(t *symindex.Target) []string {
	if t.External || e.set == nil || e.set.nav == nil {
		return nil
	}
	var labels []string
	for _, l := range e.set.nav.Path(e.Href(t)) {
		labels = append(labels, plainText(l))
	}
	return labels
}

// String returns a string representation of the Entry.
func (e *Entry) String() string {
	str := e.entry.Label + "\n"
	for _, t := range e.entry.Targets {
		str += "  " + e.Href(t)
		if t.Scope != "" {
			str += "  " + t.Scope
		}
		str += "\n"
	}
	return str
}
