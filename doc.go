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

// Package docsearch implements a library for searching the symbol index of
// generated API documentation in pure Go.
//
// Generated HTML documentation ships a client-side search index in its
// search/ directory:
//  1. searchdata.js lists the index sections (all symbols, classes,
//     functions, variables, ...), their labels and the leading characters
//     present in each section.
//  2. <section>_<n>.js files (shards) hold the section's records. Each
//     record maps a symbol name to one or more definitions (overloads).
//     Shards may be compressed with gzip (.js.gz) or dictzip (.js.dz).
//
// Open reads a search directory once into immutable, in-memory indexes,
// one per section, which can then be queried concurrently.
package docsearch
