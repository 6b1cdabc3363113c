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

// Package symindex implements an immutable, in-memory symbol search index.
//
// An index maps normalized symbol keys to the places a symbol is defined.
// Keys are derived from symbol labels by folding (decomposition, mark
// removal, case folding and whitespace folding by default), so "addFont",
// "AddFont" and " addfont " share the key "addfont". Symbols whose labels
// fold to the same key, such as overloaded functions, are merged into a
// single Entry with several Targets.
//
// Indexes are created with a Builder and never change afterwards. They are
// safe for concurrent use without locking.
package symindex
