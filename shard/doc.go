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

// Package shard implements reading generated search index shards.
//
// A documentation set's search index is split into shard files, one per
// section (symbol kind) and leading character, e.g. all_0.js, all_1.js,
// functions_0.js. Each shard declares a single array:
//
//	var searchData=
//	[
//	  ['addfont_0',['addFont',['../classFonts.html#a1',1,'Fonts::addFont(const std::string &amp;path)'],['../classFonts.html#a2',1,'Fonts::addFont(Font &amp;&amp;font)']]],
//	  ['atlas_1',['Atlas',['../classAtlas.html',1,'']]]
//	];
//
// Each record comes in two parts:
//  1. The id: a unique identifier derived from the lowercased name.
//  2. The symbol: the display label followed by one or more targets. A
//     target is the relative URL of the definition, a flag that is 1 for
//     links inside the documentation and 0 for external links, and an
//     optional scope or signature text.
//
// Shard files may be compressed with gzip (.js.gz) or dictzip (.js.dz).
package shard
