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

// Package jsdata decodes the subset of JavaScript used by generated
// documentation search tables.
//
// Search tables are written as a list of variable declarations whose values
// are array, object, string and number literals:
//
//	var searchData=
//	[
//	  ['add_0',['add',['../classBatch.html#a1',1,'Batch']]]
//	];
//
// Strings may be single or double quoted and use backslash escapes. Object
// keys may be bare words, numbers or strings. Trailing commas are accepted.
// Nothing else of the language is supported.
package jsdata
