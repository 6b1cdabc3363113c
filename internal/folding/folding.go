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

// Package folding implements the normalization applied to symbol names
// before they are indexed or matched.
package folding

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Default returns the transformer used to derive index keys from symbol
// labels and to normalize queries. It decomposes the input, drops
// combining marks, applies full Unicode case folding and folds whitespace.
// For example "  Grüßen  Text" folds to "grussen text".
func Default() transform.Transformer {
	return transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		cases.Fold(),
		&WhitespaceFolder{},
		norm.NFC,
	)
}

// Case returns a transformer that only applies case folding and whitespace
// folding. Diacritics are significant.
func Case() transform.Transformer {
	return transform.Chain(
		cases.Fold(),
		&WhitespaceFolder{},
	)
}

// None returns a transformer that leaves its input unchanged.
func None() transform.Transformer {
	return transform.Nop
}

// String applies the transformer returned by f to s.
func String(f func() transform.Transformer, s string) (string, error) {
	folded, _, err := transform.String(f(), s)
	//nolint:wrapcheck // callers add context.
	return folded, err
}
