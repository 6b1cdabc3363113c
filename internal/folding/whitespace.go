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

package folding

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// WhitespaceFolder trims leading and trailing whitespace and collapses each
// internal whitespace span into a single ASCII space. Symbol labels taken
// from generated pages often carry line breaks and indentation inside
// signatures ("foo(int a,\n    int b)"); folding makes them comparable.
type WhitespaceFolder struct {
	// started is true once the first non-whitespace rune has been seen.
	started bool

	// wsSpan is true if the transformer is currently handling a whitespace span.
	wsSpan bool
}

// Transform implements [transform.Transformer.Transform].
func (w *WhitespaceFolder) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	var nSrc, nDst int
	for nSrc < len(src) {
		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		c, size := utf8.DecodeRune(src[nSrc:])

		isSpace := unicode.IsSpace(c)
		if isSpace {
			nSrc += size
			if !w.started {
				// Ignore leading whitespace.
				continue
			}
			// We are in an internal whitespace span.
			w.wsSpan = true
			continue
		}

		if w.wsSpan {
			// Leaving a span. Trailing whitespace never reaches here.
			spc := ' '
			if nDst+utf8.RuneLen(spc) > len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			nDst += utf8.EncodeRune(dst[nDst:], spc)
			// We are no longer in an internal whitespace span.
			w.wsSpan = false
		}
		// NOTE: size cannot be used here. For invalid input c is
		// utf8.RuneError which encodes to 3 bytes while size is 1.
		if nDst+utf8.RuneLen(c) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], c)
		nSrc += size
		w.started = true
	}

	return nDst, nSrc, nil
}

// Reset implements [transform.Transformer.Reset].
func (w *WhitespaceFolder) Reset() {
	*w = WhitespaceFolder{}
}
