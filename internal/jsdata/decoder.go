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

package jsdata

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrSyntax indicates that the input is not a valid search table.
var ErrSyntax = errors.New("syntax error")

// maxTokenSize is the largest single token (usually a string) the decoder
// will buffer.
const maxTokenSize = 1 << 20

// Kind is the kind of a Token.
type Kind int

const (
	// EOF marks the end of the input.
	EOF Kind = iota

	// Delim is one of the punctuation characters [ ] { } , : = ;
	Delim

	// String is a quoted string. The token text is the unquoted value.
	String

	// Word is a bare word: a keyword, identifier or number.
	Word
)

// Token is a lexical token.
type Token struct {
	Kind Kind
	Text string

	// Offset is the byte offset of the token in the input.
	Offset int64
}

// Is reports whether t is the delimiter c.
func (t Token) Is(c byte) bool {
	return t.Kind == Delim && len(t.Text) == 1 && t.Text[0] == c
}

// Decoder reads tokens and values from an input stream.
type Decoder struct {
	s *bufio.Scanner

	// offset is the number of bytes consumed so far.
	offset int64

	// tokStart is the offset of the last token returned by the split
	// function.
	tokStart int64

	peeked *Token
}

// NewDecoder returns a new Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	d := &Decoder{
		s: bufio.NewScanner(bufio.NewReader(r)),
	}
	d.s.Buffer(make([]byte, 0, 64*1024), maxTokenSize)
	d.s.Split(d.splitToken)
	return d
}

// Next returns the next token. At the end of input it returns a token of
// kind EOF.
func (d *Decoder) Next() (Token, error) {
	if d.peeked != nil {
		t := *d.peeked
		d.peeked = nil
		return t, nil
	}

	if !d.s.Scan() {
		if err := d.s.Err(); err != nil {
			return Token{}, fmt.Errorf("%w: offset %d: %w", ErrSyntax, d.offset, err)
		}
		return Token{Kind: EOF, Offset: d.offset}, nil
	}

	b := d.s.Bytes()
	t := Token{
		Text:   string(b),
		Offset: d.tokStart,
	}
	switch b[0] {
	case '[', ']', '{', '}', ',', ':', '=', ';':
		t.Kind = Delim
	case '\'', '"':
		t.Kind = String
		s, err := unquote(b)
		if err != nil {
			return Token{}, fmt.Errorf("%w: offset %d: %w", ErrSyntax, t.Offset, err)
		}
		t.Text = s
	default:
		t.Kind = Word
	}
	return t, nil
}

// Peek returns the next token without consuming it.
func (d *Decoder) Peek() (Token, error) {
	if d.peeked != nil {
		return *d.peeked, nil
	}
	t, err := d.Next()
	if err != nil {
		return Token{}, err
	}
	d.peeked = &t
	return t, nil
}

// Expect consumes the next token and returns an error if it is not the
// delimiter c.
func (d *Decoder) Expect(c byte) error {
	t, err := d.Next()
	if err != nil {
		return err
	}
	if !t.Is(c) {
		return syntaxError(t, "expected %q", string(c))
	}
	return nil
}

// Var consumes a declaration header of the form `var name =` and returns
// the declared name. Stray semicolons are skipped. Var returns io.EOF when
// the input holds no further declarations.
func (d *Decoder) Var() (string, error) {
	t, err := d.Next()
	for err == nil && t.Is(';') {
		t, err = d.Next()
	}
	if err != nil {
		return "", err
	}
	if t.Kind == EOF {
		return "", io.EOF
	}

	switch {
	case t.Kind == Word && (t.Text == "var" || t.Text == "let" || t.Text == "const"):
	default:
		return "", syntaxError(t, "expected declaration")
	}

	name, err := d.Next()
	if err != nil {
		return "", err
	}
	if name.Kind != Word {
		return "", syntaxError(name, "expected identifier")
	}

	if err := d.Expect('='); err != nil {
		return "", err
	}
	return name.Text, nil
}

// Value decodes the next value. Arrays decode to []any, objects to
// map[string]any, strings to string, numbers to float64, true and false to
// bool, and null and undefined to nil.
func (d *Decoder) Value() (any, error) {
	t, err := d.Next()
	if err != nil {
		return nil, err
	}

	switch t.Kind {
	case EOF:
		return nil, syntaxError(t, "unexpected end of input")
	case String:
		return t.Text, nil
	case Word:
		return wordValue(t)
	case Delim:
		switch {
		case t.Is('['):
			list, err := d.array()
			if err != nil {
				return nil, err
			}
			return list, nil
		case t.Is('{'):
			obj, err := d.object()
			if err != nil {
				return nil, err
			}
			return obj, nil
		}
	}
	return nil, syntaxError(t, "unexpected %q", t.Text)
}

// Vars decodes every declaration in the input and returns the values by
// name.
func (d *Decoder) Vars() (map[string]any, error) {
	vars := map[string]any{}
	for {
		name, err := d.Var()
		if errors.Is(err, io.EOF) {
			return vars, nil
		}
		if err != nil {
			return nil, err
		}
		v, err := d.Value()
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		vars[name] = v
	}
}

func (d *Decoder) array() ([]any, error) {
	list := []any{}
	for {
		t, err := d.Peek()
		if err != nil {
			return nil, err
		}
		if t.Is(']') {
			d.peeked = nil
			return list, nil
		}

		v, err := d.Value()
		if err != nil {
			return nil, err
		}
		list = append(list, v)

		t, err = d.Next()
		if err != nil {
			return nil, err
		}
		switch {
		case t.Is(','):
		case t.Is(']'):
			return list, nil
		default:
			return nil, syntaxError(t, "expected ',' or ']'")
		}
	}
}

func (d *Decoder) object() (map[string]any, error) {
	obj := map[string]any{}
	for {
		k, err := d.Next()
		if err != nil {
			return nil, err
		}
		if k.Is('}') {
			return obj, nil
		}
		if k.Kind != String && k.Kind != Word {
			return nil, syntaxError(k, "expected object key")
		}

		if err := d.Expect(':'); err != nil {
			return nil, err
		}

		v, err := d.Value()
		if err != nil {
			return nil, err
		}
		obj[k.Text] = v

		t, err := d.Next()
		if err != nil {
			return nil, err
		}
		switch {
		case t.Is(','):
		case t.Is('}'):
			return obj, nil
		default:
			return nil, syntaxError(t, "expected ',' or '}'")
		}
	}
}

func wordValue(t Token) (any, error) {
	switch t.Text {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null", "undefined":
		return nil, nil
	}
	f, err := strconv.ParseFloat(t.Text, 64)
	if err != nil {
		return nil, syntaxError(t, "unexpected word %q", t.Text)
	}
	return f, nil
}

func syntaxError(t Token, format string, args ...any) error {
	if t.Kind == EOF {
		return fmt.Errorf("%w: offset %d: %s", ErrSyntax, t.Offset, fmt.Sprintf(format, args...))
	}
	return fmt.Errorf("%w: offset %d: near %q: %s", ErrSyntax, t.Offset, t.Text, fmt.Sprintf(format, args...))
}

// splitToken splits the input into tokens, skipping whitespace.
func (d *Decoder) splitToken(data []byte, atEOF bool) (advance int, token []byte, err error) {
	defer func() {
		d.offset += int64(advance)
	}()

	start := 0
	for start < len(data) {
		if data[start] == '/' {
			n, more, err := skipComment(data[start:], atEOF)
			if err != nil {
				return 0, nil, err
			}
			if more {
				// Consume what came before and request more data.
				return start, nil, nil
			}
			if n > 0 {
				start += n
				continue
			}
		}
		r, size := utf8.DecodeRune(data[start:])
		if !unicode.IsSpace(r) && r != '\uFEFF' {
			break
		}
		start += size
	}
	if start == len(data) {
		// Only whitespace. Consume it and request more data.
		return start, nil, nil
	}

	d.tokStart = d.offset + int64(start)
	switch c := data[start]; c {
	case '[', ']', '{', '}', ',', ':', '=', ';':
		return start + 1, data[start : start+1], nil
	case '\'', '"':
		for i := start + 1; i < len(data); i++ {
			switch data[i] {
			case '\\':
				// Skip the escaped byte.
				i++
			case c:
				return i + 1, data[start : i+1], nil
			}
		}
		if atEOF {
			return 0, nil, errors.New("unterminated string")
		}
	default:
		i := start
		for i < len(data) && !isWordEnd(data[i]) {
			i++
		}
		if i == start {
			// A lone '/' that does not start a comment.
			i++
		}
		if i < len(data) || atEOF {
			return i, data[start:i], nil
		}
	}

	// Request more data.
	return start, nil, nil
}

// skipComment returns the length of the // or /* */ comment at the start
// of data. It returns 0 if data does not start with a comment and more if
// the comment may continue past the end of data.
func skipComment(data []byte, atEOF bool) (n int, more bool, err error) {
	if len(data) < 2 {
		return 0, !atEOF, nil
	}
	switch data[1] {
	case '/':
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			return i + 1, false, nil
		}
		if atEOF {
			return len(data), false, nil
		}
		return 0, true, nil
	case '*':
		if i := bytes.Index(data[2:], []byte("*/")); i >= 0 {
			return i + 4, false, nil
		}
		if atEOF {
			return 0, false, errors.New("unterminated comment")
		}
		return 0, true, nil
	}
	return 0, false, nil
}

func isWordEnd(c byte) bool {
	switch c {
	case '[', ']', '{', '}', ',', ':', '=', ';', '\'', '"', '/', ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// unquote returns the value of the quoted string literal b.
func unquote(b []byte) (string, error) {
	if len(b) < 2 || b[len(b)-1] != b[0] {
		return "", errors.New("unterminated string")
	}
	s := string(b[1 : len(b)-1])
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch e := s[i]; e {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case 'x', 'u':
			n := 2
			if e == 'u' {
				n = 4
			}
			if i+n >= len(s) {
				return "", fmt.Errorf("short \\%c escape", e)
			}
			v, err := strconv.ParseUint(s[i+1:i+1+n], 16, 32)
			if err != nil {
				return "", fmt.Errorf("bad \\%c escape: %w", e, err)
			}
			sb.WriteRune(rune(v))
			i += n
		default:
			// \\, \', \" and any other escaped character stand for
			// themselves.
			sb.WriteByte(e)
		}
	}
	return sb.String(), nil
}
