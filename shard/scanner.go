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

package shard

import (
	"errors"
	"fmt"
	"io"

	"github.com/ianlewis/go-docsearch/internal/jsdata"
)

// ErrFormat indicates that a shard does not hold a valid search table.
var ErrFormat = errors.New("invalid shard")

// dataVar is the name of the variable declared by shard files.
const dataVar = "searchData"

// Target is a single definition of a symbol.
type Target struct {
	// URL is the relative URL of the definition.
	URL string

	// External is true if the link points outside the documentation set.
	External bool

	// Scope is the scope or signature text. It may be empty.
	Scope string
}

// Record is a shard entry.
type Record struct {
	// ID is the record's unique identifier.
	ID string

	// Label is the symbol's display label. It is HTML-escaped.
	Label string

	// Targets are the symbol's definitions.
	Targets []*Target
}

// Scanner scans a shard from start to end.
type Scanner struct {
	r io.ReadCloser
	d *jsdata.Decoder

	// n is the number of records scanned.
	n int

	started bool
	done    bool
	record  *Record
	err     error
}

// NewScanner returns a new shard scanner that scans the shard from start to
// end. The Scanner assumes ownership of the reader and should be closed with
// the Close method.
func NewScanner(r io.ReadCloser) *Scanner {
	return &Scanner{
		r: r,
		d: jsdata.NewDecoder(r),
	}
}

// NewScannerFromPath returns a new Scanner reading the shard file at path.
func NewScannerFromPath(path string) (*Scanner, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewScanner(r), nil
}

// Scan advances the scanner to the next record. It returns false if the
// scan stops either by reaching the end of the shard or an error.
func (s *Scanner) Scan() bool {
	if s.done || s.err != nil {
		return false
	}
	s.record = nil

	if !s.started {
		s.started = true
		if err := s.header(); err != nil {
			s.err = err
			return false
		}
	}

	t, err := s.d.Peek()
	if err != nil {
		s.err = formatErr(err)
		return false
	}
	if s.n > 0 {
		// Records after the first are preceded by a comma.
		switch {
		case t.Is(']'):
			s.done = true
			return false
		case !t.Is(','):
			s.err = fmt.Errorf("%w: offset %d: expected ',' or ']' after record %d", ErrFormat, t.Offset, s.n)
			return false
		}
		_, _ = s.d.Next()
		t, err = s.d.Peek()
		if err != nil {
			s.err = formatErr(err)
			return false
		}
	}
	// A closing bracket here ends an empty table or follows a trailing
	// comma.
	if t.Is(']') {
		s.done = true
		return false
	}

	v, err := s.d.Value()
	if err != nil {
		s.err = formatErr(err)
		return false
	}
	fields, ok := v.([]any)
	if !ok {
		s.err = fmt.Errorf("%w: offset %d: expected record", ErrFormat, t.Offset)
		return false
	}

	rec, err := decodeRecord(fields)
	if err != nil {
		s.err = fmt.Errorf("%w: record %d: %w", ErrFormat, s.n, err)
		return false
	}
	s.n++
	s.record = rec
	return true
}

// Record returns the most recent record read by Scan.
func (s *Scanner) Record() *Record {
	return s.record
}

// Err returns the first error encountered.
func (s *Scanner) Err() error {
	return s.err
}

// Close closes the underlying reader.
func (s *Scanner) Close() error {
	err := s.r.Close()
	if err != nil {
		return fmt.Errorf("closing shard: %w", err)
	}
	return nil
}

// header consumes the variable declaration and the opening bracket of the
// table.
func (s *Scanner) header() error {
	name, err := s.d.Var()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: no %s declaration", ErrFormat, dataVar)
	}
	if err != nil {
		return formatErr(err)
	}
	if name != dataVar {
		return fmt.Errorf("%w: unexpected variable %q", ErrFormat, name)
	}
	if err := s.d.Expect('['); err != nil {
		return formatErr(err)
	}
	return nil
}

// formatErr marks decoder syntax errors as malformed shards.
func formatErr(err error) error {
	if errors.Is(err, jsdata.ErrSyntax) {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return err
}

// decodeRecord converts a decoded record array to a Record.
func decodeRecord(v []any) (*Record, error) {
	if len(v) != 2 {
		return nil, fmt.Errorf("expected 2 elements, got %d", len(v))
	}
	id, ok := v[0].(string)
	if !ok {
		return nil, fmt.Errorf("id is %T, not a string", v[0])
	}
	sym, ok := v[1].([]any)
	if !ok || len(sym) < 2 {
		return nil, fmt.Errorf("%q: expected label and targets", id)
	}
	label, ok := sym[0].(string)
	if !ok {
		return nil, fmt.Errorf("%q: label is %T, not a string", id, sym[0])
	}

	rec := &Record{
		ID:    id,
		Label: label,
	}
	for i, tv := range sym[1:] {
		t, err := decodeTarget(tv)
		if err != nil {
			return nil, fmt.Errorf("%q: target %d: %w", id, i, err)
		}
		rec.Targets = append(rec.Targets, t)
	}
	return rec, nil
}

func decodeTarget(v any) (*Target, error) {
	fields, ok := v.([]any)
	if !ok || len(fields) == 0 {
		return nil, errors.New("expected a non-empty array")
	}

	url, ok := fields[0].(string)
	if !ok {
		return nil, fmt.Errorf("url is %T, not a string", fields[0])
	}
	t := &Target{URL: url}

	if len(fields) > 1 {
		switch f := fields[1].(type) {
		case float64:
			t.External = f == 0
		case bool:
			t.External = !f
		default:
			return nil, fmt.Errorf("flag is %T, not a number", fields[1])
		}
	}

	if len(fields) > 2 && fields[2] != nil {
		scope, ok := fields[2].(string)
		if !ok {
			return nil, fmt.Errorf("scope is %T, not a string", fields[2])
		}
		t.Scope = scope
	}
	return t, nil
}
