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
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ianlewis/go-dictzip"
)

// ErrNoShards indicates that a section has no shard files.
var ErrNoShards = errors.New("no shards found")

// shardExts are the recognized shard file extensions in order of
// preference.
var shardExts = []string{
	".js",
	".js.gz",
	".js.dz",
}

// Open opens the shard file at path. Files ending in .gz are decompressed
// with gzip and files ending in .dz with dictzip.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening shard: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		z, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("creating shard gzip reader: %w", err)
		}
		return &readCloser{Reader: z, closers: []io.Closer{z, f}}, nil
	case ".dz":
		z, err := dictzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("creating shard dictzip reader: %w", err)
		}
		return &readCloser{Reader: z, closers: []io.Closer{z, f}}, nil
	}

	return f, nil
}

// Read reads every record in the shard file at path.
func Read(path string) ([]*Record, error) {
	s, err := NewScannerFromPath(path)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	var records []*Record
	for s.Scan() {
		records = append(records, s.Record())
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return records, nil
}

// Files returns the paths of the shard files of section in searchDir, in
// shard order. When a shard exists both plain and compressed, the plain file
// is used.
func Files(searchDir, section string) ([]string, error) {
	dirEntries, err := os.ReadDir(searchDir)
	if err != nil {
		return nil, fmt.Errorf("reading search directory: %w", err)
	}

	type shardFile struct {
		id   string
		ext  int
		name string
	}

	prefix := section + "_"
	found := map[string]shardFile{}
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		for i, ext := range shardExts {
			id, ok := strings.CutSuffix(name[len(prefix):], ext)
			if !ok || !isShardID(id) {
				continue
			}
			if prev, ok := found[id]; !ok || i < prev.ext {
				found[id] = shardFile{id: id, ext: i, name: name}
			}
			break
		}
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: section %q in %q", ErrNoShards, section, searchDir)
	}

	files := make([]shardFile, 0, len(found))
	for _, sf := range found {
		files = append(files, sf)
	}
	// Shard ids are decimal or hexadecimal numbers without leading zeros so
	// shorter ids sort first.
	slices.SortFunc(files, func(a, b shardFile) int {
		if len(a.id) != len(b.id) {
			return len(a.id) - len(b.id)
		}
		return strings.Compare(a.id, b.id)
	})

	paths := make([]string, 0, len(files))
	for _, sf := range files {
		paths = append(paths, filepath.Join(searchDir, sf.name))
	}
	return paths, nil
}

// isShardID reports whether id is a shard number.
func isShardID(id string) bool {
	if id == "" {
		return false
	}
	for _, c := range id {
		if !('0' <= c && c <= '9') && !('a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}

// readCloser reads from a decompressing reader and closes it along with the
// underlying file.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var errs []error
	for _, c := range rc.closers {
		if err := c.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
