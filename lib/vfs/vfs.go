// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

package vfs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidPath reports a malformed virtual path. Distinct from
// ErrNotFound so that a caller can tell a bad argument from a true
// miss.
var ErrInvalidPath = errors.New("invalid virtual path")

// ErrNotFound reports a well-formed path with no file behind it.
var ErrNotFound = errors.New("file not found")

// ErrNotDirectory reports a directory operation on a path that names
// a file.
var ErrNotDirectory = errors.New("not a directory")

// VFS is an in-memory virtual filesystem: an unordered mapping from
// validated absolute virtual paths to file contents. It performs no
// disk I/O except on explicit export. Iteration is sorted by path
// string wherever determinism matters (export, listing).
//
// A VFS is not synchronized: concurrent reads are safe, concurrent
// mutation is the caller's problem. The store never mutates a VFS it
// was handed.
type VFS struct {
	files map[FilePath]string
}

// New returns an empty VFS.
func New() *VFS {
	return &VFS{files: make(map[FilePath]string)}
}

// AddFile validates path and inserts content, overwriting any
// existing entry at the same path. A malformed path is an error and
// the VFS is left unchanged.
func (v *VFS) AddFile(path string, content string) error {
	parsed, err := ParseFilePath(path)
	if err != nil {
		return err
	}
	v.files[parsed] = content
	return nil
}

// Add inserts content at an already-validated path.
func (v *VFS) Add(path FilePath, content string) {
	v.files[path] = content
}

// ReadFile returns the content at path. A malformed path is an
// ErrInvalidPath, not a false not-found; a well-formed path with no
// entry is an ErrNotFound.
func (v *VFS) ReadFile(path string) (string, error) {
	parsed, err := ParseFilePath(path)
	if err != nil {
		return "", err
	}
	content, ok := v.files[parsed]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return content, nil
}

// Exists reports whether a file exists at path. Malformed paths
// resolve to false rather than an error — existence checks never
// fail on bad input.
func (v *VFS) Exists(path string) bool {
	parsed, err := ParseFilePath(path)
	if err != nil {
		return false
	}
	_, ok := v.files[parsed]
	return ok
}

// Len returns the number of files.
func (v *VFS) Len() int {
	return len(v.files)
}

// Paths returns every file path in sorted order.
func (v *VFS) Paths() []FilePath {
	paths := make([]FilePath, 0, len(v.files))
	for path := range v.files {
		paths = append(paths, path)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i].path < paths[j].path })
	return paths
}

// ListDir returns the direct children of the given virtual directory,
// one level deep: file names and immediate subdirectory names, sorted
// and deduplicated. "/" lists the top level. Returns ErrNotDirectory
// if path names a file, ErrNotFound if no file lives at or below the
// directory.
func (v *VFS) ListDir(path string) ([]string, error) {
	prefix, err := v.dirPrefix(path)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for filePath := range v.files {
		rest, ok := strings.CutPrefix(filePath.path, prefix)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(rest, "/")
		seen[name] = struct{}{}
	}
	if len(seen) == 0 && prefix != "/" {
		return nil, fmt.Errorf("%w: directory %s", ErrNotFound, path)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// dirPrefix validates a directory path and returns the match prefix
// (always ending in "/").
func (v *VFS) dirPrefix(path string) (string, error) {
	if path == "/" {
		return "/", nil
	}
	parsed, err := ParseFilePath(strings.TrimSuffix(path, "/"))
	if err != nil {
		return "", err
	}
	if _, isFile := v.files[parsed]; isFile {
		return "", fmt.Errorf("%w: %s names a file", ErrNotDirectory, path)
	}
	return parsed.path + "/", nil
}
