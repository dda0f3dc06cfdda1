// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

package vfs

import (
	"fmt"
	"strings"
)

// FilePath is a validated absolute virtual path. Virtual paths always
// use forward slashes, start with "/", and contain no "." or ".."
// segments, no empty segments, and no NUL or control bytes —
// regardless of host OS. Conversion to host separators happens only
// at the disk boundary in export, never inside the VFS.
//
// The zero value is invalid. Construct through [ParseFilePath]; no
// FilePath value is ever malformed.
type FilePath struct {
	path string
}

// ParseFilePath validates a raw virtual path. Construction fails
// closed: any violation is an error, there is no normalization.
func ParseFilePath(raw string) (FilePath, error) {
	if raw == "" {
		return FilePath{}, fmt.Errorf("%w: path is empty", ErrInvalidPath)
	}
	if raw[0] != '/' {
		return FilePath{}, fmt.Errorf("%w: path %q is not absolute", ErrInvalidPath, raw)
	}
	if raw == "/" {
		return FilePath{}, fmt.Errorf("%w: %q names the root, not a file", ErrInvalidPath, raw)
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '\\' {
			return FilePath{}, fmt.Errorf("%w: path %q contains backslash at position %d (virtual paths are forward-slash only)", ErrInvalidPath, raw, i)
		}
		if c < 0x20 || c == 0x7F {
			return FilePath{}, fmt.Errorf("%w: path %q contains control character 0x%02x at position %d", ErrInvalidPath, raw, c, i)
		}
	}
	for _, segment := range strings.Split(raw[1:], "/") {
		switch segment {
		case "":
			return FilePath{}, fmt.Errorf("%w: path %q contains an empty segment", ErrInvalidPath, raw)
		case ".":
			return FilePath{}, fmt.Errorf("%w: path %q contains a %q segment", ErrInvalidPath, raw, ".")
		case "..":
			return FilePath{}, fmt.Errorf("%w: path %q contains a %q segment (path traversal)", ErrInvalidPath, raw, "..")
		}
	}
	return FilePath{path: raw}, nil
}

// String returns the virtual path.
func (p FilePath) String() string {
	return p.path
}

// IsZero reports whether the FilePath is the zero value.
func (p FilePath) IsZero() bool {
	return p.path == ""
}

// Base returns the final path segment.
func (p FilePath) Base() string {
	index := strings.LastIndexByte(p.path, '/')
	return p.path[index+1:]
}

// Dir returns the virtual directory containing the file: "/" for
// top-level files, otherwise the path up to (not including) the final
// slash.
func (p FilePath) Dir() string {
	index := strings.LastIndexByte(p.path, '/')
	if index == 0 {
		return "/"
	}
	return p.path[:index]
}

// Relative returns the path without its leading slash, the form used
// for keys in checksum maps and for paths under an export base.
func (p FilePath) Relative() string {
	return strings.TrimPrefix(p.path, "/")
}
