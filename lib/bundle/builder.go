// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/skillforge/skillforge/lib/vfs"
)

// GeneratedFile is one (relative path, content) pair handed over by
// the code generation pipeline. Paths are forward-slash relative,
// e.g. "index.ts" or "tools/get_weather.ts".
type GeneratedFile struct {
	Path    string
	Content string
}

// Builder assembles a VFS from individually added files. Invalid
// paths do not fail the call that adds them: the first error is
// remembered and every later call still runs, so a fluent chain
// completes and the error surfaces once, at [Builder.Build].
type Builder struct {
	files *vfs.VFS
	err   error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{files: vfs.New()}
}

// AddFile adds one file at an absolute virtual path. Returns the
// Builder for chaining.
func (b *Builder) AddFile(path string, content string) *Builder {
	if err := b.files.AddFile(path, content); err != nil && b.err == nil {
		b.err = err
	}
	return b
}

// AddFiles adds a set of files keyed by absolute virtual path.
func (b *Builder) AddFiles(files map[string]string) *Builder {
	// Sorted insertion keeps the first remembered error deterministic.
	for _, path := range sortedKeys(files) {
		b.AddFile(path, files[path])
	}
	return b
}

// FromGeneratedCode adds externally generated files, namespacing each
// relative path under basePath. This is how one skill's generated
// tree stays separate from another's while sharing a VFS during
// assembly: basePath "/skills/acme" plus relative path "index.ts"
// yields "/skills/acme/index.ts".
func (b *Builder) FromGeneratedCode(basePath string, files []GeneratedFile) *Builder {
	prefix := strings.TrimSuffix(basePath, "/")
	for _, file := range files {
		b.AddFile(prefix+"/"+file.Path, file.Content)
	}
	return b
}

// Build returns the assembled VFS, or the first validation error any
// earlier call encountered.
func (b *Builder) Build() (*vfs.VFS, error) {
	if b.err != nil {
		return nil, fmt.Errorf("building bundle: %w", b.err)
	}
	return b.files, nil
}

// BuildAndExport builds and writes every file under basePath on the
// real filesystem, expanding a leading "~/" and creating parent
// directories as needed. Files are written with temp-then-rename
// semantics. Any ".." in basePath is rejected outright — the VFS
// already refused traversal at add time, this guards the export base
// itself.
func (b *Builder) BuildAndExport(basePath string) error {
	files, err := b.Build()
	if err != nil {
		return err
	}

	expanded, err := expandHome(basePath)
	if err != nil {
		return err
	}
	for _, segment := range strings.Split(filepath.ToSlash(expanded), "/") {
		if segment == ".." {
			return fmt.Errorf("export base %q contains a %q segment", basePath, "..")
		}
	}

	return files.Export(expanded, vfs.ExportOptions{Atomic: true, Overwrite: true})
}

// expandHome replaces a leading "~/" (or bare "~") with the user's
// home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", path, err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// sortedKeys returns the keys of m in sorted order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
