// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

package vfs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"
)

// ExportOptions control how a VFS is written to a real directory.
type ExportOptions struct {
	// Atomic writes each file to a temporary name in its target
	// directory and renames it into place, so a crashed export never
	// leaves a partially written file under the final name.
	Atomic bool

	// Overwrite replaces existing files. When false, existing files
	// are skipped untouched.
	Overwrite bool

	// Workers is the maximum number of concurrent file writes. Zero
	// or one writes sequentially. Directory creation is always
	// sequential regardless — concurrent MkdirAll on shared ancestors
	// is a race not worth having.
	Workers int
}

// Export writes every file to disk under base. The write is
// two-phase: first the full set of ancestor directories is computed
// in a single pass over all stored paths, deduplicated, and created;
// only then are files written. Host path separators appear only here,
// at the disk boundary.
func (v *VFS) Export(base string, options ExportOptions) error {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return fmt.Errorf("creating export base %s: %w", base, err)
	}

	paths := v.Paths()

	// Phase 1: ancestor directories, deduplicated across all files.
	directories := make(map[string]struct{})
	for _, path := range paths {
		if dir := path.Dir(); dir != "/" {
			directories[dir] = struct{}{}
		}
	}
	ordered := make([]string, 0, len(directories))
	for dir := range directories {
		ordered = append(ordered, dir)
	}
	// Lexical order puts parents before children, so each MkdirAll
	// does minimal work.
	sort.Strings(ordered)
	for _, dir := range ordered {
		hostDir := filepath.Join(base, filepath.FromSlash(dir[1:]))
		if err := os.MkdirAll(hostDir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", hostDir, err)
		}
	}

	// Phase 2: file writes. All directories exist, so writes are
	// independent and may proceed concurrently.
	if options.Workers > 1 {
		var group errgroup.Group
		group.SetLimit(options.Workers)
		for _, path := range paths {
			group.Go(func() error {
				return v.exportFile(base, path, options)
			})
		}
		return group.Wait()
	}

	for _, path := range paths {
		if err := v.exportFile(base, path, options); err != nil {
			return err
		}
	}
	return nil
}

// exportFile writes a single file under base according to options.
func (v *VFS) exportFile(base string, path FilePath, options ExportOptions) error {
	hostPath := filepath.Join(base, filepath.FromSlash(path.Relative()))

	if !options.Overwrite {
		if _, err := os.Lstat(hostPath); err == nil {
			return nil
		}
	}

	content := []byte(v.files[path])
	if !options.Atomic {
		if err := os.WriteFile(hostPath, content, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", hostPath, err)
		}
		return nil
	}
	return writeFileAtomic(hostPath, content)
}

// writeFileAtomic writes content to a temporary file in the target's
// directory and renames it into place. The temporary file is removed
// on any error path.
func writeFileAtomic(hostPath string, content []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(hostPath), "."+filepath.Base(hostPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", hostPath, err)
	}
	tmpPath := tmpFile.Name()

	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("setting mode on %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, hostPath); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, hostPath, err)
	}
	committed = true
	return nil
}
