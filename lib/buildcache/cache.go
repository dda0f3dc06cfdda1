// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

package buildcache

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/skillforge/skillforge/lib/ref"
)

// Subdirectory names under the cache root. The three artifact classes
// are independent: no cross-consistency between them is promised or
// needed, since everything here is rebuildable.
const (
	moduleDir    = "module"
	generatedDir = "generated"
	metadataDir  = "metadata"
)

// Cache is the disposable store for rebuildable build intermediates:
// compiled modules, generated-code snapshots, and build metadata,
// keyed by skill name. It performs no integrity verification — it is
// a performance optimization, never a source of truth, and may be
// deleted wholesale at any time without affecting correctness.
type Cache struct {
	root string
}

// Open creates a Cache rooted at the given directory. The root and
// its three subdirectories are created eagerly so every later path
// derivation can assume they exist.
func Open(root string) (*Cache, error) {
	cache := &Cache{root: root}
	if err := cache.createLayout(); err != nil {
		return nil, err
	}
	return cache, nil
}

// createLayout creates the root plus the three subdirectories.
func (c *Cache) createLayout() error {
	for _, dir := range []string{
		c.root,
		filepath.Join(c.root, moduleDir),
		filepath.Join(c.root, generatedDir),
		filepath.Join(c.root, metadataDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating cache directory %s: %w", dir, err)
		}
	}
	return nil
}

// Entry is the set of per-key cache paths. The paths are derived, not
// checked: any of the three may or may not exist.
type Entry struct {
	// ModulePath is the cached compiled module file.
	ModulePath string

	// GeneratedDir is the cached generated-code snapshot directory.
	GeneratedDir string

	// MetadataPath is the cached build metadata file.
	MetadataPath string
}

// Entry derives the cache paths for key. The key passes the same
// validation as a durable store name — a cache key is just as capable
// of path traversal.
func (c *Cache) Entry(key string) (Entry, error) {
	parsed, err := ref.ParseName(key)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid cache key: %w", err)
	}
	name := parsed.String()
	return Entry{
		ModulePath:   filepath.Join(c.root, moduleDir, name+".bin"),
		GeneratedDir: filepath.Join(c.root, generatedDir, name),
		MetadataPath: filepath.Join(c.root, metadataDir, name+".json"),
	}, nil
}

// PutModule caches compiled module bytes for key.
func (c *Cache) PutModule(key string, module []byte) error {
	entry, err := c.Entry(key)
	if err != nil {
		return err
	}
	if err := os.WriteFile(entry.ModulePath, module, 0o644); err != nil {
		return fmt.Errorf("writing cached module %s: %w", entry.ModulePath, err)
	}
	return nil
}

// Module returns the cached module bytes for key, or (nil, false) on
// a miss. A read failure is a miss, not an error: the cache never
// blocks a rebuild.
func (c *Cache) Module(key string) ([]byte, bool) {
	entry, err := c.Entry(key)
	if err != nil {
		return nil, false
	}
	data, err := os.ReadFile(entry.ModulePath)
	if err != nil {
		return nil, false
	}
	return data, true
}

// PutMetadata caches build metadata bytes for key. The bytes are
// opaque to the cache.
func (c *Cache) PutMetadata(key string, metadata []byte) error {
	entry, err := c.Entry(key)
	if err != nil {
		return err
	}
	if err := os.WriteFile(entry.MetadataPath, metadata, 0o644); err != nil {
		return fmt.Errorf("writing cached metadata %s: %w", entry.MetadataPath, err)
	}
	return nil
}

// Metadata returns the cached metadata bytes for key, or (nil, false)
// on a miss.
func (c *Cache) Metadata(key string) ([]byte, bool) {
	entry, err := c.Entry(key)
	if err != nil {
		return nil, false
	}
	data, err := os.ReadFile(entry.MetadataPath)
	if err != nil {
		return nil, false
	}
	return data, true
}

// ClearEntity removes all three artifacts for key. Absence of any of
// them is not an error.
func (c *Cache) ClearEntity(key string) error {
	entry, err := c.Entry(key)
	if err != nil {
		return err
	}
	for _, path := range []string{entry.ModulePath, entry.MetadataPath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}
	if err := os.RemoveAll(entry.GeneratedDir); err != nil {
		return fmt.Errorf("removing %s: %w", entry.GeneratedDir, err)
	}
	return nil
}

// ClearAll deletes the entire cache root and recreates the empty
// layout, so "root plus three subdirectories exist" holds again the
// moment this returns.
func (c *Cache) ClearAll() error {
	if err := os.RemoveAll(c.root); err != nil {
		return fmt.Errorf("removing cache root %s: %w", c.root, err)
	}
	return c.createLayout()
}

// Stats reports cache contents. Derived from a fresh walk on every
// call — an O(n) scan, but immune to the counter-drift bugs that
// incremental bookkeeping invites.
type Stats struct {
	// ModuleCount is the number of cached module files.
	ModuleCount int

	// GeneratedCount is the number of cached generated-code snapshot
	// directories (per-key, not per-file).
	GeneratedCount int

	// MetadataCount is the number of cached metadata files.
	MetadataCount int

	// TotalBytes is the summed size of every regular file under the
	// cache root.
	TotalBytes int64
}

// Stats walks the three subdirectories and reports counts and total
// byte size.
func (c *Cache) Stats() (Stats, error) {
	var stats Stats

	moduleEntries, err := os.ReadDir(filepath.Join(c.root, moduleDir))
	if err != nil {
		return Stats{}, fmt.Errorf("reading %s: %w", moduleDir, err)
	}
	stats.ModuleCount = len(moduleEntries)

	generatedEntries, err := os.ReadDir(filepath.Join(c.root, generatedDir))
	if err != nil {
		return Stats{}, fmt.Errorf("reading %s: %w", generatedDir, err)
	}
	stats.GeneratedCount = len(generatedEntries)

	metadataEntries, err := os.ReadDir(filepath.Join(c.root, metadataDir))
	if err != nil {
		return Stats{}, fmt.Errorf("reading %s: %w", metadataDir, err)
	}
	stats.MetadataCount = len(metadataEntries)

	walkErr := filepath.WalkDir(c.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// A concurrently cleared entry is fine: skip, keep
			// counting.
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return nil
		}
		stats.TotalBytes += info.Size()
		return nil
	})
	if walkErr != nil {
		return Stats{}, fmt.Errorf("walking cache root: %w", walkErr)
	}
	return stats, nil
}
