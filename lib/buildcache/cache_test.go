// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

package buildcache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := Open(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return cache
}

func requireLayout(t *testing.T, root string) {
	t.Helper()
	for _, dir := range []string{"", "module", "generated", "metadata"} {
		info, err := os.Stat(filepath.Join(root, dir))
		if err != nil {
			t.Errorf("cache directory %q missing: %v", dir, err)
		} else if !info.IsDir() {
			t.Errorf("cache entry %q is not a directory", dir)
		}
	}
}

func TestOpenCreatesLayout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "cache")
	if _, err := Open(root); err != nil {
		t.Fatal(err)
	}
	requireLayout(t, root)
}

func TestEntryPaths(t *testing.T) {
	cache := newTestCache(t)

	entry, err := cache.Entry("acme")
	if err != nil {
		t.Fatalf("Entry failed: %v", err)
	}
	if filepath.Base(entry.ModulePath) != "acme.bin" {
		t.Errorf("ModulePath = %q", entry.ModulePath)
	}
	if filepath.Base(entry.GeneratedDir) != "acme" {
		t.Errorf("GeneratedDir = %q", entry.GeneratedDir)
	}
	if filepath.Base(entry.MetadataPath) != "acme.json" {
		t.Errorf("MetadataPath = %q", entry.MetadataPath)
	}
}

func TestEntryRejectsInvalidKeys(t *testing.T) {
	cache := newTestCache(t)
	for _, key := range []string{"", ".", "..", "a/b", `a\b`, "ctl\x02"} {
		if _, err := cache.Entry(key); err == nil {
			t.Errorf("Entry(%q) succeeded, want error", key)
		}
	}
}

func TestModuleRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	module := []byte{0x00, 0x61, 0x73, 0x6d}

	if _, ok := cache.Module("acme"); ok {
		t.Error("Module hit before Put")
	}
	if err := cache.PutModule("acme", module); err != nil {
		t.Fatalf("PutModule failed: %v", err)
	}
	got, ok := cache.Module("acme")
	if !ok {
		t.Fatal("Module miss after Put")
	}
	if !bytes.Equal(got, module) {
		t.Error("cached module bytes differ")
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	metadata := []byte(`{"compiled_at":"2025-01-01T00:00:00Z"}`)

	if err := cache.PutMetadata("acme", metadata); err != nil {
		t.Fatalf("PutMetadata failed: %v", err)
	}
	got, ok := cache.Metadata("acme")
	if !ok || !bytes.Equal(got, metadata) {
		t.Errorf("Metadata = %q, %v", got, ok)
	}
}

func TestClearEntity(t *testing.T) {
	cache := newTestCache(t)

	if err := cache.PutModule("acme", []byte{1}); err != nil {
		t.Fatal(err)
	}
	if err := cache.PutMetadata("acme", []byte("{}")); err != nil {
		t.Fatal(err)
	}
	entry, err := cache.Entry("acme")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(entry.GeneratedDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(entry.GeneratedDir, "index.ts"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Another key survives the clear.
	if err := cache.PutModule("other", []byte{2}); err != nil {
		t.Fatal(err)
	}

	if err := cache.ClearEntity("acme"); err != nil {
		t.Fatalf("ClearEntity failed: %v", err)
	}
	if _, ok := cache.Module("acme"); ok {
		t.Error("module survived ClearEntity")
	}
	if _, ok := cache.Metadata("acme"); ok {
		t.Error("metadata survived ClearEntity")
	}
	if _, err := os.Stat(entry.GeneratedDir); !os.IsNotExist(err) {
		t.Error("generated snapshot survived ClearEntity")
	}
	if _, ok := cache.Module("other"); !ok {
		t.Error("ClearEntity removed an unrelated key")
	}

	// Clearing an absent key is not an error.
	if err := cache.ClearEntity("never-cached"); err != nil {
		t.Errorf("ClearEntity of absent key failed: %v", err)
	}
}

func TestClearAll(t *testing.T) {
	cache := newTestCache(t)
	if err := cache.PutModule("acme", []byte{1}); err != nil {
		t.Fatal(err)
	}

	if err := cache.ClearAll(); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}
	// The empty layout exists again immediately.
	requireLayout(t, cache.root)
	if _, ok := cache.Module("acme"); ok {
		t.Error("module survived ClearAll")
	}

	// The cache is usable right away.
	if err := cache.PutModule("acme", []byte{2}); err != nil {
		t.Errorf("Put after ClearAll failed: %v", err)
	}
}

func TestStats(t *testing.T) {
	cache := newTestCache(t)

	empty, err := cache.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if empty != (Stats{}) {
		t.Errorf("empty cache stats = %+v", empty)
	}

	if err := cache.PutModule("a", make([]byte, 100)); err != nil {
		t.Fatal(err)
	}
	if err := cache.PutModule("b", make([]byte, 50)); err != nil {
		t.Fatal(err)
	}
	if err := cache.PutMetadata("a", make([]byte, 10)); err != nil {
		t.Fatal(err)
	}
	entry, err := cache.Entry("a")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(entry.GeneratedDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(entry.GeneratedDir, "index.ts"), make([]byte, 40), 0o644); err != nil {
		t.Fatal(err)
	}

	stats, err := cache.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.ModuleCount != 2 {
		t.Errorf("ModuleCount = %d, want 2", stats.ModuleCount)
	}
	if stats.GeneratedCount != 1 {
		t.Errorf("GeneratedCount = %d, want 1", stats.GeneratedCount)
	}
	if stats.MetadataCount != 1 {
		t.Errorf("MetadataCount = %d, want 1", stats.MetadataCount)
	}
	if stats.TotalBytes != 200 {
		t.Errorf("TotalBytes = %d, want 200", stats.TotalBytes)
	}
}
