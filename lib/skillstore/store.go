// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

package skillstore

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/skillforge/skillforge/lib/checksum"
	"github.com/skillforge/skillforge/lib/clock"
	"github.com/skillforge/skillforge/lib/ref"
	"github.com/skillforge/skillforge/lib/vfs"
)

// File and directory names inside each skill directory.
const (
	metadataFile = "metadata.json"
	generatedDir = "generated"
	moduleFile   = "module.bin"
)

// DefaultKind labels entries in the default store. A second store
// over the same implementation can carry a different label (for
// example "plugin") — the label shows up in log fields and error
// text, nothing else diverges.
const DefaultKind = "skill"

// Store is the durable, integrity-verified bundle repository: one
// directory per skill name under a configurable root, each holding a
// metadata file, a generated-files subtree, and a compiled module.
//
// The store spawns no goroutines and holds no locks. Concurrent saves
// for the same name race on one exclusive directory create — exactly
// one wins. Loads see either an absent directory or a fully committed
// one; the cleanup guard in Save makes any in-between state
// unobservable.
type Store struct {
	root             string
	kind             string
	generatorVersion string
	clock            clock.Clock
	logger           *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithKind sets the entry label used in log fields and error text.
func WithKind(kind string) Option {
	return func(s *Store) { s.kind = kind }
}

// WithGeneratorVersion sets the generator version recorded in saved
// metadata.
func WithGeneratorVersion(version string) Option {
	return func(s *Store) { s.generatorVersion = version }
}

// WithClock sets the time source for metadata timestamps.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLogger sets the logger used for per-entry warnings in List.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Open creates a Store rooted at the given directory, creating the
// root if it does not exist.
func Open(root string, options ...Option) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating store root %s: %w", root, err)
	}
	store := &Store{
		root:             root,
		kind:             DefaultKind,
		generatorVersion: DefaultGeneratorVersion,
		clock:            clock.Real(),
	}
	for _, option := range options {
		option(store)
	}
	return store, nil
}

// log returns the configured logger, or a discard logger.
func (s *Store) log() *slog.Logger {
	if s.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.logger
}

// Path returns the directory a skill of the given name would occupy.
// Pure computation plus name validation; no existence check.
func (s *Store) Path(name string) (string, error) {
	parsed, err := ref.ParseName(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	return filepath.Join(s.root, parsed.String()), nil
}

// Exists reports whether a committed bundle is stored under name.
// Invalid names resolve to false rather than an error.
func (s *Store) Exists(name string) bool {
	skillDir, err := s.Path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(skillDir)
	return err == nil && info.IsDir()
}

// Save persists a bundle durably: the generated files from the VFS,
// the compiled module bytes, and metadata describing both, under one
// new directory for name. Returns the metadata as written.
//
// The skill directory is claimed with one exclusive create — a
// concurrent save for the same name gets ErrAlreadyExists, never a
// silent overwrite. From that point until the final metadata write
// commits, a cleanup guard removes the directory on any early exit,
// so a failed save leaves nothing behind.
func (s *Store) Save(name string, files *vfs.VFS, module []byte, server ServerInfo, tools []Tool) (*Metadata, error) {
	skillDir, err := s.Path(name)
	if err != nil {
		return nil, err
	}

	// os.Mkdir (not MkdirAll) is the atomic exclusive create: it
	// fails on an existing directory instead of silently succeeding.
	// An existence check followed by a create would reintroduce the
	// race this single call eliminates.
	if err := os.Mkdir(skillDir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s %q at %s", ErrAlreadyExists, s.kind, name, skillDir)
		}
		return nil, fmt.Errorf("creating %s directory %s: %w", s.kind, skillDir, err)
	}

	committed := false
	defer func() {
		if !committed {
			os.RemoveAll(skillDir)
		}
	}()

	generatedChecksums, err := s.writeGenerated(skillDir, files)
	if err != nil {
		return nil, err
	}

	modulePath := filepath.Join(skillDir, moduleFile)
	if err := os.WriteFile(modulePath, module, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", modulePath, err)
	}

	metadata := &Metadata{
		FormatVersion:    FormatVersion,
		Server:           server,
		GeneratedAt:      s.clock.Now().UTC(),
		GeneratorVersion: s.generatorVersion,
		Checksums: Checksums{
			Module:    checksum.Sum(module),
			Generated: generatedChecksums,
		},
		Tools: tools,
	}

	// Metadata is written last: its presence implies every other file
	// in the directory is complete.
	if err := writeMetadata(filepath.Join(skillDir, metadataFile), metadata); err != nil {
		return nil, err
	}

	committed = true
	return metadata, nil
}

// writeGenerated writes every VFS file under generated/, hashing each
// as it is written, and returns the relative-path → digest map.
func (s *Store) writeGenerated(skillDir string, files *vfs.VFS) (map[string]checksum.Digest, error) {
	base := filepath.Join(skillDir, generatedDir)
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", base, err)
	}

	checksums := make(map[string]checksum.Digest, files.Len())
	for _, path := range files.Paths() {
		relative := path.Relative()
		hostPath := filepath.Join(base, filepath.FromSlash(relative))
		if err := os.MkdirAll(filepath.Dir(hostPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating directory for %s: %w", hostPath, err)
		}

		content, err := files.ReadFile(path.String())
		if err != nil {
			return nil, fmt.Errorf("reading %s from bundle: %w", path, err)
		}

		file, err := os.Create(hostPath)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", hostPath, err)
		}
		hashing := checksum.NewWriter(file)
		if _, err := hashing.Write([]byte(content)); err != nil {
			file.Close()
			return nil, fmt.Errorf("writing %s: %w", hostPath, err)
		}
		if err := file.Close(); err != nil {
			return nil, fmt.Errorf("closing %s: %w", hostPath, err)
		}
		checksums[relative] = hashing.Digest()
	}
	return checksums, nil
}

// LoadedBundle is a fully verified bundle in memory: metadata, the
// rehydrated generated files, and the raw module bytes. Every digest
// was recomputed and matched at construction.
type LoadedBundle struct {
	Metadata *Metadata
	Files    *vfs.VFS
	Module   []byte
}

// Load reads the bundle stored under name, verifying the module
// digest, every generated file's digest, and the exact correspondence
// between the checksum map and the files actually on disk. Corrupt or
// tampered content is a hard failure, never a silent pass-through.
func (s *Store) Load(name string) (*LoadedBundle, error) {
	skillDir, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(skillDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s %q", ErrNotFound, s.kind, name)
	}

	metadata, err := readMetadata(filepath.Join(skillDir, metadataFile))
	if err != nil {
		return nil, err
	}

	modulePath := filepath.Join(skillDir, moduleFile)
	module, err := os.ReadFile(modulePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, modulePath)
		}
		return nil, fmt.Errorf("reading %s: %w", modulePath, err)
	}
	if err := metadata.Checksums.Module.Verify(module); err != nil {
		return nil, fmt.Errorf("%w: module %s: %v", ErrChecksumMismatch, modulePath, err)
	}

	files, err := s.loadGenerated(skillDir, metadata)
	if err != nil {
		return nil, err
	}

	return &LoadedBundle{Metadata: metadata, Files: files, Module: module}, nil
}

// loadGenerated walks generated/, verifies every file against the
// checksum map, and confirms the map and the tree describe the same
// file set in both directions.
func (s *Store) loadGenerated(skillDir string, metadata *Metadata) (*vfs.VFS, error) {
	base := filepath.Join(skillDir, generatedDir)
	if _, err := os.Stat(base); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingFile, base)
	}

	files := vfs.New()
	found := 0
	walkErr := filepath.WalkDir(base, func(hostPath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walking %s: %w", hostPath, err)
		}
		if entry.IsDir() {
			return nil
		}

		hostRelative, err := filepath.Rel(base, hostPath)
		if err != nil {
			return fmt.Errorf("relativizing %s: %w", hostPath, err)
		}
		relative := filepath.ToSlash(hostRelative)

		expected, recorded := metadata.Checksums.Generated[relative]
		if !recorded {
			return fmt.Errorf("%w: file %q on disk but not in checksum map", ErrInvalidMetadata, relative)
		}

		content, err := os.ReadFile(hostPath)
		if err != nil {
			return fmt.Errorf("reading %s: %w", hostPath, err)
		}
		if err := expected.Verify(content); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrChecksumMismatch, relative, err)
		}

		if err := files.AddFile("/"+relative, string(content)); err != nil {
			return fmt.Errorf("%w: stored path %q: %v", ErrInvalidMetadata, relative, err)
		}
		found++
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	// Count check: a file recorded in the map but absent on disk was
	// never visited by the walk.
	if found != len(metadata.Checksums.Generated) {
		for relative := range metadata.Checksums.Generated {
			if !files.Exists("/" + relative) {
				return nil, fmt.Errorf("%w: %s recorded in checksum map but absent", ErrMissingFile, relative)
			}
		}
		return nil, fmt.Errorf("%w: found %d generated files, checksum map has %d",
			ErrInvalidMetadata, found, len(metadata.Checksums.Generated))
	}
	return files, nil
}

// Summary describes one stored bundle for listings.
type Summary struct {
	Name        string
	Server      ServerInfo
	GeneratedAt time.Time
	ToolCount   int
}

// List enumerates stored bundles in name order. An entry whose
// metadata is missing or malformed is skipped with a warning — one
// corrupt bundle must not hide the healthy ones.
func (s *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("reading store root %s: %w", s.root, err)
	}

	summaries := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		metadata, err := readMetadata(filepath.Join(s.root, name, metadataFile))
		if err != nil {
			s.log().Warn("skipping entry with unreadable metadata",
				"kind", s.kind, "name", name, "error", err)
			continue
		}
		summaries = append(summaries, Summary{
			Name:        name,
			Server:      metadata.Server,
			GeneratedAt: metadata.GeneratedAt,
			ToolCount:   len(metadata.Tools),
		})
	}
	return summaries, nil
}

// Remove deletes a stored bundle recursively. Returns ErrNotFound if
// nothing is stored under name.
func (s *Store) Remove(name string) error {
	skillDir, err := s.Path(name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(skillDir); err != nil {
		return fmt.Errorf("%w: %s %q", ErrNotFound, s.kind, name)
	}
	if err := os.RemoveAll(skillDir); err != nil {
		return fmt.Errorf("removing %s: %w", skillDir, err)
	}
	return nil
}
