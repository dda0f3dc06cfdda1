// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

package skillstore

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/skillforge/skillforge/lib/checksum"
)

// FormatVersion is the metadata format tag written into every bundle.
// Load refuses versions it does not understand rather than guessing.
const FormatVersion = "1.0"

// DefaultGeneratorVersion is recorded in metadata when the caller
// does not override it.
const DefaultGeneratorVersion = "0.2.0"

// ServerInfo describes the remote tool-providing service a skill was
// generated from. Opaque pass-through data: the store records it and
// hands it back, nothing more.
type ServerInfo struct {
	Name            string `json:"name"`
	Version         string `json:"version"`
	ProtocolVersion string `json:"protocol_version"`
}

// Tool describes one tool bundled into a skill. Opaque pass-through
// data, one per generated tool.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Checksums carries the module digest and the per-file digests of the
// generated tree, keyed by forward-slash relative path. The key set
// must exactly equal the files present under generated/ — verified on
// every load, never assumed.
type Checksums struct {
	Module    checksum.Digest            `json:"module"`
	Generated map[string]checksum.Digest `json:"generated"`
}

// Metadata is the persisted description of one stored bundle. It is
// written last during save, so its presence implies the rest of the
// directory is complete.
type Metadata struct {
	FormatVersion    string     `json:"format_version"`
	Server           ServerInfo `json:"server"`
	GeneratedAt      time.Time  `json:"generated_at"`
	GeneratorVersion string     `json:"generator_version"`
	Checksums        Checksums  `json:"checksums"`
	Tools            []Tool     `json:"tools"`
}

// writeMetadata serializes metadata as indented JSON at path.
func writeMetadata(path string, metadata *Metadata) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// readMetadata reads and parses a metadata file, distinguishing a
// missing file (ErrMissingFile), unparsable JSON (ErrInvalidMetadata),
// and an unsupported format version (ErrInvalidMetadata).
func readMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var metadata Metadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrInvalidMetadata, path, err)
	}
	if metadata.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: %s has format version %q, this store supports %q",
			ErrInvalidMetadata, path, metadata.FormatVersion, FormatVersion)
	}
	return &metadata, nil
}
