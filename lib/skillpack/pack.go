// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

package skillpack

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/skillforge/skillforge/lib/codec"
	"github.com/skillforge/skillforge/lib/skillstore"
	"github.com/skillforge/skillforge/lib/vfs"
)

// Archive format constants.
const (
	// archiveVersion is the skillpack format version byte embedded in
	// the magic.
	archiveVersion = 1

	// maxHeaderSize caps the declared header length. A header larger
	// than this is a corrupt or hostile file, not a big bundle — the
	// header holds paths and digests, not content.
	maxHeaderSize = 16 << 20
)

// archiveMagic is the 8-byte file signature: "SKLPACK" + version.
var archiveMagic = [8]byte{'S', 'K', 'L', 'P', 'A', 'C', 'K', archiveVersion}

// fileRecord describes one generated file's payload in the archive.
// Payloads follow the header in record order.
type fileRecord struct {
	Path             string `cbor:"path"`
	Compression      uint8  `cbor:"compression"`
	CompressedSize   uint64 `cbor:"compressed_size"`
	UncompressedSize uint64 `cbor:"uncompressed_size"`
}

// moduleRecord describes the compiled module payload, stored after
// all generated-file payloads.
type moduleRecord struct {
	Compression      uint8  `cbor:"compression"`
	CompressedSize   uint64 `cbor:"compressed_size"`
	UncompressedSize uint64 `cbor:"uncompressed_size"`
}

// header is the CBOR document between the magic and the payloads. It
// embeds the bundle's full store metadata, so an unpacked archive
// carries the same checksums the durable store verified.
type header struct {
	Metadata *skillstore.Metadata `cbor:"metadata"`
	Files    []fileRecord         `cbor:"files"`
	Module   moduleRecord         `cbor:"module"`
}

// Pack writes bundle as a single self-contained archive to w.
// Generated files are compressed with the requested algorithm,
// falling back per file to no compression when that would not shrink
// it. Every payload is verified against the bundle's own checksums
// before it is written — a bundle that would not load is not
// packable.
func Pack(bundle *skillstore.LoadedBundle, w io.Writer, compression CompressionTag) error {
	if bundle.Metadata == nil {
		return fmt.Errorf("packing bundle: metadata is nil")
	}

	var records []fileRecord
	var payloads [][]byte
	for _, path := range bundle.Files.Paths() {
		relative := path.Relative()
		content, err := bundle.Files.ReadFile(path.String())
		if err != nil {
			return fmt.Errorf("reading %s from bundle: %w", path, err)
		}

		expected, recorded := bundle.Metadata.Checksums.Generated[relative]
		if !recorded {
			return fmt.Errorf("packing %s: no checksum recorded", relative)
		}
		if err := expected.Verify([]byte(content)); err != nil {
			return fmt.Errorf("packing %s: %w", relative, err)
		}

		payload, actualTag, err := compress([]byte(content), compression)
		if err != nil {
			return fmt.Errorf("compressing %s: %w", relative, err)
		}
		records = append(records, fileRecord{
			Path:             relative,
			Compression:      uint8(actualTag),
			CompressedSize:   uint64(len(payload)),
			UncompressedSize: uint64(len(content)),
		})
		payloads = append(payloads, payload)
	}
	if len(records) != len(bundle.Metadata.Checksums.Generated) {
		return fmt.Errorf("packing: bundle has %d files, checksum map has %d",
			len(records), len(bundle.Metadata.Checksums.Generated))
	}

	if err := bundle.Metadata.Checksums.Module.Verify(bundle.Module); err != nil {
		return fmt.Errorf("packing module: %w", err)
	}
	modulePayload, moduleTag, err := compress(bundle.Module, compression)
	if err != nil {
		return fmt.Errorf("compressing module: %w", err)
	}

	headerBytes, err := codec.Marshal(&header{
		Metadata: bundle.Metadata,
		Files:    records,
		Module: moduleRecord{
			Compression:      uint8(moduleTag),
			CompressedSize:   uint64(len(modulePayload)),
			UncompressedSize: uint64(len(bundle.Module)),
		},
	})
	if err != nil {
		return fmt.Errorf("marshaling archive header: %w", err)
	}

	if _, err := w.Write(archiveMagic[:]); err != nil {
		return fmt.Errorf("writing archive magic: %w", err)
	}
	var headerLength [4]byte
	binary.LittleEndian.PutUint32(headerLength[:], uint32(len(headerBytes)))
	if _, err := w.Write(headerLength[:]); err != nil {
		return fmt.Errorf("writing header length: %w", err)
	}
	if _, err := w.Write(headerBytes); err != nil {
		return fmt.Errorf("writing archive header: %w", err)
	}
	for i, payload := range payloads {
		if _, err := w.Write(payload); err != nil {
			return fmt.Errorf("writing payload for %s: %w", records[i].Path, err)
		}
	}
	if _, err := w.Write(modulePayload); err != nil {
		return fmt.Errorf("writing module payload: %w", err)
	}
	return nil
}

// Unpack reads an archive and returns the verified bundle. Every
// payload is decompressed and its digest recomputed against the
// embedded metadata — a flipped byte anywhere in the archive fails
// here, exactly as it would on a store load.
func Unpack(r io.Reader) (*skillstore.LoadedBundle, error) {
	var magic [8]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("reading archive magic: %w", err)
	}
	if magic != archiveMagic {
		return nil, fmt.Errorf("not a skillpack archive (magic %q)", magic[:])
	}

	var headerLength [4]byte
	if _, err := io.ReadFull(r, headerLength[:]); err != nil {
		return nil, fmt.Errorf("reading header length: %w", err)
	}
	declared := binary.LittleEndian.Uint32(headerLength[:])
	if declared == 0 || declared > maxHeaderSize {
		return nil, fmt.Errorf("archive header length %d is out of range", declared)
	}

	headerBytes := make([]byte, declared)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, fmt.Errorf("reading archive header: %w", err)
	}
	var head header
	if err := codec.Unmarshal(headerBytes, &head); err != nil {
		return nil, fmt.Errorf("parsing archive header: %w", err)
	}
	if head.Metadata == nil {
		return nil, fmt.Errorf("archive header has no metadata")
	}
	if head.Metadata.FormatVersion != skillstore.FormatVersion {
		return nil, fmt.Errorf("archive metadata format version %q is not supported (want %q)",
			head.Metadata.FormatVersion, skillstore.FormatVersion)
	}
	if len(head.Files) != len(head.Metadata.Checksums.Generated) {
		return nil, fmt.Errorf("archive has %d file records, checksum map has %d",
			len(head.Files), len(head.Metadata.Checksums.Generated))
	}

	files := vfs.New()
	for _, record := range head.Files {
		content, err := readPayload(r, record.Compression, record.CompressedSize, record.UncompressedSize)
		if err != nil {
			return nil, fmt.Errorf("payload for %s: %w", record.Path, err)
		}

		expected, recorded := head.Metadata.Checksums.Generated[record.Path]
		if !recorded {
			return nil, fmt.Errorf("archive file %q not in checksum map", record.Path)
		}
		if err := expected.Verify(content); err != nil {
			return nil, fmt.Errorf("archive file %s: %w", record.Path, err)
		}
		if err := files.AddFile("/"+record.Path, string(content)); err != nil {
			return nil, fmt.Errorf("archive path %q: %w", record.Path, err)
		}
	}
	// Duplicate records would collapse in the VFS and evade the
	// record-count check above.
	if files.Len() != len(head.Files) {
		return nil, fmt.Errorf("archive contains duplicate file records")
	}

	module, err := readPayload(r, head.Module.Compression, head.Module.CompressedSize, head.Module.UncompressedSize)
	if err != nil {
		return nil, fmt.Errorf("module payload: %w", err)
	}
	if err := head.Metadata.Checksums.Module.Verify(module); err != nil {
		return nil, fmt.Errorf("archive module: %w", err)
	}

	return &skillstore.LoadedBundle{Metadata: head.Metadata, Files: files, Module: module}, nil
}

// readPayload reads and decompresses one payload.
func readPayload(r io.Reader, compression uint8, compressedSize, uncompressedSize uint64) ([]byte, error) {
	if compressedSize > maxPayloadSize || uncompressedSize > maxPayloadSize {
		return nil, fmt.Errorf("payload size %d/%d is out of range", compressedSize, uncompressedSize)
	}
	payload := make([]byte, compressedSize)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("reading %d payload bytes: %w", compressedSize, err)
	}
	return decompress(payload, CompressionTag(compression), int(uncompressedSize))
}

// maxPayloadSize caps a single declared payload size (1 GiB). Guards
// allocation against a corrupt size field, not a policy on bundles.
const maxPayloadSize = 1 << 30

// PackFile packs bundle into a new file at path, written via a
// temporary file and rename so a failed pack leaves no partial
// archive under the final name.
func PackFile(bundle *skillstore.LoadedBundle, path string, compression CompressionTag) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".skillpack-*")
	if err != nil {
		return fmt.Errorf("creating temp archive: %w", err)
	}
	tmpPath := tmpFile.Name()

	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if err := Pack(bundle, tmpFile, compression); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp archive: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming archive to %s: %w", path, err)
	}
	committed = true
	return nil
}

// UnpackFile unpacks the archive at path.
func UnpackFile(path string) (*skillstore.LoadedBundle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	defer file.Close()
	bundle, err := Unpack(file)
	if err != nil {
		return nil, fmt.Errorf("unpacking %s: %w", path, err)
	}
	return bundle, nil
}
