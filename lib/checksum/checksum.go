// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

package checksum

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zeebo/blake3"
)

// Algorithm is the content-hash algorithm name carried in every
// digest string. Changing it invalidates all stored checksums, so it
// is a format constant, not a configuration knob.
const Algorithm = "blake3"

// digestSize is the BLAKE3 output size in bytes.
const digestSize = 32

// Digest is a content hash in its canonical string form,
// "blake3:<64 hex chars>". This is the representation stored in
// bundle metadata and compared on load; keeping it a string makes it
// directly serializable and comparable with ==.
type Digest string

// Sum computes the BLAKE3 digest of data.
func Sum(data []byte) Digest {
	sum := blake3.Sum256(data)
	return format(sum[:])
}

// SumReader computes the digest of everything readable from r.
func SumReader(r io.Reader) (Digest, error) {
	hasher := blake3.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return "", fmt.Errorf("hashing stream: %w", err)
	}
	return format(hasher.Sum(nil)), nil
}

// SumFile computes the digest of the file at path. The file is
// streamed through the hash in chunks to keep memory usage constant
// regardless of file size.
func SumFile(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	digest, err := SumReader(file)
	if err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return digest, nil
}

// Parse validates a digest string. Returns an error if the algorithm
// prefix is missing or unknown, or the hex part is not a valid
// 64-character encoding of 32 bytes.
func Parse(raw string) (Digest, error) {
	algorithm, hexPart, found := strings.Cut(raw, ":")
	if !found {
		return "", fmt.Errorf("digest %q has no algorithm prefix", raw)
	}
	if algorithm != Algorithm {
		return "", fmt.Errorf("digest algorithm %q is not supported (want %q)", algorithm, Algorithm)
	}
	decoded, err := hex.DecodeString(hexPart)
	if err != nil {
		return "", fmt.Errorf("parsing digest hex: %w", err)
	}
	if len(decoded) != digestSize {
		return "", fmt.Errorf("digest is %d bytes, want %d", len(decoded), digestSize)
	}
	return Digest(raw), nil
}

// String returns the canonical digest string.
func (d Digest) String() string {
	return string(d)
}

// Verify recomputes the digest of data and compares it to d. A
// mismatch returns an error naming both digests; it never silently
// passes possibly-corrupt bytes through.
func (d Digest) Verify(data []byte) error {
	computed := Sum(data)
	if computed != d {
		return fmt.Errorf("checksum mismatch: stored %s, computed %s", d, computed)
	}
	return nil
}

// format renders a raw digest as the canonical string.
func format(sum []byte) Digest {
	return Digest(Algorithm + ":" + hex.EncodeToString(sum))
}

// Writer tees written bytes into a BLAKE3 hasher so the digest of a
// file is computed as it is written, without a second read pass.
type Writer struct {
	destination io.Writer
	hasher      *blake3.Hasher
}

// NewWriter wraps destination. Writes go to destination and into the
// hash; call [Writer.Digest] after the final write.
func NewWriter(destination io.Writer) *Writer {
	return &Writer{
		destination: destination,
		hasher:      blake3.New(),
	}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.destination.Write(p)
	// Hash only the bytes that actually reached the destination, so a
	// short write does not desynchronize the digest from the file.
	if n > 0 {
		w.hasher.Write(p[:n])
	}
	return n, err
}

// Digest returns the digest of all bytes written so far.
func (w *Writer) Digest() Digest {
	return format(w.hasher.Sum(nil))
}
