// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

// Package skillpack reads and writes the single-file distribution
// format for skill bundles.
//
// An archive is the 8-byte magic "SKLPACK\x01", a 4-byte header
// length, a deterministic CBOR header (the bundle's store metadata
// plus a payload index with per-file compression tags), and the
// concatenated payloads: generated files in index order, then the
// compiled module. Unpack re-verifies every digest against the
// embedded metadata, so an archive gives the same tamper guarantees
// as a store load.
package skillpack
