// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

package skillstore

import "errors"

// Store error kinds. Every store operation returns exactly one of
// these wrapped with path and skill context, so callers can separate
// "already exists" (benign under concurrent saves) from "corrupt"
// (needs intervention) from "absent" (a normal miss) with errors.Is.
// Plain I/O failures are wrapped os errors carrying the offending
// path and match none of them.
var (
	// ErrInvalidName reports a skill name or cache key that failed
	// validation. Returned before any I/O is attempted.
	ErrInvalidName = errors.New("invalid skill name")

	// ErrAlreadyExists reports a save for a skill that is already
	// stored. Exactly one of any set of concurrent saves for the same
	// name succeeds; the rest get this.
	ErrAlreadyExists = errors.New("skill already exists")

	// ErrNotFound reports an absent skill directory.
	ErrNotFound = errors.New("skill not found")

	// ErrMissingFile reports an expected file absent inside an
	// otherwise-present skill directory.
	ErrMissingFile = errors.New("bundle file missing")

	// ErrChecksumMismatch reports content whose recomputed digest
	// does not match the stored one: corruption or tampering.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrInvalidMetadata reports unparsable metadata, an unsupported
	// format version, or a generated tree that disagrees with the
	// checksum map.
	ErrInvalidMetadata = errors.New("invalid bundle metadata")
)
