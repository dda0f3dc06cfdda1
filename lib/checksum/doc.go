// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

// Package checksum computes and verifies BLAKE3 content digests in
// the canonical "blake3:<hex>" form used throughout the skill store.
//
// BLAKE3 was chosen over SHA-256 for hashing speed on large generated
// trees; the algorithm prefix in the digest string keeps the format
// self-describing should that choice ever change.
package checksum
