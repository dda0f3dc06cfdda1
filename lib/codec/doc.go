// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides deterministic CBOR encoding for the
// skillpack archive header. Consumers import only this package, not
// the CBOR library directly, so encoder options are set exactly once.
package codec
