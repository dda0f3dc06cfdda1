// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides validated identifier types for Skillforge.
//
// [Name] is the single validation point for every string that becomes
// a directory entry under a store root: skill names in the durable
// store and keys in the ephemeral build cache. Both stores parse raw
// input through [ParseName] before deriving any filesystem path, so
// the traversal rule exists exactly once.
package ref
