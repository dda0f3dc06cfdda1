// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

// Package vfs implements the in-memory virtual filesystem used to
// stage generated skill files before they are persisted.
//
// A [VFS] maps validated absolute virtual paths ([FilePath]) to file
// contents. Virtual paths are forward-slash and absolute on every
// host OS; translation to host separators happens only inside
// [VFS.Export], at the disk boundary. Path validation fails closed:
// no FilePath value with a ".." segment, a control byte, or a
// relative form can exist.
package vfs
