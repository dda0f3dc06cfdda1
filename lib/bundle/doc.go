// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

// Package bundle assembles generated skill files into a virtual
// filesystem ready for the store.
//
// [Builder] is the fluent entry point: generated (path, content)
// pairs go in via [Builder.AddFile], [Builder.AddFiles], or
// [Builder.FromGeneratedCode]; the assembled [vfs.VFS] comes out of
// [Builder.Build]. Path errors accumulate rather than failing fast,
// so a chained construction runs to completion and reports its first
// error exactly once.
package bundle
