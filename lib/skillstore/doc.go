// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

// Package skillstore persists generated skill bundles durably, with
// checksum verification on every load.
//
// On disk, each bundle is one directory under the store root:
//
//	<root>/<name>/metadata.json
//	<root>/<name>/generated/<relative/path/as/stored>
//	<root>/<name>/module.bin
//
// The directory is either fully present and internally consistent or
// entirely absent. Save claims the directory with one exclusive
// create (so concurrent saves race cleanly), writes content while
// hashing it, writes metadata last, and removes everything on any
// early exit before the final write. Load recomputes every digest and
// cross-checks the checksum map against the files actually on disk in
// both directions.
//
// One implementation serves any bundle kind: the store is
// parameterized over a label ("skill" by default) rather than
// duplicated per kind.
package skillstore
