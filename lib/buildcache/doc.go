// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

// Package buildcache is the ephemeral sibling of the durable skill
// store: a best-effort, per-key cache of compiled modules,
// generated-code snapshots, and build metadata.
//
// Layout under a separate cache root:
//
//	<cache_root>/module/<key>.bin
//	<cache_root>/generated/<key>/...
//	<cache_root>/metadata/<key>.json
//
// Nothing here is verified and everything is regenerable from the
// durable store or from scratch, so the cache can be cleared at any
// time without affecting correctness. Keys pass the same validation
// as durable store names.
package buildcache
