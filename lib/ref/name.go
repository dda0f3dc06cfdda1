// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import "fmt"

// Name identifies a stored skill or a build-cache entry. The wrapped
// string becomes a directory (or file) name under a store root, so
// validation is the path-traversal boundary for both stores: nothing
// that could escape or alias a directory entry is ever accepted.
//
// The zero value is invalid. Construct through [ParseName].
type Name struct {
	name string
}

// ParseName validates a raw skill name or cache key. Valid names are
// non-empty, are not "." or "..", and contain no slash, backslash, or
// control character. The same rule covers both the durable store and
// the ephemeral cache — a cache key is just as capable of traversal
// as an entity name.
func ParseName(raw string) (Name, error) {
	if raw == "" {
		return Name{}, fmt.Errorf("skill name is empty")
	}
	if raw == "." || raw == ".." {
		return Name{}, fmt.Errorf("skill name %q is a reserved path component", raw)
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '/' || c == '\\':
			return Name{}, fmt.Errorf("skill name %q contains path separator at position %d", raw, i)
		case c < 0x20 || c == 0x7F:
			// Covers NUL as well as tabs, newlines, and escapes.
			return Name{}, fmt.Errorf("skill name %q contains control character 0x%02x at position %d", raw, c, i)
		}
	}
	return Name{name: raw}, nil
}

// String returns the raw name.
func (n Name) String() string {
	return n.name
}

// IsZero reports whether the Name is the zero value.
func (n Name) IsZero() bool {
	return n.name == ""
}

// MarshalText implements encoding.TextMarshaler. Returns an error for
// the zero value, since serializing an empty name would produce
// ambiguous JSON.
func (n Name) MarshalText() ([]byte, error) {
	if n.name == "" {
		return nil, fmt.Errorf("cannot marshal zero Name")
	}
	return []byte(n.name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The input is
// validated through ParseName, so a Name decoded from metadata is as
// trustworthy as one constructed directly.
func (n *Name) UnmarshalText(data []byte) error {
	parsed, err := ParseName(string(data))
	if err != nil {
		return fmt.Errorf("unmarshal Name: %w", err)
	}
	*n = parsed
	return nil
}
