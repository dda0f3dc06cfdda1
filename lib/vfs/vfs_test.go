// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

package vfs

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseFilePathValid(t *testing.T) {
	for _, raw := range []string{
		"/index.ts",
		"/src/tools/get_weather.ts",
		"/deep/a/b/c/d.txt",
		"/with space.md",
		"/.hidden",
	} {
		path, err := ParseFilePath(raw)
		if err != nil {
			t.Errorf("ParseFilePath(%q) failed: %v", raw, err)
			continue
		}
		if path.String() != raw {
			t.Errorf("ParseFilePath(%q).String() = %q", raw, path.String())
		}
	}
}

func TestParseFilePathInvalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"/",
		"relative.ts",
		"./relative.ts",
		"/a/../b",
		"/../escape",
		"/a/./b",
		"/a//b",
		"/trailing/",
		"/nul\x00byte",
		"/back\\slash",
		"/tab\tchar",
	} {
		_, err := ParseFilePath(raw)
		if err == nil {
			t.Errorf("ParseFilePath(%q) succeeded, want error", raw)
			continue
		}
		if !errors.Is(err, ErrInvalidPath) {
			t.Errorf("ParseFilePath(%q) error %v is not ErrInvalidPath", raw, err)
		}
	}
}

func TestFilePathComponents(t *testing.T) {
	path, err := ParseFilePath("/src/tools/get_weather.ts")
	if err != nil {
		t.Fatal(err)
	}
	if path.Base() != "get_weather.ts" {
		t.Errorf("Base = %q", path.Base())
	}
	if path.Dir() != "/src/tools" {
		t.Errorf("Dir = %q", path.Dir())
	}
	if path.Relative() != "src/tools/get_weather.ts" {
		t.Errorf("Relative = %q", path.Relative())
	}

	top, err := ParseFilePath("/index.ts")
	if err != nil {
		t.Fatal(err)
	}
	if top.Dir() != "/" {
		t.Errorf("top-level Dir = %q", top.Dir())
	}
}

func TestAddAndReadFile(t *testing.T) {
	fs := New()
	if err := fs.AddFile("/index.ts", "export {}"); err != nil {
		t.Fatalf("AddFile failed: %v", err)
	}

	content, err := fs.ReadFile("/index.ts")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if content != "export {}" {
		t.Errorf("content = %q", content)
	}

	// Re-add to the same path replaces in place.
	if err := fs.AddFile("/index.ts", "export default {}"); err != nil {
		t.Fatal(err)
	}
	content, err = fs.ReadFile("/index.ts")
	if err != nil {
		t.Fatal(err)
	}
	if content != "export default {}" {
		t.Errorf("after re-add: content = %q", content)
	}
	if fs.Len() != 1 {
		t.Errorf("Len = %d after re-add, want 1", fs.Len())
	}
}

func TestAddFileRejectsMalformed(t *testing.T) {
	fs := New()
	if err := fs.AddFile("../escape.ts", "x"); err == nil {
		t.Error("AddFile accepted a relative traversal path")
	}
	if err := fs.AddFile("/a/../b.ts", "x"); err == nil {
		t.Error("AddFile accepted an embedded .. segment")
	}
	if fs.Len() != 0 {
		t.Errorf("failed AddFile partially applied: Len = %d", fs.Len())
	}
}

func TestReadFileErrorKinds(t *testing.T) {
	fs := New()

	_, err := fs.ReadFile("/missing.ts")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing file error = %v, want ErrNotFound", err)
	}

	_, err = fs.ReadFile("not-absolute")
	if !errors.Is(err, ErrInvalidPath) {
		t.Errorf("malformed path error = %v, want ErrInvalidPath", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("malformed path reported as not-found")
	}
}

func TestExists(t *testing.T) {
	fs := New()
	if err := fs.AddFile("/a.ts", "x"); err != nil {
		t.Fatal(err)
	}

	if !fs.Exists("/a.ts") {
		t.Error("Exists(/a.ts) = false")
	}
	if fs.Exists("/b.ts") {
		t.Error("Exists(/b.ts) = true")
	}
	// Malformed paths are false, never an error.
	if fs.Exists("../a.ts") {
		t.Error("Exists of malformed path = true")
	}
	if fs.Exists("") {
		t.Error("Exists of empty path = true")
	}
}

func TestPathsSorted(t *testing.T) {
	fs := New()
	for _, path := range []string{"/c.ts", "/a.ts", "/b/d.ts"} {
		if err := fs.AddFile(path, "x"); err != nil {
			t.Fatal(err)
		}
	}

	var got []string
	for _, path := range fs.Paths() {
		got = append(got, path.String())
	}
	want := []string{"/a.ts", "/b/d.ts", "/c.ts"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Paths = %v, want %v", got, want)
	}
}

func TestListDir(t *testing.T) {
	fs := New()
	for _, path := range []string{
		"/index.ts",
		"/src/a.ts",
		"/src/b.ts",
		"/src/nested/c.ts",
		"/src/nested/deeper/d.ts",
	} {
		if err := fs.AddFile(path, "x"); err != nil {
			t.Fatal(err)
		}
	}

	root, err := fs.ListDir("/")
	if err != nil {
		t.Fatalf("ListDir(/) failed: %v", err)
	}
	if want := []string{"index.ts", "src"}; !reflect.DeepEqual(root, want) {
		t.Errorf("ListDir(/) = %v, want %v", root, want)
	}

	src, err := fs.ListDir("/src")
	if err != nil {
		t.Fatalf("ListDir(/src) failed: %v", err)
	}
	if want := []string{"a.ts", "b.ts", "nested"}; !reflect.DeepEqual(src, want) {
		t.Errorf("ListDir(/src) = %v, want %v", src, want)
	}

	// One level deep only: deeper/ is not shown under /src.
	nested, err := fs.ListDir("/src/nested")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"c.ts", "deeper"}; !reflect.DeepEqual(nested, want) {
		t.Errorf("ListDir(/src/nested) = %v, want %v", nested, want)
	}
}

func TestListDirErrors(t *testing.T) {
	fs := New()
	if err := fs.AddFile("/index.ts", "x"); err != nil {
		t.Fatal(err)
	}

	if _, err := fs.ListDir("/index.ts"); !errors.Is(err, ErrNotDirectory) {
		t.Errorf("listing a file: error = %v, want ErrNotDirectory", err)
	}
	if _, err := fs.ListDir("/absent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("listing a missing directory: error = %v, want ErrNotFound", err)
	}
	if _, err := fs.ListDir("bad"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("listing a malformed path: error = %v, want ErrInvalidPath", err)
	}

	// An empty VFS still lists its root.
	empty, err := New().ListDir("/")
	if err != nil {
		t.Fatalf("ListDir(/) on empty VFS failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("empty root listing = %v", empty)
	}
}
