// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

package checksum

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSumDeterministic(t *testing.T) {
	content := []byte("export async function call() {}\n")

	first := Sum(content)
	second := Sum(content)
	if first != second {
		t.Errorf("Sum is not deterministic: %s vs %s", first, second)
	}
	if !strings.HasPrefix(first.String(), "blake3:") {
		t.Errorf("digest %q missing algorithm prefix", first)
	}
	if len(first) != len("blake3:")+64 {
		t.Errorf("digest %q has wrong length %d", first, len(first))
	}
}

func TestSumDistinguishesContent(t *testing.T) {
	if Sum([]byte("a")) == Sum([]byte("b")) {
		t.Error("different content produced the same digest")
	}
}

func TestVerify(t *testing.T) {
	content := []byte("module bytes")
	digest := Sum(content)

	if err := digest.Verify(content); err != nil {
		t.Errorf("Verify of matching content failed: %v", err)
	}

	tampered := append([]byte(nil), content...)
	tampered[0] ^= 0x01
	if err := digest.Verify(tampered); err == nil {
		t.Error("Verify of tampered content succeeded")
	}
}

func TestParse(t *testing.T) {
	valid := Sum([]byte("x")).String()
	if _, err := Parse(valid); err != nil {
		t.Errorf("Parse(%q) failed: %v", valid, err)
	}

	for _, raw := range []string{
		"",
		"deadbeef",
		"sha256:" + strings.Repeat("ab", 32),
		"blake3:zz",
		"blake3:" + strings.Repeat("ab", 16), // too short
	} {
		if _, err := Parse(raw); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", raw)
		}
	}
}

func TestSumFile(t *testing.T) {
	content := []byte("file content for hashing")
	path := filepath.Join(t.TempDir(), "module.bin")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	fromFile, err := SumFile(path)
	if err != nil {
		t.Fatalf("SumFile failed: %v", err)
	}
	if fromFile != Sum(content) {
		t.Errorf("SumFile = %s, Sum = %s", fromFile, Sum(content))
	}

	if _, err := SumFile(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("SumFile of missing file succeeded")
	}
}

func TestWriterMatchesSum(t *testing.T) {
	content := []byte("streamed while written")

	var buffer bytes.Buffer
	writer := NewWriter(&buffer)
	if _, err := writer.Write(content[:10]); err != nil {
		t.Fatal(err)
	}
	if _, err := writer.Write(content[10:]); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(buffer.Bytes(), content) {
		t.Error("Writer did not pass content through")
	}
	if writer.Digest() != Sum(content) {
		t.Errorf("Writer digest %s does not match Sum %s", writer.Digest(), Sum(content))
	}
}
