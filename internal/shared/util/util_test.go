package util

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestSplitLines(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "Empty", input: "", expected: nil},
		{name: "Single", input: "a", expected: []string{"a"}},
		{name: "TrailingNewline", input: "a\nb\n", expected: []string{"a", "b"}},
		{name: "CRLF", input: "a\r\nb\r\n", expected: []string{"a", "b"}},
		{name: "BareCR", input: "a\rb", expected: []string{"a", "b"}},
		{name: "BlankLinesKept", input: "a\n\nb", expected: []string{"a", "", "b"}},
		{name: "OnlyNewline", input: "\n", expected: []string{""}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := SplitLines(tc.input); !reflect.DeepEqual(got, tc.expected) {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestDecodeSource(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    []byte
		expected string
	}{
		{name: "Plain", input: []byte("using System;\n"), expected: "using System;\n"},
		{name: "UTF8BOM", input: []byte("\xef\xbb\xbfnamespace Foo\n"), expected: "namespace Foo\n"},
		{name: "UTF8BOMWithCRLF", input: []byte("\xef\xbb\xbfusing System;\r\nnamespace Foo\r\n"), expected: "using System;\r\nnamespace Foo\r\n"},
		{name: "UTF16LE", input: []byte{0xff, 0xfe, 'a', 0, '\n', 0, 'b', 0}, expected: "a\nb"},
		{name: "UTF16BE", input: []byte{0xfe, 0xff, 0, 'a', 0, 'b'}, expected: "ab"},
		{name: "InnerBOMKept", input: []byte("a\xef\xbb\xbfb"), expected: "a\ufeffb"},
		{name: "Empty", input: nil, expected: ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := DecodeSource(tc.input)
			if err != nil {
				t.Fatalf("DecodeSource failed: %v", err)
			}
			if got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
			if lines := SplitLines(got); len(lines) > 0 && strings.HasPrefix(lines[0], "\ufeff") {
				t.Fatalf("first line still carries a byte-order mark: %q", lines[0])
			}
		})
	}
}

func TestSamePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cases := []struct {
		name     string
		a, b     string
		expected bool
	}{
		{name: "Identical", a: filepath.Join(dir, "out.cs"), b: filepath.Join(dir, "out.cs"), expected: true},
		{name: "Unclean", a: filepath.Join(dir, "x", "..", "out.cs"), b: filepath.Join(dir, "out.cs"), expected: true},
		{name: "Different", a: filepath.Join(dir, "a.cs"), b: filepath.Join(dir, "b.cs"), expected: false},
		{name: "Empty", a: "", b: filepath.Join(dir, "b.cs"), expected: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := SamePath(tc.a, tc.b); got != tc.expected {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestWriteFileWithDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "file.txt")
	content := []byte("hello")

	if err := WriteFileWithDirs(path, content, 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(got) != string(content) {
		t.Fatalf("expected %q, got %q", string(content), string(got))
	}
}

func TestWriteStringWithDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "file.txt")

	if err := WriteStringWithDirs(path, "hello", 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("expected %q, got %q", "hello", string(got))
	}
}
