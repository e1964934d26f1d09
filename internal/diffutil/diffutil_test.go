package diffutil

import (
	"strings"
	"testing"
)

func TestGenerate_ProducesUnifiedDiff(t *testing.T) {
	old := "func Add(a, b int) int {\n\treturn a + b\n}\n"
	new_ := "func Add(a, b int) int {\n\treturn a - b\n}\n"

	patch, err := Generate("math.go", old, new_)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !strings.Contains(patch, "--- a/math.go") {
		t.Errorf("missing old-file header: %s", patch)
	}
	if !strings.Contains(patch, "+++ b/math.go") {
		t.Errorf("missing new-file header: %s", patch)
	}
	if !strings.Contains(patch, "-\treturn a + b") {
		t.Errorf("missing removed line: %s", patch)
	}
	if !strings.Contains(patch, "+\treturn a - b") {
		t.Errorf("missing added line: %s", patch)
	}
}

func TestGenerate_NoChangeProducesEmptyDiff(t *testing.T) {
	content := "package main\n"
	patch, err := Generate("main.go", content, content)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if patch != "" {
		t.Errorf("expected empty diff for identical content, got %q", patch)
	}
}

func TestParse_SingleFile(t *testing.T) {
	old := "line one\nline two\nline three\n"
	new_ := "line one\nline TWO\nline three\n"
	patch, err := Generate("file.txt", old, new_)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	fds, err := Parse(patch)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(fds) != 1 {
		t.Fatalf("got %d file diffs, want 1", len(fds))
	}
	if fds[0].NewPath != "file.txt" {
		t.Errorf("NewPath = %q, want file.txt", fds[0].NewPath)
	}
	if fds[0].Insertions != 1 || fds[0].Deletions != 1 {
		t.Errorf("insertions=%d deletions=%d, want 1/1", fds[0].Insertions, fds[0].Deletions)
	}
}

func TestFilesChanged(t *testing.T) {
	old := "a\nb\n"
	new_ := "a\nc\n"
	patch, err := Generate("pkg/file.go", old, new_)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	paths, err := FilesChanged(patch)
	if err != nil {
		t.Fatalf("FilesChanged() error: %v", err)
	}
	if len(paths) != 1 || paths[0] != "pkg/file.go" {
		t.Errorf("got %v, want [pkg/file.go]", paths)
	}
}
