package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/topcat/pkg/errors"
)

// mapFS serves file contents from memory.
type mapFS map[string]string

func (m mapFS) ReadFile(path string) ([]byte, error) {
	s, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}
	return []byte(s), nil
}

func TestGenerate(t *testing.T) {
	fsys := mapFS{
		"a.sql": "-- name: a\nCREATE TABLE a ();\n\n",
		"b.sql": "-- name: b\nSELECT 1",
	}

	tests := []struct {
		name  string
		files []string
		opts  Options
		want  string
	}{
		{
			name:  "separator and suffix",
			files: []string{"a.sql", "b.sql"},
			opts:  Options{Separator: "---", FileEnd: ";"},
			want:  "-- name: a\nCREATE TABLE a ();\n---\n-- name: b\nSELECT 1;\n",
		},
		{
			name:  "no suffix",
			files: []string{"b.sql"},
			opts:  Options{Separator: "---"},
			want:  "-- name: b\nSELECT 1\n",
		},
		{
			name:  "empty separator",
			files: []string{"b.sql", "a.sql"},
			opts:  Options{FileEnd: ";"},
			want:  "-- name: b\nSELECT 1;\n-- name: a\nCREATE TABLE a ();\n",
		},
		{
			name:  "annotated",
			files: []string{"b.sql"},
			opts:  Options{FileEnd: ";", Annotate: true, CommentPrefix: "--"},
			want:  "-- source: b.sql\n-- name: b\nSELECT 1;\n",
		},
		{
			name:  "empty list",
			files: nil,
			opts:  DefaultOptions(),
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Generate(&buf, tt.files, tt.opts, fsys); err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Generate() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestGenerateDefaultSeparator(t *testing.T) {
	out, err := Render([]string{"a", "b"}, DefaultOptions(), mapFS{"a": "x", "b": "y"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "x;\n" + strings.Repeat("-", 120) + "\ny;\n"
	if string(out) != want {
		t.Errorf("Render() = %q, want %q", out, want)
	}
}

func TestGenerateReadError(t *testing.T) {
	_, err := Render([]string{"missing.sql"}, DefaultOptions(), mapFS{})
	if !errors.Is(err, errors.ErrCodeIO) {
		t.Fatalf("Render() error = %v, want %v", err, errors.ErrCodeIO)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.sql")
	if err := os.WriteFile(src, []byte("SELECT 1"), 0644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "out", "nested", "combined.sql")
	if err := WriteFile(dst, []string{src}, DefaultOptions(), nil); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "SELECT 1;\n" {
		t.Errorf("output = %q", got)
	}

	entries, _ := os.ReadDir(filepath.Dir(dst))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestWriteFileAllOrNothing(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "combined.sql")
	if err := os.WriteFile(dst, []byte("previous"), 0644); err != nil {
		t.Fatal(err)
	}

	err := WriteFile(dst, []string{"a", "missing"}, DefaultOptions(), mapFS{"a": "x"})
	if !errors.Is(err, errors.ErrCodeIO) {
		t.Fatalf("WriteFile() error = %v, want %v", err, errors.ErrCodeIO)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "previous" {
		t.Errorf("destination modified on failure: %q", got)
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "combined.sql")
	if err := os.WriteFile(path, []byte("a;\nb;\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if diff, err := Check(path, []byte("a;\nb;\n")); err != nil || diff != "" {
		t.Errorf("Check(identical) = %q, %v", diff, err)
	}

	diff, err := Check(path, []byte("a;\nc;\n"))
	if !errors.Is(err, errors.ErrCodeStaleOutput) {
		t.Fatalf("Check(stale) error = %v, want %v", err, errors.ErrCodeStaleOutput)
	}
	for _, want := range []string{"--- current/", "+++ generated/", "-b;", "+c;"} {
		if !strings.Contains(diff, want) {
			t.Errorf("diff missing %q:\n%s", want, diff)
		}
	}

	diff, err = Check(filepath.Join(dir, "missing.sql"), []byte("a;\n"))
	if !errors.Is(err, errors.ErrCodeStaleOutput) || !strings.Contains(diff, "+a;") {
		t.Errorf("Check(missing) = %q, %v", diff, err)
	}
}
