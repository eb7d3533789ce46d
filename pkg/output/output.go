// Package output concatenates ordered source files into one artifact.
//
// [Generate] writes the files in the order it is given, separated by a
// configurable line and each terminated by a configurable suffix. [WriteFile]
// renders into memory first and only touches the destination once every input
// was read, so a failed run never leaves a partial artifact behind. [Check]
// compares an existing artifact with a fresh rendering and returns a unified
// diff when they differ.
package output

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/matzehuels/topcat/pkg/errors"
)

// DefaultSeparator is written between two concatenated files.
var DefaultSeparator = strings.Repeat("-", 120)

// DefaultFileEnd is appended to files that do not already end with it.
const DefaultFileEnd = ";"

// FileSystem reads the files being concatenated.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFileSystem reads from the local disk.
type OSFileSystem struct{}

// ReadFile implements FileSystem.
func (OSFileSystem) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// Options configures how files are joined.
type Options struct {
	Separator     string // Line written between files; empty writes a blank line
	FileEnd       string // Suffix each file must end with, ignoring trailing whitespace
	Annotate      bool   // Precede each file with a "<prefix> source: <path>" line
	CommentPrefix string // Prefix used for annotation lines
}

// DefaultOptions returns the separator and suffix topcat uses by default.
func DefaultOptions() Options {
	return Options{Separator: DefaultSeparator, FileEnd: DefaultFileEnd, CommentPrefix: "--"}
}

// Render concatenates files into memory. See [Generate] for the layout.
func Render(files []string, opts Options, fsys FileSystem) ([]byte, error) {
	var buf bytes.Buffer
	if err := Generate(&buf, files, opts, fsys); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Generate writes files to w in order.
//
// Each file's trailing whitespace is dropped and opts.FileEnd is appended
// unless the content already ends with it. Consecutive files are joined by
// a newline, opts.Separator and another newline; the output ends with a
// newline. An empty file list writes nothing.
//
// A read failure is returned with [errors.ErrCodeIO]. Content already written
// to w stays there; use [Render] or [WriteFile] for all-or-nothing output.
func Generate(w io.Writer, files []string, opts Options, fsys FileSystem) error {
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	for i, path := range files {
		data, err := fsys.ReadFile(path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "read %s", path).WithPath(path)
		}

		var chunk strings.Builder
		if i > 0 {
			chunk.WriteString("\n")
			if opts.Separator != "" {
				chunk.WriteString(opts.Separator)
				chunk.WriteString("\n")
			}
		}
		if opts.Annotate {
			chunk.WriteString(opts.CommentPrefix)
			chunk.WriteString(" source: ")
			chunk.WriteString(filepath.ToSlash(path))
			chunk.WriteString("\n")
		}
		chunk.WriteString(ensureSuffix(string(data), opts.FileEnd))

		if _, err := io.WriteString(w, chunk.String()); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "write output")
		}
	}
	if len(files) > 0 {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "write output")
		}
	}
	return nil
}

func ensureSuffix(content, suffix string) string {
	content = strings.TrimRight(content, " \t\r\n")
	if suffix != "" && !strings.HasSuffix(content, suffix) {
		content += suffix
	}
	return content
}

// WriteFile renders files and writes the result to path, creating parent
// directories as needed. The destination is replaced through a temporary
// file in the same directory, so it is either left untouched or fully written.
func WriteFile(path string, files []string, opts Options, fsys FileSystem) error {
	data, err := Render(files, opts, fsys)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", dir).WithPath(path)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create temporary file").WithPath(path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", tmp.Name()).WithPath(path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", tmp.Name()).WithPath(path)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "chmod %s", tmp.Name()).WithPath(path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "replace %s", path).WithPath(path)
	}
	return nil
}

// Check compares the artifact at path with rendered.
//
// It returns "" and nil when they are identical. Otherwise it returns a
// unified diff from the existing file to rendered and an error coded
// [errors.ErrCodeStaleOutput]. A missing artifact is stale and is diffed as
// if it were empty.
func Check(path string, rendered []byte) (string, error) {
	current, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", errors.Wrap(errors.ErrCodeIO, err, "read %s", path).WithPath(path)
	}
	if err == nil && bytes.Equal(current, rendered) {
		return "", nil
	}

	diff, derr := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(current)),
		B:        difflib.SplitLines(string(rendered)),
		FromFile: "current/" + filepath.ToSlash(path),
		ToFile:   "generated/" + filepath.ToSlash(path),
		Context:  3,
	})
	if derr != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, derr, "diff %s", path)
	}
	return diff, errors.New(errors.ErrCodeStaleOutput, "%s is out of date", path).WithPath(path)
}
