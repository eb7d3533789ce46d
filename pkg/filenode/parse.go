package filenode

import (
	"bufio"
	"io"
	"os"
	"slices"
	"strings"
	"unicode"

	"github.com/matzehuels/topcat/pkg/errors"
)

// ParseOptions configures header parsing.
type ParseOptions struct {
	CommentPrefix string   // String that starts every header line, e.g. "--"
	Layers        []string // Layers a node may declare
	FallbackLayer string   // Layer used when the header declares none
}

// directives holds the fully prefixed directive keys for one comment prefix.
type directives struct {
	name, requires, droppedBy, layer, isInitial, isFinal, exists string
}

func newDirectives(prefix string) directives {
	key := func(s string) string { return strings.ToLower(prefix + " " + s) }
	return directives{
		name:      key("name:"),
		requires:  key("requires:"),
		droppedBy: key("dropped_by:"),
		layer:     key("layer:"),
		isInitial: key("is_initial"),
		isFinal:   key("is_final"),
		exists:    key("exists:"),
	}
}

// ParseFile reads the header block of the file at path and parses it.
// Only the header lines are read; the rest of the file is left untouched.
func ParseFile(path string, opts ParseOptions) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path).WithPath(path)
	}
	defer f.Close()

	lines, err := ReadHeader(f, opts.CommentPrefix)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", path).WithPath(path)
	}
	return Parse(lines, opts, path)
}

// ReadHeader returns the non-empty lines of the header block in r.
// It stops reading at the first line that is neither empty nor starts with
// prefix.
func ReadHeader(r io.Reader, prefix string) ([]string, error) {
	br := bufio.NewReader(r)
	var lines []string
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if line == "" && err == io.EOF {
			return lines, nil
		}
		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if line != "" {
			if !strings.HasPrefix(line, prefix) {
				return lines, nil
			}
			lines = append(lines, line)
		}
		if err == io.EOF {
			return lines, nil
		}
	}
}

// Parse builds a node from header lines.
//
// It returns an error coded [errors.ErrCodeNoNameDefined] when no name is
// declared, [errors.ErrCodeTooManyNames] when two are, and
// [errors.ErrCodeInvalidLayer] when the resolved layer is not in opts.Layers.
func Parse(lines []string, opts ParseOptions, path string) (*Node, error) {
	d := newDirectives(opts.CommentPrefix)

	var name string
	deps := NewSet()
	exists := NewSet()
	layer := opts.FallbackLayer

	for _, raw := range lines {
		line := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case strings.HasPrefix(line, d.name):
			value := strings.TrimSpace(line[len(d.name):])
			if name != "" {
				return nil, errors.New(errors.ErrCodeTooManyNames,
					"too many names declared in %s: %s, %s", path, name, value).WithPath(path)
			}
			name = value
		case strings.HasPrefix(line, d.requires):
			addAll(deps, line[len(d.requires):])
		case strings.HasPrefix(line, d.droppedBy):
			addAll(deps, line[len(d.droppedBy):])
		case strings.HasPrefix(line, d.layer):
			if declared := strings.TrimSpace(line[len(d.layer):]); declared != "" {
				layer = declared
			}
		case strings.HasPrefix(line, d.isInitial):
			layer = LayerPrepend
		case strings.HasPrefix(line, d.isFinal):
			layer = LayerAppend
		case strings.HasPrefix(line, d.exists):
			addAll(exists, line[len(d.exists):])
		}
	}

	if name == "" {
		return nil, errors.New(errors.ErrCodeNoNameDefined, "no name defined in %s", path).WithPath(path)
	}
	if !slices.Contains(opts.Layers, layer) {
		return nil, errors.New(errors.ErrCodeInvalidLayer,
			"invalid file header in %s: layer %q is not one of [%s]",
			path, layer, strings.Join(opts.Layers, ", ")).WithPath(path)
	}

	return &Node{
		Name:         name,
		Path:         path,
		Deps:         deps,
		Layer:        layer,
		EnsureExists: exists,
	}, nil
}

// SplitNames splits a directive value on commas and whitespace, dropping
// empty entries.
//
//	SplitNames(" tomato, potato orange") // ["tomato", "potato", "orange"]
func SplitNames(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

func addAll(s Set, value string) {
	for _, n := range SplitNames(value) {
		s.Add(n)
	}
}
