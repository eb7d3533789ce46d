package layer

import (
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/topcat/pkg/dag"
	"github.com/matzehuels/topcat/pkg/errors"
	"github.com/matzehuels/topcat/pkg/filenode"
)

func node(name, layer string, deps ...string) *filenode.Node {
	return &filenode.Node{
		Name:         name,
		Path:         name + ".sql",
		Layer:        layer,
		Deps:         filenode.NewSet(deps...),
		EnsureExists: filenode.NewSet(),
	}
}

func index(nodes ...*filenode.Node) map[string]*filenode.Node {
	m := make(map[string]*filenode.Node, len(nodes))
	for _, n := range nodes {
		m[n.Name] = n
	}
	return m
}

func TestNewSequence(t *testing.T) {
	tests := []struct {
		name     string
		layers   []string
		fallback string
		wantErr  bool
	}{
		{"default", DefaultNames, DefaultFallback, false},
		{"custom", []string{"first", "second"}, "second", false},
		{"empty", nil, "normal", true},
		{"fallback missing", []string{"first"}, "normal", true},
		{"duplicate", []string{"a", "a"}, "a", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSequence(tt.layers, tt.fallback)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSequence() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("NewSequence() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestSequenceAccessors(t *testing.T) {
	s := Default()
	if got := s.Names(); !slices.Equal(got, []string{"prepend", "normal", "append"}) {
		t.Errorf("Names() = %v", got)
	}
	if i, ok := s.Index("append"); !ok || i != 2 {
		t.Errorf("Index(append) = %d, %v", i, ok)
	}
	if s.Contains("later") {
		t.Error("Contains(later) = true")
	}
	opts := s.ParseOptions("#")
	if opts.CommentPrefix != "#" || opts.FallbackLayer != "normal" || len(opts.Layers) != 3 {
		t.Errorf("ParseOptions() = %+v", opts)
	}
}

func TestBuildSameLayerEdges(t *testing.T) {
	nodes := index(
		node("a", "normal"),
		node("b", "normal", "a"),
		node("c", "normal", "a", "b"),
	)
	g, err := Build(nodes, Default())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	d, _ := g.Layer("normal")
	want := []dag.Edge{{From: "a", To: "b"}, {From: "a", To: "c"}, {From: "b", To: "c"}}
	if got := d.Edges(); !slices.Equal(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 3 {
		t.Errorf("counts = %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}
	n, _ := d.Node("b")
	if n.Path() != "b.sql" {
		t.Errorf("path metadata = %q", n.Path())
	}
}

func TestBuildCrossLayer(t *testing.T) {
	nodes := index(
		node("schema", "prepend"),
		node("users", "normal", "schema"),
		node("grants", "append", "users", "schema"),
	)
	g, err := Build(nodes, Default())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0 for cross-layer dependencies", g.EdgeCount())
	}
	for _, l := range []string{"prepend", "normal", "append"} {
		if d, _ := g.Layer(l); d.NodeCount() != 1 {
			t.Errorf("layer %s holds %d nodes, want 1", l, d.NodeCount())
		}
	}
}

func TestBuildErrors(t *testing.T) {
	seq, _ := NewSequence([]string{"first", "second"}, "first")

	withExists := node("a", "first")
	withExists.EnsureExists.Add("ghost")

	tests := []struct {
		name    string
		nodes   map[string]*filenode.Node
		code    errors.Code
		wantMsg []string
	}{
		{
			name:    "dependency on later layer",
			nodes:   index(node("a", "first", "x"), node("x", "second")),
			code:    errors.ErrCodeInvalidDependency,
			wantMsg: []string{"a", "x"},
		},
		{
			name:    "missing dependency",
			nodes:   index(node("a", "first", "ghost")),
			code:    errors.ErrCodeMissingDependency,
			wantMsg: []string{"a", "ghost"},
		},
		{
			name:    "missing exists",
			nodes:   index(withExists),
			code:    errors.ErrCodeMissingExist,
			wantMsg: []string{"a", "ghost"},
		},
		{
			name:  "unknown layer",
			nodes: index(node("a", "third")),
			code:  errors.ErrCodeInvalidLayer,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.nodes, seq)
			if !errors.Is(err, tt.code) {
				t.Fatalf("Build() error = %v, want %v", err, tt.code)
			}
			for _, want := range tt.wantMsg {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q missing %q", err, want)
				}
			}
		})
	}
}

func TestBuildLaterLayerMayRequireEarlier(t *testing.T) {
	seq, _ := NewSequence([]string{"first", "second"}, "first")
	if _, err := Build(index(node("a", "first"), node("x", "second", "a")), seq); err != nil {
		t.Errorf("Build() error = %v, want nil", err)
	}
}

func TestBuildExistsAcrossLayers(t *testing.T) {
	a := node("a", "prepend")
	a.EnsureExists.Add("z")
	if _, err := Build(index(a, node("z", "append")), Default()); err != nil {
		t.Errorf("Build() error = %v, want nil", err)
	}
}
