package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/topcat/pkg/dag"
)

func sample(t *testing.T) *dag.DAG {
	t.Helper()
	g := dag.New()
	for _, id := range []string{"users", "schema"} {
		if err := g.AddNode(dag.Node{ID: id, Meta: dag.Metadata{dag.MetaPath: id + ".sql"}}); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.AddEdge(dag.Edge{From: "schema", To: "users"}); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestLayersRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	layers := []Layer{{Name: "prepend", Graph: dag.New()}, {Name: "normal", Graph: sample(t)}}
	if err := WriteLayersJSON(layers, &buf); err != nil {
		t.Fatalf("WriteLayersJSON() error = %v", err)
	}

	got, err := ReadLayersJSON(&buf)
	if err != nil {
		t.Fatalf("ReadLayersJSON() error = %v", err)
	}
	if len(got) != 2 || got[0].Name != "prepend" || got[1].Name != "normal" {
		t.Fatalf("ReadLayersJSON() = %+v", got)
	}
	if got[0].Graph.NodeCount() != 0 {
		t.Errorf("prepend NodeCount() = %d, want 0", got[0].Graph.NodeCount())
	}

	g := got[1].Graph
	if ids := g.NodeIDs(); !slices.Equal(ids, []string{"schema", "users"}) {
		t.Errorf("NodeIDs() = %v", ids)
	}
	if edges := g.Edges(); !slices.Equal(edges, []dag.Edge{{From: "schema", To: "users"}}) {
		t.Errorf("Edges() = %v", edges)
	}
	n, _ := g.Node("users")
	if n.Path() != "users.sql" {
		t.Errorf("Path() = %q", n.Path())
	}
}

func TestWriteLayersJSON(t *testing.T) {
	var buf bytes.Buffer
	layers := []Layer{{Name: "prepend", Graph: dag.New()}, {Name: "normal", Graph: sample(t)}}
	if err := WriteLayersJSON(layers, &buf); err != nil {
		t.Fatalf("WriteLayersJSON() error = %v", err)
	}

	var doc struct {
		Layers []struct {
			Name  string `json:"name"`
			Nodes []any  `json:"nodes"`
		} `json:"layers"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(doc.Layers) != 2 || doc.Layers[0].Name != "prepend" || len(doc.Layers[1].Nodes) != 2 {
		t.Errorf("WriteLayersJSON() = %s", buf.String())
	}
	if doc.Layers[0].Nodes == nil {
		t.Error("empty layer should encode nodes as [] not null")
	}
	out := buf.String()
	if strings.Index(out, `"schema"`) > strings.Index(out, `"users"`) {
		t.Errorf("nodes not sorted:\n%s", out)
	}
}

func TestReadLayersJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"duplicate node", `{"layers":[{"name":"n","nodes":[{"id":"a"},{"id":"a"}],"edges":[]}]}`, dag.ErrDuplicateNodeID},
		{"empty id", `{"layers":[{"name":"n","nodes":[{"id":""}],"edges":[]}]}`, dag.ErrInvalidNodeID},
		{"unknown target", `{"layers":[{"name":"n","nodes":[{"id":"a"}],"edges":[{"from":"a","to":"b"}]}]}`, dag.ErrUnknownTargetNode},
		{"no layers", `{}`, ErrNoLayers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLayersJSON(strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadLayersJSON() error = %v, want %v", err, tt.want)
			}
		})
	}

	for name, input := range map[string]string{
		"malformed":      "{",
		"bare graph":     `{"nodes":[{"id":"a"}],"edges":[]}`,
		"unknown field":  `{"layers":[{"name":"n","nodes":[],"edges":[],"color":"red"}]}`,
		"unnamed layer":  `{"layers":[{"nodes":[],"edges":[]}]}`,
		"repeated layer": `{"layers":[{"name":"n","nodes":[],"edges":[]},{"name":"n","nodes":[],"edges":[]}]}`,
	} {
		if _, err := ReadLayersJSON(strings.NewReader(input)); err == nil {
			t.Errorf("ReadLayersJSON(%s) expected error", name)
		}
	}
}

func TestImportLayersJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	var buf bytes.Buffer
	if err := WriteLayersJSON([]Layer{{Name: "normal", Graph: sample(t)}}, &buf); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	layers, err := ImportLayersJSON(path)
	if err != nil {
		t.Fatalf("ImportLayersJSON() error = %v", err)
	}
	if len(layers) != 1 || layers[0].Graph.EdgeCount() != 1 {
		t.Errorf("ImportLayersJSON() = %+v", layers)
	}
	if _, err := ImportLayersJSON(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ImportLayersJSON(missing) error = %v, want %v", err, os.ErrNotExist)
	}
}
