package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/topcat/pkg/dag"
)

// Layer names one layer graph for export.
type Layer struct {
	Name  string
	Graph *dag.DAG
}

type document struct {
	Layers []graph `json:"layers"`
}

type graph struct {
	Name  string `json:"name,omitempty"`
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID   string       `json:"id"`
	Meta dag.Metadata `json:"meta,omitempty"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func toGraph(name string, g *dag.DAG) graph {
	out := graph{
		Name:  name,
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		nd := node{ID: n.ID}
		if len(n.Meta) > 0 {
			nd.Meta = n.Meta
		}
		out.Nodes = append(out.Nodes, nd)
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edge{From: e.From, To: e.To})
	}
	return out
}

// WriteLayersJSON encodes several layer graphs, in the given order, as one
// JSON document of the form {"layers": [{"name": ..., "nodes": ..., "edges": ...}]}.
// Nodes and edges are written in sorted order. The output can be read back
// with [ReadLayersJSON].
func WriteLayersJSON(layers []Layer, w io.Writer) error {
	doc := document{Layers: make([]graph, 0, len(layers))}
	for _, l := range layers {
		doc.Layers = append(doc.Layers, toGraph(l.Name, l.Graph))
	}
	return encode(w, doc)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
