package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/topcat/pkg/dag"
)

// ErrNoLayers is returned when a document has no "layers" array, which is
// the case for anything not written by [WriteLayersJSON].
var ErrNoLayers = errors.New(`document has no "layers" array`)

// ReadLayersJSON decodes a document written by [WriteLayersJSON] from r and
// returns its layers in document order.
//
// Unknown fields are rejected, so a bare {"nodes": ..., "edges": ...} graph
// fails instead of decoding to nothing. ReadLayersJSON also returns an error
// if a layer name is empty or repeated, a node ID is empty or duplicated, or
// an edge references an unknown node. Errors are wrapped with the offending
// layer, node or edge; use errors.Is to check for the [dag] errors.
// Cycles are accepted, matching [dag.DAG].
func ReadLayersJSON(r io.Reader) ([]Layer, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if doc.Layers == nil {
		return nil, ErrNoLayers
	}

	layers := make([]Layer, 0, len(doc.Layers))
	seen := make(map[string]bool, len(doc.Layers))
	for _, data := range doc.Layers {
		if data.Name == "" {
			return nil, errors.New("layer without a name")
		}
		if seen[data.Name] {
			return nil, fmt.Errorf("layer %s: duplicate layer", data.Name)
		}
		seen[data.Name] = true

		g, err := fromGraph(data)
		if err != nil {
			return nil, fmt.Errorf("layer %s: %w", data.Name, err)
		}
		layers = append(layers, Layer{Name: data.Name, Graph: g})
	}
	return layers, nil
}

func fromGraph(data graph) (*dag.DAG, error) {
	g := dag.New()
	for _, n := range data.Nodes {
		if err := g.AddNode(dag.Node{ID: n.ID, Meta: n.Meta}); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(dag.Edge{From: e.From, To: e.To}); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// ImportLayersJSON reads a layers document from the file at path.
func ImportLayersJSON(path string) ([]Layer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadLayersJSON(f)
}
