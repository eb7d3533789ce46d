package layer

import (
	"github.com/matzehuels/topcat/pkg/dag"
	"github.com/matzehuels/topcat/pkg/errors"
	"github.com/matzehuels/topcat/pkg/filenode"
)

// Graphs holds one graph per configured layer.
type Graphs struct {
	seq    Sequence
	graphs map[string]*dag.DAG
}

// Layer returns the graph for the named layer.
func (g *Graphs) Layer(name string) (*dag.DAG, bool) {
	d, ok := g.graphs[name]
	return d, ok
}

// Sequence returns the layer sequence the graphs were built for.
func (g *Graphs) Sequence() Sequence { return g.seq }

// NodeCount returns the number of nodes across all layers.
func (g *Graphs) NodeCount() int {
	n := 0
	for _, d := range g.graphs {
		n += d.NodeCount()
	}
	return n
}

// EdgeCount returns the number of edges across all layers.
func (g *Graphs) EdgeCount() int {
	n := 0
	for _, d := range g.graphs {
		n += d.EdgeCount()
	}
	return n
}

// Build places every node in the graph of its layer and then adds the
// dependency edges.
//
// Both phases visit nodes in name order, and a node's existence assertions
// and dependencies in sorted order, so the first reported problem is always
// the same for the same input. Build fails with:
//   - [errors.ErrCodeInvalidLayer] if a node's layer is not in seq
//   - [errors.ErrCodeMissingExist] if an exists: target is not a known node
//   - [errors.ErrCodeMissingDependency] if a requires: target is not a known node
//   - [errors.ErrCodeInvalidDependency] if a node requires a node of a later layer
//
// Dependencies within one layer become an edge dependency → dependent.
// Dependencies on an earlier layer need no edge, since layers are emitted
// whole and in order.
func Build(nodes map[string]*filenode.Node, seq Sequence) (*Graphs, error) {
	g := &Graphs{seq: seq, graphs: make(map[string]*dag.DAG, seq.Len())}
	for _, name := range seq.names {
		g.graphs[name] = dag.New()
	}

	sorted := filenode.SortedNodes(nodes)
	for _, n := range sorted {
		d, ok := g.graphs[n.Layer]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidLayer,
				"node %s in %s declares unknown layer %q", n.Name, n.Path, n.Layer).WithPath(n.Path)
		}
		if err := d.AddNode(dag.Node{ID: n.Name, Meta: dag.Metadata{dag.MetaPath: n.Path}}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "place node %s", n.Name)
		}
	}

	for _, n := range sorted {
		if err := addEdges(g, n, nodes); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func addEdges(g *Graphs, n *filenode.Node, nodes map[string]*filenode.Node) error {
	for _, name := range n.EnsureExists.Sorted() {
		if _, ok := nodes[name]; !ok {
			return errors.New(errors.ErrCodeMissingExist,
				"%s asserts that %s exists but it is missing", n.Name, name).WithPath(n.Path)
		}
	}

	i, _ := g.seq.Index(n.Layer)
	for _, name := range n.Deps.Sorted() {
		dep, ok := nodes[name]
		if !ok {
			return errors.New(errors.ErrCodeMissingDependency,
				"%s depends on %s but it is missing", n.Name, name).WithPath(n.Path)
		}
		j, _ := g.seq.Index(dep.Layer)
		switch {
		case i < j:
			return errors.New(errors.ErrCodeInvalidDependency,
				"%s (layer %s) depends on %s (layer %s), which is emitted later",
				n.Name, n.Layer, dep.Name, dep.Layer).WithPath(n.Path)
		case i == j:
			if err := g.graphs[n.Layer].AddEdge(dag.Edge{From: dep.Name, To: n.Name}); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "add edge %s -> %s", dep.Name, n.Name)
			}
		}
	}
	return nil
}
