package layer

import (
	"slices"
	"strings"

	"github.com/matzehuels/topcat/pkg/dag"
	"github.com/matzehuels/topcat/pkg/errors"
	"github.com/matzehuels/topcat/pkg/filenode"
)

// CheckCycles inspects every layer graph and returns a *errors.CycleError
// listing all elementary cycles of all cyclic layers, or nil if every layer
// is acyclic. nodes supplies the paths reported for each participant.
func CheckCycles(g *Graphs, nodes map[string]*filenode.Node) error {
	var cycles []errors.Cycle
	for _, name := range g.seq.names {
		d := g.graphs[name]
		if !dag.HasCycle(d) {
			continue
		}
		for _, ids := range dag.Cycles(d) {
			cycles = append(cycles, describe(name, ids, nodes))
		}
	}
	if len(cycles) == 0 {
		return nil
	}
	return &errors.CycleError{Cycles: cycles}
}

func describe(layer string, ids []string, nodes map[string]*filenode.Node) errors.Cycle {
	c := errors.Cycle{Layer: layer}

	names := slices.Clone(ids)
	slices.Sort(names)
	for _, name := range slices.Compact(names) {
		p := errors.Participant{Name: name}
		if n, ok := nodes[name]; ok {
			p.Path = n.Path
		}
		c.Participants = append(c.Participants, p)
	}

	for _, e := range dag.CycleEdges(ids) {
		c.Edges = append(c.Edges, [2]string{e.From, e.To})
	}
	return c
}

// Summary returns a one-line description of a cycle, e.g. "a -> b -> a".
func Summary(c errors.Cycle) string {
	if len(c.Edges) == 0 {
		return ""
	}
	parts := make([]string, 0, len(c.Edges)+1)
	for _, e := range c.Edges {
		parts = append(parts, e[0])
	}
	parts = append(parts, c.Edges[len(c.Edges)-1][1])
	return strings.Join(parts, " -> ")
}
