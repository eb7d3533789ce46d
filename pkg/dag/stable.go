package dag

import "slices"

// StableTopo is a lazy topological traversal whose output depends only on
// node IDs and edge structure.
//
// The traversal starts from every source node. On each step the frontier is
// sorted by ID and the node at the tail of that order is emitted; a successor
// joins the frontier once all of its predecessors have been emitted. Insertion
// order, adjacency-list order and map iteration order never influence the
// result, so identical graphs always produce identical sequences.
//
// A StableTopo is single-use: once exhausted it keeps returning false. For a
// graph with cycles the nodes on or behind a cycle are never emitted; check
// [StableTopo.Remaining] or run [HasCycle] beforehand.
type StableTopo struct {
	g        *DAG
	ordered  map[string]bool
	frontier []string
}

// NewStableTopo returns a traversal over g with its frontier seeded by the
// graph's sources.
func NewStableTopo(g *DAG) *StableTopo {
	return &StableTopo{
		g:        g,
		ordered:  make(map[string]bool, g.NodeCount()),
		frontier: g.Sources(),
	}
}

// Next returns the next node ID in the order and true, or "" and false once
// the traversal is exhausted.
func (t *StableTopo) Next() (string, bool) {
	slices.Sort(t.frontier)

	for len(t.frontier) > 0 {
		last := len(t.frontier) - 1
		id := t.frontier[last]
		t.frontier = t.frontier[:last]
		if t.ordered[id] {
			continue
		}
		t.ordered[id] = true

		for _, child := range t.g.Children(id) {
			if t.ready(child) {
				t.frontier = append(t.frontier, child)
			}
		}
		return id, true
	}
	return "", false
}

// ready reports whether every predecessor of id has been emitted.
func (t *StableTopo) ready(id string) bool {
	for _, p := range t.g.Parents(id) {
		if !t.ordered[p] {
			return false
		}
	}
	return true
}

// Collect drains the traversal and returns the remaining IDs in order.
func (t *StableTopo) Collect() []string {
	var ids []string
	for id, ok := t.Next(); ok; id, ok = t.Next() {
		ids = append(ids, id)
	}
	return ids
}

// Remaining returns the IDs of nodes not emitted so far, sorted.
// After a full traversal of an acyclic graph it is empty.
func (t *StableTopo) Remaining() []string {
	var ids []string
	for _, id := range t.g.NodeIDs() {
		if !t.ordered[id] {
			ids = append(ids, id)
		}
	}
	return ids
}
