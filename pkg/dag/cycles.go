package dag

import "slices"

// HasCycle reports whether g contains a directed cycle, including self-loops.
func HasCycle(g *DAG) bool {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, g.NodeCount())
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range g.Children(id) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
			}
			if hasCycle {
				return
			}
		}
		color[id] = black
	}

	for _, id := range g.NodeIDs() {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return true
			}
		}
	}
	return false
}

// Cycles enumerates every elementary cycle of g using Johnson's algorithm.
//
// Each cycle is returned as the sequence of node IDs along its edges, starting
// at the cycle's smallest ID; the closing edge from the last ID back to the
// first is implied. Cycles are ordered by their starting ID, then by the
// lexical order of the successors taken while walking them, so the result is
// a function of the graph's node IDs and edges only.
func Cycles(g *DAG) [][]string {
	ids := g.NodeIDs()
	pos := PosMap(ids)

	var cycles [][]string
	for s, start := range ids {
		allowed := func(id string) bool { return pos[id] >= s }
		comp := component(g, start, allowed)
		if len(comp) == 1 && !slices.Contains(g.Children(start), start) {
			continue
		}

		j := &johnson{
			start:   start,
			succ:    make(map[string][]string, len(comp)),
			blocked: make(map[string]bool, len(comp)),
			b:       make(map[string]map[string]bool, len(comp)),
		}
		for id := range comp {
			var next []string
			for _, c := range g.Children(id) {
				if comp[c] {
					next = append(next, c)
				}
			}
			slices.Sort(next)
			j.succ[id] = next
		}
		j.circuit(start)
		cycles = append(cycles, j.cycles...)
	}
	return cycles
}

// CycleEdges returns the directed edges of a cycle returned by [Cycles],
// including the wraparound edge from the last node to the first.
func CycleEdges(cycle []string) []Edge {
	edges := make([]Edge, len(cycle))
	for i, id := range cycle {
		edges[i] = Edge{From: id, To: cycle[(i+1)%len(cycle)]}
	}
	return edges
}

// component returns the strongly connected component containing start in the
// subgraph induced by the allowed nodes: the nodes both reachable from start
// and able to reach it.
func component(g *DAG, start string, allowed func(string) bool) map[string]bool {
	forward := reach(start, g.Children, allowed)
	backward := reach(start, g.Parents, allowed)
	comp := make(map[string]bool)
	for id := range forward {
		if backward[id] {
			comp[id] = true
		}
	}
	return comp
}

func reach(start string, next func(string) []string, allowed func(string) bool) map[string]bool {
	seen := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, n := range next(curr) {
			if !seen[n] && allowed(n) {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return seen
}

// johnson holds the search state for the circuits rooted at one start node.
type johnson struct {
	start   string
	succ    map[string][]string
	blocked map[string]bool
	b       map[string]map[string]bool
	stack   []string
	cycles  [][]string
}

func (j *johnson) circuit(v string) bool {
	found := false
	j.stack = append(j.stack, v)
	j.blocked[v] = true

	for _, w := range j.succ[v] {
		if w == j.start {
			j.cycles = append(j.cycles, slices.Clone(j.stack))
			found = true
		} else if !j.blocked[w] && j.circuit(w) {
			found = true
		}
	}

	if found {
		j.unblock(v)
	} else {
		for _, w := range j.succ[v] {
			if j.b[w] == nil {
				j.b[w] = make(map[string]bool)
			}
			j.b[w][v] = true
		}
	}

	j.stack = j.stack[:len(j.stack)-1]
	return found
}

func (j *johnson) unblock(u string) {
	j.blocked[u] = false
	for w := range j.b[u] {
		delete(j.b[u], w)
		if j.blocked[w] {
			j.unblock(w)
		}
	}
}
