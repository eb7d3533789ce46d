package filenode

import (
	"maps"
	"slices"
	"strings"
)

// Legacy layer names that the is_initial and is_final directives map onto.
const (
	LayerPrepend = "prepend"
	LayerNormal  = "normal"
	LayerAppend  = "append"
)

// Set is an unordered collection of node names.
type Set map[string]struct{}

// NewSet returns a set holding names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Add inserts name into the set.
func (s Set) Add(name string) { s[name] = struct{}{} }

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the names in ascending lexical order.
func (s Set) Sorted() []string { return slices.Sorted(maps.Keys(s)) }

// Node is the parsed header of one source file.
//
// Two nodes are the same node if and only if their names match; Path, Deps,
// Layer and EnsureExists do not take part in identity or ordering.
type Node struct {
	Name         string // Globally unique identifier
	Path         string // Originating file
	Deps         Set    // Names this node requires
	Layer        string // Ordering phase
	EnsureExists Set    // Names that must exist somewhere in the input set
}

// String returns the node name.
func (n *Node) String() string { return n.Name }

// Equal reports whether n and other share a name.
func (n *Node) Equal(other *Node) bool { return n.Name == other.Name }

// Compare orders nodes by name. It returns a negative number when a sorts
// before b, zero when they are the same node and a positive number otherwise.
func Compare(a, b *Node) int { return strings.Compare(a.Name, b.Name) }

// Nodes is a slice of nodes with helpers for deterministic iteration.
type Nodes []*Node

// SortedNodes returns the values of m ordered by name.
func SortedNodes(m map[string]*Node) Nodes {
	nodes := make(Nodes, 0, len(m))
	for _, n := range m {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, Compare)
	return nodes
}

// Names returns the node names in slice order.
func (ns Nodes) Names() []string {
	names := make([]string, len(ns))
	for i, n := range ns {
		names[i] = n.Name
	}
	return names
}
