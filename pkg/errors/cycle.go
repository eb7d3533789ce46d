package errors

import (
	"fmt"
	"strings"
)

// Participant identifies a file taking part in a dependency cycle.
type Participant struct {
	Name string
	Path string
}

// Cycle describes one elementary cycle found in a layer graph.
//
// Edges holds the directed edges in traversal order, including the edge from
// the last node back to the first.
type Cycle struct {
	Layer        string
	Participants []Participant
	Edges        [][2]string
}

// CycleError reports every elementary cycle found across all layer graphs.
type CycleError struct {
	Cycles []Cycle
}

// Code returns the error code for this error type.
func (e *CycleError) Code() Code {
	return ErrCodeCyclicDependency
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: cyclic dependency detected:\n", ErrCodeCyclicDependency)
	for i, c := range e.Cycles {
		if c.Layer != "" {
			fmt.Fprintf(&b, "  Cycle %d (layer %s):\n", i+1, c.Layer)
		} else {
			fmt.Fprintf(&b, "  Cycle %d:\n", i+1)
		}
		b.WriteString("    Participants:\n")
		for _, p := range c.Participants {
			fmt.Fprintf(&b, "      - %s (%s)\n", p.Name, p.Path)
		}
		b.WriteString("    Edges:\n")
		for _, edge := range c.Edges {
			fmt.Fprintf(&b, "      - %s -> %s\n", edge[0], edge[1])
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}
