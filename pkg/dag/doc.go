// Package dag provides a small directed graph keyed by string IDs, together
// with the deterministic traversals topcat needs to order files.
//
// # Overview
//
// Each header-declared file becomes a node; an edge From → To means From has
// to be emitted before To. The graph itself does not forbid cycles, because
// cycles are a user error that must be reported in full rather than rejected
// edge by edge. Use [HasCycle] for a fast yes/no answer and [Cycles] to list
// every elementary cycle.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]:
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "schema"})
//	g.AddNode(dag.Node{ID: "users"})
//	g.AddEdge(dag.Edge{From: "schema", To: "users"})
//
// # Determinism
//
// Every query returning several IDs returns them sorted. [StableTopo] extends
// the guarantee to ordering: the sequence it yields depends on node IDs and
// edge structure only, never on insertion order or map iteration, so the same
// inputs produce byte-identical output across runs and machines.
//
// # Metadata
//
// Nodes carry arbitrary [Metadata]. topcat stores the originating file under
// [MetaPath] so that diagnostics and renderers can point back to the source.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Callers must synchronize access
// if multiple goroutines read or modify the same graph. Read-only traversals of
// different graphs can safely run in parallel.
package dag
