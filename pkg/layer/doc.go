// Package layer partitions parsed file nodes into per-layer graphs.
//
// A [Sequence] is the ordered list of layers (prepend, normal and append by
// default). [Build] places every node in the graph of its layer, then checks
// existence assertions and dependencies and adds an edge for each dependency
// between two nodes of the same layer. A dependency on a node of a later
// layer is rejected: the dependent would be emitted before the file it needs.
//
// [CheckCycles] gates sorting. It reports every elementary cycle of every
// cyclic layer in a single error instead of stopping at the first one.
package layer
