// Package pkg provides the libraries behind topcat, a dependency-aware file
// concatenator.
//
// # Overview
//
// Topcat reads a header block from each candidate file, builds one graph per
// layer from the declared names and requirements, and emits the files in an
// order where every file follows what it requires. The pkg directory is
// organized by stage:
//
//  1. [source] - Candidate discovery (directories, extensions, globs)
//  2. [filenode] - Header parsing into nodes
//  3. [layer] - Layer sequences, per-layer graphs, cycle reports
//  4. [dag] - Graph structure, cycle enumeration, stable topological sort
//  5. [topcat] - Orchestration (build once, query many times)
//  6. [output] - Concatenation and staleness checks
//
// Supporting packages: [errors] (coded errors), [observability] (build
// hooks), [io] (JSON export), [render] and [render/nodelink] (DOT, SVG, PDF
// and PNG), [buildinfo] (version stamping).
//
// # Architecture
//
//	input directories
//	         ↓
//	    [source] package (sorted candidate paths)
//	         ↓
//	    [filenode] package (name, requires, layer, exists)
//	         ↓
//	    [layer] package (one DAG per layer, cross-layer checks)
//	         ↓
//	    [dag] package (stable topological order per layer)
//	         ↓
//	    [output] package (concatenated artifact)
//
// # Quick Start
//
//	g, err := topcat.New(topcat.Config{
//	    Sources: source.Options{Dirs: []string{"migrations"}, IncludeExtensions: []string{"sql"}},
//	})
//	if err != nil {
//	    return err
//	}
//	if err := g.Build(); err != nil {
//	    return err
//	}
//	files, err := g.SortedFiles()
//	if err != nil {
//	    return err
//	}
//	return output.WriteFile("build/migrate.sql", files, output.DefaultOptions(), nil)
//
// [source]: https://pkg.go.dev/github.com/matzehuels/topcat/pkg/source
// [filenode]: https://pkg.go.dev/github.com/matzehuels/topcat/pkg/filenode
// [layer]: https://pkg.go.dev/github.com/matzehuels/topcat/pkg/layer
// [dag]: https://pkg.go.dev/github.com/matzehuels/topcat/pkg/dag
// [topcat]: https://pkg.go.dev/github.com/matzehuels/topcat/pkg/topcat
// [output]: https://pkg.go.dev/github.com/matzehuels/topcat/pkg/output
// [errors]: https://pkg.go.dev/github.com/matzehuels/topcat/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/topcat/pkg/observability
// [io]: https://pkg.go.dev/github.com/matzehuels/topcat/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/topcat/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/topcat/pkg/render/nodelink
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/topcat/pkg/buildinfo
package pkg
