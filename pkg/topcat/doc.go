// Package topcat orders header-annotated files so they can be concatenated
// into a single artifact, such as a migration script.
//
// # Headers
//
// Every file opens with a block of comment lines declaring its name and what
// it needs:
//
//	-- name: users
//	-- requires: schema, roles
//	-- layer: normal
//
// See package filenode for the full directive list.
//
// # Ordering
//
// [Graph.Build] discovers the candidate files, parses their headers and builds
// one graph per layer. Layers are emitted whole, in configured order; within a
// layer, files come after everything they require. [Graph.SortedFiles] yields
// the same list for the same file contents, however the files were found.
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
//
// # Failures
//
// Every problem except a missing name aborts the build with a coded error
// from package errors. Dependency cycles are reported in full: the returned
// *errors.CycleError lists every elementary cycle of every layer.
package topcat
