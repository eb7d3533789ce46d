// Package source discovers the candidate files of a topcat run.
//
// [Discover] walks a list of directories and filters what it finds by
// visibility, extension and glob. Glob patterns follow .dockerignore syntax
// (see github.com/moby/patternmatcher), including "**" and "!" exceptions,
// and are matched against paths relative to [Options.WorkDir].
//
// The returned list is sorted, so discovery never leaks directory enumeration
// order into later stages.
package source
