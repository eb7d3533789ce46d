// Package filenode extracts dependency metadata from the leading comment
// header of a source file.
//
// # Header Block
//
// The header block is the maximal leading run of lines that are either empty
// or start with the comment prefix. Reading stops at the first line that is
// neither, so the body of the file is never inspected:
//
//	-- name: create_users
//	-- requires: create_schema, create_roles
//	-- layer: normal
//
//	CREATE TABLE users (...);
//
// Header lines are trimmed and lower-cased before directives are matched, so
// directive keys are case-insensitive and directive values are lower-cased.
//
// # Directives
//
// Each directive is the comment prefix, a space and a key:
//
//   - name: the node name, exactly once per file
//   - requires: names this file depends on (comma or whitespace separated)
//   - dropped_by: alias of requires
//   - layer: the ordering phase, overriding the fallback layer
//   - is_initial: legacy spelling of "layer: prepend"
//   - is_final: legacy spelling of "layer: append"
//   - exists: names that must exist in the input set, without ordering
//
// A file without a name directive yields an [errors.ErrCodeNoNameDefined]
// error; callers are expected to skip such files. A second name directive and
// a layer outside the configured list are fatal.
//
// # Identity
//
// A [Node] is identified by its name alone. [Compare] orders nodes by name and
// is the total order used by the stable topological sort.
package filenode
