// Package io provides JSON export and import for layer graphs.
//
// # JSON Format
//
// A document is an object with a "layers" array in emission order. Each layer
// has a "name" and "nodes" and "edges" arrays. Each node has an "id" (the
// file's declared name) and an optional "meta" object; topcat stores the
// originating file under meta.path. An edge from A to B means A is emitted
// before B:
//
//	{
//	  "layers": [
//	    {
//	      "name": "normal",
//	      "nodes": [
//	        {"id": "schema", "meta": {"path": "sql/schema.sql"}},
//	        {"id": "users", "meta": {"path": "sql/users.sql"}}
//	      ],
//	      "edges": [
//	        {"from": "schema", "to": "users"}
//	      ]
//	    }
//	  ]
//	}
//
// [WriteLayersJSON] writes this document; "topcat graph --format json" uses it.
//
// # Import
//
// [ReadLayersJSON] and [ImportLayersJSON] read a document back, so an export
// can be rendered again with "topcat graph --from-json" without re-reading
// the source tree. Unknown fields are rejected.
//
// # Determinism
//
// Nodes and edges are written sorted, so exporting the same graph twice
// yields identical bytes.
package io
