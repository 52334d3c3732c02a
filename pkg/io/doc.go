// Package io decodes hierarchical datasets into [hierarchy.RawNode] trees
// and writes them back out as JSON.
//
// # Formats
//
// Three document formats are accepted, chosen by file extension with
// [DetectFormat] or explicitly with [ParseFormat]:
//
//   - JSON (.json), parsed with ojg
//   - YAML (.yaml, .yml)
//   - TOML (.toml)
//
// Every format is first decoded into a generic document and then walked
// into a RawNode, so the three share one set of field rules:
//
//	{
//	  "data": {
//	    "name": "root",
//	    "children": [
//	      {"name": "A", "count": 30},
//	      {"name": "B", "total_count": 70, "children": [...]}
//	    ]
//	  }
//	}
//
// name is any scalar (non-strings are formatted), count and total_count
// must be numbers, and children must be a list of objects.
//
// # Selecting the hierarchy
//
// The hierarchy is located with a JSONPath expression. The default,
// [DefaultDataPath], is "$.data"; when nothing matches it and the document
// itself has a name, the document is used as the root. An explicit path
// never falls back. The first match wins.
//
//	raw, err := io.Decode(data, io.FormatYAML, "$.datasets[0]")
//
// # Errors
//
// Syntax errors carry the INVALID_FORMAT code and structural problems
// (missing hierarchy, wrong field types) carry INVALID_INPUT, both from
// [github.com/matzehuels/zoomtree/pkg/errors].
//
// # Export
//
// [WriteJSON] and [ExportJSON] write a RawNode wrapped in {"data": ...},
// which [Decode] reads back with the default path.
package io
