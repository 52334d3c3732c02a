// Package hierarchy turns a raw nested record into a weighted, sorted tree
// suitable for treemap layout.
//
// # Overview
//
// Datasets arrive as arbitrarily nested [RawNode] values: every node has a
// display name, leaves carry a numeric count and internal nodes carry
// children. [Build] converts such a record into a tree of [Node] values in
// a single post-order pass:
//
//   - Leaf weight is the leaf's count (negative, missing or non-finite
//     counts weigh zero).
//   - Internal weight is the sum of the children's weights. Any count an
//     internal node carries is kept for display but ignored for weight.
//   - Children are sorted by descending weight. Equal weights keep their
//     original relative order.
//
// After sorting, every node receives a stable ID: the dotted index path
// from the root ("0" for the root, "0.2.1" for the second child of the
// third top-level category). IDs survive serialization and are what the
// CLI, the HTTP API and the websocket protocol use to address nodes.
//
//	root := hierarchy.Build(raw)
//	n, err := root.Find("0.1")
//
// # Bounds
//
// Each [Node] has X0, Y0, X1, Y1 fields holding its rectangle in layout
// space. Build leaves them zero; the treemap layout package assigns them.
//
// # Degenerate Weights
//
// A tree whose total weight is zero is valid input. Layout code treats
// 0/0 proportions as zero, so such trees produce zero-area rectangles.
//
// # Concurrency
//
// A built tree is not mutated by any read-only helper in this package and
// may be shared between goroutines once layout has been applied.
package hierarchy
