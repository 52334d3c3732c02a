// Package layout computes treemap rectangles and the scales that project
// them onto a viewport.
//
// # Binary Tiling
//
// [Binary] partitions a rectangle among a list of weights by recursive
// bisection. At each step the weight list is split where both halves are
// closest to equal, the rectangle is cut across its longer side, and the
// cut position is proportional to the weight on each side. Areas therefore
// follow the weights, while the shapes are a heuristic: the recursion keeps
// rectangles near square without searching for the best aspect ratios.
//
// When two split points balance equally well, the later one wins, so the
// leading partition receives more items. Partitions of zero total weight
// collapse to zero-area rectangles at their origin.
//
// # Reference Space
//
// [Tile] always runs the tiling in a fixed reference space (1400x700 by
// default) and then rescales the result linearly into the caller's target
// rectangle. The cut axis therefore depends on the reference aspect ratio,
// not on the possibly stretched target, which keeps zoomed layouts stable.
//
// [Apply] assigns the root's bounds and tiles every internal node in
// pre-order, writing X0, Y0, X1, Y1 on each [hierarchy.Node].
//
// # Viewport
//
// A [Viewport] holds an x and a y [Scale] mapping layout coordinates onto
// pixels. [Viewport.Focus] points the scale domains at a node's bounds,
// which is how a zoom makes a node fill the screen.
//
// [hierarchy.Node]: github.com/matzehuels/zoomtree/pkg/hierarchy.Node
package layout
