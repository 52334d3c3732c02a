// Package sink exports treemap scene snapshots.
//
// Every renderer takes a [scene.Snapshot], so the same exporters work for a
// resting view and for any frame captured mid-transition:
//
//   - [RenderSVG]: standalone SVG with one group per layer. The viewBox
//     starts HeaderSpace pixels above the tiles so the focal root's header
//     strip is visible.
//   - [RenderPNG]: native rasterization with fogleman/gg and a bitmap font.
//     It needs no external tools.
//   - [RenderPDF]: SVG converted by rsvg-convert (requires librsvg).
//   - [RenderJSON]: the snapshot plus category legend as JSON.
//
// Labels are drawn at the tile's top-left corner, name above count, and are
// truncated or dropped when the tile is too small to hold them.
//
// [scene.Snapshot]: github.com/matzehuels/zoomtree/pkg/render/treemap/scene.Snapshot
package sink
