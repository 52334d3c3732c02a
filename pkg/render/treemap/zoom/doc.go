// Package zoom drives click-to-zoom navigation of a treemap scene.
//
// # States
//
// A [Controller] is always in one of two phases:
//
//   - Resting(root): root's children fill the viewport and the scene has
//     exactly one layer.
//   - Transitioning(outgoing, incoming): two layers are live and animating.
//
// The initial state is Resting(tree root). The focal root changes only
// when a transition settles, so [Controller.State] never reports an
// in-flight target as the settled root.
//
// # Zoom In
//
// [Controller.ZoomIn] accepts any strict descendant of the current root.
// The current layer stops receiving clicks, a layer for the target is
// appended on top at the old scale, and the viewport is focused on the
// target's bounds. The two layers then animate together: the old one
// repositions under the new scale (its tiles grow past the screen edges)
// while the new one fades in and expands to fill the viewport. The old
// layer is removed when the animation ends.
//
// # Zoom Out
//
// [Controller.ZoomOut] replaces the current root with its parent. The
// parent's layer is inserted beneath the current layer, which fades out
// while shrinking into its own bounds within the parent. At the tree root
// ZoomOut does nothing.
//
// # Re-entrancy
//
// Requests that arrive while a transition is running are rejected with an
// [errors.ErrCodeTransitionInFlight] error. Nothing is queued and the
// running transition is never cancelled.
//
// # Transition Plans
//
// Every accepted zoom returns a [Transition] describing the new layer, the
// insertion order and each layer's tween. Remote clients replay the plan
// to animate the same transition the controller applied to its scene.
//
// [errors.ErrCodeTransitionInFlight]: github.com/matzehuels/zoomtree/pkg/errors.ErrCodeTransitionInFlight
package zoom
