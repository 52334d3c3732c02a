package zoom

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/zoomtree/pkg/errors"
	"github.com/matzehuels/zoomtree/pkg/hierarchy"
	"github.com/matzehuels/zoomtree/pkg/observability"
	"github.com/matzehuels/zoomtree/pkg/render/treemap/color"
	"github.com/matzehuels/zoomtree/pkg/render/treemap/layout"
	"github.com/matzehuels/zoomtree/pkg/render/treemap/scene"
)

const (
	// DefaultDuration is the length of a zoom transition.
	DefaultDuration = 750 * time.Millisecond

	// HeaderOffset and HeaderHeight place the focal root's header strip
	// above the tiles, outside the viewport's tile area.
	HeaderOffset = -50
	HeaderHeight = 30
)

// Controller owns the view state of one treemap scene.
type Controller struct {
	mu       sync.Mutex
	tree     *hierarchy.Node
	scene    *scene.Scene
	colors   *color.Resolver
	animator scene.Animator
	duration time.Duration
	ref      layout.Size
	logger   *log.Logger

	vp    layout.Viewport
	state State
	layer int // ID of the layer rendered for the current or incoming root
}

// Option configures a Controller.
type Option func(*Controller)

// WithAnimator sets how transitions are played. Defaults to a real-time
// [scene.Timeline].
func WithAnimator(a scene.Animator) Option { return func(c *Controller) { c.animator = a } }

// WithDuration sets the transition length.
func WithDuration(d time.Duration) Option { return func(c *Controller) { c.duration = d } }

// WithColors sets the color resolver. Defaults to color.New(tree).
func WithColors(r *color.Resolver) Option { return func(c *Controller) { c.colors = r } }

// WithReference sets the reference space used to tile incoming roots.
func WithReference(s layout.Size) Option { return func(c *Controller) { c.ref = s } }

// WithLogger sets the logger for transition events.
func WithLogger(l *log.Logger) Option { return func(c *Controller) { c.logger = l } }

// New renders tree into sc as the initial Resting state and subscribes to
// the scene's click and back events. If the tree has no layout yet, it is
// laid out in the unit square.
func New(tree *hierarchy.Node, sc *scene.Scene, opts ...Option) *Controller {
	c := &Controller{
		tree:     tree,
		scene:    sc,
		animator: scene.Timeline{},
		duration: DefaultDuration,
		ref:      layout.Reference,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.colors == nil {
		c.colors = color.New(tree)
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	if layout.Bounds(tree) == (layout.Rect{}) {
		layout.Apply(tree, layout.Options{Reference: c.ref})
	}

	w, h := sc.Size()
	c.vp = layout.NewViewport(w, h).Focus(tree)
	c.state = State{Phase: Resting, Root: tree}

	l := sc.NewLayer(tree.ID, c.elements(tree))
	for i, a := range c.positions(tree, c.vp) {
		l.Elements[i].Attrs = a
	}
	sc.AppendLayer(l)
	sc.SetBackVisible(false)
	c.layer = l.ID

	sc.OnEvent(c.Handle)
	return c
}

// State returns a copy of the current view state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// BackVisible reports whether the back affordance should be shown, which
// is whenever the settled root has a parent.
func (c *Controller) BackVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Root.Parent != nil
}

// Tree returns the full tree the controller navigates.
func (c *Controller) Tree() *hierarchy.Node { return c.tree }

// Colors returns the controller's color resolver.
func (c *Controller) Colors() *color.Resolver { return c.colors }

// Handle routes a scene event: the back control and the header strip of a
// root with a parent zoom out, clickable tiles zoom in, anything else is
// ignored.
func (c *Controller) Handle(ctx context.Context, ev scene.Event) error {
	switch {
	case ev.Kind == scene.Back:
		_, err := c.ZoomOut(ctx)
		return err
	case ev.Kind == scene.Click && ev.Header:
		_, err := c.ZoomOut(ctx)
		return err
	case ev.Kind == scene.Click:
		n, err := c.tree.Find(ev.NodeID)
		if err != nil {
			return err
		}
		if n.IsLeaf() {
			return nil
		}
		_, err = c.ZoomIn(ctx, n)
		return err
	}
	return nil
}

// ZoomIn makes d the focal root. d must be a child of the current root,
// i.e. one of the visible tiles. It blocks until the transition has settled.
func (c *Controller) ZoomIn(ctx context.Context, d *hierarchy.Node) (*Transition, error) {
	c.mu.Lock()
	if err := c.acceptLocked(ctx, In, d); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if d == nil || d.Parent != c.state.Root {
		c.mu.Unlock()
		target := "<nil>"
		if d != nil {
			target = d.ID
		}
		err := errors.New(errors.ErrCodeNotVisible, "node %s is not a child of the current root %s", target, c.state.Root.ID)
		observability.Zoom().OnZoomRejected(ctx, string(In), target, err)
		return nil, err
	}

	from := c.state.Root
	layout.Tile(d, layout.Bounds(d), c.ref)

	incoming := c.scene.NewLayer(d.ID, c.elements(d))
	start := c.positions(d, c.vp)
	for i, a := range start {
		incoming.Elements[i].Attrs = a
	}
	incoming.Opacity = 0

	outgoing := c.layer
	outFrom := c.currentAttrs(outgoing)
	c.scene.SetInteractive(outgoing, false)
	c.scene.AppendLayer(incoming)

	c.vp = c.vp.Focus(d)
	t := &Transition{
		Direction:   In,
		From:        from.ID,
		To:          d.ID,
		Placement:   Above,
		Outgoing:    outgoing,
		Incoming:    copyLayer(incoming),
		BackVisible: d.Parent != nil,
		Tweens: []scene.Tween{
			{Layer: outgoing, From: outFrom, To: c.positions(from, c.vp), Opacity: [2]float64{1, 1}},
			{Layer: incoming.ID, From: start, To: c.positions(d, c.vp), Opacity: [2]float64{0, 1}},
		},
	}
	c.beginLocked(t, from, d, incoming.ID)
	c.mu.Unlock()

	return t, c.run(ctx, t, d)
}

// ZoomOut makes the parent of the current root the focal root. At the
// tree root it is a no-op and returns a nil Transition.
func (c *Controller) ZoomOut(ctx context.Context) (*Transition, error) {
	c.mu.Lock()
	if err := c.acceptLocked(ctx, Out, c.state.Root); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	from := c.state.Root
	p := from.Parent
	if p == nil {
		c.mu.Unlock()
		c.logger.Debug("zoom out ignored at tree root")
		return nil, nil
	}

	layout.Tile(p, layout.Bounds(p), c.ref)

	incoming := c.scene.NewLayer(p.ID, c.elements(p))
	start := c.positions(p, c.vp)
	for i, a := range start {
		incoming.Elements[i].Attrs = a
	}

	outgoing := c.layer
	outFrom := c.currentAttrs(outgoing)
	c.scene.SetInteractive(outgoing, false)
	c.scene.InsertLayerBelow(incoming)

	c.vp = c.vp.Focus(p)
	t := &Transition{
		Direction:   Out,
		From:        from.ID,
		To:          p.ID,
		Placement:   Below,
		Outgoing:    outgoing,
		Incoming:    copyLayer(incoming),
		BackVisible: p.Parent != nil,
		Tweens: []scene.Tween{
			{Layer: outgoing, From: outFrom, To: c.positions(from, c.vp), Opacity: [2]float64{1, 0}},
			{Layer: incoming.ID, From: start, To: c.positions(p, c.vp), Opacity: [2]float64{1, 1}},
		},
	}
	c.beginLocked(t, from, p, incoming.ID)
	c.mu.Unlock()

	return t, c.run(ctx, t, p)
}

// acceptLocked rejects requests while a transition is running.
func (c *Controller) acceptLocked(ctx context.Context, dir Direction, target *hierarchy.Node) error {
	if c.state.Phase != Transitioning {
		return nil
	}
	id := ""
	if target != nil {
		id = target.ID
	}
	err := errors.New(errors.ErrCodeTransitionInFlight, "zoom %s rejected: transition %s -> %s in flight",
		dir, c.state.Outgoing.ID, c.state.Incoming.ID)
	c.logger.Debug("zoom rejected", "direction", dir, "target", id)
	observability.Zoom().OnZoomRejected(ctx, string(dir), id, err)
	return err
}

func (c *Controller) beginLocked(t *Transition, from, to *hierarchy.Node, layer int) {
	t.Duration = c.duration
	t.DurationMS = c.duration.Milliseconds()
	c.state = State{Phase: Transitioning, Root: from, Outgoing: from, Incoming: to}
	c.layer = layer
}

// run plays the transition, then removes the outgoing layer and settles.
// The state settles even if the animator fails.
func (c *Controller) run(ctx context.Context, t *Transition, to *hierarchy.Node) error {
	observability.Zoom().OnZoomStart(ctx, string(t.Direction), t.From, t.To)
	c.logger.Debug("zoom started", "direction", t.Direction, "from", t.From, "to", t.To)

	started := time.Now()
	err := c.animator.Animate(ctx, c.scene, c.duration, t.Tweens...)

	c.mu.Lock()
	c.scene.Remove(t.Outgoing)
	c.scene.SetBackVisible(to.Parent != nil)
	c.state = State{Phase: Resting, Root: to}
	c.mu.Unlock()

	elapsed := time.Since(started)
	observability.Zoom().OnZoomSettled(ctx, string(t.Direction), t.From, t.To, elapsed, err)
	c.logger.Debug("zoom settled", "direction", t.Direction, "root", to.ID, "duration", elapsed)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "zoom %s to %s", t.Direction, t.To)
	}
	return nil
}

// elements builds the element list for a layer focused on root: one tile
// per child followed by the header strip for root itself.
func (c *Controller) elements(root *hierarchy.Node) []scene.Element {
	els := make([]scene.Element, 0, len(root.Children)+1)
	for _, n := range root.Children {
		els = append(els, scene.Element{
			NodeID:    n.ID,
			Name:      n.Name,
			Label:     n.CountLabel(),
			Fill:      c.colors.Resolve(n),
			Clickable: !n.IsLeaf(),
		})
	}
	return append(els, scene.Element{
		NodeID:    root.ID,
		Name:      root.Name,
		Label:     root.CountLabel(),
		Fill:      c.colors.Resolve(root),
		Header:    true,
		Clickable: root.Parent != nil,
	})
}

// positions places the elements of a layer focused on root under vp.
func (c *Controller) positions(root *hierarchy.Node, vp layout.Viewport) []scene.Attrs {
	out := make([]scene.Attrs, 0, len(root.Children)+1)
	for _, n := range root.Children {
		p := vp.Project(layout.Bounds(n))
		out = append(out, scene.Attrs{X: p.X0, Y: p.Y0, W: p.X1 - p.X0, H: p.Y1 - p.Y0})
	}
	return append(out, scene.Attrs{X: 0, Y: HeaderOffset, W: vp.Width, H: HeaderHeight})
}

func (c *Controller) currentAttrs(id int) []scene.Attrs {
	l, ok := c.scene.Layer(id)
	if !ok {
		return nil
	}
	out := make([]scene.Attrs, len(l.Elements))
	for i, e := range l.Elements {
		out[i] = e.Attrs
	}
	return out
}

func copyLayer(l *scene.Layer) scene.Layer {
	cp := *l
	cp.Elements = append([]scene.Element(nil), l.Elements...)
	return cp
}
