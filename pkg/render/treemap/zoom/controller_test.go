package zoom

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/zoomtree/pkg/errors"
	"github.com/matzehuels/zoomtree/pkg/hierarchy"
	"github.com/matzehuels/zoomtree/pkg/render/treemap/scene"
)

func f(v float64) *float64 { return &v }

// fixture: root -> B(b1=40, b2=30), A(a2=20, a1=10).
func fixture() *hierarchy.Node {
	return hierarchy.Build(hierarchy.RawNode{
		Name: "root",
		Children: []hierarchy.RawNode{
			{Name: "A", Children: []hierarchy.RawNode{
				{Name: "a1", Count: f(10)},
				{Name: "a2", Count: f(20)},
			}},
			{Name: "B", Children: []hierarchy.RawNode{
				{Name: "b1", Count: f(40)},
				{Name: "b2", Count: f(30)},
			}},
		},
	})
}

func newController(t *testing.T, opts ...Option) (*Controller, *scene.Scene) {
	t.Helper()
	sc := scene.New(1000, 500)
	opts = append([]Option{
		WithAnimator(scene.Immediate{}),
		WithLogger(log.New(io.Discard)),
	}, opts...)
	return New(fixture(), sc, opts...), sc
}

func mustFind(t *testing.T, c *Controller, id string) *hierarchy.Node {
	t.Helper()
	n, err := c.Tree().Find(id)
	require.NoError(t, err)
	return n
}

func tileAttrs(l scene.Layer) map[string]scene.Attrs {
	out := make(map[string]scene.Attrs, len(l.Elements))
	for _, e := range l.Elements {
		out[e.NodeID] = e.Attrs
	}
	return out
}

// gate is an animator that blocks until released.
type gate struct {
	started chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{started: make(chan struct{}, 1), release: make(chan struct{})}
}

func (g *gate) Animate(ctx context.Context, s *scene.Scene, d time.Duration, tweens ...scene.Tween) error {
	g.started <- struct{}{}
	<-g.release
	return scene.Immediate{}.Animate(ctx, s, d, tweens...)
}

func TestInitialState(t *testing.T) {
	c, sc := newController(t)

	st := c.State()
	assert.Equal(t, Resting, st.Phase)
	assert.Same(t, c.Tree(), st.Root)
	assert.False(t, c.BackVisible())
	assert.False(t, sc.BackVisible())

	snap := sc.Snapshot()
	require.Len(t, snap.Layers, 1)
	els := snap.Layers[0].Elements
	require.Len(t, els, 3)

	// 70/30 split of a 1000x500 viewport; B sorts first.
	assert.Equal(t, "B", els[0].Name)
	assert.Equal(t, scene.Attrs{X: 0, Y: 0, W: 700, H: 500}, els[0].Attrs)
	assert.Equal(t, "A", els[1].Name)
	assert.Equal(t, scene.Attrs{X: 700, Y: 0, W: 300, H: 500}, els[1].Attrs)
	assert.NotEqual(t, els[0].Fill, els[1].Fill)
	assert.NotEqual(t, "#ffffff", els[0].Fill)
	assert.NotEqual(t, "#ffffff", els[1].Fill)

	header := els[2]
	assert.True(t, header.Header)
	assert.False(t, header.Clickable, "root header has no parent to return to")
	assert.Equal(t, "#ffffff", header.Fill)
	assert.Equal(t, scene.Attrs{X: 0, Y: HeaderOffset, W: 1000, H: HeaderHeight}, header.Attrs)
}

func TestZoomRoundTrip(t *testing.T) {
	c, sc := newController(t)
	ctx := context.Background()
	before := tileAttrs(sc.Snapshot().Layers[0])

	b := mustFind(t, c, "0.0")
	tr, err := c.ZoomIn(ctx, b)
	require.NoError(t, err)
	require.NotNil(t, tr)

	assert.Same(t, b, c.State().Root)
	assert.True(t, c.BackVisible())
	assert.True(t, sc.BackVisible())
	snap := sc.Snapshot()
	require.Len(t, snap.Layers, 1)
	assert.Equal(t, "0.0", snap.Layers[0].RootID)
	assert.True(t, snap.Layers[0].Interactive)
	assert.Equal(t, 1.0, snap.Layers[0].Opacity)

	tr, err = c.ZoomOut(ctx)
	require.NoError(t, err)
	require.NotNil(t, tr)

	assert.Same(t, c.Tree(), c.State().Root)
	assert.False(t, c.BackVisible())
	snap = sc.Snapshot()
	require.Len(t, snap.Layers, 1)
	assert.Equal(t, before, tileAttrs(snap.Layers[0]))
}

func TestZoomInFillsViewport(t *testing.T) {
	c, sc := newController(t)
	_, err := c.ZoomIn(context.Background(), mustFind(t, c, "0.0"))
	require.NoError(t, err)

	var width float64
	for _, e := range sc.Snapshot().Layers[0].Elements {
		if e.Header {
			assert.True(t, e.Clickable)
			continue
		}
		assert.Equal(t, 500.0, e.Attrs.H)
		width += e.Attrs.W
	}
	assert.Equal(t, 1000.0, width)
}

func TestZoomInTransitionPlan(t *testing.T) {
	c, _ := newController(t)
	tr, err := c.ZoomIn(context.Background(), mustFind(t, c, "0.1"))
	require.NoError(t, err)

	assert.Equal(t, In, tr.Direction)
	assert.Equal(t, "0", tr.From)
	assert.Equal(t, "0.1", tr.To)
	assert.Equal(t, Above, tr.Placement)
	assert.Equal(t, int64(750), tr.DurationMS)
	assert.True(t, tr.BackVisible)
	require.Len(t, tr.Tweens, 2)

	out, in := tr.Tweens[0], tr.Tweens[1]
	assert.Equal(t, tr.Outgoing, out.Layer)
	assert.Equal(t, [2]float64{1, 1}, out.Opacity)
	assert.Equal(t, tr.Incoming.ID, in.Layer)
	assert.Equal(t, [2]float64{0, 1}, in.Opacity)
	assert.Equal(t, 0.0, tr.Incoming.Opacity)

	// The incoming tiles start inside A's pre-zoom bounds.
	for _, a := range in.From[:len(in.From)-1] {
		assert.GreaterOrEqual(t, a.X, 700.0)
		assert.LessOrEqual(t, a.X+a.W, 1000.0)
	}
	// The outgoing A tile grows to fill the viewport.
	assert.Equal(t, scene.Attrs{X: 0, Y: 0, W: 1000, H: 500}, out.To[1])
}

func TestZoomOutTransitionPlan(t *testing.T) {
	c, _ := newController(t)
	ctx := context.Background()
	_, err := c.ZoomIn(ctx, mustFind(t, c, "0.0"))
	require.NoError(t, err)

	tr, err := c.ZoomOut(ctx)
	require.NoError(t, err)

	assert.Equal(t, Out, tr.Direction)
	assert.Equal(t, Below, tr.Placement)
	assert.False(t, tr.BackVisible)
	assert.Equal(t, [2]float64{1, 0}, tr.Tweens[0].Opacity)
	assert.Equal(t, [2]float64{1, 1}, tr.Tweens[1].Opacity)

	// Outgoing B tiles shrink back into B's bounds.
	for _, a := range tr.Tweens[0].To[:len(tr.Tweens[0].To)-1] {
		assert.LessOrEqual(t, a.X+a.W, 700.0)
	}
}

func TestZoomOutAtRootIsNoop(t *testing.T) {
	c, sc := newController(t)
	before := sc.Snapshot()

	tr, err := c.ZoomOut(context.Background())
	require.NoError(t, err)
	assert.Nil(t, tr)
	assert.Same(t, c.Tree(), c.State().Root)
	assert.Equal(t, before, sc.Snapshot())
}

func TestZoomIntoLeaf(t *testing.T) {
	c, sc := newController(t)
	ctx := context.Background()
	leaf := mustFind(t, c, "0.0.1")
	require.True(t, leaf.IsLeaf())

	_, err := c.ZoomIn(ctx, mustFind(t, c, "0.0"))
	require.NoError(t, err)
	_, err = c.ZoomIn(ctx, leaf)
	require.NoError(t, err)

	snap := sc.Snapshot()
	require.Len(t, snap.Layers, 1)
	require.Len(t, snap.Layers[0].Elements, 1, "only the header strip")
	assert.True(t, snap.Layers[0].Elements[0].Header)
	assert.Same(t, leaf, c.State().Root)
}

func TestZoomInRejectsInvisibleNodes(t *testing.T) {
	c, _ := newController(t)
	ctx := context.Background()

	_, err := c.ZoomIn(ctx, c.Tree())
	assert.True(t, errors.Is(err, errors.ErrCodeNotVisible), "root is not a strict descendant of itself")

	_, err = c.ZoomIn(ctx, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeNotVisible))

	_, err = c.ZoomIn(ctx, mustFind(t, c, "0.0"))
	require.NoError(t, err)
	_, err = c.ZoomIn(ctx, mustFind(t, c, "0.1.0"))
	assert.True(t, errors.Is(err, errors.ErrCodeNotVisible), "sibling subtree is not visible")
	assert.Equal(t, "0.0", c.State().Root.ID)
}

func TestZoomInRejectsGrandchild(t *testing.T) {
	c, sc := newController(t)
	ctx := context.Background()
	before := sc.Snapshot()

	// b1 lies inside B; at the root only A and B have tiles.
	tr, err := c.ZoomIn(ctx, mustFind(t, c, "0.0.0"))
	assert.Nil(t, tr)
	assert.True(t, errors.Is(err, errors.ErrCodeNotVisible))
	assert.Equal(t, Resting, c.State().Phase)
	assert.Same(t, c.Tree(), c.State().Root)
	assert.Equal(t, before, sc.Snapshot())

	// Stepping down one level at a time reaches it, and one ZoomOut
	// returns to its parent.
	_, err = c.ZoomIn(ctx, mustFind(t, c, "0.0"))
	require.NoError(t, err)
	_, err = c.ZoomIn(ctx, mustFind(t, c, "0.0.0"))
	require.NoError(t, err)
	_, err = c.ZoomOut(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0.0", c.State().Root.ID)
}

func TestRejectsZoomWhileTransitioning(t *testing.T) {
	g := newGate()
	c, sc := newController(t, WithAnimator(g))
	ctx := context.Background()
	b := mustFind(t, c, "0.0")

	done := make(chan error, 1)
	go func() {
		_, err := c.ZoomIn(ctx, b)
		done <- err
	}()
	<-g.started

	st := c.State()
	assert.Equal(t, Transitioning, st.Phase)
	assert.Same(t, c.Tree(), st.Root, "root settles only when the transition ends")
	assert.Same(t, b, st.Incoming)
	assert.False(t, c.BackVisible())

	ids := sc.LayerIDs()
	require.Len(t, ids, 2)
	outgoing, _ := sc.Layer(ids[0])
	incoming, _ := sc.Layer(ids[1])
	assert.False(t, outgoing.Interactive)
	assert.Equal(t, "0", outgoing.RootID)
	assert.Equal(t, "0.0", incoming.RootID, "zoom in stacks the incoming layer on top")

	_, err := c.ZoomIn(ctx, mustFind(t, c, "0.1"))
	assert.True(t, errors.Is(err, errors.ErrCodeTransitionInFlight))
	_, err = c.ZoomOut(ctx)
	assert.True(t, errors.Is(err, errors.ErrCodeTransitionInFlight))

	close(g.release)
	require.NoError(t, <-done)
	assert.Equal(t, Resting, c.State().Phase)
	assert.Same(t, b, c.State().Root)
	assert.Len(t, sc.LayerIDs(), 1)
}

func TestZoomOutStacksBelow(t *testing.T) {
	g := newGate()
	c, sc := newController(t, WithAnimator(g))
	ctx := context.Background()

	b := mustFind(t, c, "0.0")
	go func() { _, _ = c.ZoomIn(ctx, b) }()
	<-g.started
	g.release <- struct{}{}
	require.Eventually(t, func() bool { return c.State().Phase == Resting }, time.Second, time.Millisecond)

	done := make(chan error, 1)
	go func() {
		_, err := c.ZoomOut(ctx)
		done <- err
	}()
	<-g.started

	ids := sc.LayerIDs()
	require.Len(t, ids, 2)
	bottom, _ := sc.Layer(ids[0])
	top, _ := sc.Layer(ids[1])
	assert.Equal(t, "0", bottom.RootID)
	assert.Equal(t, "0.0", top.RootID)
	assert.False(t, top.Interactive)

	close(g.release)
	require.NoError(t, <-done)
	assert.Same(t, c.Tree(), c.State().Root)
}

func TestHandleSceneEvents(t *testing.T) {
	c, sc := newController(t)
	ctx := context.Background()

	ok, err := sc.Click(ctx, "0.0")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "0.0", c.State().Root.ID)

	// Leaf tiles are not clickable.
	ok, _ = sc.Click(ctx, "0.0.0")
	assert.False(t, ok)
	assert.Equal(t, "0.0", c.State().Root.ID)

	// The header strip of a non-root layer zooms out.
	ok, err = sc.ClickAt(ctx, 10, HeaderOffset+1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "0", c.State().Root.ID)

	_, err = sc.Click(ctx, "0.1")
	require.NoError(t, err)
	ok, err = sc.ClickBack(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0", c.State().Root.ID)

	ok, _ = sc.ClickBack(ctx)
	assert.False(t, ok, "back control is hidden at the root")
}

func TestTimelineAnimator(t *testing.T) {
	c, sc := newController(t,
		WithAnimator(scene.Timeline{Frame: time.Millisecond}),
		WithDuration(15*time.Millisecond),
	)

	_, err := c.ZoomIn(context.Background(), mustFind(t, c, "0.0"))
	require.NoError(t, err)

	snap := sc.Snapshot()
	require.Len(t, snap.Layers, 1)
	assert.Equal(t, 1.0, snap.Layers[0].Opacity)
	assert.Equal(t, Resting, c.State().Phase)
}
