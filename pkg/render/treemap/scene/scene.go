// Package scene is a small retained-mode scene graph for treemap views.
//
// A [Scene] is a stack of layers drawn bottom to top. Each [Layer] is a
// group of rectangle elements with a name and count label, a group
// opacity, and a flag saying whether it receives pointer events. Layers
// can be appended on top or inserted beneath everything else, which is
// how zoom transitions control which of two concurrently live layers is
// visible in front.
//
// Attribute writes are guarded by the scene's own mutex, so independent
// animation goroutines may each drive their own layer. Listeners attached
// with [Scene.OnEvent] are called without the lock held.
package scene

import (
	"context"
	"slices"
	"sync"
)

// Attrs are the animatable attributes of an element, in pixels.
type Attrs struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Lerp interpolates linearly between a and b.
func (a Attrs) Lerp(b Attrs, t float64) Attrs {
	return Attrs{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		W: a.W + (b.W-a.W)*t,
		H: a.H + (b.H-a.H)*t,
	}
}

// Element is one tile (or the header strip) of a layer.
type Element struct {
	NodeID    string `json:"id"`
	Name      string `json:"name"`
	Label     string `json:"label,omitempty"`
	Fill      string `json:"fill"`
	Header    bool   `json:"header,omitempty"`
	Clickable bool   `json:"clickable,omitempty"`
	Attrs     Attrs  `json:"attrs"`
}

// Layer is a group of elements rendered for one focal root.
type Layer struct {
	ID          int       `json:"id"`
	RootID      string    `json:"root"`
	Interactive bool      `json:"interactive"`
	Opacity     float64   `json:"opacity"`
	Elements    []Element `json:"elements"`
}

// Snapshot is a deep copy of a scene at one instant.
type Snapshot struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	BackVisible bool    `json:"back_visible"`
	Layers      []Layer `json:"layers"`
}

// EventKind distinguishes pointer events.
type EventKind string

const (
	// Click is a click on an element.
	Click EventKind = "click"
	// Back is a click on the back control.
	Back EventKind = "back"
)

// Event is delivered to listeners by [Scene.Dispatch].
type Event struct {
	Kind   EventKind
	NodeID string
	Header bool
	Layer  int
}

// Listener handles pointer events.
type Listener func(ctx context.Context, ev Event) error

// Scene is a stack of layers plus a back control.
type Scene struct {
	mu          sync.RWMutex
	width       float64
	height      float64
	layers      []*Layer // bottom to top
	nextID      int
	backVisible bool
	listeners   []Listener
}

// New returns an empty scene of the given pixel size.
func New(width, height float64) *Scene {
	return &Scene{width: width, height: height, nextID: 1}
}

// Size returns the scene's pixel size.
func (s *Scene) Size() (width, height float64) {
	return s.width, s.height
}

// NewLayer returns a detached interactive layer with a fresh ID.
func (s *Scene) NewLayer(rootID string, elements []Element) *Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := &Layer{ID: s.nextID, RootID: rootID, Interactive: true, Opacity: 1, Elements: elements}
	s.nextID++
	return l
}

// AppendLayer puts l on top of every other layer.
func (s *Scene) AppendLayer(l *Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers = append(s.layers, l)
}

// InsertLayerBelow puts l beneath every other layer.
func (s *Scene) InsertLayerBelow(l *Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers = slices.Insert(s.layers, 0, l)
}

// Remove detaches the layer with the given ID. It reports whether the
// layer was attached.
func (s *Scene) Remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.layers = slices.Delete(s.layers, i, i+1)
	return true
}

// SetInteractive toggles pointer events for a layer.
func (s *Scene) SetInteractive(id int, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		s.layers[i].Interactive = on
	}
}

// SetOpacity sets a layer's group opacity.
func (s *Scene) SetOpacity(id int, opacity float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		s.layers[i].Opacity = opacity
	}
}

// SetAttrs writes the attributes of every element of a layer. Extra or
// missing entries are ignored.
func (s *Scene) SetAttrs(id int, attrs []Attrs) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return
	}
	els := s.layers[i].Elements
	for j := range min(len(els), len(attrs)) {
		els[j].Attrs = attrs[j]
	}
}

// SetBackVisible shows or hides the back control.
func (s *Scene) SetBackVisible(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backVisible = v
}

// BackVisible reports whether the back control is shown.
func (s *Scene) BackVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backVisible
}

// LayerIDs returns the attached layer IDs, bottom to top.
func (s *Scene) LayerIDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int, len(s.layers))
	for i, l := range s.layers {
		ids[i] = l.ID
	}
	return ids
}

// Layer returns a copy of the attached layer with the given ID.
func (s *Scene) Layer(id int) (Layer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.index(id)
	if i < 0 {
		return Layer{}, false
	}
	return copyLayer(s.layers[i]), true
}

// Snapshot returns a deep copy of the scene.
func (s *Scene) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Width:       s.width,
		Height:      s.height,
		BackVisible: s.backVisible,
		Layers:      make([]Layer, len(s.layers)),
	}
	for i, l := range s.layers {
		snap.Layers[i] = copyLayer(l)
	}
	return snap
}

// OnEvent registers a listener for click and back events.
func (s *Scene) OnEvent(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Click dispatches a click on the element for nodeID in the topmost
// interactive layer that has it as a clickable element. It reports whether
// any element received the click; the first listener error is returned.
func (s *Scene) Click(ctx context.Context, nodeID string) (bool, error) {
	s.mu.RLock()
	ev, ok := s.target(func(e *Element) bool { return e.NodeID == nodeID })
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, s.Dispatch(ctx, ev)
}

// ClickAt dispatches a click at a pixel position. Header strips are
// hit-tested like any other element.
func (s *Scene) ClickAt(ctx context.Context, x, y float64) (bool, error) {
	s.mu.RLock()
	ev, ok := s.target(func(e *Element) bool {
		a := e.Attrs
		return x >= a.X && x < a.X+a.W && y >= a.Y && y < a.Y+a.H
	})
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, s.Dispatch(ctx, ev)
}

// ClickBack dispatches a click on the back control if it is visible.
func (s *Scene) ClickBack(ctx context.Context) (bool, error) {
	if !s.BackVisible() {
		return false, nil
	}
	return true, s.Dispatch(ctx, Event{Kind: Back})
}

// Dispatch delivers ev to every listener in registration order and stops
// at the first error.
func (s *Scene) Dispatch(ctx context.Context, ev Event) error {
	s.mu.RLock()
	ls := slices.Clone(s.listeners)
	s.mu.RUnlock()
	for _, fn := range ls {
		if err := fn(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// target finds the topmost clickable element matching hit. Callers hold mu.
func (s *Scene) target(hit func(*Element) bool) (Event, bool) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		l := s.layers[i]
		if !l.Interactive {
			continue
		}
		for j := range l.Elements {
			e := &l.Elements[j]
			if e.Clickable && hit(e) {
				return Event{Kind: Click, NodeID: e.NodeID, Header: e.Header, Layer: l.ID}, true
			}
		}
	}
	return Event{}, false
}

func (s *Scene) index(id int) int {
	return slices.IndexFunc(s.layers, func(l *Layer) bool { return l.ID == id })
}

func copyLayer(l *Layer) Layer {
	c := *l
	c.Elements = slices.Clone(l.Elements)
	return c
}
