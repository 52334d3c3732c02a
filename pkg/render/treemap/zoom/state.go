package zoom

import (
	"time"

	"github.com/matzehuels/zoomtree/pkg/hierarchy"
	"github.com/matzehuels/zoomtree/pkg/render/treemap/scene"
)

// Phase is the controller's interaction phase.
type Phase int

const (
	// Resting accepts zoom requests.
	Resting Phase = iota
	// Transitioning rejects zoom requests until the animation settles.
	Transitioning
)

func (p Phase) String() string {
	if p == Transitioning {
		return "transitioning"
	}
	return "resting"
}

// State is a point-in-time copy of the view state.
type State struct {
	Phase Phase
	// Root is the settled focal root. During a transition it is still the
	// outgoing root.
	Root *hierarchy.Node
	// Outgoing and Incoming are set only while Transitioning.
	Outgoing *hierarchy.Node
	Incoming *hierarchy.Node
}

// Direction names the kind of zoom.
type Direction string

const (
	In  Direction = "in"
	Out Direction = "out"
)

// Placement is where the incoming layer is stacked.
type Placement string

const (
	Above Placement = "above"
	Below Placement = "below"
)

// Transition is the plan of one zoom. Stacking order is fixed when the
// transition starts.
type Transition struct {
	Direction   Direction     `json:"direction"`
	From        string        `json:"from"`
	To          string        `json:"to"`
	Duration    time.Duration `json:"-"`
	DurationMS  int64         `json:"duration_ms"`
	Placement   Placement     `json:"placement"`
	Outgoing    int           `json:"outgoing"`
	Incoming    scene.Layer   `json:"incoming"`
	Tweens      []scene.Tween `json:"tweens"`
	BackVisible bool          `json:"back_visible"`
}
