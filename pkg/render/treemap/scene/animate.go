package scene

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Tween animates one layer: every element moves from From to To and the
// layer opacity moves from Opacity[0] to Opacity[1].
type Tween struct {
	Layer   int        `json:"layer"`
	From    []Attrs    `json:"from"`
	To      []Attrs    `json:"to"`
	Opacity [2]float64 `json:"opacity"`
}

// Apply writes the frame at eased progress t in [0, 1] to the scene.
func (tw Tween) Apply(s *Scene, t float64) {
	attrs := make([]Attrs, min(len(tw.From), len(tw.To)))
	for i := range attrs {
		attrs[i] = tw.From[i].Lerp(tw.To[i], t)
	}
	s.SetAttrs(tw.Layer, attrs)
	s.SetOpacity(tw.Layer, tw.Opacity[0]+(tw.Opacity[1]-tw.Opacity[0])*t)
}

// Animator runs a group of tweens that start together and share one duration.
type Animator interface {
	Animate(ctx context.Context, s *Scene, d time.Duration, tweens ...Tween) error
}

// EaseCubicInOut is the default transition easing.
func EaseCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

// DefaultFrame is the frame interval of a [Timeline].
const DefaultFrame = 16 * time.Millisecond

// Timeline animates in real time. Each tween runs in its own goroutine,
// ticking once per frame until the duration has elapsed.
type Timeline struct {
	// Frame is the tick interval. Defaults to DefaultFrame.
	Frame time.Duration
	// Ease maps linear progress to eased progress. Defaults to EaseCubicInOut.
	Ease func(float64) float64
	// OnFrame, if set, is called after every frame a tween writes.
	OnFrame func()
}

// Animate blocks until every tween has reached its final frame. If ctx is
// cancelled, the tweens jump to their final frame and ctx's error is
// returned, so the scene is never left mid-transition.
func (tl Timeline) Animate(ctx context.Context, s *Scene, d time.Duration, tweens ...Tween) error {
	frame := tl.Frame
	if frame <= 0 {
		frame = DefaultFrame
	}
	ease := tl.Ease
	if ease == nil {
		ease = EaseCubicInOut
	}

	start := time.Now()
	var g errgroup.Group
	for _, tw := range tweens {
		g.Go(func() error {
			return tl.run(ctx, s, tw, start, d, frame, ease)
		})
	}
	return g.Wait()
}

func (tl Timeline) run(ctx context.Context, s *Scene, tw Tween, start time.Time, d, frame time.Duration, ease func(float64) float64) error {
	tw.Apply(s, 0)
	tl.frame()
	if d <= 0 {
		tw.Apply(s, 1)
		tl.frame()
		return nil
	}

	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			tw.Apply(s, 1)
			tl.frame()
			return ctx.Err()
		case now := <-ticker.C:
			p := float64(now.Sub(start)) / float64(d)
			if p >= 1 {
				tw.Apply(s, 1)
				tl.frame()
				return nil
			}
			tw.Apply(s, ease(p))
			tl.frame()
		}
	}
}

func (tl Timeline) frame() {
	if tl.OnFrame != nil {
		tl.OnFrame()
	}
}

// Immediate applies the final frame of every tween at once.
type Immediate struct{}

// Animate implements [Animator].
func (Immediate) Animate(_ context.Context, s *Scene, _ time.Duration, tweens ...Tween) error {
	for _, tw := range tweens {
		tw.Apply(s, 1)
	}
	return nil
}
