package scene

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func tile(id string, x, y, w, h float64, clickable bool) Element {
	return Element{NodeID: id, Name: id, Fill: "#4e79a7", Clickable: clickable, Attrs: Attrs{X: x, Y: y, W: w, H: h}}
}

func TestLayerOrdering(t *testing.T) {
	s := New(100, 50)
	a := s.NewLayer("0", nil)
	b := s.NewLayer("0.1", nil)
	c := s.NewLayer("0", nil)

	s.AppendLayer(a)
	s.AppendLayer(b)
	s.InsertLayerBelow(c)

	if got, want := s.LayerIDs(), []int{c.ID, a.ID, b.ID}; !slices.Equal(got, want) {
		t.Errorf("LayerIDs() = %v, want %v", got, want)
	}

	if !s.Remove(a.ID) {
		t.Error("Remove() of attached layer = false")
	}
	if s.Remove(a.ID) {
		t.Error("Remove() of detached layer = true")
	}
	if got, want := s.LayerIDs(), []int{c.ID, b.ID}; !slices.Equal(got, want) {
		t.Errorf("LayerIDs() = %v, want %v", got, want)
	}
}

func TestClickTargetsTopInteractiveLayer(t *testing.T) {
	s := New(100, 50)
	lower := s.NewLayer("0", []Element{tile("0.0", 0, 0, 50, 50, true)})
	upper := s.NewLayer("0", []Element{tile("0.0", 0, 0, 50, 50, true)})
	s.AppendLayer(lower)
	s.AppendLayer(upper)

	var got []Event
	s.OnEvent(func(_ context.Context, ev Event) error {
		got = append(got, ev)
		return nil
	})

	ctx := context.Background()
	if ok, err := s.Click(ctx, "0.0"); !ok || err != nil {
		t.Fatalf("Click() = %v, %v", ok, err)
	}
	s.SetInteractive(upper.ID, false)
	if ok, _ := s.ClickAt(ctx, 10, 10); !ok {
		t.Fatal("ClickAt() found no target")
	}
	s.SetInteractive(lower.ID, false)
	if ok, _ := s.Click(ctx, "0.0"); ok {
		t.Error("Click() reached a non-interactive layer")
	}

	if len(got) != 2 || got[0].Layer != upper.ID || got[1].Layer != lower.ID {
		t.Errorf("events = %+v", got)
	}
}

func TestClickIgnoresNonClickable(t *testing.T) {
	s := New(100, 50)
	s.AppendLayer(s.NewLayer("0", []Element{tile("0.0", 0, 0, 100, 50, false)}))

	called := false
	s.OnEvent(func(context.Context, Event) error { called = true; return nil })

	if ok, _ := s.Click(context.Background(), "0.0"); ok || called {
		t.Error("non-clickable element received a click")
	}
	if ok, _ := s.ClickAt(context.Background(), 200, 200); ok {
		t.Error("click outside every element found a target")
	}
}

func TestClickBack(t *testing.T) {
	s := New(100, 50)
	wantErr := errors.New("boom")
	s.OnEvent(func(_ context.Context, ev Event) error {
		if ev.Kind != Back {
			t.Errorf("kind = %s, want back", ev.Kind)
		}
		return wantErr
	})

	if ok, _ := s.ClickBack(context.Background()); ok {
		t.Error("hidden back control received a click")
	}
	s.SetBackVisible(true)
	ok, err := s.ClickBack(context.Background())
	if !ok || !errors.Is(err, wantErr) {
		t.Errorf("ClickBack() = %v, %v", ok, err)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := New(100, 50)
	l := s.NewLayer("0", []Element{tile("0.0", 0, 0, 10, 10, true)})
	s.AppendLayer(l)

	snap := s.Snapshot()
	s.SetAttrs(l.ID, []Attrs{{X: 5, Y: 5, W: 1, H: 1}})
	s.SetOpacity(l.ID, 0.5)

	if snap.Layers[0].Elements[0].Attrs.X != 0 || snap.Layers[0].Opacity != 1 {
		t.Error("snapshot changed after scene writes")
	}
	got, ok := s.Layer(l.ID)
	if !ok || got.Elements[0].Attrs.X != 5 || got.Opacity != 0.5 {
		t.Errorf("Layer() = %+v", got)
	}
	if snap.Width != 100 || snap.Height != 50 {
		t.Errorf("size = %vx%v", snap.Width, snap.Height)
	}
}
