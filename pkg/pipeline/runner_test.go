package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/zoomtree/pkg/cache"
	"github.com/matzehuels/zoomtree/pkg/errors"
	"github.com/matzehuels/zoomtree/pkg/hierarchy"
	"github.com/matzehuels/zoomtree/pkg/render/treemap/scene"
)

const dataset = `{
  "data": {
    "name": "housing",
    "children": [
      {"name": "A", "count": 30},
      {"name": "B", "children": [
        {"name": "b1", "count": 40},
        {"name": "b2", "count": 30}
      ]}
    ]
  }
}`

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "housing.json")
	if err := os.WriteFile(path, []byte(dataset), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testTree(t *testing.T) *hierarchy.Node {
	t.Helper()
	tree, _, err := Load(context.Background(), Options{Source: writeDataset(t)}, sourceDefaults())
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func TestExecuteTreemap(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Source:  writeDataset(t),
		Formats: []string{FormatSVG, FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Stats.Nodes != 5 || res.Stats.Leaves != 3 || res.Stats.Weight != 100 {
		t.Errorf("stats = %+v", res.Stats.Stats)
	}
	if len(res.Snapshot.Layers) != 1 || res.Snapshot.Layers[0].RootID != hierarchy.RootID {
		t.Fatalf("snapshot layers = %+v", res.Snapshot.Layers)
	}
	if res.Snapshot.BackVisible {
		t.Error("back control visible at the tree root")
	}

	svg := string(res.Artifacts[FormatSVG])
	for _, want := range []string{"<svg", ">A<", ">B<", "<title>housing</title>"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}

	var doc struct {
		Root   string        `json:"root"`
		Layers []scene.Layer `json:"layers"`
	}
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &doc); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if doc.Root != "0" || len(doc.Layers[0].Elements) != 3 {
		t.Errorf("json artifact root=%q elements=%d", doc.Root, len(doc.Layers[0].Elements))
	}

	if !strings.HasPrefix(string(res.Artifacts[FormatDOT]), "digraph G {") {
		t.Errorf("dot artifact = %q", res.Artifacts[FormatDOT])
	}
}

func TestExecuteFocus(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Source:  writeDataset(t),
		Focus:   "0.0",
		Formats: []string{FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	top := res.Snapshot.Layers[len(res.Snapshot.Layers)-1]
	if top.RootID != "0.0" {
		t.Errorf("focal root = %s, want 0.0", top.RootID)
	}
	if !res.Snapshot.BackVisible {
		t.Error("back control hidden below the tree root")
	}
	names := []string{}
	for _, e := range top.Elements {
		names = append(names, e.Name)
	}
	if strings.Join(names, ",") != "b1,b2,B" {
		t.Errorf("elements = %v, want b1,b2,B", names)
	}
}

func TestExecuteUnknownFocus(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{Source: writeDataset(t), Focus: "0.9"})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Execute error = %v, want NOT_FOUND", err)
	}
}

func TestExecuteMissingSource(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{Source: filepath.Join(t.TempDir(), "none.json")})
	if !errors.Is(err, errors.ErrCodeDataLoad) {
		t.Errorf("Execute error = %v, want DATA_LOAD_FAILURE", err)
	}
}

func TestExecuteCachesArtifacts(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	opts := Options{Source: writeDataset(t), Formats: []string{FormatSVG}}
	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the cache")
	}
	if string(second.Artifacts[FormatSVG]) != string(first.Artifacts[FormatSVG]) {
		t.Error("cached artifact differs")
	}

	opts.Refresh = true
	third, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestExecuteNodelink(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Source:   writeDataset(t),
		VizType:  VizTypeNodelink,
		Focus:    "0.0",
		Detailed: true,
		Formats:  []string{FormatDOT, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	dot := string(res.Artifacts[FormatDOT])
	if !strings.Contains(dot, `"0.0" -> "0.0.0"`) {
		t.Errorf("dot missing edge: %s", dot)
	}
	if strings.Contains(dot, `"0.1"`) {
		t.Error("dot includes a node outside the focused subtree")
	}

	var doc exportedNode
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &doc); err != nil {
		t.Fatal(err)
	}
	if doc.ID != "0.0" || doc.Weight != 70 || len(doc.Children) != 2 {
		t.Errorf("json = %+v", doc)
	}
}

func TestViewFocusNavigatesAcrossBranches(t *testing.T) {
	ctx := context.Background()
	tree := testTree(t)
	v, err := NewView(tree, Options{}, withImmediate())
	if err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		focus string
		root  string
	}{
		{"0.0", "0.0"},
		{"0.0.1", "0.0.1"}, // a leaf still gets its own layer
		{"0.1", "0.1"},     // sideways: out to the root, then in
		{"0", "0"},
		{"", "0"},
	}
	for _, s := range steps {
		if err := v.Focus(ctx, s.focus); err != nil {
			t.Fatalf("Focus(%q): %v", s.focus, err)
		}
		if got := v.Controller.State().Root.ID; got != s.root {
			t.Errorf("Focus(%q) root = %s, want %s", s.focus, got, s.root)
		}
	}
	if v.Path() != "housing" {
		t.Errorf("Path() = %q", v.Path())
	}
}

func TestViewFocusDescendsOneLevelAtATime(t *testing.T) {
	ctx := context.Background()
	v, err := NewView(testTree(t), Options{}, withImmediate())
	if err != nil {
		t.Fatal(err)
	}

	if err := v.Focus(ctx, "0.0.0"); err != nil {
		t.Fatalf("Focus: %v", err)
	}
	if got := v.Controller.State().Root.ID; got != "0.0.0" {
		t.Fatalf("root = %s, want 0.0.0", got)
	}
	if !v.Controller.BackVisible() {
		t.Error("back control hidden below the root")
	}

	// The intermediate level was visited, so zooming out lands on it.
	if _, err := v.Controller.ZoomOut(ctx); err != nil {
		t.Fatal(err)
	}
	if got := v.Controller.State().Root.ID; got != "0.0" {
		t.Errorf("root after ZoomOut = %s, want 0.0", got)
	}
}
