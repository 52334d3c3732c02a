package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/zoomtree/pkg/hierarchy"
	"github.com/matzehuels/zoomtree/pkg/render/nodelink"
)

func ExampleToDOT() {
	n := 12.0
	root := hierarchy.Build(hierarchy.RawNode{
		Name:     "housing",
		Children: []hierarchy.RawNode{{Name: "overcrowded", Count: &n}},
	})

	dot := nodelink.ToDOT(root, nodelink.Options{})

	fmt.Println(strings.Contains(dot, `"0" -> "0.0"`))
	// Output:
	// true
}
