package hierarchy_test

import (
	"fmt"

	"github.com/matzehuels/zoomtree/pkg/hierarchy"
)

func ExampleBuild() {
	a, b := 30.0, 70.0
	root := hierarchy.Build(hierarchy.RawNode{
		Name: "root",
		Children: []hierarchy.RawNode{
			{Name: "A", Count: &a},
			{Name: "B", Count: &b},
		},
	})

	fmt.Println("Weight:", root.Weight)
	for _, c := range root.Children {
		fmt.Println(c.ID, c.Name, c.Weight)
	}
	// Output:
	// Weight: 100
	// 0.0 B 70
	// 0.1 A 30
}
