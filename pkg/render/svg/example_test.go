package svg_test

import (
	"fmt"
	"strings"

	"github.com/lanewise/snapgraph/pkg/layout"
	"github.com/lanewise/snapgraph/pkg/render/svg"
	"github.com/lanewise/snapgraph/pkg/snapshot"
)

func ExampleRender() {
	res, err := layout.Build(layout.Input{
		Nodes: []snapshot.Node{
			{ID: "s2", Message: "tighten intro", Timestamp: 2000, TimelineID: "main", ParentIDs: []string{"s1"}, IsCurrent: true, IsTip: true},
			{ID: "s1", Message: "first cut", Timestamp: 1000, TimelineID: "main"},
		},
	})
	if err != nil {
		panic(err)
	}

	out := svg.Render(res, svg.WithLabels())

	fmt.Println("starts with:", string(out[:4]))
	fmt.Println("dots:", strings.Count(string(out), `class="dot"`))
	fmt.Println("labels:", strings.Contains(string(out), ">first cut</text>"))
	// Output:
	// starts with: <svg
	// dots: 2
	// labels: true
}
