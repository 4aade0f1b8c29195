package layout_test

import (
	"fmt"

	"github.com/lanewise/snapgraph/pkg/layout"
	"github.com/lanewise/snapgraph/pkg/snapshot"
)

// ExampleBuild lays out a forked history: the current branch forms the
// trunk, and the old main line branches off at the snapshot where the fork
// happened.
func ExampleBuild() {
	nodes := []snapshot.Node{
		{ID: "c1", Message: "first cut", Timestamp: 1000, TimelineID: "main", LaneHint: "lane-main"},
		{ID: "c2", Message: "tighten intro", Timestamp: 2000, TimelineID: "main", ParentIDs: []string{"c1"}, LaneHint: "lane-main"},
		{ID: "m3", Message: "color pass", Timestamp: 5000, TimelineID: "main", ParentIDs: []string{"c2"}, LaneHint: "lane-main", IsTip: true},
		{ID: "f1", Message: "alt ending", Timestamp: 3000, TimelineID: "alt", ParentIDs: []string{"c2"}, LaneHint: "lane-alt"},
		{ID: "f2", Message: "shorter alt", Timestamp: 4000, TimelineID: "alt", ParentIDs: []string{"f1"}, LaneHint: "lane-alt", IsCurrent: true, IsTip: true},
	}

	res, err := layout.Build(layout.Input{Nodes: nodes})
	if err != nil {
		panic(err)
	}

	fmt.Printf("lanes: %d\n", res.LaneCount)
	for _, row := range res.Rows {
		fmt.Printf("%s lane=%d\n", row.Node.ID, row.Lane)
	}
	// Output:
	// lanes: 2
	// f2 lane=0
	// f1 lane=0
	// m3 lane=1
	// c2 lane=0
	// c1 lane=0
}

// ExampleResult_Activate wires a selection to the host's activation callback.
func ExampleResult_Activate() {
	nodes := []snapshot.Node{
		{ID: "a", Message: "draft", Timestamp: 1000, TimelineID: "main", LaneHint: "lane-main"},
		{ID: "b", Message: "polish", Timestamp: 2000, TimelineID: "main", ParentIDs: []string{"a"}, LaneHint: "lane-main", IsCurrent: true, IsTip: true},
	}
	res, _ := layout.Build(layout.Input{Nodes: nodes})

	res.Activate(1, func(id string, wasCurrent bool) {
		fmt.Printf("activate %s (was current: %v)\n", id, wasCurrent)
	})
	// Output:
	// activate a (was current: false)
}
