package layout

import (
	"testing"

	"github.com/lanewise/snapgraph/pkg/snapshot"
)

func TestAssignLanes(t *testing.T) {
	tests := []struct {
		name      string
		nodes     []snapshot.Node
		current   string
		wantLanes map[string]int
		wantCount int
	}{
		{
			name:      "empty set",
			nodes:     nil,
			current:   "",
			wantLanes: map[string]int{},
			wantCount: 1,
		},
		{
			name: "no current node flattens everything onto the trunk",
			nodes: []snapshot.Node{
				{ID: "a", LaneHint: "h1"},
				{ID: "b", LaneHint: "h2"},
			},
			current:   "",
			wantLanes: map[string]int{"a": 0, "b": 0},
			wantCount: 1,
		},
		{
			name: "ancestry walk forms the trunk",
			nodes: []snapshot.Node{
				{ID: "root"},
				{ID: "mid", ParentIDs: []string{"root"}},
				{ID: "tip", ParentIDs: []string{"mid"}},
			},
			current:   "tip",
			wantLanes: map[string]int{"root": 0, "mid": 0, "tip": 0},
			wantCount: 1,
		},
		{
			name: "same lane hint joins the trunk even without ancestry",
			nodes: []snapshot.Node{
				{ID: "old", LaneHint: "active"},
				{ID: "cur", ParentIDs: []string{"old"}, LaneHint: "active"},
				{ID: "ahead", ParentIDs: []string{"cur"}, LaneHint: "active"},
				{ID: "other", ParentIDs: []string{"old"}, LaneHint: "side"},
			},
			current:   "cur",
			wantLanes: map[string]int{"old": 0, "cur": 0, "ahead": 0, "other": 1},
			wantCount: 2,
		},
		{
			name: "branch lanes assigned in first-encounter order",
			nodes: []snapshot.Node{
				{ID: "cur", LaneHint: "trunk"},
				{ID: "b1", LaneHint: "beta"},
				{ID: "a1", LaneHint: "alpha"},
				{ID: "b2", LaneHint: "beta"},
			},
			current:   "cur",
			wantLanes: map[string]int{"cur": 0, "b1": 1, "a1": 2, "b2": 1},
			wantCount: 3,
		},
		{
			name: "disconnected root gets its own lane",
			nodes: []snapshot.Node{
				{ID: "cur", LaneHint: "trunk"},
				{ID: "island", LaneHint: "isle"},
			},
			current:   "cur",
			wantLanes: map[string]int{"cur": 0, "island": 1},
			wantCount: 2,
		},
		{
			name: "unresolvable parent reference is skipped",
			nodes: []snapshot.Node{
				{ID: "cur", ParentIDs: []string{"gone"}, LaneHint: "trunk"},
				{ID: "other", LaneHint: "side"},
			},
			current:   "cur",
			wantLanes: map[string]int{"cur": 0, "other": 1},
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lanes, count := AssignLanes(tt.nodes, tt.current)
			if count != tt.wantCount {
				t.Errorf("lane count = %d, want %d", count, tt.wantCount)
			}
			if len(lanes) != len(tt.wantLanes) {
				t.Errorf("lanes has %d entries, want %d", len(lanes), len(tt.wantLanes))
			}
			for id, want := range tt.wantLanes {
				if lanes[id] != want {
					t.Errorf("lane[%s] = %d, want %d", id, lanes[id], want)
				}
			}
		})
	}
}
