package layout

import (
	"strings"
	"testing"

	"github.com/lanewise/snapgraph/pkg/snapshot"
)

func mustBuild(t *testing.T, in Input) *Result {
	t.Helper()
	res, err := Build(in)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return res
}

func TestConnectorGeometry(t *testing.T) {
	t.Run("same lane is a straight vertical between dot edges", func(t *testing.T) {
		res := mustBuild(t, Input{Nodes: linearFixture()})
		if len(res.Connectors) != 2 {
			t.Fatalf("connectors = %d, want 2", len(res.Connectors))
		}

		c := res.Connectors[0] // c3 -> c2
		if c.Curved() || c.Dashed {
			t.Errorf("trunk connector should be straight and solid, got %+v", c)
		}
		if c.From.X != c.To.X {
			t.Errorf("same-lane connector is not vertical: %v -> %v", c.From, c.To)
		}
		// Rows are 44 high, so midpoints sit at 22 and 66; the dot radius
		// of 5 pulls the endpoints in.
		if c.From.Y != 27 || c.To.Y != 61 {
			t.Errorf("endpoints = %v -> %v, want y 27 -> 61", c.From, c.To)
		}
	})

	t.Run("cross-lane link is a cubic curve", func(t *testing.T) {
		res := mustBuild(t, Input{Nodes: forkFixture()})

		var cross *Connector
		for i := range res.Connectors {
			if c := res.Connectors[i]; c.From.X != c.To.X {
				cross = &res.Connectors[i]
				break
			}
		}
		if cross == nil {
			t.Fatal("no cross-lane connector for m3 -> c2")
		}
		if !cross.Curved() {
			t.Fatal("cross-lane connector must carry control points")
		}
		wantMid := (cross.From.Y + cross.To.Y) / 2
		if cross.Ctrl1.X != cross.From.X || cross.Ctrl2.X != cross.To.X {
			t.Errorf("control points must stay on their endpoint's x")
		}
		if cross.Ctrl1.Y != wantMid || cross.Ctrl2.Y != wantMid {
			t.Errorf("control points y = %v/%v, want %v", cross.Ctrl1.Y, cross.Ctrl2.Y, wantMid)
		}
		if cross.Lane != 1 {
			t.Errorf("connector lane = %d, want the branch lane 1", cross.Lane)
		}
	})

	t.Run("uncommitted row links down with a dashed vertical", func(t *testing.T) {
		res := mustBuild(t, Input{Nodes: linearFixture(), Dirty: true})

		var dashed []Connector
		for _, c := range res.Connectors {
			if c.Dashed {
				dashed = append(dashed, c)
			}
		}
		if len(dashed) != 1 {
			t.Fatalf("dashed connectors = %d, want 1", len(dashed))
		}
		c := dashed[0]
		if c.Curved() {
			t.Error("uncommitted connector must be a straight vertical")
		}
		if c.From.Y >= c.To.Y {
			t.Errorf("uncommitted connector should lead down into current: %v -> %v", c.From, c.To)
		}
	})

	t.Run("ghost branches off the current node", func(t *testing.T) {
		res := mustBuild(t, Input{Nodes: forkFixture(), Dirty: true, ViewingPast: true})

		var ghost *Connector
		for i := range res.Connectors {
			if c := res.Connectors[i]; c.Dashed && c.Curved() && c.Lane == 2 {
				ghost = &res.Connectors[i]
				break
			}
		}
		if ghost == nil {
			t.Fatal("no ghost connector found")
		}
		// Leaves the current node upward: from is the current dot, to the ghost dot.
		if ghost.From.Y <= ghost.To.Y {
			t.Errorf("ghost connector should run upward from current: %v -> %v", ghost.From, ghost.To)
		}
		if ghost.To.X <= ghost.From.X {
			t.Errorf("ghost sits on a lane right of the trunk: %v -> %v", ghost.From, ghost.To)
		}
	})

	t.Run("alias note hangs off its node row", func(t *testing.T) {
		res := mustBuild(t, Input{Nodes: []snapshot.Node{
			{ID: "x", Timestamp: 1000, TimelineID: "a", LaneHint: "lane-a", IsTip: true},
			{ID: "x", Timestamp: 1000, TimelineID: "b", LaneHint: "lane-b", IsTip: true},
		}})
		if len(res.Connectors) != 1 {
			t.Fatalf("connectors = %d, want 1", len(res.Connectors))
		}
		c := res.Connectors[0]
		if !c.Dashed || !c.Curved() {
			t.Errorf("alias hook should be dashed and curved, got %+v", c)
		}
		// Indented half a lane off the node's x.
		if want := c.From.X + DefaultLaneSpacing/2; c.To.X != want {
			t.Errorf("hook to.x = %v, want %v", c.To.X, want)
		}
	})
}

func TestConnectorPath(t *testing.T) {
	straight := Connector{From: Point{X: 16, Y: 27}, To: Point{X: 16, Y: 61}}
	if got := straight.Path(); got != "M 16.0 27.0 L 16.0 61.0" {
		t.Errorf("straight path = %q", got)
	}

	curved := Connector{
		From:  Point{X: 38, Y: 115},
		To:    Point{X: 16, Y: 149},
		Ctrl1: &Point{X: 38, Y: 132},
		Ctrl2: &Point{X: 16, Y: 132},
	}
	want := "M 38.0 115.0 C 38.0 132.0, 16.0 132.0, 16.0 149.0"
	if got := curved.Path(); got != want {
		t.Errorf("curved path = %q, want %q", got, want)
	}
	if !strings.HasPrefix(curved.Path(), "M ") {
		t.Error("paths must start with a move command")
	}
}
