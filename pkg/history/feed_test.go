package history

import (
	"context"
	"testing"

	"github.com/lanewise/snapgraph/pkg/layout"
)

// The feed must drive the layout engine directly: forks open lanes, shared
// tips become alias notes, and the current snapshot is marked exactly once.
func TestFeedLayoutIntegration(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	r1 := mustCommit(t, s, "first", nil)
	r2 := mustCommit(t, s, "second", nil)

	if _, err := s.Fork(ctx, r1.ID, "Director's cut"); err != nil {
		t.Fatalf("Fork() error: %v", err)
	}
	r3 := mustCommit(t, s, "new direction", nil)

	res, err := layout.Build(s.Feed())
	if err != nil {
		t.Fatalf("layout.Build() error: %v", err)
	}

	if res.LaneCount != 2 {
		t.Errorf("LaneCount = %d, want 2", res.LaneCount)
	}

	lanes := make(map[string]int)
	currents := 0
	for _, row := range res.Rows {
		if row.Kind != layout.RowNode {
			continue
		}
		lanes[row.Node.ID] = row.Lane
		if row.Node.IsCurrent {
			currents++
		}
	}

	// The fork is current, so its line is the trunk.
	if lanes[r3.ID] != 0 || lanes[r1.ID] != 0 {
		t.Errorf("trunk lanes = %v, want %s and %s on lane 0", lanes, r3.ID, r1.ID)
	}
	if lanes[r2.ID] != 1 {
		t.Errorf("main tip lane = %d, want 1", lanes[r2.ID])
	}
	if currents != 1 {
		t.Errorf("current rows = %d, want exactly 1", currents)
	}
}

func TestFeedSharedTipBecomesAliasRow(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	r1 := mustCommit(t, s, "shared", nil)
	if _, err := s.Fork(ctx, r1.ID, "Director's cut"); err != nil {
		t.Fatalf("Fork() error: %v", err)
	}

	res, err := layout.Build(s.Feed())
	if err != nil {
		t.Fatalf("layout.Build() error: %v", err)
	}

	nodes, notes := 0, 0
	for _, row := range res.Rows {
		switch row.Kind {
		case layout.RowNode:
			nodes++
		case layout.RowAliasNote:
			notes++
			if row.NoteLabel != "Director's cut" {
				t.Errorf("alias note label = %q, want %q", row.NoteLabel, "Director's cut")
			}
		}
	}
	if nodes != 1 {
		t.Errorf("node rows = %d, want 1 (shared tip deduplicates)", nodes)
	}
	if notes != 1 {
		t.Errorf("alias note rows = %d, want 1", notes)
	}
}

// Commit after previewing an old snapshot materializes the ghost fork: the
// new feed has a second lane and the old timeline keeps its own tip.
func TestFeedAfterGhostCommit(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	r1 := mustCommit(t, s, "first", nil)
	mustCommit(t, s, "second", nil)

	if _, err := s.Preview(ctx, r1.ID); err != nil {
		t.Fatalf("Preview() error: %v", err)
	}
	if err := s.MarkDirty(ctx, true); err != nil {
		t.Fatalf("MarkDirty() error: %v", err)
	}

	// While viewing past with unsaved changes, the graph shows the ghost.
	res, err := layout.Build(s.Feed())
	if err != nil {
		t.Fatalf("layout.Build() error: %v", err)
	}
	ghosts := 0
	for _, row := range res.Rows {
		if row.Kind == layout.RowGhost {
			ghosts++
		}
	}
	if ghosts != 1 {
		t.Fatalf("ghost rows = %d, want 1", ghosts)
	}

	// Saving turns the ghost into a real fork commit.
	r3 := mustCommit(t, s, "branched save", nil)

	res, err = layout.Build(s.Feed())
	if err != nil {
		t.Fatalf("layout.Build() error: %v", err)
	}
	if res.LaneCount != 2 {
		t.Errorf("LaneCount after ghost commit = %d, want 2", res.LaneCount)
	}
	if idx := res.NodeRowIndex(r3.ID); idx < 0 {
		t.Errorf("NodeRowIndex(%s) = %d, want a row", r3.ID, idx)
	}
	for _, row := range res.Rows {
		if row.Kind == layout.RowGhost {
			t.Error("ghost row should disappear once the save lands")
		}
	}
}
