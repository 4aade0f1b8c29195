package snapshot

import (
	"math"
	"testing"
)

func TestDedupe(t *testing.T) {
	tests := []struct {
		name          string
		nodes         []Node
		wantPrimaries int
		wantAliases   int
		wantCurrent   string
		check         func(t *testing.T, d Deduped)
	}{
		{
			name:          "empty feed",
			nodes:         nil,
			wantPrimaries: 0,
			wantAliases:   0,
			wantCurrent:   "",
		},
		{
			name: "no duplicates",
			nodes: []Node{
				{ID: "a", TimelineID: "main"},
				{ID: "b", TimelineID: "main", ParentIDs: []string{"a"}},
			},
			wantPrimaries: 2,
			wantAliases:   0,
		},
		{
			name: "shared tip becomes alias",
			nodes: []Node{
				{ID: "a", TimelineID: "main", LaneHint: "lane-main"},
				{ID: "a", TimelineID: "draft", LaneHint: "lane-draft"},
			},
			wantPrimaries: 1,
			wantAliases:   1,
			check: func(t *testing.T, d Deduped) {
				as := d.Aliases["a"]
				if len(as) != 1 {
					t.Fatalf("aliases[a] = %d entries, want 1", len(as))
				}
				if as[0].TimelineID != "draft" || as[0].LaneHint != "lane-draft" {
					t.Errorf("alias = %+v, want draft/lane-draft", as[0])
				}
			},
		},
		{
			name: "alias encounter order preserved",
			nodes: []Node{
				{ID: "x", TimelineID: "t1"},
				{ID: "x", TimelineID: "t2"},
				{ID: "x", TimelineID: "t3"},
			},
			wantPrimaries: 1,
			wantAliases:   2,
			check: func(t *testing.T, d Deduped) {
				as := d.Aliases["x"]
				if as[0].TimelineID != "t2" || as[1].TimelineID != "t3" {
					t.Errorf("alias order = [%s %s], want [t2 t3]", as[0].TimelineID, as[1].TimelineID)
				}
			},
		},
		{
			name: "first current wins",
			nodes: []Node{
				{ID: "a", TimelineID: "main"},
				{ID: "b", TimelineID: "main", IsCurrent: true},
				{ID: "c", TimelineID: "main", IsCurrent: true},
			},
			wantPrimaries: 3,
			wantAliases:   0,
			wantCurrent:   "b",
			check: func(t *testing.T, d Deduped) {
				for _, p := range d.Primaries {
					if p.IsCurrent != (p.ID == "b") {
						t.Errorf("node %s: IsCurrent = %v after normalization", p.ID, p.IsCurrent)
					}
				}
			},
		},
		{
			name: "current marker on alias occurrence",
			nodes: []Node{
				{ID: "a", TimelineID: "main"},
				{ID: "a", TimelineID: "draft", IsCurrent: true},
			},
			wantPrimaries: 1,
			wantAliases:   1,
			wantCurrent:   "a",
			check: func(t *testing.T, d Deduped) {
				if !d.Primaries[0].IsCurrent {
					t.Error("primary for a should carry the current flag")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Dedupe(tt.nodes)
			if len(d.Primaries) != tt.wantPrimaries {
				t.Errorf("primaries = %d, want %d", len(d.Primaries), tt.wantPrimaries)
			}
			if d.AliasCount() != tt.wantAliases {
				t.Errorf("alias count = %d, want %d", d.AliasCount(), tt.wantAliases)
			}
			if d.CurrentID != tt.wantCurrent {
				t.Errorf("current = %q, want %q", d.CurrentID, tt.wantCurrent)
			}
			if got := len(d.Primaries) + d.AliasCount(); got != len(tt.nodes) {
				t.Errorf("primaries + aliases = %d, want %d (conservation)", got, len(tt.nodes))
			}
			if tt.check != nil {
				tt.check(t, d)
			}
		})
	}
}

func TestNodeValidate(t *testing.T) {
	tests := []struct {
		name    string
		ts      float64
		wantErr error
	}{
		{"finite", 1700000000000, nil},
		{"zero", 0, nil},
		{"nan", math.NaN(), ErrNonFiniteTimestamp},
		{"positive infinity", math.Inf(1), ErrNonFiniteTimestamp},
		{"negative infinity", math.Inf(-1), ErrNonFiniteTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Node{ID: "a", Timestamp: tt.ts}
			if err := n.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
