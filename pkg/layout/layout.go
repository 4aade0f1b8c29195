package layout

import (
	"github.com/lanewise/snapgraph/pkg/errors"
	"github.com/lanewise/snapgraph/pkg/snapshot"
)

// RowKind discriminates the four display row variants.
type RowKind string

const (
	// RowNode is a real snapshot row.
	RowNode RowKind = "node"
	// RowUncommitted marks unsaved linear progress above the current node.
	RowUncommitted RowKind = "uncommitted"
	// RowGhost marks unsaved changes on a rewound position: saving now
	// would start a new branch.
	RowGhost RowKind = "ghost"
	// RowAliasNote annotates another timeline pointing at the same snapshot.
	RowAliasNote RowKind = "aliasNote"
)

// Row is one display row of the rendered history graph. Node rows carry the
// snapshot they render; synthetic rows (uncommitted, ghost, aliasNote) carry
// only geometry and, for alias notes, the annotating timeline.
//
// X and Y are the row's dot center: X derives from the lane, Y from the
// cumulative heights of all rows above plus half this row's height.
type Row struct {
	Kind   RowKind        `json:"kind" bson:"kind"`
	Node   *snapshot.Node `json:"node,omitempty" bson:"node,omitempty"`
	Lane   int            `json:"lane" bson:"lane"`
	Height float64        `json:"height" bson:"height"`
	X      float64        `json:"x" bson:"x"`
	Y      float64        `json:"y" bson:"y"`

	// Alias-note annotation: the other timeline that points here and its
	// display label (falls back to the timeline ID).
	NoteTimelineID string `json:"note_timeline_id,omitempty" bson:"note_timeline_id,omitempty"`
	NoteLabel      string `json:"note_label,omitempty" bson:"note_label,omitempty"`
}

// Input is the complete engine input. The engine reads nothing else: the
// feed is re-supplied on every history, dirty-state, or current-position
// change, and two calls with equal inputs yield identical results.
type Input struct {
	// Nodes is the flattened history feed across all timelines, pre-dedup.
	Nodes []snapshot.Node `json:"nodes"`

	// Dirty reports unsaved changes in the editor.
	Dirty bool `json:"dirty,omitempty"`

	// ViewingPast reports that the current position is a rewound (non-tip)
	// snapshot. Together with Dirty it selects the ghost row.
	ViewingPast bool `json:"viewing_past,omitempty"`

	// Timelines supplies per-timeline labels and color slots. Annotation
	// only - layout decisions never depend on it.
	Timelines map[string]snapshot.Timeline `json:"timelines,omitempty"`
}

// Result is the engine output consumed by renderers.
type Result struct {
	Rows        []Row       `json:"rows" bson:"rows"`
	Connectors  []Connector `json:"connectors,omitempty" bson:"connectors,omitempty"`
	TotalHeight float64     `json:"total_height" bson:"total_height"`
	LaneCount   int         `json:"lane_count" bson:"lane_count"`
}

// ActivateFunc receives the user's intent to switch to a snapshot. The
// engine reports intent only - navigation, restoring, and persistence belong
// to the host.
type ActivateFunc func(nodeID string, wasCurrent bool)

// Activate reports the selection of the row at idx to fn and returns whether
// an activation was reported. Synthetic rows never activate. Hosts typically
// ignore activations where wasCurrent is true.
func (r *Result) Activate(idx int, fn ActivateFunc) bool {
	if fn == nil || idx < 0 || idx >= len(r.Rows) {
		return false
	}
	row := r.Rows[idx]
	if row.Kind != RowNode || row.Node == nil {
		return false
	}
	fn(row.Node.ID, row.Node.IsCurrent)
	return true
}

// NodeRowIndex returns the index of the node row rendering id, or -1.
func (r *Result) NodeRowIndex(id string) int {
	for i, row := range r.Rows {
		if row.Kind == RowNode && row.Node != nil && row.Node.ID == id {
			return i
		}
	}
	return -1
}

// Build runs the full layout: dedup, lane assignment, display ordering, row
// expansion, and connector geometry. It is pure and deterministic; see the
// package documentation for the error policy.
func Build(in Input, opts ...Option) (*Result, error) {
	cfg := newConfig(opts...)

	for _, n := range in.Nodes {
		if err := n.Validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidTimestamp, err, "snapshot %q", n.ID)
		}
	}

	deduped := snapshot.Dedupe(in.Nodes)
	lanes, laneCount := AssignLanes(deduped.Primaries, deduped.CurrentID)
	ordered := OrderNodes(deduped.Primaries, lanes)

	rows, totalHeight := buildRows(ordered, lanes, deduped, in, laneCount, cfg.metrics)
	return &Result{
		Rows:        rows,
		Connectors:  buildConnectors(rows, cfg.metrics),
		TotalHeight: totalHeight,
		LaneCount:   laneCount,
	}, nil
}
