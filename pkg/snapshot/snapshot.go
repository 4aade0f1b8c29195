// Package snapshot defines the document history domain model: snapshots,
// timelines, and the deduplication pass that separates primary nodes from
// alias occurrences before layout.
//
// A snapshot is a saved point-in-time version of a document (analogous to a
// commit). A timeline is a named line of snapshots (analogous to a branch).
// The same snapshot can be the tip of more than one timeline - for example
// two forks that have not diverged yet - in which case every occurrence
// after the first is an alias, rendered as an annotation rather than a row.
package snapshot

import (
	"errors"
	"math"
	"time"
)

var (
	// ErrNonFiniteTimestamp is returned by [Node.Validate] when a timestamp
	// is NaN or infinite. This is the only data-shape issue treated as a
	// hard error: every other malformed input (missing parents, duplicate
	// current markers) degrades gracefully during layout.
	ErrNonFiniteTimestamp = errors.New("timestamp is not finite")
)

// Node is a single occurrence of a snapshot in the flattened history feed.
// The feed is gathered across all timelines, so the same snapshot ID may
// appear more than once (the alias case); IDs are unique among primary
// occurrences only.
//
// Nodes are immutable per layout pass - the full set is re-supplied whenever
// history, dirty state, or the current position changes.
type Node struct {
	ID         string   `json:"id" bson:"id"`
	Message    string   `json:"message,omitempty" bson:"message,omitempty"`         // Short human label
	Timestamp  float64  `json:"timestamp" bson:"timestamp"`                         // Epoch milliseconds, ordering within a lane only
	TimelineID string   `json:"timeline_id" bson:"timeline_id"`                     // Owning timeline of this occurrence
	ParentIDs  []string `json:"parent_ids,omitempty" bson:"parent_ids,omitempty"`   // Ordered ancestry, empty = root
	LaneHint   string   `json:"lane_hint,omitempty" bson:"lane_hint,omitempty"`     // Backend grouping key for the physical lane
	IsCurrent  bool     `json:"is_current,omitempty" bson:"is_current,omitempty"`   // At most one per feed
	IsTip      bool     `json:"is_tip,omitempty" bson:"is_tip,omitempty"`           // No child within its timeline
}

// Time converts the node's epoch-millisecond timestamp to a time.Time.
// The result is meaningless if Validate reports a non-finite timestamp.
func (n Node) Time() time.Time {
	return time.UnixMilli(int64(n.Timestamp))
}

// Validate checks the node for states the layout engine cannot absorb.
// Returns ErrNonFiniteTimestamp for NaN or infinite timestamps; all other
// shape issues are tolerated downstream.
func (n Node) Validate() error {
	if math.IsNaN(n.Timestamp) || math.IsInf(n.Timestamp, 0) {
		return ErrNonFiniteTimestamp
	}
	return nil
}

// Timeline carries per-timeline annotation data: a display label and a
// color slot. It never influences layout decisions.
type Timeline struct {
	Label     string `json:"label" bson:"label"`
	ColorSlot int    `json:"color_slot" bson:"color_slot"`
}

// Alias records an extra occurrence of an already-seen snapshot ID: the
// other timeline that also points at it and that occurrence's lane hint.
type Alias struct {
	TimelineID string `json:"timeline_id" bson:"timeline_id"`
	LaneHint   string `json:"lane_hint,omitempty" bson:"lane_hint,omitempty"`
}
