// Package history stores snapshot workspaces and produces the graph feed.
//
// A workspace is one versioned document: every save becomes an immutable
// snapshot record, records chain through parent ids, and named timelines
// track the tips of divergent lines of work. The package gives the layout
// engine its input ([Workspace.Feed]) and gives the CLI, TUI, and HTTP API
// their mutation surface (the [Store] operations).
//
// # Architecture
//
// Snapshots are append-only. Nothing here rewrites a record once written:
//   - Commit appends a snapshot to the timeline whose tip it extends, and
//     forks a fresh timeline when the base snapshot is not a tip.
//   - Restore appends a new snapshot carrying an old payload; the history
//     of what happened stays intact.
//   - Preview and Activate move view state only (which snapshot the user
//     is looking at, which one is current).
//
// # Usage
//
//	store, err := history.Open(path)
//	if err != nil {
//	    return err
//	}
//
//	rec, err := store.Commit(ctx, "Tighten the intro", payload)
//	if err != nil {
//	    return err
//	}
//
//	res, err := layout.Build(store.Feed())
package history

import (
	"encoding/json"
	"time"
)

// MainTimelineID is the id of the timeline every workspace starts with.
const MainTimelineID = "main"

// Record is one stored snapshot: the unit of history.
type Record struct {
	ID         string          `json:"id"`
	Message    string          `json:"message,omitempty"`
	Label      string          `json:"label,omitempty"`
	Timestamp  float64         `json:"timestamp"`
	TimelineID string          `json:"timeline_id"`
	ParentIDs  []string        `json:"parent_ids,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// Time converts the epoch-millisecond timestamp to a time.Time.
func (r Record) Time() time.Time {
	return time.UnixMilli(int64(r.Timestamp))
}

func (r Record) firstParent() string {
	if len(r.ParentIDs) == 0 {
		return ""
	}
	return r.ParentIDs[0]
}

// Timeline is a named line of work. Its tip is the newest snapshot on it.
type Timeline struct {
	ID        string    `json:"id"`
	Label     string    `json:"label,omitempty"`
	LaneHint  string    `json:"lane_hint"`
	ColorSlot int       `json:"color_slot"`
	TipID     string    `json:"tip_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Workspace is the full versioning state of one document.
type Workspace struct {
	Name            string               `json:"name"`
	Snapshots       map[string]*Record   `json:"snapshots"`
	Timelines       map[string]*Timeline `json:"timelines"`
	TimelineOrder   []string             `json:"timeline_order"`
	CurrentID       string               `json:"current_id,omitempty"`
	CurrentTimeline string               `json:"current_timeline"`
	Dirty           bool                 `json:"dirty,omitempty"`
	ViewingID       string               `json:"viewing_id,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// New creates an empty workspace with a main timeline and no snapshots.
func New(name string) *Workspace {
	now := time.Now()
	w := &Workspace{
		Name:            name,
		Snapshots:       make(map[string]*Record),
		Timelines:       make(map[string]*Timeline),
		CurrentTimeline: MainTimelineID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	w.addTimeline(&Timeline{
		ID:        MainTimelineID,
		Label:     "Main",
		LaneHint:  "lane-" + MainTimelineID,
		CreatedAt: now,
	})
	return w
}

func (w *Workspace) addTimeline(tl *Timeline) {
	tl.ColorSlot = len(w.TimelineOrder)
	w.Timelines[tl.ID] = tl
	w.TimelineOrder = append(w.TimelineOrder, tl.ID)
}

// Snapshot returns a copy of the record with the given id.
func (w *Workspace) Snapshot(id string) (Record, bool) {
	rec, ok := w.Snapshots[id]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Current returns the snapshot the workspace content is based on.
func (w *Workspace) Current() (Record, bool) {
	return w.Snapshot(w.CurrentID)
}

// ViewingPast reports whether the user is looking at a snapshot other than
// the current one.
func (w *Workspace) ViewingPast() bool {
	return w.ViewingID != "" && w.ViewingID != w.CurrentID
}

// ShortID returns the first 8 characters of a snapshot id, the form used in
// messages and display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
