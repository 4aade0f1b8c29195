package history

import (
	"slices"

	"github.com/lanewise/snapgraph/pkg/layout"
	"github.com/lanewise/snapgraph/pkg/snapshot"
)

// Feed assembles the layout engine's input from the workspace.
//
// Timelines emit in creation order. Each contributes its tip-first chain of
// snapshots, stopping where the chain crosses into another timeline's
// records; a timeline whose tip is still a shared snapshot (a fresh fork
// with no commits of its own) emits that one shared node, which the engine
// deduplicates into an alias. The view flags (dirty, viewing past) pass
// through unchanged.
func (w *Workspace) Feed() layout.Input {
	in := layout.Input{
		Dirty:       w.Dirty,
		ViewingPast: w.ViewingPast(),
		Timelines:   make(map[string]snapshot.Timeline, len(w.Timelines)),
	}

	for _, tlID := range w.TimelineOrder {
		tl, ok := w.Timelines[tlID]
		if !ok {
			continue
		}
		in.Timelines[tl.ID] = snapshot.Timeline{Label: tl.Label, ColorSlot: tl.ColorSlot}

		tip := true
		for id := tl.TipID; id != ""; {
			rec, ok := w.Snapshots[id]
			if !ok {
				break
			}
			foreign := rec.TimelineID != tl.ID
			if foreign && !tip {
				break
			}
			in.Nodes = append(in.Nodes, w.feedNode(rec, tl, tip))
			if foreign {
				break
			}
			tip = false
			id = rec.firstParent()
		}
	}
	return in
}

func (w *Workspace) feedNode(rec *Record, tl *Timeline, tip bool) snapshot.Node {
	msg := rec.Message
	if rec.Label != "" {
		msg = rec.Label
	}
	return snapshot.Node{
		ID:         rec.ID,
		Message:    msg,
		Timestamp:  rec.Timestamp,
		TimelineID: tl.ID,
		ParentIDs:  slices.Clone(rec.ParentIDs),
		LaneHint:   tl.LaneHint,
		IsTip:      tip,
		IsCurrent:  rec.ID == w.CurrentID && tl.ID == w.CurrentTimeline,
	}
}

// Versions lists the current timeline's history newest-first, following
// first parents from the tip down to the root, crossing into ancestor
// timelines where the chain does.
func (w *Workspace) Versions() []Record {
	start := w.CurrentID
	if tl, ok := w.Timelines[w.CurrentTimeline]; ok && tl.TipID != "" {
		start = tl.TipID
	}

	var out []Record
	for id := start; id != ""; {
		rec, ok := w.Snapshots[id]
		if !ok {
			break
		}
		out = append(out, *rec)
		id = rec.firstParent()
	}
	return out
}

// Tips returns each timeline's tip record, in timeline creation order.
// Timelines without a tip yet are skipped.
func (w *Workspace) Tips() []Record {
	out := make([]Record, 0, len(w.TimelineOrder))
	for _, tlID := range w.TimelineOrder {
		tl, ok := w.Timelines[tlID]
		if !ok || tl.TipID == "" {
			continue
		}
		if rec, ok := w.Snapshots[tl.TipID]; ok {
			out = append(out, *rec)
		}
	}
	return out
}
