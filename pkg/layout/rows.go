package layout

import "github.com/lanewise/snapgraph/pkg/snapshot"

// buildRows expands the ordered node sequence into display rows and fills in
// their geometry. Per node, in order:
//
//   - current + dirty + viewing past: a ghost row directly above, on the
//     next unused lane (saving would fork there);
//   - current + dirty + not viewing past: an uncommitted row directly
//     above, same lane;
//   - the node row itself;
//   - one alias-note row per alias occurrence, directly below.
//
// The second return value is the total height of all rows.
func buildRows(ordered []snapshot.Node, lanes map[string]int, deduped snapshot.Deduped, in Input, laneCount int, m Metrics) ([]Row, float64) {
	rows := make([]Row, 0, len(ordered)+deduped.AliasCount()+1)

	for _, n := range ordered {
		lane := lanes[n.ID]
		if n.IsCurrent && in.Dirty {
			if in.ViewingPast {
				rows = append(rows, Row{Kind: RowGhost, Lane: laneCount, Height: m.CompactRowHeight})
			} else {
				rows = append(rows, Row{Kind: RowUncommitted, Lane: lane, Height: m.CompactRowHeight})
			}
		}

		node := n
		rows = append(rows, Row{Kind: RowNode, Node: &node, Lane: lane, Height: m.NodeRowHeight})

		for _, alias := range deduped.Aliases[n.ID] {
			label := alias.TimelineID
			if t, ok := in.Timelines[alias.TimelineID]; ok && t.Label != "" {
				label = t.Label
			}
			rows = append(rows, Row{
				Kind:           RowAliasNote,
				Lane:           lane,
				Height:         m.CompactRowHeight,
				NoteTimelineID: alias.TimelineID,
				NoteLabel:      label,
			})
		}
	}

	y := 0.0
	for i := range rows {
		rows[i].X = m.laneX(rows[i].Lane)
		rows[i].Y = y + rows[i].Height/2
		y += rows[i].Height
	}
	return rows, y
}
