package layout

import "fmt"

// Point is a 2D pixel coordinate.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Connector is the geometry of one line between two rows. Straight
// connectors have nil control points; curved ones carry the two cubic
// control points. Lane is the lane of the row the connector belongs to,
// which renderers use for color selection.
type Connector struct {
	From   Point  `json:"from" bson:"from"`
	To     Point  `json:"to" bson:"to"`
	Ctrl1  *Point `json:"ctrl1,omitempty" bson:"ctrl1,omitempty"`
	Ctrl2  *Point `json:"ctrl2,omitempty" bson:"ctrl2,omitempty"`
	Lane   int    `json:"lane" bson:"lane"`
	Dashed bool   `json:"dashed,omitempty" bson:"dashed,omitempty"`
}

// Curved reports whether the connector carries cubic control points.
func (c Connector) Curved() bool { return c.Ctrl1 != nil && c.Ctrl2 != nil }

// Path renders the connector as an SVG path string: a single line segment
// for straight connectors, a cubic curve otherwise.
func (c Connector) Path() string {
	if c.Curved() {
		return fmt.Sprintf("M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f",
			c.From.X, c.From.Y, c.Ctrl1.X, c.Ctrl1.Y, c.Ctrl2.X, c.Ctrl2.Y, c.To.X, c.To.Y)
	}
	return fmt.Sprintf("M %.1f %.1f L %.1f %.1f", c.From.X, c.From.Y, c.To.X, c.To.Y)
}

// buildConnectors derives the connector list from the finished rows.
//
// Node rows link to each parent that has a row of its own; unresolvable
// parents draw nothing. Same-lane links are straight verticals between the
// row midpoints, cross-lane links are cubic curves; both stop at the dot
// edge rather than its center. Synthetic rows get dashed links: uncommitted
// rows lead into the current node, ghost rows branch off it, and alias notes
// hang off their node row with a short decorative hook.
func buildConnectors(rows []Row, m Metrics) []Connector {
	rowIdx := make(map[string]int, len(rows))
	for i, r := range rows {
		if r.Kind == RowNode && r.Node != nil {
			rowIdx[r.Node.ID] = i
		}
	}

	var out []Connector
	for i, r := range rows {
		switch r.Kind {
		case RowNode:
			for _, p := range r.Node.ParentIDs {
				j, ok := rowIdx[p]
				if !ok {
					continue
				}
				out = append(out, link(r, rows[j], m, false))
			}
		case RowUncommitted:
			if j := nextNodeRow(rows, i); j >= 0 {
				out = append(out, link(r, rows[j], m, true))
			}
		case RowGhost:
			// The ghost is a future fork: the connector leaves the
			// current node and curves up into the ghost row.
			if j := nextNodeRow(rows, i); j >= 0 {
				c := link(rows[j], r, m, true)
				c.Lane = r.Lane
				out = append(out, c)
			}
		case RowAliasNote:
			if j := prevNodeRow(rows, i); j >= 0 {
				out = append(out, aliasHook(rows[j], r, m))
			}
		}
	}
	return out
}

// link connects an upper row to a lower one between dot edges. The roles are
// named child/parent after the common case; the defensive fallback order can
// place a child below its parent, which just flips the offsets.
func link(child, parent Row, m Metrics, dashed bool) Connector {
	from := Point{X: child.X, Y: child.Y + m.DotRadius}
	to := Point{X: parent.X, Y: parent.Y - m.DotRadius}
	if child.Y > parent.Y {
		from.Y = child.Y - m.DotRadius
		to.Y = parent.Y + m.DotRadius
	}

	c := Connector{From: from, To: to, Lane: child.Lane, Dashed: dashed}
	if child.Lane != parent.Lane {
		midY := (from.Y + to.Y) / 2
		c.Ctrl1 = &Point{X: from.X, Y: midY}
		c.Ctrl2 = &Point{X: to.X, Y: midY}
	}
	return c
}

// aliasHook draws the short dashed curve from a node row to its alias note,
// indented half a lane so the note reads as an annotation, not history.
func aliasHook(node, note Row, m Metrics) Connector {
	from := Point{X: node.X, Y: node.Y + m.DotRadius}
	to := Point{X: note.X + m.LaneSpacing/2, Y: note.Y}
	midY := (from.Y + to.Y) / 2
	return Connector{
		From:   from,
		To:     to,
		Ctrl1:  &Point{X: from.X, Y: midY},
		Ctrl2:  &Point{X: to.X, Y: midY},
		Lane:   node.Lane,
		Dashed: true,
	}
}

func nextNodeRow(rows []Row, from int) int {
	for i := from + 1; i < len(rows); i++ {
		if rows[i].Kind == RowNode {
			return i
		}
	}
	return -1
}

func prevNodeRow(rows []Row, from int) int {
	for i := from - 1; i >= 0; i-- {
		if rows[i].Kind == RowNode {
			return i
		}
	}
	return -1
}
