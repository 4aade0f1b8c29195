// Package layout turns a document's snapshot history into a lane/row/connector
// model, visually equivalent to `git log --graph --all`.
//
// # Overview
//
// Snapgraph draws a branching version history: the active line of work runs
// down the leftmost rail (the trunk, lane 0), forks occupy lanes to its
// right, and synthetic rows visualize unsaved state. The engine is a pure
// function over its inputs - it never reads ambient state, retains nothing
// between calls, and produces byte-identical output for identical input.
//
// Three stages run in order, each consuming only the previous stage's output:
//
//  1. Deduplication (package snapshot): first occurrences become primary
//     nodes, repeats become alias annotations.
//  2. Lane and order resolution: [AssignLanes] walks the current node's
//     ancestry to form the trunk, then [OrderNodes] interleaves branch
//     groups into the trunk at their fork points.
//  3. Row and connector building: ordered nodes expand into display rows
//     (including uncommitted, ghost, and alias-note rows), then pixel
//     geometry and SVG-style path strings are derived.
//
// # Basic Usage
//
// Call [Build] with the flattened history feed and the two editor-state
// flags; the result feeds a renderer:
//
//	res, err := layout.Build(layout.Input{
//	    Nodes:       nodes,
//	    Dirty:       true,
//	    ViewingPast: false,
//	})
//	if err != nil {
//	    return err
//	}
//	for _, row := range res.Rows {
//	    // draw row.Kind at (row.X, row.Y)
//	}
//
// Geometry is configurable through [WithMetrics]; repeated reactive calls
// should go through [Memo], which caches results keyed on the full input.
//
// # Error Policy
//
// The engine absorbs malformed data instead of failing: parent references
// that resolve to no row are skipped, extra current markers beyond the first
// are ignored, and branches without a reachable fork point append at the end
// of the order. Only non-finite timestamps surface as errors.
package layout
