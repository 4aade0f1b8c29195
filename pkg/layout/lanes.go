package layout

import "github.com/lanewise/snapgraph/pkg/snapshot"

// AssignLanes computes the display lane for every primary node and the total
// lane count.
//
// Lane 0 is the trunk: the full lineage leading to the current position,
// drawn as an unbroken leftmost rail. Every other physical lane (grouped by
// the backend's lane hint) gets the next integer lane in the order it is
// first encountered.
//
// # Algorithm
//
// AssignLanes resolves lanes in three steps:
//  1. With no current node (or no nodes at all) every node lands on lane 0
//     and the lane count is 1.
//  2. A breadth-first walk from the current node along ParentIDs collects
//     the trunk set. Nodes sharing the current node's lane hint join the
//     trunk too: they are newer, undiscarded history on the active physical
//     lane, ahead of a rewound position, even though they are not ancestors.
//  3. Remaining nodes group by lane hint; each distinct hint takes the next
//     unused lane starting at 1, in first-encounter order over primaries.
//
// Parent references that do not resolve to a primary node are skipped, so a
// partial history feed degrades to a shorter trunk instead of failing. A
// disconnected branch root simply receives its own lane in step 3.
//
// # Performance
//
// Time and space are O(V + E) where V is the number of primaries and E the
// total number of parent references.
func AssignLanes(primaries []snapshot.Node, currentID string) (map[string]int, int) {
	lanes := make(map[string]int, len(primaries))
	if currentID == "" || len(primaries) == 0 {
		for _, n := range primaries {
			lanes[n.ID] = 0
		}
		return lanes, 1
	}

	byID := make(map[string]snapshot.Node, len(primaries))
	for _, n := range primaries {
		byID[n.ID] = n
	}

	trunk := make(map[string]struct{}, len(primaries))
	trunk[currentID] = struct{}{}
	queue := []string{currentID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n, ok := byID[id]
		if !ok {
			continue
		}
		for _, p := range n.ParentIDs {
			if _, seen := trunk[p]; seen {
				continue
			}
			if _, ok := byID[p]; !ok {
				continue // unresolvable parent, tolerated
			}
			trunk[p] = struct{}{}
			queue = append(queue, p)
		}
	}

	if cur, ok := byID[currentID]; ok && cur.LaneHint != "" {
		for _, n := range primaries {
			if n.LaneHint == cur.LaneHint {
				trunk[n.ID] = struct{}{}
			}
		}
	}

	hintLane := make(map[string]int)
	next := 1
	for _, n := range primaries {
		if _, ok := trunk[n.ID]; ok {
			lanes[n.ID] = 0
			continue
		}
		lane, ok := hintLane[n.LaneHint]
		if !ok {
			lane = next
			hintLane[n.LaneHint] = lane
			next++
		}
		lanes[n.ID] = lane
	}

	return lanes, 1 + len(hintLane)
}
