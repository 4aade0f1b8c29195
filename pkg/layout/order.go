package layout

import (
	"cmp"
	"maps"
	"slices"

	"github.com/lanewise/snapgraph/pkg/snapshot"
)

// OrderNodes produces the top-to-bottom display order for the primary nodes
// given their lane assignment.
//
// The trunk renders newest-first; each branch group renders newest-first as
// a contiguous block inserted immediately above its fork point, mirroring
// how a branch-graph tool shows a branch leaving the trunk at the snapshot
// where divergence happened rather than scattering its rows by time.
//
// # Algorithm
//
//  1. Partition nodes into the trunk (lane 0) and branch groups (one per
//     lane >= 1).
//  2. Sort the trunk and every group by timestamp descending; ties keep
//     input order.
//  3. A group's fork point is the trunk parent of its oldest member that
//     references the trunk (first matching entry in that member's
//     ParentIDs). Groups without one are orphans.
//  4. Walk the trunk top to bottom; before emitting a trunk node, emit every
//     group forking at it, in lane order.
//  5. Orphan groups append at the end in lane order. Anything still
//     unplaced appends in input order - a defensive fallback that a
//     well-formed feed never reaches.
func OrderNodes(primaries []snapshot.Node, lanes map[string]int) []snapshot.Node {
	if len(primaries) == 0 {
		return nil
	}

	var trunk []snapshot.Node
	groups := make(map[int][]snapshot.Node)
	for _, n := range primaries {
		if lane := lanes[n.ID]; lane == 0 {
			trunk = append(trunk, n)
		} else {
			groups[lane] = append(groups[lane], n)
		}
	}

	newestFirst := func(a, b snapshot.Node) int {
		return cmp.Compare(b.Timestamp, a.Timestamp)
	}
	slices.SortStableFunc(trunk, newestFirst)

	onTrunk := make(map[string]struct{}, len(trunk))
	for _, n := range trunk {
		onTrunk[n.ID] = struct{}{}
	}

	// Resolve fork points lane by lane so shared fork points emit their
	// branches in lane order.
	forksAt := make(map[string][]int)
	var orphans []int
	for _, lane := range slices.Sorted(maps.Keys(groups)) {
		group := groups[lane]
		slices.SortStableFunc(group, newestFirst)
		groups[lane] = group

		fork := ""
		for i := len(group) - 1; i >= 0 && fork == ""; i-- {
			for _, p := range group[i].ParentIDs {
				if _, ok := onTrunk[p]; ok {
					fork = p
					break
				}
			}
		}
		if fork == "" {
			orphans = append(orphans, lane)
		} else {
			forksAt[fork] = append(forksAt[fork], lane)
		}
	}

	out := make([]snapshot.Node, 0, len(primaries))
	placed := make(map[string]struct{}, len(primaries))
	emit := func(n snapshot.Node) {
		out = append(out, n)
		placed[n.ID] = struct{}{}
	}

	for _, tn := range trunk {
		for _, lane := range forksAt[tn.ID] {
			for _, n := range groups[lane] {
				emit(n)
			}
		}
		emit(tn)
	}
	for _, lane := range orphans {
		for _, n := range groups[lane] {
			emit(n)
		}
	}
	for _, n := range primaries {
		if _, ok := placed[n.ID]; !ok {
			emit(n)
		}
	}
	return out
}
