package snapshot

// Deduped is the output of [Dedupe]: the primary node list, the alias map,
// and the normalized current-position marker.
type Deduped struct {
	// Primaries holds the first occurrence of each snapshot ID, in input
	// order. No ID appears twice.
	Primaries []Node

	// Aliases maps a primary ID to its later occurrences, in encounter
	// order. Only IDs that actually repeat have an entry.
	Aliases map[string][]Alias

	// CurrentID is the ID of the current node, or "" when the feed has
	// none. When the feed violates the single-current invariant the first
	// occurrence wins and the rest are ignored.
	CurrentID string
}

// AliasCount returns the total number of alias occurrences across all IDs.
func (d Deduped) AliasCount() int {
	n := 0
	for _, as := range d.Aliases {
		n += len(as)
	}
	return n
}

// Dedupe splits the raw history feed into primary nodes and alias
// occurrences. The first occurrence of each ID becomes the primary; every
// later occurrence contributes an [Alias] entry instead of a row of its own,
// so len(Primaries) plus the total alias count always equals len(nodes).
//
// Dedupe also normalizes the current marker: the first node in feed order
// with IsCurrent set determines CurrentID, and the flag is rewritten on the
// primaries so at most one carries it. An empty feed yields empty outputs.
func Dedupe(nodes []Node) Deduped {
	out := Deduped{
		Primaries: make([]Node, 0, len(nodes)),
		Aliases:   make(map[string][]Alias),
	}

	seen := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if out.CurrentID == "" && n.IsCurrent {
			out.CurrentID = n.ID
		}
		if _, ok := seen[n.ID]; ok {
			out.Aliases[n.ID] = append(out.Aliases[n.ID], Alias{
				TimelineID: n.TimelineID,
				LaneHint:   n.LaneHint,
			})
			continue
		}
		seen[n.ID] = struct{}{}
		out.Primaries = append(out.Primaries, n)
	}

	for i := range out.Primaries {
		out.Primaries[i].IsCurrent = out.Primaries[i].ID == out.CurrentID
	}
	return out
}
