package workflow

import "hireflow/workflow-service/internal/catalog"

// ReverseRecords returns a new slice with records in reverse order. The
// store hands back history newest-first; skip reconstruction needs
// oldest-first pairwise comparison, and the reversal is kept explicit rather
// than assumed of the source.
func ReverseRecords(records []TransitionRecord) []TransitionRecord {
	out := make([]TransitionRecord, len(records))
	for i, r := range records {
		out[len(records)-1-i] = r
	}
	return out
}

// ReconstructSkips computes, for each record in an oldest-first history,
// which statuses were skipped relative to the immediately preceding record —
// regardless of how the transition originally happened (manual, bulk, or
// import). Soft-deleted records participate like any other.
//
// The result is sparse: only indices with a non-empty skip slice are
// present. Consumers test map membership to decide whether to render a
// skip warning, so an empty slice must not appear as an entry.
func ReconstructSkips(cat *catalog.Catalog, oldestFirst []TransitionRecord) map[int][]catalog.Status {
	skips := make(map[int][]catalog.Status)
	for i := 1; i < len(oldestFirst); i++ {
		prev, ok := cat.Index(oldestFirst[i-1].Status)
		if !ok {
			prev = -1
		}
		cur, ok := cat.Index(oldestFirst[i].Status)
		if !ok {
			continue
		}
		if skipped := cat.Between(prev, cur); len(skipped) > 0 {
			skips[i] = skipped
		}
	}
	return skips
}
