package store

import (
	"sort"
	"strings"
)

// ReorderPlan is the set of rank updates that realizes an index move.
type ReorderPlan struct {
	// RankByID holds only the entries whose rank changes.
	RankByID map[string]string
	// Rebalanced lists, in final order, the entries of the rewritten window when the
	// moved entry's neighbours left no room for a single new rank.
	Rebalanced []string
}

// SortEntriesByRankOrder sorts by rank, then creation time, then id. Entries without a
// rank sort by creation time alone.
func SortEntriesByRankOrder(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return compareEntries(entries[i], entries[j]) < 0
	})
}

func compareEntries(a, b *Entry) int {
	ra, rb := strings.TrimSpace(a.Rank), strings.TrimSpace(b.Rank)
	if ra != "" && rb != "" && ra != rb {
		return strings.Compare(ra, rb)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		if a.CreatedAt.Before(b.CreatedAt) {
			return -1
		}
		return 1
	}
	return strings.Compare(a.ID, b.ID)
}

// PlanMove plans the rank updates that move the entry at index from to index to of the
// rank-ordered list. Both indices refer to the list before the move; to is the final
// position of the moved entry.
func PlanMove(ordered []*Entry, from, to int) (ReorderPlan, error) {
	n := len(ordered)
	if from < 0 || from >= n {
		return ReorderPlan{}, PositionError{Pos: from, Len: n}
	}
	if to < 0 || to >= n {
		return ReorderPlan{}, PositionError{Pos: to, Len: n}
	}
	plan := ReorderPlan{RankByID: map[string]string{}}
	if from == to {
		return plan, nil
	}

	moved := ordered[from]
	final := make([]*Entry, 0, n)
	for i, e := range ordered {
		if i != from {
			final = append(final, e)
		}
	}
	final = append(final[:to], append([]*Entry{moved}, final[to:]...)...)

	if r, ok := rankAt(final, to, takenRanks(final, map[string]bool{moved.ID: true})); ok {
		plan.RankByID[moved.ID] = r
		return plan, nil
	}

	// Moving up rewrites the displaced entries below rather than the ones above.
	lo, hi := smallestWindow(final, to, to < from)
	skip := map[string]bool{}
	for i := lo; i <= hi; i++ {
		skip[final[i].ID] = true
	}
	taken := takenRanks(final, skip)
	lower, upper := outerRanks(final, lo, hi)
	for i := lo; i <= hi; i++ {
		r, err := RankBetweenUnique(taken, lower, upper)
		if err != nil {
			return ReorderPlan{}, err
		}
		taken[r] = true
		plan.RankByID[final[i].ID] = r
		plan.Rebalanced = append(plan.Rebalanced, final[i].ID)
		lower = r
	}
	return plan, nil
}

func takenRanks(entries []*Entry, skip map[string]bool) map[string]bool {
	taken := map[string]bool{}
	for _, e := range entries {
		if skip[e.ID] {
			continue
		}
		if r := normRank(e.Rank); r != "" {
			taken[r] = true
		}
	}
	return taken
}

// outerRanks returns the ranks just outside the window [lo, hi]; empty means open.
func outerRanks(final []*Entry, lo, hi int) (string, string) {
	lower, upper := "", ""
	if lo > 0 {
		lower = normRank(final[lo-1].Rank)
	}
	if hi+1 < len(final) {
		upper = normRank(final[hi+1].Rank)
	}
	return lower, upper
}

// rankAt tries to rank final[i] between its immediate neighbours.
func rankAt(final []*Entry, i int, taken map[string]bool) (string, bool) {
	lower, upper := outerRanks(final, i, i)
	if lower != "" && upper != "" && lower >= upper {
		return "", false
	}
	r, err := RankBetweenUnique(taken, lower, upper)
	if err != nil {
		return "", false
	}
	return r, true
}

// smallestWindow finds the smallest [lo, hi] around i whose outer ranks are open or strictly
// increasing and wide enough for hi-lo+1 new ranks.
func smallestWindow(final []*Entry, i int, preferBelow bool) (int, int) {
	fits := func(lo, hi int) bool {
		lower, upper := outerRanks(final, lo, hi)
		if lower != "" && upper != "" && lower >= upper {
			return false
		}
		cur := lower
		for k := lo; k <= hi; k++ {
			r, err := RankBetween(cur, upper)
			if err != nil {
				return false
			}
			cur = r
		}
		return true
	}
	for size := 1; size <= len(final); size++ {
		first := max(i-size+1, 0)
		last := min(i, len(final)-size)
		if preferBelow {
			for lo := last; lo >= first; lo-- {
				if fits(lo, lo+size-1) {
					return lo, lo + size - 1
				}
			}
			continue
		}
		for lo := first; lo <= last; lo++ {
			if fits(lo, lo+size-1) {
				return lo, lo + size - 1
			}
		}
	}
	return 0, len(final) - 1
}
