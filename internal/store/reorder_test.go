package store

import (
	"errors"
	"testing"
	"time"
)

func entriesWithRanks(ranks ...string) []*Entry {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]*Entry, len(ranks))
	for i, r := range ranks {
		out[i] = &Entry{ID: string(rune('a' + i)), Rank: r, CreatedAt: now.Add(time.Duration(i) * time.Second)}
	}
	return out
}

func applyPlan(entries []*Entry, plan ReorderPlan) []string {
	for _, e := range entries {
		if r, ok := plan.RankByID[e.ID]; ok {
			e.Rank = r
		}
	}
	SortEntriesByRankOrder(entries)
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func TestPlanMove_FastPathTouchesOnlyMovedEntry(t *testing.T) {
	entries := entriesWithRanks("b", "h", "p", "v")
	plan, err := PlanMove(entries, 0, 3)
	if err != nil {
		t.Fatalf("PlanMove: %v", err)
	}
	if len(plan.RankByID) != 1 || plan.Rebalanced != nil {
		t.Fatalf("expected single rank update; got %+v", plan)
	}
	got := applyPlan(entries, plan)
	if want := []string{"b", "c", "d", "a"}; !equalIDs(got, want) {
		t.Fatalf("expected %v; got %v", want, got)
	}
}

func TestPlanMove_PrefixAdjacentBoundsRebalance(t *testing.T) {
	// No rank fits between "y" and "y0", so moving c between a and b rewrites a window.
	entries := entriesWithRanks("y", "y0", "z")
	plan, err := PlanMove(entries, 2, 1)
	if err != nil {
		t.Fatalf("PlanMove: %v", err)
	}
	if len(plan.Rebalanced) == 0 {
		t.Fatalf("expected a rebalanced window; got %+v", plan)
	}
	got := applyPlan(entries, plan)
	if want := []string{"a", "c", "b"}; !equalIDs(got, want) {
		t.Fatalf("expected %v; got %v", want, got)
	}
}

func TestPlanMove_DuplicateRanks(t *testing.T) {
	entries := entriesWithRanks("h", "h", "h", "h")
	plan, err := PlanMove(entries, 3, 1)
	if err != nil {
		t.Fatalf("PlanMove: %v", err)
	}
	got := applyPlan(entries, plan)
	if want := []string{"a", "d", "b", "c"}; !equalIDs(got, want) {
		t.Fatalf("expected %v; got %v", want, got)
	}
}

func TestPlanMove_RangeAndNoop(t *testing.T) {
	entries := entriesWithRanks("a", "b")
	var pe PositionError
	if _, err := PlanMove(entries, 2, 0); !errors.As(err, &pe) || pe.Pos != 2 {
		t.Fatalf("expected PositionError for from=2, got %v", err)
	}
	if _, err := PlanMove(entries, 0, -1); !errors.As(err, &pe) || pe.Pos != -1 {
		t.Fatalf("expected PositionError for to=-1, got %v", err)
	}
	plan, err := PlanMove(entries, 1, 1)
	if err != nil || len(plan.RankByID) != 0 {
		t.Fatalf("expected empty plan for no-op move; got %+v err=%v", plan, err)
	}
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
