package store

import (
	"context"
	"errors"
	"testing"
)

func titles(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Title
	}
	return out
}

func mustList(t *testing.T, s Store) []Entry {
	t.Helper()
	got, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	return got
}

func TestStore_SeedMoveList(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	if _, err := s.Seed(ctx, 5); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := s.Move(ctx, 0, 3); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if got, want := titles(mustList(t, s)), []string{"2", "3", "4", "1", "5"}; !equalIDs(got, want) {
		t.Fatalf("expected %v; got %v", want, got)
	}
	if err := s.Move(ctx, 4, 0); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if got, want := titles(mustList(t, s)), []string{"5", "2", "3", "4", "1"}; !equalIDs(got, want) {
		t.Fatalf("expected %v; got %v", want, got)
	}
}

func TestStore_ManyMovesKeepOrder(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	if _, err := s.Seed(ctx, 20); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	// Repeatedly moving the last entry to the front squeezes ranks at the head.
	for i := 0; i < 30; i++ {
		if err := s.Move(ctx, 19, 0); err != nil {
			t.Fatalf("Move #%d: %v", i, err)
		}
	}
	got := mustList(t, s)
	// 30 rotations of 20 items is 10 rotations: the list starts at "11".
	if got[0].Title != "11" || got[19].Title != "10" {
		t.Fatalf("unexpected order after rotations: %v", titles(got))
	}
}

func TestStore_AddAppends(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	if _, err := s.Seed(ctx, 3); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	e, err := s.Add(ctx, "  new  ")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if e.Title != "new" || e.ID == "" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if got, want := titles(mustList(t, s)), []string{"1", "2", "3", "new"}; !equalIDs(got, want) {
		t.Fatalf("expected %v; got %v", want, got)
	}
	if _, err := s.Add(ctx, " "); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestStore_AddToEmptyList(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	if _, err := s.Add(ctx, "first"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := s.Add(ctx, "second"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got, want := titles(mustList(t, s)), []string{"first", "second"}; !equalIDs(got, want) {
		t.Fatalf("expected %v; got %v", want, got)
	}
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	seeded, err := s.Seed(ctx, 3)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := s.Remove(ctx, seeded[1].ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got, want := titles(mustList(t, s)), []string{"1", "3"}; !equalIDs(got, want) {
		t.Fatalf("expected %v; got %v", want, got)
	}
	var nf NotFoundError
	if err := s.Remove(ctx, "e-missing"); !errors.As(err, &nf) || nf.ID != "e-missing" {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestStore_MoveOutOfRange(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	if _, err := s.Seed(ctx, 2); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	var pe PositionError
	if err := s.Move(ctx, 0, 2); !errors.As(err, &pe) {
		t.Fatalf("expected PositionError, got %v", err)
	}
	if got, want := titles(mustList(t, s)), []string{"1", "2"}; !equalIDs(got, want) {
		t.Fatalf("expected unchanged %v; got %v", want, got)
	}
}

func TestStore_TUIStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	st, err := s.LoadTUIState(ctx)
	if err != nil {
		t.Fatalf("LoadTUIState: %v", err)
	}
	if st.Version != 1 || st.DragDisabled {
		t.Fatalf("unexpected default state: %+v", st)
	}
	st.DragDisabled = true
	st.SelectedID = "e-abc"
	if err := s.SaveTUIState(ctx, st); err != nil {
		t.Fatalf("SaveTUIState: %v", err)
	}
	got, err := s.LoadTUIState(ctx)
	if err != nil {
		t.Fatalf("LoadTUIState: %v", err)
	}
	if !got.DragDisabled || got.SelectedID != "e-abc" {
		t.Fatalf("unexpected loaded state: %+v", got)
	}
}

func TestStore_CorruptTUIStateLoadsDefault(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	if err := s.metaSet(ctx, tuiStateKey, "{not json"); err != nil {
		t.Fatalf("metaSet: %v", err)
	}
	st, err := s.LoadTUIState(ctx)
	if err != nil || st.Version != 1 || st.DragDisabled {
		t.Fatalf("expected default state, got %+v err=%v", st, err)
	}
}

func TestStore_ModTimeAdvancesOnWrite(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	if !s.ModTime().IsZero() {
		t.Fatalf("expected zero mod time before the database exists")
	}
	if _, err := s.Add(context.Background(), "first"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if s.ModTime().IsZero() {
		t.Fatalf("expected a mod time after a write")
	}
}
