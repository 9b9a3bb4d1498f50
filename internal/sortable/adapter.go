package sortable

import "github.com/rs/zerolog"

// Surface is the position-addressed rendering surface an Adapter keeps informed.
type Surface interface {
	Inserted(pos, n int)
	Removed(pos, n int)
	Moved(from, to int)
	Changed(pos, n int)
	// Settled is called once after an authoritative replacement has been applied.
	Settled(count int)
}

type nopSurface struct{}

func (nopSurface) Inserted(int, int) {}
func (nopSurface) Removed(int, int)  {}
func (nopSurface) Moved(int, int)    {}
func (nopSurface) Changed(int, int)  {}
func (nopSurface) Settled(int)       {}

// Adapter owns the displayed list and bridges it to a Surface.
//
// The displayed list follows the authoritative list through Display, and diverges from it
// only while a drag applies speculative moves.
type Adapter[T any] struct {
	differ            *Differ[T]
	surface           Surface
	onPlacementChange func(from, to int)
	log               zerolog.Logger

	// authoritative is the last list applied through Display.
	authoritative []T
	// moved is set by MoveItem and cleared by CommitReorder and at drag end.
	moved    bool
	dragging bool
	// pending holds an authoritative list that arrived during a drag.
	pending    []T
	hasPending bool
}

type AdapterOption[T any] func(*Adapter[T])

// WithDiffCallback sets the identity/content predicates used by Display.
func WithDiffCallback[T any](cb Callback[T]) AdapterOption[T] {
	return func(a *Adapter[T]) { a.differ = NewDiffer(cb) }
}

func WithSurface[T any](s Surface) AdapterOption[T] {
	return func(a *Adapter[T]) {
		if s != nil {
			a.surface = s
		}
	}
}

func WithAdapterLogger[T any](l zerolog.Logger) AdapterOption[T] {
	return func(a *Adapter[T]) { a.log = l }
}

// NewAdapter returns an empty adapter. onPlacementChange may be nil.
func NewAdapter[T any](onPlacementChange func(from, to int), opts ...AdapterOption[T]) *Adapter[T] {
	a := &Adapter[T]{
		differ:            NewDiffer(Callback[T]{}),
		surface:           nopSurface{},
		onPlacementChange: onPlacementChange,
		log:               zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Display replaces the displayed list with list. During a drag the list is held back and
// applied when the drag ends; Display then returns nil.
func (a *Adapter[T]) Display(list []T) []Op {
	if a.dragging {
		// Registering the list supersedes any SetItems still in flight.
		a.differ.Prepare(list)
		a.hold(list)
		return nil
	}
	ops := a.differ.Submit(list)
	a.settle(ops)
	return ops
}

// prepare and apply split Display for callers that compute the diff off the event loop.
func (a *Adapter[T]) prepare(list []T) Submission[T] {
	return a.differ.Prepare(list)
}

func (a *Adapter[T]) apply(s Submission[T]) ([]Op, bool) {
	if s.Gen != a.differ.Generation() {
		a.log.Debug().Uint64("gen", s.Gen).Msg("drop superseded submission")
		return nil, false
	}
	if a.dragging {
		a.hold(s.List)
		return nil, false
	}
	ops, ok := a.differ.Apply(s)
	if ok {
		a.settle(ops)
	}
	return ops, ok
}

func (a *Adapter[T]) hold(list []T) {
	a.pending = append([]T(nil), list...)
	a.hasPending = true
	a.log.Debug().Int("count", len(list)).Msg("defer authoritative list until drag end")
}

func (a *Adapter[T]) settle(ops []Op) {
	a.authoritative = a.differ.Current()
	for _, op := range ops {
		switch op.Kind {
		case OpInsert:
			a.surface.Inserted(op.Pos, op.Count)
		case OpRemove:
			a.surface.Removed(op.Pos, op.Count)
		case OpMove:
			a.surface.Moved(op.Pos, op.To)
		case OpChange:
			a.surface.Changed(op.Pos, op.Count)
		}
	}
	a.surface.Settled(a.ItemCount())
}

func (a *Adapter[T]) ItemCount() int { return len(a.differ.Current()) }

// syncedCount is the item count that stays valid once a list deferred during the drag is
// applied.
func (a *Adapter[T]) syncedCount() int {
	if a.hasPending {
		return min(len(a.pending), a.ItemCount())
	}
	return a.ItemCount()
}

// Items returns a copy of the displayed list.
func (a *Adapter[T]) Items() []T {
	return append([]T(nil), a.differ.Current()...)
}

// Bind returns the item displayed at pos.
func (a *Adapter[T]) Bind(pos int) (T, error) {
	cur := a.differ.Current()
	if pos < 0 || pos >= len(cur) {
		var zero T
		return zero, errOutOfRange("bind", pos, len(cur))
	}
	return cur[pos], nil
}

// MoveItem speculatively moves the item at from to to, shifting the items in between.
// from must be in range; to is clamped into [0, ItemCount()). It reports whether the list
// changed.
func (a *Adapter[T]) MoveItem(from, to int) bool {
	_, ok := a.moveItem(from, to)
	return ok
}

func (a *Adapter[T]) moveItem(from, to int) (int, bool) {
	n := a.ItemCount()
	if from < 0 || from >= n {
		a.log.Debug().Err(errOutOfRange("move", from, n)).Msg("drop move")
		return from, false
	}
	to = clampPos(to, n)
	if from == to {
		return to, false
	}
	a.differ.move(from, to)
	a.surface.Moved(from, to)
	a.moved = true
	return to, true
}

// CommitReorder reports (from, to) to the host, but only when at least one MoveItem
// happened since the last commit.
func (a *Adapter[T]) CommitReorder(from, to int) bool {
	if !a.moved {
		return false
	}
	a.moved = false
	a.log.Debug().Int("from", from).Int("to", to).Msg("commit reorder")
	if a.onPlacementChange != nil {
		a.onPlacementChange(from, to)
	}
	return true
}

func (a *Adapter[T]) beginDrag() {
	a.dragging = true
}

// endDrag leaves drag mode. restore puts the last authoritative list back on screen; a list
// deferred during the drag wins over it.
func (a *Adapter[T]) endDrag(restore bool) {
	a.dragging = false
	a.moved = false
	switch {
	case a.hasPending:
		list := a.pending
		a.pending, a.hasPending = nil, false
		a.Display(list)
	case restore:
		a.Display(a.authoritative)
	}
}

func clampPos(pos, n int) int {
	if pos < 0 {
		return 0
	}
	if pos >= n {
		return n - 1
	}
	return pos
}
