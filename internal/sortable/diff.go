package sortable

import (
	"context"

	"github.com/pkg/diff/edit"
	"github.com/pkg/diff/myers"
)

// OpKind is the kind of a structural list operation.
type OpKind int

const (
	OpInsert OpKind = iota
	OpRemove
	OpMove
	OpChange
)

func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpRemove:
		return "remove"
	case OpMove:
		return "move"
	case OpChange:
		return "change"
	default:
		return "unknown"
	}
}

// Op is a single structural operation. Ops are applied in order and each op's positions
// refer to the list as left by the previous ops.
//
//   - OpInsert: Count items inserted at Pos.
//   - OpRemove: Count items removed starting at Pos.
//   - OpMove:   the item at Pos relocated to To.
//   - OpChange: Count items starting at Pos changed content in place.
type Op struct {
	Kind  OpKind
	Pos   int
	To    int
	Count int
}

// Callback holds the optional identity and content predicates of a diff.
//
// The zero value treats every pair of items as the same entity with the same content,
// which turns a same-length replacement into "replace + settle" with no structural ops.
// Moves are only ever reported when ItemsTheSame is set; the adapter's explicit move API
// is what drives move feedback during a drag.
type Callback[T any] struct {
	ItemsTheSame    func(a, b T) bool
	ContentsTheSame func(a, b T) bool
}

func (cb Callback[T]) same(a, b T) bool {
	if cb.ItemsTheSame == nil {
		return true
	}
	return cb.ItemsTheSame(a, b)
}

func (cb Callback[T]) contentSame(a, b T) bool {
	if cb.ContentsTheSame == nil {
		return true
	}
	return cb.ContentsTheSame(a, b)
}

type diffPair[T any] struct {
	a, b []T
	cb   Callback[T]
}

func (p *diffPair[T]) LenA() int { return len(p.a) }
func (p *diffPair[T]) LenB() int { return len(p.b) }
func (p *diffPair[T]) Equal(ai, bi int) bool {
	return p.cb.same(p.a[ai], p.b[bi])
}

// Diff computes the ops that turn old into new.
func Diff[T any](old, new []T, cb Callback[T]) []Op {
	if len(old) == 0 && len(new) == 0 {
		return nil
	}
	script := myers.Diff(context.Background(), &diffPair[T]{a: old, b: new, cb: cb})

	// target[i] is the index in new that old[i] ends up at, or -1 when it is removed.
	target := make([]int, len(old))
	for i := range target {
		target[i] = -1
	}
	claimed := make([]bool, len(new))
	var removed []int
	for _, r := range script.Ranges {
		switch r.Op() {
		case edit.Eq:
			for k := 0; k < r.HighA-r.LowA; k++ {
				target[r.LowA+k] = r.LowB + k
				claimed[r.LowB+k] = true
			}
		case edit.Del:
			for i := r.LowA; i < r.HighA; i++ {
				removed = append(removed, i)
			}
		}
	}

	// Pair removed items with inserted items of the same identity.
	if cb.ItemsTheSame != nil {
		for _, i := range removed {
			for j := range new {
				if claimed[j] || !cb.ItemsTheSame(old[i], new[j]) {
					continue
				}
				target[i] = j
				claimed[j] = true
				break
			}
		}
	}

	var ops []Op

	// Removals back to front so earlier positions stay valid.
	work := make([]int, 0, len(old)) // survivors: index into old
	for i := len(old) - 1; i >= 0; i-- {
		if target[i] >= 0 {
			continue
		}
		if n := len(ops); n > 0 && ops[n-1].Kind == OpRemove && ops[n-1].Pos == i+1 {
			ops[n-1].Pos = i
			ops[n-1].Count++
			continue
		}
		ops = append(ops, Op{Kind: OpRemove, Pos: i, Count: 1})
	}
	for i := range old {
		if target[i] >= 0 {
			work = append(work, i)
		}
	}

	// Build the final order front to back: inserts for unclaimed slots, moves for
	// survivors that are not yet in place.
	const inserted = -1
	for j := range new {
		if !claimed[j] {
			if n := len(ops); n > 0 && ops[n-1].Kind == OpInsert && ops[n-1].Pos+ops[n-1].Count == j {
				ops[n-1].Count++
			} else {
				ops = append(ops, Op{Kind: OpInsert, Pos: j, Count: 1})
			}
			work = insertAt(work, j, inserted)
			continue
		}
		k := j
		for k < len(work) && (work[k] == inserted || target[work[k]] != j) {
			k++
		}
		if k == len(work) || k == j {
			continue
		}
		ops = append(ops, Op{Kind: OpMove, Pos: k, To: j, Count: 1})
		work = moveWithin(work, k, j)
	}

	if cb.ContentsTheSame != nil {
		for j, oi := range work {
			if oi == inserted || j >= len(new) || cb.contentSame(old[oi], new[j]) {
				continue
			}
			if n := len(ops); n > 0 && ops[n-1].Kind == OpChange && ops[n-1].Pos+ops[n-1].Count == j {
				ops[n-1].Count++
				continue
			}
			ops = append(ops, Op{Kind: OpChange, Pos: j, Count: 1})
		}
	}
	return ops
}

func insertAt[E any](xs []E, i int, v E) []E {
	var zero E
	xs = append(xs, zero)
	copy(xs[i+1:], xs[i:])
	xs[i] = v
	return xs
}

// moveWithin relocates xs[from] to index to, shifting the elements in between by one.
func moveWithin[E any](xs []E, from, to int) []E {
	v := xs[from]
	if from < to {
		copy(xs[from:to], xs[from+1:to+1])
	} else {
		copy(xs[to+1:from+1], xs[to:from])
	}
	xs[to] = v
	return xs
}

// Submission is one authoritative list handed to a Differ.
type Submission[T any] struct {
	Gen  uint64
	List []T
	Ops  []Op

	rev      uint64
	old      []T
	computed bool
}

// Differ owns the displayed list and serializes replacements: only the most recently
// prepared submission can be applied, older ones are dropped whole.
type Differ[T any] struct {
	cb      Callback[T]
	current []T
	gen     uint64
	// rev counts mutations of current; a submission computed against an older revision
	// is recomputed when applied.
	rev uint64
}

func NewDiffer[T any](cb Callback[T]) *Differ[T] {
	return &Differ[T]{cb: cb}
}

// Current returns the displayed list. Callers must not modify it.
func (d *Differ[T]) Current() []T { return d.current }

func (d *Differ[T]) Generation() uint64 { return d.gen }

// Prepare registers list as the latest submission. It supersedes every earlier one.
func (d *Differ[T]) Prepare(list []T) Submission[T] {
	d.gen++
	return Submission[T]{
		Gen:  d.gen,
		List: append([]T(nil), list...),
		rev:  d.rev,
		old:  d.current,
	}
}

// Compute fills in the ops of a prepared submission. It only reads snapshots, so it is
// safe to run off the event loop.
func (d *Differ[T]) Compute(s Submission[T]) Submission[T] {
	s.Ops = Diff(s.old, s.List, d.cb)
	s.computed = true
	return s
}

// Apply swaps the displayed list to s.List. It reports false when s was superseded.
func (d *Differ[T]) Apply(s Submission[T]) ([]Op, bool) {
	if s.Gen != d.gen {
		return nil, false
	}
	if !s.computed || s.rev != d.rev {
		s.old = d.current
		s = d.Compute(s)
	}
	d.current = s.List
	d.rev++
	return s.Ops, true
}

// Submit prepares, computes and applies list in one step.
func (d *Differ[T]) Submit(list []T) []Op {
	ops, _ := d.Apply(d.Compute(d.Prepare(list)))
	return ops
}

// move relocates an item of the displayed list. The list is copied first so snapshots
// held by in-flight submissions stay intact.
func (d *Differ[T]) move(from, to int) {
	next := append([]T(nil), d.current...)
	d.current = moveWithin(next, from, to)
	d.rev++
}
