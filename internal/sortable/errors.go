package sortable

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange reports a position outside [0, ItemCount()).
	ErrOutOfRange = errors.New("position out of range")
	// ErrDegenerateMove reports a move whose source equals its target.
	ErrDegenerateMove = errors.New("degenerate move")
	// ErrStaleSession reports a drag end without a recorded origin or target.
	ErrStaleSession = errors.New("stale drag session")
)

// RangeError describes which operation received an out-of-range position.
type RangeError struct {
	Op  string
	Pos int
	Len int
}

func (e RangeError) Error() string {
	return fmt.Sprintf("%s: position %d out of range [0, %d)", e.Op, e.Pos, e.Len)
}

func (e RangeError) Unwrap() error { return ErrOutOfRange }

func errOutOfRange(op string, pos, n int) error {
	return RangeError{Op: op, Pos: pos, Len: n}
}
