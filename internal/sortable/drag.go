package sortable

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// NoPosition marks an unset session position.
const NoPosition = -1

// Session is the state of one drag gesture.
type Session struct {
	// Origin is the first source position seen this gesture. It never changes once set.
	Origin int
	// LastTarget is the most recent target position.
	LastTarget int
	// Moved reports whether at least one speculative move happened.
	Moved bool
}

// Active reports whether the session has seen at least one move.
func (s Session) Active() bool { return s.Origin != NoPosition }

func emptySession() Session {
	return Session{Origin: NoPosition, LastTarget: NoPosition}
}

// Direction is a drag direction. Only vertical directions are handled.
type Direction int

const (
	DirUp Direction = 1 << iota
	DirDown
	DirLeft
	DirRight
)

// EndReason says why a drag ended.
type EndReason int

const (
	EndReleased EndReason = iota
	EndCancelled
)

func (r EndReason) String() string {
	if r == EndCancelled {
		return "cancelled"
	}
	return "released"
}

// Result describes how a drag ended.
type Result struct {
	Committed bool
	From, To  int
	Reason    EndReason
	// Skipped is why no commit happened on release: ErrStaleSession, ErrOutOfRange or
	// ErrDegenerateMove. Nil when committed or cancelled.
	Skipped error
}

// Feedback is the transient visual state of the dragged row.
type Feedback struct {
	Active    bool
	Position  int
	Opacity   float64
	Scale     float64
	Highlight lipgloss.TerminalColor
}

func baselineFeedback() Feedback {
	return Feedback{Position: NoPosition, Opacity: 1, Scale: 1}
}

// Controller is the drag state machine: Idle -> Dragging -> Idle.
type Controller[T any] struct {
	adapter *Adapter[T]
	props   Properties
	log     zerolog.Logger

	onDraggingChange func(bool)

	attached bool
	dragging bool
	ending   bool
	session  Session
	feedback Feedback
}

type ControllerOption[T any] func(*Controller[T])

// WithDraggingChange registers a hook told whenever an item starts or stops being dragged.
func WithDraggingChange[T any](fn func(dragging bool)) ControllerOption[T] {
	return func(c *Controller[T]) { c.onDraggingChange = fn }
}

func WithControllerLogger[T any](l zerolog.Logger) ControllerOption[T] {
	return func(c *Controller[T]) { c.log = l }
}

func NewController[T any](adapter *Adapter[T], props Properties, opts ...ControllerOption[T]) *Controller[T] {
	props = props.Normalize()
	c := &Controller[T]{
		adapter:  adapter,
		props:    props,
		log:      zerolog.Nop(),
		attached: props.DragEnabled,
		session:  emptySession(),
		feedback: baselineFeedback(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Attach allows new drags to start.
func (c *Controller[T]) Attach() { c.attached = true }

// Detach refuses new drags. A drag already in progress runs to its end.
func (c *Controller[T]) Detach() { c.attached = false }

func (c *Controller[T]) Attached() bool { return c.attached }
func (c *Controller[T]) Dragging() bool { return c.dragging }
func (c *Controller[T]) Session() Session {
	return c.session
}
func (c *Controller[T]) Feedback() Feedback { return c.feedback }

// HandlesDirection reports whether moves in d are handled. Horizontal moves pass through.
func (c *Controller[T]) HandlesDirection(d Direction) bool {
	return d&(DirUp|DirDown) != 0 && d&(DirLeft|DirRight) == 0
}

// Select puts the item at pos into active-drag mode and applies the drag feedback.
func (c *Controller[T]) Select(pos int) bool {
	if !c.attached || c.dragging {
		return false
	}
	if pos < 0 || pos >= c.adapter.ItemCount() {
		c.log.Debug().Err(errOutOfRange("select", pos, c.adapter.ItemCount())).Msg("drop select")
		return false
	}
	c.dragging = true
	c.session = emptySession()
	c.adapter.beginDrag()
	c.feedback = Feedback{
		Active:    true,
		Position:  pos,
		Opacity:   c.props.Opacity,
		Scale:     1,
		Highlight: c.props.Highlight,
	}
	if c.props.ScaleEnabled {
		c.feedback.Scale = c.props.ScaleFactor
	}
	c.log.Debug().Int("pos", pos).Msg("drag selected")
	if c.onDraggingChange != nil {
		c.onDraggingChange(true)
	}
	return true
}

// Move handles a move candidate: the dragged item at source crossed into target's slot.
func (c *Controller[T]) Move(source, target int) bool {
	if !c.dragging || c.ending {
		return false
	}
	if source == target {
		return false
	}
	to, ok := c.adapter.moveItem(source, target)
	if !ok {
		return false
	}
	if c.session.Origin == NoPosition {
		c.session.Origin = source
	}
	c.session.LastTarget = to
	c.session.Moved = true
	c.feedback.Position = to
	return true
}

// End finishes the drag. A release commits (origin, lastTarget) when both are recorded
// and still inside the list, including a list the host pushed during the drag; a cancel
// never commits. Either way the session and the feedback go back to baseline.
func (c *Controller[T]) End(reason EndReason) Result {
	if !c.dragging || c.ending {
		return Result{Reason: reason, Skipped: ErrStaleSession}
	}
	c.ending = true
	defer func() { c.ending = false }()

	s := c.session
	res := Result{From: s.Origin, To: s.LastTarget, Reason: reason}
	if reason == EndReleased {
		res.Skipped = c.validate(s)
		if res.Skipped == nil {
			res.Committed = c.adapter.CommitReorder(s.Origin, s.LastTarget)
			if !res.Committed {
				res.Skipped = ErrStaleSession
			}
		}
	}

	c.dragging = false
	c.session = emptySession()
	c.feedback = baselineFeedback()
	c.adapter.endDrag(s.Moved && !res.Committed)

	ev := c.log.Debug().Stringer("reason", reason).Bool("committed", res.Committed)
	if res.Skipped != nil {
		ev = ev.AnErr("skipped", res.Skipped)
	}
	ev.Int("from", res.From).Int("to", res.To).Msg("drag ended")
	if c.onDraggingChange != nil {
		c.onDraggingChange(false)
	}
	return res
}

func (c *Controller[T]) validate(s Session) error {
	if s.Origin == NoPosition || s.LastTarget == NoPosition {
		return ErrStaleSession
	}
	n := c.adapter.syncedCount()
	if s.Origin >= n {
		return errOutOfRange("commit", s.Origin, n)
	}
	if s.LastTarget >= n {
		return errOutOfRange("commit", s.LastTarget, n)
	}
	if s.Origin == s.LastTarget {
		return ErrDegenerateMove
	}
	return nil
}
