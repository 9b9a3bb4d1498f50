package sortable

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"
)

// RowState is what a Renderer knows about the row it draws.
type RowState struct {
	Selected bool
	Dragged  bool
	// Width is the number of columns available to the row.
	Width int
}

// Renderer draws the item bound at pos. It must be pure; pos is the current position and
// changes as items move.
type Renderer[T any] func(pos int, item T, st RowState) string

// PlacementChangedMsg is emitted once per completed drag that moved an item.
type PlacementChangedMsg struct {
	ListID   int
	From, To int
}

type diffSettledMsg[T any] struct {
	id  int
	sub Submission[T]
}

type scaleFrameMsg struct{ id int }

var lastID int64

func nextID() int { return int(atomic.AddInt64(&lastID, 1)) }

// Styles holds the row styles. Foreground and Background are the colors opacity feedback
// blends between; they must be hex colors for the blend, otherwise faint text is used.
type Styles struct {
	Row        lipgloss.Style
	Selected   lipgloss.Style
	Foreground lipgloss.Color
	Background lipgloss.Color
}

func DefaultStyles() Styles {
	return Styles{
		Row: lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("236")).
			Bold(true),
		Foreground: lipgloss.Color("#eeeeee"),
		Background: lipgloss.Color("#303030"),
	}
}

type settings[T any] struct {
	props            Properties
	keys             KeyMap
	styles           Styles
	diff             Callback[T]
	log              zerolog.Logger
	rowHeight        int
	onDraggingChange func(bool)
}

type Option[T any] func(*settings[T])

func WithProperties[T any](p Properties) Option[T] {
	return func(s *settings[T]) { s.props = p }
}

func WithKeyMap[T any](k KeyMap) Option[T] {
	return func(s *settings[T]) { s.keys = k }
}

func WithStyles[T any](st Styles) Option[T] {
	return func(s *settings[T]) { s.styles = st }
}

// WithItemCallback opts into structural diffing of authoritative replacements.
func WithItemCallback[T any](cb Callback[T]) Option[T] {
	return func(s *settings[T]) { s.diff = cb }
}

func WithLogger[T any](l zerolog.Logger) Option[T] {
	return func(s *settings[T]) { s.log = l }
}

// WithRowHeight sets the number of lines every row occupies (default 1).
func WithRowHeight[T any](h int) Option[T] {
	return func(s *settings[T]) {
		if h > 0 {
			s.rowHeight = h
		}
	}
}

// WithOnDraggingChange is told whenever an item starts or stops being dragged.
func WithOnDraggingChange[T any](fn func(bool)) Option[T] {
	return func(s *settings[T]) { s.onDraggingChange = fn }
}

// Model is a Bubble Tea sortable list. It wires a Controller and an Adapter to a terminal
// surface and keeps the scroll position across authoritative list replacements.
type Model[T any] struct {
	KeyMap KeyMap
	Styles Styles

	id        int
	adapter   *Adapter[T]
	drag      *Controller[T]
	vp        *viewport
	anim      *scaleAnim
	mouseDrag *bool
	render    Renderer[T]
	props     Properties

	width, height int
	rowHeight     int
	// top is the screen row of the first list line, used for mouse hit-testing.
	top int
}

// New returns an empty list. onPlacementChange receives (from, to) once per completed drag
// that actually moved an item; the host applies the permutation to its own list and pushes
// it back with SetItems.
func New[T any](render Renderer[T], onPlacementChange func(from, to int), opts ...Option[T]) Model[T] {
	s := settings[T]{
		props:     DefaultProperties(),
		keys:      DefaultKeyMap(),
		styles:    DefaultStyles(),
		log:       zerolog.Nop(),
		rowHeight: 1,
	}
	for _, opt := range opts {
		opt(&s)
	}
	s.props = s.props.Normalize()

	vp := &viewport{page: 1}
	adapter := NewAdapter(onPlacementChange,
		WithDiffCallback(s.diff),
		WithSurface[T](vp),
		WithAdapterLogger[T](s.log),
	)
	drag := NewController(adapter, s.props,
		WithDraggingChange[T](s.onDraggingChange),
		WithControllerLogger[T](s.log),
	)
	anim := newScaleAnim()
	mouseDrag := false
	return Model[T]{
		KeyMap:    s.keys,
		Styles:    s.styles,
		id:        nextID(),
		adapter:   adapter,
		drag:      drag,
		vp:        vp,
		anim:      &anim,
		mouseDrag: &mouseDrag,
		render:    render,
		props:     s.props,
		rowHeight: s.rowHeight,
	}
}

func (m Model[T]) ID() int                    { return m.id }
func (m Model[T]) Adapter() *Adapter[T]       { return m.adapter }
func (m Model[T]) Controller() *Controller[T] { return m.drag }
func (m Model[T]) Items() []T                 { return m.adapter.Items() }
func (m Model[T]) Len() int                   { return m.adapter.ItemCount() }
func (m Model[T]) Cursor() int                { return m.vp.cursor }
func (m Model[T]) Offset() int                { return m.vp.offset }
func (m Model[T]) Dragging() bool             { return m.drag.Dragging() }
func (m Model[T]) DragEnabled() bool          { return m.props.DragEnabled }
func (m Model[T]) Properties() Properties     { return m.props }

// SelectedItem returns the item under the cursor.
func (m Model[T]) SelectedItem() (T, bool) {
	it, err := m.adapter.Bind(m.vp.cursor)
	return it, err == nil
}

// SetItems replaces the authoritative list. The diff is computed in a command and applied
// when its message comes back; a later SetItems supersedes an earlier one still in flight.
func (m *Model[T]) SetItems(items []T) tea.Cmd {
	sub := m.adapter.prepare(items)
	id := m.id
	differ := m.adapter.differ
	return func() tea.Msg {
		return diffSettledMsg[T]{id: id, sub: differ.Compute(sub)}
	}
}

// SetItemsSync replaces the authoritative list immediately.
func (m *Model[T]) SetItemsSync(items []T) {
	m.adapter.Display(items)
}

// SetDragEnabled attaches or detaches the drag controller. Disabling during a drag lets
// that drag finish.
func (m *Model[T]) SetDragEnabled(on bool) {
	m.props.DragEnabled = on
	if on {
		m.drag.Attach()
	} else {
		m.drag.Detach()
	}
}

func (m *Model[T]) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.vp.setPage(m.fullRows())
}

// SetTop tells the list on which screen row it is drawn.
func (m *Model[T]) SetTop(y int) { m.top = y }

// Select moves the cursor to pos.
func (m *Model[T]) Select(pos int) {
	m.vp.cursor = pos
	m.vp.clampCursor()
	m.vp.ensureVisible()
}

func (m Model[T]) slot() int { return m.rowHeight + m.props.Spacing }

// fullRows is the number of rows that fit on screen completely. The spacing after the
// last row does not need to fit.
func (m Model[T]) fullRows() int {
	if m.height <= 0 {
		return 1
	}
	n := (m.height + m.props.Spacing) / m.slot()
	if n < 1 {
		n = 1
	}
	return n
}

func (m Model[T]) Init() tea.Cmd { return nil }

func (m Model[T]) Update(msg tea.Msg) (Model[T], tea.Cmd) {
	switch msg := msg.(type) {
	case diffSettledMsg[T]:
		if msg.id == m.id {
			m.adapter.apply(msg.sub)
		}
		return m, nil

	case scaleFrameMsg:
		if msg.id == m.id && m.anim.step() {
			return m, m.frame()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m Model[T]) handleKey(msg tea.KeyMsg) (Model[T], tea.Cmd) {
	dragging := m.drag.Dragging()
	switch {
	case key.Matches(msg, m.KeyMap.Cancel):
		if dragging {
			return m, m.end(EndCancelled)
		}
	case key.Matches(msg, m.KeyMap.Grab):
		if dragging {
			return m, m.end(EndReleased)
		}
		_, cmd := m.grab(m.vp.cursor)
		return m, cmd
	case key.Matches(msg, m.KeyMap.Drop):
		if dragging {
			return m, m.end(EndReleased)
		}
	case key.Matches(msg, m.KeyMap.MoveUp), key.Matches(msg, m.KeyMap.MoveDown):
		if dragging {
			return m, nil
		}
		d := DirDown
		if key.Matches(msg, m.KeyMap.MoveUp) {
			d = DirUp
		}
		return m, m.nudge(d)
	case key.Matches(msg, m.KeyMap.CursorUp):
		if dragging {
			m.step(DirUp)
			return m, nil
		}
		m.vp.moveCursor(-1)
	case key.Matches(msg, m.KeyMap.CursorDown):
		if dragging {
			m.step(DirDown)
			return m, nil
		}
		m.vp.moveCursor(1)
	case key.Matches(msg, m.KeyMap.Left):
		m.step(DirLeft)
	case key.Matches(msg, m.KeyMap.Right):
		m.step(DirRight)
	case dragging:
		// Paging while holding a row is not a move candidate.
	case key.Matches(msg, m.KeyMap.PageUp):
		m.vp.moveCursor(-m.vp.page)
	case key.Matches(msg, m.KeyMap.PageDown):
		m.vp.moveCursor(m.vp.page)
	case key.Matches(msg, m.KeyMap.GoToStart):
		m.vp.moveCursor(-m.vp.count)
	case key.Matches(msg, m.KeyMap.GoToEnd):
		m.vp.moveCursor(m.vp.count)
	}
	return m, nil
}

func (m Model[T]) handleMouse(msg tea.MouseMsg) (Model[T], tea.Cmd) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.vp.scrollTo(m.vp.offset - 1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.vp.scrollTo(m.vp.offset + 1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		row, ok := m.rowAt(msg.Y)
		if !ok || m.drag.Dragging() {
			return m, nil
		}
		m.vp.cursor = row
		ok, cmd := m.grab(row)
		*m.mouseDrag = ok
		return m, cmd
	case msg.Action == tea.MouseActionMotion && *m.mouseDrag:
		m.dragTo(m.rowNear(msg.Y))
	case msg.Action == tea.MouseActionRelease && *m.mouseDrag:
		*m.mouseDrag = false
		return m, m.end(EndReleased)
	}
	return m, nil
}

// rowAt returns the row drawn at screen row y. Spacing lines belong to the row above.
func (m Model[T]) rowAt(y int) (int, bool) {
	rel := y - m.top
	if rel < 0 || rel >= m.height {
		return 0, false
	}
	row := m.vp.offset + rel/m.slot()
	if row >= m.adapter.ItemCount() {
		return 0, false
	}
	return row, true
}

// rowNear is like rowAt but maps pointers above or below the list to the row just
// outside the viewport, so dragging past an edge keeps scrolling.
func (m Model[T]) rowNear(y int) int {
	rel := y - m.top
	switch {
	case rel < 0:
		return m.vp.offset - 1
	case rel >= m.height:
		return m.vp.offset + m.vp.page
	default:
		return m.vp.offset + rel/m.slot()
	}
}

func (m Model[T]) grab(pos int) (bool, tea.Cmd) {
	if !m.drag.Select(pos) {
		return false, nil
	}
	m.vp.cursor = pos
	if m.props.ScaleEnabled && m.anim.retarget(pos, m.props.ScaleFactor) {
		return true, m.frame()
	}
	return true, nil
}

// step offers the adjacent slot in direction d as a move candidate.
func (m Model[T]) step(d Direction) bool {
	if !m.drag.Dragging() || !m.drag.HandlesDirection(d) {
		return false
	}
	pos := m.drag.Feedback().Position
	target := pos + 1
	if d == DirUp {
		target = pos - 1
	}
	if target < 0 || target >= m.adapter.ItemCount() {
		return false
	}
	if !m.drag.Move(pos, target) {
		return false
	}
	m.anim.row = target
	m.vp.ensureVisible()
	return true
}

// nudge is a whole drag in one key press: grab the selected row, step once, release.
func (m Model[T]) nudge(d Direction) tea.Cmd {
	ok, grabCmd := m.grab(m.vp.cursor)
	if !ok {
		return nil
	}
	m.step(d)
	return tea.Batch(grabCmd, m.end(EndReleased))
}

// dragTo walks the dragged item toward row one slot at a time, the way a pointer crosses
// row boundaries.
func (m Model[T]) dragTo(row int) {
	n := m.adapter.ItemCount()
	if n == 0 {
		return
	}
	row = clampPos(row, n)
	for m.drag.Dragging() {
		pos := m.drag.Feedback().Position
		if pos == row {
			return
		}
		d := DirDown
		if row < pos {
			d = DirUp
		}
		if !m.step(d) {
			return
		}
	}
}

func (m Model[T]) end(reason EndReason) tea.Cmd {
	row := m.drag.Feedback().Position
	res := m.drag.End(reason)
	var cmds []tea.Cmd
	if m.anim.retarget(row, 1) {
		cmds = append(cmds, m.frame())
	}
	m.vp.ensureVisible()
	if res.Committed {
		msg := PlacementChangedMsg{ListID: m.id, From: res.From, To: res.To}
		cmds = append(cmds, func() tea.Msg { return msg })
	}
	return tea.Batch(cmds...)
}

func (m Model[T]) frame() tea.Cmd {
	id := m.id
	return tea.Tick(scaleFrameDelay(), func(time.Time) tea.Msg { return scaleFrameMsg{id: id} })
}

func (m Model[T]) scaleFactor() float64 {
	if !m.props.ScaleEnabled {
		return 1
	}
	return m.props.ScaleFactor
}

func (m Model[T]) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	factor := m.scaleFactor()
	rest := gutterFor(m.width, factor)
	fb := m.drag.Feedback()
	n := m.adapter.ItemCount()

	lines := make([]string, 0, m.height+m.slot())
	for i := m.vp.offset; i < n && len(lines) < m.height; i++ {
		item, err := m.adapter.Bind(i)
		if err != nil {
			break
		}
		gutter := rest
		if i == m.anim.row {
			gutter = scaledGutter(rest, m.anim.pos, factor)
		}
		w := m.width - 2*gutter
		st := RowState{
			Selected: i == m.vp.cursor,
			Dragged:  fb.Active && i == fb.Position,
			Width:    w,
		}
		style := m.rowStyle(st, fb)
		pad := strings.Repeat(" ", gutter)
		for _, l := range fitRow(m.render(i, item, st), w, m.rowHeight) {
			lines = append(lines, pad+style.Render(l)+pad)
		}
		for s := 0; s < m.props.Spacing; s++ {
			lines = append(lines, "")
		}
	}
	if len(lines) > m.height {
		lines = lines[:m.height]
	}
	for len(lines) < m.height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model[T]) rowStyle(st RowState, fb Feedback) lipgloss.Style {
	style := m.Styles.Row
	if st.Selected {
		style = m.Styles.Selected
	}
	if !st.Dragged {
		return style
	}
	if fb.Opacity < 1 {
		if c, ok := fade(m.Styles.Foreground, m.Styles.Background, fb.Opacity); ok {
			style = style.Foreground(c)
		} else {
			style = style.Faint(true)
		}
	}
	if fb.Highlight != nil {
		style = style.Background(fb.Highlight)
	}
	return style
}

// fitRow cuts or pads the rendered row to exactly height lines of width columns.
func fitRow(s string, width, height int) []string {
	src := strings.Split(s, "\n")
	out := make([]string, height)
	for i := range out {
		line := ""
		if i < len(src) {
			line = src[i]
		}
		lw := xansi.StringWidth(line)
		if lw < width {
			line += strings.Repeat(" ", width-lw)
		} else if lw > width {
			line = xansi.Cut(line, 0, width)
		}
		out[i] = line
	}
	return out
}
