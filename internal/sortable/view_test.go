package sortable

import (
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func plainRow(_ int, item string, _ RowState) string { return item }

func newTestModel(items []string, height int, opts ...Option[string]) (Model[string], *[]placement) {
	var calls []placement
	props := DefaultProperties()
	props.ScaleEnabled = false
	opts = append([]Option[string]{WithProperties[string](props)}, opts...)
	m := New(plainRow, func(from, to int) { calls = append(calls, placement{from, to}) }, opts...)
	m.SetSize(20, height)
	m.SetItemsSync(items)
	return m, &calls
}

// drain runs cmd and every command it batches, returning the resulting messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func press(m Model[string], k tea.KeyMsg) (Model[string], []tea.Msg) {
	m, cmd := m.Update(k)
	return m, drain(cmd)
}

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEscape}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyPgDn  = tea.KeyMsg{Type: tea.KeyPgDown}
)

func TestModel_KeyboardDragEmitsPlacement(t *testing.T) {
	m, calls := newTestModel([]string{"1", "2", "3", "4"}, 10)

	m, _ = press(m, keySpace)
	if !m.Dragging() {
		t.Fatalf("expected space to start a drag")
	}
	for i := 0; i < 3; i++ {
		m, _ = press(m, keyDown)
	}
	m, msgs := press(m, keyEnter)

	if m.Dragging() {
		t.Fatalf("expected enter to end the drag")
	}
	if !reflect.DeepEqual(*calls, []placement{{0, 3}}) {
		t.Fatalf("expected placement (0,3); got %v", *calls)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected one message; got %#v", msgs)
	}
	pc, ok := msgs[0].(PlacementChangedMsg)
	if !ok || pc.From != 0 || pc.To != 3 || pc.ListID != m.ID() {
		t.Fatalf("unexpected placement message: %#v", msgs[0])
	}
	if got := m.Items(); !reflect.DeepEqual(got, []string{"2", "3", "4", "1"}) {
		t.Fatalf("unexpected order: %v", got)
	}
	if m.Cursor() != 3 {
		t.Fatalf("expected cursor to follow the dropped item; got %d", m.Cursor())
	}
}

func TestModel_EscCancelsDrag(t *testing.T) {
	m, calls := newTestModel([]string{"a", "b", "c"}, 10)
	m, _ = press(m, keySpace)
	m, _ = press(m, keyDown)
	m, msgs := press(m, keyEsc)
	if m.Dragging() || len(*calls) != 0 || len(msgs) != 0 {
		t.Fatalf("expected cancel without placement; calls=%v msgs=%v", *calls, msgs)
	}
	if got := m.Items(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("expected original order; got %v", got)
	}
}

func TestModel_HorizontalAndPagingKeysDoNotMove(t *testing.T) {
	m, _ := newTestModel([]string{"a", "b", "c"}, 2)
	m, _ = press(m, keySpace)
	m, _ = press(m, keyRight)
	m, _ = press(m, keyPgDn)
	if pos := m.Controller().Feedback().Position; pos != 0 {
		t.Fatalf("expected dragged row to stay at 0; got %d", pos)
	}
	if got := m.Items(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("expected unchanged order; got %v", got)
	}
}

func TestModel_DragStopsAtEdges(t *testing.T) {
	m, calls := newTestModel([]string{"a", "b"}, 10)
	m, _ = press(m, keySpace)
	m, _ = press(m, keyUp)
	m, _ = press(m, keyEnter)
	if len(*calls) != 0 {
		t.Fatalf("expected no placement when dragging past the top; got %v", *calls)
	}
}

func TestModel_DragDisabled(t *testing.T) {
	m, _ := newTestModel([]string{"a", "b"}, 10)
	m.SetDragEnabled(false)
	m, _ = press(m, keySpace)
	if m.Dragging() {
		t.Fatalf("expected no drag while disabled")
	}
	m, _ = press(m, keyDown)
	if m.Cursor() != 1 {
		t.Fatalf("expected cursor navigation to keep working; got %d", m.Cursor())
	}
	m.SetDragEnabled(true)
	m, _ = press(m, keySpace)
	if !m.Dragging() {
		t.Fatalf("expected drag after re-enabling")
	}
}

func TestModel_MouseDrag(t *testing.T) {
	m, calls := newTestModel([]string{"a", "b", "c", "d"}, 10)
	m.SetTop(2)

	m, _ = m.Update(tea.MouseMsg{Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !m.Dragging() {
		t.Fatalf("expected press on a row to start a drag")
	}
	m, _ = m.Update(tea.MouseMsg{Y: 4, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m, cmd := m.Update(tea.MouseMsg{Y: 4, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	drain(cmd)

	if !reflect.DeepEqual(*calls, []placement{{0, 2}}) {
		t.Fatalf("expected placement (0,2); got %v", *calls)
	}
	if got := m.Items(); !reflect.DeepEqual(got, []string{"b", "c", "a", "d"}) {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestModel_ScrollPositionSurvivesAppend(t *testing.T) {
	m, _ := newTestModel(numbered(300), 10)
	for i := 0; i < 5; i++ {
		m, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	}
	if m.Offset() != 5 {
		t.Fatalf("expected offset 5; got %d", m.Offset())
	}
	m.SetItemsSync(numbered(301))
	if m.Len() != 301 {
		t.Fatalf("expected 301 items; got %d", m.Len())
	}
	if m.Offset() != 5 {
		t.Fatalf("expected offset to stay 5; got %d", m.Offset())
	}
	if got := m.Items()[:300]; !reflect.DeepEqual(got, numbered(300)) {
		t.Fatalf("expected original 300 items in order; got %v", got[:5])
	}
}

func TestModel_ReloadKeepsScrolledOutCursor(t *testing.T) {
	m, _ := newTestModel(numbered(300), 10)
	for i := 0; i < 5; i++ {
		m, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	}
	m.SetItemsSync(numbered(301))
	if m.Cursor() != 0 {
		t.Fatalf("expected cursor to stay 0; got %d", m.Cursor())
	}
	if m.Offset() != 5 {
		t.Fatalf("expected offset 5; got %d", m.Offset())
	}
}

func TestModel_AsyncSetItemsLastWins(t *testing.T) {
	m, _ := newTestModel([]string{"a"}, 10)
	first := m.SetItems([]string{"x"})
	second := m.SetItems([]string{"y", "z"})

	m, _ = m.Update(second())
	m, _ = m.Update(first())
	if got := m.Items(); !reflect.DeepEqual(got, []string{"y", "z"}) {
		t.Fatalf("expected latest items; got %v", got)
	}
}

func TestModel_SetItemsDuringDragIsHeld(t *testing.T) {
	m, _ := newTestModel([]string{"a", "b", "c"}, 10)
	m, _ = press(m, keySpace)
	m, _ = press(m, keyDown)
	m, _ = m.Update(m.SetItems([]string{"q"})())
	if got := m.Items(); !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Fatalf("expected speculative order during drag; got %v", got)
	}
	m, _ = press(m, keyEsc)
	if got := m.Items(); !reflect.DeepEqual(got, []string{"q"}) {
		t.Fatalf("expected held list after drag; got %v", got)
	}
}

func TestModel_StaleAsyncListDuringDragIsDropped(t *testing.T) {
	m, _ := newTestModel([]string{"a", "b", "c"}, 10)
	stale := m.SetItems([]string{"OLD1", "OLD2"})
	m, _ = press(m, keySpace)
	m.SetItemsSync([]string{"NEW1", "NEW2", "NEW3", "NEW4"})
	m, _ = m.Update(stale())
	m, _ = press(m, keyEsc)
	want := []string{"NEW1", "NEW2", "NEW3", "NEW4"}
	if got := m.Items(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v; got %v", want, got)
	}
}

func TestModel_IgnoresOtherListsMessages(t *testing.T) {
	m, _ := newTestModel([]string{"a"}, 10)
	other, _ := newTestModel([]string{"a"}, 10)
	msg := other.SetItems([]string{"other"})()
	m, _ = m.Update(msg)
	if got := m.Items(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("expected message for another list to be ignored; got %v", got)
	}
}

func TestModel_ViewFillsHeight(t *testing.T) {
	props := DefaultProperties()
	props.ScaleEnabled = false
	props.Spacing = 1
	m, _ := newTestModel([]string{"alpha", "beta", "gamma"}, 4, WithProperties[string](props))
	lines := strings.Split(m.View(), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines; got %d: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], "alpha") || !strings.Contains(lines[2], "beta") {
		t.Fatalf("unexpected layout: %q", lines)
	}
	if strings.TrimSpace(lines[1]) != "" {
		t.Fatalf("expected spacing line; got %q", lines[1])
	}
}

func TestFitRowPadsAndCuts(t *testing.T) {
	got := fitRow("abcdef\nxy", 4, 3)
	want := []string{"abcd", "xy  ", "    "}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %q; got %q", want, got)
	}
}

func TestGutterFor(t *testing.T) {
	if g := gutterFor(100, 1.05); g != 3 {
		t.Fatalf("expected gutter 3; got %d", g)
	}
	if g := gutterFor(100, 1); g != 0 {
		t.Fatalf("expected no gutter at scale 1; got %d", g)
	}
	if g := scaledGutter(3, 1.05, 1.05); g != 0 {
		t.Fatalf("expected full scale to use no gutter; got %d", g)
	}
}

func TestModel_NudgeMovesOneSlot(t *testing.T) {
	m, calls := newTestModel([]string{"a", "b", "c"}, 10)
	m, _ = press(m, keyDown)
	m, msgs := press(m, tea.KeyMsg{Type: tea.KeyShiftDown})
	if m.Dragging() {
		t.Fatalf("expected nudge to leave no drag behind")
	}
	if !reflect.DeepEqual(*calls, []placement{{1, 2}}) {
		t.Fatalf("expected placement (1,2); got %v", *calls)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected one placement message; got %#v", msgs)
	}
	if got := m.Items(); !reflect.DeepEqual(got, []string{"a", "c", "b"}) {
		t.Fatalf("unexpected order: %v", got)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyShiftDown})
	if len(*calls) != 1 {
		t.Fatalf("expected no placement past the bottom edge; got %v", *calls)
	}
}
