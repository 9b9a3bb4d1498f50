package tui

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"sortable-list/internal/sortable"
	"sortable-list/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"
)

func newTestApp(t *testing.T, n int) (appModel, store.Store) {
	t.Helper()
	s := store.Store{Dir: t.TempDir()}
	if n > 0 {
		if _, err := s.Seed(context.Background(), n); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	props := sortable.DefaultProperties()
	props.ScaleEnabled = false
	m := newAppModel(s, props, zerolog.Nop())
	m = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 20})
	m = pump(t, m, m.loadEntries(""))
	return m, s
}

func update(t *testing.T, m appModel, msg tea.Msg) appModel {
	t.Helper()
	mm, _ := m.Update(msg)
	am, ok := mm.(appModel)
	if !ok {
		t.Fatalf("expected appModel; got %T", mm)
	}
	return am
}

// pump runs cmd, feeds every message it produces back into the model, and repeats until
// no commands are left.
func pump(t *testing.T, m appModel, cmd tea.Cmd) appModel {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatalf("too many commands")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, reloadTickMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			mm, next := m.Update(msg)
			m = mm.(appModel)
			queue = append(queue, next)
		}
	}
	return m
}

func pressKey(t *testing.T, m appModel, k tea.KeyMsg) appModel {
	t.Helper()
	mm, cmd := m.Update(k)
	return pump(t, mm.(appModel), cmd)
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func storedTitles(t *testing.T, s store.Store) []string {
	t.Helper()
	entries, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Title
	}
	return out
}

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
)

func TestApp_DragPersistsOrder(t *testing.T) {
	m, s := newTestApp(t, 4)
	if m.list.Len() != 4 {
		t.Fatalf("expected 4 rows; got %d", m.list.Len())
	}

	m = pressKey(t, m, keySpace)
	if !*m.dragging {
		t.Fatalf("expected the dragging hook to fire")
	}
	if !strings.Contains(m.View(), "dragging") {
		t.Fatalf("expected dragging badge in header")
	}
	for i := 0; i < 3; i++ {
		m = pressKey(t, m, keyDown)
	}
	m = pressKey(t, m, keyEnter)

	if *m.dragging {
		t.Fatalf("expected drag to be over")
	}
	want := []string{"2", "3", "4", "1"}
	if got := storedTitles(t, s); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected stored order %v; got %v", want, got)
	}
	var shown []string
	for _, e := range m.list.Items() {
		shown = append(shown, e.Title)
	}
	if !reflect.DeepEqual(shown, want) {
		t.Fatalf("expected shown order %v; got %v", want, shown)
	}
	if m.writes != 0 {
		t.Fatalf("expected no writes in flight; got %d", m.writes)
	}
}

func TestApp_NudgeKeyPersists(t *testing.T) {
	m, s := newTestApp(t, 3)
	m = pressKey(t, m, runeKey("J"))
	if got := storedTitles(t, s); !reflect.DeepEqual(got, []string{"2", "1", "3"}) {
		t.Fatalf("unexpected stored order: %v", got)
	}
}

func TestApp_ToggleDragIsRemembered(t *testing.T) {
	m, s := newTestApp(t, 2)
	m = pressKey(t, m, runeKey("d"))
	if m.list.DragEnabled() {
		t.Fatalf("expected d to switch dragging off")
	}
	m = pressKey(t, m, keySpace)
	if *m.dragging {
		t.Fatalf("expected no drag while switched off")
	}

	st, err := s.LoadTUIState(context.Background())
	if err != nil || !st.DragDisabled {
		t.Fatalf("expected drag-disabled state to be saved; got %+v err=%v", st, err)
	}
	props := sortable.DefaultProperties()
	again := newAppModel(s, props, zerolog.Nop())
	if again.list.DragEnabled() {
		t.Fatalf("expected a new session to start with dragging off")
	}
}

func TestApp_AddSelectsNewEntry(t *testing.T) {
	m, s := newTestApp(t, 2)
	m = pressKey(t, m, runeKey("a"))
	if m.mode != modeAdd {
		t.Fatalf("expected add mode")
	}
	m = pressKey(t, m, runeKey("third"))
	m = pressKey(t, m, keyEnter)

	if got := storedTitles(t, s); !reflect.DeepEqual(got, []string{"1", "2", "third"}) {
		t.Fatalf("unexpected stored titles: %v", got)
	}
	if m.list.Cursor() != 2 {
		t.Fatalf("expected cursor on the new entry; got %d", m.list.Cursor())
	}
}

func TestApp_AddEmptyTitleShowsError(t *testing.T) {
	m, s := newTestApp(t, 1)
	m = pressKey(t, m, runeKey("a"))
	m = pressKey(t, m, keyEnter)
	if !m.statusErr {
		t.Fatalf("expected an error status")
	}
	if got := storedTitles(t, s); len(got) != 1 {
		t.Fatalf("expected nothing added; got %v", got)
	}
}

func TestApp_RemoveSelected(t *testing.T) {
	m, s := newTestApp(t, 3)
	m = pressKey(t, m, keyDown)
	m = pressKey(t, m, runeKey("x"))
	if got := storedTitles(t, s); !reflect.DeepEqual(got, []string{"1", "3"}) {
		t.Fatalf("unexpected stored titles: %v", got)
	}
	if m.list.Len() != 2 {
		t.Fatalf("expected list to shrink; got %d", m.list.Len())
	}
}

func TestApp_ReloadPicksUpOtherWriters(t *testing.T) {
	m, s := newTestApp(t, 2)
	if _, err := s.Add(context.Background(), "from cli"); err != nil {
		t.Fatalf("add: %v", err)
	}
	m = pressKey(t, m, runeKey("r"))
	if m.list.Len() != 3 {
		t.Fatalf("expected reload to show 3 rows; got %d", m.list.Len())
	}
}

func TestApp_HelpOverlay(t *testing.T) {
	t.Setenv("SORTABLE_TUI_MD_STYLE", "dark")
	m, _ := newTestApp(t, 1)
	m = pressKey(t, m, runeKey("?"))
	if !strings.Contains(xansi.Strip(m.View()), "Sortable list") {
		t.Fatalf("expected help overlay")
	}
	m = pressKey(t, m, runeKey("z"))
	if m.mode != modeList {
		t.Fatalf("expected any key to close help")
	}
}

func TestApp_EmptyView(t *testing.T) {
	m, _ := newTestApp(t, 0)
	if !strings.Contains(m.View(), "No items") {
		t.Fatalf("expected empty hint; got %q", m.View())
	}
}

func TestMoveEntry(t *testing.T) {
	in := []store.Entry{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	ids := func(es []store.Entry) string {
		var b strings.Builder
		for _, e := range es {
			b.WriteString(e.ID)
		}
		return b.String()
	}
	if got := ids(moveEntry(in, 0, 3)); got != "bcda" {
		t.Fatalf("expected bcda; got %s", got)
	}
	if got := ids(moveEntry(in, 3, 1)); got != "adbc" {
		t.Fatalf("expected adbc; got %s", got)
	}
	if got := ids(moveEntry(in, 0, 9)); got != "abcd" {
		t.Fatalf("expected out of range to be a no-op; got %s", got)
	}
	if ids(in) != "abcd" {
		t.Fatalf("expected input to stay untouched")
	}
}
